package routes

import (
	"github.com/gin-gonic/gin"

	"anopog_wbs/internal/controllers"
)

func WebSocketRoutes(r *gin.Engine, wc *controllers.WSController) {
	wsRoutes := r.Group("/ws")
	{
		wsRoutes.GET("/notifications", wc.HandleNotificationsWebSocket)
	}
}
