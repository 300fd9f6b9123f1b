package routes

import (
	"github.com/gin-gonic/gin"

	"anopog_wbs/internal/controllers"
)

func SMSRoutes(r *gin.Engine, sc *controllers.SMSController) {
	api := r.Group("/api")
	{
		api.POST("/send-sms", sc.SendSMS)
	}
}
