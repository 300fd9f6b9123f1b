package routes

import (
	"github.com/gin-gonic/gin"

	"anopog_wbs/internal/controllers"
)

func BillingRoutes(r *gin.Engine, bc *controllers.BillingController) {
	api := r.Group("/api")
	{
		api.POST("/meter-reading", bc.SubmitMeterReading)
		api.POST("/bills", bc.SubmitBill)
		api.GET("/notifications", bc.ListNotifications)
	}
}
