package routes

import (
	"github.com/gin-gonic/gin"

	"anopog_wbs/internal/controllers"
	"anopog_wbs/internal/middleware"
)

func UserRoutes(r *gin.Engine, uc *controllers.UserController) {
	api := r.Group("/api")
	{
		api.POST("/users", uc.CreateUser)
		api.POST("/login", uc.Login)
	}

	// Account administration requires a session token.
	protected := r.Group("/api")
	protected.Use(middleware.RequireAuth())
	{
		protected.GET("/users", uc.ListUsers)
		protected.GET("/users/:id", uc.GetUser)
		protected.PUT("/users/:id", uc.UpdateUser)
		protected.DELETE("/users/:id", uc.DeleteUser)
	}
}
