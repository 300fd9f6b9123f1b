package routes

import (
	ginlog "github.com/gin-contrib/logger"
	"github.com/gin-gonic/gin"

	"anopog_wbs/internal/controllers"
)

// Controllers bundles everything the router needs; main wires it up.
type Controllers struct {
	Users   *controllers.UserController
	Billing *controllers.BillingController
	SMS     *controllers.SMSController
	WS      *controllers.WSController
}

func SetupRouter(ctrl Controllers) *gin.Engine {
	r := gin.New()
	r.Use(ginlog.SetLogger())
	r.Use(gin.Recovery())

	UserRoutes(r, ctrl.Users)
	BillingRoutes(r, ctrl.Billing)
	SMSRoutes(r, ctrl.SMS)
	WebSocketRoutes(r, ctrl.WS)

	return r
}
