package routes

import (
	"github.com/labstack/echo/v4"

	"maintenance-system/internal/controllers"
)

func runAuthRouter(api *echo.Group, secure *echo.Group, ctrl *controllers.AuthController) {
	api.POST("/auth/signup", ctrl.Signup)
	api.POST("/auth/login", ctrl.Login)
	api.POST("/auth/refresh", ctrl.Refresh)
	secure.GET("/auth/me", ctrl.Me)
}
