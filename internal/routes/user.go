package routes

import (
	"github.com/labstack/echo/v4"

	"maintenance-system/internal/controllers"
)

// Чтение открыто, заведение пользователей — за токеном.
func runUserRouter(api *echo.Group, secure *echo.Group, ctrl *controllers.UserController) {
	api.GET("/users", ctrl.GetUsers)
	api.GET("/users/:id", ctrl.FindUser)

	secure.POST("/users", ctrl.CreateUser)
}
