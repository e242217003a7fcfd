package routes

import (
	"github.com/labstack/echo/v4"

	"maintenance-system/internal/controllers"
)

// Все операции с заявками требуют актора: видимость списка зависит от роли.
func runRequestRouter(secure *echo.Group, ctrl *controllers.RequestController) {
	secure.GET("/requests", ctrl.GetRequests)
	secure.GET("/requests/:id", ctrl.FindRequest)
	secure.POST("/requests", ctrl.CreateRequest)
	secure.POST("/requests/:id/accept", ctrl.AcceptRequest)
	secure.PUT("/requests/:id", ctrl.UpdateStage)
	secure.DELETE("/requests/:id", ctrl.DeleteRequest)
}
