package routes

import (
	"github.com/labstack/echo/v4"

	"maintenance-system/internal/controllers"
)

// Чтение реестра оборудования открыто, мутации — за токеном.
func runEquipmentRouter(api *echo.Group, secure *echo.Group, ctrl *controllers.EquipmentController) {
	api.GET("/equipments", ctrl.GetEquipments)
	api.GET("/equipments/:id", ctrl.FindEquipment)
	api.GET("/equipments/:id/defaults", ctrl.GetDefaults)
	api.GET("/equipments/:id/open-requests-count", ctrl.CountOpenRequests)

	secure.POST("/equipments", ctrl.CreateEquipment)
	secure.PUT("/equipments/:id", ctrl.UpdateEquipment)
	secure.DELETE("/equipments/:id", ctrl.DeleteEquipment)
}
