package routes

import (
	"github.com/labstack/echo/v4"

	"maintenance-system/internal/controllers"
)

// Чтение бригад открыто (справочник для формы регистрации), создание — за токеном.
func runTeamRouter(api *echo.Group, secure *echo.Group, ctrl *controllers.TeamController) {
	api.GET("/teams", ctrl.GetTeams)
	api.GET("/teams/:id", ctrl.FindTeam)
	secure.POST("/teams", ctrl.CreateTeam)
}
