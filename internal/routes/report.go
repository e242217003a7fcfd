package routes

import (
	"github.com/labstack/echo/v4"

	"maintenance-system/internal/controllers"
)

func runReportRouter(secure *echo.Group, ctrl *controllers.ReportController) {
	secure.GET("/reports/requests/export", ctrl.ExportRequests)
}
