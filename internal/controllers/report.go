package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"maintenance-system/internal/entities"
	"maintenance-system/internal/services"
	apperrors "maintenance-system/pkg/errors"
	"maintenance-system/pkg/utils"
)

type ReportController struct {
	reportService services.ReportServiceInterface
	logger        *zap.Logger
}

func NewReportController(reportService services.ReportServiceInterface, logger *zap.Logger) *ReportController {
	return &ReportController{reportService: reportService, logger: logger}
}

var requestReportHeaders = []string{
	"№", "Тема", "Тип", "Приоритет", "Статус", "Оборудование",
	"Бригада", "Техник", "Плановая дата", "Длительность (ч)", "Создана",
}

func requestRowToSlice(req entities.MaintenanceRequest) []interface{} {
	dateFmt := "02.01.2006 15:04"

	var equipmentName, teamName, technicianName string
	if req.Equipment != nil {
		equipmentName = req.Equipment.Name
	}
	if req.Team != nil {
		teamName = req.Team.Name
	}
	if req.Technician != nil {
		technicianName = req.Technician.Name
	}

	var scheduled, duration, createdAt string
	if req.ScheduledDate.Valid {
		scheduled = req.ScheduledDate.Time.Format(dateFmt)
	}
	if req.Duration.Valid {
		duration = fmt.Sprintf("%.2f", req.Duration.Float64)
	}
	if req.CreatedAt != nil {
		createdAt = req.CreatedAt.Format(dateFmt)
	}

	return []interface{}{
		req.ID, req.Subject, req.RequestType, req.Priority, req.Status,
		equipmentName, teamName, technicianName, scheduled, duration, createdAt,
	}
}

func (c *ReportController) exportFailed(ctx echo.Context, err error) error {
	c.logger.Error("ExportRequests: ошибка формирования xlsx", zap.Error(err))
	httpErr := apperrors.NewHttpError(http.StatusInternalServerError, "Не удалось сформировать отчёт", err, nil)
	return utils.ErrorResponse(ctx, httpErr, c.logger)
}

// ExportRequests выгружает заявки в xlsx (только Admin/Manager).
func (c *ReportController) ExportRequests(ctx echo.Context) error {
	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())

	data, err := c.reportService.GetRequestsForExport(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	f := excelize.NewFile()
	sheet := "Заявки на обслуживание"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return c.exportFailed(ctx, err)
	}
	if err := f.SetSheetRow(sheet, "A1", &requestReportHeaders); err != nil {
		return c.exportFailed(ctx, err)
	}

	// Оформление не критично для выгрузки: его сбои только логируем.
	if style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err != nil {
		c.logger.Warn("ExportRequests: не удалось создать стиль заголовка", zap.Error(err))
	} else if err := f.SetCellStyle(sheet, "A1", "K1", style); err != nil {
		c.logger.Warn("ExportRequests: не удалось применить стиль заголовка", zap.Error(err))
	}

	for i, req := range data {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return c.exportFailed(ctx, err)
		}
		row := requestRowToSlice(req)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return c.exportFailed(ctx, err)
		}
	}

	for _, w := range []struct {
		from, to string
		width    float64
	}{{"B", "B", 40}, {"C", "H", 20}, {"I", "K", 18}} {
		if err := f.SetColWidth(sheet, w.from, w.to, w.width); err != nil {
			c.logger.Warn("ExportRequests: не удалось задать ширину колонок", zap.Error(err))
		}
	}

	fileName := fmt.Sprintf("requests_%s.xlsx", time.Now().Format("2006-01-02"))
	ctx.Response().Header().Set(echo.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Response().Header().Set("Content-Disposition", "attachment; filename="+fileName)
	ctx.Response().WriteHeader(http.StatusOK)
	return f.Write(ctx.Response().Writer)
}
