package controllers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"delay-tracker/internal/dto"
	"delay-tracker/internal/services"
	"delay-tracker/pkg/utils"
)

type AnalyticsController struct {
	analyticsService      *services.AnalyticsService
	recommendationService *services.RecommendationService
	logger                *zap.Logger
}

func NewAnalyticsController(
	analyticsService *services.AnalyticsService,
	recommendationService *services.RecommendationService,
	logger *zap.Logger,
) *AnalyticsController {
	return &AnalyticsController{
		analyticsService:      analyticsService,
		recommendationService: recommendationService,
		logger:                logger,
	}
}

// parseFilters pulls the shared analytics query parameters. Values pass
// through as-is; defaulting and coercion happen in the service layer.
func (c *AnalyticsController) parseFilters(ctx echo.Context) dto.AnalyticsFilterDTO {
	return dto.AnalyticsFilterDTO{
		Period:    ctx.QueryParam("period"),
		Category:  ctx.QueryParam("category"),
		User:      ctx.QueryParam("user"),
		OrderType: ctx.QueryParam("order_type"),
	}
}

func (c *AnalyticsController) GetDashboard(ctx echo.Context) error {
	resp, err := c.analyticsService.GetDashboard(ctx.Request().Context(), c.parseFilters(ctx))
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return ctx.JSON(http.StatusOK, resp)
}

func (c *AnalyticsController) GetSummary(ctx echo.Context) error {
	resp, err := c.analyticsService.GetSummary(ctx.Request().Context(), c.parseFilters(ctx))
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return ctx.JSON(http.StatusOK, resp)
}

func (c *AnalyticsController) GetCategoryBreakdown(ctx echo.Context) error {
	resp, err := c.analyticsService.GetCategoryBreakdown(ctx.Request().Context(), c.parseFilters(ctx))
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return ctx.JSON(http.StatusOK, resp)
}

func (c *AnalyticsController) GetTrends(ctx echo.Context) error {
	resp, err := c.analyticsService.GetTrends(ctx.Request().Context(), c.parseFilters(ctx))
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return ctx.JSON(http.StatusOK, resp)
}

func (c *AnalyticsController) GetByOrderType(ctx echo.Context) error {
	resp, err := c.analyticsService.GetByOrderType(ctx.Request().Context(), c.parseFilters(ctx))
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return ctx.JSON(http.StatusOK, resp)
}

func (c *AnalyticsController) GetByUser(ctx echo.Context) error {
	resp, err := c.analyticsService.GetByReporter(ctx.Request().Context(), c.parseFilters(ctx))
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return ctx.JSON(http.StatusOK, resp)
}

func (c *AnalyticsController) GetImpact(ctx echo.Context) error {
	resp, err := c.analyticsService.GetImpact(ctx.Request().Context(), c.parseFilters(ctx))
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return ctx.JSON(http.StatusOK, resp)
}

func (c *AnalyticsController) GetRecommendations(ctx echo.Context) error {
	resp, err := c.recommendationService.GetRecommendations(ctx.Request().Context(), c.parseFilters(ctx))
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return ctx.JSON(http.StatusOK, resp)
}

// GetDelayReasons lists the distinct reasons in the filtered view, either as
// JSON or as an xlsx export when format=xlsx.
func (c *AnalyticsController) GetDelayReasons(ctx echo.Context) error {
	resp, err := c.analyticsService.GetAllReasons(ctx.Request().Context(), c.parseFilters(ctx))
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	if strings.ToLower(ctx.QueryParam("format")) == "xlsx" {
		return c.respondWithXLSX(ctx, resp.Data)
	}

	return ctx.JSON(http.StatusOK, resp)
}

var delayReasonHeaders = []string{
	"ID", "Reason", "Category", "Category Label", "Count", "Percentage",
}

func (c *AnalyticsController) respondWithXLSX(ctx echo.Context, data []dto.DelayReasonItemDTO) error {
	f := excelize.NewFile()
	sheet := "Delay Reasons"
	f.SetSheetName("Sheet1", sheet)
	f.SetSheetRow(sheet, "A1", &delayReasonHeaders)
	style, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	f.SetCellStyle(sheet, "A1", "F1", style)

	for i, item := range data {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := []interface{}{
			item.ID, item.ReasonText, item.CategoryCode, item.CategoryLabel,
			item.Count, fmt.Sprintf("%.1f%%", item.Percentage),
		}
		f.SetSheetRow(sheet, cell, &row)
	}
	f.SetColWidth(sheet, "B", "B", 50)
	f.SetColWidth(sheet, "C", "D", 22)

	fileName := fmt.Sprintf("delay_reasons_%s.xlsx", time.Now().Format("2006-01-02"))
	ctx.Response().Header().Set(echo.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Response().Header().Set("Content-Disposition", "attachment; filename="+fileName)
	ctx.Response().WriteHeader(http.StatusOK)
	return f.Write(ctx.Response().Writer)
}
