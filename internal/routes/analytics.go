package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"delay-tracker/internal/controllers"
	"delay-tracker/internal/services"
)

func runAnalyticsRouter(
	secureGroup *echo.Group,
	analyticsService *services.AnalyticsService,
	recommendationService *services.RecommendationService,
	logger *zap.Logger,
) {
	analyticsCtrl := controllers.NewAnalyticsController(analyticsService, recommendationService, logger)

	analyticsGroup := secureGroup.Group("/analytics")
	{
		analyticsGroup.GET("/dashboard", analyticsCtrl.GetDashboard)
		analyticsGroup.GET("/summary", analyticsCtrl.GetSummary)
		analyticsGroup.GET("/breakdown", analyticsCtrl.GetCategoryBreakdown)
		analyticsGroup.GET("/trends", analyticsCtrl.GetTrends)
		analyticsGroup.GET("/by-order-type", analyticsCtrl.GetByOrderType)
		analyticsGroup.GET("/by-user", analyticsCtrl.GetByUser)
		analyticsGroup.GET("/impact", analyticsCtrl.GetImpact)
		analyticsGroup.GET("/recommendations", analyticsCtrl.GetRecommendations)
		analyticsGroup.GET("/delay-reasons", analyticsCtrl.GetDelayReasons)
	}
}
