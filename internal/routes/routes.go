package routes

import (
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"delay-tracker/internal/repositories"
	"delay-tracker/internal/services"
	"delay-tracker/pkg/config"
	"delay-tracker/pkg/middleware"
	"delay-tracker/pkg/service"
)

func InitRouter(e *echo.Echo, dbConn *pgxpool.Pool, redisClient *redis.Client, jwtSvc service.JWTService, logger *zap.Logger, cfg *config.Config) {
	api := e.Group("/api")
	authMW := middleware.NewAuthMiddleware(jwtSvc, logger)

	analyticsRepo := repositories.NewAnalyticsRepository(dbConn, logger)
	userRepo := repositories.NewUserRepository(dbConn, logger)
	cacheRepo := repositories.NewRedisCacheRepository(redisClient)

	analyticsService := services.NewAnalyticsService(analyticsRepo, userRepo, cacheRepo, cfg.Analytics.DashboardCacheTTL, logger)
	recommendationService := services.NewRecommendationService(analyticsRepo, userRepo, logger)
	authService := services.NewAuthService(userRepo, jwtSvc, logger)

	secureGroup := api.Group("", authMW.Auth)

	runAuthRouter(api, authService, logger)
	runAnalyticsRouter(secureGroup, analyticsService, recommendationService, logger)
}
