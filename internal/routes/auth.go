package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"delay-tracker/internal/controllers"
	"delay-tracker/internal/services"
)

func runAuthRouter(api *echo.Group, authService *services.AuthService, logger *zap.Logger) {
	authCtrl := controllers.NewAuthController(authService, logger)

	api.POST("/login", authCtrl.Login)
}
