package utils

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "delay-tracker/pkg/errors"
)

type HttpResponse struct {
	Success bool        `json:"success"`
	Body    interface{} `json:"body,omitempty"`
	Message string      `json:"message"`
}

var errorStatusList = map[error]int{
	apperrors.ErrEmptyAuthHeader:    http.StatusUnauthorized,
	apperrors.ErrInvalidAuthHeader:  http.StatusUnauthorized,
	apperrors.ErrInvalidToken:       http.StatusUnauthorized,
	apperrors.ErrTokenExpired:       http.StatusUnauthorized,
	apperrors.ErrTokenIsNotAccess:   http.StatusUnauthorized,
	apperrors.ErrUnauthorized:       http.StatusUnauthorized,
	apperrors.ErrInvalidCredentials: http.StatusUnauthorized,
	apperrors.ErrForbidden:          http.StatusForbidden,
	apperrors.ErrUserNotFound:       http.StatusNotFound,
	apperrors.ErrNotFound:           http.StatusNotFound,
	apperrors.ErrBadRequest:         http.StatusBadRequest,
}

func SuccessResponse(c echo.Context, body interface{}, message string, code int) error {
	return c.JSON(code, &HttpResponse{
		Success: true,
		Body:    body,
		Message: message,
	})
}

func ErrorResponse(c echo.Context, err error, logger *zap.Logger) error {
	code := http.StatusInternalServerError
	message := "internal server error"

	var httpErr *apperrors.HttpError
	if errors.As(err, &httpErr) {
		code = httpErr.Code
		message = httpErr.Message
	} else {
		for sentinel, statusCode := range errorStatusList {
			if errors.Is(err, sentinel) {
				code = statusCode
				message = sentinel.Error()
				break
			}
		}
	}

	if code == http.StatusInternalServerError {
		logger.Error("request failed", zap.Error(err))
	}

	return c.JSON(code, &HttpResponse{
		Success: false,
		Message: message,
	})
}
