package errors

import (
	"fmt"
	"net/http"
)

var (
	// JWT and tokens
	ErrInvalidSigningMethod = fmt.Errorf("invalid token signing method")
	ErrInvalidToken         = fmt.Errorf("invalid token")
	ErrTokenExpired         = fmt.Errorf("token has expired")
	ErrTokenIsNotAccess     = fmt.Errorf("token is not an access token")

	// Authorization
	ErrEmptyAuthHeader    = fmt.Errorf("authorization header is missing")
	ErrInvalidAuthHeader  = fmt.Errorf("invalid authorization header format")
	ErrInvalidCredentials = fmt.Errorf("invalid credentials")
	ErrUnauthorized       = fmt.Errorf("unauthorized")
	ErrForbidden          = fmt.Errorf("forbidden")

	// Context
	ErrUserIDNotFoundInContext = fmt.Errorf("UserID not found in request context")

	// Common
	ErrUserNotFound = fmt.Errorf("user not found")
	ErrNotFound     = fmt.Errorf("record not found")
	ErrBadRequest   = fmt.Errorf("bad request")
)

// HttpError carries an HTTP status code alongside the message so the
// response layer does not have to guess one.
type HttpError struct {
	Code    int
	Message string
	Err     error
}

func (e *HttpError) Error() string { return e.Message }

func (e *HttpError) Unwrap() error { return e.Err }

func NewHttpError(code int, message string, err error) *HttpError {
	return &HttpError{Code: code, Message: message, Err: err}
}

func NewInternalError(message string) *HttpError {
	return &HttpError{Code: http.StatusInternalServerError, Message: message}
}
