package utils

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	apperrors "delay-tracker/pkg/errors"
)

type CustomValidator struct {
	validator *validator.Validate
}

func NewValidator(v *validator.Validate) *CustomValidator {
	return &CustomValidator{validator: v}
}

func (cv *CustomValidator) Validate(i interface{}) error {
	if err := cv.validator.Struct(i); err != nil {
		return apperrors.NewHttpError(http.StatusBadRequest, err.Error(), err)
	}
	return nil
}
