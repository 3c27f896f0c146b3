package dto

import (
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterCustomValidations installs the custom binding validations used by
// the request DTOs. Call once at startup.
func RegisterCustomValidations() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("dateparam", validateDateParam)
	}
}

// validateDateParam accepts either a full RFC3339 timestamp or a bare
// YYYY-MM-DD day.
func validateDateParam(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if _, err := time.Parse(time.RFC3339, value); err == nil {
		return true
	}
	_, err := time.Parse("2006-01-02", value)
	return err == nil
}
