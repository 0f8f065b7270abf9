package common

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator"
	"github.com/labstack/echo/v4"
)

// FormValidator plugs go-playground/validator into echo's c.Validate.
type FormValidator struct {
	Validator *validator.Validate
}

func NewFormValidator() *FormValidator {
	return &FormValidator{Validator: validator.New()}
}

func (fv *FormValidator) Validate(i interface{}) error {
	if fv.Validator == nil {
		fv.Validator = validator.New()
	}
	if err := fv.Validator.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, Describe(err))
	}
	return nil
}

// Describe turns validation errors into a short sentence for a form.
func Describe(err error) string {
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return fmt.Sprintf("invalid input: %v", err)
	}
	parts := make([]string, 0, len(errs))
	for _, fe := range errs {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			parts = append(parts, field+" is required")
		case "max":
			parts = append(parts, fmt.Sprintf("%s must be at most %s characters", field, fe.Param()))
		case "min":
			parts = append(parts, fmt.Sprintf("%s must be at least %s characters", field, fe.Param()))
		default:
			parts = append(parts, field+" is invalid")
		}
	}
	return strings.Join(parts, "; ")
}
