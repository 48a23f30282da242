// internal/handler/handler.go
package handler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	val "finance-bot/internal/validator"
)

func validateStruct(v any) error {
	err := val.Validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	errs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		errs = append(errs, fieldErrorToString(e))
	}
	return fmt.Errorf("invalid input: %s", strings.Join(errs, "; "))
}

func fieldErrorToString(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", e.Field())
	case "notblank":
		return fmt.Sprintf("%s must not be blank", e.Field())
	case "loose_email", "email":
		return fmt.Sprintf("%s must be an email address", e.Field())
	case "len", "numeric":
		return fmt.Sprintf("%s must be 6 digits", e.Field())
	case "min", "max":
		return fmt.Sprintf("%s must be between 1 and %d", e.Field(), maxTransactionLimit)
	default:
		return fmt.Sprintf("%s is invalid", e.Field())
	}
}
