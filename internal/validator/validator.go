// internal/validator/validator.go
package validator

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"finance-bot/internal/domain"
)

var Validate *validator.Validate

var nonSpace = regexp.MustCompile(`\S`)

func init() {
	Validate = validator.New()

	// decimal.Decimal is validated through its string form
	Validate.RegisterCustomTypeFunc(func(v reflect.Value) any {
		if d, ok := v.Interface().(decimal.Decimal); ok {
			return d.String()
		}
		return nil
	}, decimal.Decimal{})

	// Строка не пустая и не только пробелы
	_ = Validate.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return nonSpace.MatchString(fl.Field().String())
	})

	// Положительная сумма: "0", "-3" и мусор не проходят
	_ = Validate.RegisterValidation("positive_amount", func(fl validator.FieldLevel) bool {
		d, err := decimal.NewFromString(fl.Field().String())
		return err == nil && d.IsPositive()
	})

	_ = Validate.RegisterValidation("txtype", func(fl validator.FieldLevel) bool {
		return domain.TransactionType(fl.Field().String()).Valid()
	})

	// Minimal email check: an "@" and a "." and no whitespace.
	_ = Validate.RegisterValidation("loose_email", func(fl validator.FieldLevel) bool {
		return IsLooseEmail(fl.Field().String())
	})
}

func IsLooseEmail(s string) bool {
	return strings.Contains(s, "@") && strings.Contains(s, ".") && !strings.ContainsAny(s, " \t\n")
}
