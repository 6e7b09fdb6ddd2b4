package handlers

import (
	"reflect"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// registerValidators teaches gin's validator about decimal.Decimal fields and the
// decimal_positive tag. It is safe to call more than once.
func registerValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	v.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})
	return v.RegisterValidation("decimal_positive", decimalPositive)
}

// decimalValue exposes decimals to the validator as their string form.
func decimalValue(field reflect.Value) any {
	if d, ok := field.Interface().(decimal.Decimal); ok {
		return d.String()
	}
	return nil
}

func decimalPositive(fl validator.FieldLevel) bool {
	d, err := decimal.NewFromString(fl.Field().String())
	if err != nil {
		return false
	}
	return d.IsPositive()
}
