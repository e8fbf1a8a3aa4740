package dto

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"procura/internal/core/types"
	"procura/internal/domain/pricing"
)

var registerOnce sync.Once

// RegisterValidators installs the custom binding rules on gin's validator.
// Safe to call more than once.
func RegisterValidators() error {
	var err error
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			err = fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
			return
		}
		err = Register(v)
	})
	return err
}

// Register adds the custom rules to v.
//
// LenientDecimal fields validate as their decimal string, so rules on them
// see the coerced value.
func Register(v *validator.Validate) error {
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if l, ok := field.Interface().(types.LenientDecimal); ok {
			return l.Value.String()
		}
		return nil
	}, types.LenientDecimal{})

	return v.RegisterValidation("custody_tax_rate", validateCustodyTaxRate)
}

func validateCustodyTaxRate(fl validator.FieldLevel) bool {
	s, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	rate, ok := types.ParseLenient(s)
	if !ok {
		return false
	}
	return pricing.IsCustodyRate(rate)
}
