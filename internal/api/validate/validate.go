// Package validate runs request bodies through go-playground/validator
// and reports failures in the field-error shape the API returns with
// every 400.
package validate

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// ErrField is one field-level problem in a request body.
type ErrField struct {
	Field string `json:"field"`
	Msg   string `json:"msg"`
}

type Errs []ErrField

func (e Errs) Error() string {
	var b strings.Builder
	for i, ef := range e {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(ef.Field + ": " + ef.Msg)
	}
	return b.String()
}

var v = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// Report json names, not Go field names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// Numeric tags (gte and friends) apply to decimal amounts by
	// validating their float value.
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	return v
}

// Struct checks s against its validate tags. A tag failure comes back
// as Errs; nil means the body is acceptable.
func Struct(s any) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	out := make(Errs, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, ErrField{Field: fe.Field(), Msg: message(fe)})
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "required"
	case "gte":
		return "must be >= " + fe.Param()
	case "min":
		if fe.Type().Kind() == reflect.String {
			return "must be at least " + fe.Param() + " characters"
		}
		return "must be >= " + fe.Param()
	case "max":
		if fe.Type().Kind() == reflect.String {
			return "must be at most " + fe.Param() + " characters"
		}
		return "must be <= " + fe.Param()
	case "email":
		return "must be a valid email address"
	default:
		return "invalid"
	}
}
