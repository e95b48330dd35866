package validator

import (
	"errors"
	"reflect"
	"strings"

	"go-healthcare-records/internal/domain/entity"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

type CustomValidator struct {
	validator *validator.Validate
}

// FieldError describes the first rule a struct field broke.
type FieldError struct {
	Field string
	Tag   string
	Param string
}

func NewValidator() *CustomValidator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report json names ("user_id") instead of Go names ("UserID")
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})

	// Money is compared as a number so gte/lte work on decimals
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	// A zero date validates as absent
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(entity.Date); ok && !d.IsZero() {
			return d.String()
		}
		return nil
	}, entity.Date{})

	return &CustomValidator{
		validator: v,
	}
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// FirstError returns the first field error reported for err.
func (cv *CustomValidator) FirstError(err error) (FieldError, bool) {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) || len(validationErrors) == 0 {
		return FieldError{}, false
	}
	e := validationErrors[0]
	return FieldError{Field: e.Field(), Tag: e.Tag(), Param: e.Param()}, true
}

func (cv *CustomValidator) FormatValidationErrors(err error) map[string]string {
	errors := make(map[string]string)

	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrors {
			field := e.Field()
			errors[field] = Describe(FieldError{Field: field, Tag: e.Tag(), Param: e.Param()})
		}
	}

	return errors
}

// Describe renders a field error as a sentence.
func Describe(e FieldError) string {
	field := e.Field
	switch e.Tag {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email address"
	case "oneof":
		return field + " must be one of [" + e.Param + "]"
	case "min":
		return field + " must be at least " + e.Param
	case "max":
		return field + " must be at most " + e.Param
	case "gte":
		return field + " must be greater than or equal to " + e.Param
	case "lte":
		return field + " must be less than or equal to " + e.Param
	default:
		return field + " is invalid"
	}
}
