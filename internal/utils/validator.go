// internal/utils/validator.go
package utils

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

// Validation tags for common fields
type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

func GetValidationErrors(err error) []ValidationError {
	var validationErrors []ValidationError

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		for _, e := range validationErrs {
			validationErrors = append(validationErrors, ValidationError{
				Field:   e.Field(),
				Tag:     e.Tag(),
				Message: getValidationMessage(e),
			})
		}
	}

	return validationErrors
}

func getValidationMessage(e validator.FieldError) string {
	numeric := false
	switch e.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		numeric = true
	}

	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "min":
		if numeric {
			return e.Field() + " must be at least " + e.Param()
		}
		if e.Kind() == reflect.Slice {
			return e.Field() + " must contain at least " + e.Param() + " item(s)"
		}
		return e.Field() + " must be at least " + e.Param() + " characters"
	case "max":
		if numeric {
			return e.Field() + " must be at most " + e.Param()
		}
		return e.Field() + " must be at most " + e.Param() + " characters"
	case "hexcolor":
		return e.Field() + " must be a hex color such as #3B82F6"
	default:
		return e.Field() + " is invalid"
	}
}
