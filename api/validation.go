package api

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

// newValidator builds a validator that reports fields by their json tag
// names, so error maps match the wire format
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateStruct validates s against its struct tags and returns a per-field
// map of messages, or nil if validation passed
func validateStruct(s interface{}) map[string][]string {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return map[string][]string{"_": {err.Error()}}
	}

	errs := make(map[string][]string)
	for _, e := range validationErrors {
		errs[e.Field()] = append(errs[e.Field()], fieldMessage(e))
	}
	return errs
}

// fieldMessage formats a single field validation error
func fieldMessage(e validator.FieldError) string {
	field := e.Field()

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("The %s field is required.", field)
	case "min":
		return fmt.Sprintf("The %s field must be at least %s characters.", field, e.Param())
	case "max":
		return fmt.Sprintf("The %s field must not be greater than %s characters.", field, e.Param())
	case "oneof":
		allowed := strings.ReplaceAll(e.Param(), " ", ", ")
		return fmt.Sprintf("The %s field must be one of: %s.", field, allowed)
	default:
		return fmt.Sprintf("The %s field is invalid.", field)
	}
}
