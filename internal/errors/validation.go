package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var registerOnce sync.Once

// RegisterValidator makes gin's validator report json field names.
func RegisterValidator() {
	registerOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			v.RegisterTagNameFunc(func(fld reflect.StructField) string {
				name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
				if name == "" {
					name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
				}
				if name == "-" {
					return ""
				}
				return name
			})
		}
	})
}

func humanize(field string) string {
	field = strings.ReplaceAll(field, "_", " ")
	return cases.Title(language.English).String(field)
}

// FromBindingError converts a gin binding failure into a VALIDATION error
// naming only the first offending field.
func FromBindingError(err error) *AppError {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return fieldError(verrs[0])
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return Wrap(err, KindValidation, ValidationInvalidInput,
			fmt.Sprintf("%s has an invalid type", humanize(typeErr.Field)))
	}

	var numErr *strconv.NumError
	if errors.As(err, &numErr) {
		return Wrap(err, KindValidation, ValidationInvalidInput, "a numeric parameter is malformed")
	}

	return Wrap(err, KindValidation, ValidationInvalidInput, "request body is malformed")
}

func fieldError(fe validator.FieldError) *AppError {
	name := humanize(fe.Field())

	switch fe.Tag() {
	case "required":
		return Validation(ValidationRequired, fmt.Sprintf("%s is required", name))
	case "min":
		if fe.Kind() == reflect.Slice {
			return Validation(ValidationInvalidRange, fmt.Sprintf("%s must contain at least %s item(s)", name, fe.Param()))
		}
		if isNumber(fe.Kind()) {
			return Validation(ValidationInvalidRange, fmt.Sprintf("%s must be at least %s", name, fe.Param()))
		}
		return Validation(ValidationInvalidRange, fmt.Sprintf("%s must be at least %s characters", name, fe.Param()))
	case "max":
		if isNumber(fe.Kind()) {
			return Validation(ValidationInvalidRange, fmt.Sprintf("%s must be at most %s", name, fe.Param()))
		}
		return Validation(ValidationInvalidRange, fmt.Sprintf("%s must be at most %s characters", name, fe.Param()))
	case "oneof":
		return Validation(ValidationInvalidInput, fmt.Sprintf("%s must be one of: %s", name, fe.Param()))
	case "email":
		return Validation(ValidationInvalidInput, fmt.Sprintf("%s must be a valid email address", name))
	case "alphanum":
		return Validation(ValidationInvalidInput, fmt.Sprintf("%s must be alphanumeric", name))
	case "datetime":
		return Validation(ValidationInvalidInput, fmt.Sprintf("%s must match the format %s", name, fe.Param()))
	default:
		return Validation(ValidationInvalidInput, fmt.Sprintf("%s is invalid", name))
	}
}

func isNumber(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
