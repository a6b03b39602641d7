package utils

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// orderno: printable, no slash and not only dots, so it can be used as a
	// single URL path segment and an object key segment.
	_ = v.RegisterValidation("orderno", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		if strings.Trim(s, ".") == "" {
			return false
		}
		for _, r := range s {
			if r < 0x21 || r == 0x7f || r == '/' || r == '\\' {
				return false
			}
		}
		return true
	})
	return v
}

// ValidateStruct returns field -> message for every failed rule, or nil.
func ValidateStruct(data any) map[string]string {
	err := validate.Struct(data)
	if err == nil {
		return nil
	}

	errors := make(map[string]string)
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range validationErrors {
			errors[fieldName(fe)] = errorMessage(fe)
		}
	}

	return errors
}

// fieldName lower-cases the first rune so keys match the camelCase JSON names.
func fieldName(fe validator.FieldError) string {
	name := fe.Field()
	if name == "" {
		return name
	}
	return strings.ToLower(name[:1]) + name[1:]
}

func errorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "min":
		return fmt.Sprintf("Minimum length is %s", fe.Param())
	case "max":
		return fmt.Sprintf("Maximum length is %s", fe.Param())
	case "alphanum":
		return "Only letters and digits are allowed"
	case "orderno":
		return "Must not contain spaces or slashes, or be only dots"
	default:
		return fmt.Sprintf("Invalid %s field", fe.Field())
	}
}

// FormatValidationErrors flattens the map into a stable single line.
func FormatValidationErrors(errors map[string]string) string {
	msgs := make([]string, 0, len(errors))
	for field, msg := range errors {
		msgs = append(msgs, fmt.Sprintf("%s: %s", field, msg))
	}
	sort.Strings(msgs)
	return strings.Join(msgs, "; ")
}
