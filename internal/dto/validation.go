package dto

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks a request struct and returns a per-field error map for
// 400 responses, or nil when the payload is valid.
func Validate(s interface{}) map[string]string {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	fieldErrors := make(map[string]string)
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		fieldErrors["_"] = err.Error()
		return fieldErrors
	}

	for _, fe := range verrs {
		field := lowerFirst(fe.Field())
		switch fe.Tag() {
		case "required":
			fieldErrors[field] = "is required"
		case "min":
			fieldErrors[field] = "must be at least " + fe.Param() + " characters"
		case "max":
			fieldErrors[field] = "must be at most " + fe.Param() + " characters"
		default:
			fieldErrors[field] = "is invalid"
		}
	}
	return fieldErrors
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
