package web

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// GetErrorMsg builds a human readable message from validation errors.
func GetErrorMsg(ve validator.ValidationErrors) string {
	msgs := make([]string, len(ve))

	for i, fe := range ve {
		msgs[i] = fe.Field() + fieldErrorMsg(fe)
	}

	return strings.Join(msgs, ", ")
}

func fieldErrorMsg(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return " is required"
	case "email":
		return " must be a valid email"
	case "min":
		return " must be at least " + fe.Param()
	case "max":
		return " must be at most " + fe.Param()
	case "gt":
		return " must be greater than " + fe.Param()
	default:
		return " is invalid"
	}
}
