package state

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// checkInput validates an intent payload before any request is issued.
// Failures come back as a single human-readable string, ready for
// RequestStatus.Error.
func checkInput(v *validator.Validate, in any) error {
	err := v.Struct(in)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		msgs := make([]string, 0, len(ve))
		for _, fe := range ve {
			msgs = append(msgs, fieldError(fe))
		}
		return fmt.Errorf("%s", strings.Join(msgs, "; "))
	}
	return err
}

// fieldError converts a single ValidationError into a human-readable message.
func fieldError(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be %s or more", field, fe.Param())
	case "eqfield":
		return field + " does not match"
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}
