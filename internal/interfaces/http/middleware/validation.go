package middleware

import (
	"errors"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/controlroom/backend/internal/domain/billing"
	"github.com/controlroom/backend/internal/domain/identity"
)

// SetupValidator registers the domain enum validators with gin's
// binding engine and switches error field names to their JSON tags.
func SetupValidator() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		}
		return name
	})

	_ = v.RegisterValidation("plan", func(fl validator.FieldLevel) bool {
		return identity.Plan(fl.Field().String()).IsValid()
	})
	_ = v.RegisterValidation("globalrole", func(fl validator.FieldLevel) bool {
		return identity.GlobalRole(fl.Field().String()).IsValid()
	})
	_ = v.RegisterValidation("workspacerole", func(fl validator.FieldLevel) bool {
		return identity.WorkspaceRole(fl.Field().String()).IsValid()
	})
	_ = v.RegisterValidation("resourcetype", func(fl validator.FieldLevel) bool {
		return billing.ResourceType(fl.Field().String()).IsValid()
	})
}

// ValidationMessage renders one validation failure as a human-readable
// sentence for the error response.
func ValidationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "email":
		return e.Field() + " must be a valid email address"
	case "uuid":
		return e.Field() + " must be a valid UUID"
	case "min":
		return e.Field() + " must be at least " + e.Param()
	case "max":
		return e.Field() + " must be at most " + e.Param()
	case "plan":
		return e.Field() + " is not a known plan"
	case "globalrole", "workspacerole":
		return e.Field() + " is not a known role"
	case "resourcetype":
		return e.Field() + " is not a known resource type"
	default:
		return e.Field() + " is invalid"
	}
}

// FormatValidationErrors collapses validator failures into one message
// suitable for the standard error envelope. Non-validator errors get a
// generic message so malformed JSON does not leak parser internals.
func FormatValidationErrors(err error) string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) || len(validationErrors) == 0 {
		return "Invalid request body"
	}
	messages := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		messages = append(messages, ValidationMessage(e))
	}
	return strings.Join(messages, "; ")
}
