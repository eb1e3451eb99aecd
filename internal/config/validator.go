package config

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	locationPattern      = regexp.MustCompile(`^[a-z]{2,}[a-z0-9]*$`)
	apiVersionPattern    = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}(-preview)?$`)
	resourceGroupPattern = regexp.MustCompile(`^[-\w._()]*[-\w_()]$`)
)

// validate is the singleton validator instance.
var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		if name, _, _ := strings.Cut(f.Tag.Get("yaml"), ","); name != "" && name != "-" {
			return name
		}
		return f.Name
	})
	_ = validate.RegisterValidation("location", func(fl validator.FieldLevel) bool {
		return locationPattern.MatchString(fl.Field().String())
	})
	_ = validate.RegisterValidation("api_version", func(fl validator.FieldLevel) bool {
		return apiVersionPattern.MatchString(fl.Field().String())
	})
	_ = validate.RegisterValidation("resource_group", func(fl validator.FieldLevel) bool {
		return resourceGroupPattern.MatchString(fl.Field().String())
	})
}

// ValidationError represents a single validation failure.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors is the set of failures of one Validate call.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	parts := make([]string, len(e))
	for i, v := range e {
		parts[i] = fmt.Sprintf("%s %s", v.Field, v.Message)
	}
	return "invalid settings: " + strings.Join(parts, "; ")
}

// Validate checks s against its field rules.
func Validate(s *Settings) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	out := make(ValidationErrors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, ValidationError{Field: fe.Field(), Message: formatValidationMessage(fe)})
	}
	return out
}

// formatValidationMessage creates a human-readable validation message.
func formatValidationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "uuid":
		return "must be a subscription ID (GUID)"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "location":
		return "must be a valid Azure location (lowercase alphanumeric)"
	case "api_version":
		return "must be an API version such as 2018-09-01-preview"
	case "resource_group":
		return "must be a valid resource group name"
	default:
		return fmt.Sprintf("failed %q validation", fe.Tag())
	}
}
