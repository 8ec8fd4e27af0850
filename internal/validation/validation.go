// Package validation wraps go-playground/validator so that every input
// struct reports field errors under its JSON names as a *domain.ValidationError.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/Domenick1991/boatbooking/internal/domain"
	"github.com/go-playground/validator/v10"
)

var phonePattern = regexp.MustCompile(`^[\d\s\-\+\(\)]+$`)

// CrossFieldValidator is implemented by inputs with rules spanning several fields.
type CrossFieldValidator interface {
	CrossFieldErrors() []domain.FieldError
}

type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	return &Validator{validate: v}
}

// Struct validates s and returns nil or a *domain.ValidationError.
func (v *Validator) Struct(s any) error {
	var fields []domain.FieldError

	if err := v.validate.Struct(s); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("validate: %w", err)
		}
		for _, fe := range verrs {
			fields = append(fields, domain.FieldError{Field: fe.Field(), Message: message(fe)})
		}
	}

	if cv, ok := s.(CrossFieldValidator); ok {
		fields = append(fields, cv.CrossFieldErrors()...)
	}

	if len(fields) > 0 {
		return domain.NewValidationError(fields...)
	}
	return nil
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "phone":
		return "must be a valid phone number"
	case "url":
		return "must be a valid URL"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "min":
		if fe.Kind() == reflect.String {
			return "must be at least " + fe.Param() + " characters"
		}
		return "must be at least " + fe.Param()
	case "max":
		if fe.Kind() == reflect.String {
			return "must be at most " + fe.Param() + " characters"
		}
		return "must be at most " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	case "gte":
		return "must not be negative"
	case "lte":
		return "must be at most " + fe.Param()
	case "gtfield":
		return "must be after the start time"
	default:
		return "is invalid"
	}
}
