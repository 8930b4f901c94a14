package types

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	"github.com/students-demo/students-api/internal/apperrors"
)

// fieldMessages holds the client-facing message for each required field,
// keyed by JSON name.
var fieldMessages = map[string]string{
	"firstName":  "First name cannot be empty",
	"lastName":   "Last name cannot be empty",
	"department": "Department cannot be empty",
	"level":      "Level cannot be null",
}

// validate is shared: a *validator.Validate caches struct metadata and is
// safe for concurrent use.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their JSON name so the errors line up with the
	// request body the client sent.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
	return v
}

// Validate checks the required-field constraints on s.
//
// It returns nil or an *apperrors.ValidationError listing every offending
// field with its message.
func Validate(s Student) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		msg, ok := fieldMessages[fe.Field()]
		if !ok {
			msg = fe.Field() + " is invalid"
		}
		fields[fe.Field()] = msg
	}
	return apperrors.NewValidationError(fields)
}
