// Package validator adapts go-playground/validator for request and usecase input checks.
package validator

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/pkg/errors"
)

// Validator satisfies echo.Validator and is shared by the usecase layer.
type Validator struct {
	validate *validator.Validate
}

// New returns a validator with the "notblank" tag registered, which rejects
// whitespace-only strings that "required" lets through. Failed fields are
// reported by their json name when the struct has one.
func New() *Validator {
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(errors.Wrap(err, "register notblank validation"))
	}
	validate.RegisterTagNameFunc(jsonFieldName)

	return &Validator{validate: validate}
}

func jsonFieldName(field reflect.StructField) string {
	name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}

	return name
}

// Validate checks i against its `validate` struct tags.
func (v *Validator) Validate(i any) error {
	return errors.WithStack(v.validate.Struct(i))
}

// FailedFields lists the struct fields named in a validation failure.
func FailedFields(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}

	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field())
	}

	return fields
}
