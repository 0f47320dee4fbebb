package config

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/idelchi/gogen/pkg/validator"
)

// registerExclusive adds validators ensuring key sources are mutually exclusive.
// Field names in messages come from the yaml tags.
func registerExclusive(validator *validator.Validator) error {
	if err := validator.RegisterValidationAndTranslation(
		"exclusive",
		validateExclusive,
		"{0} is mutually exclusive",
	); err != nil {
		return fmt.Errorf("registering exclusive validation: %w", err)
	}

	if err := validator.RegisterValidationAndTranslation(
		"exclusive_bool",
		validateExclusiveBool,
		"{0} cannot be combined with another key source",
	); err != nil {
		return fmt.Errorf("registering exclusive_bool validation: %w", err)
	}

	validator.Validator().RegisterTagNameFunc(func(fld reflect.StructField) string {
		const splitSize = 2

		name := strings.SplitN(fld.Tag.Get("yaml"), ",", splitSize)[0]
		if name == "" || name == "-" {
			return fld.Name
		}

		return name
	})

	return nil
}

// validateExclusive fails when both string fields are non-empty.
func validateExclusive(fl validator.FieldLevel) bool {
	other := fl.Parent().FieldByName(fl.Param())

	if !other.IsValid() || fl.Field().Kind() != reflect.String || other.Kind() != reflect.String {
		return true
	}

	return fl.Field().String() == "" || other.String() == ""
}

// validateExclusiveBool fails when the flag is set together with any of the named string fields.
func validateExclusiveBool(fl validator.FieldLevel) bool {
	if fl.Field().Kind() != reflect.Bool || !fl.Field().Bool() {
		return true
	}

	for _, name := range strings.Fields(fl.Param()) {
		other := fl.Parent().FieldByName(name)
		if other.IsValid() && other.Kind() == reflect.String && other.String() != "" {
			return false
		}
	}

	return true
}
