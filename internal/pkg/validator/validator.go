package validator

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(jsonName)
}

// jsonName reports fields by their json name so error details match the
// request body.
func jsonName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	switch name {
	case "-":
		return ""
	case "":
		return f.Name
	}
	return name
}

// Validate struct fields. Returns nil when the struct is valid, otherwise a
// field name to failed tag map.
func Validate(v interface{}) map[string]string {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return map[string]string{"_": err.Error()}
	}

	errs := make(map[string]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		errs[fe.Field()] = fe.Tag()
	}
	return errs
}

// Var validates a single value against a tag, e.g. Var(email, "email").
func Var(value interface{}, tag string) bool {
	return validate.Var(value, tag) == nil
}
