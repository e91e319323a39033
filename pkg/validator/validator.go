// Package validator wraps go-playground struct validation behind the
// one call the services need: check a request struct, get back a flat
// list of field failures.
package validator

import (
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// ErrorResponse is one failed field: which field, which rule it broke,
// and the rule's parameter if any.
type ErrorResponse struct {
	FailedField string
	Tag         string
	Value       string
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// uuid_required rejects the uuid.Nil zero value, which plain
	// `required` does not catch on uuid.UUID fields.
	v.RegisterValidation("uuid_required", func(fl validator.FieldLevel) bool {
		id, ok := fl.Field().Interface().(uuid.UUID)
		return ok && id != uuid.Nil
	})

	return v
}

// ValidateStruct runs the struct's validate tags and returns every
// failure. An empty result means the value passed.
func ValidateStruct(data interface{}) []*ErrorResponse {
	err := validate.Struct(data)
	if err == nil {
		return nil
	}

	var failures []*ErrorResponse
	for _, fieldErr := range err.(validator.ValidationErrors) {
		failures = append(failures, &ErrorResponse{
			FailedField: fieldErr.StructNamespace(),
			Tag:         fieldErr.Tag(),
			Value:       fieldErr.Param(),
		})
	}
	return failures
}
