package validator

import (
	"github.com/go-playground/validator/v10"
)

// RecordValidator wraps go-playground/validator for schema checks on
// AI-produced records.
type RecordValidator struct {
	v *validator.Validate
}

// New creates a new RecordValidator instance
func New() *RecordValidator {
	v := validator.New()
	return &RecordValidator{v: v}
}

// Validate performs struct validation
func (rv *RecordValidator) Validate(i interface{}) error {
	return rv.v.Struct(i)
}
