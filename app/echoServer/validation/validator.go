// Package validation adapts go-playground/validator to echo's
// Validator interface, so request DTOs bound in the controllers can
// be checked with e.Validator through their struct tags.
package validation

import (
	"github.com/go-playground/validator/v10"
)

// Validator wraps a single shared validate instance; it caches struct
// metadata and is safe for concurrent use across requests.
type Validator struct {
	v *validator.Validate
}

func New() *Validator {
	return &Validator{v: validator.New()}
}

func (v *Validator) Validate(i interface{}) error {
	return v.v.Struct(i)
}
