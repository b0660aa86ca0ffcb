package dbc

import (
	"sync"

	"github.com/shapestone/shape-dbc/internal/schema"
)

var (
	validatorOnce sync.Once
	validator     *schema.Validator
	validatorErr  error
)

// ValidateSchema checks a result against the CUE output contract: severities
// from the closed set, J1939 fields present on extended frames, field
// ranges, multiplexer indices only on multiplexed signals, and at least one
// message. Decoded results always satisfy it; the check is meant for results
// that were edited or deserialized.
func ValidateSchema(result *Result) error {
	validatorOnce.Do(func() {
		validator, validatorErr = schema.NewValidator()
	})
	if validatorErr != nil {
		return validatorErr
	}
	return validator.Validate(result)
}
