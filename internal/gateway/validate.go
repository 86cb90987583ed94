package gateway

import (
	"github.com/go-playground/validator/v10"
)

// DefaultMaxCodeBytes bounds the code sent for analysis. Providers reject
// over-limit payloads, so larger inputs fail fast instead.
const DefaultMaxCodeBytes = 32 << 10

// newValidator returns a validator with the "maxbytes" tag bound to limit.
// limit <= 0 disables the check.
func newValidator(limit int) *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("maxbytes", func(fl validator.FieldLevel) bool {
		return limit <= 0 || len(fl.Field().String()) <= limit
	})
	return v
}
