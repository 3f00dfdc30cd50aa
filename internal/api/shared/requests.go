package shared

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
)

// Shared validator instance for request structs.
var validate = validator.New()

// DecodeJSON decodes the request body into the given struct.
func DecodeJSON(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

// ValidateRequest validates a request struct, preferring the struct's own
// Validate method when it has one.
func ValidateRequest(v any) error {
	if withValidate, ok := v.(interface{ Validate() error }); ok {
		return withValidate.Validate()
	}
	return validate.Struct(v)
}
