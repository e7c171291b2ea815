// Package checkout validates checkout form submissions.
package checkout

import (
	"errors"
	"maps"

	"github.com/rasulshaikhdev/techgear-hub/internal/domain"
	apperrors "github.com/rasulshaikhdev/techgear-hub/pkg/errors"
	"github.com/rasulshaikhdev/techgear-hub/pkg/validator"
)

// Result is the per-field outcome of a validation run. Every form field has
// an entry in Valid; failing fields also carry a message in Errors.
type Result struct {
	Valid  map[string]bool   `json:"valid"`
	Errors map[string]string `json:"errors,omitempty"`
}

// OK reports whether every field passed.
func (r Result) OK() bool {
	return len(r.Errors) == 0
}

// Err returns nil when the form passed, otherwise a 422 AppError carrying
// the failing fields.
func (r Result) Err() error {
	if r.OK() {
		return nil
	}
	return apperrors.Validation("checkout form is invalid", maps.Clone(r.Errors))
}

// Validate checks form:
//   - name and address must be non-empty after trimming
//   - email must look like local@domain.tld
//   - the card number must carry 13 to 19 digits once non-digits are removed
//
// It has no side effects, so repeated submissions yield identical results.
func Validate(form domain.CheckoutForm) Result {
	res := Result{Valid: make(map[string]bool, len(domain.CheckoutFields))}
	for _, f := range domain.CheckoutFields {
		res.Valid[f] = true
	}

	err := validator.Validate(form)
	if err == nil {
		return res
	}

	var verr *validator.ValidationError
	if !errors.As(err, &verr) {
		// Struct tags are static; any other error is a programming mistake.
		panic(err)
	}
	res.Errors = verr.Fields()
	for f := range res.Errors {
		res.Valid[f] = false
	}
	return res
}
