package shopify

import (
	"fmt"
	"strings"

	apperrors "github.com/Karaba21/Innowave/pkg/errors"
)

// UnavailableError indicates the storefront backend could not serve a read:
// a transport failure, a non-2xx status, or a GraphQL errors payload. It is
// distinct from an empty result, which is a valid outcome.
type UnavailableError struct {
	Operation string
	Err       error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("storefront unavailable during %s: %v", e.Operation, e.Err)
}

func (e *UnavailableError) Unwrap() error {
	return e.Err
}

// Is classifies the error as a service-unavailable condition so the shared
// HTTP error writer maps it to a 503.
func (e *UnavailableError) Is(target error) bool {
	return target == apperrors.ErrServiceUnavail
}

func unavailable(operation string, err error) *UnavailableError {
	return &UnavailableError{Operation: operation, Err: err}
}

// Checkout creation failure reasons.
var (
	// ErrCheckoutCreationFailed indicates the cart creation mutation failed
	// outright (transport or backend error).
	ErrCheckoutCreationFailed = fmt.Errorf("checkout creation failed")

	// ErrEmptyCheckoutResponse indicates the mutation succeeded but returned
	// no cart object and no user errors.
	ErrEmptyCheckoutResponse = fmt.Errorf("checkout creation returned an empty response")

	// ErrMissingCheckoutURL indicates a cart was created but carries no
	// hosted checkout URL.
	ErrMissingCheckoutURL = fmt.Errorf("checkout creation returned no checkout URL")
)

// UserError is a line-level rejection reported by the checkout backend.
type UserError struct {
	Field   []string `json:"field"`
	Message string   `json:"message"`
}

// BackendUserError carries the backend's user-facing rejections of specific
// checkout lines. Its message is passed through to the shopper.
type BackendUserError struct {
	Errors []UserError
}

func (e *BackendUserError) Error() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, ue := range e.Errors {
		msgs = append(msgs, ue.Message)
	}
	return strings.Join(msgs, "; ")
}
