package repository

import (
	"context"

	"github.com/Karaba21/Innowave/internal/domain"
)

// CartRepository persists session carts. A save followed by a get must
// round-trip the same ordered item list.
type CartRepository interface {
	// Get retrieves the cart for a session. Returns a not-found error when
	// no cart has been saved for the session.
	Get(ctx context.Context, sessionID string) (*domain.Cart, error)

	// Save persists the cart atomically; readers never observe a partial
	// write.
	Save(ctx context.Context, cart *domain.Cart) error

	// Delete removes the cart for a session. Deleting an absent cart is not
	// an error.
	Delete(ctx context.Context, sessionID string) error
}
