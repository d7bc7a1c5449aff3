package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Karaba21/Innowave/internal/domain"
)

// ErrNoValidItems indicates a checkout was attempted with no lines carrying a
// resolvable variant ID. It signals a stale cart rather than a backend
// failure and is surfaced to the shopper distinctly.
var ErrNoValidItems = errors.New("no valid items to check out")

// CheckoutBackend is the slice of the storefront client the reconciler needs.
type CheckoutBackend interface {
	ResolveVariantID(ctx context.Context, productID string) (string, error)
	CreateCheckout(ctx context.Context, lines []domain.CheckoutLine) (*domain.CheckoutResult, error)
}

// CheckoutEventPublisher publishes checkout lifecycle events.
type CheckoutEventPublisher interface {
	PublishCheckoutSucceeded(ctx context.Context, sessionID string, result *domain.CheckoutResult, lineCount int, subtotal float64) error
}

// CheckoutService reconciles a cart into a valid checkout-creation request,
// repairing missing variant IDs through the storefront backend.
type CheckoutService struct {
	carts    *CartService
	backend  CheckoutBackend
	producer CheckoutEventPublisher
	logger   *slog.Logger
}

// NewCheckoutService creates a new checkout service. The producer may be nil
// when event publishing is disabled.
func NewCheckoutService(carts *CartService, backend CheckoutBackend, producer CheckoutEventPublisher, logger *slog.Logger) *CheckoutService {
	return &CheckoutService{
		carts:    carts,
		backend:  backend,
		producer: producer,
		logger:   logger,
	}
}

// CheckoutCart turns the session's current cart into a hosted checkout URL.
// The cart is deliberately left intact on success; it is cleared only by
// explicit shopper action.
func (s *CheckoutService) CheckoutCart(ctx context.Context, sessionID string) (*domain.CheckoutResult, error) {
	cart, err := s.carts.GetCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	s.logState(ctx, sessionID, domain.CheckoutStateResolvingVariants)
	items := s.resolveVariants(ctx, cart.Items)

	s.logState(ctx, sessionID, domain.CheckoutStateBuildingRequest)
	lines := buildLines(items)
	if len(lines) == 0 {
		s.logState(ctx, sessionID, domain.CheckoutStateFailed)
		return nil, ErrNoValidItems
	}

	s.logState(ctx, sessionID, domain.CheckoutStateAwaitingBackend)
	result, err := s.backend.CreateCheckout(ctx, lines)
	if err != nil {
		s.logState(ctx, sessionID, domain.CheckoutStateFailed)
		return nil, fmt.Errorf("create checkout: %w", err)
	}

	s.logState(ctx, sessionID, domain.CheckoutStateSucceeded)
	s.publishSucceeded(ctx, sessionID, result, len(lines), cart.Subtotal())

	return result, nil
}

// CheckoutLines creates a checkout directly from pre-built lines. Lines
// without a variant ID or with a non-positive quantity are dropped; if none
// survive, the attempt fails with ErrNoValidItems before any backend call.
func (s *CheckoutService) CheckoutLines(ctx context.Context, sessionID string, lines []domain.CheckoutLine) (*domain.CheckoutResult, error) {
	valid := make([]domain.CheckoutLine, 0, len(lines))
	for _, line := range lines {
		if line.VariantID != "" && line.Quantity > 0 {
			valid = append(valid, line)
		}
	}
	if len(valid) == 0 {
		return nil, ErrNoValidItems
	}

	s.logState(ctx, sessionID, domain.CheckoutStateAwaitingBackend)
	result, err := s.backend.CreateCheckout(ctx, valid)
	if err != nil {
		s.logState(ctx, sessionID, domain.CheckoutStateFailed)
		return nil, fmt.Errorf("create checkout: %w", err)
	}

	s.logState(ctx, sessionID, domain.CheckoutStateSucceeded)
	s.publishSucceeded(ctx, sessionID, result, len(valid), 0)

	return result, nil
}

// ResolveVariant looks up the first variant ID for a single product.
func (s *CheckoutService) ResolveVariant(ctx context.Context, productID string) (string, error) {
	return s.backend.ResolveVariantID(ctx, productID)
}

// resolveVariants fills in missing variant IDs. Lookups fan out concurrently
// since they are read-only and order-independent; each writes only its own
// slot. Items whose lookup fails stay unresolved and are filtered later.
func (s *CheckoutService) resolveVariants(ctx context.Context, items []domain.CartItem) []domain.CartItem {
	resolved := make([]domain.CartItem, len(items))
	copy(resolved, items)

	var wg sync.WaitGroup
	for i := range resolved {
		if resolved[i].VariantID != "" {
			continue
		}
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			variantID, err := s.backend.ResolveVariantID(ctx, resolved[i].ID)
			if err != nil {
				s.logger.WarnContext(ctx, "variant resolution failed",
					slog.String("product_id", resolved[i].ID),
					slog.String("error", err.Error()),
				)
				return
			}
			resolved[i].VariantID = variantID
		}(i)
	}
	wg.Wait()

	return resolved
}

// buildLines keeps cart order so attempts are reproducible.
func buildLines(items []domain.CartItem) []domain.CheckoutLine {
	lines := make([]domain.CheckoutLine, 0, len(items))
	for _, item := range items {
		if item.VariantID == "" || item.Quantity <= 0 {
			continue
		}
		lines = append(lines, domain.CheckoutLine{
			VariantID: item.VariantID,
			Quantity:  item.Quantity,
		})
	}
	return lines
}

func (s *CheckoutService) logState(ctx context.Context, sessionID, state string) {
	s.logger.DebugContext(ctx, "checkout attempt state",
		slog.String("session_id", sessionID),
		slog.String("state", state),
	)
}

func (s *CheckoutService) publishSucceeded(ctx context.Context, sessionID string, result *domain.CheckoutResult, lineCount int, subtotal float64) {
	if s.producer == nil {
		return
	}
	if err := s.producer.PublishCheckoutSucceeded(ctx, sessionID, result, lineCount, subtotal); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish checkout.succeeded event",
			slog.String("session_id", sessionID),
			slog.String("error", err.Error()),
		)
	}
}
