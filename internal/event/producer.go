package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Karaba21/Innowave/internal/domain"
	pkgkafka "github.com/Karaba21/Innowave/pkg/kafka"
)

// Kafka topic constants for storefront domain events.
const (
	TopicCartUpdated       = "storefront.cart.updated"
	TopicCartCleared       = "storefront.cart.cleared"
	TopicCheckoutSucceeded = "storefront.checkout.succeeded"
)

// Aggregate type constants.
const (
	AggregateTypeCart     = "cart"
	AggregateTypeCheckout = "checkout"
)

// Source identifier for events originating from this service.
const SourceStorefront = "storefront-api"

// CartUpdatedData is the payload for a cart.updated event.
type CartUpdatedData struct {
	SessionID string         `json:"session_id"`
	Items     []CartItemData `json:"items"`
	ItemCount int            `json:"item_count"`
	Subtotal  float64        `json:"subtotal"`
}

// CartItemData is the item payload within cart events.
type CartItemData struct {
	ProductID string  `json:"product_id"`
	VariantID string  `json:"variant_id,omitempty"`
	Title     string  `json:"title"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

// CartClearedData is the payload for a cart.cleared event.
type CartClearedData struct {
	SessionID string `json:"session_id"`
}

// CheckoutSucceededData is the payload for a checkout.succeeded event.
type CheckoutSucceededData struct {
	SessionID string  `json:"session_id"`
	CartID    string  `json:"cart_id"`
	WebURL    string  `json:"web_url"`
	LineCount int     `json:"line_count"`
	Subtotal  float64 `json:"subtotal"`
}

// Producer publishes storefront domain events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishCartUpdated publishes a cart.updated event.
func (p *Producer) PublishCartUpdated(ctx context.Context, cart *domain.Cart) error {
	items := make([]CartItemData, len(cart.Items))
	for i, item := range cart.Items {
		items[i] = CartItemData{
			ProductID: item.ID,
			VariantID: item.VariantID,
			Title:     item.Title,
			Price:     item.Price,
			Quantity:  item.Quantity,
		}
	}

	data := CartUpdatedData{
		SessionID: cart.SessionID,
		Items:     items,
		ItemCount: cart.ItemCount(),
		Subtotal:  cart.Subtotal(),
	}

	event, err := pkgkafka.NewEvent(TopicCartUpdated, cart.SessionID, AggregateTypeCart, SourceStorefront, data)
	if err != nil {
		return fmt.Errorf("create cart.updated event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicCartUpdated, event); err != nil {
		return fmt.Errorf("publish cart.updated event: %w", err)
	}

	return nil
}

// PublishCartCleared publishes a cart.cleared event.
func (p *Producer) PublishCartCleared(ctx context.Context, sessionID string) error {
	data := CartClearedData{SessionID: sessionID}

	event, err := pkgkafka.NewEvent(TopicCartCleared, sessionID, AggregateTypeCart, SourceStorefront, data)
	if err != nil {
		return fmt.Errorf("create cart.cleared event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicCartCleared, event); err != nil {
		return fmt.Errorf("publish cart.cleared event: %w", err)
	}

	return nil
}

// PublishCheckoutSucceeded publishes a checkout.succeeded event.
func (p *Producer) PublishCheckoutSucceeded(ctx context.Context, sessionID string, result *domain.CheckoutResult, lineCount int, subtotal float64) error {
	data := CheckoutSucceededData{
		SessionID: sessionID,
		CartID:    result.CartID,
		WebURL:    result.WebURL,
		LineCount: lineCount,
		Subtotal:  subtotal,
	}

	event, err := pkgkafka.NewEvent(TopicCheckoutSucceeded, sessionID, AggregateTypeCheckout, SourceStorefront, data)
	if err != nil {
		return fmt.Errorf("create checkout.succeeded event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicCheckoutSucceeded, event); err != nil {
		return fmt.Errorf("publish checkout.succeeded event: %w", err)
	}

	p.logger.DebugContext(ctx, "published checkout.succeeded event",
		slog.String("session_id", sessionID),
		slog.String("cart_id", result.CartID),
	)

	return nil
}
