package domain

// CheckoutLine is the minimal unit submitted to checkout creation.
type CheckoutLine struct {
	VariantID string `json:"variantId"`
	Quantity  int    `json:"quantity"`
}

// Checkout attempt states.
const (
	CheckoutStateIdle              = "idle"
	CheckoutStateResolvingVariants = "resolving_variants"
	CheckoutStateBuildingRequest   = "building_request"
	CheckoutStateAwaitingBackend   = "awaiting_backend"
	CheckoutStateSucceeded         = "succeeded"
	CheckoutStateFailed            = "failed"
)

// CheckoutResult is the outcome of a successful checkout creation.
type CheckoutResult struct {
	CartID string `json:"cart_id"`
	WebURL string `json:"webUrl"`
}
