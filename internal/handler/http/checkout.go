package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/Karaba21/Innowave/internal/domain"
	"github.com/Karaba21/Innowave/internal/service"
	"github.com/Karaba21/Innowave/internal/shopify"
	"github.com/Karaba21/Innowave/pkg/httputil"
)

// CheckoutHandler handles HTTP requests for checkout endpoints.
type CheckoutHandler struct {
	service *service.CheckoutService
	logger  *slog.Logger
}

// NewCheckoutHandler creates a new checkout HTTP handler.
func NewCheckoutHandler(svc *service.CheckoutService, logger *slog.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		service: svc,
		logger:  logger,
	}
}

// CheckoutRequest is the JSON request body for creating a checkout from
// pre-built lines.
type CheckoutRequest struct {
	LineItems []domain.CheckoutLine `json:"lineItems"`
}

// CheckoutResponse carries the hosted checkout URL on success.
type CheckoutResponse struct {
	WebURL string `json:"webUrl"`
}

// ResolveVariantRequest is the JSON request body for resolving a product's
// first variant.
type ResolveVariantRequest struct {
	ProductID string `json:"productId"`
}

// ResolveVariantResponse carries the resolved variant identifier.
type ResolveVariantResponse struct {
	VariantID string `json:"variantId"`
}

// Checkout handles POST /api/v1/checkout. Every line must carry a variant ID
// and a positive quantity.
func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorBody{
			Error: "invalid request body: " + err.Error(),
			Code:  "INVALID_INPUT",
		})
		return
	}

	if len(req.LineItems) == 0 {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorBody{
			Error: "lineItems is required",
			Code:  "INVALID_INPUT",
		})
		return
	}
	for _, line := range req.LineItems {
		if line.VariantID == "" || line.Quantity <= 0 {
			httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorBody{
				Error: "each line item needs a variantId and a quantity greater than zero",
				Code:  "INVALID_INPUT",
			})
			return
		}
	}

	result, err := h.service.CheckoutLines(r.Context(), sessionID(r), req.LineItems)
	if err != nil {
		h.writeCheckoutError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, CheckoutResponse{WebURL: result.WebURL})
}

// CheckoutCart handles POST /api/v1/cart/checkout: reconcile the session's
// cart, repairing missing variant IDs, and create the checkout.
func (h *CheckoutHandler) CheckoutCart(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.CheckoutCart(r.Context(), sessionID(r))
	if err != nil {
		h.writeCheckoutError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, CheckoutResponse{WebURL: result.WebURL})
}

// ResolveVariant handles POST /api/v1/variant
func (h *CheckoutHandler) ResolveVariant(w http.ResponseWriter, r *http.Request) {
	var req ResolveVariantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorBody{
			Error: "invalid request body: " + err.Error(),
			Code:  "INVALID_INPUT",
		})
		return
	}
	if req.ProductID == "" {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorBody{
			Error: "productId is required",
			Code:  "INVALID_INPUT",
		})
		return
	}

	variantID, err := h.service.ResolveVariant(r.Context(), req.ProductID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, ResolveVariantResponse{VariantID: variantID})
}

// writeCheckoutError maps checkout failures onto the wire. Stale-cart and
// line-level rejections are shopper-correctable and keep their messages;
// malformed backend responses get a generic message with a logged diagnostic.
func (h *CheckoutHandler) writeCheckoutError(w http.ResponseWriter, r *http.Request, err error) {
	var userErr *shopify.BackendUserError
	switch {
	case errors.Is(err, service.ErrNoValidItems):
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorBody{
			Error: "none of the cart items can be checked out, please refresh your cart",
			Code:  "NO_VALID_ITEMS",
		})
	case errors.As(err, &userErr):
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorBody{
			Error: userErr.Error(),
			Code:  "BACKEND_USER_ERROR",
		})
	default:
		h.logger.ErrorContext(r.Context(), "checkout creation failed",
			slog.String("error", err.Error()),
		)
		httputil.WriteJSON(w, http.StatusInternalServerError, httputil.ErrorBody{
			Error: "checkout could not be created, please try again",
			Code:  "CHECKOUT_FAILED",
		})
	}
}
