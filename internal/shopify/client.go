package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/Karaba21/Innowave/internal/domain"
	apperrors "github.com/Karaba21/Innowave/pkg/errors"
)

// HTTPDoer abstracts the HTTP client used for GraphQL calls so the retrying
// client and its circuit-breaker wrapper are interchangeable.
type HTTPDoer interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

// Config holds the storefront connection settings.
type Config struct {
	StoreDomain string
	APIVersion  string
	AccessToken string

	// FeaturedCollection is the handle of the collection backing the
	// featured listing. When empty, featured products are selected by tag.
	FeaturedCollection string
}

// Validate checks that the credentials required to reach the storefront are
// present. Absence is a fatal configuration error, not a per-request failure.
func (c Config) Validate() error {
	if c.StoreDomain == "" {
		return apperrors.Configuration("storefront store domain is not set")
	}
	if c.AccessToken == "" {
		return apperrors.Configuration("storefront access token is not set")
	}
	return nil
}

// Client issues GraphQL reads and checkout mutations against the Shopify
// Storefront API and normalizes responses into domain products.
type Client struct {
	endpoint           string
	token              string
	featuredCollection string
	http               HTTPDoer
	logger             *slog.Logger
}

// NewClient creates a storefront client. It fails fast when credentials are
// missing.
func NewClient(cfg Config, doer HTTPDoer, logger *slog.Logger) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	version := cfg.APIVersion
	if version == "" {
		version = "2024-10"
	}
	return &Client{
		endpoint:           fmt.Sprintf("https://%s/api/%s/graphql.json", cfg.StoreDomain, version),
		token:              cfg.AccessToken,
		featuredCollection: cfg.FeaturedCollection,
		http:               doer,
		logger:             logger,
	}, nil
}

type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphqlError struct {
	Message string `json:"message"`
}

type graphqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphqlError  `json:"errors"`
}

// query executes a GraphQL document and decodes the data payload into out.
// Transport failures, non-2xx statuses, and GraphQL error payloads all
// surface as *UnavailableError carrying the operation name.
func (c *Client) query(ctx context.Context, operation, document string, variables map[string]any, out any) error {
	body, err := json.Marshal(graphqlRequest{Query: document, Variables: variables})
	if err != nil {
		return unavailable(operation, fmt.Errorf("encode request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return unavailable(operation, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Shopify-Storefront-Access-Token", c.token)

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return unavailable(operation, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return unavailable(operation, fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	var envelope graphqlResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return unavailable(operation, fmt.Errorf("decode response: %w", err))
	}
	if len(envelope.Errors) > 0 {
		c.logger.WarnContext(ctx, "storefront query returned errors",
			slog.String("operation", operation),
			slog.String("first_error", envelope.Errors[0].Message),
			slog.Int("error_count", len(envelope.Errors)),
		)
		return unavailable(operation, fmt.Errorf("graphql: %s", envelope.Errors[0].Message))
	}
	if out != nil && envelope.Data != nil {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return unavailable(operation, fmt.Errorf("decode data: %w", err))
		}
	}
	return nil
}

// Wire shapes for product reads.

type moneyNode struct {
	Amount       string `json:"amount"`
	CurrencyCode string `json:"currencyCode"`
}

type metafieldNode struct {
	Namespace string `json:"namespace"`
	Key       string `json:"key"`
	Value     string `json:"value"`
}

type productNode struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Handle      string   `json:"handle"`
	ProductType string   `json:"productType"`
	Tags        []string `json:"tags"`
	PriceRange  struct {
		MinVariantPrice moneyNode `json:"minVariantPrice"`
	} `json:"priceRange"`
	CompareAtPriceRange struct {
		MinVariantPrice moneyNode `json:"minVariantPrice"`
	} `json:"compareAtPriceRange"`
	Images struct {
		Edges []struct {
			Node struct {
				URL string `json:"url"`
			} `json:"node"`
		} `json:"edges"`
	} `json:"images"`
	Variants struct {
		Edges []struct {
			Node struct {
				ID string `json:"id"`
			} `json:"node"`
		} `json:"edges"`
	} `json:"variants"`
	Metafields []*metafieldNode `json:"metafields"`
}

type productConnection struct {
	Edges []struct {
		Node productNode `json:"node"`
	} `json:"edges"`
}

// ListAll returns the full product listing.
func (c *Client) ListAll(ctx context.Context) ([]domain.Product, error) {
	var data struct {
		Products productConnection `json:"products"`
	}
	vars := map[string]any{"identifiers": metafieldIdentifiers()}
	if err := c.query(ctx, "list_all_products", listAllQuery, vars, &data); err != nil {
		return nil, err
	}
	return normalizeConnection(data.Products), nil
}

// Search returns products matching a free-text query. An empty result is a
// valid outcome, not a failure.
func (c *Client) Search(ctx context.Context, query string) ([]domain.Product, error) {
	var data struct {
		Products productConnection `json:"products"`
	}
	vars := map[string]any{
		"query":       query,
		"identifiers": metafieldIdentifiers(),
	}
	if err := c.query(ctx, "search_products", searchQuery, vars, &data); err != nil {
		return nil, err
	}
	return normalizeConnection(data.Products), nil
}

// ListByCollection returns the products in the named collection. The handle
// "all" returns the full listing; an unknown collection yields an empty list.
func (c *Client) ListByCollection(ctx context.Context, handle string) ([]domain.Product, error) {
	if handle == "all" {
		return c.ListAll(ctx)
	}

	var data struct {
		Collection *struct {
			Products productConnection `json:"products"`
		} `json:"collection"`
	}
	vars := map[string]any{
		"handle":      handle,
		"identifiers": metafieldIdentifiers(),
	}
	if err := c.query(ctx, "list_collection_products", collectionProductsQuery, vars, &data); err != nil {
		return nil, err
	}
	if data.Collection == nil {
		return []domain.Product{}, nil
	}
	return normalizeConnection(data.Collection.Products), nil
}

/// ListFeatured returns the curated featured listing: the configured featured
// collection when one is set, otherwise all products carrying the featured tag.
func (c *Client) ListFeatured(ctx context.Context) ([]domain.Product, error) {
	if c.featuredCollection != "" {
		return c.ListByCollection(ctx, c.featuredCollection)
	}

	all, err := c.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	featured := make([]domain.Product, 0, len(all))
	for _, p := range all {
		if p.IsFeatured {
			featured = append(featured, p)
		}
	}
	return featured, nil
}

// GetByHandle fetches a single product by its URL slug. A missing product
// returns a not-found error distinct from backend unavailability.
func (c *Client) GetByHandle(ctx context.Context, handle string) (*domain.Product, error) {
	var data struct {
		Product *productNode `json:"product"`
	}
	vars := map[string]any{
		"handle":      handle,
		"identifiers": metafieldIdentifiers(),
	}
	if err := c.query(ctx, "get_product_by_handle", productByHandleQuery, vars, &data); err != nil {
		return nil, err
	}
	if data.Product == nil {
		return nil, apperrors.NotFound("product", handle)
	}
	p := normalizeProduct(*data.Product)
	return &p, nil
}

// ListCollectionHandles returns the handles of all storefront collections.
func (c *Client) ListCollectionHandles(ctx context.Context) ([]string, error) {
	var data struct {
		Collections struct {
			Edges []struct {
				Node struct {
					Handle string `json:"handle"`
				} `json:"node"`
			} `json:"edges"`
		} `json:"collections"`
	}
	if err := c.query(ctx, "list_collection_handles", collectionHandlesQuery, nil, &data); err != nil {
		return nil, err
	}
	handles := make([]string, 0, len(data.Collections.Edges))
	for _, edge := range data.Collections.Edges {
		handles = append(handles, edge.Node.Handle)
	}
	return handles, nil
}

// ResolveVariantID looks up the first variant ID for a product whose variant
// was not captured at normalization time. A product without variants returns
// a not-found error.
func (c *Client) ResolveVariantID(ctx context.Context, productID string) (string, error) {
	var data struct {
		Product *struct {
			Variants struct {
				Edges []struct {
					Node struct {
						ID string `json:"id"`
					} `json:"node"`
				} `json:"edges"`
			} `json:"variants"`
		} `json:"product"`
	}
	vars := map[string]any{"id": productID}
	if err := c.query(ctx, "resolve_variant_id", variantByProductQuery, vars, &data); err != nil {
		return "", err
	}
	if data.Product == nil || len(data.Product.Variants.Edges) == 0 {
		return "", apperrors.NotFound("variant", productID)
	}
	return data.Product.Variants.Edges[0].Node.ID, nil
}

// CreateCheckout creates a backend cart from the given lines and returns its
// hosted checkout URL. The flow is two-step: the creation mutation, then a
// follow-up read of the checkout URL when the mutation response omits it.
func (c *Client) CreateCheckout(ctx context.Context, lines []domain.CheckoutLine) (*domain.CheckoutResult, error) {
	lineInputs := make([]map[string]any, 0, len(lines))
	for _, line := range lines {
		lineInputs = append(lineInputs, map[string]any{
			"merchandiseId": line.VariantID,
			"quantity":      line.Quantity,
		})
	}

	var data struct {
		CartCreate *struct {
			Cart *struct {
				ID          string `json:"id"`
				CheckoutURL string `json:"checkoutUrl"`
			} `json:"cart"`
			UserErrors []UserError `json:"userErrors"`
		} `json:"cartCreate"`
	}
	vars := map[string]any{"lines": lineInputs}
	if err := c.query(ctx, "cart_create", cartCreateMutation, vars, &data); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCheckoutCreationFailed, err)
	}

	if data.CartCreate == nil {
		return nil, ErrEmptyCheckoutResponse
	}
	if len(data.CartCreate.UserErrors) > 0 {
		return nil, &BackendUserError{Errors: data.CartCreate.UserErrors}
	}
	if data.CartCreate.Cart == nil {
		return nil, ErrEmptyCheckoutResponse
	}

	result := &domain.CheckoutResult{
		CartID: data.CartCreate.Cart.ID,
		WebURL: data.CartCreate.Cart.CheckoutURL,
	}
	if result.WebURL == "" {
		url, err := c.checkoutURL(ctx, result.CartID)
		if err != nil {
			return nil, err
		}
		result.WebURL = url
	}
	if result.WebURL == "" {
		return nil, ErrMissingCheckoutURL
	}
	return result, nil
}

func (c *Client) checkoutURL(ctx context.Context, cartID string) (string, error) {
	var data struct {
		Cart *struct {
			CheckoutURL string `json:"checkoutUrl"`
		} `json:"cart"`
	}
	vars := map[string]any{"id": cartID}
	if err := c.query(ctx, "cart_checkout_url", cartCheckoutURLQuery, vars, &data); err != nil {
		return "", fmt.Errorf("%w: %w", ErrCheckoutCreationFailed, err)
	}
	if data.Cart == nil {
		return "", ErrMissingCheckoutURL
	}
	return data.Cart.CheckoutURL, nil
}
