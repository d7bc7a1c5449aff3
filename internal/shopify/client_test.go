package shopify

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Karaba21/Innowave/internal/domain"
	apperrors "github.com/Karaba21/Innowave/pkg/errors"
	"github.com/Karaba21/Innowave/pkg/httpclient"
)

const testProductNode = `{
	"id": "gid://shopify/Product/1",
	"title": "iPhone 13",
	"description": "Reacondicionado",
	"handle": "iphone-13",
	"productType": "Celulares",
	"tags": ["destacado", "seccion:ofertas"],
	"priceRange": {"minVariantPrice": {"amount": "499.99", "currencyCode": "USD"}},
	"compareAtPriceRange": {"minVariantPrice": {"amount": "599.99", "currencyCode": "USD"}},
	"images": {"edges": [{"node": {"url": "https://cdn.example/1.jpg"}}, {"node": {"url": "https://cdn.example/2.jpg"}}]},
	"variants": {"edges": [{"node": {"id": "gid://shopify/ProductVariant/11"}}]},
	"metafields": [
		{"namespace": "custom", "key": "marca", "value": "Apple"},
		{"namespace": "custom", "key": "tecnologia_de_la_bateria", "value": "Litio"},
		null
	]
}`

type capturedRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	doer := httpclient.New(httpclient.Config{
		Timeout:      5 * time.Second,
		MaxRetries:   0,
		RetryWaitMin: time.Millisecond,
		RetryWaitMax: time.Millisecond,
	})

	client, err := NewClient(Config{
		StoreDomain: "shop.example",
		APIVersion:  "2024-10",
		AccessToken: "token-123",
	}, doer, slog.New(slog.NewTextHandler(testWriter{t}, nil)))
	require.NoError(t, err)

	// Point the client at the test server instead of the real domain.
	client.endpoint = srv.URL
	return client, srv
}

type testWriter struct{ t *testing.T }

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Log(strings.TrimSpace(string(p)))
	return len(p), nil
}

func TestNewClient_MissingCredentials(t *testing.T) {
	doer := httpclient.New(httpclient.DefaultConfig())
	logger := slog.Default()

	_, err := NewClient(Config{AccessToken: "t"}, doer, logger)
	assert.ErrorIs(t, err, apperrors.ErrConfiguration)

	_, err = NewClient(Config{StoreDomain: "shop.example"}, doer, logger)
	assert.ErrorIs(t, err, apperrors.ErrConfiguration)
}

func TestClient_ListAll(t *testing.T) {
	var captured capturedRequest
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "token-123", r.Header.Get("X-Shopify-Storefront-Access-Token"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data": {"products": {"edges": [{"node": ` + testProductNode + `}]}}}`))
	})

	products, err := client.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 1)

	p := products[0]
	assert.Equal(t, "gid://shopify/Product/1", p.ID)
	assert.Equal(t, "iphone-13", p.Handle)
	assert.InDelta(t, 499.99, p.Price, 0.0001)
	require.NotNil(t, p.OldPrice)
	assert.InDelta(t, 599.99, *p.OldPrice, 0.0001)
	assert.Equal(t, []string{"https://cdn.example/1.jpg", "https://cdn.example/2.jpg"}, p.Images)
	assert.Equal(t, "gid://shopify/ProductVariant/11", p.VariantID)
	assert.Equal(t, "Celulares", p.Category)
	assert.True(t, p.IsFeatured)
	assert.Equal(t, "ofertas", p.SectionTag)

	// The request carries the metafield identifier list as a variable.
	assert.Contains(t, captured.Query, "products(first: 100)")
	assert.NotEmpty(t, captured.Variables["identifiers"])
}

func TestClient_ListAll_GraphQLErrors(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data": null, "errors": [{"message": "throttled"}]}`))
	})

	_, err := client.ListAll(context.Background())

	var unavailableErr *UnavailableError
	require.ErrorAs(t, err, &unavailableErr)
	assert.Equal(t, "list_all_products", unavailableErr.Operation)
	assert.Contains(t, unavailableErr.Error(), "throttled")
}

func TestClient_ListAll_ServerError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := client.ListAll(context.Background())

	var unavailableErr *UnavailableError
	assert.ErrorAs(t, err, &unavailableErr)
}

func TestClient_Search_Empty(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data": {"products": {"edges": []}}}`))
	})

	products, err := client.Search(context.Background(), "nothing")
	require.NoError(t, err)
	assert.Empty(t, products)
	assert.NotNil(t, products)
}

func TestClient_ListByCollection_UnknownCollection(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data": {"collection": null}}`))
	})

	products, err := client.ListByCollection(context.Background(), "missing")
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestClient_ListByCollection_AllServesFullListing(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.NotContains(t, string(body), "collection(")
		_, _ = w.Write([]byte(`{"data": {"products": {"edges": [{"node": ` + testProductNode + `}]}}}`))
	})

	products, err := client.ListByCollection(context.Background(), "all")
	require.NoError(t, err)
	require.Len(t, products, 1)
}

func TestClient_GetByHandle(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data": {"product": ` + testProductNode + `}}`))
	})

	p, err := client.GetByHandle(context.Background(), "iphone-13")
	require.NoError(t, err)
	assert.Equal(t, "iPhone 13", p.Title)
}

func TestClient_GetByHandle_NotFound(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data": {"product": null}}`))
	})

	_, err := client.GetByHandle(context.Background(), "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestClient_ListFeatured_ByTag(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		plain := strings.Replace(testProductNode, `"tags": ["destacado", "seccion:ofertas"]`, `"tags": []`, 1)
		_, _ = w.Write([]byte(`{"data": {"products": {"edges": [
			{"node": ` + testProductNode + `},
			{"node": ` + plain + `}
		]}}}`))
	})

	products, err := client.ListFeatured(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.True(t, products[0].IsFeatured)
}

func TestClient_ListFeatured_ByCollection(t *testing.T) {
	var captured capturedRequest
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		_, _ = w.Write([]byte(`{"data": {"collection": {"products": {"edges": []}}}}`))
	})
	client.featuredCollection = "destacados"

	_, err := client.ListFeatured(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "destacados", captured.Variables["handle"])
}

func TestClient_ListCollectionHandles(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data": {"collections": {"edges": [
			{"node": {"handle": "celulares"}},
			{"node": {"handle": "ofertas"}}
		]}}}`))
	})

	handles, err := client.ListCollectionHandles(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"celulares", "ofertas"}, handles)
}

func TestClient_ResolveVariantID(t *testing.T) {
	var captured capturedRequest
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		_, _ = w.Write([]byte(`{"data": {"product": {"variants": {"edges": [{"node": {"id": "gid://shopify/ProductVariant/42"}}]}}}}`))
	})

	variantID, err := client.ResolveVariantID(context.Background(), "gid://shopify/Product/7")
	require.NoError(t, err)
	assert.Equal(t, "gid://shopify/ProductVariant/42", variantID)
	assert.Equal(t, "gid://shopify/Product/7", captured.Variables["id"])
}

func TestClient_ResolveVariantID_NoVariants(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data": {"product": {"variants": {"edges": []}}}}`))
	})

	_, err := client.ResolveVariantID(context.Background(), "gid://shopify/Product/7")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestClient_CreateCheckout(t *testing.T) {
	var captured capturedRequest
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		_, _ = w.Write([]byte(`{"data": {"cartCreate": {
			"cart": {"id": "gid://shopify/Cart/1", "checkoutUrl": "https://shop.example/checkouts/abc"},
			"userErrors": []
		}}}`))
	})

	result, err := client.CreateCheckout(context.Background(), []domain.CheckoutLine{
		{VariantID: "gid://shopify/ProductVariant/1", Quantity: 2},
		{VariantID: "gid://shopify/ProductVariant/2", Quantity: 1},
	})
	require.NoError(t, err)
	assert.Equal(t, "https://shop.example/checkouts/abc", result.WebURL)

	lines, ok := captured.Variables["lines"].([]any)
	require.True(t, ok)
	require.Len(t, lines, 2)
	first, ok := lines[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "gid://shopify/ProductVariant/1", first["merchandiseId"])
	assert.Equal(t, float64(2), first["quantity"])
}

func TestClient_CreateCheckout_UserErrors(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data": {"cartCreate": {
			"cart": null,
			"userErrors": [
				{"field": ["lines", "0"], "message": "Variant is unavailable"},
				{"field": ["lines", "1"], "message": "Quantity too high"}
			]
		}}}`))
	})

	_, err := client.CreateCheckout(context.Background(), []domain.CheckoutLine{
		{VariantID: "gid://shopify/ProductVariant/1", Quantity: 1},
	})

	var userErr *BackendUserError
	require.ErrorAs(t, err, &userErr)
	assert.Equal(t, "Variant is unavailable; Quantity too high", userErr.Error())
}

func TestClient_CreateCheckout_EmptyResponse(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data": {"cartCreate": {"cart": null, "userErrors": []}}}`))
	})

	_, err := client.CreateCheckout(context.Background(), []domain.CheckoutLine{
		{VariantID: "gid://shopify/ProductVariant/1", Quantity: 1},
	})
	assert.ErrorIs(t, err, ErrEmptyCheckoutResponse)
}

func TestClient_CreateCheckout_MissingURLFallsBackToCartRead(t *testing.T) {
	var calls int
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			_, _ = w.Write([]byte(`{"data": {"cartCreate": {
				"cart": {"id": "gid://shopify/Cart/1", "checkoutUrl": ""},
				"userErrors": []
			}}}`))
			return
		}
		_, _ = w.Write([]byte(`{"data": {"cart": {"checkoutUrl": "https://shop.example/checkouts/late"}}}`))
	})

	result, err := client.CreateCheckout(context.Background(), []domain.CheckoutLine{
		{VariantID: "gid://shopify/ProductVariant/1", Quantity: 1},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Equal(t, "https://shop.example/checkouts/late", result.WebURL)
}

func TestClient_CreateCheckout_MissingURL(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data": {"cartCreate": {
			"cart": {"id": "gid://shopify/Cart/1", "checkoutUrl": ""},
			"userErrors": []
		}}}`))
	})

	_, err := client.CreateCheckout(context.Background(), []domain.CheckoutLine{
		{VariantID: "gid://shopify/ProductVariant/1", Quantity: 1},
	})
	assert.ErrorIs(t, err, ErrMissingCheckoutURL)
}

func TestClient_CreateCheckout_TransportFailure(t *testing.T) {
	client, srv := newTestClient(t, nil)
	srv.Close()

	_, err := client.CreateCheckout(context.Background(), []domain.CheckoutLine{
		{VariantID: "gid://shopify/ProductVariant/1", Quantity: 1},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCheckoutCreationFailed))
}
