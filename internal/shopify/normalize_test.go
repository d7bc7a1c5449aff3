package shopify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Karaba21/Innowave/internal/domain"
)

func TestNormalizeMetafields_FallbackKeys(t *testing.T) {
	tests := []struct {
		name     string
		primary  string
		fallback string
	}{
		{"battery technology", domain.MetafieldBatteryTech, "tecnologia_de_la_bateria"},
		{"sim capacity", domain.MetafieldSIMCapacity, "capacidad_de_tarjeta_sim"},
		{"subscription type", domain.MetafieldSubscription, "tipo_de_suscripcion"},
		{"data network", domain.MetafieldDataNetwork, "red_datos"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Only the fallback spelling carries a value.
			fields := normalizeMetafields([]*metafieldNode{
				{Namespace: "custom", Key: tt.fallback, Value: "fallback-value"},
			})
			assert.Equal(t, "fallback-value", fields[tt.primary])

			// The primary wins when both are present.
			fields = normalizeMetafields([]*metafieldNode{
				{Namespace: "custom", Key: tt.primary, Value: "primary-value"},
				{Namespace: "custom", Key: tt.fallback, Value: "fallback-value"},
			})
			assert.Equal(t, "primary-value", fields[tt.primary])
		})
	}
}

func TestNormalizeMetafields_NilAndEmptyNodes(t *testing.T) {
	fields := normalizeMetafields([]*metafieldNode{
		nil,
		{Namespace: "custom", Key: domain.MetafieldBrand, Value: ""},
	})
	assert.Nil(t, fields)
}

func TestNormalizeProduct_NoVariantsNoImages(t *testing.T) {
	p := normalizeProduct(productNode{
		ID:     "gid://shopify/Product/9",
		Title:  "Sin variantes",
		Handle: "sin-variantes",
	})

	assert.Empty(t, p.VariantID)
	require.NotNil(t, p.Images)
	assert.Empty(t, p.Images)
	assert.Nil(t, p.OldPrice)
	assert.Zero(t, p.Price)
}

func TestNormalizeProduct_OldPriceOnlyWhenHigher(t *testing.T) {
	node := productNode{ID: "p"}
	node.PriceRange.MinVariantPrice.Amount = "100.00"
	node.CompareAtPriceRange.MinVariantPrice.Amount = "100.00"

	p := normalizeProduct(node)
	assert.Nil(t, p.OldPrice)

	node.CompareAtPriceRange.MinVariantPrice.Amount = "150.00"
	p = normalizeProduct(node)
	require.NotNil(t, p.OldPrice)
	assert.InDelta(t, 150.0, *p.OldPrice, 0.0001)
}

func TestParseAmount(t *testing.T) {
	assert.InDelta(t, 499.99, parseAmount("499.99"), 0.0001)
	assert.Zero(t, parseAmount(""))
	assert.Zero(t, parseAmount("not-a-number"))
}
