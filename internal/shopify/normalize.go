package shopify

import (
	"strconv"
	"strings"

	"github.com/Karaba21/Innowave/internal/domain"
)

// Product tags with storefront meaning.
const (
	featuredTag      = "destacado"
	sectionTagPrefix = "seccion:"
)

func normalizeConnection(conn productConnection) []domain.Product {
	products := make([]domain.Product, 0, len(conn.Edges))
	for _, edge := range conn.Edges {
		products = append(products, normalizeProduct(edge.Node))
	}
	return products
}

// normalizeProduct maps a raw storefront node onto the domain product.
// Prices come from the minimum variant price, images flatten to an ordered
// URL list that is never nil, and the first variant ID is captured when one
// exists.
func normalizeProduct(node productNode) domain.Product {
	p := domain.Product{
		ID:          node.ID,
		Title:       node.Title,
		Description: node.Description,
		Handle:      node.Handle,
		Category:    node.ProductType,
		Price:       parseAmount(node.PriceRange.MinVariantPrice.Amount),
		Images:      make([]string, 0, len(node.Images.Edges)),
	}

	if old := parseAmount(node.CompareAtPriceRange.MinVariantPrice.Amount); old > p.Price {
		p.OldPrice = &old
	}

	for _, edge := range node.Images.Edges {
		if edge.Node.URL != "" {
			p.Images = append(p.Images, edge.Node.URL)
		}
	}

	if len(node.Variants.Edges) > 0 {
		p.VariantID = node.Variants.Edges[0].Node.ID
	}

	for _, tag := range node.Tags {
		switch {
		case tag == featuredTag:
			p.IsFeatured = true
		case strings.HasPrefix(tag, sectionTagPrefix):
			p.SectionTag = strings.TrimPrefix(tag, sectionTagPrefix)
		}
	}

	p.Metafields = normalizeMetafields(node.Metafields)
	return p
}

// normalizeMetafields folds the raw metafield list into the fixed key set,
// applying the fallback spelling for a key when its primary value is empty.
func normalizeMetafields(nodes []*metafieldNode) map[string]string {
	byKey := make(map[string]string, len(nodes))
	for _, node := range nodes {
		if node == nil || node.Value == "" {
			continue
		}
		byKey[node.Key] = node.Value
	}

	fields := make(map[string]string)
	for _, key := range domain.MetafieldKeys() {
		value := byKey[key]
		if value == "" {
			if alt, ok := metafieldFallbacks[key]; ok {
				value = byKey[alt]
			}
		}
		if value != "" {
			fields[key] = value
		}
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}

func parseAmount(amount string) float64 {
	if amount == "" {
		return 0
	}
	v, err := strconv.ParseFloat(amount, 64)
	if err != nil {
		return 0
	}
	return v
}
