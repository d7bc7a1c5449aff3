package service

import (
	"context"
	"errors"
	"log/slog"
	"sort"

	"github.com/Karaba21/Innowave/internal/domain"
	"github.com/Karaba21/Innowave/internal/shopify"
	"github.com/Karaba21/Innowave/pkg/slug"
)

// Catalog is the slice of the storefront client the catalog service needs.
type Catalog interface {
	ListAll(ctx context.Context) ([]domain.Product, error)
	ListFeatured(ctx context.Context) ([]domain.Product, error)
	ListByCollection(ctx context.Context, handle string) ([]domain.Product, error)
	Search(ctx context.Context, query string) ([]domain.Product, error)
	GetByHandle(ctx context.Context, handle string) (*domain.Product, error)
	ListCollectionHandles(ctx context.Context) ([]string, error)
}

// Facet is one filterable attribute with its observed values and counts.
type Facet struct {
	Key    string       `json:"key"`
	Values []FacetValue `json:"values"`
}

// FacetValue is a single attribute value and how many products carry it.
// Slug is the URL-safe form used as a stable filter query key.
type FacetValue struct {
	Value string `json:"value"`
	Slug  string `json:"slug"`
	Count int    `json:"count"`
}

// Filter narrows a product listing by category and metafield values.
// Values are matched in slug form so filters built from facet links
// survive accents and casing.
type Filter struct {
	Category   string
	Metafields map[string]string
}

// IsZero reports whether the filter selects everything.
func (f Filter) IsZero() bool {
	return f.Category == "" && len(f.Metafields) == 0
}

// Match reports whether a product satisfies every clause of the filter.
func (f Filter) Match(p domain.Product) bool {
	if f.Category != "" && slug.Generate(p.Category) != f.Category {
		return false
	}
	for key, want := range f.Metafields {
		if slug.Generate(p.Metafield(key)) != want {
			return false
		}
	}
	return true
}

// CatalogService fronts the storefront catalog. Listing reads degrade to
// empty results when the backend is unavailable so browsing pages render
// "no products found" instead of failing; single-item reads propagate the
// failure for the caller to map.
type CatalogService struct {
	catalog Catalog
	logger  *slog.Logger
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(catalog Catalog, logger *slog.Logger) *CatalogService {
	return &CatalogService{
		catalog: catalog,
		logger:  logger,
	}
}

// ListAll returns the full product listing.
func (s *CatalogService) ListAll(ctx context.Context) []domain.Product {
	return s.degrade(ctx, "list_all", func() ([]domain.Product, error) {
		return s.catalog.ListAll(ctx)
	})
}

// ListFiltered returns the full listing narrowed by the filter.
func (s *CatalogService) ListFiltered(ctx context.Context, filter Filter) []domain.Product {
	products := s.ListAll(ctx)
	if filter.IsZero() {
		return products
	}
	filtered := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if filter.Match(p) {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

// ListFeatured returns the curated featured listing.
func (s *CatalogService) ListFeatured(ctx context.Context) []domain.Product {
	return s.degrade(ctx, "list_featured", func() ([]domain.Product, error) {
		return s.catalog.ListFeatured(ctx)
	})
}

// ListByCollection returns the products in the named collection.
func (s *CatalogService) ListByCollection(ctx context.Context, handle string) []domain.Product {
	return s.degrade(ctx, "list_by_collection", func() ([]domain.Product, error) {
		return s.catalog.ListByCollection(ctx, handle)
	})
}

// Search returns products matching a free-text query.
func (s *CatalogService) Search(ctx context.Context, query string) []domain.Product {
	return s.degrade(ctx, "search", func() ([]domain.Product, error) {
		return s.catalog.Search(ctx, query)
	})
}

// GetByHandle fetches a single product. Unlike listings this propagates
// backend failure, so the caller can distinguish missing from unavailable.
func (s *CatalogService) GetByHandle(ctx context.Context, handle string) (*domain.Product, error) {
	return s.catalog.GetByHandle(ctx, handle)
}

// ListCollectionHandles returns all collection handles, degrading to an
// empty list on backend failure.
func (s *CatalogService) ListCollectionHandles(ctx context.Context) []string {
	handles, err := s.catalog.ListCollectionHandles(ctx)
	if err != nil {
		s.logUnavailable(ctx, "list_collection_handles", err)
		return []string{}
	}
	return handles
}

// Facets aggregates metafield values over the full listing into filter
// groups with per-value product counts, in the fixed metafield key order.
func (s *CatalogService) Facets(ctx context.Context) []Facet {
	products := s.ListAll(ctx)

	counts := make(map[string]map[string]int)
	for _, p := range products {
		for _, key := range domain.MetafieldKeys() {
			value := p.Metafield(key)
			if value == "" {
				continue
			}
			if counts[key] == nil {
				counts[key] = make(map[string]int)
			}
			counts[key][value]++
		}
	}

	facets := make([]Facet, 0, len(counts))
	for _, key := range domain.MetafieldKeys() {
		byValue := counts[key]
		if len(byValue) == 0 {
			continue
		}
		values := make([]FacetValue, 0, len(byValue))
		for value, count := range byValue {
			values = append(values, FacetValue{Value: value, Slug: slug.Generate(value), Count: count})
		}
		sort.Slice(values, func(i, j int) bool {
			if values[i].Count != values[j].Count {
				return values[i].Count > values[j].Count
			}
			return values[i].Value < values[j].Value
		})
		facets = append(facets, Facet{Key: key, Values: values})
	}
	return facets
}

func (s *CatalogService) degrade(ctx context.Context, operation string, fn func() ([]domain.Product, error)) []domain.Product {
	products, err := fn()
	if err != nil {
		s.logUnavailable(ctx, operation, err)
		return []domain.Product{}
	}
	return products
}

func (s *CatalogService) logUnavailable(ctx context.Context, operation string, err error) {
	var unavailableErr *shopify.UnavailableError
	if errors.As(err, &unavailableErr) {
		s.logger.ErrorContext(ctx, "catalog unavailable, serving empty result",
			slog.String("operation", operation),
			slog.String("backend_operation", unavailableErr.Operation),
			slog.String("error", err.Error()),
		)
		return
	}
	s.logger.ErrorContext(ctx, "catalog read failed, serving empty result",
		slog.String("operation", operation),
		slog.String("error", err.Error()),
	)
}
