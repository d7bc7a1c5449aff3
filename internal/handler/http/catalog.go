package http

import (
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/Karaba21/Innowave/internal/domain"
	"github.com/Karaba21/Innowave/internal/service"
	"github.com/Karaba21/Innowave/pkg/httputil"
	"github.com/Karaba21/Innowave/pkg/pagination"
)

// CatalogHandler handles HTTP requests for catalog read endpoints.
type CatalogHandler struct {
	service *service.CatalogService
	logger  *slog.Logger
}

// NewCatalogHandler creates a new catalog HTTP handler.
func NewCatalogHandler(svc *service.CatalogService, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{
		service: svc,
		logger:  logger,
	}
}

// ListProducts handles GET /api/v1/products. The listing can be narrowed
// by ?category= and by any of the metafield keys as query parameters,
// each taking a value slug from the facets endpoint.
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products := h.service.ListFiltered(r.Context(), filterFromQuery(r.URL.Query()))
	params := pagination.FromRequest(r)
	page := pagination.Apply(products, params)
	httputil.WriteJSON(w, http.StatusOK, pagination.NewResult(page, len(products), params))
}

func filterFromQuery(q url.Values) service.Filter {
	filter := service.Filter{Category: q.Get("category")}
	for _, key := range domain.MetafieldKeys() {
		value := q.Get(key)
		if value == "" {
			continue
		}
		if filter.Metafields == nil {
			filter.Metafields = make(map[string]string)
		}
		filter.Metafields[key] = value
	}
	return filter
}

// ListFeatured handles GET /api/v1/products/featured
func (h *CatalogHandler) ListFeatured(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, h.service.ListFeatured(r.Context()))
}

// SearchProducts handles GET /api/v1/products/search?q=...
func (h *CatalogHandler) SearchProducts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorBody{
			Error: "q query parameter is required",
			Code:  "INVALID_INPUT",
		})
		return
	}
	httputil.WriteJSON(w, http.StatusOK, h.service.Search(r.Context(), query))
}

// Facets handles GET /api/v1/products/facets
func (h *CatalogHandler) Facets(w http.ResponseWriter, r *http.Request) {
	facets := h.service.Facets(r.Context())
	if facets == nil {
		facets = []service.Facet{}
	}
	httputil.WriteJSON(w, http.StatusOK, facets)
}

// GetProduct handles GET /api/v1/products/{handle}
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	handle := chi.URLParam(r, "handle")

	product, err := h.service.GetByHandle(r.Context(), handle)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, product)
}

// ListCollections handles GET /api/v1/collections
func (h *CatalogHandler) ListCollections(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, h.service.ListCollectionHandles(r.Context()))
}

// ListCollectionProducts handles GET /api/v1/collections/{handle}/products
func (h *CatalogHandler) ListCollectionProducts(w http.ResponseWriter, r *http.Request) {
	handle := chi.URLParam(r, "handle")
	httputil.WriteJSON(w, http.StatusOK, h.service.ListByCollection(r.Context(), handle))
}
