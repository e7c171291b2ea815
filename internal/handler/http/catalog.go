package http

import (
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/rasulshaikhdev/techgear-hub/internal/catalog"
	apperrors "github.com/rasulshaikhdev/techgear-hub/pkg/errors"
	"github.com/rasulshaikhdev/techgear-hub/pkg/httputil"
	"github.com/rasulshaikhdev/techgear-hub/pkg/pagination"
)

// CatalogHandler serves the read-only product catalog.
type CatalogHandler struct {
	catalog *catalog.Catalog
	logger  *slog.Logger
}

// NewCatalogHandler creates a new catalog HTTP handler.
func NewCatalogHandler(cat *catalog.Catalog, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{catalog: cat, logger: logger}
}

// filterFromRequest reads q, category, max_price and sort from the query string.
func filterFromRequest(r *http.Request) (catalog.Filter, error) {
	q := r.URL.Query()
	f := catalog.Filter{
		Query:    q.Get("q"),
		Category: q.Get("category"),
		Sort:     q.Get("sort"),
	}

	if raw := strings.TrimSpace(q.Get("max_price")); raw != "" {
		d, err := decimal.NewFromString(raw)
		if err != nil || d.IsNegative() {
			return f, apperrors.InvalidInput("invalid max_price: " + raw)
		}
		f.MaxPrice = d
	}
	if !slices.Contains(catalog.SortKeys, f.Sort) {
		return f, apperrors.InvalidInput("invalid sort: " + f.Sort)
	}
	return f, nil
}

// ListProducts handles GET /api/v1/products
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	f, err := filterFromRequest(r)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	products := h.catalog.Apply(f)
	httputil.WriteData(w, http.StatusOK, pagination.Slice(products, pagination.FromRequest(r)))
}

// GetProduct handles GET /api/v1/products/{ref}. ref is a numeric id or a slug.
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	ref := chi.URLParam(r, "ref")
	p, ok := h.catalog.Lookup(ref)
	if !ok {
		httputil.WriteError(w, r, apperrors.NotFound("product", ref), h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, p)
}

// ListCategories handles GET /api/v1/categories
func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	httputil.WriteData(w, http.StatusOK, h.catalog.Categories())
}
