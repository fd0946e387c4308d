package handler

import (
	"net/http"
	"strings"

	"github.com/fotuneb/bot-e-commerce/internal/service"

	"github.com/rs/zerolog"
)

// CatalogHandler handles catalog browsing requests.
type CatalogHandler struct {
	catalog service.CatalogService
	logger  zerolog.Logger
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler(catalog service.CatalogService, logger zerolog.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalog: catalog,
		logger:  logger.With().Str("handler", "catalog").Logger(),
	}
}

// ListCategories handles GET /api/categories requests.
func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	categories, err := h.catalog.ListCategories(r.Context())
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, categories)
}

// ListProducts handles GET /api/categories/{id}/products requests.
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	// Expecting path: /api/categories/{id}/products
	rest := strings.TrimPrefix(r.URL.Path, "/api/categories/")
	idStr, ok := strings.CutSuffix(rest, "/products")
	if !ok || idStr == "" {
		writeError(w, http.StatusNotFound, "not found", h.logger)
		return
	}

	categoryID, err := parseID(idStr)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid category ID", h.logger)
		return
	}

	products, err := h.catalog.ListProductsByCategory(r.Context(), categoryID)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, products)
}

// GetProduct handles GET /api/products/{id} requests.
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	idStr := strings.TrimPrefix(r.URL.Path, "/api/products/")
	if idStr == "" {
		writeError(w, http.StatusBadRequest, "product ID is required", h.logger)
		return
	}

	productID, err := parseID(idStr)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid product ID", h.logger)
		return
	}

	product, err := h.catalog.GetProduct(r.Context(), productID)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, product)
}
