package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/fotuneb/bot-e-commerce/internal/model"
	"github.com/fotuneb/bot-e-commerce/internal/service"

	"github.com/rs/zerolog"
)

// AdminHandler handles operator-only catalog and order management requests.
// Operator authorization is enforced by middleware before these run.
type AdminHandler struct {
	catalog service.CatalogService
	orders  service.OrderService
	logger  zerolog.Logger
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(catalog service.CatalogService, orders service.OrderService, logger zerolog.Logger) *AdminHandler {
	return &AdminHandler{
		catalog: catalog,
		orders:  orders,
		logger:  logger.With().Str("handler", "admin").Logger(),
	}
}

// CreateCategory handles POST /api/admin/categories requests.
func (h *AdminHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	var input model.CategoryInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body", h.logger)
		return
	}

	id, err := h.catalog.AddCategory(r.Context(), input)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]int64{"id": id})
}

// CreateProduct handles POST /api/admin/products requests.
func (h *AdminHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var input model.ProductInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body", h.logger)
		return
	}

	id, err := h.catalog.AddProduct(r.Context(), input)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]int64{"id": id})
}

// Product routes PATCH and DELETE /api/admin/products/{id} requests.
func (h *AdminHandler) Product(w http.ResponseWriter, r *http.Request) {
	idStr := strings.TrimPrefix(r.URL.Path, "/api/admin/products/")
	productID, err := parseID(idStr)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid product ID", h.logger)
		return
	}

	switch r.Method {
	case http.MethodPatch:
		var upd model.ProductUpdate
		if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body", h.logger)
			return
		}
		if err := h.catalog.UpdateProduct(r.Context(), productID, upd); err != nil {
			writeDomainError(w, err, h.logger)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})

	case http.MethodDelete:
		if err := h.catalog.DeleteProduct(r.Context(), productID); err != nil {
			writeDomainError(w, err, h.logger)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
	}
}

// ListOrders handles GET /api/admin/orders requests, most recent first.
func (h *AdminHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	orders, err := h.orders.List(r.Context())
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, orders)
}

// Order routes GET /api/admin/orders/{id} and PUT /api/admin/orders/{id}/status.
func (h *AdminHandler) Order(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/admin/orders/")
	idStr, action, _ := strings.Cut(rest, "/")

	orderID, err := parseID(idStr)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid order ID", h.logger)
		return
	}

	switch {
	case r.Method == http.MethodGet && action == "":
		order, err := h.orders.Get(r.Context(), orderID)
		if err != nil {
			writeDomainError(w, err, h.logger)
			return
		}
		writeJSON(w, http.StatusOK, order)

	case r.Method == http.MethodPut && action == "status":
		var input model.StatusInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body", h.logger)
			return
		}
		if err := h.orders.UpdateStatus(r.Context(), orderID, input); err != nil {
			writeDomainError(w, err, h.logger)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": input.Status})

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
	}
}
