package handler

import (
	"net/http"
	"strings"

	"github.com/fotuneb/bot-e-commerce/internal/service"

	"github.com/rs/zerolog"
)

// CartHandler handles shopper cart requests. The shopper identity comes from
// the X-User-ID header supplied by the dispatch layer.
type CartHandler struct {
	cart   service.CartService
	logger zerolog.Logger
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(cart service.CartService, logger zerolog.Logger) *CartHandler {
	return &CartHandler{
		cart:   cart,
		logger: logger.With().Str("handler", "cart").Logger(),
	}
}

// View handles GET /api/cart requests, returning cart lines and the total.
func (h *CartHandler) View(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(w, r, h.logger)
	if !ok {
		return
	}

	view, err := h.cart.View(r.Context(), userID)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

// Clear handles DELETE /api/cart requests.
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(w, r, h.logger)
	if !ok {
		return
	}

	if err := h.cart.Clear(r.Context(), userID); err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

// Item routes item-level requests:
//
//	POST   /api/cart/items/{pid}            add one unit
//	POST   /api/cart/items/{pid}/increment  raise quantity by one
//	POST   /api/cart/items/{pid}/decrement  lower quantity by one
//	DELETE /api/cart/items/{pid}            remove the entry
func (h *CartHandler) Item(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(w, r, h.logger)
	if !ok {
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/api/cart/items/")
	idStr, action, _ := strings.Cut(rest, "/")

	productID, err := parseID(idStr)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid product ID", h.logger)
		return
	}

	switch {
	case r.Method == http.MethodPost && action == "":
		err = h.cart.Add(r.Context(), userID, productID)
	case r.Method == http.MethodPost && action == "increment":
		err = h.cart.Increment(r.Context(), userID, productID)
	case r.Method == http.MethodPost && action == "decrement":
		err = h.cart.Decrement(r.Context(), userID, productID)
	case r.Method == http.MethodDelete && action == "":
		err = h.cart.Remove(r.Context(), userID, productID)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
