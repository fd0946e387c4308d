package router

import (
	"net/http"
	"strings"

	"github.com/fotuneb/bot-e-commerce/internal/handler"
	"github.com/fotuneb/bot-e-commerce/internal/middleware"

	"github.com/rs/zerolog"
)

// New creates a new HTTP router with all routes and middleware configured.
// Shopper routes identify the caller via the X-User-ID header; operator
// routes under /api/admin/ additionally require the operator key.
func New(
	catalogHandler *handler.CatalogHandler,
	cartHandler *handler.CartHandler,
	checkoutHandler *handler.CheckoutHandler,
	adminHandler *handler.AdminHandler,
	operatorKey string,
	logger zerolog.Logger,
) http.Handler {
	mux := http.NewServeMux()

	// Health check endpoint (no authentication required)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	// Catalog browsing
	mux.HandleFunc("/api/categories", catalogHandler.ListCategories)
	mux.HandleFunc("/api/categories/", catalogHandler.ListProducts)
	mux.HandleFunc("/api/products/", catalogHandler.GetProduct)

	// Cart
	cartRouteHandler := func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			cartHandler.View(w, r)
		case http.MethodDelete:
			cartHandler.Clear(w, r)
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	}
	mux.HandleFunc("/api/cart", cartRouteHandler)
	mux.HandleFunc("/api/cart/items/", cartHandler.Item)

	// Checkout dialogue
	checkoutRoutes := map[string]http.HandlerFunc{
		"start":   checkoutHandler.Start,
		"name":    checkoutHandler.SubmitName,
		"phone":   checkoutHandler.SubmitPhone,
		"address": checkoutHandler.SubmitAddress,
		"confirm": checkoutHandler.Confirm,
		"cancel":  checkoutHandler.Cancel,
	}
	mux.HandleFunc("/api/checkout/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		action := strings.TrimPrefix(r.URL.Path, "/api/checkout/")
		route, ok := checkoutRoutes[action]
		if !ok {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		route(w, r)
	})

	// Operator routes behind the operator key
	adminMux := http.NewServeMux()
	adminMux.HandleFunc("/api/admin/categories", adminHandler.CreateCategory)
	adminMux.HandleFunc("/api/admin/products", adminHandler.CreateProduct)
	adminMux.HandleFunc("/api/admin/products/", adminHandler.Product)
	adminMux.HandleFunc("/api/admin/orders", adminHandler.ListOrders)
	adminMux.HandleFunc("/api/admin/orders/", adminHandler.Order)
	mux.Handle("/api/admin/", middleware.OperatorAuth(operatorKey, logger)(adminMux))

	// Apply middleware in order: Recovery -> Logging -> CORS
	var h http.Handler = mux
	h = middleware.CORS(h)
	h = middleware.Logging(logger)(h)
	h = middleware.Recovery(logger)(h)

	return h
}
