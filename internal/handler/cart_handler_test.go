package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/fotuneb/bot-e-commerce/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockCartService is a mock implementation of service.CartService.
type MockCartService struct {
	mock.Mock
}

func (m *MockCartService) Add(ctx context.Context, userID, productID int64) error {
	args := m.Called(ctx, userID, productID)
	return args.Error(0)
}

func (m *MockCartService) Increment(ctx context.Context, userID, productID int64) error {
	args := m.Called(ctx, userID, productID)
	return args.Error(0)
}

func (m *MockCartService) Decrement(ctx context.Context, userID, productID int64) error {
	args := m.Called(ctx, userID, productID)
	return args.Error(0)
}

func (m *MockCartService) Remove(ctx context.Context, userID, productID int64) error {
	args := m.Called(ctx, userID, productID)
	return args.Error(0)
}

func (m *MockCartService) Clear(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockCartService) Items(ctx context.Context, userID int64) (model.CartItems, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(model.CartItems), args.Error(1)
}

func (m *MockCartService) View(ctx context.Context, userID int64) (*model.CartView, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CartView), args.Error(1)
}

func (m *MockCartService) Total(ctx context.Context, userID int64) (float64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(float64), args.Error(1)
}

func cartRequest(method, target string, userID int64) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	req.Header.Set(userIDHeader, strconv.FormatInt(userID, 10))
	return req
}

func TestCartHandler_View(t *testing.T) {
	cart := new(MockCartService)
	h := NewCartHandler(cart, zerolog.Nop())

	cart.On("View", mock.Anything, int64(42)).Return(&model.CartView{
		Lines: []model.CartLine{
			{ProductID: 10, Name: "Espresso Blend 250g", Price: 12.5, Quantity: 2, LineTotal: 25.0},
		},
		Total: 25.0,
	}, nil)

	rec := httptest.NewRecorder()
	h.View(rec, cartRequest(http.MethodGet, "/api/cart", 42))

	assert.Equal(t, http.StatusOK, rec.Code)

	var view model.CartView
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&view))
	require.Len(t, view.Lines, 1)
	assert.InDelta(t, 25.0, view.Total, 1e-9)
}

func TestCartHandler_View_MissingUserHeader(t *testing.T) {
	cart := new(MockCartService)
	h := NewCartHandler(cart, zerolog.Nop())

	rec := httptest.NewRecorder()
	h.View(rec, httptest.NewRequest(http.MethodGet, "/api/cart", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	cart.AssertNotCalled(t, "View", mock.Anything, mock.Anything)
}

func TestCartHandler_View_MalformedUserHeader(t *testing.T) {
	h := NewCartHandler(new(MockCartService), zerolog.Nop())

	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	req.Header.Set(userIDHeader, "not-a-number")
	rec := httptest.NewRecorder()
	h.View(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCartHandler_Clear(t *testing.T) {
	cart := new(MockCartService)
	h := NewCartHandler(cart, zerolog.Nop())

	cart.On("Clear", mock.Anything, int64(42)).Return(nil)

	rec := httptest.NewRecorder()
	h.Clear(rec, cartRequest(http.MethodDelete, "/api/cart", 42))

	assert.Equal(t, http.StatusOK, rec.Code)
	cart.AssertExpectations(t)
}

func TestCartHandler_Item_Routing(t *testing.T) {
	tests := []struct {
		name   string
		method string
		target string
		call   string
	}{
		{"add", http.MethodPost, "/api/cart/items/10", "Add"},
		{"increment", http.MethodPost, "/api/cart/items/10/increment", "Increment"},
		{"decrement", http.MethodPost, "/api/cart/items/10/decrement", "Decrement"},
		{"remove", http.MethodDelete, "/api/cart/items/10", "Remove"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cart := new(MockCartService)
			h := NewCartHandler(cart, zerolog.Nop())

			cart.On(tt.call, mock.Anything, int64(42), int64(10)).Return(nil)

			rec := httptest.NewRecorder()
			h.Item(rec, cartRequest(tt.method, tt.target, 42))

			assert.Equal(t, http.StatusOK, rec.Code)
			cart.AssertExpectations(t)
		})
	}
}

func TestCartHandler_Item_InvalidProductID(t *testing.T) {
	cart := new(MockCartService)
	h := NewCartHandler(cart, zerolog.Nop())

	rec := httptest.NewRecorder()
	h.Item(rec, cartRequest(http.MethodPost, "/api/cart/items/abc", 42))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCartHandler_Item_UnknownAction(t *testing.T) {
	cart := new(MockCartService)
	h := NewCartHandler(cart, zerolog.Nop())

	rec := httptest.NewRecorder()
	h.Item(rec, cartRequest(http.MethodPost, "/api/cart/items/10/duplicate", 42))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	cart.AssertNotCalled(t, "Add", mock.Anything, mock.Anything, mock.Anything)
}
