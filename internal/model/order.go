package model

import "time"

// DefaultOrderStatus is assigned to every newly created order.
const DefaultOrderStatus = "new"

// DefaultDeliveryMethod is the delivery method recorded at checkout.
const DefaultDeliveryMethod = "standard"

// Order is an immutable snapshot of a confirmed checkout. Items and Total are
// frozen at creation time and do not follow later catalog or cart changes.
type Order struct {
	ID             int64     `json:"id" db:"id"`
	OrderNumber    string    `json:"orderNumber" db:"order_number"`
	UserID         int64     `json:"userId" db:"user_id"`
	CustomerName   string    `json:"customerName" db:"customer_name"`
	Phone          string    `json:"phone" db:"phone"`
	Address        string    `json:"address" db:"address"`
	DeliveryMethod string    `json:"deliveryMethod" db:"delivery_method"`
	Items          CartItems `json:"items" db:"items"`
	Total          float64   `json:"total" db:"total"`
	Status         string    `json:"status" db:"status"`
	CreatedAt      time.Time `json:"createdAt" db:"created_at"`
}

// CustomerInfo is the data collected by the checkout dialogue.
type CustomerInfo struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// StatusInput is the operator request payload for changing an order status.
// Status values are deliberately free text.
type StatusInput struct {
	Status string `json:"status" validate:"required"`
}
