package model

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON       = "INVALID_JSON"
	ErrCodeValidation        = "VALIDATION_FAILED"
	ErrCodeCategoryNotFound  = "CATEGORY_NOT_FOUND"
	ErrCodeProductNotFound   = "PRODUCT_NOT_FOUND"
	ErrCodeOrderNotFound     = "ORDER_NOT_FOUND"
	ErrCodeEmptyCart         = "EMPTY_CART"
	ErrCodeStateMismatch     = "STATE_MISMATCH"
	ErrCodeDuplicateOrderNum = "DUPLICATE_ORDER_NUMBER"
	ErrCodeUnauthorised      = "UNAUTHORIZED"
	ErrCodeInternalError     = "INTERNAL_ERROR"
)

// DomainError is a business-logic error with a stable code.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrCategoryNotFound = NewDomainError(ErrCodeCategoryNotFound, "Category not found")
	ErrProductNotFound  = NewDomainError(ErrCodeProductNotFound, "Product not found")
	ErrOrderNotFound    = NewDomainError(ErrCodeOrderNotFound, "Order not found")

	// ErrEmptyCart aborts a checkout confirmation without creating an order.
	ErrEmptyCart = NewDomainError(ErrCodeEmptyCart, "Cart is empty")

	// ErrStateMismatch marks a checkout action invoked outside its valid
	// dialogue state. Callers treat it as a silent no-op.
	ErrStateMismatch = NewDomainError(ErrCodeStateMismatch, "Action not valid in current checkout state")

	// ErrDuplicateOrderNumber surfaces an order number collision from storage.
	ErrDuplicateOrderNumber = NewDomainError(ErrCodeDuplicateOrderNum, "Order number already exists")
)
