package model

// Category groups products for browsing.
type Category struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

// Product represents a catalog item.
type Product struct {
	ID          int64   `json:"id" db:"id"`
	CategoryID  *int64  `json:"categoryId,omitempty" db:"category_id"`
	Name        string  `json:"name" db:"name"`
	Description *string `json:"description,omitempty" db:"description"`
	Price       float64 `json:"price" db:"price"`
	Photo       *string `json:"photo,omitempty" db:"photo"`
}

// ProductUpdate carries a partial product mutation. Only non-nil fields are
// applied; an update with all fields nil is a no-op.
type ProductUpdate struct {
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	Price       *float64 `json:"price,omitempty" validate:"omitempty,gte=0"`
	Photo       *string  `json:"photo,omitempty"`
	CategoryID  *int64   `json:"categoryId,omitempty"`
}

// IsEmpty reports whether the update carries no fields.
func (u ProductUpdate) IsEmpty() bool {
	return u.Name == nil && u.Description == nil && u.Price == nil &&
		u.Photo == nil && u.CategoryID == nil
}

// CategoryInput is the operator request payload for creating a category.
type CategoryInput struct {
	Name string `json:"name" validate:"required"`
}

// ProductInput is the operator request payload for creating a product.
type ProductInput struct {
	CategoryID  *int64  `json:"categoryId,omitempty"`
	Name        string  `json:"name" validate:"required"`
	Description *string `json:"description,omitempty"`
	Price       float64 `json:"price" validate:"gte=0"`
	Photo       *string `json:"photo,omitempty"`
}
