package model

// CartItems maps product id to quantity. Absence of a key means quantity zero;
// a stored quantity is always >= 1.
type CartItems map[int64]int

// Clone returns an independent copy of the items map.
func (c CartItems) Clone() CartItems {
	out := make(CartItems, len(c))
	for pid, qty := range c {
		out[pid] = qty
	}
	return out
}

// CartLine is one rendered cart row: the product with its quantity and line total.
type CartLine struct {
	ProductID int64   `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	LineTotal float64 `json:"lineTotal"`
}

// CartView is the cart as returned to the dispatch layer for rendering.
type CartView struct {
	Lines []CartLine `json:"lines"`
	Total float64    `json:"total"`
}
