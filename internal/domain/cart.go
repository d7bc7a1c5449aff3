package domain

import "time"

// Cart represents a session-scoped shopping cart.
type Cart struct {
	SessionID string     `json:"session_id"`
	Items     []CartItem `json:"items"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// CartItem is a product held in the cart together with a quantity.
// A cart holds at most one item per product ID; adding an existing
// product increments its quantity.
type CartItem struct {
	Product
	Quantity int `json:"quantity"`
}

// Subtotal calculates the total price of all items in the cart.
func (c *Cart) Subtotal() float64 {
	var total float64
	for _, item := range c.Items {
		total += item.Price * float64(item.Quantity)
	}
	return total
}

// ItemCount returns the total number of units in the cart.
func (c *Cart) ItemCount() int {
	var count int
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}

// FindItemIndex returns the index of the cart item with the given product ID.
// Returns -1 if not found. This provides O(n) search but centralizes the logic
// for easier optimization later.
func (c *Cart) FindItemIndex(productID string) int {
	for i := range c.Items {
		if c.Items[i].ID == productID {
			return i
		}
	}
	return -1
}

// IsEmpty reports whether the cart holds no items.
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}
