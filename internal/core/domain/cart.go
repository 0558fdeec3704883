package domain

import "errors"

var ErrCartEmpty = errors.New("cart is empty")

// CartItem is one line of a shopper's cart.
type CartItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// Cart lives on the session and holds product references only; titles and
// prices are resolved at render/checkout time so edits by the seller are
// reflected until the order snapshot is taken.
type Cart struct {
	Items []CartItem `json:"items,omitempty"`
}

// Add puts a product in the cart, bumping the quantity when already present.
func (c *Cart) Add(productID string) {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items[i].Quantity++
			return
		}
	}
	c.Items = append(c.Items, CartItem{ProductID: productID, Quantity: 1})
}

// Remove drops the whole line for productID, if present.
func (c *Cart) Remove(productID string) {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return
		}
	}
}

// Empty reports whether the cart has no lines.
func (c *Cart) Empty() bool {
	return len(c.Items) == 0
}
