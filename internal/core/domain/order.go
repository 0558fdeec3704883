package domain

import (
	"errors"
	"time"
)

var ErrOrderNotFound = errors.New("order not found")

// OrderItem snapshots a product line at checkout time. Title and price are
// copied so later edits to the listing do not rewrite order history.
type OrderItem struct {
	ProductID string  `json:"product_id" bson:"product_id"`
	Title     string  `json:"title" bson:"title"`
	Price     float64 `json:"price" bson:"price"`
	Quantity  int     `json:"quantity" bson:"quantity"`
}

// Order is a placed cart.
type Order struct {
	ID        string      `json:"id" bson:"_id,omitempty"`
	UserID    string      `json:"user_id" bson:"user_id"`
	Items     []OrderItem `json:"items" bson:"items"`
	Total     float64     `json:"total" bson:"total"`
	CreatedAt time.Time   `json:"created_at" bson:"created_at"`
}
