package domain

import (
	"errors"
	"time"
)

var ErrProductNotFound = errors.New("product not found")
var ErrForbidden = errors.New("access forbidden")
var ErrNotAnImage = errors.New("Attached file is not an image.")
var ErrImageTooLarge = errors.New("attached image exceeds the size limit")

// Product is a seller's listing. ImageRef is the stable reference handed out
// by the file store; for the lifetime of the record it must point at a file
// that exists, so image writes always precede record writes.
type Product struct {
	ID          string    `json:"id" bson:"_id,omitempty"`
	Title       string    `json:"title" bson:"title"`
	Price       float64   `json:"price" bson:"price"`
	Description string    `json:"description" bson:"description"`
	ImageRef    string    `json:"image_url" bson:"image_ref"`
	OwnerID     string    `json:"owner_id" bson:"owner_id"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" bson:"updated_at"`
}

// OwnedBy reports whether userID may mutate or delete this product.
func (p *Product) OwnedBy(userID string) bool {
	return userID != "" && p.OwnerID == userID
}
