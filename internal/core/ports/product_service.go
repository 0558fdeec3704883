package ports

import (
	"context"

	"github.com/minutemart/storefront/internal/core/domain"
)

// CreateProductInput carries a new listing. Image is mandatory on create.
type CreateProductInput struct {
	OwnerID     string
	Title       string
	Price       float64
	Description string
	Image       *Upload
}

// UpdateProductInput carries an edit. A nil Image leaves the stored file
// untouched.
type UpdateProductInput struct {
	ProductID   string
	OwnerID     string
	Title       string
	Price       float64
	Description string
	Image       *Upload
}

// ProductService orchestrates listing CRUD with image side effects and
// ownership enforcement.
type ProductService interface {
	Create(ctx context.Context, in CreateProductInput) (*domain.Product, error)
	Update(ctx context.Context, in UpdateProductInput) (*domain.Product, error)
	Delete(ctx context.Context, ownerID, productID string) error

	// ListOwned returns only the caller's products.
	ListOwned(ctx context.Context, ownerID string) ([]domain.Product, error)

	// Get and Browse serve the public catalogue.
	Get(ctx context.Context, productID string) (*domain.Product, error)
	Browse(ctx context.Context, page, perPage int64) ([]domain.Product, int64, error)
}
