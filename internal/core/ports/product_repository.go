package ports

import (
	"context"

	"github.com/minutemart/storefront/internal/core/domain"
)

// ProductRepository is the product store boundary.
type ProductRepository interface {
	Create(ctx context.Context, p *domain.Product) (*domain.Product, error)
	FindByID(ctx context.Context, id string) (*domain.Product, error)
	FindByOwner(ctx context.Context, ownerID string) ([]domain.Product, error)

	// FindPage returns one page of the public catalogue plus the total count.
	FindPage(ctx context.Context, page, perPage int64) ([]domain.Product, int64, error)

	Update(ctx context.Context, p *domain.Product) error
	Delete(ctx context.Context, id string) error

	// ListImageRefs returns every image reference currently held by a
	// product record. Used by the orphan-file sweep.
	ListImageRefs(ctx context.Context) ([]string, error)
}
