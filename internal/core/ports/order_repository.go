package ports

import (
	"context"

	"github.com/minutemart/storefront/internal/core/domain"
)

// OrderRepository persists placed orders.
type OrderRepository interface {
	Create(ctx context.Context, o *domain.Order) (*domain.Order, error)
	FindByUser(ctx context.Context, userID string) ([]domain.Order, error)
}
