package ports

import (
	"context"

	"github.com/minutemart/storefront/internal/core/domain"
)

// CartLine is a cart item joined with its current listing.
type CartLine struct {
	Product  domain.Product `json:"product"`
	Quantity int            `json:"quantity"`
}

// ShopService covers the shopper side: session cart and order placement.
type ShopService interface {
	AddToCart(ctx context.Context, sess *domain.Session, productID string) error
	RemoveFromCart(ctx context.Context, sess *domain.Session, productID string) error

	// ViewCart resolves cart lines against current listings. Lines whose
	// product has been deleted are dropped from the view.
	ViewCart(ctx context.Context, sess *domain.Session) ([]CartLine, float64, error)

	// PlaceOrder snapshots the cart into an order and clears the cart.
	PlaceOrder(ctx context.Context, sess *domain.Session) (*domain.Order, error)
	ListOrders(ctx context.Context, userID string) ([]domain.Order, error)
}
