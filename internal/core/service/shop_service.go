package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/minutemart/storefront/internal/core/domain"
	"github.com/minutemart/storefront/internal/core/ports"
)

// ShopService covers the shopper flows: the session-held cart and order
// placement. Cart mutations require an authenticated session.
type ShopService struct {
	products ports.ProductRepository
	orders   ports.OrderRepository
	sessions ports.SessionManager
	log      zerolog.Logger
}

func NewShopService(products ports.ProductRepository, orders ports.OrderRepository, sessions ports.SessionManager, log zerolog.Logger) *ShopService {
	return &ShopService{products: products, orders: orders, sessions: sessions, log: log}
}

func (s *ShopService) AddToCart(ctx context.Context, sess *domain.Session, productID string) error {
	if !sess.Authenticated() {
		return domain.ErrNotAuthenticated
	}
	if _, err := s.products.FindByID(ctx, productID); err != nil {
		return err
	}
	sess.Cart.Add(productID)
	return s.sessions.Save(ctx, sess)
}

func (s *ShopService) RemoveFromCart(ctx context.Context, sess *domain.Session, productID string) error {
	if !sess.Authenticated() {
		return domain.ErrNotAuthenticated
	}
	sess.Cart.Remove(productID)
	return s.sessions.Save(ctx, sess)
}

func (s *ShopService) ViewCart(ctx context.Context, sess *domain.Session) ([]ports.CartLine, float64, error) {
	if !sess.Authenticated() {
		return nil, 0, domain.ErrNotAuthenticated
	}

	lines := make([]ports.CartLine, 0, len(sess.Cart.Items))
	var total float64
	for _, item := range sess.Cart.Items {
		product, err := s.products.FindByID(ctx, item.ProductID)
		if err != nil {
			if errors.Is(err, domain.ErrProductNotFound) {
				// The listing was deleted after it was carted; drop the line.
				continue
			}
			return nil, 0, err
		}
		lines = append(lines, ports.CartLine{Product: *product, Quantity: item.Quantity})
		total += product.Price * float64(item.Quantity)
	}
	return lines, total, nil
}

func (s *ShopService) PlaceOrder(ctx context.Context, sess *domain.Session) (*domain.Order, error) {
	lines, total, err := s.ViewCart(ctx, sess)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, domain.ErrCartEmpty
	}

	items := make([]domain.OrderItem, 0, len(lines))
	for _, line := range lines {
		items = append(items, domain.OrderItem{
			ProductID: line.Product.ID,
			Title:     line.Product.Title,
			Price:     line.Product.Price,
			Quantity:  line.Quantity,
		})
	}

	order, err := s.orders.Create(ctx, &domain.Order{
		UserID:    sess.UserID,
		Items:     items,
		Total:     total,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return nil, err
	}

	sess.Cart = domain.Cart{}
	if err := s.sessions.Save(ctx, sess); err != nil {
		// The order is placed; a stale cart is recoverable on the next save.
		s.log.Warn().Err(err).Str("order_id", order.ID).Msg("failed to clear cart after order")
	}

	s.log.Info().Str("order_id", order.ID).Str("user_id", sess.UserID).Float64("total", total).Msg("order placed")
	return order, nil
}

func (s *ShopService) ListOrders(ctx context.Context, userID string) ([]domain.Order, error) {
	return s.orders.FindByUser(ctx, userID)
}
