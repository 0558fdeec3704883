package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/minutemart/storefront/internal/api/metrics"
	"github.com/minutemart/storefront/internal/core/domain"
	"github.com/minutemart/storefront/internal/core/ports"
)

// ShopHandler exposes the shopper side: public catalogue, cart and orders.
type ShopHandler struct {
	products ports.ProductService
	shop     ports.ShopService
}

func NewShopHandler(products ports.ProductService, shop ports.ShopService) *ShopHandler {
	return &ShopHandler{products: products, shop: shop}
}

type catalogueResponse struct {
	Products []domain.Product `json:"products"`
	Page     int64            `json:"page"`
	Total    int64            `json:"total"`
}

// Browse handles GET /products with page/limit query parameters.
func (h *ShopHandler) Browse(c echo.Context) error {
	page, _ := strconv.ParseInt(c.QueryParam("page"), 10, 64)
	limit, _ := strconv.ParseInt(c.QueryParam("limit"), 10, 64)

	products, total, err := h.products.Browse(c.Request().Context(), page, limit)
	if err != nil {
		return err
	}

	if page < 1 {
		page = 1
	}
	if products == nil {
		products = []domain.Product{}
	}
	return c.JSON(http.StatusOK, catalogueResponse{Products: products, Page: page, Total: total})
}

// Get handles GET /products/:id.
func (h *ShopHandler) Get(c echo.Context) error {
	product, err := h.products.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, product)
}

type addToCartRequest struct {
	ProductID string `json:"product_id" form:"product_id" validate:"required"`
}

type cartResponse struct {
	Items []ports.CartLine `json:"items"`
	Total float64          `json:"total"`
}

// ViewCart handles GET /cart.
func (h *ShopHandler) ViewCart(c echo.Context) error {
	sess, err := currentSession(c)
	if err != nil {
		return err
	}

	lines, total, err := h.shop.ViewCart(c.Request().Context(), sess)
	if err != nil {
		return err
	}
	if lines == nil {
		lines = []ports.CartLine{}
	}
	return c.JSON(http.StatusOK, cartResponse{Items: lines, Total: total})
}

// AddToCart handles POST /cart.
func (h *ShopHandler) AddToCart(c echo.Context) error {
	var req addToCartRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	sess, err := currentSession(c)
	if err != nil {
		return err
	}

	if err := h.shop.AddToCart(c.Request().Context(), sess, req.ProductID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// RemoveFromCart handles DELETE /cart/:productId.
func (h *ShopHandler) RemoveFromCart(c echo.Context) error {
	sess, err := currentSession(c)
	if err != nil {
		return err
	}

	if err := h.shop.RemoveFromCart(c.Request().Context(), sess, c.Param("productId")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// PlaceOrder handles POST /orders: snapshots the cart into an order.
func (h *ShopHandler) PlaceOrder(c echo.Context) error {
	sess, err := currentSession(c)
	if err != nil {
		return err
	}

	order, err := h.shop.PlaceOrder(c.Request().Context(), sess)
	if err != nil {
		return err
	}

	metrics.OrdersPlacedTotal.Inc()
	return c.JSON(http.StatusCreated, order)
}

// ListOrders handles GET /orders.
func (h *ShopHandler) ListOrders(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	orders, err := h.shop.ListOrders(c.Request().Context(), user.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"orders": orders})
}
