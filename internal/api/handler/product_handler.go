package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/minutemart/storefront/internal/core/ports"
)

// ProductHandler exposes the seller-side listing CRUD. Every route behind it
// runs under RequireUser, so a user is always present in context.
type ProductHandler struct {
	products ports.ProductService
}

func NewProductHandler(products ports.ProductService) *ProductHandler {
	return &ProductHandler{products: products}
}

type productForm struct {
	Title       string  `form:"title" validate:"required,min=3"`
	Price       float64 `form:"price" validate:"required,gt=0"`
	Description string  `form:"description" validate:"required,min=5,max=255"`
}

// bindProductForm reads the multipart form fields. Price arrives as a form
// string; a non-numeric value is a plain validation failure.
func bindProductForm(c echo.Context) (*productForm, error) {
	price, err := strconv.ParseFloat(c.FormValue("price"), 64)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusUnprocessableEntity, "price must be a number")
	}
	form := &productForm{
		Title:       c.FormValue("title"),
		Price:       price,
		Description: c.FormValue("description"),
	}
	if err := c.Validate(form); err != nil {
		return nil, echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	return form, nil
}

// imageUpload pulls the single named file field. A missing file yields nil;
// whether that is acceptable depends on the operation.
func imageUpload(c echo.Context) (*ports.Upload, func(), error) {
	fh, err := c.FormFile("image")
	if err != nil {
		// Covers both an omitted field and a body with no multipart form.
		return nil, func() {}, nil
	}

	f, err := fh.Open()
	if err != nil {
		return nil, func() {}, err
	}
	up := &ports.Upload{
		Reader:      f,
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
	}
	return up, func() { _ = f.Close() }, nil
}

// Create handles POST /admin/products.
func (h *ProductHandler) Create(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	form, err := bindProductForm(c)
	if err != nil {
		return err
	}

	up, closeUpload, err := imageUpload(c)
	if err != nil {
		return err
	}
	defer closeUpload()

	product, err := h.products.Create(c.Request().Context(), ports.CreateProductInput{
		OwnerID:     user.ID,
		Title:       form.Title,
		Price:       form.Price,
		Description: form.Description,
		Image:       up,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, product)
}

// Update handles PUT /admin/products/:id. Omitting the image keeps the
// stored one.
func (h *ProductHandler) Update(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	form, err := bindProductForm(c)
	if err != nil {
		return err
	}

	up, closeUpload, err := imageUpload(c)
	if err != nil {
		return err
	}
	defer closeUpload()

	product, err := h.products.Update(c.Request().Context(), ports.UpdateProductInput{
		ProductID:   c.Param("id"),
		OwnerID:     user.ID,
		Title:       form.Title,
		Price:       form.Price,
		Description: form.Description,
		Image:       up,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, product)
}

// Delete handles DELETE /admin/products/:id.
func (h *ProductHandler) Delete(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	if err := h.products.Delete(c.Request().Context(), user.ID, c.Param("id")); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

// List handles GET /admin/products: the caller's own listings only.
func (h *ProductHandler) List(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	products, err := h.products.ListOwned(c.Request().Context(), user.ID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]any{"products": products})
}
