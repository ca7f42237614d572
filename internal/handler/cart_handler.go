package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"ezeats/internal/cart"
	apperrors "ezeats/internal/errors"
	"ezeats/internal/service"
)

// CartHandler exposes the signed-in user's cart.
type CartHandler struct {
	cartService service.CartService
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(cartService service.CartService) *CartHandler {
	return &CartHandler{cartService: cartService}
}

// AddItemRequest adds quantity of a menu item.
type AddItemRequest struct {
	ItemID   string `json:"item_id" validate:"required,uuid"`
	Quantity int    `json:"quantity" validate:"required,min=1"`
}

// UpdateItemRequest overwrites an item's quantity; zero removes it.
type UpdateItemRequest struct {
	Quantity *int `json:"quantity" validate:"required,min=0"`
}

// CartResponse is the cart with its computed totals.
type CartResponse struct {
	Lines    []cart.Line     `json:"lines"`
	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
	Count    int             `json:"count"`
}

func newCartResponse(c cart.Cart) CartResponse {
	totals := c.Totals()
	lines := c.Lines
	if lines == nil {
		lines = []cart.Line{}
	}
	return CartResponse{
		Lines:    lines,
		Subtotal: totals.Subtotal.Round(2),
		Tax:      totals.Tax.Round(2),
		Total:    totals.Total.Round(2),
		Count:    totals.Count,
	}
}

// Get godoc
// @Summary Get cart
// @Tags cart
// @Produce json
// @Security BearerAuth
// @Success 200 {object} CartResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /cart [get]
func (h *CartHandler) Get(c echo.Context) error {
	claims, err := claimsFrom(c)
	if err != nil {
		return err
	}
	current, err := h.cartService.Get(c.Request().Context(), claims.UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newCartResponse(current))
}

// AddItem godoc
// @Summary Add item to cart
// @Description Adding an item already in the cart increases its quantity.
// @Tags cart
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body AddItemRequest true "Item and quantity"
// @Success 200 {object} CartResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /cart/items [post]
func (h *CartHandler) AddItem(c echo.Context) error {
	claims, err := claimsFrom(c)
	if err != nil {
		return err
	}

	var req AddItemRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return apperrors.NewHTTPError(http.StatusBadRequest, "Valid item_id and quantity are required")
	}

	updated, err := h.cartService.AddItem(c.Request().Context(), claims.UserID, req.ItemID, req.Quantity)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newCartResponse(updated))
}

// UpdateItem godoc
// @Summary Set item quantity
// @Description Quantity zero removes the line. Items not in the cart are ignored.
// @Tags cart
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Menu item ID"
// @Param request body UpdateItemRequest true "New quantity"
// @Success 200 {object} CartResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /cart/items/{id} [put]
func (h *CartHandler) UpdateItem(c echo.Context) error {
	claims, err := claimsFrom(c)
	if err != nil {
		return err
	}

	var req UpdateItemRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return apperrors.NewHTTPError(http.StatusBadRequest, "Quantity cannot be negative")
	}

	updated, err := h.cartService.SetQuantity(c.Request().Context(), claims.UserID, c.Param("id"), *req.Quantity)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newCartResponse(updated))
}

// RemoveItem godoc
// @Summary Remove item from cart
// @Tags cart
// @Produce json
// @Security BearerAuth
// @Param id path string true "Menu item ID"
// @Success 200 {object} CartResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /cart/items/{id} [delete]
func (h *CartHandler) RemoveItem(c echo.Context) error {
	claims, err := claimsFrom(c)
	if err != nil {
		return err
	}
	updated, err := h.cartService.RemoveItem(c.Request().Context(), claims.UserID, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newCartResponse(updated))
}

// Clear godoc
// @Summary Empty cart
// @Tags cart
// @Produce json
// @Security BearerAuth
// @Success 200 {object} CartResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /cart [delete]
func (h *CartHandler) Clear(c echo.Context) error {
	claims, err := claimsFrom(c)
	if err != nil {
		return err
	}
	if err := h.cartService.Clear(c.Request().Context(), claims.UserID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newCartResponse(cart.Cart{}.Clear()))
}
