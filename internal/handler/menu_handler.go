package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"ezeats/internal/service"
)

// MenuHandler serves the catalog.
type MenuHandler struct {
	menuService service.MenuService
}

// NewMenuHandler creates a new menu handler.
func NewMenuHandler(menuService service.MenuService) *MenuHandler {
	return &MenuHandler{menuService: menuService}
}

// List godoc
// @Summary List menu items
// @Description Whole catalog ordered by category, then name.
// @Tags menu
// @Produce json
// @Success 200 {array} model.MenuItem
// @Failure 500 {object} errors.ErrorResponse
// @Router /menu [get]
func (h *MenuHandler) List(c echo.Context) error {
	items, err := h.menuService.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

// Get godoc
// @Summary Get menu item
// @Tags menu
// @Produce json
// @Param id path string true "Menu item ID"
// @Success 200 {object} model.MenuItem
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /menu/{id} [get]
func (h *MenuHandler) Get(c echo.Context) error {
	item, err := h.menuService.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, item)
}
