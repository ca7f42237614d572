package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"ezeats/internal/service"
)

// SeedHandler handles seed data endpoints.
type SeedHandler struct {
	menuService service.MenuService
	authService service.AuthService
}

// NewSeedHandler creates a new seed handler.
func NewSeedHandler(menuService service.MenuService, authService service.AuthService) *SeedHandler {
	return &SeedHandler{menuService: menuService, authService: authService}
}

// SeedMenuResponse represents the seed response.
type SeedMenuResponse struct {
	Message string `json:"message"`
	Count   int    `json:"count"`
}

// SeedMenu godoc
// @Summary Seed the demo menu and admin account
// @Description Inserts the demo catalog when it is empty. Only registered in seed mode.
// @Tags seed
// @Produce json
// @Success 200 {object} SeedMenuResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /seed/menu [get]
func (h *SeedHandler) SeedMenu(c echo.Context) error {
	ctx := c.Request().Context()
	if _, err := h.authService.EnsureBootstrapAdmin(ctx); err != nil {
		return err
	}

	count, err := h.menuService.SeedIfEmpty(ctx)
	if err != nil {
		return err
	}

	message := "Menu seeded successfully"
	if count == 0 {
		message = "Menu already seeded"
	}
	return c.JSON(http.StatusOK, SeedMenuResponse{Message: message, Count: count})
}
