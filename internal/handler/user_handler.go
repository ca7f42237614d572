package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"ezeats/internal/service"
)

// UserHandler serves the signed-in user's profile.
type UserHandler struct {
	svc service.UserService
}

// NewUserHandler creates a handler layer.
func NewUserHandler(svc service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// Me godoc
// @Summary Current user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} UserSummary
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /me [get]
func (h *UserHandler) Me(c echo.Context) error {
	claims, err := claimsFrom(c)
	if err != nil {
		return err
	}
	user, err := h.svc.GetUser(c.Request().Context(), claims.UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, UserSummary{
		ID:    user.ID.String(),
		Email: user.Email,
		Name:  user.Name,
	})
}
