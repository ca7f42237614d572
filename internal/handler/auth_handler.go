package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"ezeats/internal/auth"
	apperrors "ezeats/internal/errors"
	"ezeats/internal/service"
)

// ClaimsContextKey is where the secured group stores verified *auth.Claims.
const ClaimsContextKey = "user"

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService  service.AuthService
	secureCookie bool
}

// NewAuthHandler creates a new auth handler. secureCookie marks the session cookie Secure.
func NewAuthHandler(authService service.AuthService, secureCookie bool) *AuthHandler {
	return &AuthHandler{authService: authService, secureCookie: secureCookie}
}

// LoginRequest represents a user login request.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserSummary is the public part of a user.
type UserSummary struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// LoginResponse represents a successful login.
type LoginResponse struct {
	Message string      `json:"message"`
	Token   string      `json:"token"`
	User    UserSummary `json:"user"`
}

// MessageResponse carries a human-readable status.
type MessageResponse struct {
	Message string `json:"message"`
}

// Login godoc
// @Summary Login user
// @Description Validates credentials, sets the session cookie and returns the token.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} LoginResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	result, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	c.SetCookie(auth.NewSessionCookie(result.Token, h.secureCookie))
	return c.JSON(http.StatusOK, LoginResponse{
		Message: "Login successful",
		Token:   result.Token,
		User: UserSummary{
			ID:    result.User.ID.String(),
			Email: result.User.Email,
			Name:  result.User.Name,
		},
	})
}

// Logout godoc
// @Summary Logout user
// @Description Revokes the session token, empties the cart and clears the cookie.
// @Tags auth
// @Produce json
// @Success 200 {object} MessageResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	if token := sessionToken(c); token != "" {
		if err := h.authService.Logout(c.Request().Context(), token); err != nil {
			return err
		}
	}

	c.SetCookie(auth.ExpiredSessionCookie(h.secureCookie))
	return c.JSON(http.StatusOK, MessageResponse{Message: "Logged out"})
}

// sessionToken reads the token from the Authorization header, falling back to the cookie.
func sessionToken(c echo.Context) string {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if token, ok := strings.CutPrefix(header, "Bearer "); ok && token != "" {
		return token
	}
	if cookie, err := c.Cookie(auth.SessionCookieName); err == nil {
		return cookie.Value
	}
	return ""
}

// claimsFrom returns the claims the secured group verified.
func claimsFrom(c echo.Context) (*auth.Claims, error) {
	claims, ok := c.Get(ClaimsContextKey).(*auth.Claims)
	if !ok || claims == nil {
		return nil, apperrors.ErrUnauthorized
	}
	return claims, nil
}
