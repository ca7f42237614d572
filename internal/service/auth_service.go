package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"ezeats/internal/auth"
	apperrors "ezeats/internal/errors"
	"ezeats/internal/model"
	"ezeats/internal/repository"
)

const bcryptCost = 10

// Bootstrap admin account provisioned on first login attempt in seed mode.
const (
	BootstrapAdminEmail    = "admin@ezeats.com"
	BootstrapAdminPassword = "password123"
	BootstrapAdminName     = "Admin User"
)

const minPasswordLength = 6

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Login validation messages, in the order they are checked.
var (
	ErrCredentialsRequired = apperrors.NewValidationError("Email and password are required")
	ErrInvalidEmailFormat  = apperrors.NewValidationError("Invalid email format")
	ErrPasswordTooShort    = apperrors.NewValidationError("Password must be at least 6 characters")
)

// LoginResult is a successful login.
type LoginResult struct {
	Token string
	User  *model.User
}

// AuthService handles authentication operations.
type AuthService interface {
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	Logout(ctx context.Context, token string) error
	Authenticate(ctx context.Context, token string) (*auth.Claims, error)
	EnsureBootstrapAdmin(ctx context.Context) (*model.User, error)
}

// AuthOptions toggles first-run conveniences.
type AuthOptions struct {
	// SeedMode enables the bootstrap admin and seeds the catalog on first login.
	SeedMode bool
}

type authService struct {
	userRepo   repository.UserRepository
	jwtService *auth.JWTService
	tokenStore auth.TokenStoreInterface
	menu       MenuService
	carts      CartService
	opts       AuthOptions
	log        *zap.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(
	userRepo repository.UserRepository,
	jwtService *auth.JWTService,
	tokenStore auth.TokenStoreInterface,
	menu MenuService,
	carts CartService,
	opts AuthOptions,
	log *zap.Logger,
) AuthService {
	return &authService{
		userRepo:   userRepo,
		jwtService: jwtService,
		tokenStore: tokenStore,
		menu:       menu,
		carts:      carts,
		opts:       opts,
		log:        log,
	}
}

// ValidateCredentials applies the login input gates; the first failure wins.
func ValidateCredentials(email, password string) error {
	if email == "" || password == "" {
		return ErrCredentialsRequired
	}
	if !emailPattern.MatchString(email) {
		return ErrInvalidEmailFormat
	}
	if utf8.RuneCountInString(password) < minPasswordLength {
		return ErrPasswordTooShort
	}
	return nil
}

// Login authenticates a user and issues a session token.
func (s *authService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	if err := ValidateCredentials(email, password); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	switch {
	case err == nil:
	case errors.Is(err, apperrors.ErrNotFound):
		if !s.opts.SeedMode || email != BootstrapAdminEmail {
			return nil, apperrors.ErrInvalidCredentials
		}
		if user, err = s.EnsureBootstrapAdmin(ctx); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}

	if s.opts.SeedMode {
		seeded, err := s.menu.SeedIfEmpty(ctx)
		if err != nil {
			return nil, fmt.Errorf("seed menu: %w", err)
		}
		if seeded > 0 {
			s.log.Info("seeded demo menu on first login", zap.Int("items", seeded))
		}
	}

	token, err := s.jwtService.Issue(auth.Identity{UserID: user.ID.String(), Email: user.Email})
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	return &LoginResult{Token: token, User: user}, nil
}

// EnsureBootstrapAdmin returns the bootstrap admin, creating it when missing.
// Losing a concurrent insert re-reads the row the winner created.
func (s *authService) EnsureBootstrapAdmin(ctx context.Context) (*model.User, error) {
	existing, err := s.userRepo.FindByEmail(ctx, BootstrapAdminEmail)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("find bootstrap admin: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(BootstrapAdminPassword), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	admin := &model.User{
		Email:        BootstrapAdminEmail,
		PasswordHash: string(hashedPassword),
		Name:         BootstrapAdminName,
	}
	err = s.userRepo.Create(ctx, admin)
	switch {
	case err == nil:
		s.log.Warn("provisioned bootstrap admin account", zap.String("email", BootstrapAdminEmail))
		return admin, nil
	case errors.Is(err, apperrors.ErrConflict):
		winner, err := s.userRepo.FindByEmail(ctx, BootstrapAdminEmail)
		if err != nil {
			return nil, fmt.Errorf("re-read bootstrap admin: %w", err)
		}
		return winner, nil
	default:
		return nil, fmt.Errorf("create bootstrap admin: %w", err)
	}
}

// Authenticate verifies a session token and rejects logged-out tokens.
func (s *authService) Authenticate(ctx context.Context, token string) (*auth.Claims, error) {
	claims, err := s.jwtService.Verify(token)
	if err != nil {
		return nil, apperrors.ErrUnauthorized
	}
	revoked, err := s.tokenStore.IsRevoked(ctx, claims.ID)
	if err != nil || revoked {
		return nil, apperrors.ErrUnauthorized
	}
	return claims, nil
}

// Logout revokes the token until it expires and empties the user's cart.
// Tokens that no longer verify need no revocation, so Logout never fails for them.
func (s *authService) Logout(ctx context.Context, token string) error {
	claims, err := s.jwtService.Verify(token)
	if err != nil {
		return nil
	}

	if err := s.tokenStore.Revoke(ctx, claims.ID, s.jwtService.TTL(claims)); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	if err := s.carts.Clear(ctx, claims.UserID); err != nil {
		s.log.Warn("failed to clear cart on logout", zap.String("user_id", claims.UserID), zap.Error(err))
	}
	return nil
}
