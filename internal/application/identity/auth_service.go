package identity

import (
	"context"
	"errors"
	"strings"

	"github.com/storefront/backend/internal/application/mutation"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"go.uber.org/zap"
)

// ErrUnauthenticated is returned when a bearer token cannot identify an active user
var ErrUnauthenticated = errors.New("authentication credentials were not provided or are invalid")

// AuthService issues, refreshes and revokes tokens
type AuthService struct {
	Deps
	jwtService *auth.JWTService
	blacklist  auth.TokenBlacklist
}

// NewAuthService creates a new authentication service
func NewAuthService(deps Deps, jwtService *auth.JWTService, blacklist auth.TokenBlacklist) *AuthService {
	return &AuthService{Deps: deps, jwtService: jwtService, blacklist: blacklist}
}

// CreateAdminToken signs an admin in by mobile and password.
// Users without the ADMIN role get field 404; verified reports an ACTIVE admin profile.
func (s *AuthService) CreateAdminToken(ctx context.Context, mobile, password string) (*TokenResult, mutation.Errors, error) {
	var (
		errs  mutation.Errors
		admin *identity.Admin
	)
	mobile = strings.TrimSpace(mobile)
	s.log().Info("Login attempt", zap.String("mobile", mobile))

	user, err := s.Repos.Users().FindByMobile(ctx, mobile)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, nil, err
	}
	if user == nil || !user.IsActive || !user.VerifyPassword(password) {
		s.log().Warn("Invalid credentials", zap.String("mobile", mobile))
		errs.Add("user", "Please enter valid credentials")
		return nil, errs, nil
	}
	if user.HasRoleType(identity.UserTypeAdmin) {
		admin, err = s.Repos.Admins().FindByUserID(ctx, user.ID)
		if err != nil && !errors.Is(err, shared.ErrNotFound) {
			return nil, nil, err
		}
	}
	if admin == nil {
		errs.AddRaw("404", "User not found")
		return nil, errs, nil
	}

	pair, err := s.jwtService.GenerateTokenPair(user.ID, user.Mobile)
	if err != nil {
		s.log().Error("Failed to generate token pair", zap.Error(err))
		return nil, nil, err
	}

	user.RecordLogin(s.now())
	if err := s.Repos.Users().Save(ctx, user); err != nil {
		s.log().Error("Failed to record login", zap.Error(err))
	}

	s.log().Info("Admin logged in", zap.String("user_id", user.ID.String()))
	return &TokenResult{
		User:             user,
		Token:            pair.AccessToken,
		RefreshToken:     pair.RefreshToken,
		ExpiresAt:        pair.AccessTokenExpiresAt,
		RefreshExpiresAt: pair.RefreshTokenExpiresAt,
		Verified:         admin.Verified(),
	}, errs, nil
}

// RefreshToken exchanges a refresh token for a new pair and revokes the old one
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*TokenResult, mutation.Errors, error) {
	var errs mutation.Errors

	claims, err := s.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		errs.Add("token", err.Error())
		return nil, errs, nil
	}
	revoked, err := s.blacklist.IsBlacklisted(ctx, claims.ID)
	if err != nil {
		return nil, nil, err
	}
	if revoked {
		errs.Add("token", auth.ErrTokenBlacklisted.Error())
		return nil, errs, nil
	}
	userID, err := claims.GetUserUUID()
	if err != nil {
		errs.Add("token", auth.ErrInvalidClaims.Error())
		return nil, errs, nil
	}
	user, err := s.Repos.Users().FindByID(ctx, userID)
	if errors.Is(err, shared.ErrNotFound) || (err == nil && !user.IsActive) {
		errs.Add("token", "User not found")
		return nil, errs, nil
	}
	if err != nil {
		return nil, nil, err
	}

	pair, err := s.jwtService.GenerateTokenPair(user.ID, user.Mobile)
	if err != nil {
		return nil, nil, err
	}
	if err := s.blacklist.AddToBlacklist(ctx, claims.ID, claims.GetRemainingTTL()); err != nil {
		s.log().Warn("Failed to revoke refreshed token", zap.Error(err))
	}

	return &TokenResult{
		User:             user,
		Token:            pair.AccessToken,
		RefreshToken:     pair.RefreshToken,
		ExpiresAt:        pair.AccessTokenExpiresAt,
		RefreshExpiresAt: pair.RefreshTokenExpiresAt,
	}, errs, nil
}

// Logout revokes an access token and, when given, its refresh token
func (s *AuthService) Logout(ctx context.Context, accessToken, refreshToken string) error {
	claims, err := s.jwtService.ValidateAccessToken(accessToken)
	if err != nil {
		return err
	}
	if err := s.blacklist.AddToBlacklist(ctx, claims.ID, claims.GetRemainingTTL()); err != nil {
		return err
	}
	if refreshToken != "" {
		if rc, err := s.jwtService.ValidateRefreshToken(refreshToken); err == nil {
			if err := s.blacklist.AddToBlacklist(ctx, rc.ID, rc.GetRemainingTTL()); err != nil {
				return err
			}
		}
	}
	s.log().Info("User logged out", zap.String("user_id", claims.UserID))
	return nil
}

// Authenticate resolves the active user behind an access token
func (s *AuthService) Authenticate(ctx context.Context, accessToken string) (*identity.User, error) {
	claims, err := s.jwtService.ValidateAccessToken(accessToken)
	if err != nil {
		return nil, ErrUnauthenticated
	}
	revoked, err := s.blacklist.IsBlacklisted(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, ErrUnauthenticated
	}
	userID, err := claims.GetUserUUID()
	if err != nil {
		return nil, ErrUnauthenticated
	}
	user, err := s.Repos.Users().FindByID(ctx, userID)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, ErrUnauthenticated
	}
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrUnauthenticated
	}
	return user, nil
}
