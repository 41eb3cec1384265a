package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/recipe-service/internal/auth"
	"github.com/spec-kit/recipe-service/internal/config"
	"github.com/spec-kit/recipe-service/internal/domain"
	"github.com/spec-kit/recipe-service/internal/events"
	"github.com/spec-kit/recipe-service/internal/repository"
	apperrors "github.com/spec-kit/recipe-service/pkg/util"
)

// AuthService coordinates sign-up, sign-in and the refresh-token lifecycle.
//
// A refresh token is ACTIVE until it is either revoked by Logout or expires.
// Both end states are terminal. Refreshing does not rotate the refresh token,
// so a leaked token stays usable until one of those happens.
type AuthService struct {
	chefs       repository.ChefRepository
	revocations repository.RevocationRepository
	hasher      auth.PasswordHasher
	tokens      *auth.TokenManager
	dispatcher  events.Dispatcher
	logger      *zap.Logger
	accessTTL   time.Duration
	refreshTTL  time.Duration
}

// AuthDependencies encapsulates collaborators for the auth service.
type AuthDependencies struct {
	ChefRepo       repository.ChefRepository
	RevocationRepo repository.RevocationRepository
	Hasher         auth.PasswordHasher
	Tokens         *auth.TokenManager
	Dispatcher     events.Dispatcher
	Logger         *zap.Logger
}

// SignUpInput carries a new account's fields.
type SignUpInput struct {
	Username        string
	Password        string
	ConfirmPassword string
	Email           string
	DateOfBirth     time.Time
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, deps AuthDependencies) *AuthService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		chefs:       deps.ChefRepo,
		revocations: deps.RevocationRepo,
		hasher:      deps.Hasher,
		tokens:      deps.Tokens,
		dispatcher:  deps.Dispatcher,
		logger:      logger,
		accessTTL:   cfg.AccessTTL(),
		refreshTTL:  cfg.RefreshTTL(),
	}
}

// SignUp creates a chef account. Username uniqueness is enforced by the store.
func (s *AuthService) SignUp(ctx context.Context, in SignUpInput) error {
	username := strings.TrimSpace(in.Username)
	email := strings.TrimSpace(in.Email)

	details := map[string]any{}
	checkLength(details, "username", username, maxUsernameLength)
	checkLength(details, "email", email, maxEmailLength)
	if in.Password != in.ConfirmPassword {
		details["confirm_password"] = "passwords do not match"
	}
	if msg := passwordPolicyViolation(in.Password); msg != "" {
		details["password"] = msg
	}
	checkDateOfBirth(details, in.DateOfBirth, s.tokens.Now())
	if len(details) > 0 {
		return apperrors.NewValidationError("invalid sign up data", details)
	}

	hash, err := s.hasher.Hash(ctx, in.Password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	chef := &domain.Chef{
		Username:     username,
		PasswordHash: hash,
		Email:        email,
		DateOfBirth:  in.DateOfBirth,
	}
	if err := s.chefs.Create(ctx, chef); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return apperrors.NewConflict("username already taken", map[string]any{"username": username})
		}
		return fmt.Errorf("create chef: %w", err)
	}

	s.logger.Info("chef signed up", zap.String("chef_id", chef.ID), zap.String("username", chef.Username))
	publishEvent(ctx, s.dispatcher, s.logger, events.NewEvent(
		events.EventChefSignedUp, chef.ID, actorOf(chef.Identity()), s.tokens.Now(),
		events.ChefSignedUpPayload{Email: chef.Email},
	))
	return nil
}

// SignIn verifies credentials and issues an access/refresh pair bound to the
// username. Unknown users and wrong passwords are indistinguishable, in both
// the error returned and the work performed.
func (s *AuthService) SignIn(ctx context.Context, username, password string) (*domain.TokenPair, error) {
	chef, err := s.chefs.GetByUsername(ctx, username)
	switch {
	case isNoRows(err):
		if cmpErr := s.hasher.Compare(ctx, "", password); cmpErr != nil && !errors.Is(cmpErr, auth.ErrPasswordMismatch) {
			return nil, cmpErr
		}
		return nil, ErrInvalidCredentials
	case err != nil:
		return nil, fmt.Errorf("lookup chef: %w", err)
	}

	if err := s.hasher.Compare(ctx, chef.PasswordHash, password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	access, accessExp, err := s.tokens.IssueAccess(chef.Username, s.accessTTL)
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}
	refresh, refreshClaims, err := s.tokens.IssueRefresh(chef.Username, s.refreshTTL)
	if err != nil {
		return nil, fmt.Errorf("issue refresh token: %w", err)
	}

	return &domain.TokenPair{
		AccessToken:           access,
		AccessTokenExpiresAt:  accessExp,
		RefreshToken:          refresh,
		RefreshTokenExpiresAt: refreshClaims.ExpiresAt,
	}, nil
}

// RefreshAccess exchanges a live refresh token for a new access token.
// Expired tokens fail parsing and never reach the revocation store.
func (s *AuthService) RefreshAccess(ctx context.Context, refreshToken string) (*domain.AccessToken, error) {
	claims, err := s.tokens.ParseRefresh(refreshToken)
	if err != nil {
		return nil, ErrInvalidToken
	}

	chef, err := s.chefs.GetByUsername(ctx, claims.Subject)
	switch {
	case isNoRows(err):
		return nil, ErrUnknownUser
	case err != nil:
		return nil, fmt.Errorf("lookup chef: %w", err)
	}

	revoked, err := s.revocations.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, apperrors.NewServiceUnavailable(fmt.Errorf("check revocation: %w", err))
	}
	if revoked {
		return nil, ErrTokenRevoked
	}

	token, exp, err := s.tokens.IssueAccess(chef.Username, s.accessTTL)
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}
	return &domain.AccessToken{Token: token, ExpiresAt: exp}, nil
}

// Logout revokes a refresh token for the rest of its lifetime. Revoking an
// already revoked token is reported as an error rather than ignored.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	claims, err := s.tokens.ParseRefresh(refreshToken)
	if err != nil {
		return ErrInvalidToken
	}

	revoked, err := s.revocations.IsRevoked(ctx, claims.ID)
	if err != nil {
		return apperrors.NewServiceUnavailable(fmt.Errorf("check revocation: %w", err))
	}
	if revoked {
		return ErrTokenAlreadyRevoked
	}

	ttl := claims.ExpiresAt.Sub(s.tokens.Now())
	if ttl <= 0 {
		return ErrInvalidToken
	}
	created, err := s.revocations.Revoke(ctx, claims.ID, ttl)
	if err != nil {
		return apperrors.NewServiceUnavailable(fmt.Errorf("revoke token: %w", err))
	}
	if !created {
		// a concurrent logout won the SET NX
		return ErrTokenAlreadyRevoked
	}

	s.logger.Info("refresh token revoked", zap.String("username", claims.Subject), zap.String("jti", claims.ID))
	publishEvent(ctx, s.dispatcher, s.logger, events.NewEvent(
		events.EventRefreshTokenRevoked, claims.ID, events.Actor{Username: claims.Subject}, s.tokens.Now(),
		events.RefreshTokenRevokedPayload{TokenID: claims.ID, ExpiresAt: claims.ExpiresAt},
	))
	return nil
}

// ResolveIdentity validates an access token and confirms its subject still
// has an account.
func (s *AuthService) ResolveIdentity(ctx context.Context, accessToken string) (domain.Identity, error) {
	claims, err := s.tokens.ParseAccess(accessToken)
	if err != nil {
		return domain.Identity{}, ErrUnauthorized
	}

	chef, err := s.chefs.GetByUsername(ctx, claims.Subject)
	switch {
	case isNoRows(err):
		return domain.Identity{}, ErrUnauthorized
	case err != nil:
		return domain.Identity{}, fmt.Errorf("lookup chef: %w", err)
	}
	return chef.Identity(), nil
}

func actorOf(identity domain.Identity) events.Actor {
	return events.Actor{ChefID: identity.ChefID, Username: identity.Username}
}
