package auth

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/recipe-service/internal/domain"
	apperrors "github.com/spec-kit/recipe-service/pkg/util"
)

const identityKey = "auth_identity"

// IdentityResolver turns an access token into a confirmed identity.
type IdentityResolver interface {
	ResolveIdentity(ctx context.Context, accessToken string) (domain.Identity, error)
}

// AuthMiddleware validates bearer tokens and stores the caller's identity.
type AuthMiddleware struct {
	resolver IdentityResolver
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(resolver IdentityResolver) *AuthMiddleware {
	return &AuthMiddleware{resolver: resolver}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return unauthorized(c, apperrors.NewUnauthorized("missing authorization header"))
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return unauthorized(c, apperrors.NewUnauthorized("invalid authorization header"))
	}

	identity, err := m.resolver.ResolveIdentity(c.UserContext(), strings.TrimSpace(parts[1]))
	if err != nil {
		return unauthorized(c, err)
	}

	c.Locals(identityKey, identity)
	return c.Next()
}

// IdentityFromContext retrieves the authenticated chef.
func IdentityFromContext(c *fiber.Ctx) (domain.Identity, bool) {
	identity, ok := c.Locals(identityKey).(domain.Identity)
	return identity, ok
}

func unauthorized(c *fiber.Ctx, err error) error {
	if apperrors.ToDomainError(err).HTTPStatus == fiber.StatusUnauthorized {
		c.Set(fiber.HeaderWWWAuthenticate, "Bearer")
	}
	return err
}
