package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/recipe-service/internal/api/dto"
	"github.com/spec-kit/recipe-service/internal/auth"
	"github.com/spec-kit/recipe-service/internal/domain"
	"github.com/spec-kit/recipe-service/internal/service"
	apperrors "github.com/spec-kit/recipe-service/pkg/util"
)

// TokenHeader carries the refresh token on refresh and logout.
const TokenHeader = "token"

// ChefsHandler exposes account and session endpoints.
type ChefsHandler struct {
	auth  *service.AuthService
	chefs *service.ChefService
}

// NewChefsHandler constructs handler.
func NewChefsHandler(authService *service.AuthService, chefService *service.ChefService) *ChefsHandler {
	return &ChefsHandler{auth: authService, chefs: chefService}
}

// SignUp handles POST /chef/sign_up.
func (h *ChefsHandler) SignUp(c *fiber.Ctx) error {
	var req dto.SignUpRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}
	dob, err := dto.ParseDate("date_of_birth", req.DateOfBirth)
	if err != nil {
		return err
	}

	err = h.auth.SignUp(c.UserContext(), service.SignUpInput{
		Username:        req.Username,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		Email:           req.Email,
		DateOfBirth:     dob,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": dto.MessageResponse{Message: "chef created"},
	})
}

// SignIn handles POST /chef/sign_in. Accepts JSON or a password grant form.
func (h *ChefsHandler) SignIn(c *fiber.Ctx) error {
	var req dto.SignInRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	pair, err := h.auth.SignIn(c.UserContext(), req.Username, req.Password)
	if err != nil {
		if apperrors.ToDomainError(err).HTTPStatus == http.StatusUnauthorized {
			c.Set(fiber.HeaderWWWAuthenticate, "Bearer")
		}
		return err
	}
	return c.JSON(fiber.Map{
		"data": dto.TokenResponse{
			TokenType:             "bearer",
			AccessToken:           pair.AccessToken,
			AccessTokenExpiresAt:  pair.AccessTokenExpiresAt,
			RefreshToken:          pair.RefreshToken,
			RefreshTokenExpiresAt: pair.RefreshTokenExpiresAt,
		},
	})
}

// NewAccessToken handles POST /chef/new_access_token.
func (h *ChefsHandler) NewAccessToken(c *fiber.Ctx) error {
	token, err := refreshTokenFrom(c)
	if err != nil {
		return err
	}
	access, err := h.auth.RefreshAccess(c.UserContext(), token)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data": dto.AccessTokenResponse{AccessToken: access.Token, ExpiresAt: access.ExpiresAt},
	})
}

// Logout handles POST /chef/logout.
func (h *ChefsHandler) Logout(c *fiber.Ctx) error {
	token, err := refreshTokenFrom(c)
	if err != nil {
		return err
	}
	if err := h.auth.Logout(c.UserContext(), token); err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data": dto.MessageResponse{Message: "logged out"},
	})
}

// Me handles GET /chef/me.
func (h *ChefsHandler) Me(c *fiber.Ctx) error {
	identity, err := requireIdentity(c)
	if err != nil {
		return err
	}
	profile, err := h.chefs.Profile(c.UserContext(), identity)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": chefResponse(*profile)})
}

// All handles GET /chef/all.
func (h *ChefsHandler) All(c *fiber.Ctx) error {
	profiles, err := h.chefs.ListChefs(c.UserContext())
	if err != nil {
		return err
	}
	out := make([]dto.ChefResponse, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, chefResponse(p))
	}
	return c.JSON(fiber.Map{"data": out})
}

// ChangePassword handles PATCH /chef/change_password.
func (h *ChefsHandler) ChangePassword(c *fiber.Ctx) error {
	identity, err := requireIdentity(c)
	if err != nil {
		return err
	}
	var req dto.ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	err = h.chefs.ChangePassword(c.UserContext(), identity, service.ChangePasswordInput{
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
		ConfirmPassword: req.ConfirmNewPassword,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data": dto.MessageResponse{Message: "password updated"},
	})
}

// UpdateProfile handles PATCH /chef/update_data.
func (h *ChefsHandler) UpdateProfile(c *fiber.Ctx) error {
	identity, err := requireIdentity(c)
	if err != nil {
		return err
	}
	var req dto.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}
	dob, err := dto.ParseDate("date_of_birth", req.DateOfBirth)
	if err != nil {
		return err
	}

	profile, err := h.chefs.UpdateProfile(c.UserContext(), identity, service.UpdateProfileInput{
		Username:    req.Username,
		Email:       req.Email,
		DateOfBirth: dob,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": chefResponse(*profile)})
}

// UpdatePhoto handles PATCH /chef/update_photo with a multipart "photo" file.
func (h *ChefsHandler) UpdatePhoto(c *fiber.Ctx) error {
	identity, err := requireIdentity(c)
	if err != nil {
		return err
	}
	fh, err := c.FormFile("photo")
	if err != nil {
		return apperrors.NewValidationError("invalid payload", map[string]any{"photo": "required"})
	}
	photo, err := readUpload(fh)
	if err != nil {
		return err
	}

	profile, err := h.chefs.UpdatePhoto(c.UserContext(), identity, photo)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": chefResponse(*profile)})
}

// RemoveAccount handles DELETE /chef/remove_account.
func (h *ChefsHandler) RemoveAccount(c *fiber.Ctx) error {
	identity, err := requireIdentity(c)
	if err != nil {
		return err
	}
	if err := h.chefs.RemoveAccount(c.UserContext(), identity); err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data": dto.MessageResponse{Message: "account removed"},
	})
}

func refreshTokenFrom(c *fiber.Ctx) (string, error) {
	token := strings.TrimSpace(c.Get(TokenHeader))
	if token == "" {
		return "", apperrors.NewValidationError("missing refresh token", map[string]any{TokenHeader: "required"})
	}
	return token, nil
}

func requireIdentity(c *fiber.Ctx) (domain.Identity, error) {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return identity, service.ErrUnauthorized
	}
	return identity, nil
}

func chefResponse(p service.ChefProfile) dto.ChefResponse {
	return dto.ChefResponse{
		ID:          p.ID,
		Username:    p.Username,
		Email:       p.Email,
		DateOfBirth: p.DateOfBirth.Format(dto.DateLayout),
		ChefPhoto:   p.PhotoURL,
		CreatedAt:   p.CreatedAt,
	}
}
