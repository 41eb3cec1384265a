package dto

import (
	"time"

	apperrors "github.com/spec-kit/recipe-service/pkg/util"
)

// DateLayout is the wire format for dates of birth.
const DateLayout = "2006-01-02"

// SignUpRequest payload for new chefs.
type SignUpRequest struct {
	Username        string `json:"username" validate:"required,max=60"`
	Password        string `json:"password" validate:"required"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
	Email           string `json:"email" validate:"required,email,max=100"`
	DateOfBirth     string `json:"date_of_birth" validate:"required,datetime=2006-01-02"`
}

// SignInRequest accepts JSON or an OAuth2 password form.
type SignInRequest struct {
	Username string `json:"username" form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

// ChangePasswordRequest payload.
type ChangePasswordRequest struct {
	CurrentPassword    string `json:"current_password" form:"current_password" validate:"required"`
	NewPassword        string `json:"new_password" form:"new_password" validate:"required,min=6"`
	ConfirmNewPassword string `json:"confirm_new_password" form:"confirm_new_password" validate:"required,min=6"`
}

// UpdateProfileRequest payload.
type UpdateProfileRequest struct {
	Username    string `json:"username" validate:"required,max=60"`
	Email       string `json:"email" validate:"required,email,max=100"`
	DateOfBirth string `json:"date_of_birth" validate:"required,datetime=2006-01-02"`
}

// TokenResponse is returned by sign-in.
type TokenResponse struct {
	TokenType             string    `json:"token_type"`
	AccessToken           string    `json:"access_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshToken          string    `json:"refresh_token"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
}

// AccessTokenResponse is returned by a refresh.
type AccessTokenResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// ChefResponse is the public view of a chef.
type ChefResponse struct {
	ID          string    `json:"chef_id"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	DateOfBirth string    `json:"date_of_birth"`
	ChefPhoto   *string   `json:"chef_photo"`
	CreatedAt   time.Time `json:"created_at"`
}

// MessageResponse acknowledges a command.
type MessageResponse struct {
	Message string `json:"message"`
}

// ParseDate parses a YYYY-MM-DD date for field.
func ParseDate(field, value string) (time.Time, error) {
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, apperrors.NewValidationError("invalid payload", map[string]any{field: "datetime"})
	}
	return t, nil
}
