package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/recipe-service/internal/auth"
	"github.com/spec-kit/recipe-service/internal/domain"
	"github.com/spec-kit/recipe-service/internal/events"
	"github.com/spec-kit/recipe-service/internal/repository"
	"github.com/spec-kit/recipe-service/internal/storage"
	apperrors "github.com/spec-kit/recipe-service/pkg/util"
)

// ChefService manages an authenticated chef's own account.
type ChefService struct {
	chefs      repository.ChefRepository
	hasher     auth.PasswordHasher
	storage    storage.Storage
	clock      auth.Clock
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// ChefDependencies bundles collaborators for the chef service.
type ChefDependencies struct {
	ChefRepo   repository.ChefRepository
	Hasher     auth.PasswordHasher
	Storage    storage.Storage
	Clock      auth.Clock
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// ChangePasswordInput carries a password change.
type ChangePasswordInput struct {
	CurrentPassword string
	NewPassword     string
	ConfirmPassword string
}

// UpdateProfileInput carries the editable profile fields.
type UpdateProfileInput struct {
	Username    string
	Email       string
	DateOfBirth time.Time
}

// ChefProfile is the public view of a chef. It never carries the password hash.
type ChefProfile struct {
	ID          string
	Username    string
	Email       string
	DateOfBirth time.Time
	PhotoURL    *string
	CreatedAt   time.Time
}

// NewChefService constructs the service.
func NewChefService(deps ChefDependencies) *ChefService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	clock := deps.Clock
	if clock == nil {
		clock = auth.SystemClock{}
	}
	return &ChefService{
		chefs:      deps.ChefRepo,
		hasher:     deps.Hasher,
		storage:    deps.Storage,
		clock:      clock,
		dispatcher: deps.Dispatcher,
		logger:     logger,
	}
}

// Profile returns the caller's own profile.
func (s *ChefService) Profile(ctx context.Context, identity domain.Identity) (*ChefProfile, error) {
	chef, err := s.load(ctx, identity)
	if err != nil {
		return nil, err
	}
	return s.profileOf(ctx, chef)
}

// ChangePassword replaces the caller's password after checking the current one.
func (s *ChefService) ChangePassword(ctx context.Context, identity domain.Identity, in ChangePasswordInput) error {
	details := map[string]any{}
	if in.NewPassword != in.ConfirmPassword {
		details["confirm_new_password"] = "passwords do not match"
	}
	if msg := passwordPolicyViolation(in.NewPassword); msg != "" {
		details["new_password"] = msg
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("invalid password change", details)
	}

	chef, err := s.load(ctx, identity)
	if err != nil {
		return err
	}
	if err := s.hasher.Compare(ctx, chef.PasswordHash, in.CurrentPassword); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return apperrors.NewValidationError("invalid password change", map[string]any{"current_password": "current password is incorrect"})
		}
		return err
	}

	hash, err := s.hasher.Hash(ctx, in.NewPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	chef.PasswordHash = hash
	if err := s.chefs.Update(ctx, chef); err != nil {
		return fmt.Errorf("update chef: %w", err)
	}
	s.logger.Info("chef password changed", zap.String("chef_id", chef.ID))
	return nil
}

// UpdateProfile edits username, email and date of birth. Tokens carry the
// username as subject, so renaming signs the chef out everywhere.
func (s *ChefService) UpdateProfile(ctx context.Context, identity domain.Identity, in UpdateProfileInput) (*ChefProfile, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.TrimSpace(in.Email)

	details := map[string]any{}
	checkLength(details, "username", username, maxUsernameLength)
	checkLength(details, "email", email, maxEmailLength)
	checkDateOfBirth(details, in.DateOfBirth, s.clock.Now())
	if len(details) > 0 {
		return nil, apperrors.NewValidationError("invalid profile data", details)
	}

	chef, err := s.load(ctx, identity)
	if err != nil {
		return nil, err
	}
	chef.Username = username
	chef.Email = email
	chef.DateOfBirth = in.DateOfBirth
	if err := s.chefs.Update(ctx, chef); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.NewConflict("username already taken", map[string]any{"username": username})
		}
		return nil, fmt.Errorf("update chef: %w", err)
	}
	if username != identity.Username {
		s.logger.Info("chef renamed", zap.String("chef_id", chef.ID), zap.String("username", username))
	}
	return s.profileOf(ctx, chef)
}

// UpdatePhoto stores a new profile photo and deletes the previous one.
func (s *ChefService) UpdatePhoto(ctx context.Context, identity domain.Identity, photo ImageInput) (*ChefProfile, error) {
	img, err := validateImage(photo, maxPhotoBytes)
	if err != nil {
		return nil, err
	}

	chef, err := s.load(ctx, identity)
	if err != nil {
		return nil, err
	}

	key := storage.NewChefPhotoKey(chef.ID, img.ext)
	if err := s.storage.Put(ctx, key, bytes.NewReader(img.content), int64(len(img.content)), img.contentType); err != nil {
		return nil, fmt.Errorf("store photo: %w", err)
	}

	previous := chef.PhotoPath
	chef.PhotoPath = &key
	if err := s.chefs.Update(ctx, chef); err != nil {
		s.deleteBlob(ctx, key)
		return nil, fmt.Errorf("update chef: %w", err)
	}
	if previous != nil && *previous != key {
		s.deleteBlob(ctx, *previous)
	}
	return s.profileOf(ctx, chef)
}

// RemoveAccount deletes the chef, cascading to recipes and reviews, and all
// of the chef's stored images.
func (s *ChefService) RemoveAccount(ctx context.Context, identity domain.Identity) error {
	if err := s.chefs.Delete(ctx, identity.ChefID); err != nil {
		if isNoRows(err) {
			return apperrors.NewNotFound("chef", map[string]any{"chef_id": identity.ChefID})
		}
		return fmt.Errorf("delete chef: %w", err)
	}

	for _, prefix := range []string{storage.ChefPrefix(identity.ChefID), storage.RecipePrefix(identity.ChefID)} {
		if err := s.storage.DeletePrefix(ctx, prefix); err != nil {
			s.logger.Warn("remove chef images", zap.String("chef_id", identity.ChefID), zap.String("prefix", prefix), zap.Error(err))
		}
	}

	s.logger.Info("chef account removed", zap.String("chef_id", identity.ChefID), zap.String("username", identity.Username))
	publishEvent(ctx, s.dispatcher, s.logger, events.NewEvent(
		events.EventChefRemoved, identity.ChefID, actorOf(identity), s.clock.Now(), nil,
	))
	return nil
}

// ListChefs returns every chef's public profile.
func (s *ChefService) ListChefs(ctx context.Context) ([]ChefProfile, error) {
	chefs, err := s.chefs.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list chefs: %w", err)
	}
	out := make([]ChefProfile, 0, len(chefs))
	for i := range chefs {
		profile, err := s.profileOf(ctx, &chefs[i])
		if err != nil {
			return nil, err
		}
		out = append(out, *profile)
	}
	return out, nil
}

func (s *ChefService) load(ctx context.Context, identity domain.Identity) (*domain.Chef, error) {
	chef, err := s.chefs.GetByID(ctx, identity.ChefID)
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.NewNotFound("chef", map[string]any{"chef_id": identity.ChefID})
		}
		return nil, fmt.Errorf("load chef: %w", err)
	}
	return chef, nil
}

func (s *ChefService) profileOf(ctx context.Context, chef *domain.Chef) (*ChefProfile, error) {
	profile := &ChefProfile{
		ID:          chef.ID,
		Username:    chef.Username,
		Email:       chef.Email,
		DateOfBirth: chef.DateOfBirth,
		CreatedAt:   chef.CreatedAt,
	}
	if chef.PhotoPath != nil {
		url, err := s.storage.URL(ctx, *chef.PhotoPath)
		if err != nil {
			return nil, fmt.Errorf("photo url: %w", err)
		}
		profile.PhotoURL = &url
	}
	return profile, nil
}

func (s *ChefService) deleteBlob(ctx context.Context, key string) {
	if err := s.storage.Delete(ctx, key); err != nil {
		s.logger.Warn("delete image", zap.String("key", key), zap.Error(err))
	}
}
