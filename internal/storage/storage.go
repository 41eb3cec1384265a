package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
)

// ErrInvalidKey is returned for keys that escape the storage root or are empty.
var ErrInvalidKey = errors.New("invalid storage key")

// Storage persists image blobs under slash-separated keys.
type Storage interface {
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	Delete(ctx context.Context, key string) error
	DeletePrefix(ctx context.Context, prefix string) error
	URL(ctx context.Context, key string) (string, error)
}

// RecipePrefix is the key prefix for every image a chef attached to recipes.
func RecipePrefix(chefID string) string {
	return fmt.Sprintf("recipes/%s/", chefID)
}

// ChefPrefix is the key prefix for a chef's profile photos.
func ChefPrefix(chefID string) string {
	return fmt.Sprintf("chefs/%s/", chefID)
}

// NewRecipeImageKey returns a fresh key for a recipe image with the given extension.
func NewRecipeImageKey(chefID, ext string) string {
	return RecipePrefix(chefID) + uuid.NewString() + ext
}

// NewChefPhotoKey returns a fresh key for a chef photo with the given extension.
func NewChefPhotoKey(chefID, ext string) string {
	return ChefPrefix(chefID) + "photo-" + uuid.NewString() + ext
}

func cleanKey(key string) (string, error) {
	if strings.ContainsRune(key, '\\') {
		return "", ErrInvalidKey
	}
	cleaned := strings.TrimPrefix(path.Clean("/"+key), "/")
	if cleaned == "" || cleaned != strings.TrimSuffix(strings.TrimPrefix(key, "/"), "/") {
		return "", ErrInvalidKey
	}
	return cleaned, nil
}
