package service

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"
	"unicode"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/recipe-service/internal/events"
	apperrors "github.com/spec-kit/recipe-service/pkg/util"
)

const (
	minPasswordLength = 6
	minimumAge        = 18

	maxUsernameLength    = 60
	maxEmailLength       = 100
	maxRecipeNameLength  = 100
	maxIngredientsLength = 1000
	maxInstructionsLen   = 2000
	maxCommentLength     = 300

	maxPhotoBytes       = 3.5 * 1024 * 1024
	maxRecipeImageBytes = 5 * 1024 * 1024
	maxRecipeImages     = 6
)

var allowedImageExtensions = map[string]string{
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
}

// ImageInput is an uploaded image held in memory.
type ImageInput struct {
	Filename string
	Content  []byte
}

type validatedImage struct {
	ext         string
	contentType string
	content     []byte
}

// passwordPolicyViolation returns a message when plain is too weak.
func passwordPolicyViolation(plain string) string {
	if len(plain) < minPasswordLength {
		return fmt.Sprintf("password must be at least %d characters long", minPasswordLength)
	}
	var hasLetter, hasDigit bool
	for _, r := range plain {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLetter {
		return "password must include at least one letter"
	}
	if !hasDigit {
		return "password must contain at least one number"
	}
	return ""
}

// ageAt returns the number of whole years between dob and now.
func ageAt(dob, now time.Time) int {
	years := now.Year() - dob.Year()
	if now.Month() < dob.Month() || (now.Month() == dob.Month() && now.Day() < dob.Day()) {
		years--
	}
	return years
}

func checkDateOfBirth(details map[string]any, dob, now time.Time) {
	switch {
	case dob.IsZero():
		details["date_of_birth"] = "date of birth is required"
	case ageAt(dob, now) < minimumAge:
		details["date_of_birth"] = fmt.Sprintf("age can not be less than %d years old", minimumAge)
	}
}

func checkLength(details map[string]any, field, value string, max int) {
	switch {
	case value == "":
		details[field] = field + " is required"
	case len([]rune(value)) > max:
		details[field] = fmt.Sprintf("%s must be at most %d characters", field, max)
	}
}

// containsMarkup reports whether s carries characters used to inject HTML.
func containsMarkup(s string) bool {
	return strings.ContainsAny(s, "<>") || strings.Contains(strings.ToLower(s), "script")
}

func checkMarkup(details map[string]any, field, value string) {
	if _, set := details[field]; !set && containsMarkup(value) {
		details[field] = "forbidden characters: script, <, >"
	}
}

// validateImage enforces the upload rules shared by photos and recipe images:
// a single dot, a jpg/jpeg/png extension, a size cap and image content.
func validateImage(img ImageInput, maxBytes int) (*validatedImage, error) {
	name := strings.ToLower(path.Base(strings.ReplaceAll(img.Filename, `\`, "/")))
	if strings.Count(name, ".") != 1 {
		return nil, apperrors.NewValidationError("invalid file name: exactly one dot is allowed", map[string]any{"filename": img.Filename})
	}
	ext := name[strings.LastIndex(name, ".")+1:]
	want, ok := allowedImageExtensions[ext]
	if !ok {
		return nil, apperrors.NewValidationError("only jpeg, jpg, and png files are allowed for images", map[string]any{"filename": img.Filename})
	}
	if len(img.Content) == 0 {
		return nil, apperrors.NewValidationError("image is empty", map[string]any{"filename": img.Filename})
	}
	if len(img.Content) > maxBytes {
		return nil, apperrors.NewPayloadTooLarge(fmt.Sprintf("file size exceeds %.1f MB limit", float64(maxBytes)/(1024*1024)))
	}
	mtype := mimetype.Detect(img.Content)
	if !mtype.Is(want) {
		return nil, apperrors.NewValidationError("file content does not match its extension", map[string]any{
			"filename":     img.Filename,
			"content_type": mtype.String(),
		})
	}
	return &validatedImage{ext: "." + ext, contentType: want, content: img.Content}, nil
}

// isUUID filters malformed ids before they reach the database.
func isUUID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

func publishEvent(ctx context.Context, dispatcher events.Dispatcher, logger *zap.Logger, event events.Event) {
	if dispatcher == nil {
		return
	}
	if err := dispatcher.Publish(ctx, event); err != nil {
		logger.Warn("publish event", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}
