package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventChefSignedUp        EventType = "chef.signed_up"
	EventChefRemoved         EventType = "chef.removed"
	EventRefreshTokenRevoked EventType = "auth.refresh_revoked"
	EventRecipeCreated       EventType = "recipe.created"
	EventRecipeRemoved       EventType = "recipe.removed"
	EventReviewAdded         EventType = "review.added"
)

// AllEventTypes lists every event a service may publish.
var AllEventTypes = []EventType{
	EventChefSignedUp,
	EventChefRemoved,
	EventRefreshTokenRevoked,
	EventRecipeCreated,
	EventRecipeRemoved,
	EventReviewAdded,
}

// Actor identifies the chef that caused an event.
type Actor struct {
	ChefID   string `json:"chef_id"`
	Username string `json:"username"`
}

// Event represents a domain event emitted by services. SubjectID is the id of
// the entity the event is about and doubles as the stream partition key.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	SubjectID string    `json:"subject_id"`
	Actor     Actor     `json:"actor"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload,omitempty"`
}

// NewEvent stamps an event with a fresh id.
func NewEvent(eventType EventType, subjectID string, actor Actor, at time.Time, payload any) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		SubjectID: subjectID,
		Actor:     actor,
		Timestamp: at.UTC(),
		Payload:   payload,
	}
}

// ChefSignedUpPayload payload.
type ChefSignedUpPayload struct {
	Email string `json:"email"`
}

// RefreshTokenRevokedPayload payload. The token itself is never included.
type RefreshTokenRevokedPayload struct {
	TokenID   string    `json:"jti"`
	ExpiresAt time.Time `json:"expires_at"`
}

// RecipeCreatedPayload payload.
type RecipeCreatedPayload struct {
	Name       string `json:"name"`
	Cuisine    string `json:"cuisine"`
	ImageCount int    `json:"image_count"`
}

// RecipeRemovedPayload payload.
type RecipeRemovedPayload struct {
	Name string `json:"name"`
}

// ReviewAddedPayload payload.
type ReviewAddedPayload struct {
	ReviewID string `json:"review_id"`
	Rating   string `json:"rating"`
	Vote     string `json:"vote"`
}
