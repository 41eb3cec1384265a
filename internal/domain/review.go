package domain

import (
	"strings"
	"time"
)

// Rating is the qualitative score a chef gives a recipe.
type Rating string

const (
	RatingExcellent     Rating = "Excellent"
	RatingVeryGood      Rating = "Very Good"
	RatingSatisfactory  Rating = "Satisfactory"
	RatingDisappointing Rating = "Disappointing"
	RatingUnpalatable   Rating = "Unpalatable"
)

// Ratings lists every accepted rating, best first.
var Ratings = []Rating{RatingExcellent, RatingVeryGood, RatingSatisfactory, RatingDisappointing, RatingUnpalatable}

// ParseRating matches s case-insensitively against the known ratings.
func ParseRating(s string) (Rating, bool) {
	s = strings.TrimSpace(s)
	for _, r := range Ratings {
		if strings.EqualFold(string(r), s) {
			return r, true
		}
	}
	return "", false
}

// Valid reports whether r is one of the known ratings.
func (r Rating) Valid() bool {
	switch r {
	case RatingExcellent, RatingVeryGood, RatingSatisfactory, RatingDisappointing, RatingUnpalatable:
		return true
	}
	return false
}

// VoteType records whether a reviewer liked the recipe.
type VoteType string

const (
	VoteLike    VoteType = "Like"
	VoteDislike VoteType = "Dislike"
)

// ParseVoteType matches s case-insensitively.
func ParseVoteType(s string) (VoteType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "like":
		return VoteLike, true
	case "dislike":
		return VoteDislike, true
	}
	return "", false
}

// Valid reports whether v is Like or Dislike.
func (v VoteType) Valid() bool {
	return v == VoteLike || v == VoteDislike
}

// Review is a chef's comment, rating and vote on a recipe.
type Review struct {
	ID          string
	RecipeID    string
	ChefID      string
	Comment     string
	Rating      Rating
	Vote        VoteType
	PublishedAt time.Time
}
