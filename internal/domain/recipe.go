package domain

import (
	"strings"
	"time"
)

// Cuisine enumerates the supported recipe cuisines.
type Cuisine string

const (
	CuisineItalian Cuisine = "Italian"
	CuisineChinese Cuisine = "Chinese"
	CuisineIndian  Cuisine = "Indian"
	CuisineMexican Cuisine = "Mexican"
	CuisineFrench  Cuisine = "French"
)

// Cuisines lists every accepted cuisine.
var Cuisines = []Cuisine{CuisineItalian, CuisineChinese, CuisineIndian, CuisineMexican, CuisineFrench}

// ParseCuisine matches s case-insensitively against the known cuisines.
func ParseCuisine(s string) (Cuisine, bool) {
	s = strings.TrimSpace(s)
	for _, c := range Cuisines {
		if strings.EqualFold(string(c), s) {
			return c, true
		}
	}
	return "", false
}

// Valid reports whether c is one of the known cuisines.
func (c Cuisine) Valid() bool {
	switch c {
	case CuisineItalian, CuisineChinese, CuisineIndian, CuisineMexican, CuisineFrench:
		return true
	}
	return false
}

// Recipe is the aggregate for a published recipe.
type Recipe struct {
	ID                  string
	ChefID              string
	Name                string
	Cuisine             Cuisine
	Ingredients         string
	CookingInstructions string
	PublishedAt         time.Time
	Images              []RecipeImage
	Reviews             []Review
}

// RecipeImage references a stored image blob.
type RecipeImage struct {
	ID        string
	RecipeID  string
	Path      string
	CreatedAt time.Time
}

// VoteTotals counts likes and dislikes across the recipe's reviews.
func (r *Recipe) VoteTotals() (likes, dislikes int) {
	for _, review := range r.Reviews {
		switch review.Vote {
		case VoteLike:
			likes++
		case VoteDislike:
			dislikes++
		}
	}
	return likes, dislikes
}
