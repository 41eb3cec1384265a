package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCuisine(t *testing.T) {
	c, ok := ParseCuisine(" italian ")
	assert.True(t, ok)
	assert.Equal(t, CuisineItalian, c)

	_, ok = ParseCuisine("Klingon")
	assert.False(t, ok)

	for _, c := range Cuisines {
		assert.True(t, c.Valid(), c)
	}
	assert.False(t, Cuisine("italian").Valid())
}

func TestParseRating(t *testing.T) {
	r, ok := ParseRating("very good")
	assert.True(t, ok)
	assert.Equal(t, RatingVeryGood, r)

	_, ok = ParseRating("meh")
	assert.False(t, ok)

	for _, r := range Ratings {
		assert.True(t, r.Valid(), r)
	}
}

func TestParseVoteType(t *testing.T) {
	v, ok := ParseVoteType("DISLIKE")
	assert.True(t, ok)
	assert.Equal(t, VoteDislike, v)

	_, ok = ParseVoteType("love")
	assert.False(t, ok)
	assert.False(t, VoteType("").Valid())
}

func TestVoteTotals(t *testing.T) {
	recipe := &Recipe{Reviews: []Review{
		{Vote: VoteLike},
		{Vote: VoteLike},
		{Vote: VoteDislike},
	}}
	likes, dislikes := recipe.VoteTotals()
	assert.Equal(t, 2, likes)
	assert.Equal(t, 1, dislikes)
}
