package dto

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/spec-kit/recipe-service/pkg/util"
)

func TestValidateReportsJSONFieldNames(t *testing.T) {
	err := Validate(SignUpRequest{
		Username:        "alice",
		Password:        "Passw0rd",
		ConfirmPassword: "Passw0rd",
		Email:           "not-an-email",
		DateOfBirth:     "01/01/2000",
	})
	require.Error(t, err)

	domainErr := apperrors.ToDomainError(err)
	assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
	assert.Equal(t, "email", domainErr.Details["email"])
	assert.Equal(t, "datetime", domainErr.Details["date_of_birth"])
}

func TestValidateAcceptsWellFormedRequest(t *testing.T) {
	assert.NoError(t, Validate(SignUpRequest{
		Username:        "alice",
		Password:        "Passw0rd",
		ConfirmPassword: "Passw0rd",
		Email:           "alice@example.com",
		DateOfBirth:     "2000-01-01",
	}))
	assert.NoError(t, Validate(ReviewRequest{CommentDescription: "tasty", Ratings: "Excellent", VoteType: "Like"}))
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("date_of_birth", "2000-01-02")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2000, time.January, 2, 0, 0, 0, 0, time.UTC), d)

	_, err = ParseDate("date_of_birth", "yesterday")
	assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))
}
