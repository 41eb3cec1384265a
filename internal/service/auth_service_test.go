package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/recipe-service/internal/events"
	apperrors "github.com/spec-kit/recipe-service/pkg/util"
)

func TestAliceScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.auth.SignUp(ctx, SignUpInput{
		Username:        "alice",
		Password:        "Passw0rd",
		ConfirmPassword: "Passw0rd",
		Email:           "alice@example.com",
		DateOfBirth:     date(2000, time.January, 1),
	}))

	pair, err := f.auth.SignIn(ctx, "alice", "Passw0rd")
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)

	require.NoError(t, f.auth.Logout(ctx, pair.RefreshToken))

	_, err = f.auth.RefreshAccess(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, ErrTokenRevoked)

	second, err := f.auth.SignIn(ctx, "alice", "Passw0rd")
	require.NoError(t, err)

	first, err := f.tokens.ParseRefresh(pair.RefreshToken)
	require.NoError(t, err)
	next, err := f.tokens.ParseRefresh(second.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, next.ID)

	access, err := f.auth.RefreshAccess(ctx, second.RefreshToken)
	require.NoError(t, err)
	identity, err := f.auth.ResolveIdentity(ctx, access.Token)
	require.NoError(t, err)
	assert.Equal(t, "alice", identity.Username)
	assert.NotEmpty(t, identity.ChefID)
}

func TestSignUpStoresHashNotPassword(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.auth.SignUp(ctx, signUpInput("bob", "s3cretpw")))
	chef, err := f.chefs.GetByUsername(ctx, "bob")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cretpw", chef.PasswordHash)
	assert.NotEmpty(t, chef.PasswordHash)
	assert.Equal(t, []events.EventType{events.EventChefSignedUp}, f.events.types())
}

func TestSignUpDuplicateUsername(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.auth.SignUp(ctx, signUpInput("alice", "Passw0rd")))
	err := f.auth.SignUp(ctx, signUpInput("alice", "0therPass"))
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "CONFLICT"))
}

func TestSignUpValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*SignUpInput)
		field  string
	}{
		{"password mismatch", func(in *SignUpInput) { in.ConfirmPassword = "Passw0rd!" }, "confirm_password"},
		{"too short", func(in *SignUpInput) { in.Password, in.ConfirmPassword = "ab1", "ab1" }, "password"},
		{"no digit", func(in *SignUpInput) { in.Password, in.ConfirmPassword = "Password", "Password" }, "password"},
		{"no letter", func(in *SignUpInput) { in.Password, in.ConfirmPassword = "1234567", "1234567" }, "password"},
		{"under eighteen", func(in *SignUpInput) { in.DateOfBirth = date(2006, time.June, 2) }, "date_of_birth"},
		{"missing date of birth", func(in *SignUpInput) { in.DateOfBirth = time.Time{} }, "date_of_birth"},
		{"missing username", func(in *SignUpInput) { in.Username = "  " }, "username"},
		{"long username", func(in *SignUpInput) { in.Username = strings.Repeat("a", 61) }, "username"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			in := signUpInput("carol", "Passw0rd")
			tt.mutate(&in)

			err := f.auth.SignUp(context.Background(), in)
			require.Error(t, err)
			domainErr := apperrors.ToDomainError(err)
			assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
			assert.Contains(t, domainErr.Details, tt.field)
		})
	}
}

func TestSignUpExactlyEighteen(t *testing.T) {
	f := newFixture(t)
	in := signUpInput("dave", "Passw0rd")
	in.DateOfBirth = date(2006, time.June, 1)
	assert.NoError(t, f.auth.SignUp(context.Background(), in))
}

func TestSignInUnknownUserMatchesWrongPassword(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.registerChef(t, "alice")

	_, wrongPassword := f.auth.SignIn(ctx, "alice", "Wr0ngpass")
	_, unknownUser := f.auth.SignIn(ctx, "mallory", "Passw0rd")

	require.Error(t, wrongPassword)
	require.Error(t, unknownUser)
	assert.ErrorIs(t, wrongPassword, ErrInvalidCredentials)
	assert.ErrorIs(t, unknownUser, ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownUser.Error())
}

func TestSignInTokenLifetimes(t *testing.T) {
	f := newFixture(t)
	f.registerChef(t, "alice")

	pair, err := f.auth.SignIn(context.Background(), "alice", "Passw0rd")
	require.NoError(t, err)

	now := f.clock.Now()
	assert.True(t, pair.AccessTokenExpiresAt.Equal(now.Add(30*time.Minute)))
	assert.True(t, pair.RefreshTokenExpiresAt.Equal(now.Add(7*24*time.Hour)))
}

func TestAccessTokenExpires(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.registerChef(t, "alice")

	pair, err := f.auth.SignIn(ctx, "alice", "Passw0rd")
	require.NoError(t, err)

	f.clock.Advance(29 * time.Minute)
	identity, err := f.auth.ResolveIdentity(ctx, pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "alice", identity.Username)

	f.clock.Advance(2 * time.Minute)
	_, err = f.auth.ResolveIdentity(ctx, pair.AccessToken)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestResolveIdentityRejectsRefreshTokenAndDeletedAccount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	identity := f.registerChef(t, "alice")

	pair, err := f.auth.SignIn(ctx, "alice", "Passw0rd")
	require.NoError(t, err)

	_, err = f.auth.ResolveIdentity(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, ErrUnauthorized)

	require.NoError(t, f.chefs.Delete(ctx, identity.ChefID))
	_, err = f.auth.ResolveIdentity(ctx, pair.AccessToken)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestLogoutTwiceReportsAlreadyRevoked(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.registerChef(t, "alice")

	pair, err := f.auth.SignIn(ctx, "alice", "Passw0rd")
	require.NoError(t, err)

	require.NoError(t, f.auth.Logout(ctx, pair.RefreshToken))
	err = f.auth.Logout(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, ErrTokenAlreadyRevoked)
	assert.Equal(t, 400, apperrors.ToDomainError(err).HTTPStatus)
}

func TestLogoutRevokesForRemainingLifetime(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.registerChef(t, "alice")

	pair, err := f.auth.SignIn(ctx, "alice", "Passw0rd")
	require.NoError(t, err)
	claims, err := f.tokens.ParseRefresh(pair.RefreshToken)
	require.NoError(t, err)

	f.clock.Advance(24 * time.Hour)
	require.NoError(t, f.auth.Logout(ctx, pair.RefreshToken))
	assert.Equal(t, 6*24*time.Hour, f.revocations.TTL(claims.ID))
	assert.Contains(t, f.events.types(), events.EventRefreshTokenRevoked)
}

func TestLogoutRejectsInvalidTokens(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.registerChef(t, "alice")

	pair, err := f.auth.SignIn(ctx, "alice", "Passw0rd")
	require.NoError(t, err)

	assert.ErrorIs(t, f.auth.Logout(ctx, pair.AccessToken), ErrInvalidToken)
	assert.ErrorIs(t, f.auth.Logout(ctx, "garbage"), ErrInvalidToken)
	assert.Zero(t, f.revocations.Calls())
}

func TestRefreshWithExpiredTokenSkipsRevocationStore(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.registerChef(t, "alice")

	pair, err := f.auth.SignIn(ctx, "alice", "Passw0rd")
	require.NoError(t, err)

	f.clock.Advance(7*24*time.Hour + time.Second)
	_, err = f.auth.RefreshAccess(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.Zero(t, f.revocations.Calls())
}

func TestRefreshDoesNotRotate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.registerChef(t, "alice")

	pair, err := f.auth.SignIn(ctx, "alice", "Passw0rd")
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		f.clock.Advance(time.Minute)
		access, err := f.auth.RefreshAccess(ctx, pair.RefreshToken)
		require.NoError(t, err)
		assert.True(t, access.ExpiresAt.Equal(f.clock.Now().Add(30*time.Minute)))
	}
}

func TestRefreshUnknownUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	identity := f.registerChef(t, "alice")

	pair, err := f.auth.SignIn(ctx, "alice", "Passw0rd")
	require.NoError(t, err)
	require.NoError(t, f.chefs.Delete(ctx, identity.ChefID))

	_, err = f.auth.RefreshAccess(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, ErrUnknownUser)
}

func TestRevocationStoreFailureFailsClosed(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.registerChef(t, "alice")

	pair, err := f.auth.SignIn(ctx, "alice", "Passw0rd")
	require.NoError(t, err)

	f.revocations.Err = errors.New("redis: connection refused")

	_, err = f.auth.RefreshAccess(ctx, pair.RefreshToken)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "SERVICE_UNAVAILABLE"))

	err = f.auth.Logout(ctx, pair.RefreshToken)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "SERVICE_UNAVAILABLE"))
	assert.NotContains(t, apperrors.ToDomainError(err).Message, "redis")
}

func TestCredentialStoreFailureIsInternal(t *testing.T) {
	f := newFixture(t)
	f.chefs.Err = errors.New("pool closed")

	_, err := f.auth.SignIn(context.Background(), "alice", "Passw0rd")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
	assert.Equal(t, "INTERNAL_ERROR", apperrors.ToDomainError(err).Code)
}
