package auth

import (
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type manualClock struct{ now time.Time }

func (c *manualClock) Now() time.Time          { return c.now }
func (c *manualClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestManager(t *testing.T) (*TokenManager, *manualClock) {
	t.Helper()
	clock := &manualClock{now: time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)}
	tm, err := NewTokenManager(TokenConfig{
		Algorithm:     "HS256",
		AccessSecret:  "access-secret",
		RefreshSecret: "refresh-secret",
	}, clock)
	require.NoError(t, err)
	return tm, clock
}

func TestAccessRoundTrip(t *testing.T) {
	tm, clock := newTestManager(t)

	token, exp, err := tm.IssueAccess("alice", 30*time.Minute)
	require.NoError(t, err)
	assert.True(t, exp.Equal(clock.now.Add(30*time.Minute)))

	claims, err := tm.ParseAccess(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Subject)
	assert.True(t, exp.Equal(claims.ExpiresAt))
}

func TestAccessExpires(t *testing.T) {
	tm, clock := newTestManager(t)

	token, _, err := tm.IssueAccess("alice", 30*time.Minute)
	require.NoError(t, err)

	clock.Advance(29 * time.Minute)
	_, err = tm.ParseAccess(token)
	require.NoError(t, err)

	clock.Advance(2 * time.Minute)
	_, err = tm.ParseAccess(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRefreshRoundTrip(t *testing.T) {
	tm, _ := newTestManager(t)

	token, issued, err := tm.IssueRefresh("alice", 7*24*time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, issued.ID)

	claims, err := tm.ParseRefresh(token)
	require.NoError(t, err)
	assert.Equal(t, issued.ID, claims.ID)
	assert.Equal(t, "alice", claims.Subject)
	assert.True(t, issued.ExpiresAt.Equal(claims.ExpiresAt))
}

func TestRefreshIDsAreUnique(t *testing.T) {
	tm, _ := newTestManager(t)

	_, first, err := tm.IssueRefresh("alice", time.Hour)
	require.NoError(t, err)
	_, second, err := tm.IssueRefresh("alice", time.Hour)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestTokenClassesAreNotInterchangeable(t *testing.T) {
	tm, _ := newTestManager(t)

	access, _, err := tm.IssueAccess("alice", time.Hour)
	require.NoError(t, err)
	refresh, _, err := tm.IssueRefresh("alice", time.Hour)
	require.NoError(t, err)

	_, err = tm.ParseRefresh(access)
	assert.ErrorIs(t, err, ErrInvalidToken)
	_, err = tm.ParseAccess(refresh)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRefreshRequiresID(t *testing.T) {
	tm, clock := newTestManager(t)

	// Signed with the refresh secret but without a jti.
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "alice",
		ExpiresAt: jwt.NewNumericDate(clock.now.Add(time.Hour)),
	}).SignedString([]byte("refresh-secret"))
	require.NoError(t, err)

	_, err = tm.ParseRefresh(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsMissingExpiry(t *testing.T) {
	tm, _ := newTestManager(t)

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject: "alice",
	}).SignedString([]byte("access-secret"))
	require.NoError(t, err)

	_, err = tm.ParseAccess(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsOtherAlgorithm(t *testing.T) {
	tm, clock := newTestManager(t)

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.RegisteredClaims{
		Subject:   "alice",
		ExpiresAt: jwt.NewNumericDate(clock.now.Add(time.Hour)),
	}).SignedString([]byte("access-secret"))
	require.NoError(t, err)

	_, err = tm.ParseAccess(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsGarbage(t *testing.T) {
	tm, _ := newTestManager(t)

	for _, raw := range []string{"", "not.a.jwt", "a.b", "eyJhbGciOiJub25lIn0.e30."} {
		_, err := tm.ParseAccess(raw)
		assert.ErrorIs(t, err, ErrInvalidToken, raw)
	}
}

func TestNewTokenManagerValidation(t *testing.T) {
	_, err := NewTokenManager(TokenConfig{Algorithm: "RS256", AccessSecret: "a", RefreshSecret: "b"}, nil)
	assert.Error(t, err)

	_, err = NewTokenManager(TokenConfig{Algorithm: "HS256", AccessSecret: "same", RefreshSecret: "same"}, nil)
	assert.Error(t, err)

	_, err = NewTokenManager(TokenConfig{Algorithm: "HS384", AccessSecret: "a"}, nil)
	assert.Error(t, err)

	tm, err := NewTokenManager(TokenConfig{Algorithm: "HS384", AccessSecret: "a", RefreshSecret: "b"}, nil)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now(), tm.Now(), time.Second)
}
