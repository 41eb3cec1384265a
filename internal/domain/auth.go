package domain

import "time"

// Identity is the authenticated caller, resolved once per request.
type Identity struct {
	ChefID   string
	Username string
}

// TokenPair is returned by a successful sign-in.
type TokenPair struct {
	AccessToken           string
	AccessTokenExpiresAt  time.Time
	RefreshToken          string
	RefreshTokenExpiresAt time.Time
}

// AccessToken is returned by a refresh.
type AccessToken struct {
	Token     string
	ExpiresAt time.Time
}
