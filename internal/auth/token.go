package auth

import (
	"errors"
	"fmt"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidToken is returned for malformed, expired, wrongly signed, or
// incomplete tokens.
var ErrInvalidToken = errors.New("invalid token")

// TokenConfig holds the signing settings. It is built once at startup and
// never mutated.
type TokenConfig struct {
	Algorithm     string
	AccessSecret  string
	RefreshSecret string
}

// AccessClaims is the validated content of an access token.
type AccessClaims struct {
	Subject   string
	ExpiresAt time.Time
}

// RefreshClaims is the validated content of a refresh token.
type RefreshClaims struct {
	Subject   string
	ExpiresAt time.Time
	ID        string
}

// TokenManager issues and validates access and refresh JWTs. The two token
// classes share an algorithm but use distinct secrets.
type TokenManager struct {
	method        jwt.SigningMethod
	accessSecret  []byte
	refreshSecret []byte
	clock         Clock
}

// NewTokenManager builds a new manager. Only HMAC algorithms are accepted.
func NewTokenManager(cfg TokenConfig, clock Clock) (*TokenManager, error) {
	method, ok := jwt.GetSigningMethod(cfg.Algorithm).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("unsupported signing algorithm %q", cfg.Algorithm)
	}
	if cfg.AccessSecret == "" || cfg.RefreshSecret == "" {
		return nil, errors.New("access and refresh secrets are required")
	}
	if cfg.AccessSecret == cfg.RefreshSecret {
		return nil, errors.New("access and refresh secrets must differ")
	}
	if clock == nil {
		clock = SystemClock{}
	}
	return &TokenManager{
		method:        method,
		accessSecret:  []byte(cfg.AccessSecret),
		refreshSecret: []byte(cfg.RefreshSecret),
		clock:         clock,
	}, nil
}

// IssueAccess signs a non-revocable access token for subject.
func (tm *TokenManager) IssueAccess(subject string, ttl time.Duration) (string, time.Time, error) {
	claims := tm.registeredClaims(subject, ttl)
	token, err := tm.sign(claims, tm.accessSecret)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, claims.ExpiresAt.Time.UTC(), nil
}

// IssueRefresh signs a refresh token carrying a fresh jti.
func (tm *TokenManager) IssueRefresh(subject string, ttl time.Duration) (string, RefreshClaims, error) {
	claims := tm.registeredClaims(subject, ttl)
	claims.ID = uuid.NewString()
	token, err := tm.sign(claims, tm.refreshSecret)
	if err != nil {
		return "", RefreshClaims{}, err
	}
	return token, RefreshClaims{Subject: subject, ExpiresAt: claims.ExpiresAt.Time.UTC(), ID: claims.ID}, nil
}

// ParseAccess validates an access token.
func (tm *TokenManager) ParseAccess(tokenStr string) (*AccessClaims, error) {
	claims, err := tm.parse(tokenStr, tm.accessSecret)
	if err != nil {
		return nil, err
	}
	return &AccessClaims{Subject: claims.Subject, ExpiresAt: claims.ExpiresAt.Time.UTC()}, nil
}

// ParseRefresh validates a refresh token. A refresh token without a jti is
// rejected because it could never be revoked.
func (tm *TokenManager) ParseRefresh(tokenStr string) (*RefreshClaims, error) {
	claims, err := tm.parse(tokenStr, tm.refreshSecret)
	if err != nil {
		return nil, err
	}
	if claims.ID == "" {
		return nil, fmt.Errorf("%w: missing jti", ErrInvalidToken)
	}
	return &RefreshClaims{Subject: claims.Subject, ExpiresAt: claims.ExpiresAt.Time.UTC(), ID: claims.ID}, nil
}

// Now exposes the manager's clock so callers compute TTLs on the same timeline.
func (tm *TokenManager) Now() time.Time {
	return tm.clock.Now()
}

func (tm *TokenManager) registeredClaims(subject string, ttl time.Duration) jwt.RegisteredClaims {
	now := tm.clock.Now()
	return jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
}

func (tm *TokenManager) sign(claims jwt.RegisteredClaims, secret []byte) (string, error) {
	return jwt.NewWithClaims(tm.method, claims).SignedString(secret)
}

func (tm *TokenManager) parse(tokenStr string, secret []byte) (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(tokenStr, claims, func(*jwt.Token) (interface{}, error) {
		return secret, nil
	},
		jwt.WithValidMethods([]string{tm.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(tm.clock.Now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	return claims, nil
}
