package service

import (
	"net/http"

	apperrors "github.com/spec-kit/recipe-service/pkg/util"
)

// Authentication failures. Credential errors are deliberately generic; token
// state errors are specific so clients can tell revocation from expiry.
var (
	ErrInvalidCredentials  = apperrors.NewDomainError("INVALID_CREDENTIALS", "invalid username or password", http.StatusUnauthorized, nil)
	ErrInvalidToken        = apperrors.NewDomainError("INVALID_TOKEN", "invalid token", http.StatusUnauthorized, nil)
	ErrTokenRevoked        = apperrors.NewDomainError("TOKEN_REVOKED", "token has been revoked", http.StatusUnauthorized, nil)
	ErrTokenAlreadyRevoked = apperrors.NewDomainError("TOKEN_ALREADY_REVOKED", "token already revoked", http.StatusBadRequest, nil)
	ErrUnknownUser         = apperrors.NewDomainError("UNKNOWN_USER", "token subject no longer exists", http.StatusUnauthorized, nil)
	ErrUnauthorized        = apperrors.NewDomainError("UNAUTHORIZED", "could not validate credentials", http.StatusUnauthorized, nil)
)
