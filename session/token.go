package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/Abitto-org/user-app/internal/errors"
)

// TokenInfo is the subset of bearer-token claims the gateway surfaces for
// display and logging.
type TokenInfo struct {
	Subject   string
	Email     string
	ExpiresAt time.Time
}

// Expired reports whether the token's exp claim has passed. A zero
// ExpiresAt (no exp claim) never counts as expired.
func (ti TokenInfo) Expired(now time.Time) bool {
	return !ti.ExpiresAt.IsZero() && ti.ExpiresAt.Before(now)
}

// TokenInfo parses the bearer token claims without verifying the
// signature. Verification is the backend's job; the gateway only peeks at
// claims so the UI can show whose session it is and when it lapses.
func (s Session) TokenInfo() (TokenInfo, error) {
	if s.Token == "" {
		return TokenInfo{}, apperrors.ErrNoSession
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(s.Token, claims); err != nil {
		return TokenInfo{}, apperrors.Wrapf(apperrors.ErrTokenMalformed, "[Session TokenInfo] %v", err)
	}

	info := TokenInfo{}
	if sub, err := claims.GetSubject(); err == nil {
		info.Subject = sub
	}
	if email, ok := claims["email"].(string); ok {
		info.Email = email
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		info.ExpiresAt = exp.Time
	}

	return info, nil
}
