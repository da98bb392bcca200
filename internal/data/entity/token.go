package entity

import (
	"time"
)

// RefreshBuffer is how long before expiry a cached token stops being trusted.
const RefreshBuffer = time.Hour

type TokenState string

const (
	TokenStateNone         TokenState = "no_token"
	TokenStateValid        TokenState = "valid"
	TokenStateExpiringSoon TokenState = "expiring_soon"
)

// TokenCache is the persisted chat credential pair. ExpiresAt is epoch milliseconds.
type TokenCache struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	ExpiresAt    int64  `json:"expires_at"`
}

func (t *TokenCache) State(now time.Time) TokenState {
	if t == nil || t.AccessToken == "" {
		return TokenStateNone
	}
	if now.Add(RefreshBuffer).UnixMilli() >= t.ExpiresAt {
		return TokenStateExpiringSoon
	}
	return TokenStateValid
}

func (t *TokenCache) ExpiresTime() time.Time {
	return time.UnixMilli(t.ExpiresAt)
}
