package model

import "time"

// DefaultTokenLifetime applies when a share request carries no usable expiry.
const DefaultTokenLifetime = 7 * 24 * time.Hour

// AccessToken is a capability granting read/comment access to one document.
type AccessToken struct {
	ID         string    `json:"id"`
	DocumentID string    `json:"document_id"`
	Token      string    `json:"token"`
	CreatedAt  time.Time `json:"created_at"`
	ExpiresAt  time.Time `json:"expires_at"`
	Revoked    bool      `json:"revoked"`
}

// ValidAt reports whether the token grants access at the given instant.
func (t *AccessToken) ValidAt(now time.Time) bool {
	return t != nil && !t.Revoked && now.Before(t.ExpiresAt)
}
