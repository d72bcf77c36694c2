// Package token signs and verifies the HS256 JWTs used for bearer authentication and share links.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"pdfshare/internal/config"
	"pdfshare/internal/model"
)

// ErrInvalid wraps every parse or verification failure.
var ErrInvalid = errors.New("invalid token")

// UserClaims identify an authenticated account. Subject carries the user id.
type UserClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// ShareClaims wrap a stored access token so a link can be verified before the database lookup.
type ShareClaims struct {
	DocumentID string `json:"documentId"`
	TokenID    string `json:"tokenId"`
	jwt.RegisteredClaims
}

// Manager issues and parses both kinds of token.
type Manager struct {
	userKey  []byte
	shareKey []byte
	issuer   string
	audience string
	ttl      time.Duration
	now      func() time.Time
}

func NewManager(cfg config.JWTConfig) *Manager {
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Manager{
		userKey:  []byte(cfg.Secret),
		shareKey: []byte(cfg.ShareSigningKey()),
		issuer:   cfg.Issuer,
		audience: cfg.Audience,
		ttl:      ttl,
		now:      time.Now,
	}
}

// WithClock replaces the time source; used in tests.
func (m *Manager) WithClock(now func() time.Time) *Manager {
	m.now = now
	return m
}

func (m *Manager) registered(subject string, expiresAt time.Time) jwt.RegisteredClaims {
	now := m.now().UTC()
	rc := jwt.RegisteredClaims{
		Subject:   subject,
		Issuer:    m.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	if m.audience != "" {
		rc.Audience = jwt.ClaimStrings{m.audience}
	}
	return rc
}

// IssueUser signs a bearer token for u and returns it with its expiry.
func (m *Manager) IssueUser(u *model.User) (string, time.Time, error) {
	exp := m.now().UTC().Add(m.ttl)
	claims := UserClaims{Email: u.Email, RegisteredClaims: m.registered(u.ID, exp)}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.userKey)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign user token: %w", err)
	}
	return signed, exp, nil
}

// ParseUser verifies signature, issuer, audience and expiry of a bearer token.
func (m *Manager) ParseUser(raw string) (*UserClaims, error) {
	claims := &UserClaims{}
	if err := m.parse(raw, claims, m.userKey); err != nil {
		return nil, err
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalid)
	}
	return claims, nil
}

// IssueShare wraps the stored token value tokenID for documentID. The JWT expires with the stored token.
func (m *Manager) IssueShare(documentID, tokenID string, expiresAt time.Time) (string, error) {
	claims := ShareClaims{
		DocumentID:       documentID,
		TokenID:          tokenID,
		RegisteredClaims: m.registered("", expiresAt.UTC()),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.shareKey)
	if err != nil {
		return "", fmt.Errorf("sign share token: %w", err)
	}
	return signed, nil
}

// ParseShare verifies a share link JWT and returns its claims.
func (m *Manager) ParseShare(raw string) (*ShareClaims, error) {
	claims := &ShareClaims{}
	if err := m.parse(raw, claims, m.shareKey); err != nil {
		return nil, err
	}
	if claims.DocumentID == "" || claims.TokenID == "" {
		return nil, fmt.Errorf("%w: missing document or token id", ErrInvalid)
	}
	return claims, nil
}

func (m *Manager) parse(raw string, claims jwt.Claims, key []byte) error {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	}
	if m.issuer != "" {
		opts = append(opts, jwt.WithIssuer(m.issuer))
	}
	if m.audience != "" {
		opts = append(opts, jwt.WithAudience(m.audience))
	}

	tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return key, nil
	}, opts...)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if !tok.Valid {
		return ErrInvalid
	}
	return nil
}
