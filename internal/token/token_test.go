package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pdfshare/internal/config"
	"pdfshare/internal/model"
)

var cfg = config.JWTConfig{
	Secret:      "bearer-secret",
	ShareSecret: "share-secret",
	Issuer:      "pdfshare",
	Audience:    "pdfshare-client",
	TokenTTL:    time.Hour,
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestUserToken(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Second)
	m := NewManager(cfg).WithClock(fixedClock(now))

	signed, exp, err := m.IssueUser(&model.User{ID: "user-1", Email: "ada@example.com"})
	require.NoError(t, err)
	assert.Equal(t, now.Add(time.Hour), exp)

	claims, err := m.ParseUser(signed)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "ada@example.com", claims.Email)

	m.WithClock(fixedClock(now.Add(2 * time.Hour)))
	_, err = m.ParseUser(signed)
	assert.ErrorIs(t, err, ErrInvalid)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestUserToken_Rejections(t *testing.T) {
	m := NewManager(cfg)
	signed, _, err := m.IssueUser(&model.User{ID: "user-1"})
	require.NoError(t, err)

	tests := []struct {
		name string
		m    *Manager
		raw  string
	}{
		{name: "garbage", m: m, raw: "not-a-jwt"},
		{name: "empty", m: m, raw: ""},
		{name: "wrong key", m: NewManager(config.JWTConfig{Secret: "other", Issuer: cfg.Issuer, Audience: cfg.Audience}), raw: signed},
		{name: "wrong issuer", m: NewManager(config.JWTConfig{Secret: cfg.Secret, Issuer: "someone-else", Audience: cfg.Audience}), raw: signed},
		{name: "wrong audience", m: NewManager(config.JWTConfig{Secret: cfg.Secret, Issuer: cfg.Issuer, Audience: "mobile"}), raw: signed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.m.ParseUser(tt.raw)
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}
}

func TestUserToken_RejectsShareToken(t *testing.T) {
	m := NewManager(cfg)
	share, err := m.IssueShare("doc-1", "tok-1", time.Now().Add(time.Hour))
	require.NoError(t, err)

	_, err = m.ParseUser(share)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestShareToken(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Second)
	m := NewManager(cfg).WithClock(fixedClock(now))
	expires := now.Add(7 * 24 * time.Hour)

	signed, err := m.IssueShare("doc-1", "7b2e0e8a-4c1f-4d7e-9e43-1c2f0a6b8d11", expires)
	require.NoError(t, err)

	claims, err := m.ParseShare(signed)
	require.NoError(t, err)
	assert.Equal(t, "doc-1", claims.DocumentID)
	assert.Equal(t, "7b2e0e8a-4c1f-4d7e-9e43-1c2f0a6b8d11", claims.TokenID)
	assert.True(t, claims.ExpiresAt.Time.Equal(expires))

	m.WithClock(fixedClock(expires))
	_, err = m.ParseShare(signed)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestShareToken_RejectsOtherAlgorithms(t *testing.T) {
	m := NewManager(cfg)
	claims := ShareClaims{
		DocumentID: "doc-1",
		TokenID:    "tok-1",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    cfg.Issuer,
			Audience:  jwt.ClaimStrings{cfg.Audience},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = m.ParseShare(unsigned)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestSingleSecretKeepsTokenKindsApart(t *testing.T) {
	m := NewManager(config.JWTConfig{Secret: "only-one", Issuer: "pdfshare", TokenTTL: time.Hour})
	share, err := m.IssueShare("doc-1", "tok-1", time.Now().Add(time.Minute))
	require.NoError(t, err)
	_, err = m.ParseShare(share)
	assert.NoError(t, err)

	user, _, err := m.IssueUser(&model.User{ID: "user-1", Email: "u@example.com"})
	require.NoError(t, err)

	_, err = m.ParseShare(user)
	assert.ErrorIs(t, err, ErrInvalid, "bearer token is not a share link")
	_, err = m.ParseUser(share)
	assert.ErrorIs(t, err, ErrInvalid, "share link is not a bearer token")
}
