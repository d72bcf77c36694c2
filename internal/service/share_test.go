package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"pdfshare/internal/config"
	"pdfshare/internal/model"
	"pdfshare/internal/repository"
	repoMocks "pdfshare/internal/repository/mocks"
	"pdfshare/internal/token"
)

var testJWT = config.JWTConfig{Secret: "bearer", ShareSecret: "share", Issuer: "pdfshare", Audience: "pdfshare-client", TokenTTL: time.Hour}

type shareFixture struct {
	mem   *memRepo
	clock *clock
	svc   ShareService
}

func newShareFixture(t *testing.T) *shareFixture {
	t.Helper()
	mem := newMemRepo()
	clk := newClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	signer := token.NewManager(testJWT).WithClock(clk.Now)
	svc := NewShareService(memDocs{mem}, memTokens{mem}, signer, zap.NewNop())
	svc.(*shareService).now = clk.Now

	mem.docs["doc-1"] = model.Document{ID: "doc-1", OwnerID: "user-1", StoragePath: "documents/doc-1.pdf"}
	return &shareFixture{mem: mem, clock: clk, svc: svc}
}

func TestShareService_IssueToken_Expiry(t *testing.T) {
	ctx := context.Background()
	f := newShareFixture(t)
	now := f.clock.Now()

	past := now.Add(-time.Minute)
	exactlyNow := now
	future := now.Add(48 * time.Hour)

	tests := []struct {
		name      string
		expiresAt *time.Time
		want      time.Time
	}{
		{name: "no expiry", expiresAt: nil, want: now.Add(7 * 24 * time.Hour)},
		{name: "past expiry", expiresAt: &past, want: now.Add(7 * 24 * time.Hour)},
		{name: "expiry equal to now", expiresAt: &exactlyNow, want: now.Add(7 * 24 * time.Hour)},
		{name: "future expiry", expiresAt: &future, want: future},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tok, err := f.svc.IssueToken(ctx, "doc-1", "user-1", tt.expiresAt)
			require.NoError(t, err)
			assert.Equal(t, tt.want, tok.ExpiresAt)
			assert.Equal(t, "doc-1", tok.DocumentID)
			assert.False(t, tok.Revoked)
			_, err = uuid.Parse(tok.Token)
			assert.NoError(t, err, "token value is a UUID")
		})
	}
}

func TestShareService_IssueToken_NotOwned(t *testing.T) {
	ctx := context.Background()
	f := newShareFixture(t)

	_, err := f.svc.IssueToken(ctx, "doc-1", "user-2", nil)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.svc.IssueToken(ctx, "doc-404", "user-1", nil)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Empty(t, f.mem.tokens)
}

func TestShareService_ValidateToken_ExpiryAndRevocation(t *testing.T) {
	ctx := context.Background()
	f := newShareFixture(t)

	tok, err := f.svc.IssueToken(ctx, "doc-1", "user-1", nil)
	require.NoError(t, err)

	ok, err := f.svc.ValidateToken(ctx, tok.Token)
	require.NoError(t, err)
	assert.True(t, ok)

	f.clock.Advance(7*24*time.Hour - time.Second)
	ok, _ = f.svc.ValidateToken(ctx, tok.Token)
	assert.True(t, ok)

	f.clock.Advance(time.Second)
	ok, _ = f.svc.ValidateToken(ctx, tok.Token)
	assert.False(t, ok, "invalid once now >= expiresAt")

	second, err := f.svc.IssueToken(ctx, "doc-1", "user-1", nil)
	require.NoError(t, err)
	revoked, err := f.svc.RevokeToken(ctx, second.Token, "user-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	ok, _ = f.svc.ValidateToken(ctx, second.Token)
	assert.False(t, ok, "invalid immediately after revocation")

	ok, err = f.svc.ValidateToken(ctx, "unknown")
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestShareService_RevokeToken_Rules(t *testing.T) {
	ctx := context.Background()
	f := newShareFixture(t)

	tok, err := f.svc.IssueToken(ctx, "doc-1", "user-1", nil)
	require.NoError(t, err)

	ok, err := f.svc.RevokeToken(ctx, tok.Token, "user-2")
	require.NoError(t, err)
	assert.False(t, ok, "only the owner revokes")

	ok, err = f.svc.RevokeToken(ctx, "unknown", "user-1")
	require.NoError(t, err)
	assert.False(t, ok)

	valid, _ := f.svc.ValidateToken(ctx, tok.Token)
	assert.True(t, valid)
}

func TestShareService_IssueSignedToken(t *testing.T) {
	ctx := context.Background()
	f := newShareFixture(t)

	share, err := f.svc.IssueSignedToken(ctx, "doc-1", "user-1", nil)
	require.NoError(t, err)
	require.NotNil(t, share.Token)

	claims, err := token.NewManager(testJWT).WithClock(f.clock.Now).ParseShare(share.Signed)
	require.NoError(t, err)
	assert.Equal(t, "doc-1", claims.DocumentID)
	assert.Equal(t, share.Token.Token, claims.TokenID)
	assert.True(t, claims.ExpiresAt.Time.Equal(share.Token.ExpiresAt))
}

func TestShareService_ListTokens(t *testing.T) {
	ctx := context.Background()
	f := newShareFixture(t)

	_, err := f.svc.IssueToken(ctx, "doc-1", "user-1", nil)
	require.NoError(t, err)

	list, err := f.svc.ListTokens(ctx, "doc-1", "user-1")
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = f.svc.ListTokens(ctx, "doc-1", "user-2")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestShareService_RepositoryErrors(t *testing.T) {
	ctx := context.Background()
	docs := new(repoMocks.MockDocumentRepository)
	tokens := new(repoMocks.MockAccessTokenRepository)
	svc := NewShareService(docs, tokens, token.NewManager(testJWT), zap.NewNop())

	docs.On("FindByID", ctx, "doc-1").Return(&model.Document{ID: "doc-1", OwnerID: "user-1"}, nil)
	tokens.On("Create", ctx, mock.Anything).Return(nil, errors.New("unique violation"))
	broken := uuid.NewString()
	missing := uuid.NewString()
	tokens.On("FindByToken", ctx, broken).Return(nil, errors.New("conn reset"))
	tokens.On("FindByToken", ctx, missing).Return(nil, repository.ErrNotFound)

	_, err := svc.IssueToken(ctx, "doc-1", "user-1", nil)
	assert.ErrorContains(t, err, "store access token")

	ok, err := svc.ValidateToken(ctx, broken)
	assert.Error(t, err)
	assert.False(t, ok)

	ok, err = svc.ValidateToken(ctx, missing)
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestShareService_MalformedTokenSkipsRepository(t *testing.T) {
	ctx := context.Background()
	docs := new(repoMocks.MockDocumentRepository)
	tokens := new(repoMocks.MockAccessTokenRepository)
	svc := NewShareService(docs, tokens, token.NewManager(testJWT), zap.NewNop())

	for _, value := range []string{"", "not-a-uuid", "1234", "' OR 1=1 --"} {
		ok, err := svc.ValidateToken(ctx, value)
		assert.NoError(t, err, value)
		assert.False(t, ok, value)

		ok, err = svc.RevokeToken(ctx, value, "user-1")
		assert.NoError(t, err, value)
		assert.False(t, ok, value)
	}
	tokens.AssertNotCalled(t, "FindByToken", mock.Anything, mock.Anything)
	tokens.AssertNotCalled(t, "Revoke", mock.Anything, mock.Anything)
}
