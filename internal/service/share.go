package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"pdfshare/internal/model"
	"pdfshare/internal/repository"
	"pdfshare/internal/token"
)

// ShareSigner wraps stored tokens in signed links and verifies them.
type ShareSigner interface {
	IssueShare(documentID, tokenID string, expiresAt time.Time) (string, error)
	ParseShare(raw string) (*token.ShareClaims, error)
}

// SignedShare is a stored access token plus its signed envelope.
type SignedShare struct {
	Token  *model.AccessToken
	Signed string
}

// ShareService issues, checks and revokes access tokens.
type ShareService interface {
	// IssueToken answers ErrNotFound when the document is missing or not owned by userID.
	// A nil or non-future expiresAt yields now + model.DefaultTokenLifetime.
	IssueToken(ctx context.Context, documentID, userID string, expiresAt *time.Time) (*model.AccessToken, error)
	// IssueSignedToken stores a token exactly like IssueToken and signs an envelope around it.
	IssueSignedToken(ctx context.Context, documentID, userID string, expiresAt *time.Time) (*SignedShare, error)
	// ValidateToken has no side effects. Unknown tokens are simply invalid.
	ValidateToken(ctx context.Context, value string) (bool, error)
	// RevokeToken reports false when the token is unknown or userID does not own its document.
	RevokeToken(ctx context.Context, value, userID string) (bool, error)
	ListTokens(ctx context.Context, documentID, userID string) ([]model.AccessToken, error)
}

type shareService struct {
	docs   repository.DocumentRepository
	tokens repository.AccessTokenRepository
	signer ShareSigner
	log    *zap.Logger
	now    func() time.Time
}

func NewShareService(docs repository.DocumentRepository, tokens repository.AccessTokenRepository, signer ShareSigner, log *zap.Logger) ShareService {
	return &shareService{
		docs:   docs,
		tokens: tokens,
		signer: signer,
		log:    log.With(zap.String("component", "share_service")),
		now:    time.Now,
	}
}

func (s *shareService) ownedDocument(ctx context.Context, documentID, userID string) (*model.Document, error) {
	if documentID == "" {
		return nil, ErrIDRequired
	}
	doc, err := s.docs.FindByID(ctx, documentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !doc.OwnedBy(userID) {
		return nil, ErrNotFound
	}
	return doc, nil
}

func (s *shareService) IssueToken(ctx context.Context, documentID, userID string, expiresAt *time.Time) (*model.AccessToken, error) {
	doc, err := s.ownedDocument(ctx, documentID, userID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	exp := now.Add(model.DefaultTokenLifetime)
	if expiresAt != nil && expiresAt.After(now) {
		exp = expiresAt.UTC()
	}

	stored, err := s.tokens.Create(ctx, &model.AccessToken{
		ID:         uuid.New().String(),
		DocumentID: doc.ID,
		Token:      uuid.New().String(),
		CreatedAt:  now,
		ExpiresAt:  exp,
	})
	if err != nil {
		return nil, fmt.Errorf("store access token: %w", err)
	}

	s.log.Info("token_issued",
		zap.String("document_id", doc.ID),
		zap.String("token_id", stored.ID),
		zap.Time("expires_at", stored.ExpiresAt),
	)
	return stored, nil
}

func (s *shareService) IssueSignedToken(ctx context.Context, documentID, userID string, expiresAt *time.Time) (*SignedShare, error) {
	t, err := s.IssueToken(ctx, documentID, userID, expiresAt)
	if err != nil {
		return nil, err
	}
	signed, err := s.signer.IssueShare(t.DocumentID, t.Token, t.ExpiresAt)
	if err != nil {
		return nil, err
	}
	return &SignedShare{Token: t, Signed: signed}, nil
}

// wellFormedToken reports whether value can name a stored token; the column is a UUID.
func wellFormedToken(value string) bool {
	_, err := uuid.Parse(value)
	return err == nil
}

func (s *shareService) ValidateToken(ctx context.Context, value string) (bool, error) {
	if !wellFormedToken(value) {
		return false, nil
	}
	t, err := s.tokens.FindByToken(ctx, value)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return t.ValidAt(s.now()), nil
}

func (s *shareService) RevokeToken(ctx context.Context, value, userID string) (bool, error) {
	if !wellFormedToken(value) {
		return false, nil
	}
	t, err := s.tokens.FindByToken(ctx, value)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	if _, err := s.ownedDocument(ctx, t.DocumentID, userID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	if err := s.tokens.Revoke(ctx, value); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, nil
		}
		return false, err
	}

	s.log.Info("token_revoked", zap.String("document_id", t.DocumentID), zap.String("token_id", t.ID))
	return true, nil
}

func (s *shareService) ListTokens(ctx context.Context, documentID, userID string) ([]model.AccessToken, error) {
	doc, err := s.ownedDocument(ctx, documentID, userID)
	if err != nil {
		return nil, err
	}
	return s.tokens.ListByDocument(ctx, doc.ID)
}
