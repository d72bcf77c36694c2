package repository

import (
	"context"

	"pdfshare/internal/model"
)

// AccessTokenRepository persists share tokens. Rows are never deleted directly.
type AccessTokenRepository interface {
	Create(ctx context.Context, t *model.AccessToken) (*model.AccessToken, error)

	// FindByToken looks a token up by its public value. Returns ErrNotFound when unknown.
	FindByToken(ctx context.Context, value string) (*model.AccessToken, error)

	// ListByDocument returns every token of a document, newest first.
	ListByDocument(ctx context.Context, documentID string) ([]model.AccessToken, error)

	// Revoke marks the token revoked. Returns ErrNotFound when unknown.
	Revoke(ctx context.Context, value string) error
}

// AccessLogRepository appends rows to the access log.
type AccessLogRepository interface {
	Create(ctx context.Context, entry *model.AccessLog) error
}
