package repository

import (
	"context"
	"time"

	"pdfshare/internal/model"
)

// CommentRepository persists comments. Thread assembly is left to callers.
type CommentRepository interface {
	// Create inserts a comment inside its own transaction.
	Create(ctx context.Context, c *model.Comment) (*model.Comment, error)

	// FindByID returns ErrNotFound when no comment has the id.
	FindByID(ctx context.Context, id string) (*model.Comment, error)

	// ListByDocument returns every comment of a document, top-level and replies, oldest first.
	ListByDocument(ctx context.Context, documentID string) ([]model.Comment, error)

	// ListReplies returns the direct replies to a comment, oldest first.
	ListReplies(ctx context.Context, parentID string) ([]model.Comment, error)

	// UpdateContent sets content and updated_at. Returns ErrNotFound when no comment has the id.
	UpdateContent(ctx context.Context, id, content string, updatedAt time.Time) (*model.Comment, error)

	// DeleteWithReplies removes the direct replies and then the comment in one transaction.
	// It returns the number of rows removed.
	DeleteWithReplies(ctx context.Context, id string) (int64, error)
}
