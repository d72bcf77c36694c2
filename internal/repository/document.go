package repository

import (
	"context"

	"pdfshare/internal/model"
)

// DocumentRepository persists document metadata.
type DocumentRepository interface {
	// Create inserts a document and returns the stored row.
	Create(ctx context.Context, doc *model.Document) (*model.Document, error)

	// FindByID returns ErrNotFound when no document has the id.
	FindByID(ctx context.Context, id string) (*model.Document, error)

	// ListByOwner returns one page of the owner's documents, newest first, with the owner's total count.
	ListByOwner(ctx context.Context, ownerID string, pq PageQuery) (*PageResult[model.Document], error)

	// Delete removes the row and, through foreign keys, its tokens, access logs and comments.
	// It reports whether a row was removed.
	Delete(ctx context.Context, id string) (bool, error)
}
