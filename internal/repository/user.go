package repository

import (
	"context"

	"pdfshare/internal/model"
)

// UserRepository persists accounts.
type UserRepository interface {
	Create(ctx context.Context, u *model.User) (*model.User, error)
	FindByID(ctx context.Context, id string) (*model.User, error)
	// FindByEmail matches the lower-cased address. Returns ErrNotFound when unknown.
	FindByEmail(ctx context.Context, email string) (*model.User, error)
}
