package postgres

import (
	"context"
	"database/sql"
	"time"

	"pdfshare/internal/model"
	"pdfshare/internal/repository"
)

const commentColumns = `id, document_id, content, page_number, commenter_id, commenter_name,
	user_type, created_at, updated_at, parent_comment_id`

// CommentPostgres stores comments and replies in the comments table.
type CommentPostgres struct {
	db *sql.DB
}

func NewCommentPostgres(db *sql.DB) *CommentPostgres {
	return &CommentPostgres{db: db}
}

var _ repository.CommentRepository = (*CommentPostgres)(nil)

func scanComment(s scanner) (*model.Comment, error) {
	var c model.Comment
	if err := s.Scan(
		&c.ID,
		&c.DocumentID,
		&c.Content,
		&c.PageNumber,
		&c.CommenterID,
		&c.CommenterName,
		&c.UserType,
		&c.CreatedAt,
		&c.UpdatedAt,
		&c.ParentCommentID,
	); err != nil {
		return nil, err
	}
	c.CreatedAt = c.CreatedAt.UTC()
	if c.UpdatedAt != nil {
		u := c.UpdatedAt.UTC()
		c.UpdatedAt = &u
	}
	return &c, nil
}

func (r *CommentPostgres) Create(ctx context.Context, c *model.Comment) (*model.Comment, error) {
	const q = `
		INSERT INTO comments (` + commentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + commentColumns
	var out *model.Comment
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		var err error
		out, err = scanComment(tx.QueryRowContext(ctx, q,
			c.ID,
			c.DocumentID,
			c.Content,
			c.PageNumber,
			c.CommenterID,
			c.CommenterName,
			c.UserType,
			c.CreatedAt,
			c.UpdatedAt,
			c.ParentCommentID,
		))
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *CommentPostgres) FindByID(ctx context.Context, id string) (*model.Comment, error) {
	const q = `SELECT ` + commentColumns + ` FROM comments WHERE id = $1`
	c, err := scanComment(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		return nil, wrapNoRows(err)
	}
	return c, nil
}

func (r *CommentPostgres) ListByDocument(ctx context.Context, documentID string) ([]model.Comment, error) {
	const q = `SELECT ` + commentColumns + ` FROM comments WHERE document_id = $1 ORDER BY created_at ASC, id ASC`
	return r.list(ctx, q, documentID)
}

func (r *CommentPostgres) ListReplies(ctx context.Context, parentID string) ([]model.Comment, error) {
	const q = `SELECT ` + commentColumns + ` FROM comments WHERE parent_comment_id = $1 ORDER BY created_at ASC, id ASC`
	return r.list(ctx, q, parentID)
}

func (r *CommentPostgres) list(ctx context.Context, q string, arg string) ([]model.Comment, error) {
	rows, err := r.db.QueryContext(ctx, q, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Comment, 0)
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

func (r *CommentPostgres) UpdateContent(ctx context.Context, id, content string, updatedAt time.Time) (*model.Comment, error) {
	const q = `
		UPDATE comments SET content = $2, updated_at = $3
		WHERE id = $1
		RETURNING ` + commentColumns
	c, err := scanComment(r.db.QueryRowContext(ctx, q, id, content, updatedAt))
	if err != nil {
		return nil, wrapNoRows(err)
	}
	return c, nil
}

// DeleteWithReplies removes direct replies first and then the comment; both statements commit together.
func (r *CommentPostgres) DeleteWithReplies(ctx context.Context, id string) (int64, error) {
	var removed int64
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM comments WHERE parent_comment_id = $1`, id)
		if err != nil {
			return err
		}
		replies, err := res.RowsAffected()
		if err != nil {
			return err
		}

		res, err = tx.ExecContext(ctx, `DELETE FROM comments WHERE id = $1`, id)
		if err != nil {
			return err
		}
		parent, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if parent == 0 {
			return repository.ErrNotFound
		}
		removed = replies + parent
		return nil
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}
