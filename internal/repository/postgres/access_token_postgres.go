package postgres

import (
	"context"
	"database/sql"

	"pdfshare/internal/model"
	"pdfshare/internal/repository"
)

const accessTokenColumns = `id, document_id, token, created_at, expires_at, revoked`

// AccessTokenPostgres stores share tokens in the access_tokens table.
type AccessTokenPostgres struct {
	db *sql.DB
}

func NewAccessTokenPostgres(db *sql.DB) *AccessTokenPostgres {
	return &AccessTokenPostgres{db: db}
}

var _ repository.AccessTokenRepository = (*AccessTokenPostgres)(nil)

func scanAccessToken(s scanner) (*model.AccessToken, error) {
	var t model.AccessToken
	if err := s.Scan(&t.ID, &t.DocumentID, &t.Token, &t.CreatedAt, &t.ExpiresAt, &t.Revoked); err != nil {
		return nil, err
	}
	t.CreatedAt = t.CreatedAt.UTC()
	t.ExpiresAt = t.ExpiresAt.UTC()
	return &t, nil
}

func (r *AccessTokenPostgres) Create(ctx context.Context, t *model.AccessToken) (*model.AccessToken, error) {
	const q = `
		INSERT INTO access_tokens (` + accessTokenColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + accessTokenColumns
	return scanAccessToken(r.db.QueryRowContext(ctx, q,
		t.ID, t.DocumentID, t.Token, t.CreatedAt, t.ExpiresAt, t.Revoked,
	))
}

func (r *AccessTokenPostgres) FindByToken(ctx context.Context, value string) (*model.AccessToken, error) {
	const q = `SELECT ` + accessTokenColumns + ` FROM access_tokens WHERE token = $1`
	t, err := scanAccessToken(r.db.QueryRowContext(ctx, q, value))
	if err != nil {
		return nil, wrapNoRows(err)
	}
	return t, nil
}

func (r *AccessTokenPostgres) ListByDocument(ctx context.Context, documentID string) ([]model.AccessToken, error) {
	const q = `
		SELECT ` + accessTokenColumns + `
		FROM access_tokens
		WHERE document_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, q, documentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.AccessToken, 0)
	for rows.Next() {
		t, err := scanAccessToken(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

func (r *AccessTokenPostgres) Revoke(ctx context.Context, value string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE access_tokens SET revoked = true WHERE token = $1`, value)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// AccessLogPostgres appends to access_logs.
type AccessLogPostgres struct {
	db *sql.DB
}

func NewAccessLogPostgres(db *sql.DB) *AccessLogPostgres {
	return &AccessLogPostgres{db: db}
}

var _ repository.AccessLogRepository = (*AccessLogPostgres)(nil)

func (r *AccessLogPostgres) Create(ctx context.Context, entry *model.AccessLog) error {
	const q = `
		INSERT INTO access_logs (id, document_id, accessed_at, ip_address, user_agent)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.ExecContext(ctx, q, entry.ID, entry.DocumentID, entry.AccessedAt, entry.IPAddress, entry.UserAgent)
	return err
}
