package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pdfshare/internal/model"
	"pdfshare/internal/repository"
)

var documentRowColumns = []string{"id", "filename", "storage_path", "size", "content_type", "owner_id", "uploaded_at"}

func TestDocumentPostgres_Create(t *testing.T) {
	db, mock := newMock(t)
	repo := NewDocumentPostgres(db)

	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	doc := &model.Document{
		ID:          "doc-1",
		Filename:    "report.pdf",
		StoragePath: "documents/doc-1_report.pdf",
		Size:        10240,
		ContentType: "application/pdf",
		OwnerID:     "user-1",
		UploadedAt:  now,
	}

	mock.ExpectQuery("INSERT INTO documents").
		WithArgs(doc.ID, doc.Filename, doc.StoragePath, doc.Size, doc.ContentType, doc.OwnerID, doc.UploadedAt).
		WillReturnRows(sqlmock.NewRows(documentRowColumns).
			AddRow(doc.ID, doc.Filename, doc.StoragePath, doc.Size, doc.ContentType, doc.OwnerID, doc.UploadedAt))

	got, err := repo.Create(context.Background(), doc)
	require.NoError(t, err)
	assert.Equal(t, doc, got)
}

func TestDocumentPostgres_FindByID(t *testing.T) {
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		db, mock := newMock(t)
		repo := NewDocumentPostgres(db)

		mock.ExpectQuery("SELECT (.+) FROM documents WHERE id").
			WithArgs("doc-1").
			WillReturnRows(sqlmock.NewRows(documentRowColumns).
				AddRow("doc-1", "a.pdf", "documents/a.pdf", 100, "application/pdf", "user-1", time.Now()))

		doc, err := repo.FindByID(ctx, "doc-1")
		require.NoError(t, err)
		assert.Equal(t, "user-1", doc.OwnerID)
		assert.Equal(t, time.UTC, doc.UploadedAt.Location())
	})

	t.Run("not found", func(t *testing.T) {
		db, mock := newMock(t)
		repo := NewDocumentPostgres(db)

		mock.ExpectQuery("SELECT (.+) FROM documents WHERE id").
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		doc, err := repo.FindByID(ctx, "missing")
		assert.Nil(t, doc)
		assert.ErrorIs(t, err, repository.ErrNotFound)
		assert.ErrorIs(t, err, sql.ErrNoRows)
	})
}

func TestDocumentPostgres_ListByOwner(t *testing.T) {
	db, mock := newMock(t)
	repo := NewDocumentPostgres(db)

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM documents WHERE owner_id").
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectQuery("SELECT (.+) FROM documents WHERE owner_id (.+) ORDER BY uploaded_at DESC").
		WithArgs("user-1", 2, 0).
		WillReturnRows(sqlmock.NewRows(documentRowColumns).
			AddRow("doc-3", "c.pdf", "documents/c.pdf", 1, "application/pdf", "user-1", time.Now()).
			AddRow("doc-2", "b.pdf", "documents/b.pdf", 1, "application/pdf", "user-1", time.Now()))

	res, err := repo.ListByOwner(context.Background(), "user-1", repository.PageQuery{Limit: 2, Offset: 0})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Total)
	require.Len(t, res.Items, 2)
	assert.Equal(t, "doc-3", res.Items[0].ID)
}

func TestDocumentPostgres_Delete(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		result  sql.Result
		err     error
		want    bool
		wantErr bool
	}{
		{name: "deleted", result: sqlmock.NewResult(0, 1), want: true},
		{name: "missing row", result: sqlmock.NewResult(0, 0), want: false},
		{name: "db error", err: errors.New("conn reset"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMock(t)
			repo := NewDocumentPostgres(db)

			exp := mock.ExpectExec("DELETE FROM documents WHERE id").WithArgs("doc-1")
			if tt.err != nil {
				exp.WillReturnError(tt.err)
			} else {
				exp.WillReturnResult(tt.result)
			}

			got, err := repo.Delete(ctx, "doc-1")
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
