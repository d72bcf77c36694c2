package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"pdfshare/internal/model"
	"pdfshare/internal/repository"
	"pdfshare/internal/storage"
)

const pdfContentType = "application/pdf"

// DocumentListResult is the service-level DTO for paginated documents.
type DocumentListResult struct {
	Items []model.Document `json:"data"`
	Total int              `json:"total"`
}

// DocumentService covers the owner-facing document use cases.
// Every method taking ownerID answers ErrNotFound for documents the caller does not own.
type DocumentService interface {
	// Upload stores the PDF, saves its metadata and removes the stored object again if the save fails.
	Upload(ctx context.Context, ownerID string, r io.Reader, originalFilename, contentType string, size int64) (*model.Document, error)
	List(ctx context.Context, ownerID string, limit, offset int) (*DocumentListResult, error)
	Get(ctx context.Context, id, ownerID string) (*model.Document, error)
	// Open returns the document bytes. The caller closes the reader.
	Open(ctx context.Context, id, ownerID string) (io.ReadCloser, *model.Document, error)
	// Delete removes the record (with its tokens and comments) and then, best effort, the stored file.
	Delete(ctx context.Context, id, ownerID string) error
}

type documentService struct {
	store    storage.Storage
	repo     repository.DocumentRepository
	log      *zap.Logger
	maxBytes int64
	now      func() time.Time
}

// NewDocumentService constructs a DocumentService. maxBytes <= 0 disables the size check.
func NewDocumentService(store storage.Storage, repo repository.DocumentRepository, log *zap.Logger, maxBytes int64) DocumentService {
	return &documentService{
		store:    store,
		repo:     repo,
		log:      log.With(zap.String("component", "document_service")),
		maxBytes: maxBytes,
		now:      time.Now,
	}
}

func (s *documentService) Upload(ctx context.Context, ownerID string, r io.Reader, originalFilename, contentType string, size int64) (*model.Document, error) {
	if r == nil {
		return nil, ErrReaderNil
	}
	if ownerID == "" {
		return nil, ErrIDRequired
	}
	if mt, _, err := mime.ParseMediaType(contentType); err != nil || mt != pdfContentType {
		return nil, ErrUnsupportedType
	}
	if size == 0 {
		return nil, ErrEmptyFile
	}
	if s.maxBytes > 0 && size > s.maxBytes {
		return nil, ErrFileTooLarge
	}

	name := cleanFilename(originalFilename)
	id := uuid.New().String()
	key := "documents/" + id + ".pdf"

	objInfo, err := s.store.Put(ctx, key, r, storage.PutObjectOptions{
		Size:        size,
		ContentType: pdfContentType,
		Metadata:    map[string]string{"original-filename": name},
	})
	if err != nil {
		return nil, fmt.Errorf("upload to storage: %w", err)
	}

	doc := &model.Document{
		ID:          id,
		Filename:    name,
		StoragePath: objInfo.Key,
		Size:        objInfo.Size,
		ContentType: pdfContentType,
		OwnerID:     ownerID,
		UploadedAt:  s.now().UTC(),
	}
	stored, err := s.repo.Create(ctx, doc)
	if err != nil {
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			s.log.Error("upload_rollback_failed", zap.String("key", key), zap.Error(delErr))
			return nil, fmt.Errorf("db save failed: %v; rollback delete failed: %v", err, delErr)
		}
		return nil, fmt.Errorf("db save failed: %w", err)
	}

	s.log.Info("document_uploaded",
		zap.String("document_id", stored.ID),
		zap.String("owner_id", ownerID),
		zap.Int64("size", stored.Size),
	)
	return stored, nil
}

func cleanFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(strings.TrimSpace(name), `\`, "/"))
	if name == "." || name == "/" || name == "" {
		return "document.pdf"
	}
	return name
}

func (s *documentService) List(ctx context.Context, ownerID string, limit, offset int) (*DocumentListResult, error) {
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	res, err := s.repo.ListByOwner(ctx, ownerID, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return &DocumentListResult{Items: res.Items, Total: res.Total}, nil
}

func (s *documentService) Get(ctx context.Context, id, ownerID string) (*model.Document, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !doc.OwnedBy(ownerID) {
		return nil, ErrNotFound
	}
	return doc, nil
}

func (s *documentService) Open(ctx context.Context, id, ownerID string) (io.ReadCloser, *model.Document, error) {
	doc, err := s.Get(ctx, id, ownerID)
	if err != nil {
		return nil, nil, err
	}
	rc, err := openStored(ctx, s.store, s.log, doc)
	if err != nil {
		return nil, nil, err
	}
	return rc, doc, nil
}

// openStored reads a document's file, logging a missing object separately from other storage failures.
func openStored(ctx context.Context, store storage.Storage, log *zap.Logger, doc *model.Document) (io.ReadCloser, error) {
	rc, _, err := store.Get(ctx, doc.StoragePath)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			log.Warn("file_missing", zap.String("document_id", doc.ID), zap.String("key", doc.StoragePath))
		}
		return nil, fmt.Errorf("open %s: %w", doc.StoragePath, err)
	}
	return rc, nil
}

func (s *documentService) Delete(ctx context.Context, id, ownerID string) error {
	doc, err := s.Get(ctx, id, ownerID)
	if err != nil {
		return err
	}

	deleted, err := s.repo.Delete(ctx, doc.ID)
	if err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	if !deleted {
		return ErrNotFound
	}

	if err := s.store.Delete(ctx, doc.StoragePath); err != nil && !errors.Is(err, storage.ErrObjectNotFound) {
		s.log.Error("orphaned_file",
			zap.String("document_id", doc.ID),
			zap.String("key", doc.StoragePath),
			zap.Error(err),
		)
	}
	s.log.Info("document_deleted", zap.String("document_id", doc.ID), zap.String("owner_id", ownerID))
	return nil
}
