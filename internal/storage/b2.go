package storage

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/kurin/blazer/b2"

	"pdfshare/internal/config"
)

// b2Storage keeps documents in a Backblaze B2 bucket.
type b2Storage struct {
	bucket *b2.Bucket
}

// NewB2 authorizes the account and opens the configured bucket.
func NewB2(ctx context.Context, cfg config.B2Config) (Storage, error) {
	if cfg.KeyID == "" || cfg.AppKey == "" {
		return nil, errors.New("b2 credentials are required")
	}
	if cfg.Bucket == "" {
		return nil, errors.New("b2 bucket is required")
	}

	client, err := b2.NewClient(ctx, cfg.KeyID, cfg.AppKey, b2.Transport(tracedTransport(http.DefaultTransport)))
	if err != nil {
		return nil, fmt.Errorf("create b2 client: %w", err)
	}
	bucket, err := client.Bucket(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("open bucket %s: %w", cfg.Bucket, err)
	}
	return &b2Storage{bucket: bucket}, nil
}

// Put streams r to B2 while hashing it; the SHA1 doubles as the ETag.
func (s *b2Storage) Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error) {
	w := s.bucket.Object(key).NewWriter(ctx, b2.WithAttrsOption(&b2.Attrs{
		ContentType: opt.ContentType,
		Info:        opt.Metadata,
	}))

	hasher := sha1.New()
	n, err := io.Copy(io.MultiWriter(w, hasher), r)
	if err != nil {
		_ = w.Close()
		return ObjectInfo{}, fmt.Errorf("write b2 object: %w", err)
	}
	if err := w.Close(); err != nil {
		return ObjectInfo{}, fmt.Errorf("close b2 writer: %w", err)
	}

	return ObjectInfo{
		Key:         key,
		Size:        n,
		ETag:        hex.EncodeToString(hasher.Sum(nil)),
		ContentType: opt.ContentType,
		Metadata:    opt.Metadata,
	}, nil
}

func (s *b2Storage) Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error) {
	obj := s.bucket.Object(key)
	attrs, err := obj.Attrs(ctx)
	if err != nil {
		return nil, ObjectInfo{}, mapB2Error(key, err)
	}
	return obj.NewReader(ctx), ObjectInfo{
		Key:          key,
		Size:         attrs.Size,
		ETag:         attrs.SHA1,
		ContentType:  attrs.ContentType,
		LastModified: attrs.UploadTimestamp.UTC(),
		Metadata:     attrs.Info,
	}, nil
}

func (s *b2Storage) Delete(ctx context.Context, key string) error {
	if err := s.bucket.Object(key).Delete(ctx); err != nil {
		return mapB2Error(key, err)
	}
	return nil
}

func mapB2Error(key string, err error) error {
	if b2.IsNotExist(err) {
		return fmt.Errorf("%w: %s", ErrObjectNotFound, key)
	}
	return err
}
