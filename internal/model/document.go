package model

import "time"

// Document represents an uploaded PDF.
// This is a pure domain model with no database-specific dependencies or tags.
// It can be used across layers (HTTP, service, storage) without coupling to persistence.
type Document struct {
	ID          string    `json:"id"`
	Filename    string    `json:"filename"`
	StoragePath string    `json:"-"`
	Size        int64     `json:"size"`
	ContentType string    `json:"content_type"`
	OwnerID     string    `json:"owner_id"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

// OwnedBy reports whether userID uploaded the document.
func (d *Document) OwnedBy(userID string) bool {
	return d != nil && userID != "" && d.OwnerID == userID
}
