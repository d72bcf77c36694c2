package model

import "time"

// AccessLog records one successful token resolution. Rows are append-only.
type AccessLog struct {
	ID         string    `json:"id"`
	DocumentID string    `json:"document_id"`
	AccessedAt time.Time `json:"accessed_at"`
	IPAddress  *string   `json:"ip_address,omitempty"`
	UserAgent  *string   `json:"user_agent,omitempty"`
}
