package model

import "time"

// User types recorded on comments.
const (
	UserTypeOwner   = "owner"
	UserTypeInvited = "invited"
)

// Comment is a note attached to a page of a document.
// Replies hold at most one level: a reply never has replies of its own.
type Comment struct {
	ID              string     `json:"id"`
	DocumentID      string     `json:"document_id"`
	Content         string     `json:"content"`
	PageNumber      int        `json:"page_number"`
	CommenterID     *string    `json:"commenter_id,omitempty"`
	CommenterName   *string    `json:"commenter_name,omitempty"`
	UserType        string     `json:"user_type"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       *time.Time `json:"updated_at,omitempty"`
	ParentCommentID *string    `json:"parent_comment_id,omitempty"`
	Replies         []Comment  `json:"replies,omitempty"`
}

// IsReply reports whether the comment answers another comment.
func (c *Comment) IsReply() bool {
	return c.ParentCommentID != nil
}

// AuthoredBy reports whether userID wrote the comment.
func (c *Comment) AuthoredBy(userID string) bool {
	return userID != "" && c.CommenterID != nil && *c.CommenterID == userID
}
