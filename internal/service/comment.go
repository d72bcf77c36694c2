package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"pdfshare/internal/model"
	"pdfshare/internal/repository"
)

// NewComment is the input of CommentService.AddComment.
type NewComment struct {
	DocumentID      string
	Content         string
	PageNumber      int
	CommenterID     *string
	UserType        string
	ParentCommentID *string
	CommenterName   *string
}

// AddCommentInput is the request body shared by the owner and public comment endpoints.
type AddCommentInput struct {
	Content         string  `json:"content" validate:"required,max=5000"`
	PageNumber      int     `json:"pageNumber" validate:"gte=1"`
	ParentCommentID *string `json:"parentCommentId,omitempty" validate:"omitempty,uuid"`
	CommenterName   *string `json:"commenterName,omitempty" validate:"omitempty,max=100"`
}

// Validate trims the content and checks the field rules.
func (in *AddCommentInput) Validate() error {
	in.Content = strings.TrimSpace(in.Content)
	if in.CommenterName != nil {
		name := strings.TrimSpace(*in.CommenterName)
		in.CommenterName = &name
		if name == "" {
			in.CommenterName = nil
		}
	}
	return validateStruct(in)
}

// CommentService manages comment threads. A thread is one top-level comment and its direct replies.
type CommentService interface {
	AddComment(ctx context.Context, in NewComment) (*model.Comment, error)
	// ListComments returns threads, newest thread first, replies oldest first.
	ListComments(ctx context.Context, documentID string) ([]model.Comment, error)
	ListReplies(ctx context.Context, commentID string) ([]model.Comment, error)
	// UpdateComment is allowed for the author only.
	UpdateComment(ctx context.Context, commentID, content, userID string) (*model.Comment, error)
	// DeleteCommentAndReplies is allowed for the author and for the document owner.
	DeleteCommentAndReplies(ctx context.Context, commentID, userID string) (bool, error)

	ListForOwner(ctx context.Context, documentID, userID string) ([]model.Comment, error)
	AddAsOwner(ctx context.Context, documentID, userID string, in AddCommentInput) (*model.Comment, error)
}

type commentService struct {
	comments repository.CommentRepository
	docs     repository.DocumentRepository
	users    repository.UserRepository
	log      *zap.Logger
	now      func() time.Time
}

func NewCommentService(comments repository.CommentRepository, docs repository.DocumentRepository, users repository.UserRepository, log *zap.Logger) CommentService {
	return &commentService{
		comments: comments,
		docs:     docs,
		users:    users,
		log:      log.With(zap.String("component", "comment_service")),
		now:      time.Now,
	}
}

func (s *commentService) AddComment(ctx context.Context, in NewComment) (*model.Comment, error) {
	if _, err := s.docs.FindByID(ctx, in.DocumentID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrDocumentNotFound
		}
		return nil, err
	}

	if in.ParentCommentID != nil {
		parent, err := s.comments.FindByID(ctx, *in.ParentCommentID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrParentNotFound
			}
			return nil, err
		}
		if parent.DocumentID != in.DocumentID {
			return nil, ErrCrossDocumentReply
		}
		if parent.IsReply() {
			return nil, ErrNestedReplyNotAllowed
		}
	}

	c := &model.Comment{
		ID:              uuid.New().String(),
		DocumentID:      in.DocumentID,
		Content:         in.Content,
		PageNumber:      in.PageNumber,
		UserType:        in.UserType,
		CreatedAt:       s.now().UTC(),
		ParentCommentID: in.ParentCommentID,
		CommenterName:   in.CommenterName,
	}
	if in.CommenterID != nil {
		u, err := s.users.FindByID(ctx, *in.CommenterID)
		switch {
		case err == nil:
			name := u.DisplayName()
			c.CommenterID = &u.ID
			c.CommenterName = &name
		case errors.Is(err, repository.ErrNotFound):
			s.log.Warn("commenter_unknown", zap.String("commenter_id", *in.CommenterID))
		default:
			return nil, err
		}
	}

	stored, err := s.comments.Create(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("store comment: %w", err)
	}
	return stored, nil
}

func (s *commentService) ListComments(ctx context.Context, documentID string) ([]model.Comment, error) {
	all, err := s.comments.ListByDocument(ctx, documentID)
	if err != nil {
		return nil, err
	}
	return buildThreads(all), nil
}

// buildThreads nests replies under their parents. Replies whose parent is absent are dropped.
func buildThreads(all []model.Comment) []model.Comment {
	byParent := make(map[string][]model.Comment)
	threads := make([]model.Comment, 0)
	for _, c := range all {
		if c.IsReply() {
			byParent[*c.ParentCommentID] = append(byParent[*c.ParentCommentID], c)
			continue
		}
		threads = append(threads, c)
	}

	for i := range threads {
		replies := byParent[threads[i].ID]
		sort.SliceStable(replies, func(a, b int) bool { return replies[a].CreatedAt.Before(replies[b].CreatedAt) })
		threads[i].Replies = replies
	}
	sort.SliceStable(threads, func(a, b int) bool { return threads[a].CreatedAt.After(threads[b].CreatedAt) })
	return threads
}

func (s *commentService) ListReplies(ctx context.Context, commentID string) ([]model.Comment, error) {
	if _, err := s.comments.FindByID(ctx, commentID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s.comments.ListReplies(ctx, commentID)
}

func (s *commentService) UpdateComment(ctx context.Context, commentID, content, userID string) (*model.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fieldError("content", "is required")
	}

	c, err := s.comments.FindByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !c.AuthoredBy(userID) {
		return nil, ErrNotFound
	}

	updated, err := s.comments.UpdateContent(ctx, commentID, content, s.now().UTC())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return updated, nil
}

func (s *commentService) DeleteCommentAndReplies(ctx context.Context, commentID, userID string) (bool, error) {
	c, err := s.comments.FindByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, nil
		}
		return false, err
	}

	if !c.AuthoredBy(userID) {
		doc, err := s.docs.FindByID(ctx, c.DocumentID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return false, nil
			}
			return false, err
		}
		if !doc.OwnedBy(userID) {
			return false, nil
		}
	}

	removed, err := s.comments.DeleteWithReplies(ctx, commentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, nil
		}
		return false, err
	}

	s.log.Info("comment_deleted",
		zap.String("comment_id", commentID),
		zap.String("document_id", c.DocumentID),
		zap.Int64("rows", removed),
	)
	return true, nil
}

func (s *commentService) ownedDocument(ctx context.Context, documentID, userID string) error {
	doc, err := s.docs.FindByID(ctx, documentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	if !doc.OwnedBy(userID) {
		return ErrNotFound
	}
	return nil
}

func (s *commentService) ListForOwner(ctx context.Context, documentID, userID string) ([]model.Comment, error) {
	if err := s.ownedDocument(ctx, documentID, userID); err != nil {
		return nil, err
	}
	return s.ListComments(ctx, documentID)
}

func (s *commentService) AddAsOwner(ctx context.Context, documentID, userID string, in AddCommentInput) (*model.Comment, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if err := s.ownedDocument(ctx, documentID, userID); err != nil {
		return nil, err
	}
	return s.AddComment(ctx, NewComment{
		DocumentID:      documentID,
		Content:         in.Content,
		PageNumber:      in.PageNumber,
		CommenterID:     &userID,
		UserType:        model.UserTypeOwner,
		ParentCommentID: in.ParentCommentID,
		CommenterName:   in.CommenterName,
	})
}
