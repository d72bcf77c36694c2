package service

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"pdfshare/internal/model"
	"pdfshare/internal/repository"
	"pdfshare/internal/storage"
)

// Visitor identifies an anonymous caller for the access log.
type Visitor struct {
	IP        string
	UserAgent string
}

// PublicService serves documents and comments to anonymous visitors holding an access token.
// Unknown, expired and revoked tokens all answer ErrNotFound.
type PublicService interface {
	// ResolveDocument validates the token, records the access and returns the document.
	ResolveDocument(ctx context.Context, token string, v Visitor) (*model.Document, error)
	// ResolveSigned verifies a signed link and resolves the stored token inside it.
	ResolveSigned(ctx context.Context, signed string, v Visitor) (*model.Document, error)
	ListComments(ctx context.Context, token string) ([]model.Comment, error)
	// AddComment validates the input before looking at the token.
	AddComment(ctx context.Context, token string, in AddCommentInput) (*model.Comment, error)
	AddCommentSigned(ctx context.Context, signed string, in AddCommentInput) (*model.Comment, error)
	// OpenDocument resolves the token and returns the file. The caller closes the reader.
	OpenDocument(ctx context.Context, token string, v Visitor) (io.ReadCloser, *model.Document, error)
	OpenSigned(ctx context.Context, signed string, v Visitor) (io.ReadCloser, *model.Document, error)
}

type publicService struct {
	tokens   repository.AccessTokenRepository
	docs     repository.DocumentRepository
	logs     repository.AccessLogRepository
	store    storage.Storage
	comments CommentService
	signer   ShareSigner
	log      *zap.Logger
	now      func() time.Time
}

func NewPublicService(
	tokens repository.AccessTokenRepository,
	docs repository.DocumentRepository,
	logs repository.AccessLogRepository,
	store storage.Storage,
	comments CommentService,
	signer ShareSigner,
	log *zap.Logger,
) PublicService {
	return &publicService{
		tokens:   tokens,
		docs:     docs,
		logs:     logs,
		store:    store,
		comments: comments,
		signer:   signer,
		log:      log.With(zap.String("component", "public_service")),
		now:      time.Now,
	}
}

// lookup returns the document behind a currently valid token.
func (s *publicService) lookup(ctx context.Context, value string) (*model.Document, error) {
	if !wellFormedToken(value) {
		return nil, ErrNotFound
	}
	t, err := s.tokens.FindByToken(ctx, value)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !t.ValidAt(s.now()) {
		return nil, ErrNotFound
	}

	doc, err := s.docs.FindByID(ctx, t.DocumentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return doc, nil
}

// unwrap turns a signed link into the stored token value it carries.
func (s *publicService) unwrap(ctx context.Context, signed string) (string, *model.Document, error) {
	claims, err := s.signer.ParseShare(signed)
	if err != nil {
		s.log.Debug("share_jwt_rejected", zap.Error(err))
		return "", nil, ErrNotFound
	}
	doc, err := s.lookup(ctx, claims.TokenID)
	if err != nil {
		return "", nil, err
	}
	if doc.ID != claims.DocumentID {
		return "", nil, ErrNotFound
	}
	return claims.TokenID, doc, nil
}

func (s *publicService) recordAccess(ctx context.Context, doc *model.Document, v Visitor) {
	entry := &model.AccessLog{
		ID:         uuid.New().String(),
		DocumentID: doc.ID,
		AccessedAt: s.now().UTC(),
	}
	if v.IP != "" {
		entry.IPAddress = &v.IP
	}
	if v.UserAgent != "" {
		entry.UserAgent = &v.UserAgent
	}
	if err := s.logs.Create(ctx, entry); err != nil {
		s.log.Warn("access_log_failed", zap.String("document_id", doc.ID), zap.Error(err))
	}
}

func (s *publicService) ResolveDocument(ctx context.Context, token string, v Visitor) (*model.Document, error) {
	doc, err := s.lookup(ctx, token)
	if err != nil {
		return nil, err
	}
	s.recordAccess(ctx, doc, v)
	return doc, nil
}

func (s *publicService) ResolveSigned(ctx context.Context, signed string, v Visitor) (*model.Document, error) {
	_, doc, err := s.unwrap(ctx, signed)
	if err != nil {
		return nil, err
	}
	s.recordAccess(ctx, doc, v)
	return doc, nil
}

// ListComments returns every thread of the document; page filtering is left to the client.
func (s *publicService) ListComments(ctx context.Context, token string) ([]model.Comment, error) {
	doc, err := s.lookup(ctx, token)
	if err != nil {
		return nil, err
	}
	return s.comments.ListComments(ctx, doc.ID)
}

func (s *publicService) AddComment(ctx context.Context, token string, in AddCommentInput) (*model.Comment, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	doc, err := s.lookup(ctx, token)
	if err != nil {
		return nil, err
	}
	return s.addInvited(ctx, doc, in)
}

func (s *publicService) AddCommentSigned(ctx context.Context, signed string, in AddCommentInput) (*model.Comment, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	_, doc, err := s.unwrap(ctx, signed)
	if err != nil {
		return nil, err
	}
	return s.addInvited(ctx, doc, in)
}

func (s *publicService) addInvited(ctx context.Context, doc *model.Document, in AddCommentInput) (*model.Comment, error) {
	return s.comments.AddComment(ctx, NewComment{
		DocumentID:      doc.ID,
		Content:         in.Content,
		PageNumber:      in.PageNumber,
		UserType:        model.UserTypeInvited,
		ParentCommentID: in.ParentCommentID,
		CommenterName:   in.CommenterName,
	})
}

func (s *publicService) OpenDocument(ctx context.Context, token string, v Visitor) (io.ReadCloser, *model.Document, error) {
	doc, err := s.ResolveDocument(ctx, token, v)
	if err != nil {
		return nil, nil, err
	}
	rc, err := openStored(ctx, s.store, s.log, doc)
	if err != nil {
		return nil, nil, err
	}
	return rc, doc, nil
}

func (s *publicService) OpenSigned(ctx context.Context, signed string, v Visitor) (io.ReadCloser, *model.Document, error) {
	doc, err := s.ResolveSigned(ctx, signed, v)
	if err != nil {
		return nil, nil, err
	}
	rc, err := openStored(ctx, s.store, s.log, doc)
	if err != nil {
		return nil, nil, err
	}
	return rc, doc, nil
}
