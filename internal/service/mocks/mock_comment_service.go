package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"pdfshare/internal/model"
	"pdfshare/internal/service"
)

type MockCommentService struct {
	mock.Mock
}

var _ service.CommentService = (*MockCommentService)(nil)

func (m *MockCommentService) AddComment(ctx context.Context, in service.NewComment) (*model.Comment, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Comment), args.Error(1)
}

func (m *MockCommentService) ListComments(ctx context.Context, documentID string) ([]model.Comment, error) {
	args := m.Called(ctx, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Comment), args.Error(1)
}

func (m *MockCommentService) ListReplies(ctx context.Context, commentID string) ([]model.Comment, error) {
	args := m.Called(ctx, commentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Comment), args.Error(1)
}

func (m *MockCommentService) UpdateComment(ctx context.Context, commentID, content, userID string) (*model.Comment, error) {
	args := m.Called(ctx, commentID, content, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Comment), args.Error(1)
}

func (m *MockCommentService) DeleteCommentAndReplies(ctx context.Context, commentID, userID string) (bool, error) {
	args := m.Called(ctx, commentID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockCommentService) ListForOwner(ctx context.Context, documentID, userID string) ([]model.Comment, error) {
	args := m.Called(ctx, documentID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Comment), args.Error(1)
}

func (m *MockCommentService) AddAsOwner(ctx context.Context, documentID, userID string, in service.AddCommentInput) (*model.Comment, error) {
	args := m.Called(ctx, documentID, userID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Comment), args.Error(1)
}
