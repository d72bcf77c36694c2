package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"pdfshare/internal/model"
	"pdfshare/internal/service"
)

type MockPublicService struct {
	mock.Mock
}

var _ service.PublicService = (*MockPublicService)(nil)

func (m *MockPublicService) ResolveDocument(ctx context.Context, token string, v service.Visitor) (*model.Document, error) {
	args := m.Called(ctx, token, v)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockPublicService) ResolveSigned(ctx context.Context, signed string, v service.Visitor) (*model.Document, error) {
	args := m.Called(ctx, signed, v)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockPublicService) ListComments(ctx context.Context, token string) ([]model.Comment, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Comment), args.Error(1)
}

func (m *MockPublicService) AddComment(ctx context.Context, token string, in service.AddCommentInput) (*model.Comment, error) {
	args := m.Called(ctx, token, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Comment), args.Error(1)
}

func (m *MockPublicService) AddCommentSigned(ctx context.Context, signed string, in service.AddCommentInput) (*model.Comment, error) {
	args := m.Called(ctx, signed, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Comment), args.Error(1)
}

func (m *MockPublicService) OpenDocument(ctx context.Context, token string, v service.Visitor) (io.ReadCloser, *model.Document, error) {
	args := m.Called(ctx, token, v)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(io.ReadCloser), args.Get(1).(*model.Document), args.Error(2)
}

func (m *MockPublicService) OpenSigned(ctx context.Context, signed string, v service.Visitor) (io.ReadCloser, *model.Document, error) {
	args := m.Called(ctx, signed, v)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(io.ReadCloser), args.Get(1).(*model.Document), args.Error(2)
}
