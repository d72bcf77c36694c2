package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"pdfshare/internal/model"
)

type MockAccessTokenRepository struct {
	mock.Mock
}

func (m *MockAccessTokenRepository) Create(ctx context.Context, t *model.AccessToken) (*model.AccessToken, error) {
	args := m.Called(ctx, t)
	if f, ok := args.Get(0).(func(context.Context, *model.AccessToken) *model.AccessToken); ok {
		return f(ctx, t), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AccessToken), args.Error(1)
}

func (m *MockAccessTokenRepository) FindByToken(ctx context.Context, value string) (*model.AccessToken, error) {
	args := m.Called(ctx, value)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AccessToken), args.Error(1)
}

func (m *MockAccessTokenRepository) ListByDocument(ctx context.Context, documentID string) ([]model.AccessToken, error) {
	args := m.Called(ctx, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.AccessToken), args.Error(1)
}

func (m *MockAccessTokenRepository) Revoke(ctx context.Context, value string) error {
	return m.Called(ctx, value).Error(0)
}

type MockAccessLogRepository struct {
	mock.Mock
}

func (m *MockAccessLogRepository) Create(ctx context.Context, entry *model.AccessLog) error {
	return m.Called(ctx, entry).Error(0)
}
