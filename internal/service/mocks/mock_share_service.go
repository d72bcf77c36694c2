package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"pdfshare/internal/model"
	"pdfshare/internal/service"
)

type MockShareService struct {
	mock.Mock
}

var _ service.ShareService = (*MockShareService)(nil)

func (m *MockShareService) IssueToken(ctx context.Context, documentID, userID string, expiresAt *time.Time) (*model.AccessToken, error) {
	args := m.Called(ctx, documentID, userID, expiresAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AccessToken), args.Error(1)
}

func (m *MockShareService) IssueSignedToken(ctx context.Context, documentID, userID string, expiresAt *time.Time) (*service.SignedShare, error) {
	args := m.Called(ctx, documentID, userID, expiresAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SignedShare), args.Error(1)
}

func (m *MockShareService) ValidateToken(ctx context.Context, value string) (bool, error) {
	args := m.Called(ctx, value)
	return args.Bool(0), args.Error(1)
}

func (m *MockShareService) RevokeToken(ctx context.Context, value, userID string) (bool, error) {
	args := m.Called(ctx, value, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockShareService) ListTokens(ctx context.Context, documentID, userID string) ([]model.AccessToken, error) {
	args := m.Called(ctx, documentID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.AccessToken), args.Error(1)
}
