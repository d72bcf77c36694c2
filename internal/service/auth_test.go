package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	repoMocks "pdfshare/internal/repository/mocks"
	"pdfshare/internal/token"
)

func newAuthService(t *testing.T) (AuthService, *memRepo) {
	t.Helper()
	mem := newMemRepo()
	svc := NewAuthService(memUsers{mem}, token.NewManager(testJWT), zap.NewNop())
	svc.(*authService).cost = bcrypt.MinCost
	return svc, mem
}

func TestAuthService_RegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	svc, mem := newAuthService(t)

	res, err := svc.Register(ctx, RegisterInput{Email: " Ada@Example.com ", Password: "correct horse", FirstName: "Ada"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, "ada@example.com", res.User.Email)
	assert.True(t, res.ExpiresAt.After(time.Now()))

	stored := mem.users[res.User.ID]
	assert.NotEqual(t, "correct horse", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("correct horse")))

	claims, err := token.NewManager(testJWT).ParseUser(res.Token)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, claims.Subject)

	login, err := svc.Login(ctx, LoginInput{Email: "ADA@example.com", Password: "correct horse"})
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, login.User.ID)

	_, err = svc.Login(ctx, LoginInput{Email: "ada@example.com", Password: "wrong password"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, LoginInput{Email: "nobody@example.com", Password: "whatever"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Register(ctx, RegisterInput{Email: "ada@example.com", Password: "another one"})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestAuthService_Validation(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAuthService(t)

	_, err := svc.Register(ctx, RegisterInput{Email: "not-an-email", Password: "short"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "must be a valid email address", verr.Fields["email"])
	assert.Equal(t, "must be at least 8 characters", verr.Fields["password"])

	_, err = svc.Login(ctx, LoginInput{})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "is required", verr.Fields["email"])
	assert.Equal(t, "is required", verr.Fields["password"])
}

func TestAuthService_RepositoryError(t *testing.T) {
	ctx := context.Background()
	users := new(repoMocks.MockUserRepository)
	svc := NewAuthService(users, token.NewManager(testJWT), zap.NewNop())
	svc.(*authService).cost = bcrypt.MinCost

	users.On("Create", ctx, mock.Anything).Return(nil, errors.New("conn reset"))
	users.On("FindByEmail", ctx, "a@example.com").Return(nil, errors.New("conn reset"))

	_, err := svc.Register(ctx, RegisterInput{Email: "a@example.com", Password: "long enough"})
	assert.EqualError(t, err, "conn reset")

	_, err = svc.Login(ctx, LoginInput{Email: "a@example.com", Password: "x"})
	assert.EqualError(t, err, "conn reset")
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{Fields: map[string]string{"b": "is required", "a": "is invalid"}}
	assert.Equal(t, "validation failed: a: is invalid; b: is required", err.Error())
}
