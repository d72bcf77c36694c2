package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"pdfshare/internal/model"
	"pdfshare/internal/service"
	serviceMocks "pdfshare/internal/service/mocks"
)

func TestAuthHandlers(t *testing.T) {
	mockSvc := new(serviceMocks.MockAuthService)
	app := newTestApp()
	app.Post("/register", Register(mockSvc))
	app.Post("/login", Login(mockSvc))

	post := func(path, body string) *http.Response {
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		require.NoError(t, err)
		return resp
	}

	result := &service.AuthResult{
		Token:     "jwt",
		ExpiresAt: time.Now().Add(time.Hour).UTC(),
		User:      &model.User{ID: testUserID, Email: "a@example.com", PasswordHash: "$2a$10$secret"},
	}

	t.Run("register", func(t *testing.T) {
		in := service.RegisterInput{Email: "a@example.com", Password: "long enough", FirstName: "Ada"}
		mockSvc.On("Register", mock.Anything, in).Return(result, nil).Once()

		resp := post("/register", `{"email":"a@example.com","password":"long enough","firstName":"Ada"}`)
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		var raw map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&raw))
		assert.Equal(t, "jwt", raw["token"])
		assert.NotContains(t, raw["user"], "password_hash")
	})

	t.Run("register duplicate", func(t *testing.T) {
		mockSvc.On("Register", mock.Anything, mock.Anything).Return(nil, service.ErrEmailTaken).Once()

		resp := post("/register", `{"email":"a@example.com","password":"long enough"}`)

		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		assert.Equal(t, "EMAIL_TAKEN", decodeError(t, resp).Error.Code)
	})

	t.Run("login", func(t *testing.T) {
		mockSvc.On("Login", mock.Anything, service.LoginInput{Email: "a@example.com", Password: "long enough"}).Return(result, nil).Once()

		resp := post("/login", `{"email":"a@example.com","password":"long enough"}`)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("login wrong password", func(t *testing.T) {
		mockSvc.On("Login", mock.Anything, mock.Anything).Return(nil, service.ErrInvalidCredentials).Once()

		resp := post("/login", `{"email":"a@example.com","password":"nope"}`)

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "INVALID_CREDENTIALS", decodeError(t, resp).Error.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		resp := post("/login", `not json`)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	mockSvc.AssertExpectations(t)
}
