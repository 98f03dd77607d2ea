package handlers_test

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"gochat/pkg/avatar"
	"gochat/pkg/claims"
	"gochat/pkg/handlers"
	"gochat/pkg/token"
	"gochat/pkg/user"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) Signup(fullName, email, password, bio string) (*user.User, error) {
	args := m.Called(fullName, email, password, bio)
	if u := args.Get(0); u != nil {
		return u.(*user.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockService) Login(email, password string) (*user.User, error) {
	args := m.Called(email, password)
	if u := args.Get(0); u != nil {
		return u.(*user.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockService) UpdateProfile(userID, fullName, bio, profilePic string) (*user.User, error) {
	args := m.Called(userID, fullName, bio, profilePic)
	if u := args.Get(0); u != nil {
		return u.(*user.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{}))
}

func tokenCookie(resp *http.Response) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == "token" {
			return c
		}
	}
	return nil
}

func TestSignupHandler(t *testing.T) {
	m := new(mockService)

	m.On("Signup", "Ann", "a@x.com", "pw123456", "hi").
		Return(&user.User{ID: "uid", Email: "a@x.com", FullName: "Ann"}, nil)
	m.On("Signup", "Ann", "taken@x.com", "pw123456", "hi").
		Return(nil, user.ErrAlreadyExists)
	m.On("Signup", "", "a@x.com", "pw123456", "").
		Return(nil, user.ErrMissingFields)

	handler := handlers.NewAuthHandler(m, token.NewCodec("testsecret"), testLogger())

	tests := []struct {
		name           string
		body           string
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "successful signup",
			body:           `{"fullName":"Ann","email":"a@x.com","password":"pw123456","bio":"hi"}`,
			expectedStatus: http.StatusCreated,
			expectedBody:   `"success":true`,
		},
		{
			name:           "already exists",
			body:           `{"fullName":"Ann","email":"taken@x.com","password":"pw123456","bio":"hi"}`,
			expectedStatus: http.StatusConflict,
			expectedBody:   "user already exists",
		},
		{
			name:           "missing details",
			body:           `{"email":"a@x.com","password":"pw123456"}`,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "missing details",
		},
		{
			name:           "bad json",
			body:           `{"fullName" oops}`,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "bad json",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/auth/signup", strings.NewReader(test.body))
			req.Header.Set("Content-Type", "application/json")

			rr := httptest.NewRecorder()
			handler.Signup(rr, req)

			assert.Equal(t, test.expectedStatus, rr.Code)
			assert.Contains(t, rr.Body.String(), test.expectedBody)

			if test.expectedStatus == http.StatusCreated {
				assert.Contains(t, rr.Body.String(), `"token"`)
				cookie := tokenCookie(rr.Result())
				assert.NotNil(t, cookie)
				assert.True(t, cookie.HttpOnly)
				assert.Equal(t, http.SameSiteNoneMode, cookie.SameSite)
			}
		})
	}

	m.AssertExpectations(t)
}

func TestLoginHandler(t *testing.T) {
	m := new(mockService)

	m.On("Login", "a@x.com", "correct").
		Return(&user.User{ID: "uid", Email: "a@x.com"}, nil)
	m.On("Login", "a@x.com", "wrong").
		Return(nil, user.ErrInvalidCredentials)
	m.On("Login", "boom@x.com", "correct").
		Return(nil, fmt.Errorf("store down"))

	handler := handlers.NewAuthHandler(m, token.NewCodec("testsecret"), testLogger())

	tests := []struct {
		name           string
		body           string
		contentType    string
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "successful login",
			body:           `{"email":"a@x.com","password":"correct"}`,
			contentType:    "application/json",
			expectedStatus: http.StatusOK,
			expectedBody:   `"success":true`,
		},
		{
			name:           "invalid credentials",
			body:           `{"email":"a@x.com","password":"wrong"}`,
			contentType:    "application/json",
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   "invalid credentials",
		},
		{
			name:           "upstream failure",
			body:           `{"email":"boom@x.com","password":"correct"}`,
			contentType:    "application/json",
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   "login failed",
		},
		{
			name:           "bad content type",
			body:           `{"email":"a@x.com","password":"correct"}`,
			contentType:    "plain/text",
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "invalid Content-Type",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(test.body))
			req.Header.Set("Content-Type", test.contentType)

			rr := httptest.NewRecorder()
			handler.Login(rr, req)

			assert.Equal(t, test.expectedStatus, rr.Code)
			assert.Contains(t, rr.Body.String(), test.expectedBody)

			if test.expectedStatus == http.StatusOK {
				assert.NotNil(t, tokenCookie(rr.Result()))
			}
		})
	}
}

func TestLogoutIdempotent(t *testing.T) {
	handler := handlers.NewAuthHandler(new(mockService), token.NewCodec("testsecret"), testLogger())

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
		rr := httptest.NewRecorder()

		handler.Logout(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `"success":true`)

		cookie := tokenCookie(rr.Result())
		assert.NotNil(t, cookie)
		assert.Empty(t, cookie.Value)
		assert.Negative(t, cookie.MaxAge)
	}
}

func withUser(req *http.Request, u *user.User) *http.Request {
	ctx := context.WithValue(req.Context(), claims.UserContextKey, u)
	return req.WithContext(ctx)
}

func TestCheckHandler(t *testing.T) {
	handler := handlers.NewAuthHandler(new(mockService), token.NewCodec("testsecret"), testLogger())

	t.Run("authenticated", func(t *testing.T) {
		req := withUser(
			httptest.NewRequest(http.MethodGet, "/api/auth/check", nil),
			&user.User{ID: "uid", Email: "a@x.com"},
		)
		rr := httptest.NewRecorder()

		handler.Check(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "a@x.com")
	})

	t.Run("no identity in context", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/auth/check", nil)
		rr := httptest.NewRecorder()

		handler.Check(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestUpdateProfileHandler(t *testing.T) {
	m := new(mockService)

	m.On("UpdateProfile", "uid", "Ann B", "new bio", "").
		Return(&user.User{ID: "uid", FullName: "Ann B", Bio: "new bio"}, nil)
	m.On("UpdateProfile", "uid", "", "", "data:bogus").
		Return(nil, fmt.Errorf("avatar upload error: %w", avatar.ErrBadData))

	handler := handlers.NewAuthHandler(m, token.NewCodec("testsecret"), testLogger())

	t.Run("patch fields", func(t *testing.T) {
		req := withUser(
			httptest.NewRequest(http.MethodPut, "/api/auth/update-profile",
				strings.NewReader(`{"fullName":"Ann B","bio":"new bio"}`)),
			&user.User{ID: "uid"},
		)
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()

		handler.UpdateProfile(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "Ann B")
	})

	t.Run("upload failure", func(t *testing.T) {
		req := withUser(
			httptest.NewRequest(http.MethodPut, "/api/auth/update-profile",
				strings.NewReader(`{"profilePic":"data:bogus"}`)),
			&user.User{ID: "uid"},
		)
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()

		handler.UpdateProfile(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), "invalid image data")
	})
}
