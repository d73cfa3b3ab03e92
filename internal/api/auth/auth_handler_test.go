package auth

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/chakulahub/chakula-api/internal/api"
)

// MockAuthService is a mock implementation of the AuthService interface.
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, params RegisterParams) (*User, string, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(*User), args.String(1), args.Error(2)
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (*User, string, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(*User), args.String(1), args.Error(2)
}

func (m *MockAuthService) GetProfile(ctx context.Context, userID int64) (*User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockAuthService) UpdateProfile(ctx context.Context, userID int64, params UpdateProfileParams) (*User, error) {
	args := m.Called(ctx, userID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockAuthService) ChangePassword(ctx context.Context, userID int64, currentPassword, newPassword string) error {
	args := m.Called(ctx, userID, currentPassword, newPassword)
	return args.Error(0)
}

func newJSONRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// asIdentity attaches an authenticated identity the way the auth gate does.
func asIdentity(req *http.Request, identity *AuthenticatedIdentity) *http.Request {
	return req.WithContext(ContextWithIdentity(req.Context(), identity))
}

func TestAuthHandler_Register(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockService := new(MockAuthService)
		handler := NewAuthHandler(mockService, slog.Default())

		user := &User{ID: 1, Email: "asha@example.com", FirstName: "Asha", LastName: "Mwangi", Language: "en"}
		mockService.On("Register", mock.Anything, mock.MatchedBy(func(p RegisterParams) bool {
			// Email reaches the service already normalized.
			return p.Email == "asha@example.com" && p.Language == "en"
		})).Return(user, "signed-token", nil).Once()

		body := `{"email":"Asha@Example.com","password":"secret1","first_name":"Asha","last_name":"Mwangi"}`
		rec := httptest.NewRecorder()
		handler.Register(rec, newJSONRequest(http.MethodPost, "/auth/register", body))

		assert.Equal(t, http.StatusCreated, rec.Code)
		env := decodeEnvelope(t, rec)
		assert.True(t, env.Success)
		assert.Equal(t, "User registered successfully", env.Message)
		assert.Equal(t, "Mtumiaji amesajiliwa kwa mafanikio", env.MessageSW)

		data, ok := env.Data.(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, "signed-token", data["token"])
		userData, ok := data["user"].(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, "asha@example.com", userData["email"])
		assert.NotContains(t, userData, "password_hash")
		mockService.AssertExpectations(t)
	})

	t.Run("ValidationErrors", func(t *testing.T) {
		mockService := new(MockAuthService)
		handler := NewAuthHandler(mockService, slog.Default())

		body := `{"email":"not-an-email","password":"short","first_name":"","last_name":"","language":"fr"}`
		rec := httptest.NewRecorder()
		handler.Register(rec, newJSONRequest(http.MethodPost, "/auth/register", body))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		env := decodeEnvelope(t, rec)
		assert.False(t, env.Success)
		assert.Equal(t, "Validation failed", env.Message)
		assert.Equal(t, "Uthibitisho umeshindwa", env.MessageSW)
		assert.Contains(t, env.Errors, "Please provide a valid email")
		assert.Contains(t, env.Errors, "Password must be at least 6 characters long")
		assert.Contains(t, env.Errors, "First name is required")
		assert.Contains(t, env.Errors, "Last name is required")
		assert.Contains(t, env.Errors, "Language must be either en or sw")
		mockService.AssertNotCalled(t, "Register", mock.Anything, mock.Anything)
	})

	t.Run("DuplicateEmail", func(t *testing.T) {
		mockService := new(MockAuthService)
		handler := NewAuthHandler(mockService, slog.Default())

		mockService.On("Register", mock.Anything, mock.Anything).Return(nil, "", api.ErrConflict).Once()

		body := `{"email":"asha@example.com","password":"secret1","first_name":"Asha","last_name":"Mwangi"}`
		rec := httptest.NewRecorder()
		handler.Register(rec, newJSONRequest(http.MethodPost, "/auth/register", body))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		env := decodeEnvelope(t, rec)
		assert.Equal(t, "User with this email already exists", env.Message)
		assert.Equal(t, "Mtumiaji wa barua pepe hii tayari yupo", env.MessageSW)
		mockService.AssertExpectations(t)
	})

	t.Run("MalformedBody", func(t *testing.T) {
		mockService := new(MockAuthService)
		handler := NewAuthHandler(mockService, slog.Default())

		rec := httptest.NewRecorder()
		handler.Register(rec, newJSONRequest(http.MethodPost, "/auth/register", `{"email":`))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		env := decodeEnvelope(t, rec)
		assert.False(t, env.Success)
		assert.NotEmpty(t, env.Errors)
	})
}

func TestAuthHandler_Login(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockService := new(MockAuthService)
		handler := NewAuthHandler(mockService, slog.Default())

		user := &User{ID: 1, Email: "asha@example.com", FirstName: "Asha", LastName: "Mwangi", Language: "en"}
		mockService.On("Login", mock.Anything, "asha@example.com", "secret1").Return(user, "signed-token", nil).Once()

		body := `{"email":"ASHA@example.com","password":"secret1"}`
		rec := httptest.NewRecorder()
		handler.Login(rec, newJSONRequest(http.MethodPost, "/auth/login", body))

		assert.Equal(t, http.StatusOK, rec.Code)
		env := decodeEnvelope(t, rec)
		assert.Equal(t, "Login successful", env.Message)
		assert.Equal(t, "Kuingia kumefanikiwa", env.MessageSW)
		mockService.AssertExpectations(t)
	})

	t.Run("InvalidCredentials", func(t *testing.T) {
		mockService := new(MockAuthService)
		handler := NewAuthHandler(mockService, slog.Default())

		mockService.On("Login", mock.Anything, "asha@example.com", "wrong").Return(nil, "", api.ErrUnauthenticated).Once()

		body := `{"email":"asha@example.com","password":"wrong"}`
		rec := httptest.NewRecorder()
		handler.Login(rec, newJSONRequest(http.MethodPost, "/auth/login", body))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		env := decodeEnvelope(t, rec)
		assert.Equal(t, "Invalid email or password", env.Message)
		assert.Equal(t, "Barua pepe au nenosiri si sahihi", env.MessageSW)
	})

	t.Run("MissingPassword", func(t *testing.T) {
		mockService := new(MockAuthService)
		handler := NewAuthHandler(mockService, slog.Default())

		body := `{"email":"asha@example.com"}`
		rec := httptest.NewRecorder()
		handler.Login(rec, newJSONRequest(http.MethodPost, "/auth/login", body))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		env := decodeEnvelope(t, rec)
		assert.Contains(t, env.Errors, "Password is required")
		mockService.AssertNotCalled(t, "Login", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestAuthHandler_GetProfile(t *testing.T) {
	identity := &AuthenticatedIdentity{ID: 7, Email: "asha@example.com"}

	t.Run("Success", func(t *testing.T) {
		mockService := new(MockAuthService)
		handler := NewAuthHandler(mockService, slog.Default())

		phone := "+255700000001"
		user := &User{ID: 7, Email: "asha@example.com", FirstName: "Asha", LastName: "Mwangi", Phone: &phone, Language: "sw"}
		mockService.On("GetProfile", mock.Anything, int64(7)).Return(user, nil).Once()

		req := asIdentity(httptest.NewRequest(http.MethodGet, "/auth/profile", nil), identity)
		rec := httptest.NewRecorder()
		handler.GetProfile(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		env := decodeEnvelope(t, rec)
		assert.True(t, env.Success)
		// Profile reads carry data only, no message pair.
		assert.Empty(t, env.Message)

		data := env.Data.(map[string]interface{})
		userData := data["user"].(map[string]interface{})
		assert.Equal(t, "+255700000001", userData["phone"])
		mockService.AssertExpectations(t)
	})

	t.Run("UserVanished", func(t *testing.T) {
		mockService := new(MockAuthService)
		handler := NewAuthHandler(mockService, slog.Default())

		mockService.On("GetProfile", mock.Anything, int64(7)).Return(nil, api.ErrNotFound).Once()

		req := asIdentity(httptest.NewRequest(http.MethodGet, "/auth/profile", nil), identity)
		rec := httptest.NewRecorder()
		handler.GetProfile(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		env := decodeEnvelope(t, rec)
		assert.Equal(t, "User not found", env.Message)
		assert.Equal(t, "Mtumiaji hakupatikana", env.MessageSW)
	})

	t.Run("NoIdentity", func(t *testing.T) {
		mockService := new(MockAuthService)
		handler := NewAuthHandler(mockService, slog.Default())

		rec := httptest.NewRecorder()
		handler.GetProfile(rec, httptest.NewRequest(http.MethodGet, "/auth/profile", nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		mockService.AssertNotCalled(t, "GetProfile", mock.Anything, mock.Anything)
	})
}

func TestAuthHandler_UpdateProfile(t *testing.T) {
	identity := &AuthenticatedIdentity{ID: 7, Email: "asha@example.com"}

	t.Run("Success", func(t *testing.T) {
		mockService := new(MockAuthService)
		handler := NewAuthHandler(mockService, slog.Default())

		user := &User{ID: 7, Email: "asha@example.com", FirstName: "Aisha", LastName: "Mwangi", Language: "sw"}
		mockService.On("UpdateProfile", mock.Anything, int64(7), mock.MatchedBy(func(p UpdateProfileParams) bool {
			return p.FirstName == "Aisha" && p.Language == "sw"
		})).Return(user, nil).Once()

		body := `{"first_name":"Aisha","last_name":"Mwangi","language":"sw"}`
		req := asIdentity(newJSONRequest(http.MethodPut, "/auth/profile", body), identity)
		rec := httptest.NewRecorder()
		handler.UpdateProfile(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		env := decodeEnvelope(t, rec)
		assert.Equal(t, "Profile updated successfully", env.Message)
		assert.Equal(t, "Wasifu umesasishwa kwa mafanikio", env.MessageSW)
		mockService.AssertExpectations(t)
	})
}

func TestAuthHandler_ChangePassword(t *testing.T) {
	identity := &AuthenticatedIdentity{ID: 7, Email: "asha@example.com"}

	t.Run("Success", func(t *testing.T) {
		mockService := new(MockAuthService)
		handler := NewAuthHandler(mockService, slog.Default())

		mockService.On("ChangePassword", mock.Anything, int64(7), "old-secret", "new-secret").Return(nil).Once()

		body := `{"current_password":"old-secret","new_password":"new-secret"}`
		req := asIdentity(newJSONRequest(http.MethodPut, "/auth/change-password", body), identity)
		rec := httptest.NewRecorder()
		handler.ChangePassword(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		env := decodeEnvelope(t, rec)
		assert.Equal(t, "Password changed successfully", env.Message)
		assert.Equal(t, "Nenosiri limebadilishwa kwa mafanikio", env.MessageSW)
		mockService.AssertExpectations(t)
	})

	t.Run("MissingFields", func(t *testing.T) {
		mockService := new(MockAuthService)
		handler := NewAuthHandler(mockService, slog.Default())

		body := `{"current_password":"","new_password":"new-secret"}`
		req := asIdentity(newJSONRequest(http.MethodPut, "/auth/change-password", body), identity)
		rec := httptest.NewRecorder()
		handler.ChangePassword(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		env := decodeEnvelope(t, rec)
		assert.Equal(t, "Current password and new password are required", env.Message)
		assert.Equal(t, "Nenosiri la sasa na nenosiri jipya vinahitajika", env.MessageSW)
		mockService.AssertNotCalled(t, "ChangePassword", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("NewPasswordTooShort", func(t *testing.T) {
		mockService := new(MockAuthService)
		handler := NewAuthHandler(mockService, slog.Default())

		body := `{"current_password":"old-secret","new_password":"tiny"}`
		req := asIdentity(newJSONRequest(http.MethodPut, "/auth/change-password", body), identity)
		rec := httptest.NewRecorder()
		handler.ChangePassword(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		env := decodeEnvelope(t, rec)
		assert.Equal(t, "New password must be at least 6 characters long", env.Message)
		assert.Equal(t, "Nenosiri jipya lazima liwe na angalau herufi 6", env.MessageSW)
	})

	t.Run("WrongCurrentPassword", func(t *testing.T) {
		mockService := new(MockAuthService)
		handler := NewAuthHandler(mockService, slog.Default())

		mockService.On("ChangePassword", mock.Anything, int64(7), "not-it", "new-secret").Return(ErrWrongPassword).Once()

		body := `{"current_password":"not-it","new_password":"new-secret"}`
		req := asIdentity(newJSONRequest(http.MethodPut, "/auth/change-password", body), identity)
		rec := httptest.NewRecorder()
		handler.ChangePassword(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		env := decodeEnvelope(t, rec)
		assert.Equal(t, "Current password is incorrect", env.Message)
		assert.Equal(t, "Nenosiri la sasa si sahihi", env.MessageSW)
	})
}
