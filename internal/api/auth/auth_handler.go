package auth

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/chakulahub/chakula-api/internal/api"
)

const minPasswordLength = 6

type AuthHandler struct {
	AuthService AuthService
	logger      *slog.Logger
}

func NewAuthHandler(authService AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		logger:      logger,
		AuthService: authService,
	}
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ValidationErrorResponse(w, r, []string{err.Error()})
		return
	}

	req.Email = api.NormalizeEmail(req.Email)
	if req.Language == "" {
		req.Language = "en"
	}

	var fieldErrors []string
	if !api.ValidEmail(req.Email) {
		fieldErrors = append(fieldErrors, "Please provide a valid email")
	}
	if len(req.Password) < minPasswordLength {
		fieldErrors = append(fieldErrors, "Password must be at least 6 characters long")
	}
	if req.FirstName == "" {
		fieldErrors = append(fieldErrors, "First name is required")
	}
	if req.LastName == "" {
		fieldErrors = append(fieldErrors, "Last name is required")
	}
	if req.Language != "en" && req.Language != "sw" {
		fieldErrors = append(fieldErrors, "Language must be either en or sw")
	}
	if len(fieldErrors) > 0 {
		api.ValidationErrorResponse(w, r, fieldErrors)
		return
	}

	var phone *string
	if req.Phone != "" {
		phone = &req.Phone
	}

	user, token, err := h.AuthService.Register(r.Context(), RegisterParams{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     phone,
		Language:  req.Language,
	})
	if err != nil {
		if errors.Is(err, api.ErrConflict) {
			api.ErrorResponse(w, r, http.StatusBadRequest, api.MsgDuplicateEmail)
			return
		}
		h.logger.ErrorContext(r.Context(), "Registration failed", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, api.MsgInternalError)
		return
	}

	api.SuccessResponse(w, r, http.StatusCreated, api.MsgRegistered, AuthPayload{
		User:  user.publicProfile(false, true),
		Token: token,
	})
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ValidationErrorResponse(w, r, []string{err.Error()})
		return
	}

	req.Email = api.NormalizeEmail(req.Email)

	var fieldErrors []string
	if !api.ValidEmail(req.Email) {
		fieldErrors = append(fieldErrors, "Please provide a valid email")
	}
	if req.Password == "" {
		fieldErrors = append(fieldErrors, "Password is required")
	}
	if len(fieldErrors) > 0 {
		api.ValidationErrorResponse(w, r, fieldErrors)
		return
	}

	user, token, err := h.AuthService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, api.ErrUnauthenticated) {
			api.ErrorResponse(w, r, http.StatusUnauthorized, api.MsgInvalidCredentials)
			return
		}
		h.logger.ErrorContext(r.Context(), "Login failed", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, api.MsgInternalError)
		return
	}

	api.SuccessResponse(w, r, http.StatusOK, api.MsgLoginSuccess, AuthPayload{
		User:  user.publicProfile(false, false),
		Token: token,
	})
}

// GetProfile handles GET /auth/profile. Runs behind the mandatory gate.
func (h *AuthHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	identity, ok := IdentityFromContext(r.Context())
	if !ok {
		api.ErrorResponse(w, r, http.StatusUnauthorized, api.MsgTokenRequired)
		return
	}

	user, err := h.AuthService.GetProfile(r.Context(), identity.ID)
	if err != nil {
		if errors.Is(err, api.ErrNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, api.MsgUserNotFound)
			return
		}
		h.logger.ErrorContext(r.Context(), "Get profile failed", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, api.MsgInternalError)
		return
	}

	api.DataResponse(w, r, http.StatusOK, map[string]interface{}{
		"user": user.publicProfile(true, true),
	})
}

// UpdateProfile handles PUT /auth/profile. The user id comes from the
// authenticated identity, never from the body.
func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	identity, ok := IdentityFromContext(r.Context())
	if !ok {
		api.ErrorResponse(w, r, http.StatusUnauthorized, api.MsgTokenRequired)
		return
	}

	var req UpdateProfileRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ValidationErrorResponse(w, r, []string{err.Error()})
		return
	}

	user, err := h.AuthService.UpdateProfile(r.Context(), identity.ID, UpdateProfileParams{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Language:  req.Language,
	})
	if err != nil {
		if errors.Is(err, api.ErrNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, api.MsgUserNotFound)
			return
		}
		h.logger.ErrorContext(r.Context(), "Update profile failed", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, api.MsgInternalError)
		return
	}

	api.SuccessResponse(w, r, http.StatusOK, api.MsgProfileUpdated, map[string]interface{}{
		"user": user.publicProfile(true, false),
	})
}

// ChangePassword handles PUT /auth/change-password.
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	identity, ok := IdentityFromContext(r.Context())
	if !ok {
		api.ErrorResponse(w, r, http.StatusUnauthorized, api.MsgTokenRequired)
		return
	}

	var req ChangePasswordRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ValidationErrorResponse(w, r, []string{err.Error()})
		return
	}

	if req.CurrentPassword == "" || req.NewPassword == "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, api.MsgPasswordsRequired)
		return
	}
	if len(req.NewPassword) < minPasswordLength {
		api.ErrorResponse(w, r, http.StatusBadRequest, api.MsgNewPasswordTooShort)
		return
	}

	err := h.AuthService.ChangePassword(r.Context(), identity.ID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, ErrWrongPassword):
			api.ErrorResponse(w, r, http.StatusBadRequest, api.MsgWrongCurrentPassword)
		case errors.Is(err, api.ErrNotFound):
			api.ErrorResponse(w, r, http.StatusNotFound, api.MsgUserNotFound)
		default:
			h.logger.ErrorContext(r.Context(), "Change password failed", slog.Any("error", err))
			api.ErrorResponse(w, r, http.StatusInternalServerError, api.MsgInternalError)
		}
		return
	}

	api.SuccessResponse(w, r, http.StatusOK, api.MsgPasswordChanged, nil)
}
