package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/voyage/voyage/internal/auth"
	"github.com/voyage/voyage/internal/handler/dto"
	"github.com/voyage/voyage/internal/model"
	"github.com/voyage/voyage/internal/service"
)

// AuthHandler handles signup, login, and profile requests.
type AuthHandler struct {
	svc    *service.UserService
	logger *slog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(svc *service.UserService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		svc:    svc,
		logger: logger,
	}
}

// Signup handles POST /auth/signup.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req dto.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.MessageResponse{Message: "Invalid request body"})
		return
	}

	result, err := h.svc.Signup(r.Context(), service.SignupInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.logger.Info("user_signed_up", "user_id", result.User.ID)

	writeJSON(w, http.StatusCreated, dto.AuthResponse{
		Token: result.Token,
		User:  dto.ToUserResponse(result.User),
	})
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.MessageResponse{Message: "Invalid request body"})
		return
	}

	result, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.logger.Info("user_logged_in", "user_id", result.User.ID)

	writeJSON(w, http.StatusOK, dto.AuthResponse{
		Token: result.Token,
		User:  dto.ToUserResponse(result.User),
	})
}

// Me handles GET /auth/me. Mounted behind the auth middleware.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())

	user, err := h.svc.GetUser(r.Context(), userID)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]dto.UserResponse{
		"user": dto.ToUserResponse(user),
	})
}

// handleServiceError maps auth service errors to HTTP responses.
func (h *AuthHandler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var verrs model.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		writeJSON(w, http.StatusBadRequest, dto.ValidationErrorResponse{
			Message: "Validation failed",
			Errors:  verrs,
		})
	case errors.Is(err, service.ErrEmailExists):
		writeJSON(w, http.StatusConflict, dto.MessageResponse{Message: "Email is already registered"})
	case errors.Is(err, service.ErrInvalidCredentials):
		writeJSON(w, http.StatusUnauthorized, dto.MessageResponse{Message: "Invalid email or password"})
	case errors.Is(err, service.ErrUserNotFound):
		writeJSON(w, http.StatusNotFound, dto.MessageResponse{Message: "User not found"})
	default:
		h.logger.Error("internal_error",
			"error", err,
			"path", r.URL.Path,
		)
		writeJSON(w, http.StatusInternalServerError, dto.MessageResponse{Message: "Server error, please try again later"})
	}
}
