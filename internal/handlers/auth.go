package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rmendiola/belleza/internal/models"
	"github.com/rmendiola/belleza/internal/services"
	pkghttp "github.com/rmendiola/belleza/pkg/http"
)

// IdentityServiceInterface defines the interface for identity business logic
type IdentityServiceInterface interface {
	Signup(ctx context.Context, in services.SignupInput) (*services.AuthResult, error)
	Login(ctx context.Context, email, password string) (*services.AuthResult, error)
	VerifyEmail(ctx context.Context, token string) (*models.User, error)
	ResendVerification(ctx context.Context, email string) error
	GoogleSignIn(ctx context.Context, rawIDToken string) (*services.AuthResult, error)
}

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	service IdentityServiceInterface
}

func NewAuthHandler(service IdentityServiceInterface) *AuthHandler {
	return &AuthHandler{service: service}
}

// Request DTOs

// SignupRequest represents the request body for account creation
type SignupRequest struct {
	Email            string `json:"email" validate:"required,email"`
	Password         string `json:"password" validate:"required"`
	FirstName        string `json:"firstName" validate:"required,min=1,max=100"`
	LastName         string `json:"lastName" validate:"required,min=1,max=100"`
	Phone            string `json:"phone" validate:"omitempty,max=32"`
	Role             string `json:"role" validate:"omitempty,oneof=client professional vendor"`
	PromoCode        string `json:"promoCode" validate:"omitempty,max=64"`
	SMSNotifications bool   `json:"smsNotifications"`
}

// LoginRequest represents the request body for login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// VerifyEmailRequest represents the request body for email verification
type VerifyEmailRequest struct {
	Token string `json:"token" validate:"required"`
}

// ResendVerificationRequest represents the request body for resending the verification email
type ResendVerificationRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// GoogleSignInRequest represents the request body for federated sign-in.
// Credential carries the Google ID token.
type GoogleSignInRequest struct {
	Credential string `json:"credential" validate:"required"`
}

// Response DTOs

// UserResponse represents a user in HTTP responses. The password hash and
// verification ticket never appear here.
type UserResponse struct {
	ID               string   `json:"id"`
	Email            string   `json:"email"`
	FirstName        string   `json:"firstName"`
	LastName         string   `json:"lastName"`
	Phone            string   `json:"phone,omitempty"`
	Role             string   `json:"role"`
	Roles            []string `json:"roles"`
	EmailVerified    bool     `json:"emailVerified"`
	SMSNotifications bool     `json:"smsNotifications"`
	CreatedAt        string   `json:"createdAt"`
}

// AuthResponse represents the response from auth operations
type AuthResponse struct {
	Success   bool          `json:"success"`
	User      *UserResponse `json:"user"`
	Token     string        `json:"token"`
	EmailSent *bool         `json:"emailSent,omitempty"`
}

func toUserResponse(user *models.User) *UserResponse {
	return &UserResponse{
		ID:               user.ID,
		Email:            user.Email,
		FirstName:        user.FirstName,
		LastName:         user.LastName,
		Phone:            user.Phone,
		Role:             user.Role,
		Roles:            user.Roles,
		EmailVerified:    user.EmailVerified,
		SMSNotifications: user.SMSNotifications,
		CreatedAt:        user.CreatedAt.Format(time.RFC3339),
	}
}

// Signup handles account creation
// @Summary Create an account
// @Accept json
// @Param request body SignupRequest true "Signup request"
// @Produce json
// @Success 201 {object} AuthResponse
// @Failure 400 {object} pkghttp.ErrorResponse
// @Failure 409 {object} pkghttp.ErrorResponse
// @Router /auth/signup [post]
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	result, err := h.service.Signup(r.Context(), services.SignupInput{
		Email:            req.Email,
		Password:         req.Password,
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		Phone:            req.Phone,
		Role:             req.Role,
		PromoCode:        req.PromoCode,
		SMSNotifications: req.SMSNotifications,
	})
	if err != nil {
		switch {
		case errors.Is(err, models.ErrConflict):
			pkghttp.WriteConflict(w, "An account with this email already exists")
		case errors.Is(err, models.ErrBadRequest):
			pkghttp.WriteBadRequest(w, err.Error())
		default:
			pkghttp.WriteInternalError(w, "Internal server error")
		}
		return
	}

	pkghttp.WriteJSON(w, http.StatusCreated, AuthResponse{
		Success:   true,
		User:      toUserResponse(result.User),
		Token:     result.Token,
		EmailSent: &result.EmailSent,
	})
}

// Login handles email/password login
// @Summary Log in
// @Accept json
// @Param request body LoginRequest true "Login request"
// @Produce json
// @Success 200 {object} AuthResponse
// @Failure 401 {object} pkghttp.ErrorResponse
// @Failure 403 {object} pkghttp.ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	result, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrAccountDisabled):
			pkghttp.WriteForbidden(w, "Account is disabled")
		case errors.Is(err, models.ErrUnauthorized):
			// Unknown email and wrong password share this message
			pkghttp.WriteUnauthorized(w, "Invalid email or password")
		default:
			pkghttp.WriteInternalError(w, "Internal server error")
		}
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, AuthResponse{
		Success: true,
		User:    toUserResponse(result.User),
		Token:   result.Token,
	})
}

// VerifyEmail redeems a verification ticket. The token arrives in the query
// string for link clicks (GET) or in the body for API calls (POST).
// @Summary Verify email address
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} pkghttp.ErrorResponse
// @Router /auth/verify-email [get]
// @Router /auth/verify-email [post]
func (h *AuthHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" && r.Method == http.MethodPost {
		var req VerifyEmailRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err == nil {
			token = req.Token
		}
	}
	if token == "" {
		pkghttp.WriteBadRequest(w, "Verification token is required")
		return
	}

	user, err := h.service.VerifyEmail(r.Context(), token)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrAlreadyVerified):
			// Re-clicking the link is a no-op, not an error
			pkghttp.WriteJSON(w, http.StatusOK, map[string]interface{}{
				"success": true,
				"message": "Email is already verified",
				"user":    toUserResponse(user),
			})
		case errors.Is(err, models.ErrTicketInvalid):
			pkghttp.WriteBadRequest(w, "Verification link is invalid or has expired")
		default:
			pkghttp.WriteInternalError(w, "Internal server error")
		}
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Email verified",
		"user":    toUserResponse(user),
	})
}

// ResendVerification rotates the verification ticket and emails a fresh
// link. Failures carry stable codes the front-end branches on.
// @Summary Resend verification email
// @Accept json
// @Param request body ResendVerificationRequest true "Resend request"
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} pkghttp.ErrorResponse
// @Failure 404 {object} pkghttp.ErrorResponse
// @Failure 500 {object} pkghttp.ErrorResponse
// @Router /auth/resend-verification [post]
func (h *AuthHandler) ResendVerification(w http.ResponseWriter, r *http.Request) {
	var req ResendVerificationRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	if err := h.service.ResendVerification(r.Context(), req.Email); err != nil {
		switch {
		case errors.Is(err, models.ErrNotFound):
			pkghttp.WriteError(w, http.StatusNotFound, pkghttp.CodeNoSuchUser)
		case errors.Is(err, models.ErrAlreadyVerified):
			pkghttp.WriteError(w, http.StatusBadRequest, pkghttp.CodeAlreadyVerified)
		case errors.Is(err, models.ErrSendFailed):
			pkghttp.WriteError(w, http.StatusInternalServerError, pkghttp.CodeSendFailed)
		default:
			pkghttp.WriteInternalError(w, "Internal server error")
		}
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Verification email sent",
	})
}

// GoogleSignIn handles federated sign-in with a Google ID token
// @Summary Sign in with Google
// @Accept json
// @Param request body GoogleSignInRequest true "Google sign-in request"
// @Produce json
// @Success 200 {object} AuthResponse
// @Failure 401 {object} pkghttp.ErrorResponse
// @Router /auth/google [post]
func (h *AuthHandler) GoogleSignIn(w http.ResponseWriter, r *http.Request) {
	var req GoogleSignInRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	result, err := h.service.GoogleSignIn(r.Context(), req.Credential)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrExternalTokenRejected), errors.Is(err, models.ErrUnauthorized):
			pkghttp.WriteUnauthorized(w, "Google sign-in failed")
		case errors.Is(err, models.ErrAccountDisabled):
			pkghttp.WriteForbidden(w, "Account is disabled")
		case errors.Is(err, models.ErrConflict):
			pkghttp.WriteConflict(w, "An account with this email already exists")
		default:
			pkghttp.WriteInternalError(w, "Internal server error")
		}
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, AuthResponse{
		Success: true,
		User:    toUserResponse(result.User),
		Token:   result.Token,
	})
}
