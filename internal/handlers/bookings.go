package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rmendiola/belleza/internal/auth"
	"github.com/rmendiola/belleza/internal/models"
	"github.com/rmendiola/belleza/internal/services"
	pkghttp "github.com/rmendiola/belleza/pkg/http"
)

// BookingServiceInterface defines the interface for booking business logic
type BookingServiceInterface interface {
	Create(ctx context.Context, userID string, in services.BookingInput) (*models.Booking, error)
	Get(ctx context.Context, userID string, isAdmin bool, bookingID string) (*models.Booking, error)
	ListForUser(ctx context.Context, userID string) ([]*models.Booking, error)
	ListForProfessional(ctx context.Context, userID string) ([]*models.Booking, error)
	Cancel(ctx context.Context, userID, bookingID string) error
}

// BookingHandler handles appointment booking HTTP requests
type BookingHandler struct {
	service BookingServiceInterface
}

func NewBookingHandler(service BookingServiceInterface) *BookingHandler {
	return &BookingHandler{service: service}
}

// CreateBookingRequest represents the request body for booking an appointment
type CreateBookingRequest struct {
	ServiceID      string    `json:"serviceId" validate:"required,uuid"`
	ProfessionalID string    `json:"professionalId" validate:"required,uuid"`
	StartsAt       time.Time `json:"startsAt" validate:"required"`
	Notes          string    `json:"notes" validate:"omitempty,max=500"`
}

// BookingResponse represents a booking in HTTP responses
type BookingResponse struct {
	ID             string `json:"id"`
	ServiceID      string `json:"serviceId"`
	ProfessionalID string `json:"professionalId"`
	StartsAt       string `json:"startsAt"`
	Status         string `json:"status"`
	Notes          string `json:"notes,omitempty"`
	CreatedAt      string `json:"createdAt"`
}

func toBookingResponse(b *models.Booking) *BookingResponse {
	return &BookingResponse{
		ID:             b.ID,
		ServiceID:      b.ServiceID,
		ProfessionalID: b.ProfessionalID,
		StartsAt:       b.StartsAt.Format(time.RFC3339),
		Status:         b.Status,
		Notes:          b.Notes,
		CreatedAt:      b.CreatedAt.Format(time.RFC3339),
	}
}

// Create books an appointment for the authenticated user
// @Router /bookings [post]
func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetUserFromContext(r)
	if claims == nil {
		pkghttp.WriteUnauthorized(w, "Authentication required")
		return
	}

	var req CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	booking, err := h.service.Create(r.Context(), claims.UserID, services.BookingInput{
		ServiceID:      req.ServiceID,
		ProfessionalID: req.ProfessionalID,
		StartsAt:       req.StartsAt,
		Notes:          req.Notes,
	})
	if err != nil {
		if errors.Is(err, models.ErrBadRequest) {
			pkghttp.WriteBadRequest(w, "Booking is not possible for the requested service, professional or time")
			return
		}
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	pkghttp.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"booking": toBookingResponse(booking),
	})
}

// List returns the authenticated user's bookings
// @Router /bookings [get]
func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetUserFromContext(r)
	if claims == nil {
		pkghttp.WriteUnauthorized(w, "Authentication required")
		return
	}

	bookings, err := h.service.ListForUser(r.Context(), claims.UserID)
	if err != nil {
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	out := make([]*BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, toBookingResponse(b))
	}

	pkghttp.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"bookings": out,
	})
}

// ListForProfessional returns the bookings assigned to the caller's
// professional profile
// @Router /professionals/me/bookings [get]
func (h *BookingHandler) ListForProfessional(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetUserFromContext(r)
	if claims == nil {
		pkghttp.WriteUnauthorized(w, "Authentication required")
		return
	}

	bookings, err := h.service.ListForProfessional(r.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			pkghttp.WriteNotFound(w, "No professional profile for this account")
			return
		}
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	out := make([]*BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, toBookingResponse(b))
	}

	pkghttp.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"bookings": out,
	})
}

// Get returns one booking visible to the caller
// @Router /bookings/{id} [get]
func (h *BookingHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetUserFromContext(r)
	if claims == nil {
		pkghttp.WriteUnauthorized(w, "Authentication required")
		return
	}

	booking, err := h.service.Get(r.Context(), claims.UserID, claims.Role == models.RoleAdmin, chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			pkghttp.WriteNotFound(w, "Booking not found")
			return
		}
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"booking": toBookingResponse(booking),
	})
}

// Cancel cancels the caller's own booking
// @Router /bookings/{id} [delete]
func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetUserFromContext(r)
	if claims == nil {
		pkghttp.WriteUnauthorized(w, "Authentication required")
		return
	}

	if err := h.service.Cancel(r.Context(), claims.UserID, chi.URLParam(r, "id")); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			pkghttp.WriteNotFound(w, "Booking not found")
			return
		}
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Booking cancelled",
	})
}
