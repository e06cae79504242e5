package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/rmendiola/belleza/internal/models"
)

// BookingRepository defines the interface for booking data access
type BookingRepository interface {
	Create(ctx context.Context, booking *models.Booking) (*models.Booking, error)
	GetByID(ctx context.Context, id string) (*models.Booking, error)
	ListByUser(ctx context.Context, userID string) ([]*models.Booking, error)
	ListByProfessional(ctx context.Context, professionalID string) ([]*models.Booking, error)
	Cancel(ctx context.Context, id, userID string) error
}

// BookingService handles appointment booking business logic.
type BookingService struct {
	repo    BookingRepository
	catalog CatalogRepository
	logger  *slog.Logger
	now     func() time.Time
}

func NewBookingService(repo BookingRepository, catalog CatalogRepository, logger *slog.Logger) *BookingService {
	return &BookingService{repo: repo, catalog: catalog, logger: logger, now: time.Now}
}

// BookingInput carries the fields a new booking is created from.
type BookingInput struct {
	ServiceID      string
	ProfessionalID string
	StartsAt       time.Time
	Notes          string
}

// Create books an appointment for the user. The service and professional
// must both exist and be active, and the slot must be in the future.
func (s *BookingService) Create(ctx context.Context, userID string, in BookingInput) (*models.Booking, error) {
	if !in.StartsAt.After(s.now()) {
		return nil, models.ErrBadRequest
	}

	svc, err := s.catalog.GetServiceByID(ctx, in.ServiceID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrBadRequest
		}
		s.logger.Error("failed to look up service", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	if !svc.Active {
		return nil, models.ErrBadRequest
	}

	pro, err := s.catalog.GetProfessionalByID(ctx, in.ProfessionalID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrBadRequest
		}
		s.logger.Error("failed to look up professional", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	if !pro.Active {
		return nil, models.ErrBadRequest
	}

	booking, err := s.repo.Create(ctx, &models.Booking{
		UserID:         userID,
		ServiceID:      svc.ID,
		ProfessionalID: pro.ID,
		StartsAt:       in.StartsAt,
		Status:         models.BookingPending,
		Notes:          in.Notes,
	})
	if err != nil {
		s.logger.Error("failed to create booking", slog.String("user_id", userID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.logger.Info("booking created",
		slog.String("booking_id", booking.ID),
		slog.String("user_id", userID),
		slog.String("service_id", svc.ID))

	return booking, nil
}

// Get returns a booking visible to the caller. Owners and admins may see
// it; everyone else gets not-found rather than forbidden.
func (s *BookingService) Get(ctx context.Context, userID string, isAdmin bool, bookingID string) (*models.Booking, error) {
	booking, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		s.logger.Error("failed to get booking", slog.String("booking_id", bookingID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	if booking.UserID != userID && !isAdmin {
		return nil, models.ErrNotFound
	}

	return booking, nil
}

// ListForUser returns the caller's bookings, newest slot first.
func (s *BookingService) ListForUser(ctx context.Context, userID string) ([]*models.Booking, error) {
	bookings, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("failed to list bookings", slog.String("user_id", userID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	return bookings, nil
}

// ListForProfessional returns the bookings assigned to the caller's
// professional profile. Callers without one get not-found.
func (s *BookingService) ListForProfessional(ctx context.Context, userID string) ([]*models.Booking, error) {
	pro, err := s.catalog.GetProfessionalByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		s.logger.Error("failed to resolve professional profile", slog.String("user_id", userID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	bookings, err := s.repo.ListByProfessional(ctx, pro.ID)
	if err != nil {
		s.logger.Error("failed to list professional bookings", slog.String("professional_id", pro.ID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	return bookings, nil
}

// Cancel cancels the caller's own pending or confirmed booking.
func (s *BookingService) Cancel(ctx context.Context, userID, bookingID string) error {
	if err := s.repo.Cancel(ctx, bookingID, userID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.ErrNotFound
		}
		s.logger.Error("failed to cancel booking", slog.String("booking_id", bookingID), slog.Any("error", err))
		return models.ErrInternalServer
	}

	s.logger.Info("booking cancelled",
		slog.String("booking_id", bookingID), slog.String("user_id", userID))
	return nil
}
