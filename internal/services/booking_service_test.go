package services

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/rmendiola/belleza/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func activeCatalog() *MockCatalogRepository {
	return &MockCatalogRepository{
		GetServiceByIDFunc: func(ctx context.Context, id string) (*models.Service, error) {
			return &models.Service{ID: id, Name: "Manicure", Active: true}, nil
		},
		GetProfessionalByIDFunc: func(ctx context.Context, id string) (*models.Professional, error) {
			return &models.Professional{ID: id, DisplayName: "Maria", Active: true}, nil
		},
	}
}

func TestBookingService_Create_Success(t *testing.T) {
	repo := &MockBookingRepository{
		CreateFunc: func(ctx context.Context, booking *models.Booking) (*models.Booking, error) {
			booking.ID = "booking-1"
			return booking, nil
		},
	}

	svc := NewBookingService(repo, activeCatalog(), slog.Default())

	booking, err := svc.Create(context.Background(), "user-1", BookingInput{
		ServiceID:      "svc-1",
		ProfessionalID: "pro-1",
		StartsAt:       time.Now().Add(48 * time.Hour),
	})
	require.NoError(t, err)
	assert.Equal(t, "user-1", booking.UserID)
	assert.Equal(t, models.BookingPending, booking.Status)
}

func TestBookingService_Create_PastSlotRejected(t *testing.T) {
	svc := NewBookingService(&MockBookingRepository{}, activeCatalog(), slog.Default())

	_, err := svc.Create(context.Background(), "user-1", BookingInput{
		ServiceID:      "svc-1",
		ProfessionalID: "pro-1",
		StartsAt:       time.Now().Add(-time.Hour),
	})
	assert.ErrorIs(t, err, models.ErrBadRequest)
}

func TestBookingService_Create_InactiveServiceRejected(t *testing.T) {
	catalog := activeCatalog()
	catalog.GetServiceByIDFunc = func(ctx context.Context, id string) (*models.Service, error) {
		return &models.Service{ID: id, Active: false}, nil
	}

	svc := NewBookingService(&MockBookingRepository{}, catalog, slog.Default())

	_, err := svc.Create(context.Background(), "user-1", BookingInput{
		ServiceID:      "svc-1",
		ProfessionalID: "pro-1",
		StartsAt:       time.Now().Add(time.Hour),
	})
	assert.ErrorIs(t, err, models.ErrBadRequest)
}

func TestBookingService_Create_UnknownProfessionalRejected(t *testing.T) {
	catalog := activeCatalog()
	catalog.GetProfessionalByIDFunc = func(ctx context.Context, id string) (*models.Professional, error) {
		return nil, models.ErrNotFound
	}

	svc := NewBookingService(&MockBookingRepository{}, catalog, slog.Default())

	_, err := svc.Create(context.Background(), "user-1", BookingInput{
		ServiceID:      "svc-1",
		ProfessionalID: "pro-ghost",
		StartsAt:       time.Now().Add(time.Hour),
	})
	assert.ErrorIs(t, err, models.ErrBadRequest)
}

func TestBookingService_Get_OwnershipEnforced(t *testing.T) {
	booking := &models.Booking{ID: "booking-1", UserID: "owner-1"}
	repo := &MockBookingRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*models.Booking, error) {
			return booking, nil
		},
	}

	svc := NewBookingService(repo, activeCatalog(), slog.Default())

	got, err := svc.Get(context.Background(), "owner-1", false, "booking-1")
	require.NoError(t, err)
	assert.Equal(t, "booking-1", got.ID)

	// Another user sees not-found, not forbidden
	_, err = svc.Get(context.Background(), "stranger", false, "booking-1")
	assert.ErrorIs(t, err, models.ErrNotFound)

	// Admins can see any booking
	_, err = svc.Get(context.Background(), "stranger", true, "booking-1")
	assert.NoError(t, err)
}

func TestBookingService_ListForProfessional(t *testing.T) {
	catalog := activeCatalog()
	catalog.GetProfessionalByUserIDFunc = func(ctx context.Context, userID string) (*models.Professional, error) {
		if userID == "pro-user-1" {
			return &models.Professional{ID: "pro-1", Active: true}, nil
		}
		return nil, models.ErrNotFound
	}

	repo := &MockBookingRepository{
		ListByProfessionalFunc: func(ctx context.Context, professionalID string) ([]*models.Booking, error) {
			assert.Equal(t, "pro-1", professionalID)
			return []*models.Booking{{ID: "booking-1", ProfessionalID: professionalID}}, nil
		},
	}

	svc := NewBookingService(repo, catalog, slog.Default())

	bookings, err := svc.ListForProfessional(context.Background(), "pro-user-1")
	require.NoError(t, err)
	assert.Len(t, bookings, 1)

	// Accounts without a professional profile get not-found
	_, err = svc.ListForProfessional(context.Background(), "client-user")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestBookingService_Cancel(t *testing.T) {
	cancelled := false
	repo := &MockBookingRepository{
		CancelFunc: func(ctx context.Context, id, userID string) error {
			if id == "booking-1" && userID == "owner-1" {
				cancelled = true
				return nil
			}
			return models.ErrNotFound
		},
	}

	svc := NewBookingService(repo, activeCatalog(), slog.Default())

	require.NoError(t, svc.Cancel(context.Background(), "owner-1", "booking-1"))
	assert.True(t, cancelled)

	err := svc.Cancel(context.Background(), "stranger", "booking-1")
	assert.ErrorIs(t, err, models.ErrNotFound)
}
