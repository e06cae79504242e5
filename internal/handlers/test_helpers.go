package handlers

import (
	"context"

	"github.com/rmendiola/belleza/internal/models"
	"github.com/rmendiola/belleza/internal/services"
)

// MockIdentityService implements IdentityServiceInterface for testing
type MockIdentityService struct {
	SignupFunc             func(ctx context.Context, in services.SignupInput) (*services.AuthResult, error)
	LoginFunc              func(ctx context.Context, email, password string) (*services.AuthResult, error)
	VerifyEmailFunc        func(ctx context.Context, token string) (*models.User, error)
	ResendVerificationFunc func(ctx context.Context, email string) error
	GoogleSignInFunc       func(ctx context.Context, rawIDToken string) (*services.AuthResult, error)
}

func (m *MockIdentityService) Signup(ctx context.Context, in services.SignupInput) (*services.AuthResult, error) {
	if m.SignupFunc != nil {
		return m.SignupFunc(ctx, in)
	}
	return nil, models.ErrInternalServer
}

func (m *MockIdentityService) Login(ctx context.Context, email, password string) (*services.AuthResult, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, email, password)
	}
	return nil, models.ErrUnauthorized
}

func (m *MockIdentityService) VerifyEmail(ctx context.Context, token string) (*models.User, error) {
	if m.VerifyEmailFunc != nil {
		return m.VerifyEmailFunc(ctx, token)
	}
	return nil, models.ErrTicketInvalid
}

func (m *MockIdentityService) ResendVerification(ctx context.Context, email string) error {
	if m.ResendVerificationFunc != nil {
		return m.ResendVerificationFunc(ctx, email)
	}
	return models.ErrNotFound
}

func (m *MockIdentityService) GoogleSignIn(ctx context.Context, rawIDToken string) (*services.AuthResult, error) {
	if m.GoogleSignInFunc != nil {
		return m.GoogleSignInFunc(ctx, rawIDToken)
	}
	return nil, models.ErrExternalTokenRejected
}

// MockUserService implements UserServiceInterface for testing
type MockUserService struct {
	GetProfileFunc    func(ctx context.Context, userID string) (*models.User, error)
	UpdateProfileFunc func(ctx context.Context, userID string, update services.ProfileUpdate) (*models.User, error)
}

func (m *MockUserService) GetProfile(ctx context.Context, userID string) (*models.User, error) {
	if m.GetProfileFunc != nil {
		return m.GetProfileFunc(ctx, userID)
	}
	return nil, models.ErrNotFound
}

func (m *MockUserService) UpdateProfile(ctx context.Context, userID string, update services.ProfileUpdate) (*models.User, error) {
	if m.UpdateProfileFunc != nil {
		return m.UpdateProfileFunc(ctx, userID, update)
	}
	return nil, models.ErrInternalServer
}

// MockBookingService implements BookingServiceInterface for testing
type MockBookingService struct {
	CreateFunc      func(ctx context.Context, userID string, in services.BookingInput) (*models.Booking, error)
	GetFunc         func(ctx context.Context, userID string, isAdmin bool, bookingID string) (*models.Booking, error)
	ListForUserFunc         func(ctx context.Context, userID string) ([]*models.Booking, error)
	ListForProfessionalFunc func(ctx context.Context, userID string) ([]*models.Booking, error)
	CancelFunc              func(ctx context.Context, userID, bookingID string) error
}

func (m *MockBookingService) Create(ctx context.Context, userID string, in services.BookingInput) (*models.Booking, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, userID, in)
	}
	return nil, models.ErrInternalServer
}

func (m *MockBookingService) Get(ctx context.Context, userID string, isAdmin bool, bookingID string) (*models.Booking, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, userID, isAdmin, bookingID)
	}
	return nil, models.ErrNotFound
}

func (m *MockBookingService) ListForUser(ctx context.Context, userID string) ([]*models.Booking, error) {
	if m.ListForUserFunc != nil {
		return m.ListForUserFunc(ctx, userID)
	}
	return []*models.Booking{}, nil
}

func (m *MockBookingService) ListForProfessional(ctx context.Context, userID string) ([]*models.Booking, error) {
	if m.ListForProfessionalFunc != nil {
		return m.ListForProfessionalFunc(ctx, userID)
	}
	return nil, models.ErrNotFound
}

func (m *MockBookingService) Cancel(ctx context.Context, userID, bookingID string) error {
	if m.CancelFunc != nil {
		return m.CancelFunc(ctx, userID, bookingID)
	}
	return models.ErrNotFound
}
