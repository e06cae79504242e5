package services

import (
	"context"
	"time"

	"github.com/rmendiola/belleza/internal/auth"
	"github.com/rmendiola/belleza/internal/models"
)

// MockUserRepository implements UserRepository for testing
type MockUserRepository struct {
	GetByIDFunc                    func(ctx context.Context, id string) (*models.User, error)
	GetByEmailFunc                 func(ctx context.Context, email string) (*models.User, error)
	CreateFunc                     func(ctx context.Context, user *models.User) (*models.User, error)
	UpdateProfileFunc              func(ctx context.Context, id, firstName, lastName, phone string) (*models.User, error)
	StampLastLoginFunc             func(ctx context.Context, id string) error
	LinkGoogleSubFunc              func(ctx context.Context, id, googleSub string) error
	MarkEmailVerifiedFunc          func(ctx context.Context, id string) error
	SetVerificationTicketFunc      func(ctx context.Context, id, tokenHash string, expiresAt time.Time) error
	GetByVerificationTokenHashFunc func(ctx context.Context, tokenHash string) (*models.User, error)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	return nil, models.ErrNotFound
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	return nil, models.ErrInternalServer
}

func (m *MockUserRepository) UpdateProfile(ctx context.Context, id, firstName, lastName, phone string) (*models.User, error) {
	if m.UpdateProfileFunc != nil {
		return m.UpdateProfileFunc(ctx, id, firstName, lastName, phone)
	}
	return nil, models.ErrInternalServer
}

func (m *MockUserRepository) StampLastLogin(ctx context.Context, id string) error {
	if m.StampLastLoginFunc != nil {
		return m.StampLastLoginFunc(ctx, id)
	}
	return nil
}

func (m *MockUserRepository) LinkGoogleSub(ctx context.Context, id, googleSub string) error {
	if m.LinkGoogleSubFunc != nil {
		return m.LinkGoogleSubFunc(ctx, id, googleSub)
	}
	return nil
}

func (m *MockUserRepository) MarkEmailVerified(ctx context.Context, id string) error {
	if m.MarkEmailVerifiedFunc != nil {
		return m.MarkEmailVerifiedFunc(ctx, id)
	}
	return nil
}

func (m *MockUserRepository) SetVerificationTicket(ctx context.Context, id, tokenHash string, expiresAt time.Time) error {
	if m.SetVerificationTicketFunc != nil {
		return m.SetVerificationTicketFunc(ctx, id, tokenHash, expiresAt)
	}
	return nil
}

func (m *MockUserRepository) GetByVerificationTokenHash(ctx context.Context, tokenHash string) (*models.User, error) {
	if m.GetByVerificationTokenHashFunc != nil {
		return m.GetByVerificationTokenHashFunc(ctx, tokenHash)
	}
	return nil, models.ErrNotFound
}

// MockTicketManager implements TicketManager for testing
type MockTicketManager struct {
	IssueFunc  func(ctx context.Context, userID string) (string, error)
	RedeemFunc func(ctx context.Context, token string) (*models.User, error)
}

func (m *MockTicketManager) Issue(ctx context.Context, userID string) (string, error) {
	if m.IssueFunc != nil {
		return m.IssueFunc(ctx, userID)
	}
	return "test-verification-token", nil
}

func (m *MockTicketManager) Redeem(ctx context.Context, token string) (*models.User, error) {
	if m.RedeemFunc != nil {
		return m.RedeemFunc(ctx, token)
	}
	return nil, models.ErrTicketInvalid
}

// MockMailer implements Mailer for testing
type MockMailer struct {
	SendVerificationEmailFunc func(ctx context.Context, email, token string) error
	SendWelcomeEmailFunc      func(ctx context.Context, email, firstName string) error
}

func (m *MockMailer) SendVerificationEmail(ctx context.Context, email, token string) error {
	if m.SendVerificationEmailFunc != nil {
		return m.SendVerificationEmailFunc(ctx, email, token)
	}
	return nil
}

func (m *MockMailer) SendWelcomeEmail(ctx context.Context, email, firstName string) error {
	if m.SendWelcomeEmailFunc != nil {
		return m.SendWelcomeEmailFunc(ctx, email, firstName)
	}
	return nil
}

// MockExternalVerifier implements ExternalVerifier for testing
type MockExternalVerifier struct {
	VerifyFunc func(ctx context.Context, rawIDToken string) (*auth.VerifiedIdentity, error)
}

func (m *MockExternalVerifier) Verify(ctx context.Context, rawIDToken string) (*auth.VerifiedIdentity, error) {
	if m.VerifyFunc != nil {
		return m.VerifyFunc(ctx, rawIDToken)
	}
	return nil, auth.ErrIDTokenRejected
}

// MockCatalogRepository implements CatalogRepository for testing
type MockCatalogRepository struct {
	ListServicesFunc        func(ctx context.Context) ([]*models.Service, error)
	GetServiceByIDFunc      func(ctx context.Context, id string) (*models.Service, error)
	ListProfessionalsFunc       func(ctx context.Context) ([]*models.Professional, error)
	GetProfessionalByIDFunc     func(ctx context.Context, id string) (*models.Professional, error)
	GetProfessionalByUserIDFunc func(ctx context.Context, userID string) (*models.Professional, error)
}

func (m *MockCatalogRepository) ListServices(ctx context.Context) ([]*models.Service, error) {
	if m.ListServicesFunc != nil {
		return m.ListServicesFunc(ctx)
	}
	return []*models.Service{}, nil
}

func (m *MockCatalogRepository) GetServiceByID(ctx context.Context, id string) (*models.Service, error) {
	if m.GetServiceByIDFunc != nil {
		return m.GetServiceByIDFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

func (m *MockCatalogRepository) ListProfessionals(ctx context.Context) ([]*models.Professional, error) {
	if m.ListProfessionalsFunc != nil {
		return m.ListProfessionalsFunc(ctx)
	}
	return []*models.Professional{}, nil
}

func (m *MockCatalogRepository) GetProfessionalByID(ctx context.Context, id string) (*models.Professional, error) {
	if m.GetProfessionalByIDFunc != nil {
		return m.GetProfessionalByIDFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

func (m *MockCatalogRepository) GetProfessionalByUserID(ctx context.Context, userID string) (*models.Professional, error) {
	if m.GetProfessionalByUserIDFunc != nil {
		return m.GetProfessionalByUserIDFunc(ctx, userID)
	}
	return nil, models.ErrNotFound
}

// MockBookingRepository implements BookingRepository for testing
type MockBookingRepository struct {
	CreateFunc     func(ctx context.Context, booking *models.Booking) (*models.Booking, error)
	GetByIDFunc    func(ctx context.Context, id string) (*models.Booking, error)
	ListByUserFunc         func(ctx context.Context, userID string) ([]*models.Booking, error)
	ListByProfessionalFunc func(ctx context.Context, professionalID string) ([]*models.Booking, error)
	CancelFunc             func(ctx context.Context, id, userID string) error
}

func (m *MockBookingRepository) Create(ctx context.Context, booking *models.Booking) (*models.Booking, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, booking)
	}
	return nil, models.ErrInternalServer
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

func (m *MockBookingRepository) ListByUser(ctx context.Context, userID string) ([]*models.Booking, error) {
	if m.ListByUserFunc != nil {
		return m.ListByUserFunc(ctx, userID)
	}
	return []*models.Booking{}, nil
}

func (m *MockBookingRepository) ListByProfessional(ctx context.Context, professionalID string) ([]*models.Booking, error) {
	if m.ListByProfessionalFunc != nil {
		return m.ListByProfessionalFunc(ctx, professionalID)
	}
	return []*models.Booking{}, nil
}

func (m *MockBookingRepository) Cancel(ctx context.Context, id, userID string) error {
	if m.CancelFunc != nil {
		return m.CancelFunc(ctx, id, userID)
	}
	return models.ErrNotFound
}
