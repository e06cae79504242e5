package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/rmendiola/belleza/internal/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) (*models.User, error)
	UpdateProfile(ctx context.Context, id, firstName, lastName, phone string) (*models.User, error)
	StampLastLogin(ctx context.Context, id string) error
	LinkGoogleSub(ctx context.Context, id, googleSub string) error
	MarkEmailVerified(ctx context.Context, id string) error
	SetVerificationTicket(ctx context.Context, id, tokenHash string, expiresAt time.Time) error
	GetByVerificationTokenHash(ctx context.Context, tokenHash string) (*models.User, error)
}

// UserService handles user profile business logic
type UserService struct {
	repo   UserRepository
	logger *slog.Logger
}

func NewUserService(repo UserRepository, logger *slog.Logger) *UserService {
	return &UserService{repo: repo, logger: logger}
}

// GetProfile returns the authenticated user's own record.
func (s *UserService) GetProfile(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		s.logger.Error("failed to get user", slog.String("user_id", userID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	return user, nil
}

// ProfileUpdate carries the mutable profile fields. A nil field means
// "leave unchanged"; at least one must be set.
type ProfileUpdate struct {
	FirstName *string
	LastName  *string
	Phone     *string
}

func (u ProfileUpdate) empty() bool {
	return u.FirstName == nil && u.LastName == nil && u.Phone == nil
}

// UpdateProfile applies a partial update to the user's profile fields.
// Email, roles and verification state are not reachable from here.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, update ProfileUpdate) (*models.User, error) {
	if update.empty() {
		return nil, models.ErrBadRequest
	}

	current, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		s.logger.Error("failed to load user for update", slog.String("user_id", userID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	firstName := current.FirstName
	lastName := current.LastName
	phone := current.Phone
	if update.FirstName != nil {
		firstName = *update.FirstName
	}
	if update.LastName != nil {
		lastName = *update.LastName
	}
	if update.Phone != nil {
		phone = *update.Phone
	}

	updated, err := s.repo.UpdateProfile(ctx, userID, firstName, lastName, phone)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		s.logger.Error("failed to update profile", slog.String("user_id", userID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.logger.Info("profile updated", slog.String("user_id", userID))
	return updated, nil
}
