package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/rmendiola/belleza/internal/auth"
	"github.com/rmendiola/belleza/internal/models"
	pkgauth "github.com/rmendiola/belleza/pkg/auth"
	pkglogger "github.com/rmendiola/belleza/pkg/logger"
)

// TicketManager is the verification-ticket capability the identity flows
// depend on.
type TicketManager interface {
	Issue(ctx context.Context, userID string) (string, error)
	Redeem(ctx context.Context, token string) (*models.User, error)
}

// ExternalVerifier checks a federated identity token and returns the
// asserted identity, or an error wrapping auth.ErrIDTokenRejected.
type ExternalVerifier interface {
	Verify(ctx context.Context, rawIDToken string) (*auth.VerifiedIdentity, error)
}

// IdentityService orchestrates signup, login, email verification and
// federated sign-in.
type IdentityService struct {
	repo        UserRepository
	tickets     TicketManager
	mailer      Mailer
	tm          *auth.TokenManager
	google      ExternalVerifier
	adminEmail  string
	logger      *slog.Logger
	auditLogger *pkglogger.AuditLogger
}

func NewIdentityService(
	repo UserRepository,
	tickets TicketManager,
	mailer Mailer,
	tm *auth.TokenManager,
	google ExternalVerifier,
	adminEmail string,
	logger *slog.Logger,
	auditLogger *pkglogger.AuditLogger,
) *IdentityService {
	return &IdentityService{
		repo:        repo,
		tickets:     tickets,
		mailer:      mailer,
		tm:          tm,
		google:      google,
		adminEmail:  strings.ToLower(strings.TrimSpace(adminEmail)),
		logger:      logger,
		auditLogger: auditLogger,
	}
}

// SignupInput carries the fields a new account is created from.
type SignupInput struct {
	Email            string
	Password         string
	FirstName        string
	LastName         string
	Phone            string
	Role             string
	PromoCode        string
	SMSNotifications bool
}

// AuthResult is what a successful signup, login or federated sign-in
// produces.
type AuthResult struct {
	User      *models.User
	Token     string
	EmailSent bool
}

// Signup registers a new account, issues a verification ticket, emails
// the verification link (best effort) and returns a signed session token.
// The account is usable immediately; EmailSent reports whether the
// verification mail went out.
func (s *IdentityService) Signup(ctx context.Context, in SignupInput) (*AuthResult, error) {
	email := normalizeEmail(in.Email)
	if email == "" {
		return nil, models.ErrBadRequest
	}

	if err := pkgauth.ValidatePassword(in.Password); err != nil {
		return nil, fmt.Errorf("%w: %s", models.ErrBadRequest, err.Error())
	}

	// Advisory pre-check; the unique index on LOWER(email) is the real guard.
	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return nil, models.ErrConflict
	} else if !errors.Is(err, models.ErrNotFound) {
		s.logger.Error("failed to check existing email", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	hash, err := pkgauth.HashPassword(in.Password)
	if err != nil {
		s.logger.Error("failed to hash password", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	role := in.Role
	if role == "" || !models.ValidRole(role) || role == models.RoleAdmin {
		role = models.RoleClient
	}
	if s.adminEmail != "" && email == s.adminEmail {
		role = models.RoleAdmin
	}

	user, err := s.repo.Create(ctx, &models.User{
		Email:            email,
		PasswordHash:     hash,
		FirstName:        strings.TrimSpace(in.FirstName),
		LastName:         strings.TrimSpace(in.LastName),
		Phone:            strings.TrimSpace(in.Phone),
		Role:             role,
		Roles:            []string{role},
		PromoCode:        in.PromoCode,
		SMSNotifications: in.SMSNotifications,
	})
	if err != nil {
		if errors.Is(err, models.ErrConflict) {
			return nil, models.ErrConflict
		}
		s.logger.Error("failed to create user", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	emailSent := s.issueAndSendTicket(ctx, user)

	token, err := s.tm.Issue(user.ID, user.Email, user.Role, user.EmailVerified)
	if err != nil {
		s.logger.Error("failed to issue session token", slog.String("user_id", user.ID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.auditLogger.LogAuthAttempt(pkglogger.AuditEvent{
		EventType: "signup",
		UserID:    user.ID,
		Success:   true,
	})

	return &AuthResult{User: user, Token: token, EmailSent: emailSent}, nil
}

// Login authenticates an email/password pair. Unknown email and wrong
// password are indistinguishable to the caller; only a disabled account
// gets a distinct error.
func (s *IdentityService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, models.ErrUnauthorized
	}

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			s.logger.Info("login failed: invalid credentials")
			s.auditLogger.LogAuthAttempt(pkglogger.AuditEvent{
				EventType:     "login_failed",
				FailureReason: "invalid_credentials",
				Success:       false,
			})
			return nil, models.ErrUnauthorized
		}
		s.logger.Error("failed to get user by email", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	if user.Status == models.StatusDisabled {
		s.auditLogger.LogAuthAttempt(pkglogger.AuditEvent{
			EventType:     "login_failed",
			UserID:        user.ID,
			FailureReason: "account_disabled",
			Success:       false,
		})
		return nil, models.ErrAccountDisabled
	}

	// Federated-only accounts have no password hash; the generic error
	// keeps them indistinguishable from a wrong password.
	if user.PasswordHash == "" || !pkgauth.ComparePassword(user.PasswordHash, password) {
		s.auditLogger.LogAuthAttempt(pkglogger.AuditEvent{
			EventType:     "login_failed",
			UserID:        user.ID,
			FailureReason: "invalid_credentials",
			Success:       false,
		})
		return nil, models.ErrUnauthorized
	}

	if err := s.repo.StampLastLogin(ctx, user.ID); err != nil {
		s.logger.Warn("failed to stamp last login", slog.String("user_id", user.ID), slog.Any("error", err))
	}

	token, err := s.tm.Issue(user.ID, user.Email, user.Role, user.EmailVerified)
	if err != nil {
		s.logger.Error("failed to issue session token", slog.String("user_id", user.ID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.auditLogger.LogAuthAttempt(pkglogger.AuditEvent{
		EventType: "login",
		UserID:    user.ID,
		Success:   true,
	})

	return &AuthResult{User: user, Token: token}, nil
}

// VerifyEmail redeems a verification ticket. Redeeming an already-used
// ticket on a verified account reports ErrAlreadyVerified so the caller
// can treat it as a no-op rather than a failure.
func (s *IdentityService) VerifyEmail(ctx context.Context, token string) (*models.User, error) {
	user, err := s.tickets.Redeem(ctx, token)
	if err != nil {
		if errors.Is(err, models.ErrAlreadyVerified) {
			return user, models.ErrAlreadyVerified
		}
		return nil, err
	}

	// Welcome mail is best effort; verification already succeeded.
	if mailErr := s.mailer.SendWelcomeEmail(ctx, user.Email, user.FirstName); mailErr != nil {
		s.logger.Warn("failed to send welcome email",
			slog.String("user_id", user.ID), slog.Any("error", mailErr))
	}

	s.auditLogger.LogAccountAction("email_verified", user.ID)

	return user, nil
}

// ResendVerification rotates the user's verification ticket and emails a
// fresh link. Unlike signup, a failed send here is fatal: the whole point
// of the call is the email.
func (s *IdentityService) ResendVerification(ctx context.Context, email string) error {
	email = normalizeEmail(email)

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.ErrNotFound
		}
		s.logger.Error("failed to get user by email", slog.Any("error", err))
		return models.ErrInternalServer
	}

	if user.EmailVerified {
		return models.ErrAlreadyVerified
	}

	token, err := s.tickets.Issue(ctx, user.ID)
	if err != nil {
		s.logger.Error("failed to issue verification ticket",
			slog.String("user_id", user.ID), slog.Any("error", err))
		return models.ErrInternalServer
	}

	if err := s.mailer.SendVerificationEmail(ctx, user.Email, token); err != nil {
		return models.ErrSendFailed
	}

	return nil
}

// GoogleSignIn verifies a Google ID token and signs the asserted identity
// in, creating an account on first use or linking to an existing account
// with the same email.
func (s *IdentityService) GoogleSignIn(ctx context.Context, rawIDToken string) (*AuthResult, error) {
	identity, err := s.google.Verify(ctx, rawIDToken)
	if err != nil {
		s.logger.Info("google sign-in rejected", slog.Any("error", err))
		s.auditLogger.LogAuthAttempt(pkglogger.AuditEvent{
			EventType:     "google_login_failed",
			FailureReason: "id_token_rejected",
			Success:       false,
		})
		return nil, models.ErrExternalTokenRejected
	}

	email := normalizeEmail(identity.Email)

	user, err := s.repo.GetByEmail(ctx, email)
	switch {
	case err == nil:
		if user.Status == models.StatusDisabled {
			return nil, models.ErrAccountDisabled
		}
		if user.GoogleSub == nil {
			if err := s.repo.LinkGoogleSub(ctx, user.ID, identity.Subject); err != nil {
				s.logger.Error("failed to link google subject",
					slog.String("user_id", user.ID), slog.Any("error", err))
				return nil, models.ErrInternalServer
			}
			user.GoogleSub = &identity.Subject
		} else if *user.GoogleSub != identity.Subject {
			// Same email, different Google account: refuse rather than rebind.
			s.logger.Warn("google subject mismatch", slog.String("user_id", user.ID))
			return nil, models.ErrUnauthorized
		}
		// Google asserts ownership of the address; honor it.
		if !user.EmailVerified {
			if err := s.repo.MarkEmailVerified(ctx, user.ID); err != nil {
				s.logger.Error("failed to mark email verified",
					slog.String("user_id", user.ID), slog.Any("error", err))
				return nil, models.ErrInternalServer
			}
			user.EmailVerified = true
		}
	case errors.Is(err, models.ErrNotFound):
		firstName, lastName := splitDisplayName(identity.Name)
		role := models.RoleClient
		if s.adminEmail != "" && email == s.adminEmail {
			role = models.RoleAdmin
		}
		sub := identity.Subject
		user, err = s.repo.Create(ctx, &models.User{
			Email:         email,
			FirstName:     firstName,
			LastName:      lastName,
			Role:          role,
			Roles:         []string{role},
			EmailVerified: true,
			GoogleSub:     &sub,
		})
		if err != nil {
			if errors.Is(err, models.ErrConflict) {
				return nil, models.ErrConflict
			}
			s.logger.Error("failed to create user from google identity", slog.Any("error", err))
			return nil, models.ErrInternalServer
		}
	default:
		s.logger.Error("failed to get user by email", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	if err := s.repo.StampLastLogin(ctx, user.ID); err != nil {
		s.logger.Warn("failed to stamp last login", slog.String("user_id", user.ID), slog.Any("error", err))
	}

	token, err := s.tm.Issue(user.ID, user.Email, user.Role, user.EmailVerified)
	if err != nil {
		s.logger.Error("failed to issue session token", slog.String("user_id", user.ID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.auditLogger.LogAuthAttempt(pkglogger.AuditEvent{
		EventType: "google_login",
		UserID:    user.ID,
		Success:   true,
	})

	return &AuthResult{User: user, Token: token}, nil
}

// issueAndSendTicket mints a verification ticket and mails it, reporting
// whether the mail went out. Ticket or mail failure never fails signup.
func (s *IdentityService) issueAndSendTicket(ctx context.Context, user *models.User) bool {
	token, err := s.tickets.Issue(ctx, user.ID)
	if err != nil {
		s.logger.Error("failed to issue verification ticket",
			slog.String("user_id", user.ID), slog.Any("error", err))
		return false
	}

	if err := s.mailer.SendVerificationEmail(ctx, user.Email, token); err != nil {
		s.logger.Warn("failed to send verification email",
			slog.String("user_id", user.ID), slog.Any("error", err))
		return false
	}

	return true
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func splitDisplayName(name string) (first, last string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ""
	}
	if before, after, found := strings.Cut(name, " "); found {
		return before, strings.TrimSpace(after)
	}
	return name, ""
}
