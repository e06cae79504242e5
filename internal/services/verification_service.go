package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"

	"github.com/rmendiola/belleza/internal/models"
)

const verificationTokenBytes = 32

// VerificationUserStore is the slice of the user repository the ticket
// manager needs.
type VerificationUserStore interface {
	GetByVerificationTokenHash(ctx context.Context, tokenHash string) (*models.User, error)
	SetVerificationTicket(ctx context.Context, id, tokenHash string, expiresAt time.Time) error
	MarkEmailVerified(ctx context.Context, id string) error
}

// VerificationService manages email-ownership verification tickets. Each
// user holds at most one outstanding ticket; issuing a new one replaces
// the old. Only a SHA-256 digest of the ticket is stored.
type VerificationService struct {
	users  VerificationUserStore
	ttl    time.Duration
	logger *slog.Logger
	now    func() time.Time
}

func NewVerificationService(users VerificationUserStore, ttl time.Duration, logger *slog.Logger) *VerificationService {
	return &VerificationService{
		users:  users,
		ttl:    ttl,
		logger: logger,
		now:    time.Now,
	}
}

// Issue mints a fresh ticket for the user and persists its digest,
// rotating out any previously outstanding ticket. The returned plaintext
// is what goes into the verification link; it is never stored.
func (s *VerificationService) Issue(ctx context.Context, userID string) (string, error) {
	token, tokenHash, err := generateVerificationToken()
	if err != nil {
		return "", err
	}

	expiresAt := s.now().Add(s.ttl)
	if err := s.users.SetVerificationTicket(ctx, userID, tokenHash, expiresAt); err != nil {
		return "", fmt.Errorf("failed to store verification ticket: %w", err)
	}

	s.logger.Info("verification ticket issued",
		slog.String("user_id", userID),
		slog.Time("expires_at", expiresAt))

	return token, nil
}

// Redeem consumes a plaintext ticket and marks the owning user verified.
// Unknown and expired tickets both come back as ErrTicketInvalid; a ticket
// pointing at an already-verified user reports ErrAlreadyVerified.
func (s *VerificationService) Redeem(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, models.ErrTicketInvalid
	}

	user, err := s.users.GetByVerificationTokenHash(ctx, hashVerificationToken(token))
	if err != nil {
		// Unknown ticket and missing user look the same to the caller.
		return nil, models.ErrTicketInvalid
	}

	if user.EmailVerified {
		return user, models.ErrAlreadyVerified
	}

	if user.TicketExpired(s.now()) {
		return nil, models.ErrTicketInvalid
	}

	if err := s.users.MarkEmailVerified(ctx, user.ID); err != nil {
		return nil, fmt.Errorf("failed to mark email verified: %w", err)
	}

	user.EmailVerified = true
	user.VerificationTokenHash = nil
	user.VerificationExpiresAt = nil

	s.logger.Info("email verified", slog.String("user_id", user.ID))

	return user, nil
}

func generateVerificationToken() (token, tokenHash string, err error) {
	raw := make([]byte, verificationTokenBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", "", fmt.Errorf("failed to generate verification token: %w", err)
	}

	token = base64.RawURLEncoding.EncodeToString(raw)
	return token, hashVerificationToken(token), nil
}

func hashVerificationToken(token string) string {
	digest := sha256.Sum256([]byte(token))
	return hex.EncodeToString(digest[:])
}
