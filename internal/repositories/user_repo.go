package repositories

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/rmendiola/belleza/internal/database"
	"github.com/rmendiola/belleza/internal/models"
)

const userColumns = `id, email, password_hash, first_name, last_name, phone, role, roles,
		email_verified, sms_notifications, promo_code, verification_token_hash,
		verification_expires_at, google_sub, status, last_login_at, created_at, updated_at`

// UserRepository is the parameterized-query access layer for the users table.
type UserRepository struct {
	db *database.DB
}

func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{db: db}
}

// rowScanner interface for scanning user rows (single row or rows iterator)
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanUserRow(scanner rowScanner) (*models.User, error) {
	var user models.User
	var passwordHash, promoCode *string

	err := scanner.Scan(
		&user.ID, &user.Email, &passwordHash, &user.FirstName, &user.LastName,
		&user.Phone, &user.Role, pq.Array(&user.Roles),
		&user.EmailVerified, &user.SMSNotifications, &promoCode,
		&user.VerificationTokenHash, &user.VerificationExpiresAt,
		&user.GoogleSub, &user.Status, &user.LastLoginAt,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	if passwordHash != nil {
		user.PasswordHash = *passwordHash
	}
	if promoCode != nil {
		user.PromoCode = *promoCode
	}

	return &user, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUserRow(r.db.Pool.QueryRow(ctx, query, id))
}

// GetByEmail looks up a user case-insensitively.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE LOWER(email) = LOWER($1)`
	return scanUserRow(r.db.Pool.QueryRow(ctx, query, strings.TrimSpace(email)))
}

// GetByVerificationTokenHash finds the user holding the outstanding ticket.
func (r *UserRepository) GetByVerificationTokenHash(ctx context.Context, tokenHash string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE verification_token_hash = $1`
	return scanUserRow(r.db.Pool.QueryRow(ctx, query, tokenHash))
}

// Create inserts a new user row. The unique index on LOWER(email) is the
// authoritative duplicate guard; a violation comes back as ErrConflict.
func (r *UserRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	user.ID = uuid.New().String()

	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	if user.Role == "" {
		user.Role = models.RoleClient
	}
	if len(user.Roles) == 0 {
		user.Roles = []string{user.Role}
	}
	if user.Status == "" {
		user.Status = models.StatusActive
	}

	query := `
		INSERT INTO users (id, email, password_hash, first_name, last_name, phone, role, roles,
			email_verified, sms_notifications, promo_code, verification_token_hash,
			verification_expires_at, google_sub, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING ` + userColumns

	var passwordHash *string
	if user.PasswordHash != "" {
		passwordHash = &user.PasswordHash
	}

	return scanUserRow(r.db.Pool.QueryRow(ctx, query,
		user.ID, user.Email, passwordHash, user.FirstName, user.LastName,
		user.Phone, user.Role, pq.Array(user.Roles),
		user.EmailVerified, user.SMSNotifications, user.PromoCode,
		user.VerificationTokenHash, user.VerificationExpiresAt,
		user.GoogleSub, user.Status, user.CreatedAt, user.UpdatedAt,
	))
}

// UpdateProfile updates the mutable profile fields only.
func (r *UserRepository) UpdateProfile(ctx context.Context, id, firstName, lastName, phone string) (*models.User, error) {
	query := `
		UPDATE users SET first_name = $1, last_name = $2, phone = $3, updated_at = NOW()
		WHERE id = $4
		RETURNING ` + userColumns

	return scanUserRow(r.db.Pool.QueryRow(ctx, query, firstName, lastName, phone, id))
}

// StampLastLogin records a successful login.
func (r *UserRepository) StampLastLogin(ctx context.Context, id string) error {
	result, err := r.db.Pool.Exec(ctx,
		`UPDATE users SET last_login_at = NOW(), updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return database.MapPostgresError(err)
	}
	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// SetVerificationTicket stores a freshly issued (hashed) ticket, replacing
// any previous one. The rotation invalidates the old ticket atomically.
func (r *UserRepository) SetVerificationTicket(ctx context.Context, id, tokenHash string, expiresAt time.Time) error {
	result, err := r.db.Pool.Exec(ctx, `
		UPDATE users
		SET verification_token_hash = $1, verification_expires_at = $2, updated_at = NOW()
		WHERE id = $3`,
		tokenHash, expiresAt, id)
	if err != nil {
		return database.MapPostgresError(err)
	}
	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// MarkEmailVerified sets the verified flag and clears the outstanding
// ticket in one statement, so the ticket can never stay active on a
// verified account.
func (r *UserRepository) MarkEmailVerified(ctx context.Context, id string) error {
	result, err := r.db.Pool.Exec(ctx, `
		UPDATE users
		SET email_verified = TRUE, verification_token_hash = NULL,
			verification_expires_at = NULL, updated_at = NOW()
		WHERE id = $1`, id)
	if err != nil {
		return database.MapPostgresError(err)
	}
	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// LinkGoogleSub attaches the external subject id on first federated sign-in.
func (r *UserRepository) LinkGoogleSub(ctx context.Context, id, googleSub string) error {
	result, err := r.db.Pool.Exec(ctx, `
		UPDATE users SET google_sub = $1, updated_at = NOW()
		WHERE id = $2 AND google_sub IS NULL`,
		googleSub, id)
	if err != nil {
		return database.MapPostgresError(err)
	}
	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// ClearExpiredTickets removes verification tickets whose expiry has passed.
// Used by the background cleanup loop.
func (r *UserRepository) ClearExpiredTickets(ctx context.Context) (int64, error) {
	result, err := r.db.Pool.Exec(ctx, `
		UPDATE users
		SET verification_token_hash = NULL, verification_expires_at = NULL, updated_at = NOW()
		WHERE verification_token_hash IS NOT NULL AND verification_expires_at < NOW()`)
	if err != nil {
		return 0, fmt.Errorf("failed to clear expired tickets: %w", err)
	}
	return result.RowsAffected(), nil
}
