package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"testing"
	"time"

	"github.com/rmendiola/belleza/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestVerificationService(users VerificationUserStore, ttl time.Duration) *VerificationService {
	return NewVerificationService(users, ttl, slog.Default())
}

func TestVerificationService_Issue_StoresDigestNotPlaintext(t *testing.T) {
	var storedHash string
	var storedExpiry time.Time

	repo := &MockUserRepository{
		SetVerificationTicketFunc: func(ctx context.Context, id, tokenHash string, expiresAt time.Time) error {
			storedHash = tokenHash
			storedExpiry = expiresAt
			return nil
		},
	}

	svc := newTestVerificationService(repo, 24*time.Hour)

	token, err := svc.Issue(context.Background(), "user-1")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	digest := sha256.Sum256([]byte(token))
	assert.Equal(t, hex.EncodeToString(digest[:]), storedHash)
	assert.NotEqual(t, token, storedHash)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), storedExpiry, 5*time.Second)
}

func TestVerificationService_Issue_TokensAreUnique(t *testing.T) {
	repo := &MockUserRepository{}
	svc := newTestVerificationService(repo, 24*time.Hour)

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		token, err := svc.Issue(context.Background(), "user-1")
		require.NoError(t, err)
		assert.False(t, seen[token], "duplicate ticket generated")
		seen[token] = true
	}
}

func TestVerificationService_Redeem_Success(t *testing.T) {
	var storedHash string
	marked := ""
	expiry := time.Now().Add(24 * time.Hour)

	repo := &MockUserRepository{
		SetVerificationTicketFunc: func(ctx context.Context, id, tokenHash string, expiresAt time.Time) error {
			storedHash = tokenHash
			return nil
		},
		GetByVerificationTokenHashFunc: func(ctx context.Context, tokenHash string) (*models.User, error) {
			if tokenHash != storedHash {
				return nil, models.ErrNotFound
			}
			return &models.User{
				ID:                    "user-1",
				Email:                 "ana@example.com",
				VerificationTokenHash: &storedHash,
				VerificationExpiresAt: &expiry,
			}, nil
		},
		MarkEmailVerifiedFunc: func(ctx context.Context, id string) error {
			marked = id
			return nil
		},
	}
	svc := newTestVerificationService(repo, 24*time.Hour)

	token, err := svc.Issue(context.Background(), "user-1")
	require.NoError(t, err)

	user, err := svc.Redeem(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", marked)
	assert.True(t, user.EmailVerified)
	assert.Nil(t, user.VerificationTokenHash)
}

func TestVerificationService_Redeem_UnknownTicket(t *testing.T) {
	svc := newTestVerificationService(&MockUserRepository{}, 24*time.Hour)

	_, err := svc.Redeem(context.Background(), "never-issued")
	assert.ErrorIs(t, err, models.ErrTicketInvalid)
}

func TestVerificationService_Redeem_EmptyTicket(t *testing.T) {
	svc := newTestVerificationService(&MockUserRepository{}, 24*time.Hour)

	_, err := svc.Redeem(context.Background(), "")
	assert.ErrorIs(t, err, models.ErrTicketInvalid)
}

func TestVerificationService_Redeem_ExpiredTicket(t *testing.T) {
	expiry := time.Now().Add(-time.Minute)
	hash := hashVerificationToken("old-ticket")

	repo := &MockUserRepository{
		GetByVerificationTokenHashFunc: func(ctx context.Context, tokenHash string) (*models.User, error) {
			return &models.User{
				ID:                    "user-1",
				VerificationTokenHash: &hash,
				VerificationExpiresAt: &expiry,
			}, nil
		},
	}

	svc := newTestVerificationService(repo, 24*time.Hour)

	_, err := svc.Redeem(context.Background(), "old-ticket")
	assert.ErrorIs(t, err, models.ErrTicketInvalid)
}

func TestVerificationService_Redeem_ExactExpiryStillValid(t *testing.T) {
	// A ticket expiring at exactly the current instant must still redeem
	frozen := time.Now().Truncate(time.Second)
	hash := hashVerificationToken("boundary-ticket")

	repo := &MockUserRepository{
		GetByVerificationTokenHashFunc: func(ctx context.Context, tokenHash string) (*models.User, error) {
			expiry := frozen
			return &models.User{
				ID:                    "user-1",
				VerificationTokenHash: &hash,
				VerificationExpiresAt: &expiry,
			}, nil
		},
	}

	svc := newTestVerificationService(repo, 24*time.Hour)
	svc.now = func() time.Time { return frozen }

	_, err := svc.Redeem(context.Background(), "boundary-ticket")
	assert.NoError(t, err)
}

func TestVerificationService_Redeem_AlreadyVerified(t *testing.T) {
	repo := &MockUserRepository{
		GetByVerificationTokenHashFunc: func(ctx context.Context, tokenHash string) (*models.User, error) {
			return &models.User{ID: "user-1", EmailVerified: true}, nil
		},
	}

	svc := newTestVerificationService(repo, 24*time.Hour)

	user, err := svc.Redeem(context.Background(), "stale-ticket")
	assert.ErrorIs(t, err, models.ErrAlreadyVerified)
	require.NotNil(t, user)
	assert.Equal(t, "user-1", user.ID)
}

func TestVerificationService_Issue_RotationReplacesHash(t *testing.T) {
	var hashes []string

	repo := &MockUserRepository{
		SetVerificationTicketFunc: func(ctx context.Context, id, tokenHash string, expiresAt time.Time) error {
			hashes = append(hashes, tokenHash)
			return nil
		},
	}

	svc := newTestVerificationService(repo, 24*time.Hour)

	_, err := svc.Issue(context.Background(), "user-1")
	require.NoError(t, err)
	_, err = svc.Issue(context.Background(), "user-1")
	require.NoError(t, err)

	require.Len(t, hashes, 2)
	assert.NotEqual(t, hashes[0], hashes[1])
}
