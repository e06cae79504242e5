package background

import (
	"context"
	"log/slog"
	"time"

	"github.com/rmendiola/belleza/internal/repositories"
)

// CleanupManager periodically clears expired verification tickets so stale
// digests do not accumulate on unverified accounts.
type CleanupManager struct {
	userRepo *repositories.UserRepository
	logger   *slog.Logger
	interval time.Duration
	stopCh   chan struct{}
}

// NewCleanupManager creates a new cleanup manager
func NewCleanupManager(
	userRepo *repositories.UserRepository,
	logger *slog.Logger,
	interval time.Duration,
) *CleanupManager {
	return &CleanupManager{
		userRepo: userRepo,
		logger:   logger,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the periodic cleanup task
func (cm *CleanupManager) Start(ctx context.Context) {
	ticker := time.NewTicker(cm.interval)
	defer ticker.Stop()

	// Run immediately on startup
	cm.runCleanup(ctx)

	for {
		select {
		case <-ticker.C:
			cm.runCleanup(ctx)
		case <-cm.stopCh:
			cm.logger.Info("cleanup manager stopped")
			return
		case <-ctx.Done():
			cm.logger.Info("cleanup manager context cancelled")
			return
		}
	}
}

func (cm *CleanupManager) runCleanup(ctx context.Context) {
	cleanupCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	cleared, err := cm.userRepo.ClearExpiredTickets(cleanupCtx)
	if err != nil {
		cm.logger.Error("failed to clear expired verification tickets", slog.Any("error", err))
		return
	}

	if cleared > 0 {
		cm.logger.Info("expired verification tickets cleared", slog.Int64("rows", cleared))
	}
}

// Stop signals the cleanup manager to stop
func (cm *CleanupManager) Stop() {
	close(cm.stopCh)
}
