package service

import (
	"context"
	"errors"
	"log/slog"
	"procurement-marketplace-api/internal/repo"
	"procurement-marketplace-api/internal/repo/repo_errors"
	"time"

	"github.com/jonboulle/clockwork"
)

// LifecycleCloser periodically sweeps published opportunities whose proposal
// deadline has passed and moves each one into Evaluation, together with its
// submitted proposals, one transaction per opportunity.
type LifecycleCloser struct {
	opportunityRepo repo.Opportunity
	clock           clockwork.Clock
	interval        time.Duration
	logger          *slog.Logger
}

func NewLifecycleCloser(repos *repo.Repositories, clock clockwork.Clock, interval time.Duration, logger *slog.Logger) *LifecycleCloser {
	return &LifecycleCloser{
		opportunityRepo: repos.Opportunity,
		clock:           clock,
		interval:        interval,
		logger:          logger,
	}
}

func (c *LifecycleCloser) Run(ctx context.Context) {
	ticker := c.clock.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			c.Sweep(ctx)
		}
	}
}

func (c *LifecycleCloser) Sweep(ctx context.Context) {
	now := c.clock.Now()

	ids, err := c.opportunityRepo.ListExpiredPublished(ctx, now)
	if err != nil {
		c.logger.Error("listing expired opportunities", "error", err)
		return
	}

	for _, id := range ids {
		if err := c.opportunityRepo.BeginEvaluation(ctx, id, now); err != nil {
			// ErrNotFound means the opportunity was transitioned between the
			// listing and the per-opportunity transaction; nothing to do.
			if errors.Is(err, repo_errors.ErrNotFound) {
				continue
			}
			c.logger.Error("moving opportunity to evaluation", "opportunityId", id, "error", err)
			continue
		}
		c.logger.Info("opportunity moved to evaluation", "opportunityId", id)
	}
}
