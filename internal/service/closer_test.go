package service

import (
	"context"
	"io"
	"log/slog"
	"procurement-marketplace-api/internal/repo"
	"procurement-marketplace-api/internal/repo/repo_errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCloser(opportunityRepo *fakeOpportunityRepo, clock clockwork.Clock) *LifecycleCloser {
	repos := &repo.Repositories{Opportunity: opportunityRepo}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewLifecycleCloser(repos, clock, time.Minute, logger)
}

func TestSweepMovesExpiredToEvaluation(t *testing.T) {
	first := uuid.New()
	second := uuid.New()
	opportunityRepo := &fakeOpportunityRepo{expired: []uuid.UUID{first, second}}

	closer := newTestCloser(opportunityRepo, clockwork.NewFakeClock())
	closer.Sweep(context.Background())

	assert.Equal(t, []uuid.UUID{first, second}, opportunityRepo.evaluated)
}

func TestSweepSkipsAlreadyTransitioned(t *testing.T) {
	gone := uuid.New()
	remaining := uuid.New()
	opportunityRepo := &fakeOpportunityRepo{
		expired:       []uuid.UUID{gone, remaining},
		evaluationErr: map[uuid.UUID]error{gone: repo_errors.ErrNotFound},
	}

	closer := newTestCloser(opportunityRepo, clockwork.NewFakeClock())
	closer.Sweep(context.Background())

	assert.Equal(t, []uuid.UUID{remaining}, opportunityRepo.evaluated)
}

func TestRunSweepsOnEveryTick(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	clock := clockwork.NewFakeClock()
	opportunityRepo := &fakeOpportunityRepo{listed: make(chan struct{}, 2)}
	closer := newTestCloser(opportunityRepo, clock)

	done := make(chan struct{})
	go func() {
		closer.Run(ctx)
		close(done)
	}()

	require.NoError(t, clock.BlockUntilContext(ctx, 1))

	clock.Advance(time.Minute)
	select {
	case <-opportunityRepo.listed:
	case <-ctx.Done():
		t.Fatal("first sweep never ran")
	}

	clock.Advance(time.Minute)
	select {
	case <-opportunityRepo.listed:
	case <-ctx.Done():
		t.Fatal("second sweep never ran")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("closer did not stop on context cancel")
	}
}
