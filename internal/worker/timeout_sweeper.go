package worker

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/frontdesk-service/internal/domain"
	"github.com/spec-kit/frontdesk-service/internal/events"
	"github.com/spec-kit/frontdesk-service/internal/observability"
	"github.com/spec-kit/frontdesk-service/internal/repository"
)

// TimeoutSweeper periodically marks stale Pending help requests as
// Unresolved. It races the resolution path on each request; the conditional
// update in the repository guarantees exactly one terminal transition wins.
// A failed sweep is logged and retried on the next tick, never fatal.
type TimeoutSweeper struct {
	requests   repository.HelpRequestRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
	metrics    *observability.Metrics
	timeout    time.Duration

	now func() time.Time
}

// NewTimeoutSweeper constructs the sweeper.
func NewTimeoutSweeper(requests repository.HelpRequestRepository, dispatcher events.Dispatcher, logger *zap.Logger, metrics *observability.Metrics, timeout time.Duration) *TimeoutSweeper {
	return &TimeoutSweeper{
		requests:   requests,
		dispatcher: dispatcher,
		logger:     logger,
		metrics:    metrics,
		timeout:    timeout,
		now:        time.Now,
	}
}

// Run blocks sweeping on the given scheduler until ctx is canceled. The
// sweeper is daemon-style: there is nothing to drain on shutdown since every
// sweep re-evaluates from the store.
func (s *TimeoutSweeper) Run(ctx context.Context, scheduler Scheduler, interval time.Duration) {
	s.logger.Info("timeout sweeper started",
		zap.Duration("interval", interval),
		zap.Duration("timeout", s.timeout))
	scheduler.Schedule(ctx, interval, s.Sweep)
	s.logger.Info("timeout sweeper stopped")
}

// Sweep performs one pass: every request still Pending past its deadline is
// moved to Unresolved in a single batch update.
func (s *TimeoutSweeper) Sweep(ctx context.Context) {
	now := s.now().UTC()
	expired, err := s.requests.ExpireOlderThan(ctx, now.Add(-s.timeout), now)
	if err != nil {
		s.logger.Error("sweep failed, will retry next tick", zap.Error(err))
		return
	}
	if expired == 0 {
		return
	}

	s.logger.Info("marked stale requests unresolved", zap.Int64("count", expired))
	s.metrics.RecordExpired(expired)
	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventRequestExpired,
			Timestamp: now,
			Payload: events.RequestExpiredPayload{
				ExpiredCount: expired,
				NewStatus:    domain.RequestStatusUnresolved,
			},
		})
	}
}
