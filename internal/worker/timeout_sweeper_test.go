package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/frontdesk-service/internal/domain"
	"github.com/spec-kit/frontdesk-service/internal/events"
	"github.com/spec-kit/frontdesk-service/internal/observability"
	"github.com/spec-kit/frontdesk-service/internal/repository"
)

// sweepStore is a minimal in-memory HelpRequestRepository for sweeper tests.
type sweepStore struct {
	mu       sync.Mutex
	requests map[string]domain.HelpRequest
	failNext bool
}

func newSweepStore() *sweepStore {
	return &sweepStore{requests: make(map[string]domain.HelpRequest)}
}

func (s *sweepStore) add(id string, createdAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests[id] = domain.HelpRequest{
		ID:        id,
		Question:  "question " + id,
		Status:    domain.RequestStatusPending,
		CreatedAt: createdAt,
	}
}

func (s *sweepStore) status(id string) domain.RequestStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests[id].Status
}

func (s *sweepStore) ExpireOlderThan(ctx context.Context, cutoff, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failNext {
		s.failNext = false
		return 0, errors.New("store unavailable")
	}
	var expired int64
	for id, req := range s.requests {
		if req.Status == domain.RequestStatusPending && req.CreatedAt.Before(cutoff) {
			req.Status = domain.RequestStatusUnresolved
			req.ResolvedAt = &now
			s.requests[id] = req
			expired++
		}
	}
	return expired, nil
}

func (s *sweepStore) Create(ctx context.Context, req *domain.HelpRequest) error { return nil }

func (s *sweepStore) GetByID(ctx context.Context, id string) (*domain.HelpRequest, error) {
	return nil, pgx.ErrNoRows
}

func (s *sweepStore) ListPending(ctx context.Context) ([]domain.HelpRequest, error) {
	return nil, nil
}

func (s *sweepStore) ListFinished(ctx context.Context, limit int) ([]domain.HelpRequest, error) {
	return nil, nil
}

func (s *sweepStore) ListAll(ctx context.Context, limit int) ([]domain.HelpRequest, error) {
	return nil, nil
}

func (s *sweepStore) ResolvePending(ctx context.Context, id, answer string, now time.Time) (*domain.HelpRequest, error) {
	return nil, repository.ErrNotPending
}

// manualScheduler runs the task a fixed number of times, synchronously.
type manualScheduler struct {
	ticks int
}

func (m manualScheduler) Schedule(ctx context.Context, interval time.Duration, task func(context.Context)) {
	for i := 0; i < m.ticks; i++ {
		task(ctx)
	}
}

func newTestSweeper(store *sweepStore, dispatcher events.Dispatcher, timeout time.Duration, at time.Time) *TimeoutSweeper {
	sweeper := NewTimeoutSweeper(store, dispatcher, zap.NewNop(), observability.NewMetrics(), timeout)
	sweeper.now = func() time.Time { return at }
	return sweeper
}

func TestSweep_TimeoutBoundary(t *testing.T) {
	createdAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	timeout := 120 * time.Second

	tests := []struct {
		name string
		at   time.Time
		want domain.RequestStatus
	}{
		{
			name: "well before deadline",
			at:   createdAt.Add(10 * time.Second),
			want: domain.RequestStatusPending,
		},
		{
			name: "just before deadline",
			at:   createdAt.Add(timeout - time.Second),
			want: domain.RequestStatusPending,
		},
		{
			name: "exactly at deadline",
			at:   createdAt.Add(timeout),
			want: domain.RequestStatusPending,
		},
		{
			name: "past deadline",
			at:   createdAt.Add(timeout + time.Second),
			want: domain.RequestStatusUnresolved,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newSweepStore()
			store.add("req-1", createdAt)
			sweeper := newTestSweeper(store, nil, timeout, tt.at)

			sweeper.Sweep(context.Background())
			require.Equal(t, tt.want, store.status("req-1"))
		})
	}
}

func TestSweep_BatchExpiresOnlyStalePending(t *testing.T) {
	createdAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	timeout := 120 * time.Second
	store := newSweepStore()
	store.add("stale-1", createdAt)
	store.add("stale-2", createdAt.Add(time.Second))
	store.add("fresh", createdAt.Add(3*time.Minute))

	dispatcher := events.NewInMemoryDispatcher()
	var expiredEvents []events.Event
	dispatcher.Subscribe(events.EventRequestExpired, func(ctx context.Context, event events.Event) error {
		expiredEvents = append(expiredEvents, event)
		return nil
	})

	sweeper := newTestSweeper(store, dispatcher, timeout, createdAt.Add(3*time.Minute))
	sweeper.Sweep(context.Background())

	require.Equal(t, domain.RequestStatusUnresolved, store.status("stale-1"))
	require.Equal(t, domain.RequestStatusUnresolved, store.status("stale-2"))
	require.Equal(t, domain.RequestStatusPending, store.status("fresh"))

	require.Len(t, expiredEvents, 1)
	payload, ok := expiredEvents[0].Payload.(events.RequestExpiredPayload)
	require.True(t, ok)
	require.Equal(t, int64(2), payload.ExpiredCount)
}

func TestSweep_NoStaleRequestsPublishesNothing(t *testing.T) {
	store := newSweepStore()
	store.add("fresh", time.Now().UTC())

	dispatcher := events.NewInMemoryDispatcher()
	fired := false
	dispatcher.Subscribe(events.EventRequestExpired, func(ctx context.Context, event events.Event) error {
		fired = true
		return nil
	})

	sweeper := NewTimeoutSweeper(store, dispatcher, zap.NewNop(), observability.NewMetrics(), 120*time.Second)
	sweeper.Sweep(context.Background())
	require.False(t, fired)
}

func TestSweep_FailureIsRetriedNextTick(t *testing.T) {
	createdAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store := newSweepStore()
	store.add("stale", createdAt)
	store.failNext = true

	sweeper := newTestSweeper(store, nil, 120*time.Second, createdAt.Add(time.Hour))

	// First tick fails; the request stays Pending and nothing panics.
	sweeper.Sweep(context.Background())
	require.Equal(t, domain.RequestStatusPending, store.status("stale"))

	// Next tick succeeds.
	sweeper.Sweep(context.Background())
	require.Equal(t, domain.RequestStatusUnresolved, store.status("stale"))
}

func TestRun_SweepsOnEachTickUntilDone(t *testing.T) {
	createdAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store := newSweepStore()
	store.add("stale", createdAt)
	store.failNext = true

	sweeper := newTestSweeper(store, nil, 120*time.Second, createdAt.Add(time.Hour))
	sweeper.Run(context.Background(), manualScheduler{ticks: 2}, 10*time.Second)

	// Tick one failed, tick two recovered.
	require.Equal(t, domain.RequestStatusUnresolved, store.status("stale"))
}

func TestTickerScheduler_StopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var ticks int32
	done := make(chan struct{})

	go func() {
		NewTickerScheduler().Schedule(ctx, time.Millisecond, func(context.Context) {
			ticks++
		})
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop after context cancellation")
	}
}
