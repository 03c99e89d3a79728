package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/frontdesk-service/internal/domain"
	"github.com/spec-kit/frontdesk-service/internal/events"
	"github.com/spec-kit/frontdesk-service/internal/repository"
	apperrors "github.com/spec-kit/frontdesk-service/pkg/util"
)

// ResolutionService applies a supervisor's answer to a pending help request
// and absorbs it into the knowledge base.
type ResolutionService struct {
	requests   repository.HelpRequestRepository
	dispatcher events.Dispatcher
}

// NewResolutionService constructs the service.
func NewResolutionService(requests repository.HelpRequestRepository, dispatcher events.Dispatcher) *ResolutionService {
	return &ResolutionService{requests: requests, dispatcher: dispatcher}
}

// Resolve transitions the request to Resolved and merges the answer into the
// knowledge base, atomically. A request that already reached a terminal
// status, whether through the sweeper or a duplicate submission, yields an
// already-resolved conflict and no state change. Caller notification rides on
// the published event and is best-effort; it never rolls back the resolution.
func (s *ResolutionService) Resolve(ctx context.Context, requestID, answer string) (*domain.HelpRequest, error) {
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return nil, apperrors.NewValidationError("answer required", nil)
	}

	req, err := s.requests.ResolvePending(ctx, requestID, answer, time.Now().UTC())
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return nil, apperrors.NewNotFound("help request", map[string]any{"request_id": requestID})
		case errors.Is(err, repository.ErrNotPending):
			return nil, apperrors.NewAlreadyResolved(map[string]any{"request_id": requestID})
		default:
			return nil, err
		}
	}

	s.publishEvent(ctx, events.Event{
		Type:      events.EventRequestResolved,
		RequestID: req.ID,
		Payload: events.RequestResolvedPayload{
			Question: req.Question,
			Answer:   answer,
			CallerID: req.CallerID,
		},
	})
	s.publishEvent(ctx, events.Event{
		Type:      events.EventKnowledgeLearned,
		RequestID: req.ID,
		Payload: events.KnowledgeLearnedPayload{
			Question: req.Question,
			Answer:   answer,
		},
	})
	return req, nil
}

func (s *ResolutionService) publishEvent(ctx context.Context, event events.Event) {
	publishEvent(ctx, s.dispatcher, event)
}

func publishEvent(ctx context.Context, dispatcher events.Dispatcher, event events.Event) {
	if dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = dispatcher.Publish(ctx, event)
}
