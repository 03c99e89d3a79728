package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/frontdesk-service/internal/domain"
	"github.com/spec-kit/frontdesk-service/internal/events"
	"github.com/spec-kit/frontdesk-service/internal/repository"
	apperrors "github.com/spec-kit/frontdesk-service/pkg/util"
)

// EscalationService creates help requests for questions the agent could not
// answer and announces them to the supervisor channel.
type EscalationService struct {
	requests   repository.HelpRequestRepository
	dispatcher events.Dispatcher
}

// NewEscalationService constructs the service.
func NewEscalationService(requests repository.HelpRequestRepository, dispatcher events.Dispatcher) *EscalationService {
	return &EscalationService{requests: requests, dispatcher: dispatcher}
}

// Escalate records a new Pending help request and publishes the escalation
// event. A persistence failure is a hard error; nothing is recorded and the
// caller must re-attempt.
func (s *EscalationService) Escalate(ctx context.Context, question string, callerID *string) (*domain.HelpRequest, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, apperrors.NewValidationError("question required", nil)
	}

	req := &domain.HelpRequest{
		ID:        uuid.NewString(),
		Question:  question,
		CallerID:  callerID,
		Status:    domain.RequestStatusPending,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.requests.Create(ctx, req); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:      events.EventRequestEscalated,
		RequestID: req.ID,
		Payload: events.RequestEscalatedPayload{
			Question: req.Question,
			CallerID: req.CallerID,
		},
	})
	return req, nil
}

// GetRequest fetches a single help request.
func (s *EscalationService) GetRequest(ctx context.Context, id string) (*domain.HelpRequest, error) {
	return s.requests.GetByID(ctx, id)
}

// ListPending returns pending requests, newest first.
func (s *EscalationService) ListPending(ctx context.Context) ([]domain.HelpRequest, error) {
	return s.requests.ListPending(ctx)
}

// ListFinished returns requests in a terminal status, newest first.
func (s *EscalationService) ListFinished(ctx context.Context, limit int) ([]domain.HelpRequest, error) {
	return s.requests.ListFinished(ctx, limit)
}

// ListAll returns all requests regardless of status, newest first.
func (s *EscalationService) ListAll(ctx context.Context, limit int) ([]domain.HelpRequest, error) {
	return s.requests.ListAll(ctx, limit)
}

func (s *EscalationService) publishEvent(ctx context.Context, event events.Event) {
	publishEvent(ctx, s.dispatcher, event)
}
