package events

import (
	"time"

	"github.com/spec-kit/frontdesk-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventRequestEscalated EventType = "request_escalated"
	EventRequestResolved  EventType = "request_resolved"
	EventRequestExpired   EventType = "request_expired"
	EventKnowledgeLearned EventType = "knowledge_learned"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	RequestID string      `json:"request_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// RequestEscalatedPayload payload.
type RequestEscalatedPayload struct {
	Question string  `json:"question"`
	CallerID *string `json:"caller_id,omitempty"`
}

// RequestResolvedPayload payload.
type RequestResolvedPayload struct {
	Question string  `json:"question"`
	Answer   string  `json:"answer"`
	CallerID *string `json:"caller_id,omitempty"`
}

// RequestExpiredPayload payload.
type RequestExpiredPayload struct {
	ExpiredCount int64                `json:"expired_count"`
	NewStatus    domain.RequestStatus `json:"new_status"`
}

// KnowledgeLearnedPayload payload.
type KnowledgeLearnedPayload struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}
