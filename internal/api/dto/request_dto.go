package dto

import (
	"time"

	"github.com/spec-kit/frontdesk-service/internal/domain"
)

// SimulateCallRequest payload for an incoming caller question.
type SimulateCallRequest struct {
	Question string  `json:"question"`
	CallerID *string `json:"caller_id"`
}

// CreateRequestRequest payload for direct escalation.
type CreateRequestRequest struct {
	Question string  `json:"question"`
	CallerID *string `json:"caller_id"`
}

// ResolveRequestRequest payload for a supervisor answer.
type ResolveRequestRequest struct {
	Answer string `json:"answer"`
}

// CallOutcomeResponse reports how a simulated call was handled.
type CallOutcomeResponse struct {
	Status    string `json:"status"`
	Answer    string `json:"answer,omitempty"`
	Source    string `json:"source,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// HelpRequestResponse is the serialized help request record.
type HelpRequestResponse struct {
	ID                 string               `json:"id"`
	Question           string               `json:"question"`
	CallerID           *string              `json:"caller_id"`
	Status             domain.RequestStatus `json:"status"`
	CreatedAt          time.Time            `json:"created_at"`
	ResolvedAt         *time.Time           `json:"resolved_at"`
	SupervisorResponse *string              `json:"supervisor_response"`
}
