package domain

import "time"

// RequestStatus enumerates lifecycle states for help requests.
type RequestStatus string

const (
	RequestStatusPending    RequestStatus = "Pending"
	RequestStatusResolved   RequestStatus = "Resolved"
	RequestStatusUnresolved RequestStatus = "Unresolved"
)

// Terminal reports whether the status permits no further transition.
func (s RequestStatus) Terminal() bool {
	return s == RequestStatusResolved || s == RequestStatusUnresolved
}

// HelpRequest is the aggregate for one escalated caller question.
// A request is mutated exactly once: Pending to Resolved by a supervisor
// answer, or Pending to Unresolved by the timeout sweeper. ResolvedAt is set
// at that terminal transition; SupervisorResponse only on Resolved.
type HelpRequest struct {
	ID                 string
	Question           string
	CallerID           *string
	Status             RequestStatus
	CreatedAt          time.Time
	ResolvedAt         *time.Time
	SupervisorResponse *string
}
