package dto

import "time"

// KnowledgeEntryResponse is the serialized learned entry.
type KnowledgeEntryResponse struct {
	ID       string    `json:"id"`
	Question string    `json:"question"`
	Answer   string    `json:"answer"`
	AddedOn  time.Time `json:"added_on"`
}
