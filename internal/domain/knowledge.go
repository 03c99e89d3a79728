package domain

import "time"

// KnowledgeEntry maps one exact question text to a learned answer. Entries are
// created or overwritten by resolutions only and are never deleted.
type KnowledgeEntry struct {
	ID       string
	Question string
	Answer   string
	AddedOn  time.Time
}
