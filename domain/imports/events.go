package imports

import (
	"time"

	"gridimport/domain/core"
)

// EventType names a step in an import's life
type EventType string

const (
	EventStarted   EventType = "import.started"
	EventCompleted EventType = "import.completed"
	EventFailed    EventType = "import.failed"
)

// Event is published as imports progress
type Event struct {
	Type       EventType     `json:"event_type"`
	ImportID   core.ImportID `json:"import_id"`
	Filename   string        `json:"filename"`
	TableCount int           `json:"table_count,omitempty"`
	Warnings   int           `json:"warnings,omitempty"`
	Error      string        `json:"error,omitempty"`
	Timestamp  time.Time     `json:"timestamp"`
}
