package core

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ID represents a domain identifier
type ID string

// NewID creates a new unique identifier using UUID v7 for time-ordered generation
func NewID() ID {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return ID(id.String())
}

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty
func (id ID) IsEmpty() bool {
	return id == ""
}

// ImportID identifies one parsed upload
type ImportID ID

func NewImportID() ImportID { return ImportID(NewID()) }

func (id ImportID) String() string { return ID(id).String() }

// ParseImportID parses a string into ImportID. Only UUIDs are accepted.
func ParseImportID(s string) (ImportID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("import ID cannot be empty")
	}
	parsed, err := uuid.Parse(s)
	if err != nil {
		return "", fmt.Errorf("invalid import ID %q: %w", s, err)
	}
	return ImportID(parsed.String()), nil
}
