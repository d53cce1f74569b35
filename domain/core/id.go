package core

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// ID represents a domain identifier
type ID string

// NewID creates a new unique identifier using UUID v7 for time-ordered generation
func NewID() ID {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to v4 if v7 fails
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

// RelationName is the caller-chosen name of a persisted table. It doubles as a
// SQL identifier in the Postgres store, so it is restricted to a conservative
// character set.
type RelationName string

var relationNamePattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]{0,62}$`)

// ParseRelationName validates and returns a RelationName
func ParseRelationName(s string) (RelationName, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("relation name cannot be empty")
	}
	if !relationNamePattern.MatchString(s) {
		return "", fmt.Errorf("invalid relation name %q: must match %s", s, relationNamePattern.String())
	}
	return RelationName(s), nil
}

func (n RelationName) String() string { return string(n) }
