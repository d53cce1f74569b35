package core

import (
	"testing"
)

// TestNewIDUniqueness tests that NewID generates unique identifiers
func TestNewIDUniqueness(t *testing.T) {
	const numIDs = 10000

	ids := make(map[ID]bool, numIDs)
	for i := 0; i < numIDs; i++ {
		id := NewID()
		if id.IsEmpty() {
			t.Errorf("Generated empty ID at iteration %d", i)
		}
		if ids[id] {
			t.Errorf("Generated duplicate ID: %s", id)
		}
		ids[id] = true
	}

	if len(ids) != numIDs {
		t.Errorf("Expected %d unique IDs, got %d", numIDs, len(ids))
	}
}

// TestIDString tests ID string conversion
func TestIDString(t *testing.T) {
	id := ID("test-123")
	if id.String() != "test-123" {
		t.Errorf("Expected String() to return 'test-123', got '%s'", id.String())
	}
}

// TestParseRelationName tests relation name validation
func TestParseRelationName(t *testing.T) {
	tests := []struct {
		input    string
		expected RelationName
		hasError bool
	}{
		{"cleaned_data", RelationName("cleaned_data"), false},
		{"  cleaned_data  ", RelationName("cleaned_data"), false},
		{"_private", RelationName("_private"), false},
		{"Table1", RelationName("Table1"), false},
		{"", "", true},
		{"   ", "", true},
		{"1table", "", true},
		{"bad-name", "", true},
		{"bad name", "", true},
		{"drop;table", "", true},
		{"café", "", true},
	}

	for _, test := range tests {
		result, err := ParseRelationName(test.input)
		if test.hasError && err == nil {
			t.Errorf("Expected error for input '%s', but got none", test.input)
		}
		if !test.hasError && err != nil {
			t.Errorf("Unexpected error for input '%s': %v", test.input, err)
		}
		if result != test.expected {
			t.Errorf("Expected %s, got %s", test.expected, result)
		}
	}
}

// TestParseRelationNameLength verifies the 63 character identifier cap
func TestParseRelationNameLength(t *testing.T) {
	long := make([]byte, 63)
	for i := range long {
		long[i] = 'a'
	}

	if _, err := ParseRelationName(string(long)); err != nil {
		t.Errorf("63 character name should be valid: %v", err)
	}
	if _, err := ParseRelationName(string(long) + "a"); err == nil {
		t.Error("64 character name should be rejected")
	}
}
