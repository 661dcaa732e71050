package core

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNewIDUniqueness tests that NewID generates unique identifiers
func TestNewIDUniqueness(t *testing.T) {
	const numIDs = 10000

	ids := make(map[ID]bool, numIDs)
	for i := 0; i < numIDs; i++ {
		id := NewID()
		require.False(t, id.IsEmpty(), "generated empty ID at iteration %d", i)
		require.False(t, ids[id], "generated duplicate ID: %s", id)
		ids[id] = true
	}
	assert.Len(t, ids, numIDs)
}

func TestIDIsEmpty(t *testing.T) {
	assert.True(t, ID("").IsEmpty())
	assert.False(t, ID("not-empty").IsEmpty())
}

func TestParseImportID(t *testing.T) {
	generated := NewImportID()

	tests := []struct {
		input    string
		expected ImportID
		hasError bool
	}{
		{generated.String(), generated, false},
		{"  " + generated.String() + " ", generated, false},
		{"", "", true},
		{"   ", "", true},
		{"not-a-uuid", "", true},
	}

	for _, tt := range tests {
		got, err := ParseImportID(tt.input)
		if tt.hasError {
			assert.Error(t, err, "input %q", tt.input)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.expected, got)
	}
}

func TestHash(t *testing.T) {
	h := NewHash([]byte("abc"))
	assert.Equal(t, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad", h.String())
	assert.Equal(t, "ba7816bf8f01", h.Short())

	fromReader, err := HashReader(strings.NewReader("abc"))
	require.NoError(t, err)
	assert.Equal(t, h, fromReader)
}

func TestErrorClassification(t *testing.T) {
	err := NewUnsupportedFormatError("notes.txt", ".txt")
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))
	assert.True(t, IsInputError(err))
	assert.False(t, IsNotFoundError(err))

	assert.True(t, IsNotFoundError(NewNotFoundError("import", "42")))
	assert.True(t, IsNotFoundError(ErrImportNotFound))
	assert.Contains(t, NewUnsupportedFormatError("README", "").Error(), "no extension")
}
