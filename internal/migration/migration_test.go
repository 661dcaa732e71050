package migration

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStepsAreIdempotent(t *testing.T) {
	steps := NewRunner().Steps()
	assert.NotEmpty(t, steps)
	assert.Equal(t, "create imports table", steps[0].Name)

	for _, step := range steps {
		sql := strings.ToUpper(step.SQL)
		assert.True(t,
			strings.Contains(sql, "IF NOT EXISTS"),
			"step %q must be safe to run twice", step.Name)
	}
}

func TestImportsTableCoversRepositoryColumns(t *testing.T) {
	var schema strings.Builder
	for _, step := range NewRunner().Steps() {
		schema.WriteString(step.SQL)
	}
	for _, col := range []string{
		"id", "original_filename", "format", "content_hash", "size_bytes", "status", "error_message",
		"table_count", "row_count", "warnings", "tables", "duration_ms", "created_at",
	} {
		assert.Contains(t, schema.String(), col)
	}
}
