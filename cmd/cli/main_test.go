package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"gridimport/domain/table"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func sampleResult() *table.ParseResult {
	return &table.ParseResult{
		Warnings: []string{`sheet "Empty" has no data and was skipped`},
		Tables: []table.Table{{
			TableName: "Sheet1",
			ColumnMetadata: []table.ColumnMetadata{
				{ID: "amount", Type: table.ColumnNumeric},
				{ID: "when", Type: table.ColumnDate},
			},
			TableData: [][]table.Value{
				{table.Number(1.5), table.Text("")},
				{table.Number(1568851200), table.Null()},
			},
		}},
	}
}

func TestRenderJSON(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, render(&out, "json", "book.xlsx", sampleResult()))

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(out.Bytes(), &doc))
	assert.Len(t, doc["warnings"], 1)
	assert.Contains(t, out.String(), `"table_data"`)
	assert.Contains(t, out.String(), "null")
}

func TestRenderYAML(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, render(&out, "yaml", "book.xlsx", sampleResult()))

	var doc map[string]interface{}
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &doc))
	assert.Contains(t, doc, "tables")
	assert.Contains(t, out.String(), "table_name: Sheet1")
}

func TestRenderMarkdown(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, render(&out, "markdown", "book.xlsx", sampleResult()))
	assert.Contains(t, out.String(), "# Import report: book.xlsx")
	assert.Contains(t, out.String(), "Numeric")
}

func TestRenderUnknownFormat(t *testing.T) {
	assert.Error(t, render(&bytes.Buffer{}, "xml", "book.xlsx", sampleResult()))
}
