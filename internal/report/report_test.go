package report

import (
	"strings"
	"testing"
	"time"

	"gridimport/domain/table"
	"gridimport/internal/profiling"

	"github.com/stretchr/testify/assert"
)

func sampleInput() Input {
	tables := []table.Table{
		{
			TableName: "Sales",
			ColumnMetadata: []table.ColumnMetadata{
				{ID: "amount", Type: table.ColumnNumeric},
				{ID: "day", Type: table.ColumnDate},
				{ID: "", Type: table.ColumnAny},
			},
			TableData: [][]table.Value{
				{table.Number(4), table.Number(6.5)},
				{table.Number(1568851200), table.Null()},
				{table.Text("a|b"), table.Text("")},
			},
		},
		{TableName: "Notes_2019"},
	}
	return Input{
		Filename:  "sales.xlsx",
		ImportID:  "0190e5a4-0000-7000-8000-000000000000",
		CreatedAt: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		Warnings:  []string{`sheet "Sales" column "amount" row 9: 320150170634561830 exceeds float precision, kept as text`},
		Tables:    tables,
		Profiles:  profiling.NewProfiler().ProfileTables(tables),
	}
}

func TestMarkdown(t *testing.T) {
	md := Markdown(sampleInput())

	assert.Contains(t, md, "# Import report: sales.xlsx")
	assert.Contains(t, md, "- Import: `0190e5a4-0000-7000-8000-000000000000`")
	assert.Contains(t, md, "- Imported: 2024-03-01T12:00:00Z")
	assert.Contains(t, md, "exceeds float precision")

	assert.Contains(t, md, "## Sales")
	assert.Contains(t, md, "2 rows, 3 columns.")
	assert.Contains(t, md, "| 1 | amount | Numeric | 100% | 0 | 2 | 4 | 6.5 | 5.25 |")
	assert.Contains(t, md, "| 2 | day | Date | 50% | 0 | 1 | 2019-09-19 | 2019-09-19 |  |")
	assert.Contains(t, md, `| 3 | (unnamed) | Any | 50% | 0 | 1 |`)
	assert.Contains(t, md, `## Notes\_2019`)
	assert.Contains(t, md, "0 rows, 0 columns.")
}

func TestMarkdownWithoutWarnings(t *testing.T) {
	in := sampleInput()
	in.Warnings = nil
	assert.Contains(t, Markdown(in), "## Warnings\n\nNone.")
}

func TestHTMLContainsEveryTableAndType(t *testing.T) {
	in := sampleInput()
	out := string(HTML(in))

	assert.True(t, strings.HasPrefix(strings.TrimSpace(out), "<!DOCTYPE html>"))
	assert.Contains(t, out, "<table>")
	for _, tbl := range in.Tables {
		assert.Contains(t, out, tbl.TableName)
		for _, meta := range tbl.ColumnMetadata {
			assert.Contains(t, out, string(meta.Type))
		}
	}
	// pipes inside a cell must not split the row
	assert.NotContains(t, out, "<td>b</td>")
}

func TestEscape(t *testing.T) {
	assert.Equal(t, `a\|b`, escape("a|b"))
	assert.Equal(t, `\*bold\*`, escape("*bold*"))
	assert.Equal(t, "&lt;script&gt;", escape("<script>"))
	assert.Equal(t, "two lines", escape("two\nlines"))
}
