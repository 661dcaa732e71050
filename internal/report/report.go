// Package report renders an import result as a Markdown summary and as HTML.
package report

import (
	"fmt"
	"strings"
	"time"

	"gridimport/domain/table"
	"gridimport/internal/coercion"
	"gridimport/internal/profiling"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// Input is everything a report shows
type Input struct {
	Filename  string
	ImportID  string
	CreatedAt time.Time
	Warnings  []string
	Tables    []table.Table
	Profiles  []profiling.TableProfile
}

// Markdown builds the summary document
func Markdown(in Input) string {
	var b strings.Builder

	title := in.Filename
	if title == "" {
		title = "upload"
	}
	fmt.Fprintf(&b, "# Import report: %s\n\n", escape(title))
	if in.ImportID != "" {
		fmt.Fprintf(&b, "- Import: `%s`\n", in.ImportID)
	}
	if !in.CreatedAt.IsZero() {
		fmt.Fprintf(&b, "- Imported: %s\n", in.CreatedAt.UTC().Format(time.RFC3339))
	}
	fmt.Fprintf(&b, "- Tables: %d\n\n", len(in.Tables))

	b.WriteString("## Warnings\n\n")
	if len(in.Warnings) == 0 {
		b.WriteString("None.\n\n")
	} else {
		for _, w := range in.Warnings {
			fmt.Fprintf(&b, "- %s\n", escape(w))
		}
		b.WriteString("\n")
	}

	profiles := make(map[string]profiling.TableProfile, len(in.Profiles))
	for _, p := range in.Profiles {
		profiles[p.TableName] = p
	}

	for _, t := range in.Tables {
		writeTable(&b, t, profiles[t.TableName])
	}
	return b.String()
}

func writeTable(b *strings.Builder, t table.Table, profile profiling.TableProfile) {
	fmt.Fprintf(b, "## %s\n\n", escape(t.TableName))
	fmt.Fprintf(b, "%d rows, %d columns.\n\n", t.RowCount(), len(t.ColumnMetadata))
	if len(t.ColumnMetadata) == 0 {
		return
	}

	b.WriteString("| # | Column | Type | Filled | Fallback text | Distinct | Min | Max | Mean |\n")
	b.WriteString("|---|---|---|---|---|---|---|---|---|\n")
	for i, meta := range t.ColumnMetadata {
		var col profiling.ColumnProfile
		if i < len(profile.Columns) {
			col = profile.Columns[i]
		}
		min, max, mean := "", "", ""
		switch {
		case col.Summary != nil:
			min = coercion.FormatNumber(col.Summary.Min)
			max = coercion.FormatNumber(col.Summary.Max)
			mean = fmt.Sprintf("%.4g", col.Summary.Mean)
		case col.Dates != nil:
			layout := "2006-01-02"
			if meta.Type == table.ColumnDateTime {
				layout = "2006-01-02 15:04:05"
			}
			min = col.Dates.Earliest.Format(layout)
			max = col.Dates.Latest.Format(layout)
		}

		id := meta.ID
		if id == "" {
			id = "(unnamed)"
		}
		fmt.Fprintf(b, "| %d | %s | %s | %.0f%% | %d | %d | %s | %s | %s |\n",
			i+1, escape(id), meta.Type, col.FillRate()*100, col.Fallback, col.Distinct, min, max, mean)
	}
	b.WriteString("\n")
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	"|", `\|`,
	"*", `\*`,
	"_", `\_`,
	"`", "\\`",
	"[", `\[`,
	"]", `\]`,
	"<", "&lt;",
	">", "&gt;",
	"#", `\#`,
	"\n", " ",
	"\r", " ",
)

func escape(s string) string {
	return markdownEscaper.Replace(s)
}

// HTML renders the summary as a complete HTML page
func HTML(in Input) []byte {
	// parsers keep state, one per document
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.Tables)
	renderer := html.NewRenderer(html.RendererOptions{
		Flags: html.CommonFlags | html.CompletePage,
		Title: "Import report",
	})
	return markdown.ToHTML([]byte(Markdown(in)), p, renderer)
}
