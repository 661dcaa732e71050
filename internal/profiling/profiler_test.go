package profiling

import (
	"testing"
	"time"

	"gridimport/domain/table"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileNumericColumn(t *testing.T) {
	values := []table.Value{
		table.Number(1), table.Number(2), table.Number(3), table.Number(4),
		table.Number(100), table.Text(""), table.Text("n/a"), table.Number(2),
	}

	p := NewProfiler().ProfileColumn(table.ColumnMetadata{ID: "qty", Type: table.ColumnNumeric}, values)

	assert.Equal(t, 8, p.Rows)
	assert.Equal(t, 6, p.Numbers)
	assert.Equal(t, 1, p.Texts)
	assert.Equal(t, 1, p.Blanks)
	assert.Equal(t, 1, p.Fallback)
	assert.Equal(t, 6, p.Distinct)
	assert.InDelta(t, 0.875, p.FillRate(), 1e-9)

	require.NotNil(t, p.Summary)
	assert.Equal(t, 6, p.Summary.Count)
	assert.Equal(t, 1.0, p.Summary.Min)
	assert.Equal(t, 100.0, p.Summary.Max)
	assert.InDelta(t, 112.0/6, p.Summary.Mean, 1e-9)
	assert.Equal(t, 2.5, p.Summary.Median)
	assert.Equal(t, 1, p.Summary.Outliers)
	assert.Greater(t, p.Summary.Skewness, 0.0)
	assert.Nil(t, p.Dates)
}

func TestProfileConstantColumn(t *testing.T) {
	values := []table.Value{table.Number(5), table.Number(5), table.Number(5)}
	p := NewProfiler().ProfileColumn(table.ColumnMetadata{Type: table.ColumnNumeric}, values)

	require.NotNil(t, p.Summary)
	assert.Equal(t, 0.0, p.Summary.StdDev)
	assert.Equal(t, 0.0, p.Summary.Skewness)
	assert.Equal(t, 0.0, p.Summary.Kurtosis)
	assert.Equal(t, 1, p.Distinct)
}

func TestProfileDateColumn(t *testing.T) {
	values := []table.Value{table.Number(1568851200), table.Null(), table.Number(205286400), table.Text("soon")}
	p := NewProfiler().ProfileColumn(table.ColumnMetadata{ID: "when", Type: table.ColumnDate}, values)

	assert.Equal(t, 1, p.Nulls)
	assert.Equal(t, 1, p.Fallback)
	assert.Nil(t, p.Summary)
	require.NotNil(t, p.Dates)
	assert.Equal(t, 2, p.Dates.Count)
	assert.Equal(t, time.Date(1976, 7, 4, 0, 0, 0, 0, time.UTC), p.Dates.Earliest)
	assert.Equal(t, time.Date(2019, 9, 19, 0, 0, 0, 0, time.UTC), p.Dates.Latest)
}

func TestProfileAnyColumn(t *testing.T) {
	values := []table.Value{table.Text("a"), table.Text("1"), table.Text(""), table.Text("a")}
	p := NewProfiler().ProfileColumn(table.ColumnMetadata{Type: table.ColumnAny}, values)

	assert.Equal(t, 3, p.Texts)
	assert.Equal(t, 0, p.Fallback)
	assert.Equal(t, 2, p.Distinct)
	assert.Nil(t, p.Summary)
	assert.Nil(t, p.Dates)
}

func TestProfileTable(t *testing.T) {
	tbl := table.Table{
		TableName: "Sheet1",
		ColumnMetadata: []table.ColumnMetadata{
			{ID: "a", Type: table.ColumnNumeric},
			{ID: "b", Type: table.ColumnAny},
		},
		TableData: [][]table.Value{
			{table.Number(1), table.Number(2)},
			{table.Text("x"), table.Text("y")},
		},
	}

	profiles := NewProfiler().ProfileTables([]table.Table{tbl, {TableName: "empty"}})
	require.Len(t, profiles, 2)
	assert.Equal(t, "Sheet1", profiles[0].TableName)
	assert.Equal(t, 2, profiles[0].Rows)
	require.Len(t, profiles[0].Columns, 2)
	assert.Equal(t, "b", profiles[0].Columns[1].ID)
	assert.Empty(t, profiles[1].Columns)
}
