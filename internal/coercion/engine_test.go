package coercion

import (
	"context"
	"testing"

	"gridimport/domain/ingestion"
	"gridimport/domain/table"
	"gridimport/internal"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestEngine(workers int) *Engine {
	return NewEngine(Config{HeaderRow: true, Workers: workers}, internal.NewNopLogger())
}

func TestApplyMerges(t *testing.T) {
	rows := [][]ingestion.RawCell{
		{text("a"), text("b"), text("c")},
		{text("d"), text("e"), text("f")},
		{text("g"), text("h")},
	}

	t.Run("single cell merge is a no-op", func(t *testing.T) {
		got := ApplyMerges(rows, []ingestion.MergeRange{{FirstRow: 1, FirstCol: 1, LastRow: 1, LastCol: 1}})
		assert.Equal(t, rows, got)
	})

	t.Run("only the anchor keeps its value", func(t *testing.T) {
		got := ApplyMerges(rows, []ingestion.MergeRange{{FirstRow: 0, FirstCol: 1, LastRow: 2, LastCol: 2}})
		want := [][]ingestion.RawCell{
			{text("a"), text("b"), blank()},
			{text("d"), blank(), blank()},
			{text("g"), blank()},
		}
		assert.Equal(t, want, got)
		assert.Equal(t, text("e"), rows[1][1], "input must not be modified")
	})

	t.Run("ranges outside the grid are clipped", func(t *testing.T) {
		got := ApplyMerges(rows, []ingestion.MergeRange{{FirstRow: 2, FirstCol: 0, LastRow: 9, LastCol: 9}})
		assert.Equal(t, [][]ingestion.RawCell{rows[0], rows[1], {text("g"), blank()}}, got)
	})

	t.Run("malformed ranges are ignored", func(t *testing.T) {
		got := ApplyMerges(rows, []ingestion.MergeRange{
			{FirstRow: 2, FirstCol: 0, LastRow: 1, LastCol: 0},
			{FirstRow: -1, FirstCol: 0, LastRow: 1, LastCol: 1},
		})
		assert.Equal(t, rows, got)
	})
}

func TestProcessSheetSingleMergedCell(t *testing.T) {
	sheet := ingestion.Sheet{
		Name: "Transaction Report",
		Rows: [][]ingestion.RawCell{
			{blank(), text("Start"), blank(), blank(), text("Seek no easy ways")},
			{text("SINGLE MERGED"), num("1637384.52"), num("2444344.06"), num("2444344.06")},
			{text("The End")},
		},
		Merges: []ingestion.MergeRange{{FirstRow: 1, FirstCol: 0, LastRow: 1, LastCol: 0}},
	}

	got, _, err := newTestEngine(2).ProcessSheet(context.Background(), sheet)
	require.NoError(t, err)

	want := table.Table{
		TableName: "Transaction Report",
		ColumnMetadata: []table.ColumnMetadata{
			{ID: "", Type: table.ColumnAny},
			{ID: "Start", Type: table.ColumnNumeric},
			{ID: "", Type: table.ColumnNumeric},
			{ID: "", Type: table.ColumnNumeric},
			{ID: "Seek no easy ways", Type: table.ColumnAny},
		},
		TableData: [][]table.Value{
			{table.Text("SINGLE MERGED"), table.Text("The End")},
			{table.Number(1637384.52), table.Text("")},
			{table.Number(2444344.06), table.Text("")},
			{table.Number(2444344.06), table.Text("")},
			{table.Text(""), table.Text("")},
		},
	}
	assert.Equal(t, want, got)
}

func TestProcessSheetMultiCellMerge(t *testing.T) {
	sheet := ingestion.Sheet{
		Name: "Merged",
		Rows: [][]ingestion.RawCell{
			{text("label"), text("amount")},
			{text("group"), num("1")},
			{text("ghost"), num("2")},
		},
		Merges: []ingestion.MergeRange{{FirstRow: 1, FirstCol: 0, LastRow: 2, LastCol: 0}},
	}

	got, _, err := newTestEngine(1).ProcessSheet(context.Background(), sheet)
	require.NoError(t, err)
	assert.Equal(t, []table.Value{table.Text("group"), table.Text("")}, got.Column(0))
	assert.Equal(t, []table.Value{table.Number(1), table.Number(2)}, got.Column(1))
}

func TestProcessSheetStrangeDates(t *testing.T) {
	sheet := ingestion.Sheet{
		Name: "Sheet1",
		Rows: [][]ingestion.RawCell{
			{text("a"), text("b"), text("c"), text("d"), text("e"), text("f"), text("g"), text("h"), text("i")},
			{
				date(76440.0 / secondsPerDay),
				date(43727),
				date(4200.0 / secondsPerDay),
				date(37230.0 / secondsPerDay),
				date(4.180902777777778),
				date(20),
				text("7/4/1776"),
				date(27945),
				date(0),
			},
		},
	}

	got, results, err := newTestEngine(4).ProcessSheet(context.Background(), sheet)
	require.NoError(t, err)

	wantTypes := []table.ColumnType{
		table.ColumnAny, table.ColumnDate, table.ColumnAny, table.ColumnAny, table.ColumnNumeric,
		table.ColumnNumeric, table.ColumnAny, table.ColumnDate, table.ColumnNumeric,
	}
	wantData := [][]table.Value{
		{table.Text("21:14:00")},
		{table.Number(1568851200)},
		{table.Text("01:10:00")},
		{table.Text("10:20:30")},
		{table.Number(4.180902777777778)},
		{table.Number(20)},
		{table.Text("7/4/1776")},
		{table.Number(205286400)},
		{table.Number(0)},
	}
	for i, meta := range got.ColumnMetadata {
		assert.Equal(t, wantTypes[i], meta.Type, "column %s", meta.ID)
	}
	assert.Equal(t, wantData, got.TableData)

	// serials kept as numbers are reported
	assert.Len(t, results[4].Warnings, 1)
	assert.Contains(t, results[4].Warnings[0], `column "e" row 2`)
}

func TestProcessSheetTypes(t *testing.T) {
	sheet := ingestion.Sheet{
		Name: "types",
		Rows: [][]ingestion.RawCell{
			{text("int1"), text("textint"), text("bigint"), text("num2"), text("date1"), text("date2")},
			{num("-1234123"), text("12345678902345689"), num("320150170634561830"), num("123456789.123456"), date(42360 + 43140.0/secondsPerDay), date(42358)},
			{},
			{blank(), blank(), blank(), blank(), blank(), blank()},
			{},
		},
	}

	got, results, err := newTestEngine(0).ProcessSheet(context.Background(), sheet)
	require.NoError(t, err)

	assert.Equal(t, []table.ColumnMetadata{
		{ID: "int1", Type: table.ColumnNumeric},
		{ID: "textint", Type: table.ColumnAny},
		{ID: "bigint", Type: table.ColumnAny},
		{ID: "num2", Type: table.ColumnNumeric},
		{ID: "date1", Type: table.ColumnDateTime},
		{ID: "date2", Type: table.ColumnDate},
	}, got.ColumnMetadata)

	// blank rows are data rows too
	for _, col := range got.TableData {
		assert.Len(t, col, 4)
	}
	assert.Equal(t, []table.Value{table.Number(-1234123), table.Text(""), table.Text(""), table.Text("")}, got.Column(0))
	assert.Equal(t, []table.Value{table.Number(1450569600), table.Null(), table.Null(), table.Null()}, got.Column(5))
	assert.Equal(t, table.Text("320150170634561830"), got.TableData[2][0])
	assert.Equal(t, table.Number(1450785540), got.TableData[4][0])
	assert.Equal(t, table.Number(1450569600), got.TableData[5][0])
	assert.Len(t, results[2].Warnings, 1)
}

func TestProcessSheetRowCountPreserved(t *testing.T) {
	sheet := ingestion.Sheet{
		Name: "ragged",
		Rows: [][]ingestion.RawCell{
			{text("x")},
			{num("1"), text("a"), boolean(true)},
			{num("2")},
			{blank(), blank(), blank(), date(43727)},
		},
	}

	got, _, err := newTestEngine(3).ProcessSheet(context.Background(), sheet)
	require.NoError(t, err)

	require.Len(t, got.TableData, 4)
	for i, col := range got.TableData {
		assert.Len(t, col, 3, "column %d", i)
		assert.True(t, got.ColumnMetadata[i].Type.Valid())
	}
	assert.Equal(t, "x", got.ColumnMetadata[0].ID)
	assert.Equal(t, "", got.ColumnMetadata[3].ID)
	assert.Equal(t, []table.Value{table.Null(), table.Null(), table.Number(1568851200)}, got.Column(3))
}

func TestProcessSheetKeepsBlankRows(t *testing.T) {
	sheet := ingestion.Sheet{
		Name: "gaps",
		Rows: [][]ingestion.RawCell{
			{text("amount"), text("day")},
			{},
			{num("3"), date(43727)},
			{blank(), blank()},
			{},
		},
	}

	got, _, err := newTestEngine(2).ProcessSheet(context.Background(), sheet)
	require.NoError(t, err)
	assert.Equal(t, 4, got.RowCount())
	assert.Equal(t, []table.Value{table.Text(""), table.Number(3), table.Text(""), table.Text("")}, got.Column(0))
	assert.Equal(t, []table.Value{table.Null(), table.Number(1568851200), table.Null(), table.Null()}, got.Column(1))
}

func TestProcessSheetWithoutHeader(t *testing.T) {
	engine := NewEngine(Config{HeaderRow: false, Workers: 2}, internal.NewNopLogger())
	sheet := ingestion.Sheet{Name: "raw", Rows: [][]ingestion.RawCell{{num("1")}, {num("2")}}}

	got, _, err := engine.ProcessSheet(context.Background(), sheet)
	require.NoError(t, err)
	assert.Equal(t, []table.ColumnMetadata{{ID: "", Type: table.ColumnNumeric}}, got.ColumnMetadata)
	assert.Equal(t, 2, got.RowCount())
}

func TestProcessSheetEmpty(t *testing.T) {
	got, results, err := newTestEngine(2).ProcessSheet(context.Background(), ingestion.Sheet{Name: "empty"})
	require.NoError(t, err)
	assert.Empty(t, got.ColumnMetadata)
	assert.Empty(t, results)
	assert.Equal(t, 0, got.RowCount())
}

func TestProcessSheetCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sheet := ingestion.Sheet{Name: "s", Rows: [][]ingestion.RawCell{{text("a")}, {num("1")}}}
	_, _, err := newTestEngine(1).ProcessSheet(ctx, sheet)
	assert.ErrorIs(t, err, context.Canceled)
}
