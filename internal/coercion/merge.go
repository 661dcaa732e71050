package coercion

import (
	"gridimport/domain/ingestion"
)

// ApplyMerges blanks every position of a merged region except its top-left
// anchor. Single-cell merges and malformed ranges are ignored, ranges are
// clipped to the grid, and the input rows are never modified.
func ApplyMerges(rows [][]ingestion.RawCell, merges []ingestion.MergeRange) [][]ingestion.RawCell {
	var out [][]ingestion.RawCell
	copied := make(map[int]bool)

	for _, m := range merges {
		if !m.Valid() || m.IsSingleCell() {
			continue
		}
		for r := m.FirstRow; r <= m.LastRow && r < len(rows); r++ {
			for c := m.FirstCol; c <= m.LastCol && c < len(rows[r]); c++ {
				if r == m.FirstRow && c == m.FirstCol {
					continue
				}
				if out == nil {
					out = make([][]ingestion.RawCell, len(rows))
					copy(out, rows)
				}
				if !copied[r] {
					out[r] = append([]ingestion.RawCell(nil), rows[r]...)
					copied[r] = true
				}
				out[r][c] = ingestion.NewBlankCell()
			}
		}
	}

	if out == nil {
		return rows
	}
	return out
}
