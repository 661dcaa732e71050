package coercion

import (
	"gridimport/domain/table"
)

// CoerceCell renders one classified cell under the column's type
func CoerceCell(c Class, colType table.ColumnType) table.Value {
	switch colType {
	case table.ColumnNumeric:
		if c.IsNumeric() {
			return table.Number(c.Num)
		}
		if c.Kind == ClassBlank {
			return table.Text("")
		}
		return table.Text(c.Text)

	case table.ColumnDate, table.ColumnDateTime:
		switch c.Kind {
		case ClassDate:
			return table.Number(c.Num)
		case ClassBlank, ClassError:
			return table.Null()
		default:
			return table.Text(c.Text)
		}

	default:
		if c.Kind == ClassBlank {
			return table.Text("")
		}
		return table.Text(c.Text)
	}
}

// Coerce renders a whole column; the output has one value per input row
func Coerce(classes []Class, colType table.ColumnType) []table.Value {
	values := make([]table.Value, len(classes))
	for i, c := range classes {
		values[i] = CoerceCell(c, colType)
	}
	return values
}
