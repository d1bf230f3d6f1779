package db4d

import "strconv"

// RowBuffer is the materialised result set for one executed statement:
// an ordered sequence of rows plus the column order needed to project
// them. Fetch operations consume it destructively, one row at a time,
// the way a forward-only cursor does.
type RowBuffer struct {
	columnNames []string
	rows        []Row
}

func newRowBuffer(columnNames []string) *RowBuffer {
	return &RowBuffer{columnNames: columnNames}
}

// appendRows adds decoded rows to the buffer in order.
func (b *RowBuffer) appendRows(rows []Row) error {
	b.rows = append(b.rows, rows...)
	return nil
}

// Len returns the number of rows still held in the buffer.
func (b *RowBuffer) Len() int {
	return len(b.rows)
}

// ColumnNames returns the result set's column order.
func (b *RowBuffer) ColumnNames() []string {
	return b.columnNames
}

// FetchRow removes and returns the next row shaped per style. The
// second return is false once the buffer is empty.
func (b *RowBuffer) FetchRow(style FetchStyle) (map[string]interface{}, bool) {
	row, ok := b.popRow()
	if !ok {
		return nil, false
	}
	return shapeRow(row, b.columnNames, style), true
}

// FetchColumn removes the next row and returns a single cell from it,
// by column name.
func (b *RowBuffer) FetchColumn(name string) (interface{}, bool) {
	row, ok := b.popRow()
	if !ok {
		return nil, false
	}
	v, ok := row[name]
	if !ok {
		return nil, false
	}
	return v.Interface(), true
}

func (b *RowBuffer) popRow() (Row, bool) {
	if len(b.rows) == 0 {
		return nil, false
	}
	row := b.rows[0]
	b.rows = b.rows[1:]
	return row, true
}

// shapeRow projects a decoded row into one of the three fetch styles.
// Numeric keys are the column's stringified index; associative and
// combined use column names. The synthetic "_ID" entry is always
// stripped.
func shapeRow(row Row, columnNames []string, style FetchStyle) map[string]interface{} {
	out := make(map[string]interface{}, len(columnNames))

	switch style {
	case FetchNumeric:
		for i, name := range columnNames {
			out[strconv.Itoa(i)] = row[name].Interface()
		}
	case FetchAssociative:
		for _, name := range columnNames {
			out[name] = row[name].Interface()
		}
	default: // FetchCombined
		for i, name := range columnNames {
			v := row[name].Interface()
			out[strconv.Itoa(i)] = v
			out[name] = v
		}
	}

	return out
}
