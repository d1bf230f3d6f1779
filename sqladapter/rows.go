package sqladapter

import (
	"database/sql/driver"
	"io"
	"strconv"

	"github.com/db4d-go/db4d"
)

// rows adapts a *db4d.RowBuffer to driver.Rows, pulling one row at a
// time from the already-materialised buffer and reporting io.EOF once
// exhausted.
type rows struct {
	columnNames []string
	buf         *db4d.RowBuffer
}

func (r *rows) Columns() []string {
	return r.columnNames
}

func (r *rows) Close() error {
	return nil
}

func (r *rows) Next(dest []driver.Value) error {
	if r.buf == nil {
		return io.EOF
	}
	row, ok := r.buf.FetchRow(db4d.FetchNumeric)
	if !ok {
		return io.EOF
	}
	for i := range dest {
		dest[i] = normalizeDriverValue(row[strconv.Itoa(i)])
	}
	return nil
}

// normalizeDriverValue widens types db4d.Value.Interface() can produce
// into the subset driver.Value's contract allows (nil, int64, float64,
// bool, []byte, string, time.Time). driver.Value has no 32-bit integer
// type, while VK_BYTE, VK_WORD, and VK_LONG all decode to Go's int32 on
// the native side, so the adapter widens to int64 here rather than relying on database/sql's
// reflect-based convertAssign fallback to do it implicitly.
func normalizeDriverValue(v interface{}) driver.Value {
	if i32, ok := v.(int32); ok {
		return int64(i32)
	}
	return v
}
