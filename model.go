package db4d

// ResponseMetadata holds everything the header parser extracts for one
// executed statement. Mutable during header parsing; treated as frozen
// by the time row decoding begins.
type ResponseMetadata struct {
	StatementID         int32
	CommandCount        int
	ResultType          ResultType
	RowCount            int64
	RowCountSent        int64
	ColumnCount         int
	ColumnNames         []string
	ColumnTypes         []ColumnType
	ColumnUpdateability []bool

	Error              bool
	ErrorCode          int
	ErrorComponentCode int
	ErrorDescription   string
}

// hasUpdateableColumn reports whether any column carries the Y
// updateability flag, meaning every row frame is prefixed with one skip
// byte and a 4-byte record id.
func (m *ResponseMetadata) hasUpdateableColumn() bool {
	for _, y := range m.ColumnUpdateability {
		if y {
			return true
		}
	}
	return false
}

// Row is one decoded result row: column name to value, plus a reserved
// "_ID" entry when the result set carries per-row record ids.
type Row map[string]Value

// RecordID returns the row's "_ID" entry and whether it was present.
func (r Row) RecordID() (uint32, bool) {
	v, ok := r["_ID"]
	if !ok {
		return 0, false
	}
	return uint32(v.Int64()), true
}
