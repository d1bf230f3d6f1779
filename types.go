package db4d

import "fmt"

// ColumnType is one of the tag strings the server announces in the
// Column-Types header. Trailing whitespace is stripped by
// the header parser before these are compared.
type ColumnType string

const (
	TypeBoolean   ColumnType = "VK_BOOLEAN"
	TypeByte      ColumnType = "VK_BYTE"
	TypeWord      ColumnType = "VK_WORD"
	TypeLong      ColumnType = "VK_LONG"
	TypeLong8     ColumnType = "VK_LONG8"
	TypeReal      ColumnType = "VK_REAL"
	TypeFloat     ColumnType = "VK_FLOAT"
	TypeString    ColumnType = "VK_STRING"
	TypeBlob      ColumnType = "VK_BLOB"
	TypeImage     ColumnType = "VK_IMAGE"
	TypeTimestamp ColumnType = "VK_TIMESTAMP"
	TypeTime      ColumnType = "VK_TIME"
	TypeDuration  ColumnType = "VK_DURATION"
)

// ResultType distinguishes an update-count reply from a result-set
// reply, per the Result-Type header field.
type ResultType int

const (
	ResultUnknown ResultType = iota
	ResultUpdateCount
	ResultSet
)

func parseResultType(s string) ResultType {
	switch s {
	case "Update-Count":
		return ResultUpdateCount
	case "Result-Set":
		return ResultSet
	default:
		return ResultUnknown
	}
}

// FetchStyle selects the shape fetch operations project a row into.
// Values match the wire protocol's fetch-style constants; combined is
// the mandated default.
type FetchStyle byte

const (
	FetchNumeric    FetchStyle = 0xA0
	FetchAssociative FetchStyle = 0xA1
	FetchCombined   FetchStyle = 0xA2
)

// ValueKind tags the payload held by a Value. This is the statically
// typed rewrite of a dynamically typed row cell.
type ValueKind int

const (
	KindNull ValueKind = iota
	KindBool
	KindInt32
	KindInt64
	KindFloat64
	KindString
	KindBlob
	KindDateTime
)

// Value is the tagged union of everything a decoded column cell can
// hold.
type Value struct {
	Kind ValueKind

	boolVal    bool
	int32Val   int32
	int64Val   int64
	float64Val float64
	stringVal  string
	blobVal    []byte
}

func nullValue() Value           { return Value{Kind: KindNull} }
func boolValue(b bool) Value     { return Value{Kind: KindBool, boolVal: b} }
func int32Value(i int32) Value   { return Value{Kind: KindInt32, int32Val: i} }
func int64Value(i int64) Value   { return Value{Kind: KindInt64, int64Val: i} }
func float64Value(f float64) Value {
	return Value{Kind: KindFloat64, float64Val: f}
}
func stringValue(s string) Value { return Value{Kind: KindString, stringVal: s} }
func blobValue(b []byte) Value   { return Value{Kind: KindBlob, blobVal: b} }
func dateTimeValue(s string) Value {
	return Value{Kind: KindDateTime, stringVal: s}
}

// NewNull returns a NULL bind value.
func NewNull() Value { return nullValue() }

// NewBool returns a boolean bind value.
func NewBool(b bool) Value { return boolValue(b) }

// NewInt32 returns a 32-bit integer bind value.
func NewInt32(i int32) Value { return int32Value(i) }

// NewInt64 returns a 64-bit integer bind value.
func NewInt64(i int64) Value { return int64Value(i) }

// NewFloat64 returns a double-precision bind value.
func NewFloat64(f float64) Value { return float64Value(f) }

// NewString returns a string bind value.
func NewString(s string) Value { return stringValue(s) }

// NewBlob returns a byte-blob bind value.
func NewBlob(b []byte) Value { return blobValue(b) }

// IsNull reports whether the value is SQL NULL.
func (v Value) IsNull() bool { return v.Kind == KindNull }

// Bool returns the boolean payload; only meaningful when Kind == KindBool.
func (v Value) Bool() bool { return v.boolVal }

// Int32 returns the 32-bit integer payload.
func (v Value) Int32() int32 { return v.int32Val }

// Int64 returns the 64-bit integer payload.
func (v Value) Int64() int64 { return v.int64Val }

// Float64 returns the double-precision payload.
func (v Value) Float64() float64 { return v.float64Val }

// Str returns the decoded string payload, or the formatted date-time
// string for KindDateTime values.
func (v Value) Str() string { return v.stringVal }

// Blob returns the raw byte payload.
func (v Value) Blob() []byte { return v.blobVal }

// Interface projects the value into the nearest plain Go type, used by
// the fetch-shaping layer when materialising caller-facing rows.
func (v Value) Interface() interface{} {
	switch v.Kind {
	case KindNull:
		return nil
	case KindBool:
		return v.boolVal
	case KindInt32:
		return v.int32Val
	case KindInt64:
		return v.int64Val
	case KindFloat64:
		return v.float64Val
	case KindString, KindDateTime:
		return v.stringVal
	case KindBlob:
		return v.blobVal
	default:
		return nil
	}
}

func (v Value) GoString() string {
	return fmt.Sprintf("Value(%v)", v.Interface())
}

var _ fmt.GoStringer = Value{}
