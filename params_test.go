package db4d

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestBindParams_TrickyString checks position-preserving substitution
// even when an earlier argument's rendered literal contains '?'.
func TestBindParams_TrickyString(t *testing.T) {
	out, err := bindParams("SELECT ? , ?", []Value{NewString("a?b"), NewNull()})
	require.NoError(t, err)
	assert.Equal(t, "SELECT 'a?b' , NULL", out)
}

// TestBindParams_RoundTrip checks the rendered SQL for a string
// containing single quotes, CR, LF, and '?': CR/LF are stripped, quotes
// are doubled, and every '?' inside the literal is kept.
func TestBindParams_RoundTrip(t *testing.T) {
	original := "it's a\r\nquestion? right?"
	out, err := bindParams("SELECT ?", []Value{NewString(original)})
	require.NoError(t, err)

	want := "SELECT 'it''s aquestion? right?'"
	assert.Equal(t, want, out)
}

func TestBindParams_ArgumentCountMismatch(t *testing.T) {
	_, err := bindParams("SELECT ?, ?", []Value{NewInt32(1)})
	require.Error(t, err)
	var mismatch *ArgumentCountMismatch
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, 2, mismatch.Expected)
	assert.Equal(t, 1, mismatch.Got)
}

func TestRenderLiteral_Kinds(t *testing.T) {
	cases := []struct {
		name string
		v    Value
		want string
	}{
		{"null", NewNull(), "NULL"},
		{"bool true", NewBool(true), "CAST(1 as BOOLEAN)"},
		{"bool false", NewBool(false), "CAST(0 as BOOLEAN)"},
		{"int32", NewInt32(-7), "-7"},
		{"int64", NewInt64(9000000000), "9000000000"},
		{"float64", NewFloat64(3.5), "3.5"},
		{"string", NewString("abc"), "'abc'"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := renderLiteral(c.v)
			require.NoError(t, err)
			assert.Equal(t, c.want, got)
		})
	}
}

func TestRenderLiteral_BlobUnsupported(t *testing.T) {
	_, err := renderLiteral(NewBlob([]byte{1, 2, 3}))
	assert.Error(t, err)
}

func TestQuoteString_StripsCRLFAndDoublesQuotes(t *testing.T) {
	assert.Equal(t, "'it''s fine'", quoteString("it's f\r\nine"))
}
