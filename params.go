package db4d

import (
	"fmt"
	"strconv"
	"strings"
)

// quoteSentinel temporarily stands in for a literal '?' that occurs
// inside a rendered string literal, so the left-to-right placeholder
// scan never mistakes it for the next bind site. Restored after
// substitution completes.
const quoteSentinel = ":QUOT:"

// bindParams substitutes the N occurrences of '?' in body, left to
// right, with args rendered as SQL literals.
func bindParams(body string, args []Value) (string, error) {
	count := strings.Count(body, "?")
	if count != len(args) {
		return "", &ArgumentCountMismatch{Expected: count, Got: len(args)}
	}

	rendered := make([]string, len(args))
	for i, a := range args {
		lit, err := renderLiteral(a)
		if err != nil {
			return "", err
		}
		rendered[i] = protectQuestionMarks(lit)
	}

	var b strings.Builder
	argIdx := 0
	for _, ch := range body {
		if ch == '?' {
			b.WriteString(rendered[argIdx])
			argIdx++
			continue
		}
		b.WriteRune(ch)
	}

	return strings.ReplaceAll(b.String(), quoteSentinel, "?"), nil
}

// protectQuestionMarks replaces '?' inside an already-rendered literal
// with the sentinel, so the outer substitution pass does not treat it
// as a placeholder.
func protectQuestionMarks(s string) string {
	return strings.ReplaceAll(s, "?", quoteSentinel)
}

// renderLiteral renders one argument as a 4D SQL literal.
func renderLiteral(v Value) (string, error) {
	switch v.Kind {
	case KindNull:
		return "NULL", nil
	case KindBool:
		if v.Bool() {
			return "CAST(1 as BOOLEAN)", nil
		}
		return "CAST(0 as BOOLEAN)", nil
	case KindInt32:
		return strconv.FormatInt(int64(v.Int32()), 10), nil
	case KindInt64:
		return strconv.FormatInt(v.Int64(), 10), nil
	case KindFloat64:
		return strconv.FormatFloat(v.Float64(), 'f', -1, 64), nil
	case KindString, KindDateTime:
		return quoteString(v.Str()), nil
	case KindBlob:
		return "", fmt.Errorf("db4d: blob values cannot be bound as literals")
	default:
		return "", fmt.Errorf("db4d: unsupported bind value kind %v", v.Kind)
	}
}

// quoteString strips CR and LF, doubles every single quote, and wraps
// the result in single quotes.
func quoteString(s string) string {
	s = strings.ReplaceAll(s, "\r", "")
	s = strings.ReplaceAll(s, "\n", "")
	s = strings.ReplaceAll(s, "'", "''")
	return "'" + s + "'"
}
