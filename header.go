package db4d

import (
	"strconv"
	"strings"
)

// headerLineKind is the outcome of consuming one CRLF-terminated line
// from the header block.
type headerLineKind int

const (
	headerConsumed headerLineKind = iota
	headerStatusOK
	headerStatusError
	headerBlockEnd
)

// parseHeaderLine applies one line to meta, mutating it in place, and
// reports what kind of line it was.
func parseHeaderLine(line []byte, meta *ResponseMetadata) headerLineKind {
	text := strings.TrimRight(string(line), "\r\n")

	if text == "" {
		return headerBlockEnd
	}
	if strings.Contains(text, " OK") {
		meta.Error = false
		return headerStatusOK
	}
	if strings.Contains(text, " ERROR") {
		meta.Error = true
		return headerStatusError
	}

	field, value, ok := strings.Cut(text, ":")
	if !ok {
		return headerConsumed
	}
	field = strings.TrimSpace(field)
	value = strings.TrimSpace(value)

	switch field {
	case "Statement-ID":
		meta.StatementID = atoiOr(value, meta.StatementID)
	case "Command-Count":
		meta.CommandCount = int(atoiOr(value, int32(meta.CommandCount)))
	case "Result-Type":
		meta.ResultType = parseResultType(value)
	case "Column-Count":
		meta.ColumnCount = int(atoiOr(value, int32(meta.ColumnCount)))
	case "Row-Count":
		meta.RowCount = atoi64Or(value, meta.RowCount)
	case "Row-Count-Sent":
		meta.RowCountSent = atoi64Or(value, meta.RowCountSent)
	case "Column-Types":
		meta.ColumnTypes = parseColumnTypes(value)
	case "Column-Aliases":
		meta.ColumnNames = parseColumnAliases(value)
	case "Column-Updateability":
		meta.ColumnUpdateability = parseUpdateability(value)
	case "Error-Code":
		meta.ErrorCode = int(atoiOr(value, int32(meta.ErrorCode)))
	case "Error-Component-Code":
		meta.ErrorComponentCode = int(atoiOr(value, int32(meta.ErrorComponentCode)))
	case "Error-Description":
		meta.ErrorDescription = value
	}
	return headerConsumed
}

func atoiOr(s string, fallback int32) int32 {
	n, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return fallback
	}
	return int32(n)
}

func atoi64Or(s string, fallback int64) int64 {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fallback
	}
	return n
}

// parseColumnAliases parses a bracketed list like " [name1] [name2] …"
// by splitting on ']' and stripping the remaining bracket/space noise,
// discarding the trailing empty fragment.
func parseColumnAliases(value string) []string {
	parts := strings.Split(value, "]")
	names := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		p = strings.TrimPrefix(p, "[")
		if p == "" {
			continue
		}
		names = append(names, p)
	}
	return names
}

// parseColumnTypes parses a whitespace-separated list, discarding a
// trailing empty fragment.
func parseColumnTypes(value string) []ColumnType {
	fields := strings.Fields(value)
	types := make([]ColumnType, len(fields))
	for i, f := range fields {
		types[i] = ColumnType(f)
	}
	return types
}

// parseUpdateability parses a whitespace-separated Y/N list; the first
// token is a count/label and is dropped.
func parseUpdateability(value string) []bool {
	fields := strings.Fields(value)
	if len(fields) == 0 {
		return nil
	}
	fields = fields[1:]
	flags := make([]bool, len(fields))
	for i, f := range fields {
		flags[i] = f == "Y"
	}
	return flags
}

// readHeaderBlock consumes CRLF lines from f until the terminating
// blank line, applying each to meta. Returns whether the reply status
// was OK (as opposed to ERROR).
func readHeaderBlock(f *frameReader, meta *ResponseMetadata) (ok bool, err error) {
	sawStatus := false
	for {
		line, err := f.readUntilCRLF()
		if err != nil {
			return false, err
		}
		switch parseHeaderLine(line, meta) {
		case headerStatusOK:
			sawStatus = true
			ok = true
		case headerStatusError:
			sawStatus = true
			ok = false
		case headerBlockEnd:
			if !sawStatus {
				return false, errMalformedHeader
			}
			return ok, nil
		}
	}
}
