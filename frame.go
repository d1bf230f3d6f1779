package db4d

import (
	"fmt"
	"strings"
)

// requestFrame builds an outbound ASCII CRLF-terminated request: a
// first line of "<commandID zero-padded to 3> <VERB>", then "Key :
// Value" lines in insertion order, then a blank terminator.
type requestFrame struct {
	commandID int
	verb      string
	keys      []string
	values    []string
}

func newRequestFrame(commandID int, verb string) *requestFrame {
	return &requestFrame{commandID: commandID, verb: verb}
}

func (r *requestFrame) set(key, value string) *requestFrame {
	r.keys = append(r.keys, key)
	r.values = append(r.values, value)
	return r
}

// bytes renders the frame to its wire form.
func (r *requestFrame) bytes() []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "%03d %s\r\n", r.commandID, r.verb)
	for i, k := range r.keys {
		fmt.Fprintf(&b, "%s : %s\r\n", k, r.values[i])
	}
	b.WriteString("\r\n")
	return []byte(b.String())
}

// withCommandID returns a structurally identical frame with a new
// command id. Used to build the phase-2 request from phase-1's fields
// rather than by textual substitution in the phase-1 bytes.
func (r *requestFrame) withCommandID(commandID int) *requestFrame {
	next := &requestFrame{
		commandID: commandID,
		verb:      r.verb,
		keys:      append([]string(nil), r.keys...),
		values:    append([]string(nil), r.values...),
	}
	return next
}

func (r *requestFrame) setFirstPageSize(n int64) *requestFrame {
	for i, k := range r.keys {
		if k == "FIRST-PAGE-SIZE" {
			r.values[i] = fmt.Sprintf("%d", n)
			return r
		}
	}
	return r.set("FIRST-PAGE-SIZE", fmt.Sprintf("%d", n))
}
