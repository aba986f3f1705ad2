package gdsii

import (
	"fmt"
	"strings"

	"github.com/robert-malhotra/go-gdsii/gdsii/record"
	"github.com/robert-malhotra/go-gdsii/internal/binary"
)

// ErrInvalidString is returned when a string payload is not valid UTF-8
// and no legacy text encoding was configured; see WithTextEncoding.
var ErrInvalidString = binary.ErrInvalidString

// Context identifies one level of the library hierarchy in a diagnostic,
// innermost last.
type Context uint8

// Grammar contexts the parser pushes while descending.
const (
	ContextLibrary Context = iota
	ContextStruct
	ContextPath
	ContextText
	ContextNode
	ContextBox
	ContextStructRef
	ContextArrayRef
	ContextProperty
)

var contextNames = [...]string{
	"library", "struct", "path", "text", "node", "box", "sref", "aref",
	"property",
}

func (c Context) String() string {
	if int(c) < len(contextNames) {
		return contextNames[c]
	}
	return fmt.Sprintf("Context(%d)", uint8(c))
}

// ParseError reports a record that is well-formed on the wire but not
// valid at its grammar position. It carries enough state to pinpoint the
// failure in a bad file: the offending record, how many records were
// consumed, the byte offset, and the grammar context stack.
type ParseError struct {
	Msg       string
	Record    record.Record
	RecordNum int
	BytePos   int64
	Context   []Context
}

func (e *ParseError) Error() string {
	var b strings.Builder
	b.WriteString(e.Msg)
	if e.Record != nil {
		fmt.Fprintf(&b, ": %s", e.Record.Type())
	}
	fmt.Fprintf(&b, " at byte %d, record %d", e.BytePos, e.RecordNum)
	if len(e.Context) > 0 {
		names := make([]string, len(e.Context))
		for i, c := range e.Context {
			names[i] = c.String()
		}
		fmt.Fprintf(&b, ", in %s", strings.Join(names, "/"))
	}
	return b.String()
}

// UnsupportedError reports a record that is valid GDSII but deliberately
// outside this implementation's scope, such as the library-preamble
// bookkeeping records. It is distinct from ParseError so callers can tell
// an out-of-scope feature from a corrupt file.
type UnsupportedError struct {
	Record  record.Record
	Context Context
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("unsupported record %s in %s context", e.Record.Type(), e.Context)
}
