// File: api/schemas/errors.go
// Description: Typed error kinds shared by the loader, extractor and
// converter. All are fatal once surfaced; repair-stage failures inside the
// loader never escape individually.

package schemas

import (
	"fmt"
	"strings"
)

// FileNotFoundError reports a missing input path.
type FileNotFoundError struct {
	Path string
}

func (e *FileNotFoundError) Error() string {
	return fmt.Sprintf("input file not found: %s", e.Path)
}

// UnsupportedFormatError reports an unrecognized input extension or target
// format name.
type UnsupportedFormatError struct {
	Format string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported format: %s", e.Format)
}

// SchemaMismatchError reports a well-formed document that is missing a
// required container element or key.
type SchemaMismatchError struct {
	Missing string
}

func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("document is missing required element %q", e.Missing)
}

// MalformedDocumentError is surfaced only after every repair stage has been
// exhausted. It carries enough context to point a human at the broken spot.
type MalformedDocumentError struct {
	// Line and Column are the failing parser's reported position (column is
	// best-effort when the parser reports only a line).
	Line   int
	Column int
	// Context holds the offending line with one line of context on each
	// side and a caret marker under the reported column.
	Context string
	// Diagnosis lists likely causes found by pattern checks on the
	// offending line.
	Diagnosis []string
	// Err is the underlying parser error.
	Err error
}

func (e *MalformedDocumentError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "failed to parse XML: %v\n", e.Err)
	fmt.Fprintf(&b, "error location: line %d, column %d\n", e.Line, e.Column)
	if e.Context != "" {
		b.WriteString(e.Context)
	}
	if len(e.Diagnosis) > 0 {
		b.WriteString("possible issues:\n")
		for _, d := range e.Diagnosis {
			fmt.Fprintf(&b, "- %s\n", d)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func (e *MalformedDocumentError) Unwrap() error { return e.Err }
