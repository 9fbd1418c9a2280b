// File: internal/xmlrepair/diagnose.go
// Description: Error-location and diagnosis helpers for the terminal
// failure case. These run simple pattern checks, not a parser; they exist
// to point a human at the broken line, not to be authoritative.

package xmlrepair

import (
	"encoding/xml"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/xkilldash9x/lucidconv/api/schemas"
)

var errNoRoot = errors.New("document has no root element")

// knownEntityRE matches any recognized entity reference.
var knownEntityRE = regexp.MustCompile(`&(amp|lt|gt|quot|apos);`)

// errorPosition extracts the failing line from a parser error and derives a
// best-effort column. encoding/xml reports only a line number, so the
// column is the offset of the first suspicious character on that line.
func errorPosition(err error, text string) (line, col int) {
	var syn *xml.SyntaxError
	if errors.As(err, &syn) {
		line = syn.Line
	}
	if line < 1 {
		return line, 0
	}
	lines := strings.Split(text, "\n")
	if line <= len(lines) {
		col = firstSuspectColumn(lines[line-1])
	}
	return line, col
}

// firstSuspectColumn finds the most likely offending column on a line:
// the first bare ampersand, else the first angle bracket when the bracket
// counts are unbalanced, else zero.
func firstSuspectColumn(line string) int {
	stripped := knownEntityRE.ReplaceAllStringFunc(line, func(m string) string {
		return strings.Repeat(" ", len(m))
	})
	if i := strings.IndexByte(stripped, '&'); i >= 0 {
		return i
	}
	if strings.Count(line, "<") != strings.Count(line, ">") {
		if i := strings.IndexByte(line, '<'); i >= 0 {
			return i
		}
	}
	return 0
}

// diagnoseLine lists likely causes for a parse failure on one line.
func diagnoseLine(line string) []string {
	var diagnosis []string
	stripped := knownEntityRE.ReplaceAllString(line, "")
	if strings.Contains(stripped, "&") {
		diagnosis = append(diagnosis, "unescaped '&' character, replace with '&amp;'")
	}
	if strings.Count(line, "<") != strings.Count(line, ">") {
		diagnosis = append(diagnosis, "mismatched angle brackets '<' and '>'")
	}
	if strings.Count(line, `"`)%2 != 0 {
		diagnosis = append(diagnosis, "unclosed quote")
	}
	if strings.Count(line, "'")%2 != 0 {
		diagnosis = append(diagnosis, "unclosed single quote")
	}
	if strings.Contains(line, "<?xml") && !strings.Contains(line, "?>") {
		diagnosis = append(diagnosis, "unterminated XML declaration")
	}
	return diagnosis
}

// newMalformedError builds the terminal error after ladder exhaustion: the
// parser's reported position, the offending line with one line of context
// on each side, a caret under the reported column and the diagnosis list.
func newMalformedError(err error, text string) *schemas.MalformedDocumentError {
	line, col := errorPosition(err, text)
	merr := &schemas.MalformedDocumentError{
		Line:   line,
		Column: col,
		Err:    err,
	}

	lines := strings.Split(text, "\n")
	if line >= 1 && line <= len(lines) {
		var b strings.Builder
		if line > 1 {
			fmt.Fprintf(&b, "Line %d: %s\n", line-1, lines[line-2])
		}
		prefix := fmt.Sprintf("Line %d: ", line)
		fmt.Fprintf(&b, "%s%s\n", prefix, lines[line-1])
		fmt.Fprintf(&b, "%s^ error occurs near here\n", strings.Repeat(" ", len(prefix)+col))
		if line < len(lines) {
			fmt.Fprintf(&b, "Line %d: %s\n", line+1, lines[line])
		}
		merr.Context = b.String()
		merr.Diagnosis = diagnoseLine(lines[line-1])
	}
	return merr
}
