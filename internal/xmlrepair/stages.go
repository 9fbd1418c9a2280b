// File: internal/xmlrepair/stages.go
// Description: The individual repair stages of the loader ladder. Each stage
// is a pure text -> text transformation so it can be tested in isolation;
// the ordering contract lives in loader.go.

package xmlrepair

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

const graphmlNamespace = "http://graphml.graphdrawing.org/xmlns"

// xmlDeclaration is prepended when a document has no declaration at all.
const xmlDeclaration = `<?xml version="1.0" encoding="UTF-8"?>` + "\n"

// entityNames are the references left untouched by the escaping pass.
// Anything else after a bare '&' gets escaped.
var entityNames = []string{"amp;", "lt;", "gt;", "quot;", "apos;"}

// encodingLadder is tried in order when the raw bytes are not valid UTF-8.
// Latin-1 and ISO-8859-1 share a table; Windows-1252 differs in 0x80-0x9F.
var encodingLadder = []encoding.Encoding{
	unicode.UTF8,
	charmap.ISO8859_1,
	charmap.Windows1252,
}

// DecodeContent secures a usable string from possibly mis-encoded bytes by
// walking the encoding ladder and stopping at the first decoder that
// succeeds. It does not attempt a parse.
func DecodeContent(raw []byte) string {
	if utf8.Valid(raw) {
		return string(raw)
	}
	for _, enc := range encodingLadder[1:] {
		if out, err := enc.NewDecoder().Bytes(raw); err == nil {
			return string(out)
		}
	}
	// Latin-1 accepts any byte sequence, so this is unreachable in
	// practice; fall back to a lossy UTF-8 interpretation.
	return string(raw)
}

// EscapeTextSpans escapes bare '&', '<' and '>' inside text-content spans
// while leaving tag spans untouched. Span boundaries come from a simple
// bracket-tracking scan, not a real parser: everything between '<' and the
// next '>' is a tag span. A complete XML comment is copied verbatim; an
// unterminated one turns the remainder of the document into a single text
// span so its content is never mistaken for tag content.
func EscapeTextSpans(content string) string {
	var b strings.Builder
	b.Grow(len(content))
	i, n := 0, len(content)
	for i < n {
		if strings.HasPrefix(content[i:], "<!--") {
			end := strings.Index(content[i:], "-->")
			if end < 0 {
				b.WriteString(escapeText(content[i:]))
				return b.String()
			}
			b.WriteString(content[i : i+end+3])
			i += end + 3
			continue
		}
		if content[i] == '<' {
			end := strings.IndexByte(content[i:], '>')
			if end < 0 {
				// Unterminated tag; leave it for the structural pass.
				b.WriteString(content[i:])
				return b.String()
			}
			b.WriteString(content[i : i+end+1])
			i += end + 1
			continue
		}
		end := strings.IndexByte(content[i:], '<')
		if end < 0 {
			end = n - i
		}
		b.WriteString(escapeText(content[i : i+end]))
		i += end
	}
	return b.String()
}

// escapeText escapes a single text-content span. Ampersands are handled
// first so the inserted entities are not re-escaped.
func escapeText(s string) string {
	s = escapeAmpersands(s)
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}

// escapeAmpersands rewrites every '&' that does not start a recognized
// entity reference to '&amp;'.
func escapeAmpersands(s string) string {
	if !strings.Contains(s, "&") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 8)
	for i := 0; i < len(s); i++ {
		if s[i] != '&' {
			b.WriteByte(s[i])
			continue
		}
		rest := s[i+1:]
		known := false
		for _, name := range entityNames {
			if strings.HasPrefix(rest, name) {
				known = true
				break
			}
		}
		if known {
			b.WriteByte('&')
		} else {
			b.WriteString("&amp;")
		}
	}
	return b.String()
}

// controlChars are removed outright by the structural pass: C0 controls
// (minus tab/newline/carriage return), DEL, zero-width marks and the BOM.
func isStrippableRune(r rune) bool {
	switch {
	case r == '\t' || r == '\n' || r == '\r':
		return false
	case r < 0x20:
		return true
	case r == 0x7F:
		return true
	case r >= 0x200B && r <= 0x200F:
		return true
	case r == 0xFEFF:
		return true
	}
	return false
}

// StripControlChars removes non-printable and zero-width characters that
// hand-exported files tend to pick up.
func StripControlChars(content string) string {
	return strings.Map(func(r rune) rune {
		if isStrippableRune(r) {
			return -1
		}
		return r
	}, content)
}

// unterminatedDeclRE matches an XML declaration whose closing '>' is not
// preceded by '?'. The character class excludes '?' so a well-formed
// declaration never matches.
var unterminatedDeclRE = regexp.MustCompile(`(?s)^\s*<\?xml[^>?]*>`)

// FixDeclaration terminates a broken '<?xml ...>' declaration and inserts a
// default declaration when the document has none at all.
func FixDeclaration(content string) string {
	if loc := unterminatedDeclRE.FindStringIndex(content); loc != nil {
		content = content[:loc[1]-1] + "?>" + content[loc[1]:]
	}
	if !strings.Contains(content, "<?xml") {
		content = xmlDeclaration + content
	}
	return content
}

// InjectGraphMLNamespace adds the default GraphML namespace declaration to
// a graphml root element that lacks one.
func InjectGraphMLNamespace(content string) string {
	if strings.Contains(content, "<graphml") && !strings.Contains(content, "xmlns=") {
		content = strings.Replace(content, "<graphml",
			`<graphml xmlns="`+graphmlNamespace+`"`, 1)
	}
	return content
}

// tagRE matches any tag-like span and captures the leading slash, the tag
// name and the trailing slash of self-closing tags.
var tagRE = regexp.MustCompile(`<(/?)([A-Za-z_][A-Za-z0-9_.-]*)[^<>]*?(/?)>`)

// CloseUnclosedTags appends closing tags for element names that are opened
// but never closed anywhere in the document. Missing tags are appended in
// reverse order of their first opening so nested containers close in the
// right sequence.
func CloseUnclosedTags(content string) string {
	var unclosed []string
	seen := make(map[string]bool)
	for _, m := range tagRE.FindAllStringSubmatch(content, -1) {
		closing, name, selfClosing := m[1] == "/", m[2], m[3] == "/"
		if closing || selfClosing || seen[name] {
			continue
		}
		seen[name] = true
		if !strings.Contains(content, "</"+name+">") {
			unclosed = append(unclosed, name)
		}
	}
	for i := len(unclosed) - 1; i >= 0; i-- {
		content += "</" + unclosed[i] + ">"
	}
	return content
}

// truncatedEntityRE matches a known entity name missing its trailing
// semicolon, e.g. '&amp' followed by whitespace or markup.
var truncatedEntityRE = regexp.MustCompile(`&(amp|lt|gt|quot|apos)($|[^;A-Za-z])`)

// RepairTruncatedEntities restores the semicolon on entity references that
// look cut off.
func RepairTruncatedEntities(content string) string {
	return truncatedEntityRE.ReplaceAllString(content, "&$1;$2")
}

// StructuralRepair is the stage-4 composite: character cleanup plus the
// declaration, namespace, unclosed-tag and entity fixes.
func StructuralRepair(content string) string {
	content = StripControlChars(content)
	content = FixDeclaration(content)
	content = InjectGraphMLNamespace(content)
	content = CloseUnclosedTags(content)
	content = RepairTruncatedEntities(content)
	return content
}

// LastResortNormalize round-trips the text through a generic HTML entity
// escape/unescape pass to shake out stray encoding artifacts, then
// re-escapes ampersands on the single line the previous parse attempt
// reported as failing. failLine is 1-based; zero means unknown.
func LastResortNormalize(content string, failLine int) string {
	content = html.UnescapeString(html.EscapeString(content))
	if failLine >= 1 {
		lines := strings.Split(content, "\n")
		if failLine <= len(lines) {
			lines[failLine-1] = escapeAmpersands(lines[failLine-1])
			content = strings.Join(lines, "\n")
		}
	}
	return content
}
