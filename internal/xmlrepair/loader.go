// File: internal/xmlrepair/loader.go
// Description: The resilient XML loader. Well-formed input parses on the
// fast path; malformed input walks an escalating ladder of repair stages,
// stopping at the first stage whose output parses.

package xmlrepair

import (
	"io"
	"os"

	"github.com/beevik/etree"
	"go.uber.org/zap"

	"github.com/xkilldash9x/lucidconv/api/schemas"
)

// Stage identifies which rung of the repair ladder produced a document.
type Stage int

const (
	StageDirect Stage = iota + 1
	StageEscape
	StageStructural
	StageLastResort
)

func (s Stage) String() string {
	switch s {
	case StageDirect:
		return "direct"
	case StageEscape:
		return "escape"
	case StageStructural:
		return "structural"
	case StageLastResort:
		return "last-resort"
	}
	return "unknown"
}

// Loader turns possibly-malformed XML bytes into a parsed document. A
// zero-value Loader is not usable; construct one with NewLoader so the
// logger is always present.
type Loader struct {
	logger *zap.Logger
}

// NewLoader creates a Loader. A nil logger falls back to a no-op one.
func NewLoader(logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{logger: logger.Named("xmlrepair")}
}

// Load reads and parses the file at path, repairing the content when the
// direct parse fails. The file on disk is never modified by Load.
func (l *Loader) Load(path string) (*etree.Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &schemas.FileNotFoundError{Path: path}
		}
		return nil, err
	}
	doc, stage, err := l.loadContent(raw)
	if err != nil {
		return nil, err
	}
	if stage != StageDirect {
		l.logger.Info("repaired malformed XML document",
			zap.String("path", path),
			zap.String("stage", stage.String()))
	}
	return doc, nil
}

// LoadStrict parses the file without any repair attempt. Parse failures are
// reported with the same diagnosable error the exhausted ladder produces.
func (l *Loader) LoadStrict(path string) (*etree.Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &schemas.FileNotFoundError{Path: path}
		}
		return nil, err
	}
	doc, err := parseBytes(raw)
	if err != nil {
		return nil, newMalformedError(err, DecodeContent(raw))
	}
	return doc, nil
}

// LoadBytes parses in-memory content through the same ladder as Load.
func (l *Loader) LoadBytes(raw []byte) (*etree.Document, error) {
	doc, _, err := l.loadContent(raw)
	return doc, err
}

// loadContent runs the staged pipeline and reports the stage that
// succeeded. Individual stage failures are never surfaced; only exhaustion
// of the whole ladder is.
func (l *Loader) loadContent(raw []byte) (*etree.Document, Stage, error) {
	// Stage 1: direct parse of the raw content.
	if doc, err := parseBytes(raw); err == nil {
		return doc, StageDirect, nil
	} else {
		l.logger.Debug("direct parse failed, starting repair ladder", zap.Error(err))
	}

	// Stage 2: secure a usable string. No parse attempt here.
	text := DecodeContent(raw)

	// Stage 3: minimal escaping of text-content spans.
	escaped := EscapeTextSpans(text)
	if doc, err := parseString(escaped); err == nil {
		return doc, StageEscape, nil
	}

	// Stage 4: structural repair on top of the escaped text.
	repaired := StructuralRepair(escaped)
	doc, err := parseString(repaired)
	if err == nil {
		return doc, StageStructural, nil
	}

	// Stage 5: entity round-trip plus a targeted re-escape of the line the
	// stage-4 failure pointed at.
	line, _ := errorPosition(err, repaired)
	normalized := LastResortNormalize(repaired, line)
	if doc, err2 := parseString(normalized); err2 == nil {
		return doc, StageLastResort, nil
	} else {
		err = err2
		repaired = normalized
	}

	// Stage 6: give up with a diagnosable error.
	return nil, 0, newMalformedError(err, repaired)
}

// Repair applies the text repair stages unconditionally and returns the
// repaired content, or an error when even the repaired content does not
// parse. Used by FixFile and the fix command.
func (l *Loader) Repair(content string) (string, error) {
	fixed := StructuralRepair(EscapeTextSpans(content))
	if _, err := parseString(fixed); err != nil {
		line, _ := errorPosition(err, fixed)
		l.logger.Warn("repair stages insufficient, applying last-resort pass",
			zap.Int("line", line))
		fixed = LastResortNormalize(fixed, line)
		if _, err := parseString(fixed); err != nil {
			return fixed, newMalformedError(err, fixed)
		}
	}
	return fixed, nil
}

// FixFile repairs the file at inputPath and writes the result. When
// outputPath is empty the original is overwritten after a backup copy is
// written next to it with a .bak suffix; when outputPath is supplied the
// original file is never touched. Returns the path the repaired content was
// written to.
func (l *Loader) FixFile(inputPath, outputPath string) (string, error) {
	raw, err := os.ReadFile(inputPath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", &schemas.FileNotFoundError{Path: inputPath}
		}
		return "", err
	}
	content := DecodeContent(raw)

	if outputPath == "" {
		outputPath = inputPath
		if err := os.WriteFile(inputPath+".bak", []byte(content), 0o644); err != nil {
			return "", err
		}
	}

	fixed, repairErr := l.Repair(content)
	// Even an imperfect repair is written out so the caller can inspect it,
	// matching the warn-and-continue behavior of the fix workflow.
	if err := os.WriteFile(outputPath, []byte(fixed), 0o644); err != nil {
		return "", err
	}
	if repairErr != nil {
		return outputPath, repairErr
	}
	return outputPath, nil
}

// parseString parses already-decoded text. The charset reader is an
// identity passthrough: encoding declarations left over in repaired content
// must not fail the parse, the ladder has already decoded the bytes.
func parseString(s string) (*etree.Document, error) {
	doc := etree.NewDocument()
	doc.ReadSettings.CharsetReader = func(charset string, input io.Reader) (io.Reader, error) {
		return input, nil
	}
	if err := doc.ReadFromString(s); err != nil {
		return nil, err
	}
	if doc.Root() == nil {
		return nil, errNoRoot
	}
	return doc, nil
}

// parseBytes is the strict stage-1 parse of the raw input.
func parseBytes(raw []byte) (*etree.Document, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(raw); err != nil {
		return nil, err
	}
	if doc.Root() == nil {
		return nil, errNoRoot
	}
	return doc, nil
}
