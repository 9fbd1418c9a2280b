package xmlrepair

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/xkilldash9x/lucidconv/api/schemas"
)

const wellFormedDoc = `<?xml version="1.0" encoding="UTF-8"?>
<graphml xmlns="http://graphml.graphdrawing.org/xmlns">
  <graph id="G" edgedefault="directed">
    <node id="a"><data key="d0">Start</data></node>
    <node id="b"/>
    <edge source="a" target="b"/>
  </graph>
</graphml>`

func newTestLoader(t *testing.T) *Loader {
	t.Helper()
	return NewLoader(zaptest.NewLogger(t))
}

func TestLoader_WellFormedTakesDirectStage(t *testing.T) {
	l := newTestLoader(t)

	doc, stage, err := l.loadContent([]byte(wellFormedDoc))
	require.NoError(t, err)
	assert.Equal(t, StageDirect, stage)
	require.NotNil(t, doc.Root())
	assert.Equal(t, "graphml", doc.Root().Tag)
}

func TestLoader_BareAmpersandRepairedByEscapeStage(t *testing.T) {
	l := newTestLoader(t)
	content := `<?xml version="1.0"?>
<graphml xmlns="http://graphml.graphdrawing.org/xmlns">
  <graph id="G" edgedefault="directed">
    <node id="a"><data key="d0">Fish & Chips</data></node>
  </graph>
</graphml>`

	doc, stage, err := l.loadContent([]byte(content))
	require.NoError(t, err)
	assert.Equal(t, StageEscape, stage)

	data := doc.FindElement("//data")
	require.NotNil(t, data)
	assert.Equal(t, "Fish & Chips", data.Text())
}

func TestLoader_UnclosedTagsRepairedByStructuralStage(t *testing.T) {
	l := newTestLoader(t)
	content := `<?xml version="1.0" encoding="UTF-8"?>
<graphml xmlns="http://graphml.graphdrawing.org/xmlns">
<graph id="G" edgedefault="directed">
<node id="a"/>
<node id="b"/>
<edge source="a" target="b"/>`

	doc, stage, err := l.loadContent([]byte(content))
	require.NoError(t, err)
	assert.Equal(t, StageStructural, stage)
	assert.Len(t, doc.FindElements("//node"), 2)
	assert.Len(t, doc.FindElements("//edge"), 1)
}

func TestLoader_MisencodedBytesAreRecovered(t *testing.T) {
	l := newTestLoader(t)
	content := "<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?>\n" +
		"<graphml xmlns=\"http://graphml.graphdrawing.org/xmlns\">" +
		"<graph id=\"G\" edgedefault=\"directed\">" +
		"<node id=\"a\"><data key=\"d0\">caf\xe9</data></node>" +
		"</graph></graphml>"

	doc, stage, err := l.loadContent([]byte(content))
	require.NoError(t, err)
	assert.Equal(t, StageEscape, stage)

	data := doc.FindElement("//data")
	require.NotNil(t, data)
	assert.Equal(t, "café", data.Text())
}

func TestLoader_ExhaustedLadderReportsDiagnosableError(t *testing.T) {
	l := newTestLoader(t)
	content := `<?xml version="1.0"?>
<graphml>
<graph id="G>
<node id="a"/>
</graph>
</graphml>`

	_, _, err := l.loadContent([]byte(content))
	require.Error(t, err)

	var merr *schemas.MalformedDocumentError
	require.ErrorAs(t, err, &merr)
	assert.GreaterOrEqual(t, merr.Line, 1)
	assert.NotEmpty(t, merr.Context)
	assert.Contains(t, merr.Context, "^ error occurs near here")
	assert.Error(t, merr.Unwrap())
}

func TestLoader_Load_MissingFile(t *testing.T) {
	l := newTestLoader(t)

	_, err := l.Load(filepath.Join(t.TempDir(), "nope.graphml"))
	var nfe *schemas.FileNotFoundError
	require.ErrorAs(t, err, &nfe)
	assert.Contains(t, nfe.Error(), "nope.graphml")
}

func TestLoader_LoadStrict(t *testing.T) {
	l := newTestLoader(t)
	dir := t.TempDir()

	good := filepath.Join(dir, "good.graphml")
	require.NoError(t, os.WriteFile(good, []byte(wellFormedDoc), 0o644))
	doc, err := l.LoadStrict(good)
	require.NoError(t, err)
	assert.NotNil(t, doc.Root())

	bad := filepath.Join(dir, "bad.graphml")
	require.NoError(t, os.WriteFile(bad, []byte("<graphml><data>a & b</data></graphml>"), 0o644))
	_, err = l.LoadStrict(bad)
	var merr *schemas.MalformedDocumentError
	require.ErrorAs(t, err, &merr)
}

func TestLoader_Load_RepairsWithoutTouchingDisk(t *testing.T) {
	l := newTestLoader(t)
	dir := t.TempDir()
	broken := "<graphml><graph id=\"G\"><node id=\"a\">Fish & Chips"
	path := filepath.Join(dir, "broken.graphml")
	require.NoError(t, os.WriteFile(path, []byte(broken), 0o644))

	doc, err := l.Load(path)
	require.NoError(t, err)
	assert.NotNil(t, doc.FindElement("//node"))

	onDisk, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, broken, string(onDisk))
}

func TestLoader_FixFile_BackupAndOverwrite(t *testing.T) {
	l := newTestLoader(t)
	dir := t.TempDir()
	broken := "<graphml><graph id=\"G\"><node id=\"a\">Fish & Chips"
	path := filepath.Join(dir, "broken.graphml")
	require.NoError(t, os.WriteFile(path, []byte(broken), 0o644))

	fixedPath, err := l.FixFile(path, "")
	require.NoError(t, err)
	assert.Equal(t, path, fixedPath)

	backup, err := os.ReadFile(path + ".bak")
	require.NoError(t, err)
	assert.Equal(t, broken, string(backup))

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromFile(path))
	assert.NotNil(t, doc.FindElement("//node"))
}

func TestLoader_FixFile_ExplicitOutputLeavesOriginal(t *testing.T) {
	l := newTestLoader(t)
	dir := t.TempDir()
	broken := "<graphml><graph id=\"G\"><node id=\"a\"/>"
	in := filepath.Join(dir, "in.graphml")
	out := filepath.Join(dir, "out.graphml")
	require.NoError(t, os.WriteFile(in, []byte(broken), 0o644))

	fixedPath, err := l.FixFile(in, out)
	require.NoError(t, err)
	assert.Equal(t, out, fixedPath)

	original, err := os.ReadFile(in)
	require.NoError(t, err)
	assert.Equal(t, broken, string(original))

	_, err = os.Stat(in + ".bak")
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestStage_String(t *testing.T) {
	assert.Equal(t, "direct", StageDirect.String())
	assert.Equal(t, "escape", StageEscape.String())
	assert.Equal(t, "structural", StageStructural.String())
	assert.Equal(t, "last-resort", StageLastResort.String())
	assert.Equal(t, "unknown", Stage(0).String())
}
