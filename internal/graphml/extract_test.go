package graphml

import (
	"testing"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/xkilldash9x/lucidconv/api/schemas"
)

func parseDoc(t *testing.T, content string) *etree.Document {
	t.Helper()
	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromString(content))
	return doc
}

func TestExtractor_ResolvesDeclaredKeys(t *testing.T) {
	doc := parseDoc(t, `<?xml version="1.0"?>
<graphml xmlns="http://graphml.graphdrawing.org/xmlns">
  <key id="d0" for="node" attr.name="label" attr.type="string"/>
  <key id="d3" for="node" attr.name="team" attr.type="string"/>
  <key id="e1" for="edge" attr.name="cond" attr.type="string"/>
  <graph id="G" edgedefault="directed">
    <node id="a"><data key="d0">Intake</data><data key="d3">Support</data></node>
    <node id="b"/>
    <edge source="a" target="b"><data key="e1">approved</data></edge>
  </graph>
</graphml>`)

	model, err := NewExtractor(zaptest.NewLogger(t)).Extract(doc)
	require.NoError(t, err)

	require.Len(t, model.Nodes, 2)
	assert.Equal(t, "Intake", model.Nodes[0].Name)
	assert.Equal(t, "Support", model.Nodes[0].Properties[schemas.PropTeam])
	assert.Equal(t, "b", model.Nodes[1].Name)

	require.Len(t, model.Edges, 1)
	assert.Equal(t, "approved", model.Edges[0].Properties[schemas.PropCond])
	assert.Equal(t, "approved", model.Edges[0].Label())
}

func TestExtractor_UndeclaredDataKeysCarriedVerbatim(t *testing.T) {
	doc := parseDoc(t, `<graphml>
  <graph id="G">
    <node id="a"><data key="label">A</data><data key="owner">alice</data></node>
  </graph>
</graphml>`)

	model, err := NewExtractor(zaptest.NewLogger(t)).Extract(doc)
	require.NoError(t, err)
	require.Len(t, model.Nodes, 1)
	assert.Equal(t, "A", model.Nodes[0].Name)
	assert.Equal(t, "alice", model.Nodes[0].Properties["owner"])
}

func TestExtractor_DropsPartialEdges(t *testing.T) {
	doc := parseDoc(t, `<graphml>
  <graph id="G">
    <node id="a"/>
    <node id="b"/>
    <edge source="a" target="b"/>
    <edge source="a"/>
    <edge target="b"/>
    <edge/>
  </graph>
</graphml>`)

	model, err := NewExtractor(zaptest.NewLogger(t)).Extract(doc)
	require.NoError(t, err)
	assert.Len(t, model.Edges, 1)
}

func TestExtractor_SkipsNodesWithoutID_KeepsFirstDuplicate(t *testing.T) {
	doc := parseDoc(t, `<graphml>
  <graph id="G">
    <node><data key="label">anonymous</data></node>
    <node id="a"><data key="label">first</data></node>
    <node id="a"><data key="label">second</data></node>
  </graph>
</graphml>`)

	model, err := NewExtractor(zaptest.NewLogger(t)).Extract(doc)
	require.NoError(t, err)
	require.Len(t, model.Nodes, 1)
	assert.Equal(t, "first", model.Nodes[0].Name)
}

func TestExtractor_NamespacePrefixedDocument(t *testing.T) {
	doc := parseDoc(t, `<g:graphml xmlns:g="http://graphml.graphdrawing.org/xmlns">
  <g:graph id="G" edgedefault="directed">
    <g:node id="a"/>
    <g:node id="b"/>
    <g:edge source="a" target="b"/>
  </g:graph>
</g:graphml>`)

	model, err := NewExtractor(zaptest.NewLogger(t)).Extract(doc)
	require.NoError(t, err)
	assert.Len(t, model.Nodes, 2)
	assert.Len(t, model.Edges, 1)
}

func TestExtractor_MixedPrefixFallsBackToBareNames(t *testing.T) {
	doc := parseDoc(t, `<g:graphml xmlns:g="http://graphml.graphdrawing.org/xmlns">
  <graph id="G">
    <node id="a"/>
  </graph>
</g:graphml>`)

	model, err := NewExtractor(zaptest.NewLogger(t)).Extract(doc)
	require.NoError(t, err)
	assert.Len(t, model.Nodes, 1)
}

func TestExtractor_SchemaMismatch(t *testing.T) {
	t.Run("no root element", func(t *testing.T) {
		_, err := NewExtractor(zaptest.NewLogger(t)).Extract(etree.NewDocument())
		var smErr *schemas.SchemaMismatchError
		require.ErrorAs(t, err, &smErr)
		assert.Equal(t, "graphml", smErr.Missing)
	})

	t.Run("no graph container", func(t *testing.T) {
		doc := parseDoc(t, `<graphml><key id="d0" for="node" attr.name="label"/></graphml>`)
		_, err := NewExtractor(zaptest.NewLogger(t)).Extract(doc)
		var smErr *schemas.SchemaMismatchError
		require.ErrorAs(t, err, &smErr)
		assert.Equal(t, "graph", smErr.Missing)
	})
}

func TestExtractor_IgnoresNestedGraphChildren(t *testing.T) {
	doc := parseDoc(t, `<graphml>
  <graph id="G">
    <node id="outer">
      <graph id="inner">
        <node id="nested"/>
      </graph>
    </node>
  </graph>
</graphml>`)

	model, err := NewExtractor(zaptest.NewLogger(t)).Extract(doc)
	require.NoError(t, err)
	require.Len(t, model.Nodes, 1)
	assert.Equal(t, "outer", model.Nodes[0].ID)
}
