package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/lucidconv/api/schemas"
)

func TestFromJSON_EntryConditionCreatesStartNode(t *testing.T) {
	data := []byte(`{
		"flow": {
			"entry_condition": "ticket received",
			"nodes": [
				{"id": "a", "name": "Triage", "responsible_team": "Support",
				 "next_handoff_destinations": []},
				{"id": "b", "name": "Resolve", "next_handoff_destinations": ["a"]}
			]
		}
	}`)

	model, err := FromJSON(data)
	require.NoError(t, err)

	require.Len(t, model.Nodes, 3)
	assert.Equal(t, StartNodeID, model.Nodes[0].ID)
	assert.Equal(t, "Start", model.Nodes[0].Name)
	assert.Equal(t, "start", model.Nodes[0].Properties[schemas.PropType])
	assert.Equal(t, "ticket received", model.Nodes[0].Properties[schemas.PropDesc])
	assert.Equal(t, "Triage", model.Nodes[1].Name)
	assert.Equal(t, "Support", model.Nodes[1].Properties[schemas.PropTeam])

	require.Len(t, model.Edges, 2)
	assert.Equal(t, StartNodeID, model.Edges[0].Source)
	assert.Equal(t, "a", model.Edges[0].Target)
	assert.Equal(t, "ticket received", model.Edges[0].Properties[schemas.PropCond])
	assert.Equal(t, "b", model.Edges[1].Source)
	assert.Equal(t, "a", model.Edges[1].Target)
}

func TestFromJSON_NoEntryConditionNoStartNode(t *testing.T) {
	data := []byte(`{"flow": {"nodes": [{"id": "a"}]}}`)

	model, err := FromJSON(data)
	require.NoError(t, err)
	require.Len(t, model.Nodes, 1)
	assert.Equal(t, "a", model.Nodes[0].ID)
	assert.Empty(t, model.Edges)
}

func TestFromJSON_ExplicitEdgesSuppressHandoffs(t *testing.T) {
	data := []byte(`{
		"flow": {
			"nodes": [
				{"id": "a", "next_handoff_destinations": ["b", "c"]},
				{"id": "b"},
				{"id": "c"}
			],
			"edges": [
				{"from": "a", "to": "c", "condition": "escalated"}
			]
		}
	}`)

	model, err := FromJSON(data)
	require.NoError(t, err)
	require.Len(t, model.Edges, 1)
	assert.Equal(t, "a", model.Edges[0].Source)
	assert.Equal(t, "c", model.Edges[0].Target)
	assert.Equal(t, "escalated", model.Edges[0].Properties[schemas.PropCond])
}

func TestFromJSON_EmptyEdgesArrayStillAuthoritative(t *testing.T) {
	data := []byte(`{
		"flow": {
			"nodes": [{"id": "a", "next_handoff_destinations": ["b"]}, {"id": "b"}],
			"edges": []
		}
	}`)

	model, err := FromJSON(data)
	require.NoError(t, err)
	assert.Empty(t, model.Edges)
}

func TestFromJSON_SkipsMalformedEntries(t *testing.T) {
	data := []byte(`{
		"flow": {
			"nodes": [
				{"id": "", "name": "no id"},
				{"id": "a", "next_handoff_destinations": ["", "b"]},
				{"id": "b"}
			],
			"edges": null
		}
	}`)

	model, err := FromJSON(data)
	require.NoError(t, err)
	require.Len(t, model.Nodes, 2)
	require.Len(t, model.Edges, 1)
	assert.Equal(t, "b", model.Edges[0].Target)
}

func TestFromJSON_SchemaErrors(t *testing.T) {
	t.Run("invalid JSON", func(t *testing.T) {
		_, err := FromJSON([]byte(`{not json`))
		assert.ErrorContains(t, err, "invalid workflow JSON")
	})

	t.Run("missing flow", func(t *testing.T) {
		_, err := FromJSON([]byte(`{"something": 1}`))
		var smErr *schemas.SchemaMismatchError
		require.ErrorAs(t, err, &smErr)
		assert.Equal(t, "flow", smErr.Missing)
	})

	t.Run("missing nodes", func(t *testing.T) {
		_, err := FromJSON([]byte(`{"flow": {"entry_condition": "x"}}`))
		var smErr *schemas.SchemaMismatchError
		require.ErrorAs(t, err, &smErr)
		assert.Equal(t, "nodes", smErr.Missing)
	})
}
