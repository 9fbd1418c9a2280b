package schemas

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGraphModel_AddNode_RejectsDuplicateIDs(t *testing.T) {
	model := &GraphModel{}

	assert.True(t, model.AddNode(GraphNode{ID: "a", Name: "A"}))
	assert.False(t, model.AddNode(GraphNode{ID: "a", Name: "A again"}))
	assert.Len(t, model.Nodes, 1)
	assert.Equal(t, "A", model.Nodes[0].Name)
	assert.True(t, model.HasNode("a"))
	assert.False(t, model.HasNode("b"))
}

func TestGraphModel_AddNode_DefaultsNameToID(t *testing.T) {
	model := &GraphModel{}
	model.AddNode(GraphNode{ID: "step_1"})
	assert.Equal(t, "step_1", model.Nodes[0].Name)
}

func TestGraphEdge_Label_ResolutionOrder(t *testing.T) {
	tests := []struct {
		name  string
		props map[string]string
		want  string
	}{
		{"explicit label wins", map[string]string{"label": "go", "cond": "x > 1"}, "go"},
		{"cond fallback", map[string]string{"cond": "x > 1"}, "x > 1"},
		{"condition fallback", map[string]string{"condition": "done"}, "done"},
		{"empty values skipped", map[string]string{"label": "", "cond": "retry"}, "retry"},
		{"no label", map[string]string{"team": "ops"}, ""},
		{"nil properties", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			edge := GraphEdge{Source: "a", Target: "b", Properties: tt.props}
			assert.Equal(t, tt.want, edge.Label())
		})
	}
}
