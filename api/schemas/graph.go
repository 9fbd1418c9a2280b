// File: api/schemas/graph.go
// Description: The shared directed-graph model passed between the loader,
// extractor and renderers. One shape per entity; properties are plain
// string-to-string bags.

package schemas

// Well-known property keys used across extraction and rendering.
const (
	PropLabel     = "label"
	PropType      = "type"
	PropDesc      = "desc"
	PropTeam      = "team"
	PropResp      = "resp"
	PropCrit      = "crit"
	PropCond      = "cond"
	PropCondition = "condition"
)

// GraphNode is a single node extracted from a graph document.
// Nodes are immutable after extraction; they are owned by the GraphModel
// that produced them.
type GraphNode struct {
	// ID is unique within one GraphModel and stable for a conversion run.
	ID string
	// Name is the display label, defaulting to ID when no label was present.
	Name string
	// Properties holds the folded data elements, keyed by their key attribute.
	Properties map[string]string
}

// GraphEdge connects two node ids. Referential integrity is not enforced
// here; renderers must skip edges whose endpoints are unknown.
type GraphEdge struct {
	Source     string
	Target     string
	Properties map[string]string
}

// Label resolves the display text for an edge: an explicit label property
// wins, then cond/condition, otherwise empty (no label rendered).
func (e GraphEdge) Label() string {
	for _, key := range []string{PropLabel, PropCond, PropCondition} {
		if v, ok := e.Properties[key]; ok && v != "" {
			return v
		}
	}
	return ""
}

// GraphModel is an ordered sequence of nodes and edges. Emission order of
// edges must equal extraction order so output stays deterministic.
type GraphModel struct {
	Nodes []GraphNode
	Edges []GraphEdge

	ids map[string]struct{}
}

// AddNode appends a node, rejecting duplicate ids. Returns false when the
// id is already present.
func (m *GraphModel) AddNode(n GraphNode) bool {
	if m.ids == nil {
		m.ids = make(map[string]struct{})
	}
	if _, dup := m.ids[n.ID]; dup {
		return false
	}
	if n.Name == "" {
		n.Name = n.ID
	}
	m.ids[n.ID] = struct{}{}
	m.Nodes = append(m.Nodes, n)
	return true
}

// AddEdge appends an edge. Dangling references are tolerated.
func (m *GraphModel) AddEdge(e GraphEdge) {
	m.Edges = append(m.Edges, e)
}

// HasNode reports whether a node with the given id exists in the model.
func (m *GraphModel) HasNode(id string) bool {
	_, ok := m.ids[id]
	return ok
}
