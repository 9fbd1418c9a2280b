// File: internal/workflow/workflow.go
// Description: Decodes the workflow JSON schema into the shared graph
// model. A non-empty entry condition produces a synthetic start node wired
// to the first workflow node. An explicit edges array is authoritative:
// when it is present, per-node handoff destinations are ignored.

package workflow

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"

	"github.com/xkilldash9x/lucidconv/api/schemas"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// StartNodeID is the id of the synthetic node created for the flow's entry
// condition.
const StartNodeID = "start"

// Document is the top-level workflow JSON shape.
type Document struct {
	Flow *Flow `json:"flow"`
}

// Flow holds the workflow definition.
type Flow struct {
	EntryCondition string     `json:"entry_condition"`
	Nodes          []FlowNode `json:"nodes"`
	// Edges is nil when absent; an empty-but-present array still counts as
	// authoritative and suppresses handoff-derived edges.
	Edges []FlowEdge `json:"edges"`
}

// FlowNode is one workflow step.
type FlowNode struct {
	ID                      string   `json:"id"`
	Name                    string   `json:"name"`
	EntryCondition          string   `json:"entry_condition"`
	ResponsibleTeam         string   `json:"responsible_team"`
	CoreResponsibilities    string   `json:"core_responsibilities"`
	CompletionCriteria      string   `json:"completion_criteria"`
	NextHandoffDestinations []string `json:"next_handoff_destinations"`
}

// FlowEdge is one explicit transition.
type FlowEdge struct {
	From      string `json:"from"`
	To        string `json:"to"`
	Condition string `json:"condition"`
}

// FromJSON decodes workflow JSON and builds the graph model.
func FromJSON(data []byte) (*schemas.GraphModel, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("invalid workflow JSON: %w", err)
	}
	if doc.Flow == nil {
		return nil, &schemas.SchemaMismatchError{Missing: "flow"}
	}
	return FromFlow(doc.Flow)
}

// FromFlow builds the graph model from an already-decoded flow.
func FromFlow(flow *Flow) (*schemas.GraphModel, error) {
	if flow.Nodes == nil {
		return nil, &schemas.SchemaMismatchError{Missing: "nodes"}
	}

	model := &schemas.GraphModel{}

	startConnected := true
	if flow.EntryCondition != "" {
		model.AddNode(schemas.GraphNode{
			ID:   StartNodeID,
			Name: "Start",
			Properties: map[string]string{
				schemas.PropLabel: "Start",
				schemas.PropType:  "start",
				schemas.PropDesc:  flow.EntryCondition,
			},
		})
		startConnected = false
	}

	for _, fn := range flow.Nodes {
		if fn.ID == "" {
			continue
		}
		label := fn.Name
		if label == "" {
			label = fn.ID
		}
		props := map[string]string{
			schemas.PropLabel: label,
			schemas.PropType:  "process",
		}
		setIfPresent(props, schemas.PropDesc, fn.EntryCondition)
		setIfPresent(props, schemas.PropTeam, fn.ResponsibleTeam)
		setIfPresent(props, schemas.PropResp, fn.CoreResponsibilities)
		setIfPresent(props, schemas.PropCrit, fn.CompletionCriteria)

		model.AddNode(schemas.GraphNode{ID: fn.ID, Name: label, Properties: props})

		if !startConnected {
			model.AddEdge(schemas.GraphEdge{
				Source:     StartNodeID,
				Target:     fn.ID,
				Properties: map[string]string{schemas.PropCond: flow.EntryCondition},
			})
			startConnected = true
		}
	}

	if flow.Edges != nil {
		for _, fe := range flow.Edges {
			if fe.From == "" || fe.To == "" {
				continue
			}
			props := map[string]string{}
			setIfPresent(props, schemas.PropCond, fe.Condition)
			model.AddEdge(schemas.GraphEdge{Source: fe.From, Target: fe.To, Properties: props})
		}
		return model, nil
	}

	for _, fn := range flow.Nodes {
		if fn.ID == "" {
			continue
		}
		for _, dest := range fn.NextHandoffDestinations {
			if dest == "" {
				continue
			}
			model.AddEdge(schemas.GraphEdge{
				Source:     fn.ID,
				Target:     dest,
				Properties: map[string]string{},
			})
		}
	}
	return model, nil
}

func setIfPresent(props map[string]string, key, value string) {
	if value != "" {
		props[key] = value
	}
}
