// File: internal/render/uml.go
// Description: Pure renderers from the graph model to the line-oriented
// Lucidchart markup. Dangling edges are skipped, never reported; the model
// makes no referential-integrity promise.

package render

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/xkilldash9x/lucidconv/api/schemas"
)

// SanitizeName makes a display name safe for the diagram importers:
// every character that is not alphanumeric, underscore or whitespace
// becomes an underscore.
func SanitizeName(name string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) || r == '_' {
			return r
		}
		return '_'
	}, name)
}

// nodeNames maps node ids to sanitized display names. Edges referencing ids
// outside this map are dangling and get skipped.
func nodeNames(model *schemas.GraphModel) map[string]string {
	names := make(map[string]string, len(model.Nodes))
	for _, n := range model.Nodes {
		names[n.ID] = SanitizeName(n.Name)
	}
	return names
}

// Sequence renders Lucidchart sequence-diagram markup.
func Sequence(model *schemas.GraphModel) string {
	names := nodeNames(model)
	lines := []string{
		"# Lucidchart Sequence Diagram",
		"# Generated from GraphML file",
		"",
	}

	for _, edge := range model.Edges {
		source, okS := names[edge.Source]
		target, okT := names[edge.Target]
		if !okS || !okT {
			continue
		}
		if label := edge.Label(); label != "" {
			lines = append(lines, fmt.Sprintf("%s -> %s: %s", source, target, label))
		} else {
			lines = append(lines, fmt.Sprintf("%s -> %s", source, target))
		}
	}

	// One note per node carrying whatever detail properties it has.
	for _, node := range model.Nodes {
		name := names[node.ID]
		var parts []string
		if v := node.Properties[schemas.PropTeam]; v != "" {
			parts = append(parts, "Team: "+v)
		}
		if v := node.Properties[schemas.PropResp]; v != "" {
			parts = append(parts, "Responsibilities: "+v)
		}
		if v := node.Properties[schemas.PropCond]; v != "" {
			parts = append(parts, "Condition: "+v)
		}
		if len(parts) > 0 {
			lines = append(lines, fmt.Sprintf("note right of %s: %s", name, strings.Join(parts, ", ")))
		}
	}

	return strings.Join(lines, "\n")
}

// flowchartKind classifies a node for the flowchart markup based on its
// type property.
func flowchartKind(props map[string]string) string {
	t := strings.ToLower(props[schemas.PropType])
	switch {
	case strings.Contains(t, "start") || strings.Contains(t, "begin"):
		return "start"
	case strings.Contains(t, "end") || strings.Contains(t, "stop"):
		return "end"
	case strings.Contains(t, "decision") || strings.Contains(t, "condition"):
		return "decision"
	case strings.Contains(t, "input") || strings.Contains(t, "output"):
		return "io"
	}
	return "process"
}

// Flowchart renders Lucidchart flowchart markup: node definitions first,
// then the connections.
func Flowchart(model *schemas.GraphModel) string {
	names := nodeNames(model)
	lines := []string{
		"# Lucidchart Flowchart",
		"# Generated from GraphML file",
		"",
	}

	for _, node := range model.Nodes {
		lines = append(lines, fmt.Sprintf("%s[%s]", names[node.ID], flowchartKind(node.Properties)))
	}
	lines = append(lines, "")

	for _, edge := range model.Edges {
		source, okS := names[edge.Source]
		target, okT := names[edge.Target]
		if !okS || !okT {
			continue
		}
		if label := edge.Label(); label != "" {
			lines = append(lines, fmt.Sprintf("%s -> %s: %s", source, target, label))
		} else {
			lines = append(lines, fmt.Sprintf("%s -> %s", source, target))
		}
	}

	return strings.Join(lines, "\n")
}
