// File: internal/render/plantuml.go
// Description: PlantUML renderers. The class diagram exposes every node
// property as an attribute; the activity diagram is a linear reading of the
// nodes with labeled transitions.

package render

import (
	"fmt"
	"sort"
	"strings"

	"github.com/xkilldash9x/lucidconv/api/schemas"
)

// plantUMLHeader holds the shared skinparam preamble.
func plantUMLHeader(kind string) []string {
	return []string{
		"@startuml",
		"",
		"' PlantUML " + kind + " Diagram",
		"' Generated from GraphML",
		"skinparam shadowing false",
		"skinparam monochrome false",
		"skinparam defaultFontName Arial",
		"skinparam defaultFontSize 12",
	}
}

// PlantUMLClass renders a class diagram: one class per node with its
// properties as attributes, one labeled arrow per edge.
func PlantUMLClass(model *schemas.GraphModel) string {
	lines := plantUMLHeader("Class")
	lines = append(lines,
		"skinparam classAttributeIconSize 0",
		"skinparam packageStyle rectangle",
		"")

	known := make(map[string]bool, len(model.Nodes))
	for _, node := range model.Nodes {
		known[node.ID] = true
		lines = append(lines, fmt.Sprintf("class %q as %s {", node.Name, node.ID))
		for _, key := range propertyKeysSorted(node.Properties) {
			if key == schemas.PropLabel {
				continue // already the class name
			}
			value := strings.ReplaceAll(node.Properties[key], "\n", "\\n")
			lines = append(lines, fmt.Sprintf("  +%s: %s", key, value))
		}
		lines = append(lines, "}", "")
	}

	for _, edge := range model.Edges {
		if !known[edge.Source] || !known[edge.Target] {
			continue
		}
		if cond := edge.Properties[schemas.PropCond]; cond != "" {
			lines = append(lines, fmt.Sprintf("%s --> %s : %s", edge.Source, edge.Target, cond))
		} else {
			lines = append(lines, fmt.Sprintf("%s --> %s", edge.Source, edge.Target))
		}
	}

	lines = append(lines, "", "@enduml")
	return strings.Join(lines, "\n")
}

// PlantUMLActivity renders an activity diagram: one activity per node
// annotated with its team, then one labeled transition per distinct edge.
func PlantUMLActivity(model *schemas.GraphModel) string {
	lines := plantUMLHeader("Activity")
	lines = append(lines,
		"skinparam ActivityBackgroundColor #FEFECE",
		"skinparam ActivityBorderColor #000000",
		"")

	for _, node := range model.Nodes {
		display := node.Name
		if team := node.Properties[schemas.PropTeam]; team != "" {
			display = fmt.Sprintf("%s\\n(%s)", node.Name, team)
		}
		lines = append(lines, fmt.Sprintf(":%s;", display))
	}

	seen := make(map[string]bool)
	for _, edge := range model.Edges {
		key := edge.Source + "->" + edge.Target
		if seen[key] {
			continue
		}
		seen[key] = true
		if cond := edge.Properties[schemas.PropCond]; cond != "" {
			lines = append(lines, fmt.Sprintf("-> %s;", cond))
		}
	}

	lines = append(lines, "", "@enduml")
	return strings.Join(lines, "\n")
}

func propertyKeysSorted(props map[string]string) []string {
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
