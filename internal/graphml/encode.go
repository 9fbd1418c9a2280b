// File: internal/graphml/encode.go
// Description: Renders the graph model back into a GraphML document with
// the standard key table. Node ids are sanitized here, and edge endpoints
// are sanitized with the same rule so references stay consistent.

package graphml

import (
	"regexp"
	"sort"

	"github.com/beevik/etree"

	"github.com/xkilldash9x/lucidconv/api/schemas"
)

const (
	xsiNamespace   = "http://www.w3.org/2001/XMLSchema-instance"
	yNamespace     = "http://www.yworks.com/xml/graphml"
	schemaLocation = "http://graphml.graphdrawing.org/xmlns http://graphml.graphdrawing.org/xmlns/1.0/graphml.xsd"
	namespace      = "http://graphml.graphdrawing.org/xmlns"
)

// keyDef declares one typed property definition in the GraphML header.
type keyDef struct {
	id   string
	kind string // "node" or "edge"
	name string
}

// keyTable is emitted in this order; node data elements reference it by
// property name.
var keyTable = []keyDef{
	{"d0", "node", schemas.PropLabel},
	{"d1", "node", schemas.PropType},
	{"d2", "node", schemas.PropDesc},
	{"d3", "node", schemas.PropTeam},
	{"d4", "node", schemas.PropResp},
	{"d5", "node", schemas.PropCrit},
	{"e0", "edge", schemas.PropLabel},
	{"e1", "edge", schemas.PropCond},
}

var invalidIDChar = regexp.MustCompile(`[^a-zA-Z0-9_]`)

// SanitizeID makes an identifier safe for GraphML: every character that is
// not alphanumeric or underscore becomes an underscore, and a leading digit
// gets an n_ prefix.
func SanitizeID(id string) string {
	if id == "" {
		return "node_unknown"
	}
	sanitized := invalidIDChar.ReplaceAllString(id, "_")
	if sanitized[0] >= '0' && sanitized[0] <= '9' {
		sanitized = "n_" + sanitized
	}
	return sanitized
}

// Encode builds a GraphML document from the model.
func Encode(model *schemas.GraphModel) *etree.Document {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("graphml")
	root.CreateAttr("xmlns", namespace)
	root.CreateAttr("xmlns:xsi", xsiNamespace)
	root.CreateAttr("xmlns:y", yNamespace)
	root.CreateAttr("xsi:schemaLocation", schemaLocation)

	for _, k := range keyTable {
		key := root.CreateElement("key")
		key.CreateAttr("id", k.id)
		key.CreateAttr("for", k.kind)
		key.CreateAttr("attr.name", k.name)
		key.CreateAttr("attr.type", "string")
	}

	graph := root.CreateElement("graph")
	graph.CreateAttr("id", "G")
	graph.CreateAttr("edgedefault", "directed")

	for _, node := range model.Nodes {
		el := graph.CreateElement("node")
		el.CreateAttr("id", SanitizeID(node.ID))
		writeData(el, node.Properties, "node")
	}

	for _, edge := range model.Edges {
		el := graph.CreateElement("edge")
		el.CreateAttr("source", SanitizeID(edge.Source))
		el.CreateAttr("target", SanitizeID(edge.Target))
		writeData(el, edge.Properties, "edge")
	}

	doc.Indent(2)
	return doc
}

// EncodeBytes serializes the model to GraphML text.
func EncodeBytes(model *schemas.GraphModel) ([]byte, error) {
	return Encode(model).WriteToBytes()
}

// writeData emits data children in key-table order so output is
// deterministic regardless of map iteration.
func writeData(el *etree.Element, props map[string]string, kind string) {
	for _, k := range keyTable {
		if k.kind != kind {
			continue
		}
		value, ok := props[k.name]
		if !ok || value == "" {
			continue
		}
		data := el.CreateElement("data")
		data.CreateAttr("key", k.id)
		data.SetText(value)
	}
	// Properties outside the declared table are carried under their own
	// name so nothing extracted is silently lost.
	var extras []string
	for name := range props {
		if !isDeclaredKey(name, kind) && props[name] != "" {
			extras = append(extras, name)
		}
	}
	sort.Strings(extras)
	for _, name := range extras {
		data := el.CreateElement("data")
		data.CreateAttr("key", name)
		data.SetText(props[name])
	}
}

func isDeclaredKey(name, kind string) bool {
	for _, k := range keyTable {
		if k.kind == kind && k.name == name {
			return true
		}
	}
	return false
}
