// File: internal/graphml/extract.go
// Description: Walks a parsed GraphML document and produces the shared
// graph model. Lookups prefer the root's namespace prefix and fall back to
// unqualified names so documents mixing namespaced and bare elements still
// extract.

package graphml

import (
	"github.com/beevik/etree"
	"go.uber.org/zap"

	"github.com/xkilldash9x/lucidconv/api/schemas"
)

// Extractor pulls nodes and edges out of a parsed document.
type Extractor struct {
	logger *zap.Logger
}

// NewExtractor creates an Extractor. A nil logger falls back to a no-op one.
func NewExtractor(logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{logger: logger.Named("graphml")}
}

// Extract produces the graph model from doc. It fails with a
// SchemaMismatchError when no graph container element can be found.
func (x *Extractor) Extract(doc *etree.Document) (*schemas.GraphModel, error) {
	root := doc.Root()
	if root == nil {
		return nil, &schemas.SchemaMismatchError{Missing: "graphml"}
	}

	// The root's prefix qualifies all child lookups; bare names are the
	// fallback for sloppily mixed documents.
	space := root.Space

	graph := findFirst(root, space, "graph")
	if graph == nil {
		return nil, &schemas.SchemaMismatchError{Missing: "graph"}
	}

	// Key declarations translate data ids like d0 back to property names.
	keys := keyNameMap(root, space)

	model := &schemas.GraphModel{}

	// Only direct children of the graph container count; nested graphs are
	// somebody else's problem.
	for _, nodeEl := range childElements(graph, space, "node") {
		id := nodeEl.SelectAttrValue("id", "")
		if id == "" {
			x.logger.Debug("skipping node element without id attribute")
			continue
		}
		node := schemas.GraphNode{ID: id, Properties: foldData(nodeEl, space, keys)}
		if label, ok := node.Properties[schemas.PropLabel]; ok && label != "" {
			node.Name = label
		} else {
			node.Name = id
		}
		if !model.AddNode(node) {
			x.logger.Warn("duplicate node id, keeping first occurrence", zap.String("id", id))
		}
	}

	for _, edgeEl := range childElements(graph, space, "edge") {
		source := edgeEl.SelectAttrValue("source", "")
		target := edgeEl.SelectAttrValue("target", "")
		// Partial edges are common in hand-edited files; drop them quietly.
		if source == "" || target == "" {
			x.logger.Debug("dropping edge with missing endpoint",
				zap.String("source", source), zap.String("target", target))
			continue
		}
		model.AddEdge(schemas.GraphEdge{
			Source:     source,
			Target:     target,
			Properties: foldData(edgeEl, space, keys),
		})
	}

	return model, nil
}

// keyNameMap folds the document's key declarations into an id to
// attr.name translation table.
func keyNameMap(root *etree.Element, space string) map[string]string {
	keys := make(map[string]string)
	for _, keyEl := range childElements(root, space, "key") {
		id := keyEl.SelectAttrValue("id", "")
		name := keyEl.SelectAttrValue("attr.name", "")
		if id != "" && name != "" {
			keys[id] = name
		}
	}
	return keys
}

// foldData collects an element's data children into a property bag. Data
// keys matching a declared key id are stored under the declared property
// name; undeclared keys are carried as-is.
func foldData(el *etree.Element, space string, keys map[string]string) map[string]string {
	props := make(map[string]string)
	for _, data := range childElements(el, space, "data") {
		key := data.SelectAttrValue("key", "")
		if key == "" {
			continue
		}
		if name, ok := keys[key]; ok {
			key = name
		}
		props[key] = data.Text()
	}
	return props
}

// childElements returns the direct children matching tag under the given
// namespace prefix, falling back to unqualified names only when the
// qualified lookup yields nothing.
func childElements(parent *etree.Element, space, tag string) []*etree.Element {
	matches := selectChildren(parent, space, tag)
	if len(matches) == 0 && space != "" {
		matches = selectChildren(parent, "", tag)
	}
	return matches
}

func selectChildren(parent *etree.Element, space, tag string) []*etree.Element {
	var out []*etree.Element
	for _, child := range parent.ChildElements() {
		if child.Tag == tag && child.Space == space {
			out = append(out, child)
		}
	}
	return out
}

// findFirst locates the first element with the given tag anywhere below
// root, depth-first, preferring the qualified name.
func findFirst(root *etree.Element, space, tag string) *etree.Element {
	if el := findFirstSpace(root, space, tag); el != nil {
		return el
	}
	if space != "" {
		return findFirstSpace(root, "", tag)
	}
	return nil
}

func findFirstSpace(el *etree.Element, space, tag string) *etree.Element {
	for _, child := range el.ChildElements() {
		if child.Tag == tag && child.Space == space {
			return child
		}
		if found := findFirstSpace(child, space, tag); found != nil {
			return found
		}
	}
	return nil
}
