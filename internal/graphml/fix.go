// File: internal/graphml/fix.go
// Description: GraphML-specific structure repair applied on top of the
// generic XML repair ladder by the fix workflow: namespace and edgedefault
// injection, key-table injection, and digit-leading node id fixes
// propagated to edge endpoints.

package graphml

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	graphIDRE     = regexp.MustCompile(`<graph\s+id="([^"]*)"`)
	graphmlOpenRE = regexp.MustCompile(`<graphml[^>]*>`)
	nodeIDRE      = regexp.MustCompile(`<node\s+id="([^"]*)"`)
)

// RepairStructure ensures the root carries the GraphML namespaces and the
// graph element declares directed edges.
func RepairStructure(content string) string {
	if strings.Contains(content, "<graphml") && !strings.Contains(content, "xmlns=") {
		content = strings.Replace(content, "<graphml",
			`<graphml xmlns="`+namespace+`" xmlns:xsi="`+xsiNamespace+
				`" xsi:schemaLocation="`+schemaLocation+`"`, 1)
	}
	if strings.Contains(content, "<graph") && !strings.Contains(content, "edgedefault=") {
		content = graphIDRE.ReplaceAllString(content, `<graph id="$1" edgedefault="directed"`)
	}
	return content
}

// EnsureKeys injects the standard key table right after the opening graphml
// tag when the document declares no keys at all.
func EnsureKeys(content string) string {
	if strings.Contains(content, "<key ") {
		return content
	}
	open := graphmlOpenRE.FindString(content)
	if open == "" {
		return content
	}
	var b strings.Builder
	b.WriteString("\n")
	for _, k := range keyTable {
		fmt.Fprintf(&b, "  <key id=%q for=%q attr.name=%q attr.type=\"string\"/>\n",
			k.id, k.kind, k.name)
	}
	return strings.Replace(content, open, open+b.String(), 1)
}

// FixNodeIDs rewrites node ids that start with a digit to carry the n_
// prefix, and rewrites every edge source/target that referenced the old id
// so the graph stays connected.
func FixNodeIDs(content string) string {
	replacements := make(map[string]string)
	for _, m := range nodeIDRE.FindAllStringSubmatch(content, -1) {
		id := m[1]
		if id == "" || id[0] < '0' || id[0] > '9' {
			continue
		}
		replacements[id] = "n_" + id
	}
	for oldID, newID := range replacements {
		content = strings.ReplaceAll(content,
			fmt.Sprintf(`<node id="%s"`, oldID), fmt.Sprintf(`<node id="%s"`, newID))
		content = strings.ReplaceAll(content,
			fmt.Sprintf(`source="%s"`, oldID), fmt.Sprintf(`source="%s"`, newID))
		content = strings.ReplaceAll(content,
			fmt.Sprintf(`target="%s"`, oldID), fmt.Sprintf(`target="%s"`, newID))
	}
	return content
}

// FixStructureContent is the composite applied by the fix command after the
// generic XML repair.
func FixStructureContent(content string) string {
	content = RepairStructure(content)
	content = EnsureKeys(content)
	content = FixNodeIDs(content)
	return content
}
