// File: internal/render/csv.go
// Description: Tabular rendering for the Lucidchart CSV importer. Row 1 is
// always the page record; node rows are assigned monotonically increasing
// ids, and edge rows reference those ids for their endpoints.

package render

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/xkilldash9x/lucidconv/api/schemas"
)

// CSVHeader is the fixed column order the importer expects.
var CSVHeader = []string{
	"Id", "Name", "Shape Library", "Page ID", "Contained By",
	"Line Source", "Line Destination", "Source Arrow", "Destination Arrow",
	"Text Area 1", "Text Area 2", "Text Area 3",
}

// LucidRow is one record in the import table.
type LucidRow struct {
	ID               string
	Name             string
	ShapeLibrary     string
	PageID           string
	ContainedBy      string
	LineSource       string
	LineDestination  string
	SourceArrow      string
	DestinationArrow string
	TextArea1        string
	TextArea2        string
	TextArea3        string
}

func (r LucidRow) record() []string {
	return []string{
		r.ID, r.Name, r.ShapeLibrary, r.PageID, r.ContainedBy,
		r.LineSource, r.LineDestination, r.SourceArrow, r.DestinationArrow,
		r.TextArea1, r.TextArea2, r.TextArea3,
	}
}

// shapeName picks the flowchart shape from the node's type property.
func shapeName(props map[string]string) string {
	t := strings.ToLower(props[schemas.PropType])
	switch {
	case strings.Contains(t, "start") || strings.Contains(t, "begin"),
		strings.Contains(t, "end") || strings.Contains(t, "stop"):
		return "Terminator"
	case strings.Contains(t, "decision") || strings.Contains(t, "condition"):
		return "Decision"
	case strings.Contains(t, "input") || strings.Contains(t, "output"):
		return "Data"
	}
	return "Process"
}

// LucidRows builds the import table: the page row, one row per node, one
// row per non-dangling edge.
func LucidRows(model *schemas.GraphModel) []LucidRow {
	rowID := 1
	rows := []LucidRow{{
		ID:        strconv.Itoa(rowID),
		Name:      "Page",
		TextArea1: "Page 1",
	}}
	rowID++

	// Stable mapping from node id to assigned row id; edge rows reference
	// endpoints through it.
	nodeRow := make(map[string]string, len(model.Nodes))

	for _, node := range model.Nodes {
		nodeRow[node.ID] = strconv.Itoa(rowID)
		rows = append(rows, LucidRow{
			ID:           strconv.Itoa(rowID),
			Name:         shapeName(node.Properties),
			ShapeLibrary: "Flowchart Shapes",
			PageID:       "1",
			TextArea1:    node.Name,
			TextArea2:    node.Properties[schemas.PropResp],
			TextArea3:    node.Properties[schemas.PropTeam],
		})
		rowID++
	}

	for _, edge := range model.Edges {
		source, okS := nodeRow[edge.Source]
		target, okT := nodeRow[edge.Target]
		if !okS || !okT {
			continue
		}
		rows = append(rows, LucidRow{
			ID:               strconv.Itoa(rowID),
			Name:             "Line",
			PageID:           "1",
			LineSource:       source,
			LineDestination:  target,
			SourceArrow:      "None",
			DestinationArrow: "Arrow",
			TextArea1:        edge.Label(),
		})
		rowID++
	}

	return rows
}

// WriteCSV writes the header plus the rows to w.
func WriteCSV(w io.Writer, rows []LucidRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return err
	}
	for _, row := range rows {
		if err := cw.Write(row.record()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
