package workspace

import "dhcp-admin-be/pkg/schema"

// Cell is one visible value in a list row.
type Cell struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

// Row is one selectable list entry. Radio semantics: at most one row in
// the list carries Selected.
type Row struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	Cells    []Cell `json:"cells"`
	Selected bool   `json:"selected"`
}

func buildRows(records []schema.Record, fields []string) []Row {
	rows := make([]Row, 0, len(records))
	for _, rec := range records {
		row := Row{
			ID:    rec.ID(),
			Label: rowLabel(rec),
			Cells: make([]Cell, 0, len(fields)),
		}
		for _, f := range fields {
			row.Cells = append(row.Cells, Cell{Field: f, Value: rec.StringValue(f)})
		}
		rows = append(rows, row)
	}
	return rows
}

func rowLabel(rec schema.Record) string {
	if name := rec.StringValue("itemName"); name != "" {
		return name
	}
	if name := rec.StringValue("name"); name != "" {
		return name
	}
	return "Unnamed"
}

func (r *Row) setCell(field, value string) {
	for i := range r.Cells {
		if r.Cells[i].Field == field {
			r.Cells[i].Value = value
			return
		}
	}
}
