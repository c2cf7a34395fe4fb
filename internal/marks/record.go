// internal/marks/record.go
package marks

// Record is one row of marks data.
type Record struct {
	Index    int               `json:"index"`
	ID       string            `json:"studentId"`
	Name     string            `json:"name"`
	Semester string            `json:"semester"`
	Meta     map[string]string `json:"meta,omitempty"`
	Marks    map[string]Value  `json:"marks"`
}

// Mark returns the mark for a subject; unknown subjects are missing.
func (r Record) Mark(subject string) Value {
	return r.Marks[subject]
}

// BuildRecords turns each table row into a Record in input order.
func BuildRecords(t *Table, subjects []string, meta MetaColumns) []Record {
	resolved := meta.Resolve(t)
	for _, s := range subjects {
		t.coerce(s)
	}

	metaColumns := resolved.Columns(t)
	records := make([]Record, t.Len())
	for i := range t.Rows {
		rec := Record{
			Index:    i,
			ID:       t.Cell(i, resolved.ID),
			Name:     t.Cell(i, resolved.Name),
			Semester: t.Cell(i, resolved.Semester),
			Meta:     make(map[string]string, len(metaColumns)),
			Marks:    make(map[string]Value, len(subjects)),
		}
		for _, c := range metaColumns {
			rec.Meta[c] = t.Cell(i, c)
		}
		for _, s := range subjects {
			if values, ok := t.numeric[s]; ok {
				rec.Marks[s] = values[i]
			}
		}
		records[i] = rec
	}
	return records
}
