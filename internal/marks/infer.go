// internal/marks/infer.go
package marks

import "strings"

// MetaColumns names the non-subject columns of a marks table.
type MetaColumns struct {
	ID       string   `json:"id" mapstructure:"id" yaml:"id"`
	Name     string   `json:"name" mapstructure:"name" yaml:"name"`
	Semester string   `json:"semester" mapstructure:"semester" yaml:"semester"`
	Extra    []string `json:"extra,omitempty" mapstructure:"extra" yaml:"extra,omitempty"`
}

// DefaultMetaColumns returns the student_id/name/semester layout.
func DefaultMetaColumns() MetaColumns {
	return MetaColumns{ID: "student_id", Name: "name", Semester: "semester"}
}

// WithDefaults fills blank roles from DefaultMetaColumns.
func (m MetaColumns) WithDefaults() MetaColumns {
	def := DefaultMetaColumns()
	if strings.TrimSpace(m.ID) == "" {
		m.ID = def.ID
	}
	if strings.TrimSpace(m.Name) == "" {
		m.Name = def.Name
	}
	if strings.TrimSpace(m.Semester) == "" {
		m.Semester = def.Semester
	}
	return m
}

// ResolvedMeta holds the actual table column for each meta role. A role
// whose configured name is absent from the table is empty.
type ResolvedMeta struct {
	ID       string
	Name     string
	Semester string
	Extra    []string
}

// Resolve matches the configured names against a table. Names that are not
// present are ignored.
func (m MetaColumns) Resolve(t *Table) ResolvedMeta {
	m = m.WithDefaults()
	var r ResolvedMeta
	r.ID, _ = t.Lookup(m.ID)
	r.Name, _ = t.Lookup(m.Name)
	r.Semester, _ = t.Lookup(m.Semester)
	for _, e := range m.Extra {
		if c, ok := t.Lookup(e); ok {
			r.Extra = append(r.Extra, c)
		}
	}
	return r
}

// Columns returns the resolved meta columns in table order.
func (r ResolvedMeta) Columns(t *Table) []string {
	set := r.set()
	out := make([]string, 0, len(set))
	for _, c := range t.Columns {
		if _, ok := set[c]; ok {
			out = append(out, c)
		}
	}
	return out
}

func (r ResolvedMeta) set() map[string]struct{} {
	set := make(map[string]struct{}, 3+len(r.Extra))
	for _, c := range append([]string{r.ID, r.Name, r.Semester}, r.Extra...) {
		if c != "" {
			set[c] = struct{}{}
		}
	}
	return set
}

// InferSubjects returns every non-meta column in table order and coerces
// each one to numeric form. Columns holding text are kept; their cells
// become missing marks. Repeated calls do not re-coerce.
func InferSubjects(t *Table, meta MetaColumns) []string {
	metaSet := meta.Resolve(t).set()
	subjects := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		if _, isMeta := metaSet[c]; isMeta {
			continue
		}
		t.coerce(c)
		subjects = append(subjects, c)
	}
	return subjects
}

// EmptySubjects returns the subjects that have no present mark at all,
// typically text columns that were not declared as meta columns.
func EmptySubjects(t *Table, subjects []string) []string {
	var out []string
	for _, s := range subjects {
		t.coerce(s)
		present := false
		for _, v := range t.numeric[s] {
			if v.Valid {
				present = true
				break
			}
		}
		if !present {
			out = append(out, s)
		}
	}
	return out
}
