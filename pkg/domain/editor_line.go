package domain

// LineCategory tells the editor how a line behaves.
type LineCategory string

const (
	// CategoryStructure lines are action headers, else headers and block ends.
	CategoryStructure LineCategory = "structure"
	// CategorySettings lines edit algorithm metadata (name, icon, cloud).
	CategorySettings LineCategory = "settings"
	// CategoryAdd lines are the insertion point at the end of a block.
	CategoryAdd LineCategory = "add"
	// CategoryValue lines display a single editable value.
	CategoryValue LineCategory = "value"
)

// EditorLine is one row of the flat editing view.
//
// Format is a stable key identifying the kind of line ("action_if",
// "action_add", ...). Hosts map it to a localized template and fill in Values.
type EditorLine struct {
	Format      string       `json:"format" yaml:"format"`
	Category    LineCategory `json:"category" yaml:"category"`
	Values      []string     `json:"values,omitempty" yaml:"values,omitempty"`
	Indentation int          `json:"indentation" yaml:"indentation"`
	Movable     bool         `json:"movable" yaml:"movable"`
}

// Indented returns a copy of the line one level deeper.
func (l EditorLine) Indented() EditorLine {
	l.Indentation++
	if l.Values != nil {
		l.Values = append([]string(nil), l.Values...)
	}
	return l
}
