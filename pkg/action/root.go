package action

import (
	"strings"

	"github.com/aretw0/delta/pkg/domain"
)

// Root is the top level block of an algorithm. It has no header: its lines are
// its children followed by one add line.
type Root struct {
	Actions []Action
}

// NewRoot returns a root holding actions.
func NewRoot(actions ...Action) *Root {
	return &Root{Actions: actions}
}

func (r *Root) Execute(p *domain.Process) {
	executeAll(r.Actions, p)
}

func (r *Root) String() string {
	parts := make([]string, len(r.Actions))
	for i, a := range r.Actions {
		parts[i] = a.String()
	}
	return strings.Join(parts, "\n")
}

func (r *Root) EditorLines() []domain.EditorLine {
	lines := make([]domain.EditorLine, 0, r.EditorLinesCount())
	for _, a := range r.Actions {
		lines = append(lines, a.EditorLines()...)
	}
	return append(lines, domain.EditorLine{Format: FormatAdd, Category: domain.CategoryAdd})
}

func (r *Root) EditorLinesCount() int {
	return linesCount(r.Actions) + 1
}

func (r *Root) ActionAt(index int, parent Block, parentIndex int) Resolution {
	if pos, start, ok := locate(r.Actions, index, 0); ok {
		return r.Actions[pos].ActionAt(index-start, r, index)
	}
	return Resolution{Action: r, Container: r, Index: index}
}

func (r *Root) Update(line domain.EditorLine) {}

func (r *Root) ExtractInputs() []domain.Input {
	return extractAll(r.Actions)
}

func (r *Root) Children() []Action { return r.Actions }

func (r *Root) Append(actions ...Action) {
	r.Actions = append(r.Actions, actions...)
}

func (r *Root) Insert(a Action, index int) {
	r.Actions = insertAt(r.Actions, a, index, 0)
}

func (r *Root) Delete(index int) bool {
	var ok bool
	r.Actions, ok = deleteAt(r.Actions, index, 0)
	return ok
}

func (*Root) action() {}
