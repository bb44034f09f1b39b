package action

import (
	"strconv"
	"strings"

	"github.com/aretw0/delta/pkg/domain"
	"github.com/aretw0/delta/pkg/token"
)

// While repeats its children as long as Condition holds. The condition is
// evaluated before every iteration and the process cancellation flag is polled
// at the same point.
type While struct {
	Condition string
	Actions   []Action
}

// NewWhile returns a While loop.
func NewWhile(condition string, actions ...Action) *While {
	return &While{Condition: condition, Actions: actions}
}

func (a *While) Execute(p *domain.Process) {
	iterations := 0
	for !p.Cancelled() && holds(a.Condition, p) {
		executeAll(a.Actions, p)
		iterations++
	}
	p.Logger().Debug("while", "condition", a.Condition, "iterations", iterations, "cancelled", p.Cancelled())
}

func (a *While) String() string {
	return loopString("while "+strconv.Quote(a.Condition), a.Actions)
}

func (a *While) EditorLines() []domain.EditorLine {
	return loopLines(domain.EditorLine{
		Format:   FormatWhile,
		Category: domain.CategoryStructure,
		Values:   []string{a.Condition},
		Movable:  true,
	}, a.Actions)
}

func (a *While) EditorLinesCount() int {
	return linesCount(a.Actions) + 3
}

func (a *While) ActionAt(index int, parent Block, parentIndex int) Resolution {
	return loopActionAt(a, a.Actions, index, parent, parentIndex)
}

func (a *While) Update(line domain.EditorLine) {
	if len(line.Values) == 1 {
		a.Condition = line.Values[0]
	}
}

func (a *While) ExtractInputs() []domain.Input {
	return extractAll(a.Actions)
}

func (a *While) Children() []Action { return a.Actions }

func (a *While) Append(actions ...Action) {
	a.Actions = append(a.Actions, actions...)
}

func (a *While) Insert(child Action, index int) {
	a.Actions = loopInsert(a.Actions, child, index, a.EditorLinesCount())
}

func (a *While) Delete(index int) bool {
	var ok bool
	a.Actions, ok = loopDelete(a.Actions, index, a.EditorLinesCount())
	return ok
}

func (*While) action() {}

// For binds Variable to every element of the list List evaluates to, running
// its children once per element. A List expression that does not evaluate to
// a list runs no iteration.
type For struct {
	Variable string
	List     string
	Actions  []Action
}

// NewFor returns a For loop.
func NewFor(variable, list string, actions ...Action) *For {
	return &For{Variable: variable, List: list, Actions: actions}
}

func (a *For) Execute(p *domain.Process) {
	list, ok := token.Parse(a.List).Compute(p, token.ModeEvaluate).(token.List)
	if !ok {
		p.Logger().Debug("for", "list", a.List, "iterations", 0)
		return
	}
	for _, item := range list.Values {
		if p.Cancelled() {
			break
		}
		p.Set(a.Variable, item.Compute(p, token.ModeEvaluate))
		executeAll(a.Actions, p)
	}
	p.Logger().Debug("for", "list", a.List, "iterations", len(list.Values), "cancelled", p.Cancelled())
}

func (a *For) String() string {
	return loopString("for "+strconv.Quote(a.Variable)+" in "+strconv.Quote(a.List), a.Actions)
}

func (a *For) EditorLines() []domain.EditorLine {
	return loopLines(domain.EditorLine{
		Format:   FormatFor,
		Category: domain.CategoryStructure,
		Values:   []string{a.Variable, a.List},
		Movable:  true,
	}, a.Actions)
}

func (a *For) EditorLinesCount() int {
	return linesCount(a.Actions) + 3
}

func (a *For) ActionAt(index int, parent Block, parentIndex int) Resolution {
	return loopActionAt(a, a.Actions, index, parent, parentIndex)
}

func (a *For) Update(line domain.EditorLine) {
	if len(line.Values) == 2 {
		a.Variable = line.Values[0]
		a.List = line.Values[1]
	}
}

func (a *For) ExtractInputs() []domain.Input {
	return extractAll(a.Actions)
}

func (a *For) Children() []Action { return a.Actions }

func (a *For) Append(actions ...Action) {
	a.Actions = append(a.Actions, actions...)
}

func (a *For) Insert(child Action, index int) {
	a.Actions = loopInsert(a.Actions, child, index, a.EditorLinesCount())
}

func (a *For) Delete(index int) bool {
	var ok bool
	a.Actions, ok = loopDelete(a.Actions, index, a.EditorLinesCount())
	return ok
}

func (*For) action() {}

// Loops share the header, children, add line, end line layout.

func loopString(header string, actions []Action) string {
	var b strings.Builder
	b.WriteString(header + " {")
	writeChildren(&b, actions)
	b.WriteString("\n}")
	return b.String()
}

func loopLines(header domain.EditorLine, actions []Action) []domain.EditorLine {
	lines := make([]domain.EditorLine, 0, linesCount(actions)+3)
	lines = append(lines, header)
	lines = append(lines, childLines(actions)...)
	lines = append(lines, addLine())
	return append(lines, endLine())
}

func loopActionAt(self Block, actions []Action, index int, parent Block, parentIndex int) Resolution {
	if index != 0 && index < self.EditorLinesCount()-1 {
		if r, ok := resolveChildren(self, actions, index); ok {
			return r
		}
	}
	return resolveOwn(self, index, parent, parentIndex)
}

func loopInsert(actions []Action, child Action, index, count int) []Action {
	if index != 0 && index < count-1 {
		return insertAt(actions, child, index, 1)
	}
	return append(actions, child)
}

func loopDelete(actions []Action, index, count int) ([]Action, bool) {
	if index == 0 || index >= count-1 {
		return actions, false
	}
	return deleteAt(actions, index, 1)
}
