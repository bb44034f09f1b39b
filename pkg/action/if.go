package action

import (
	"strconv"
	"strings"

	"github.com/aretw0/delta/pkg/domain"
	"github.com/aretw0/delta/pkg/token"
)

// If runs its children when Condition evaluates to a true Equation, and its
// Else branch otherwise. Conditions that do not reduce to an Equation, syntax
// errors included, are false.
type If struct {
	Condition string
	Actions   []Action
	Else      *Else
}

// NewIf returns an If without an else branch.
func NewIf(condition string, actions ...Action) *If {
	return &If{Condition: condition, Actions: actions}
}

// WithElse attaches an else branch and returns the receiver.
func (a *If) WithElse(e *Else) *If {
	a.Else = e
	return a
}

func (a *If) Execute(p *domain.Process) {
	if holds(a.Condition, p) {
		p.Logger().Debug("if", "condition", a.Condition, "branch", "then")
		executeAll(a.Actions, p)
		return
	}
	p.Logger().Debug("if", "condition", a.Condition, "branch", "else")
	if a.Else != nil {
		a.Else.Execute(p)
	}
}

func (a *If) String() string {
	var b strings.Builder
	b.WriteString("if " + strconv.Quote(a.Condition) + " {")
	writeChildren(&b, a.Actions)
	b.WriteString("\n}")
	if a.Else != nil {
		b.WriteString(a.Else.String())
	}
	return b.String()
}

func (a *If) EditorLines() []domain.EditorLine {
	lines := make([]domain.EditorLine, 0, a.EditorLinesCount())
	lines = append(lines, domain.EditorLine{
		Format:   FormatIf,
		Category: domain.CategoryStructure,
		Values:   []string{a.Condition},
		Movable:  true,
	})
	lines = append(lines, childLines(a.Actions)...)
	lines = append(lines, addLine())
	if a.Else != nil {
		lines = append(lines, a.Else.EditorLines()...)
	}
	return append(lines, endLine())
}

func (a *If) EditorLinesCount() int {
	n := linesCount(a.Actions) + 3
	if a.Else != nil {
		n += a.Else.EditorLinesCount()
	}
	return n
}

func (a *If) ActionAt(index int, parent Block, parentIndex int) Resolution {
	if index != 0 && index < a.EditorLinesCount()-1 {
		if r, ok := resolveChildren(a, a.Actions, index); ok {
			return r
		}
		add := 1 + linesCount(a.Actions)
		if index == add {
			return Resolution{Action: a, Container: a, Index: index}
		}
		if a.Else != nil {
			return a.Else.ActionAt(index-add-1, a, index)
		}
	}
	return resolveOwn(a, index, parent, parentIndex)
}

func (a *If) Update(line domain.EditorLine) {
	if len(line.Values) == 1 {
		a.Condition = line.Values[0]
	}
}

func (a *If) ExtractInputs() []domain.Input {
	inputs := extractAll(a.Actions)
	if a.Else != nil {
		inputs = append(inputs, a.Else.ExtractInputs()...)
	}
	return inputs
}

func (a *If) Children() []Action { return a.Actions }

func (a *If) Append(actions ...Action) {
	a.Actions = append(a.Actions, actions...)
}

func (a *If) Insert(child Action, index int) {
	if index != 0 && index < a.EditorLinesCount()-1 {
		a.Actions = insertAt(a.Actions, child, index, 1)
		return
	}
	a.Actions = append(a.Actions, child)
}

func (a *If) Delete(index int) bool {
	if index == 0 || index >= a.EditorLinesCount()-1 {
		return false
	}
	var ok bool
	a.Actions, ok = deleteAt(a.Actions, index, 1)
	return ok
}

func (*If) action() {}

// Else is the alternative branch of an If. It is only reachable through its If.
type Else struct {
	Actions []Action
}

// NewElse returns an else branch holding actions.
func NewElse(actions ...Action) *Else {
	return &Else{Actions: actions}
}

func (a *Else) Execute(p *domain.Process) {
	executeAll(a.Actions, p)
}

func (a *Else) String() string {
	var b strings.Builder
	b.WriteString(" else {")
	writeChildren(&b, a.Actions)
	b.WriteString("\n}")
	return b.String()
}

func (a *Else) EditorLines() []domain.EditorLine {
	lines := make([]domain.EditorLine, 0, a.EditorLinesCount())
	lines = append(lines, domain.EditorLine{Format: FormatElse, Category: domain.CategoryStructure})
	lines = append(lines, childLines(a.Actions)...)
	return append(lines, addLine())
}

func (a *Else) EditorLinesCount() int {
	return linesCount(a.Actions) + 2
}

func (a *Else) ActionAt(index int, parent Block, parentIndex int) Resolution {
	if index != 0 {
		if r, ok := resolveChildren(a, a.Actions, index); ok {
			return r
		}
	}
	return resolveOwn(a, index, parent, parentIndex)
}

func (a *Else) Update(line domain.EditorLine) {}

func (a *Else) ExtractInputs() []domain.Input {
	return extractAll(a.Actions)
}

func (a *Else) Children() []Action { return a.Actions }

func (a *Else) Append(actions ...Action) {
	a.Actions = append(a.Actions, actions...)
}

func (a *Else) Insert(child Action, index int) {
	if index != 0 {
		a.Actions = insertAt(a.Actions, child, index, 1)
		return
	}
	a.Actions = append(a.Actions, child)
}

func (a *Else) Delete(index int) bool {
	if index == 0 {
		return false
	}
	var ok bool
	a.Actions, ok = deleteAt(a.Actions, index, 1)
	return ok
}

func (*Else) action() {}

// holds parses and simplifies condition and reports whether it is a true
// Equation.
func holds(condition string, p *domain.Process) bool {
	eq, ok := token.Parse(condition).Compute(p, token.ModeSimplify).(token.Equation)
	return ok && eq.IsTrue(p)
}
