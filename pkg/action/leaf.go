package action

import (
	"strconv"

	"github.com/aretw0/delta/pkg/domain"
	"github.com/aretw0/delta/pkg/token"
)

// leafAt is ActionAt for single line actions: the only line belongs to the
// parent block.
func leafAt(self Action, parent Block, parentIndex int) Resolution {
	return Resolution{Action: self, Container: parent, Index: parentIndex}
}

// Set binds Name to the simplified value of Value.
type Set struct {
	Name  string
	Value string
}

// NewSet returns a Set action.
func NewSet(name, value string) *Set {
	return &Set{Name: name, Value: value}
}

func (a *Set) Execute(p *domain.Process) {
	v := token.Parse(a.Value).Compute(p, token.ModeSimplify)
	p.Set(a.Name, v)
	p.Logger().Debug("set", "name", a.Name, "value", v.String())
}

func (a *Set) String() string {
	return "set " + strconv.Quote(a.Name) + " to " + strconv.Quote(a.Value)
}

func (a *Set) EditorLines() []domain.EditorLine {
	return []domain.EditorLine{{
		Format:   FormatSet,
		Category: domain.CategoryValue,
		Values:   []string{a.Name, a.Value},
		Movable:  true,
	}}
}

func (a *Set) EditorLinesCount() int { return 1 }

func (a *Set) ActionAt(index int, parent Block, parentIndex int) Resolution {
	return leafAt(a, parent, parentIndex)
}

func (a *Set) Update(line domain.EditorLine) {
	if len(line.Values) == 2 {
		a.Name = line.Values[0]
		a.Value = line.Values[1]
	}
}

func (a *Set) ExtractInputs() []domain.Input { return nil }

func (*Set) action() {}

// Input declares a variable the caller may provide before the run. When the
// variable is still unbound at execution time Default is used.
type Input struct {
	Name    string
	Default string
}

// NewInput returns an Input action.
func NewInput(name, def string) *Input {
	return &Input{Name: name, Default: def}
}

func (a *Input) Execute(p *domain.Process) {
	if _, ok := p.Get(a.Name); ok {
		return
	}
	p.Set(a.Name, token.Parse(a.Default).Compute(p, token.ModeSimplify))
}

func (a *Input) String() string {
	return "input " + strconv.Quote(a.Name) + " default " + strconv.Quote(a.Default)
}

func (a *Input) EditorLines() []domain.EditorLine {
	return []domain.EditorLine{{
		Format:   FormatInput,
		Category: domain.CategoryValue,
		Values:   []string{a.Name, a.Default},
		Movable:  true,
	}}
}

func (a *Input) EditorLinesCount() int { return 1 }

func (a *Input) ActionAt(index int, parent Block, parentIndex int) Resolution {
	return leafAt(a, parent, parentIndex)
}

func (a *Input) Update(line domain.EditorLine) {
	if len(line.Values) == 2 {
		a.Name = line.Values[0]
		a.Default = line.Values[1]
	}
}

func (a *Input) ExtractInputs() []domain.Input {
	return []domain.Input{{Name: a.Name, Default: a.Default}}
}

func (*Input) action() {}

// Print writes the simplified value of Text to the process output.
type Print struct {
	Text string
}

// NewPrint returns a Print action.
func NewPrint(text string) *Print {
	return &Print{Text: text}
}

func (a *Print) Execute(p *domain.Process) {
	p.Print(token.Parse(a.Text).Compute(p, token.ModeSimplify).String())
}

func (a *Print) String() string {
	return "print " + strconv.Quote(a.Text)
}

func (a *Print) EditorLines() []domain.EditorLine {
	return []domain.EditorLine{{
		Format:   FormatPrint,
		Category: domain.CategoryValue,
		Values:   []string{a.Text},
		Movable:  true,
	}}
}

func (a *Print) EditorLinesCount() int { return 1 }

func (a *Print) ActionAt(index int, parent Block, parentIndex int) Resolution {
	return leafAt(a, parent, parentIndex)
}

func (a *Print) Update(line domain.EditorLine) {
	if len(line.Values) == 1 {
		a.Text = line.Values[0]
	}
}

func (a *Print) ExtractInputs() []domain.Input { return nil }

func (*Print) action() {}
