package action

import (
	"strings"

	"github.com/aretw0/delta/pkg/domain"
)

// Line formats emitted by the actions.
const (
	FormatIf    = "action_if"
	FormatElse  = "action_else"
	FormatWhile = "action_while"
	FormatFor   = "action_for"
	FormatSet   = "action_set"
	FormatInput = "action_input"
	FormatPrint = "action_print"
	FormatAdd   = "action_add"
	FormatEnd   = "action_end"
)

// Action is a node of the algorithm tree.
//
// The set of implementations is closed: Root, If, Else, While, For, Set, Input
// and Print.
type Action interface {
	// Execute runs the action against the process.
	Execute(p *domain.Process)

	// String renders the action in program text form.
	String() string

	// EditorLines returns exactly EditorLinesCount() lines.
	EditorLines() []domain.EditorLine
	EditorLinesCount() int

	// ActionAt resolves a line index relative to this action. parent is the
	// block holding this action and parentIndex the index in parent's lines.
	ActionAt(index int, parent Block, parentIndex int) Resolution

	// Update replaces the editable values when the arity of line.Values matches.
	Update(line domain.EditorLine)

	// ExtractInputs lists the inputs declared in the subtree, in tree order.
	ExtractInputs() []domain.Input

	action()
}

// Block is an action owning an ordered list of children.
type Block interface {
	Action

	// Children returns the direct children. The slice must not be modified.
	Children() []Action

	Append(actions ...Action)

	// Insert splices a before the child whose lines contain index, or appends
	// it when no child does.
	Insert(a Action, index int)

	// Delete removes the child whose lines contain index, with its subtree.
	Delete(index int) bool
}

// Resolution is the result of ActionAt.
type Resolution struct {
	// Action owns the line.
	Action Action
	// Container is the block an Insert or Delete at the line applies to.
	Container Block
	// Index is the line index in Container's coordinates.
	Index int
}

func linesCount(actions []Action) int {
	n := 0
	for _, a := range actions {
		n += a.EditorLinesCount()
	}
	return n
}

// locate finds the child whose lines contain index, the first child starting
// at offset. It returns the child position and its first line.
func locate(actions []Action, index, offset int) (pos, start int, ok bool) {
	i := offset
	for j, a := range actions {
		size := a.EditorLinesCount()
		if index >= i && index < i+size {
			return j, i, true
		}
		i += size
	}
	return 0, 0, false
}

func insertAt(actions []Action, a Action, index, offset int) []Action {
	pos, _, ok := locate(actions, index, offset)
	if !ok {
		return append(actions, a)
	}
	actions = append(actions, nil)
	copy(actions[pos+1:], actions[pos:])
	actions[pos] = a
	return actions
}

func deleteAt(actions []Action, index, offset int) ([]Action, bool) {
	pos, _, ok := locate(actions, index, offset)
	if !ok {
		return actions, false
	}
	return append(actions[:pos], actions[pos+1:]...), true
}

// resolveChildren implements ActionAt for the body of a block whose children
// start at line 1. It reports false when index is not inside a child.
func resolveChildren(self Block, actions []Action, index int) (Resolution, bool) {
	pos, start, ok := locate(actions, index, 1)
	if !ok {
		return Resolution{}, false
	}
	return actions[pos].ActionAt(index-start, self, index), true
}

// resolveOwn handles the lines a block owns itself: its header resolves to the
// parent, anything else to the block.
func resolveOwn(self Block, index int, parent Block, parentIndex int) Resolution {
	if index == 0 {
		return Resolution{Action: self, Container: parent, Index: parentIndex}
	}
	return Resolution{Action: self, Container: self, Index: index}
}

func childLines(actions []Action) []domain.EditorLine {
	var lines []domain.EditorLine
	for _, a := range actions {
		for _, l := range a.EditorLines() {
			lines = append(lines, l.Indented())
		}
	}
	return lines
}

func addLine() domain.EditorLine {
	return domain.EditorLine{Format: FormatAdd, Category: domain.CategoryAdd, Indentation: 1}
}

func endLine() domain.EditorLine {
	return domain.EditorLine{Format: FormatEnd, Category: domain.CategoryStructure}
}

func executeAll(actions []Action, p *domain.Process) {
	for _, a := range actions {
		a.Execute(p)
	}
}

func extractAll(actions []Action) []domain.Input {
	var inputs []domain.Input
	for _, a := range actions {
		inputs = append(inputs, a.ExtractInputs()...)
	}
	return inputs
}

const indent = "    "

// writeChildren appends each child on its own line, one level deeper.
func writeChildren(b *strings.Builder, actions []Action) {
	for _, a := range actions {
		for _, line := range strings.Split(a.String(), "\n") {
			b.WriteString("\n")
			b.WriteString(indent)
			b.WriteString(line)
		}
	}
}
