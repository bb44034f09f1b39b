package algorithm

import (
	"github.com/aretw0/delta/pkg/action"
	"github.com/aretw0/delta/pkg/domain"
)

// Range is a half-open range of editor line indices.
type Range struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Len returns the number of lines in the range.
func (r Range) Len() int {
	return r.End - r.Start
}

// Empty reports whether the range holds no line.
func (r Range) Empty() bool {
	return r.End <= r.Start
}

// Contains reports whether i is inside the range.
func (r Range) Contains(i int) bool {
	return i >= r.Start && i < r.End
}

func (a *Algorithm) EditorLines() []domain.EditorLine {
	return a.Root.EditorLines()
}

func (a *Algorithm) EditorLinesCount() int {
	return a.Root.EditorLinesCount()
}

// ActionAt resolves an editor line index of the whole algorithm.
func (a *Algorithm) ActionAt(index int) action.Resolution {
	return a.Root.ActionAt(index, a.Root, 0)
}

func (a *Algorithm) valid(index int) bool {
	return index >= 0 && index < a.EditorLinesCount()
}

// Insert adds act at the editor line index and returns the lines it now
// occupies. act must not already be part of the tree.
func (a *Algorithm) Insert(act action.Action, index int) Range {
	if act == nil || !a.valid(index) {
		return Range{}
	}
	r := a.ActionAt(index)
	r.Container.Insert(act, r.Index)
	a.ExtractInputs()

	// Inserting at an end line or an else header appends to the block, so the
	// action does not necessarily start at index.
	start, ok := action.LineOf(a.Root, act)
	if !ok {
		start = index
	}
	return Range{Start: start, End: start + act.EditorLinesCount()}
}

// Delete removes the action owning the editor line index and returns the lines
// it occupied. Lines that own no removable action (add lines, end lines, else
// headers) yield an empty range.
func (a *Algorithm) Delete(index int) Range {
	if !a.valid(index) {
		return Range{}
	}
	r := a.ActionAt(index)
	size := r.Action.EditorLinesCount()
	if !r.Container.Delete(r.Index) {
		return Range{}
	}
	a.ExtractInputs()
	return Range{Start: index, End: index + size}
}

// Move relocates the action at from so that it ends up at the line to, and
// returns the deleted and inserted ranges. Moving onto itself or into its own
// subtree does nothing.
func (a *Algorithm) Move(from, to int) (Range, Range) {
	if from == to || !a.valid(from) || !a.valid(to) {
		return Range{}, Range{}
	}
	source := a.ActionAt(from).Action
	if (Range{Start: from, End: from + source.EditorLinesCount()}).Contains(to) {
		return Range{}, Range{}
	}

	deleted := a.Delete(from)
	if deleted.Empty() {
		return Range{}, Range{}
	}

	dest := to
	if to > from {
		dest = to - deleted.Len() + 1
	}
	if dest > 0 {
		lines := a.EditorLines()
		if dest-1 < len(lines) && lines[dest-1].Category == domain.CategoryAdd {
			dest--
		}
	}
	return deleted, a.Insert(source, dest)
}

// Update applies an edited line. Settings lines go to UpdateSettings, other
// lines to the action owning index.
func (a *Algorithm) Update(line domain.EditorLine, index int) {
	switch line.Category {
	case domain.CategorySettings:
		a.UpdateSettings(index, line.Values)
		return
	case domain.CategoryAdd:
		return
	}
	if !a.valid(index) {
		return
	}
	a.ActionAt(index).Action.Update(line)
	a.ExtractInputs()
}
