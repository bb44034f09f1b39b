package action

// Walk visits a and its descendants depth first, in line order. Else branches
// are visited as children of their If. Returning false from fn skips the
// subtree of the visited action.
func Walk(a Action, fn func(a Action, depth int) bool) {
	walk(a, 0, fn)
}

func walk(a Action, depth int, fn func(Action, int) bool) {
	if a == nil || !fn(a, depth) {
		return
	}
	if b, ok := a.(Block); ok {
		for _, c := range b.Children() {
			walk(c, depth+1, fn)
		}
	}
	if i, ok := a.(*If); ok && i.Else != nil {
		walk(i.Else, depth, fn)
	}
}

// Clone returns a deep copy of a.
func Clone(a Action) Action {
	switch v := a.(type) {
	case *Root:
		return &Root{Actions: cloneAll(v.Actions)}
	case *If:
		c := &If{Condition: v.Condition, Actions: cloneAll(v.Actions)}
		if v.Else != nil {
			c.Else = Clone(v.Else).(*Else)
		}
		return c
	case *Else:
		return &Else{Actions: cloneAll(v.Actions)}
	case *While:
		return &While{Condition: v.Condition, Actions: cloneAll(v.Actions)}
	case *For:
		return &For{Variable: v.Variable, List: v.List, Actions: cloneAll(v.Actions)}
	case *Set:
		c := *v
		return &c
	case *Input:
		c := *v
		return &c
	case *Print:
		c := *v
		return &c
	}
	return nil
}

func cloneAll(actions []Action) []Action {
	if actions == nil {
		return nil
	}
	out := make([]Action, len(actions))
	for i, a := range actions {
		out[i] = Clone(a)
	}
	return out
}

// LineOf returns the editor line index of target's first line within root.
func LineOf(root *Root, target Action) (int, bool) {
	return lineOf(root.Actions, target, 0)
}

func lineOf(actions []Action, target Action, offset int) (int, bool) {
	i := offset
	for _, c := range actions {
		if c == target {
			return i, true
		}
		switch v := c.(type) {
		case *If:
			if l, ok := lineOf(v.Actions, target, i+1); ok {
				return l, true
			}
			if v.Else != nil {
				start := i + linesCount(v.Actions) + 2
				if Action(v.Else) == target {
					return start, true
				}
				if l, ok := lineOf(v.Else.Actions, target, start+1); ok {
					return l, true
				}
			}
		case Block:
			if l, ok := lineOf(v.Children(), target, i+1); ok {
				return l, true
			}
		}
		i += c.EditorLinesCount()
	}
	return 0, false
}
