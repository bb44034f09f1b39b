package token

// Equation is a comparison, or a logical combination of comparisons. Its truth
// is not stored: IsTrue derives it from the operands every time it is asked.
type Equation struct {
	Left      Token
	Right     Token
	Operation Operation
}

// IsTrue reports whether the equation holds under vars. Comparisons between
// operands that do not reduce to numbers only hold for Equals when both sides
// render identically.
func (e Equation) IsTrue(vars Variables) bool {
	left := e.Left.Compute(vars, ModeSimplify)
	right := e.Right.Compute(vars, ModeSimplify)
	if IsSyntaxError(left) || IsSyntaxError(right) {
		return false
	}

	if e.Operation.IsLogical() {
		l, lok := left.(Equation)
		r, rok := right.(Equation)
		if !lok || !rok {
			return false
		}
		if e.Operation == And {
			return l.IsTrue(vars) && r.IsTrue(vars)
		}
		return l.IsTrue(vars) || r.IsTrue(vars)
	}

	ln, lok := left.(Number)
	rn, rok := right.(Number)
	if lok && rok {
		return e.Operation.compare(ln.Value, rn.Value)
	}
	return e.Operation == Equals && left.String() == right.String()
}

func (e Equation) String() string {
	return format(e.Left, e.Operation, e.Right)
}

func (e Equation) Compute(vars Variables, mode Mode) Token {
	left := e.Left.Compute(vars, mode)
	if IsSyntaxError(left) {
		return left
	}
	right := e.Right.Compute(vars, mode)
	if IsSyntaxError(right) {
		return right
	}
	if e.Operation.IsLogical() {
		return combine(left, e.Operation, right)
	}
	return Equation{Left: left, Right: right, Operation: e.Operation}
}

func (e Equation) Apply(op Operation, right Token, vars Variables) Token {
	return combine(e, op, right)
}

func (e Equation) NeedBrackets(op Operation) bool {
	return needBrackets(e.Operation, op)
}

func (e Equation) MultiplicationPriority() int { return 3 }

func (e Equation) Sign() Sign { return Plus }

func (e Equation) ChangedSign() bool { return false }

func (Equation) token() {}
