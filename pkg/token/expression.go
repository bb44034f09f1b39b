package token

// Expression is an unevaluated binary combination.
type Expression struct {
	Left      Token
	Right     Token
	Operation Operation
}

// Negate returns the negation of t. Numbers are negated in place, anything else
// is wrapped as -1 * t, which prints back as "-t".
func Negate(t Token) Token {
	switch v := t.(type) {
	case Number:
		return Number{Value: -v.Value}
	case SyntaxError:
		return v
	}
	return Expression{Left: Number{Value: -1}, Right: t, Operation: Multiplication}
}

func (e Expression) String() string {
	if e.ChangedSign() {
		inner := e.Right.String()
		if e.Right.NeedBrackets(Multiplication) || e.Right.Sign() == Minus {
			inner = "(" + inner + ")"
		}
		return "-" + inner
	}
	return format(e.Left, e.Operation, e.Right)
}

func (e Expression) Compute(vars Variables, mode Mode) Token {
	left := e.Left.Compute(vars, mode)
	if IsSyntaxError(left) {
		return left
	}
	right := e.Right.Compute(vars, mode)
	return left.Apply(e.Operation, right, vars)
}

func (e Expression) Apply(op Operation, right Token, vars Variables) Token {
	return combine(e, op, right)
}

func (e Expression) NeedBrackets(op Operation) bool {
	return needBrackets(e.Operation, op)
}

// MultiplicationPriority of a product, quotient or power is the priority of its
// leading factor. Anything else is printed in brackets and ranks highest.
func (e Expression) MultiplicationPriority() int {
	switch e.Operation {
	case Multiplication, Division, Modulo, Power:
		if e.ChangedSign() {
			return 1
		}
		return e.Left.MultiplicationPriority()
	}
	return 3
}

func (e Expression) Sign() Sign {
	if e.ChangedSign() {
		return Minus
	}
	switch e.Operation {
	case Multiplication, Division:
		if e.Left.Sign() != e.Right.Sign() {
			return Minus
		}
	}
	return Plus
}

// ChangedSign is true for the -1 * x form produced by Negate.
func (e Expression) ChangedSign() bool {
	n, ok := e.Left.(Number)
	return ok && e.Operation == Multiplication && n.Value == -1
}

func (Expression) token() {}

// combine is the default Apply for operands that cannot be reduced to a
// concrete value on their own.
func combine(left Token, op Operation, right Token) Token {
	if err, ok := right.(SyntaxError); ok {
		return err
	}
	if op.IsComparison() {
		return Equation{Left: left, Right: right, Operation: op}
	}
	if op.IsLogical() {
		l, lok := left.(Equation)
		r, rok := right.(Equation)
		if lok && rok {
			return Equation{Left: l, Right: r, Operation: op}
		}
		return Expression{Left: left, Right: right, Operation: op}
	}
	if folded, ok := fold(left, op, right); ok {
		return folded
	}
	return Expression{Left: left, Right: right, Operation: op}
}

// fold applies the neutral element identities (x + 0, x * 1, x ^ 1, ...).
func fold(left Token, op Operation, right Token) (Token, bool) {
	_, leftList := left.(List)
	_, rightList := right.(List)
	if leftList || rightList {
		return nil, false
	}
	if r, ok := right.(Number); ok {
		switch {
		case r.Value == 0 && (op == Addition || op == Subtraction):
			return left, true
		case r.Value == 1 && (op == Multiplication || op == Division || op == Power):
			return left, true
		}
	}
	if l, ok := left.(Number); ok {
		switch {
		case l.Value == 0 && op == Addition:
			return right, true
		case l.Value == 1 && op == Multiplication:
			return right, true
		}
	}
	return nil, false
}

func needBrackets(inner, outer Operation) bool {
	switch {
	case outer.Precedence() > inner.Precedence():
		return true
	case outer.Precedence() == inner.Precedence():
		return !(outer == inner && outer.Associative())
	}
	return false
}

// format renders left op right, parenthesizing operands as they request.
func format(left Token, op Operation, right Token) string {
	l := left.String()
	if left.NeedBrackets(op) {
		l = "(" + l + ")"
	}
	r := right.String()
	if right.NeedBrackets(op) || (right.Sign() == Minus && op.IsArithmetic()) {
		r = "(" + r + ")"
	}
	if op == Multiplication && juxtaposable(left, right) {
		return l + r
	}
	return l + " " + op.String() + " " + r
}

func juxtaposable(left, right Token) bool {
	n, ok := left.(Number)
	if !ok || n.Value < 0 {
		return false
	}
	return right.Sign() == Plus && right.MultiplicationPriority() > left.MultiplicationPriority()
}
