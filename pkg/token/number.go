package token

import "strconv"

// Number is a numeric scalar.
type Number struct {
	Value float64
}

// NewNumber returns a Number holding v.
func NewNumber(v float64) Number {
	return Number{Value: v}
}

func (n Number) String() string {
	if n.Value == 0 {
		// Avoids printing "-0".
		return "0"
	}
	return strconv.FormatFloat(n.Value, 'f', -1, 64)
}

func (n Number) Compute(vars Variables, mode Mode) Token {
	return n
}

func (n Number) Apply(op Operation, right Token, vars Variables) Token {
	r, ok := right.(Number)
	if !ok || !op.IsArithmetic() {
		return combine(n, op, right)
	}
	v, ok := op.calculate(n.Value, r.Value)
	if !ok {
		return SyntaxError{}
	}
	return Number{Value: v}
}

// NeedBrackets is true for negative numbers under any arithmetic operator, so
// that "(-2) ^ 2" and "x - (-3)" keep their meaning.
func (n Number) NeedBrackets(op Operation) bool {
	return n.Value < 0 && op.IsArithmetic()
}

func (n Number) MultiplicationPriority() int { return 1 }

func (n Number) Sign() Sign {
	if n.Value < 0 {
		return Minus
	}
	return Plus
}

func (n Number) ChangedSign() bool { return false }

func (Number) token() {}
