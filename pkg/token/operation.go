package token

import "math"

// Operation is a binary operator.
type Operation int

const (
	Addition Operation = iota
	Subtraction
	Multiplication
	Division
	Modulo
	Power
	Equals
	Unequals
	LessThan
	GreaterThan
	LessOrEqual
	GreaterOrEqual
	And
	Or
)

var operationSymbols = map[Operation]string{
	Addition:       "+",
	Subtraction:    "-",
	Multiplication: "*",
	Division:       "/",
	Modulo:         "%",
	Power:          "^",
	Equals:         "=",
	Unequals:       "!=",
	LessThan:       "<",
	GreaterThan:    ">",
	LessOrEqual:    "<=",
	GreaterOrEqual: ">=",
	And:            "and",
	Or:             "or",
}

// Operations lists every operator, in declaration order.
func Operations() []Operation {
	ops := make([]Operation, 0, len(operationSymbols))
	for op := Addition; op <= Or; op++ {
		ops = append(ops, op)
	}
	return ops
}

func (o Operation) String() string {
	if s, ok := operationSymbols[o]; ok {
		return s
	}
	return "?"
}

// Precedence returns the binding strength of the operator. Higher binds tighter.
func (o Operation) Precedence() int {
	switch o {
	case Or:
		return 1
	case And:
		return 2
	case Equals, Unequals, LessThan, GreaterThan, LessOrEqual, GreaterOrEqual:
		return 3
	case Addition, Subtraction:
		return 4
	case Multiplication, Division, Modulo:
		return 5
	case Power:
		return 6
	}
	return 0
}

// IsComparison reports whether the operator produces an Equation.
func (o Operation) IsComparison() bool {
	return o.Precedence() == 3
}

// IsLogical reports whether the operator combines two Equations.
func (o Operation) IsLogical() bool {
	return o == And || o == Or
}

// IsArithmetic reports whether the operator combines two numbers into a number.
func (o Operation) IsArithmetic() bool {
	return o >= Addition && o <= Power
}

// Associative reports whether (a op b) op c equals a op (b op c).
func (o Operation) Associative() bool {
	return o == Addition || o == Multiplication || o == And || o == Or
}

// RightAssociative reports whether a op b op c parses as a op (b op c).
func (o Operation) RightAssociative() bool {
	return o == Power
}

// calculate applies an arithmetic operator to two numbers. The second result is
// false when the result is not a finite number.
func (o Operation) calculate(l, r float64) (float64, bool) {
	var v float64
	switch o {
	case Addition:
		v = l + r
	case Subtraction:
		v = l - r
	case Multiplication:
		v = l * r
	case Division:
		if r == 0 {
			return 0, false
		}
		v = l / r
	case Modulo:
		if r == 0 {
			return 0, false
		}
		v = math.Mod(l, r)
	case Power:
		v = math.Pow(l, r)
	default:
		return 0, false
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// compare applies a comparison operator to two numbers.
func (o Operation) compare(l, r float64) bool {
	switch o {
	case Equals:
		return l == r
	case Unequals:
		return l != r
	case LessThan:
		return l < r
	case GreaterThan:
		return l > r
	case LessOrEqual:
		return l <= r
	case GreaterOrEqual:
		return l >= r
	}
	return false
}
