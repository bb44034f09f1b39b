package token

import "sort"

// Sign is the sign of a token as seen by the printer.
type Sign int

const (
	Plus Sign = iota
	Minus
)

// Mode selects how far Compute reduces a token.
type Mode int

const (
	// ModeSimplify substitutes bound variables, keeps unbound ones symbolic and
	// reduces every concrete sub-expression.
	ModeSimplify Mode = iota
	// ModeEvaluate behaves like ModeSimplify, except that an unbound variable
	// reduces to a SyntaxError.
	ModeEvaluate
)

func (m Mode) String() string {
	if m == ModeEvaluate {
		return "evaluate"
	}
	return "simplify"
}

// Token is a node of the expression algebra.
//
// The set of implementations is closed: Number, List, Variable, Expression,
// Equation and SyntaxError.
type Token interface {
	// String renders the token as parseable text.
	String() string

	// Compute reduces the token against the given variables.
	Compute(vars Variables, mode Mode) Token

	// Apply combines the token (left operand) with right under op.
	Apply(op Operation, right Token, vars Variables) Token

	// NeedBrackets reports whether the token must be parenthesized when it is an
	// operand of op.
	NeedBrackets(op Operation) bool

	// MultiplicationPriority is the tier used to elide the multiplication sign
	// ("2x" instead of "2 * x"). A left factor is juxtaposed only with a right
	// factor of strictly higher priority.
	MultiplicationPriority() int

	// Sign returns the sign the token is printed with.
	Sign() Sign

	// ChangedSign reports whether the token is printed as the negation of its
	// inner value ("-x").
	ChangedSign() bool

	token()
}

// Variables resolves variable names to their bound values.
type Variables interface {
	Lookup(name string) (Token, bool)
}

// Bindings is a map based Variables implementation.
type Bindings map[string]Token

// Lookup returns the value bound to name.
func (b Bindings) Lookup(name string) (Token, bool) {
	t, ok := b[name]
	return t, ok
}

func lookup(vars Variables, name string) (Token, bool) {
	if vars == nil {
		return nil, false
	}
	return vars.Lookup(name)
}

// shadowed hides one name from an environment. A bound value is computed with
// its own name shadowed so that "x = x + 1" cannot recurse forever.
type shadowed struct {
	vars Variables
	name string
}

func (s shadowed) Lookup(name string) (Token, bool) {
	if name == s.name {
		return nil, false
	}
	return lookup(s.vars, name)
}

// Bind parses and simplifies values in name order, so a value may refer to
// names sorting before it.
func Bind(values map[string]string) Bindings {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	b := make(Bindings, len(values))
	for _, name := range names {
		b[name] = Parse(values[name]).Compute(b, ModeSimplify)
	}
	return b
}
