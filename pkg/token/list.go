package token

import "strings"

// List is an ordered sequence of tokens. Lists are never reduced: combining a
// list with anything yields a lazy Expression.
type List struct {
	Values []Token
}

// NewList returns a List of the given values.
func NewList(values ...Token) List {
	return List{Values: values}
}

func (l List) String() string {
	parts := make([]string, len(l.Values))
	for i, v := range l.Values {
		parts[i] = v.String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func (l List) Compute(vars Variables, mode Mode) Token {
	return l
}

func (l List) Apply(op Operation, right Token, vars Variables) Token {
	if err, ok := right.(SyntaxError); ok {
		return err
	}
	return Expression{Left: l, Right: right, Operation: op}
}

func (l List) NeedBrackets(op Operation) bool { return false }

func (l List) MultiplicationPriority() int { return 1 }

func (l List) Sign() Sign { return Plus }

func (l List) ChangedSign() bool { return false }

func (List) token() {}
