package token

// Variable is a reference to a named value of the process.
type Variable struct {
	Name string
}

// NewVariable returns a reference to name.
func NewVariable(name string) Variable {
	return Variable{Name: name}
}

func (v Variable) String() string {
	return v.Name
}

// Compute substitutes the bound value. An unbound variable stays symbolic in
// ModeSimplify and becomes a SyntaxError in ModeEvaluate.
func (v Variable) Compute(vars Variables, mode Mode) Token {
	value, ok := lookup(vars, v.Name)
	if !ok || value == nil {
		if mode == ModeEvaluate {
			return SyntaxError{}
		}
		return v
	}
	return value.Compute(shadowed{vars: vars, name: v.Name}, mode)
}

func (v Variable) Apply(op Operation, right Token, vars Variables) Token {
	return combine(v, op, right)
}

func (v Variable) NeedBrackets(op Operation) bool { return false }

func (v Variable) MultiplicationPriority() int { return 2 }

func (v Variable) Sign() Sign { return Plus }

func (v Variable) ChangedSign() bool { return false }

func (Variable) token() {}
