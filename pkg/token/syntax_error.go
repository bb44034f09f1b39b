package token

// SyntaxErrorText is the placeholder a SyntaxError renders as.
const SyntaxErrorText = "syntax error"

// SyntaxError is the absorbing error value of the algebra. It is produced by
// parse and evaluation failures and survives every further combination.
type SyntaxError struct{}

func (e SyntaxError) String() string { return SyntaxErrorText }

// Error makes the sentinel usable where an error is expected.
func (e SyntaxError) Error() string { return SyntaxErrorText }

func (e SyntaxError) Compute(vars Variables, mode Mode) Token { return e }

func (e SyntaxError) Apply(op Operation, right Token, vars Variables) Token { return e }

func (e SyntaxError) NeedBrackets(op Operation) bool { return false }

func (e SyntaxError) MultiplicationPriority() int { return 1 }

func (e SyntaxError) Sign() Sign { return Plus }

func (e SyntaxError) ChangedSign() bool { return false }

func (SyntaxError) token() {}

// IsSyntaxError reports whether t is the error sentinel.
func IsSyntaxError(t Token) bool {
	_, ok := t.(SyntaxError)
	return ok
}
