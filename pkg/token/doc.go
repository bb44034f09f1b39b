/*
Package token implements the expression engine used by Delta algorithms.

Expressions are stored as plain text inside actions (conditions, assigned values,
printed values) and parsed on demand into a tree of Tokens. A Token is either a
value (Number, List), a reference (Variable), an unevaluated combination
(Expression), a comparison (Equation) or the SyntaxError sentinel.

# Evaluation

Evaluation is total: Parse never fails and Compute never panics. Anything that
cannot be parsed or computed (unknown characters, unbalanced brackets, division by
zero) becomes a SyntaxError, which absorbs every further combination.

	tok := token.Parse("x * 2 > 5")
	res := tok.Compute(token.Bindings{"x": token.NewNumber(3)}, token.ModeSimplify)
	if eq, ok := res.(token.Equation); ok && eq.IsTrue(nil) {
		// ...
	}

# Printing

String renders a token back to parseable text. Parenthesization is decided by the
operands themselves through NeedBrackets, MultiplicationPriority and Sign, so a
parent never inspects the concrete type of its children.
*/
package token
