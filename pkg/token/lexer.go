package token

import (
	"fmt"
	"strconv"
	"unicode"
	"unicode/utf8"
)

type lexemeKind int

const (
	lexEOF lexemeKind = iota
	lexNumber
	lexIdent
	lexOperator
	lexLParen
	lexRParen
	lexLBrace
	lexRBrace
	lexComma
)

type lexeme struct {
	kind  lexemeKind
	text  string
	num   float64
	op    Operation
	unary bool // "-" may also be a unary minus
	pos   int
}

var keywordOperators = map[string]Operation{
	"and": And,
	"or":  Or,
}

// lex splits text into lexemes. The returned slice always ends with lexEOF.
func lex(text string) ([]lexeme, error) {
	var out []lexeme
	i := 0
	for i < len(text) {
		r, size := utf8.DecodeRuneInString(text[i:])
		switch {
		case r == utf8.RuneError && size == 1:
			return nil, fmt.Errorf("invalid utf-8 at %d", i)
		case unicode.IsSpace(r):
			i += size
		case isDigit(r) || (r == '.' && i+1 < len(text) && isDigit(rune(text[i+1]))):
			start := i
			for i < len(text) && isDigit(rune(text[i])) {
				i++
			}
			if i < len(text) && text[i] == '.' {
				i++
				for i < len(text) && isDigit(rune(text[i])) {
					i++
				}
			}
			v, err := strconv.ParseFloat(text[start:i], 64)
			if err != nil {
				return nil, fmt.Errorf("invalid number %q at %d", text[start:i], start)
			}
			out = append(out, lexeme{kind: lexNumber, text: text[start:i], num: v, pos: start})
		case r == '_' || unicode.IsLetter(r):
			start := i
			for i < len(text) {
				r, size := utf8.DecodeRuneInString(text[i:])
				if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
					break
				}
				i += size
			}
			word := text[start:i]
			if op, ok := keywordOperators[word]; ok {
				out = append(out, lexeme{kind: lexOperator, text: word, op: op, pos: start})
				continue
			}
			out = append(out, lexeme{kind: lexIdent, text: word, pos: start})
		default:
			l, n, err := lexSymbol(text[i:])
			if err != nil {
				return nil, fmt.Errorf("%w at %d", err, i)
			}
			l.pos = i
			out = append(out, l)
			i += n
		}
	}
	return append(out, lexeme{kind: lexEOF, pos: len(text)}), nil
}

func lexSymbol(s string) (lexeme, int, error) {
	two := ""
	if len(s) >= 2 {
		two = s[:2]
	}
	switch two {
	case "==":
		return lexeme{kind: lexOperator, text: two, op: Equals}, 2, nil
	case "!=":
		return lexeme{kind: lexOperator, text: two, op: Unequals}, 2, nil
	case "<=":
		return lexeme{kind: lexOperator, text: two, op: LessOrEqual}, 2, nil
	case ">=":
		return lexeme{kind: lexOperator, text: two, op: GreaterOrEqual}, 2, nil
	case "&&":
		return lexeme{kind: lexOperator, text: two, op: And}, 2, nil
	case "||":
		return lexeme{kind: lexOperator, text: two, op: Or}, 2, nil
	}

	c := s[0]
	switch c {
	case '(':
		return lexeme{kind: lexLParen, text: "("}, 1, nil
	case ')':
		return lexeme{kind: lexRParen, text: ")"}, 1, nil
	case '{':
		return lexeme{kind: lexLBrace, text: "{"}, 1, nil
	case '}':
		return lexeme{kind: lexRBrace, text: "}"}, 1, nil
	case ',':
		return lexeme{kind: lexComma, text: ","}, 1, nil
	case '+':
		return lexeme{kind: lexOperator, text: "+", op: Addition}, 1, nil
	case '-':
		return lexeme{kind: lexOperator, text: "-", op: Subtraction, unary: true}, 1, nil
	case '*':
		return lexeme{kind: lexOperator, text: "*", op: Multiplication}, 1, nil
	case '/':
		return lexeme{kind: lexOperator, text: "/", op: Division}, 1, nil
	case '%':
		return lexeme{kind: lexOperator, text: "%", op: Modulo}, 1, nil
	case '^':
		return lexeme{kind: lexOperator, text: "^", op: Power}, 1, nil
	case '=':
		return lexeme{kind: lexOperator, text: "=", op: Equals}, 1, nil
	case '<':
		return lexeme{kind: lexOperator, text: "<", op: LessThan}, 1, nil
	case '>':
		return lexeme{kind: lexOperator, text: ">", op: GreaterThan}, 1, nil
	}
	return lexeme{}, 0, fmt.Errorf("unexpected character %q", c)
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
