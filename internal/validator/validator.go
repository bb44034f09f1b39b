package validator

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/aretw0/delta/internal/compiler"
	"github.com/aretw0/delta/pkg/action"
	"github.com/aretw0/delta/pkg/token"
)

var identifier = regexp.MustCompile(`^[\p{L}_][\p{L}\p{N}_]*$`)

// Issue is a problem found at an editor line of an algorithm.
type Issue struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
}

func (i Issue) String() string {
	return fmt.Sprintf("line %d: %s", i.Line, i.Message)
}

// Issues inspects every editable value of the tree: expressions must parse,
// conditions must be comparisons and assigned names must be identifiers.
func Issues(root *action.Root) []Issue {
	var issues []Issue
	report := func(line int, format string, args ...any) {
		issues = append(issues, Issue{Line: line, Message: fmt.Sprintf(format, args...)})
	}
	expression := func(line int, what, text string) token.Token {
		t, err := token.ParseStrict(text)
		if err != nil {
			report(line, "%s %q: %v", what, text, err)
			return nil
		}
		return t
	}
	name := func(line int, what, text string) {
		if !identifier.MatchString(text) || text == "and" || text == "or" {
			report(line, "%s %q is not a valid name", what, text)
		}
	}
	condition := func(line int, text string) {
		t := expression(line, "condition", text)
		if t == nil {
			return
		}
		if _, ok := t.(token.Equation); !ok {
			report(line, "condition %q is not a comparison and is always false", text)
		}
	}

	for i, l := range root.EditorLines() {
		switch l.Format {
		case action.FormatIf, action.FormatWhile:
			condition(i, l.Values[0])
		case action.FormatFor:
			name(i, "loop variable", l.Values[0])
			expression(i, "list", l.Values[1])
		case action.FormatSet:
			name(i, "variable", l.Values[0])
			expression(i, "value", l.Values[1])
		case action.FormatInput:
			name(i, "input", l.Values[0])
			expression(i, "default", l.Values[1])
		case action.FormatPrint:
			expression(i, "text", l.Values[0])
		}
	}
	return issues
}

// Validate returns an error listing every issue of the tree.
func Validate(root *action.Root) error {
	issues := Issues(root)
	if len(issues) == 0 {
		return nil
	}
	msgs := make([]string, len(issues))
	for i, is := range issues {
		msgs[i] = is.String()
	}
	return fmt.Errorf("found %d errors:\n- %s", len(issues), strings.Join(msgs, "\n- "))
}

// ValidateProgram compiles program text and validates the result.
func ValidateProgram(text string) error {
	root, err := compiler.Compile(text)
	if err != nil {
		return err
	}
	return Validate(root)
}
