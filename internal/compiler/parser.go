package compiler

import (
	"bufio"
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/aretw0/delta/pkg/action"
)

// ParseError reports the first line a program could not be parsed at.
type ParseError struct {
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

// Parser is responsible for converting program text into an action tree.
//
// The format is one action per line. Values are Go quoted strings, blocks open
// with "{" at the end of their header and close with a lone "}". Indentation
// is not significant.
//
//	input "x" default "0"
//	if "x > 5" {
//	    print "x"
//	} else {
//	    print "0"
//	}
type Parser struct{}

// NewParser creates a new parser instance.
func NewParser() *Parser {
	return &Parser{}
}

// Compile parses text with a default parser.
func Compile(text string) (*action.Root, error) {
	return NewParser().Parse([]byte(text))
}

// MustCompile is Compile for programs known to be valid. It panics on error.
func MustCompile(text string) *action.Root {
	root, err := Compile(text)
	if err != nil {
		panic(err)
	}
	return root
}

type frame struct {
	block  action.Block
	ifNode *action.If // set while the then-branch of an If is open
	line   int
}

// Parse takes the raw program and builds its root.
func (p *Parser) Parse(data []byte) (*action.Root, error) {
	root := action.NewRoot()
	stack := []frame{{block: root}}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	n := 0
	for scanner.Scan() {
		n++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields, err := splitFields(line)
		if err != nil {
			return nil, &ParseError{Line: n, Msg: err.Error()}
		}
		top := &stack[len(stack)-1]

		if v, ok := match(fields, "input", "", "default", ""); ok {
			top.block.Append(action.NewInput(v[0], v[1]))
			continue
		}
		if v, ok := match(fields, "set", "", "to", ""); ok {
			top.block.Append(action.NewSet(v[0], v[1]))
			continue
		}
		if v, ok := match(fields, "print", ""); ok {
			top.block.Append(action.NewPrint(v[0]))
			continue
		}
		if v, ok := match(fields, "if", "", "{"); ok {
			a := action.NewIf(v[0])
			top.block.Append(a)
			stack = append(stack, frame{block: a, ifNode: a, line: n})
			continue
		}
		if v, ok := match(fields, "while", "", "{"); ok {
			a := action.NewWhile(v[0])
			top.block.Append(a)
			stack = append(stack, frame{block: a, line: n})
			continue
		}
		if v, ok := match(fields, "for", "", "in", "", "{"); ok {
			a := action.NewFor(v[0], v[1])
			top.block.Append(a)
			stack = append(stack, frame{block: a, line: n})
			continue
		}
		if _, ok := match(fields, "}", "else", "{"); ok {
			if top.ifNode == nil {
				return nil, &ParseError{Line: n, Msg: "else without if"}
			}
			e := action.NewElse()
			top.ifNode.Else = e
			stack[len(stack)-1] = frame{block: e, line: n}
			continue
		}
		if _, ok := match(fields, "}"); ok {
			if len(stack) == 1 {
				return nil, &ParseError{Line: n, Msg: "unexpected }"}
			}
			stack = stack[:len(stack)-1]
			continue
		}
		return nil, &ParseError{Line: n, Msg: fmt.Sprintf("unknown statement %q", line)}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read program: %w", err)
	}
	if len(stack) > 1 {
		open := stack[len(stack)-1]
		return nil, &ParseError{Line: open.line, Msg: "block is never closed"}
	}
	return root, nil
}

type field struct {
	text   string
	quoted bool
}

func splitFields(line string) ([]field, error) {
	var fields []field
	for {
		line = strings.TrimLeft(line, " \t")
		if line == "" {
			return fields, nil
		}
		if line[0] == '"' {
			q, err := strconv.QuotedPrefix(line)
			if err != nil {
				return nil, fmt.Errorf("invalid quoted value: %w", err)
			}
			v, err := strconv.Unquote(q)
			if err != nil {
				return nil, fmt.Errorf("invalid quoted value: %w", err)
			}
			fields = append(fields, field{text: v, quoted: true})
			line = line[len(q):]
			continue
		}
		end := strings.IndexAny(line, " \t")
		if end < 0 {
			end = len(line)
		}
		fields = append(fields, field{text: line[:end]})
		line = line[end:]
	}
}

// match checks fields against pattern, where an empty pattern element stands
// for a quoted value. It returns the quoted values in order.
func match(fields []field, pattern ...string) ([]string, bool) {
	if len(fields) != len(pattern) {
		return nil, false
	}
	var values []string
	for i, want := range pattern {
		f := fields[i]
		if want == "" {
			if !f.quoted {
				return nil, false
			}
			values = append(values, f.text)
			continue
		}
		if f.quoted || f.text != want {
			return nil, false
		}
	}
	return values, true
}
