package compiler_test

import (
	"errors"
	"testing"

	"github.com/aretw0/delta/internal/compiler"
	"github.com/aretw0/delta/pkg/action"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const program = `input "x" default "0"
set "y" to "x * 2"
if "x > 5" {
    print "y"
} else {
    print "x"
}
while "y < 100" {
    set "y" to "y * 2"
    if "y = 64" {
        print "\"sixty four\""
    }
}
for "i" in "{1, 2, 3}" {
    print "i"
}`

func TestParser_RoundTrip(t *testing.T) {
	root, err := compiler.Compile(program)
	require.NoError(t, err)
	require.Len(t, root.Actions, 5)

	ifAction, ok := root.Actions[2].(*action.If)
	require.True(t, ok)
	require.NotNil(t, ifAction.Else)
	assert.Equal(t, "x > 5", ifAction.Condition)

	loop := root.Actions[3].(*action.While)
	require.Len(t, loop.Actions, 2)
	assert.Equal(t, `"sixty four"`, loop.Actions[1].(*action.If).Actions[0].(*action.Print).Text)

	assert.Equal(t, program, root.String())

	again, err := compiler.Compile(root.String())
	require.NoError(t, err)
	assert.Equal(t, root.String(), again.String())
}

func TestParser_IgnoresIndentationAndBlankLines(t *testing.T) {
	root, err := compiler.Compile("\n# comment\nif \"a\" {\nprint \"b\"\n      }\n\n")
	require.NoError(t, err)
	assert.Equal(t, "if \"a\" {\n    print \"b\"\n}", root.String())
}

func TestParser_Empty(t *testing.T) {
	root, err := compiler.Compile("")
	require.NoError(t, err)
	assert.Empty(t, root.Actions)
	assert.Equal(t, 1, root.EditorLinesCount())
}

func TestParser_Errors(t *testing.T) {
	tests := []struct {
		name string
		text string
		line int
	}{
		{"unknown statement", "print \"a\"\nfoo \"b\"", 2},
		{"unquoted value", "print a", 1},
		{"unterminated quote", "print \"a", 1},
		{"unexpected close", "}", 1},
		{"else without if", "while \"a\" {\n} else {\n}", 2},
		{"unclosed block", "print \"a\"\nfor \"i\" in \"{1}\" {\nprint \"i\"", 2},
		{"double else", "if \"a\" {\n} else {\n} else {\n}", 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := compiler.Compile(tt.text)
			require.Error(t, err)
			var perr *compiler.ParseError
			require.True(t, errors.As(err, &perr))
			assert.Equal(t, tt.line, perr.Line)
		})
	}
}

func TestMustCompile_Panics(t *testing.T) {
	assert.Panics(t, func() { compiler.MustCompile("}") })
}
