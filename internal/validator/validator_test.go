package validator

import (
	"strings"
	"testing"

	"github.com/aretw0/delta/internal/compiler"
	"github.com/aretw0/delta/pkg/algorithm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_Valid(t *testing.T) {
	for _, alg := range algorithm.Defaults() {
		assert.NoError(t, Validate(alg.Root), alg.Name)
	}
}

func TestIssues(t *testing.T) {
	root := compiler.MustCompile(`input "1x" default "0"
set "y" to "x +"
if "x" {
    print "(y"
}
while "y < 1" {
}
for "and" in "{1, 2"  {
}`)

	issues := Issues(root)
	require.Len(t, issues, 6)

	lines := make([]int, len(issues))
	for i, is := range issues {
		lines[i] = is.Line
	}
	assert.Equal(t, []int{0, 1, 2, 3, 9, 9}, lines)
	assert.Contains(t, issues[0].Message, "not a valid name")
	assert.Contains(t, issues[2].Message, "not a comparison")
}

func TestValidate_ErrorListsIssues(t *testing.T) {
	err := ValidateProgram(`print "1 +"
print "2 *"`)
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "found 2 errors"), err.Error())
	assert.Contains(t, err.Error(), "line 1:")

	err = ValidateProgram(`if "a > 1" {`)
	var perr *compiler.ParseError
	assert.ErrorAs(t, err, &perr)
}
