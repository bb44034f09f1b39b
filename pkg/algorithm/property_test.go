package algorithm_test

import (
	"math/rand/v2"
	"strconv"
	"testing"

	"github.com/aretw0/delta/pkg/action"
	"github.com/aretw0/delta/pkg/algorithm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func randomActions(r *rand.Rand, depth int) []action.Action {
	n := r.IntN(4)
	out := make([]action.Action, 0, n)
	for i := 0; i < n; i++ {
		kind := r.IntN(7)
		if depth >= 3 {
			kind = r.IntN(3)
		}
		name := "v" + strconv.Itoa(r.IntN(5))
		switch kind {
		case 0:
			out = append(out, action.NewSet(name, name+" + 1"))
		case 1:
			out = append(out, action.NewInput(name, "0"))
		case 2:
			out = append(out, action.NewPrint(name))
		case 3:
			out = append(out, action.NewIf(name+" > 1", randomActions(r, depth+1)...))
		case 4:
			out = append(out, action.NewIf(name+" > 1", randomActions(r, depth+1)...).
				WithElse(action.NewElse(randomActions(r, depth+1)...)))
		case 5:
			out = append(out, action.NewWhile(name+" < 0", randomActions(r, depth+1)...))
		case 6:
			out = append(out, action.NewFor(name, "{1, 2}", randomActions(r, depth+1)...))
		}
	}
	return out
}

func randomAlgorithms(n int) []*algorithm.Algorithm {
	r := rand.New(rand.NewPCG(1, 2))
	out := make([]*algorithm.Algorithm, n)
	for i := range out {
		out[i] = algorithm.New(1, 0, true, "random", now, "", action.NewRoot(randomActions(r, 0)...))
	}
	return out
}

func TestProperty_LineCount(t *testing.T) {
	for _, alg := range randomAlgorithms(30) {
		assert.Len(t, alg.EditorLines(), alg.EditorLinesCount(), alg.String())
	}
}

func TestProperty_IndexRoundTrip(t *testing.T) {
	for _, alg := range randomAlgorithms(30) {
		for i := 0; i < alg.EditorLinesCount(); i++ {
			r := alg.ActionAt(i)
			require.NotNil(t, r.Container)
			back := r.Container.ActionAt(r.Index, nil, 0)
			assert.Same(t, r.Action, back.Action, "line %d of\n%s", i, alg.String())
			assert.Same(t, r.Container, back.Container, "line %d of\n%s", i, alg.String())
			assert.Equal(t, r.Index, back.Index, "line %d of\n%s", i, alg.String())
		}
	}
}

func TestProperty_InsertThenDeleteRestores(t *testing.T) {
	for _, alg := range randomAlgorithms(30) {
		for i := 0; i < alg.EditorLinesCount(); i++ {
			c := alg.Clone()
			before := c.EditorLines()

			ins := c.Insert(action.NewPrint("inserted"), i)
			require.Equal(t, 1, ins.Len())
			require.Equal(t, len(before)+1, c.EditorLinesCount())
			assert.Equal(t, []string{"inserted"}, c.EditorLines()[ins.Start].Values)

			del := c.Delete(ins.Start)
			assert.Equal(t, ins, del)
			assert.Equal(t, before, c.EditorLines(), "line %d of\n%s", i, alg.String())
		}
	}
}

func TestProperty_MoveIntoOwnRangeIsNoOp(t *testing.T) {
	for _, alg := range randomAlgorithms(30) {
		text := alg.String()
		for i := 0; i < alg.EditorLinesCount(); i++ {
			size := alg.ActionAt(i).Action.EditorLinesCount()
			for to := i; to < i+size && to < alg.EditorLinesCount(); to++ {
				del, ins := alg.Move(i, to)
				assert.True(t, del.Empty())
				assert.True(t, ins.Empty())
			}
		}
		assert.Equal(t, text, alg.String())
	}
}
