package algorithm_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/aretw0/delta/pkg/action"
	"github.com/aretw0/delta/pkg/algorithm"
	"github.com/aretw0/delta/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)

// run executes alg and waits for the process to end.
func run(t *testing.T, alg *algorithm.Algorithm, values map[string]string) (*domain.Process, bool) {
	t.Helper()
	var completed atomic.Bool
	p := alg.Run(values, func() { completed.Store(true) })
	select {
	case <-p.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("run did not finish")
	}
	return p, completed.Load()
}

func TestNew_Status(t *testing.T) {
	local := algorithm.New(1, 0, true, "a", now, "", nil)
	assert.Equal(t, domain.SyncLocal, local.Status)
	assert.Equal(t, algorithm.DefaultIcon, local.Icon)
	assert.NotNil(t, local.Root)

	shared := algorithm.New(1, 9, true, "a", now, "star", action.NewRoot(action.NewInput("x", "1")))
	assert.Equal(t, domain.SyncSynchro, shared.Status)
	assert.Equal(t, []domain.Input{{Name: "x", Default: "1"}}, shared.Inputs)
}

func TestScenario_IfGreaterThanFive(t *testing.T) {
	alg := algorithm.New(1, 0, true, "gt5", now, "", action.NewRoot(
		action.NewIf("x > 5", action.NewSet("y", "1")),
	))

	p, completed := run(t, alg, map[string]string{"x": "10"})
	assert.True(t, completed)
	y, ok := p.Get("y")
	require.True(t, ok)
	assert.Equal(t, "1", y.String())

	p, completed = run(t, alg, map[string]string{"x": "3"})
	assert.True(t, completed)
	_, ok = p.Get("y")
	assert.False(t, ok)
}

func TestScenario_SyntaxErrorConditionRunsElse(t *testing.T) {
	alg := algorithm.New(1, 0, true, "err", now, "", action.NewRoot(
		action.NewIf("1/0 > 0", action.NewPrint("then")).
			WithElse(action.NewElse(action.NewPrint("otherwise"))),
	))
	p, _ := run(t, alg, nil)
	assert.Equal(t, []string{"otherwise"}, p.Output())
}

func TestScenario_DeleteNestedIf(t *testing.T) {
	alg := algorithm.New(1, 0, true, "nested", now, "", action.NewRoot(
		action.NewPrint("a"),
		action.NewIf("a", action.NewIf("b", action.NewPrint("c"))),
		action.NewPrint("d"),
	))
	before := alg.EditorLinesCount()
	require.Equal(t, 10, before)

	r := alg.Delete(1)
	assert.Equal(t, algorithm.Range{Start: 1, End: 8}, r)
	assert.Equal(t, before-r.Len(), alg.EditorLinesCount())
	assert.Equal(t, "print \"a\"\nprint \"d\"", alg.String())
}

func TestExecute_InputsAndCompletion(t *testing.T) {
	alg := algorithm.New(1, 0, true, "inputs", now, "", action.NewRoot(
		action.NewInput("x", "2"),
		action.NewInput("y", "x * 10"),
		action.NewPrint("x + y"),
	))

	p, completed := run(t, alg, nil)
	assert.True(t, completed)
	assert.Equal(t, []string{"22"}, p.Output())

	p, _ = run(t, alg, map[string]string{"x": "5"})
	assert.Equal(t, []string{"55"}, p.Output())

	done := make(chan struct{})
	p = alg.Execute(func() { close(done) })
	<-done
	<-p.Done()
	assert.Equal(t, []string{"22"}, p.Output())
}

func TestExecute_CancelSuppressesCompletion(t *testing.T) {
	alg := algorithm.New(1, 0, true, "forever", now, "", action.NewRoot(
		action.NewSet("n", "0"),
		action.NewWhile("1 < 2", action.NewSet("n", "n + 1")),
	))

	var completed atomic.Bool
	p := alg.Run(nil, func() { completed.Store(true) })
	p.Cancel()
	<-p.Done()
	assert.False(t, completed.Load())
	assert.True(t, p.Snapshot().Cancelled)
}

func TestMove_NoOps(t *testing.T) {
	alg := algorithm.New(1, 0, true, "m", now, "", action.NewRoot(
		action.NewPrint("a"),
		action.NewIf("c", action.NewPrint("x"), action.NewPrint("y")),
		action.NewPrint("b"),
	))
	text := alg.String()

	for i := 0; i < alg.EditorLinesCount(); i++ {
		del, ins := alg.Move(i, i)
		assert.True(t, del.Empty())
		assert.True(t, ins.Empty())
	}

	// The If spans lines 1 to 5.
	for to := 2; to <= 5; to++ {
		del, ins := alg.Move(1, to)
		assert.True(t, del.Empty(), "to %d", to)
		assert.True(t, ins.Empty(), "to %d", to)
	}

	// Add and end lines own nothing movable.
	del, _ := alg.Move(4, 0)
	assert.True(t, del.Empty())
	del, _ = alg.Move(5, 0)
	assert.True(t, del.Empty())

	assert.Equal(t, text, alg.String())
}

func prints(actions []action.Action) []string {
	var out []string
	for _, a := range actions {
		if p, ok := a.(*action.Print); ok {
			out = append(out, p.Text)
		} else {
			out = append(out, a.EditorLines()[0].Format)
		}
	}
	return out
}

func TestMove(t *testing.T) {
	flat := func() *algorithm.Algorithm {
		return algorithm.New(1, 0, true, "m", now, "", action.NewRoot(
			action.NewPrint("a"), action.NewPrint("b"), action.NewPrint("c"),
		))
	}

	alg := flat()
	del, ins := alg.Move(0, 2)
	assert.Equal(t, algorithm.Range{Start: 0, End: 1}, del)
	assert.Equal(t, algorithm.Range{Start: 2, End: 3}, ins)
	assert.Equal(t, []string{"b", "c", "a"}, prints(alg.Root.Actions))

	alg = flat()
	del, ins = alg.Move(2, 0)
	assert.Equal(t, algorithm.Range{Start: 2, End: 3}, del)
	assert.Equal(t, algorithm.Range{Start: 0, End: 1}, ins)
	assert.Equal(t, []string{"c", "a", "b"}, prints(alg.Root.Actions))

	// 0 a, 1 if, 2 x, 3 add, 4 end, 5 b, 6 add
	withIf := func() *algorithm.Algorithm {
		return algorithm.New(1, 0, true, "m", now, "", action.NewRoot(
			action.NewPrint("a"),
			action.NewIf("c", action.NewPrint("x")),
			action.NewPrint("b"),
		))
	}

	alg = withIf()
	_, ins = alg.Move(5, 3)
	assert.Equal(t, algorithm.Range{Start: 3, End: 4}, ins)
	assert.Equal(t, []string{"x", "b"}, prints(alg.Root.Actions[1].(*action.If).Actions))

	alg = withIf()
	_, ins = alg.Move(0, 3)
	assert.Equal(t, algorithm.Range{Start: 2, End: 3}, ins)
	assert.Equal(t, []string{"x", "a"}, prints(alg.Root.Actions[0].(*action.If).Actions))

	alg = withIf()
	del, ins = alg.Move(1, 6)
	assert.Equal(t, algorithm.Range{Start: 1, End: 5}, del)
	assert.Equal(t, algorithm.Range{Start: 2, End: 6}, ins)
	assert.Equal(t, []string{"a", "b", action.FormatIf}, prints(alg.Root.Actions))
}

func TestInsertDelete_InvalidIndex(t *testing.T) {
	alg := algorithm.New(1, 0, true, "i", now, "", action.NewRoot(action.NewPrint("a")))
	assert.True(t, alg.Insert(action.NewPrint("b"), -1).Empty())
	assert.True(t, alg.Insert(action.NewPrint("b"), 2).Empty())
	assert.True(t, alg.Insert(nil, 0).Empty())
	assert.True(t, alg.Delete(5).Empty())
	assert.True(t, alg.Delete(1).Empty(), "root add line")
	assert.Equal(t, "print \"a\"", alg.String())
}

func TestEdits_RecomputeInputs(t *testing.T) {
	alg := algorithm.New(1, 0, true, "e", now, "", action.NewRoot(action.NewInput("x", "0")))

	alg.Insert(action.NewInput("y", "1"), 1)
	assert.Len(t, alg.Inputs, 2)

	alg.Update(domain.EditorLine{Category: domain.CategoryValue, Values: []string{"z", "2"}}, 1)
	assert.Equal(t, domain.Input{Name: "z", Default: "2"}, alg.Inputs[1])

	alg.Delete(0)
	assert.Equal(t, []domain.Input{{Name: "z", Default: "2"}}, alg.Inputs)
}

func TestUpdate_Dispatch(t *testing.T) {
	alg := algorithm.New(1, 0, true, "u", now, "", action.NewRoot(
		action.NewIf("x > 5", action.NewPrint("x")),
	))

	alg.Update(domain.EditorLine{Category: domain.CategoryStructure, Values: []string{"x > 6"}}, 0)
	assert.Equal(t, "x > 6", alg.Root.Actions[0].(*action.If).Condition)

	alg.Update(domain.EditorLine{Category: domain.CategoryAdd, Values: []string{"broken"}}, 2)
	assert.Equal(t, "x > 6", alg.Root.Actions[0].(*action.If).Condition)

	alg.Update(domain.EditorLine{Category: domain.CategorySettings, Values: []string{"Renamed"}}, 0)
	assert.Equal(t, "Renamed", alg.Name)
	assert.Equal(t, "x > 6", alg.Root.Actions[0].(*action.If).Condition)
}

func TestSettings(t *testing.T) {
	owned := algorithm.New(3, 0, true, "mine", now, "star", nil)
	lines := owned.Settings()
	require.Len(t, lines, owned.SettingsCount())
	assert.Equal(t, 3, owned.SettingsCount())
	assert.Equal(t, algorithm.FormatSettingsName, lines[0].Format)
	assert.Equal(t, []string{"mine"}, lines[0].Values)
	assert.Equal(t, []string{"star"}, lines[1].Values)
	assert.Equal(t, []string{string(domain.SyncLocal)}, lines[2].Values)

	assert.Equal(t, 2, algorithm.New(0, 0, true, "new", now, "", nil).SettingsCount())
	assert.Equal(t, 2, algorithm.New(3, 7, false, "theirs", now, "", nil).SettingsCount())

	owned.UpdateSettings(0, []string{"renamed"})
	owned.UpdateSettings(1, []string{"moon"})
	owned.UpdateSettings(0, []string{"a", "b"})
	owned.UpdateSettings(2, []string{"ignored"})
	assert.Equal(t, "renamed", owned.Name)
	assert.Equal(t, "moon", owned.Icon)
}

func TestClone(t *testing.T) {
	root := action.NewRoot(action.NewPrint("a"))

	owned := algorithm.New(3, 7, true, "mine", now, "star", root)
	c := owned.Clone()
	assert.Equal(t, int64(3), c.LocalID)
	assert.Equal(t, int64(7), c.RemoteID)
	assert.Equal(t, "mine", c.Name)
	assert.NotSame(t, owned.Root, c.Root)
	assert.Equal(t, owned.String(), c.String())

	foreign := algorithm.New(4, 8, false, "theirs", now, "star", root)
	c = foreign.Clone()
	assert.Equal(t, int64(0), c.LocalID)
	assert.Equal(t, int64(0), c.RemoteID)
	assert.True(t, c.Owner)
	assert.Equal(t, "Copy of theirs", c.Name)
	assert.Equal(t, domain.SyncLocal, c.Status)
	assert.Equal(t, foreign.String(), c.String())
}

func TestRecord_RoundTrip(t *testing.T) {
	alg := algorithm.New(3, 7, true, "mine", now, "star", action.NewRoot(
		action.NewInput("x", "0"),
		action.NewIf("x > 5", action.NewPrint("x")).WithElse(action.NewElse(action.NewPrint("0"))),
	))
	alg.Notes = "notes"

	rec := alg.Record()
	assert.Equal(t, alg.String(), rec.Lines)

	back, err := algorithm.FromRecord(rec)
	require.NoError(t, err)
	assert.Equal(t, alg.String(), back.String())
	assert.Equal(t, alg.EditorLines(), back.EditorLines())
	assert.Equal(t, alg.Inputs, back.Inputs)
	assert.Equal(t, "notes", back.Notes)
	assert.Equal(t, domain.SyncSynchro, back.Status)

	alg.Status = domain.SyncFailed
	back, err = algorithm.FromRecord(alg.Record())
	require.NoError(t, err)
	assert.Equal(t, domain.SyncFailed, back.Status, "a stored status survives reloading")

	local := alg.Record()
	local.Status = ""
	local.RemoteID = 0
	back, err = algorithm.FromRecord(local)
	require.NoError(t, err)
	assert.Equal(t, domain.SyncLocal, back.Status)

	_, err = algorithm.FromRecord(&domain.Record{Name: "bad", Lines: "if \"x\" {"})
	assert.Error(t, err)
	_, err = algorithm.FromRecord(nil)
	assert.Error(t, err)
}

func TestDefaults(t *testing.T) {
	defaults := algorithm.Defaults()
	require.Len(t, defaults, 4)

	want := map[string][]string{
		"Even or odd":         {"even"},
		"Fibonacci":           {"0", "1", "1", "2", "3", "5", "8", "13", "21", "34"},
		"Sum of a list":       {"10"},
		"Pythagorean theorem": {"5"},
	}
	for _, alg := range defaults {
		assert.False(t, alg.Owner)
		assert.NotZero(t, alg.RemoteID)
		p, completed := run(t, alg, nil)
		assert.True(t, completed)
		assert.Equal(t, want[alg.Name], p.Output(), alg.Name)
	}
}
