package domain_test

import (
	"sync"
	"testing"

	"github.com/aretw0/delta/pkg/domain"
	"github.com/aretw0/delta/pkg/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcess_Variables(t *testing.T) {
	p := domain.NewProcess()
	require.NotEmpty(t, p.ID)

	_, ok := p.Get("x")
	assert.False(t, ok)

	p.Set("x", token.NewNumber(2))
	v, ok := p.Get("x")
	require.True(t, ok)
	assert.Equal(t, token.NewNumber(2), v)

	got := token.Parse("x * 3").Compute(p, token.ModeEvaluate)
	assert.Equal(t, token.NewNumber(6), got)

	vars := p.Variables()
	vars["y"] = token.NewNumber(1)
	_, ok = p.Get("y")
	assert.False(t, ok, "Variables must return a copy")
}

func TestProcess_PrintAndSnapshot(t *testing.T) {
	var printed []string
	p := domain.NewProcess(
		domain.WithProcessID("run-1"),
		domain.WithPrinter(func(s string) { printed = append(printed, s) }),
	)
	p.Set("b", token.Parse("a + 1"))
	p.Set("a", token.NewNumber(1))
	p.Print("hello")

	assert.Equal(t, []string{"hello"}, printed)
	assert.Equal(t, []string{"hello"}, p.Output())

	snap := p.Snapshot()
	assert.Equal(t, "run-1", snap.RunID)
	assert.Equal(t, "a + 1", snap.Variables["b"])
	assert.Equal(t, []string{"a", "b"}, snap.Names())
	assert.False(t, snap.Finished)

	p.Finish()
	p.Finish()
	assert.True(t, p.Snapshot().Finished)
	<-p.Done()
}

func TestProcess_CancelIsWriteOnce(t *testing.T) {
	p := domain.NewProcess()
	assert.False(t, p.Cancelled())

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.Cancel()
			_ = p.Cancelled()
		}()
	}
	wg.Wait()
	assert.True(t, p.Cancelled())
	assert.True(t, p.Snapshot().Cancelled)
}

func TestEditorLine_Indented(t *testing.T) {
	line := domain.EditorLine{Format: "action_print", Category: domain.CategoryStructure, Values: []string{"x"}}
	deeper := line.Indented()
	deeper.Values[0] = "y"

	assert.Equal(t, 1, deeper.Indentation)
	assert.Equal(t, 0, line.Indentation)
	assert.Equal(t, "x", line.Values[0])
}

func TestSyncStatus_Busy(t *testing.T) {
	assert.True(t, domain.SyncDownloading.Busy())
	assert.True(t, domain.SyncCheckingForUpdate.Busy())
	assert.False(t, domain.SyncSynchro.Busy())
	assert.False(t, domain.SyncFailed.Busy())
}
