package cli

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/delta/internal/config"
	"github.com/aretw0/delta/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const parity = `input "n" default "4"
if "n % 2 = 0" {
    print "even"
} else {
    print "odd"
}`

func writeProgram(t *testing.T, text string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "parity.delta")
	require.NoError(t, os.WriteFile(path, []byte(text), 0o644))
	return path
}

func memoryStack(t *testing.T) *Stack {
	t.Helper()
	cfg := config.Default()
	cfg.Store.Backend = config.BackendMemory
	s, err := Build(cfg, io.Discard)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestBuild_Backends(t *testing.T) {
	mr := miniredis.RunT(t)

	tests := []struct {
		name   string
		modify func(cfg *config.Config)
		locker bool
	}{
		{"memory", func(cfg *config.Config) { cfg.Store.Backend = config.BackendMemory }, false},
		{"file", func(cfg *config.Config) {
			cfg.Store.Backend = config.BackendFile
			cfg.Store.Path = t.TempDir()
		}, false},
		{"loam", func(cfg *config.Config) {
			cfg.Store.Backend = config.BackendLoam
			cfg.Store.Path = t.TempDir()
		}, false},
		{"redis", func(cfg *config.Config) {
			cfg.Store.Backend = config.BackendRedis
			cfg.Store.Redis.Addr = mr.Addr()
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.modify(cfg)

			store, locker, closer, err := OpenStore(cfg.Store)
			require.NoError(t, err)
			require.NotNil(t, store)
			assert.Equal(t, tt.locker, locker != nil)
			if closer != nil {
				require.NoError(t, closer())
			}

			s, err := Build(cfg, io.Discard)
			require.NoError(t, err)
			defer s.Close()

			lib, err := s.Engine.List(context.Background())
			require.NoError(t, err)
			assert.Len(t, lib.Downloaded, 4, "an empty store is seeded with the defaults")
		})
	}
}

func TestBuild_InvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Store.Backend = "tape"
	_, err := Build(cfg, io.Discard)
	assert.Error(t, err)

	cfg = config.Default()
	cfg.Store.Backend = config.BackendMemory
	cfg.Store.EncryptionKey = "c2hvcnQ="
	_, err = Build(cfg, io.Discard)
	assert.ErrorContains(t, err, "invalid encryption key")
}

func TestBuild_LogFileReceivesRecords(t *testing.T) {
	cfg := config.Default()
	cfg.Store.Backend = config.BackendMemory
	cfg.LogLevel = "debug"
	cfg.LogFile = filepath.Join(t.TempDir(), "logs", "delta.log")

	var console bytes.Buffer
	s, err := Build(cfg, &console)
	require.NoError(t, err)
	s.Logger.Warn("store slow", "error", errors.New("timeout"))
	require.NoError(t, s.Close())

	assert.Contains(t, console.String(), "msg=\"stack ready\"")
	assert.Contains(t, console.String(), "err=timeout")

	data, err := os.ReadFile(cfg.LogFile)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], `"msg":"stack ready"`)
	assert.Contains(t, lines[1], `"msg":"store slow"`)
	assert.Contains(t, lines[1], `"err":"timeout"`)
}

func TestBuild_LogFileUnwritable(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))

	cfg := config.Default()
	cfg.Store.Backend = config.BackendMemory
	cfg.LogFile = filepath.Join(blocker, "delta.log")
	_, err := Build(cfg, io.Discard)
	assert.ErrorContains(t, err, "log")
}

func TestBuild_RemoteClient(t *testing.T) {
	cfg := config.Default()
	cfg.Store.Backend = config.BackendMemory
	cfg.Remote.URL = "http://catalog.invalid"
	s, err := Build(cfg, io.Discard)
	require.NoError(t, err)
	require.NotNil(t, s.Remote)
	assert.Equal(t, s.Remote, s.Engine.Remote())
}

func TestOpenStore_Encrypted(t *testing.T) {
	dir := t.TempDir()
	key := base64.StdEncoding.EncodeToString(bytes.Repeat([]byte{7}, 32))
	ctx := context.Background()

	sealed, _, _, err := OpenStore(config.StoreConfig{Backend: config.BackendFile, Path: dir, EncryptionKey: key})
	require.NoError(t, err)
	require.NoError(t, sealed.Save(ctx, &domain.Record{LocalID: 1, Name: "secret", Lines: `print "1"`}))

	plain, _, _, err := OpenStore(config.StoreConfig{Backend: config.BackendFile, Path: dir})
	require.NoError(t, err)
	raw, err := plain.Load(ctx, 1)
	require.NoError(t, err)
	assert.NotEqual(t, "secret", raw.Name)
	assert.NotContains(t, raw.Lines, "print")

	back, err := sealed.Load(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "secret", back.Name)
}

func TestParseValues(t *testing.T) {
	values, err := ParseValues([]string{"n=3", "expr=a=b", "empty="})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"n": "3", "expr": "a=b", "empty": ""}, values)

	_, err = ParseValues([]string{"novalue"})
	assert.Error(t, err)
	_, err = ParseValues([]string{"=1"})
	assert.Error(t, err)
}

func TestResolve(t *testing.T) {
	s := memoryStack(t)
	ctx := context.Background()

	alg, err := Resolve(ctx, s.Engine, writeProgram(t, parity))
	require.NoError(t, err)
	assert.Equal(t, "parity", alg.Name)
	assert.Equal(t, int64(0), alg.LocalID)
	require.Len(t, alg.Inputs, 1)

	lib, err := s.Engine.List(ctx)
	require.NoError(t, err)
	want, ok := lib.Find(1)
	require.True(t, ok)
	stored, err := Resolve(ctx, s.Engine, "1")
	require.NoError(t, err)
	assert.Equal(t, want.Name, stored.Name)

	_, err = Resolve(ctx, s.Engine, "999")
	assert.ErrorIs(t, err, domain.ErrAlgorithmNotFound)

	_, err = Resolve(ctx, s.Engine, "no-such-file.delta")
	assert.ErrorContains(t, err, "neither a program file")
}

func TestLoadFile_CompileError(t *testing.T) {
	_, err := LoadFile(writeProgram(t, "if \"x\" {\n"))
	assert.Error(t, err)
}

func TestExecute_HeadlessText(t *testing.T) {
	s := memoryStack(t)
	alg, err := LoadFile(writeProgram(t, parity))
	require.NoError(t, err)

	var out bytes.Buffer
	snap, err := Execute(context.Background(), s.Engine, s.Logger, alg, RunOptions{
		Values:        map[string]string{"n": "3"},
		Headless:      true,
		ShowVariables: true,
		Out:           &out,
	})
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.Equal(t, []string{"odd"}, snap.Output)
	assert.Contains(t, out.String(), "odd\n")
	assert.Contains(t, out.String(), "n = 3\n")
	assert.NotContains(t, out.String(), ">>>", "headless runs print no banner")
}

func TestExecute_InteractivePrompts(t *testing.T) {
	s := memoryStack(t)
	alg, err := LoadFile(writeProgram(t, parity))
	require.NoError(t, err)

	var out bytes.Buffer
	snap, err := Execute(context.Background(), s.Engine, s.Logger, alg, RunOptions{
		In:  strings.NewReader("7\n"),
		Out: &out,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"odd"}, snap.Output)
	assert.Contains(t, out.String(), ">>> Running 'parity'.")
	assert.Contains(t, out.String(), "n [4]: ")
}

func TestExecute_JSON(t *testing.T) {
	s := memoryStack(t)
	alg, err := LoadFile(writeProgram(t, parity))
	require.NoError(t, err)

	var out bytes.Buffer
	_, err = Execute(context.Background(), s.Engine, s.Logger, alg, RunOptions{
		JSON:     true,
		Headless: true,
		Out:      &out,
	})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.JSONEq(t, `{"type":"print","text":"even"}`, lines[0])
	assert.Contains(t, lines[1], `"type":"done"`)
}

// syncBuffer lets the test read output while the watcher writes it.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestRunWatch_RerunsOnChange(t *testing.T) {
	old := WatchInterval
	WatchInterval = 10 * time.Millisecond
	defer func() { WatchInterval = old }()

	s := memoryStack(t)
	path := writeProgram(t, `print "1"`)
	out := &syncBuffer{}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- RunWatch(ctx, s.Engine, s.Logger, path, RunOptions{Out: out}) }()

	assert.Eventually(t, func() bool { return strings.Contains(out.String(), "1\n") }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, os.WriteFile(path, []byte(`print "2 + 3"`), 0o644))
	assert.Eventually(t, func() bool { return strings.Contains(out.String(), "5\n") }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, os.WriteFile(path, []byte("while \"1\" {\n"), 0o644))
	assert.Eventually(t, func() bool { return strings.Contains(out.String(), "Compile error") }, 2*time.Second, 10*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
	assert.Contains(t, out.String(), ">>> Watcher stopped.")
}
