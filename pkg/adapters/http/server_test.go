package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/delta/pkg/adapters/memory"
	"github.com/aretw0/delta/pkg/algorithm"
	"github.com/aretw0/delta/pkg/domain"
	"github.com/aretw0/delta/pkg/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCatalog(t *testing.T) *registry.Registry {
	t.Helper()
	reg := registry.NewRegistry(memory.NewStore())
	var recs []*domain.Record
	for _, a := range algorithm.Defaults() {
		recs = append(recs, a.Record())
	}
	require.NoError(t, reg.Seed(context.Background(), recs...))
	return reg
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestServer_Health(t *testing.T) {
	h := NewHandler(newCatalog(t))
	w := do(t, h, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))

	w = do(t, h, http.MethodGet, "/info", nil)
	assert.Contains(t, w.Body.String(), "delta-http")
}

func TestServer_ListAndGet(t *testing.T) {
	h := NewHandler(newCatalog(t))

	w := do(t, h, http.MethodGet, "/algorithms", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []domain.Record
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 4)
	assert.Empty(t, list[0].Lines)

	w = do(t, h, http.MethodGet, "/algorithms/2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var rec domain.Record
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rec))
	assert.Equal(t, "Fibonacci", rec.Name)
	assert.Contains(t, rec.Lines, "while")

	w = do(t, h, http.MethodGet, "/algorithms/2/check", nil)
	require.Equal(t, http.StatusOK, w.Code)
	rec = domain.Record{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rec))
	assert.Empty(t, rec.Lines)
	assert.False(t, rec.LastUpdate.IsZero())

	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/algorithms/99", nil).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodGet, "/algorithms/abc", nil).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodGet, "/algorithms/0", nil).Code)
}

func TestServer_Upload(t *testing.T) {
	h := NewHandler(newCatalog(t))

	w := do(t, h, http.MethodPost, "/algorithms", domain.Record{Name: "new", Lines: `print "1"`})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var stored domain.Record
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stored))
	assert.Equal(t, int64(5), stored.RemoteID)

	w = do(t, h, http.MethodPut, "/algorithms/5", domain.Record{Name: "renamed", Lines: `print "2"`})
	require.Equal(t, http.StatusOK, w.Code)
	stored = domain.Record{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stored))
	assert.Equal(t, int64(5), stored.RemoteID)
	assert.Equal(t, "renamed", stored.Name)

	w = do(t, h, http.MethodPost, "/algorithms", domain.Record{Name: "broken", Lines: `if "x" {`})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	req := httptest.NewRequest(http.MethodPost, "/algorithms", strings.NewReader("{"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_Lines(t *testing.T) {
	h := NewHandler(newCatalog(t))

	w := do(t, h, http.MethodGet, "/algorithms/1/lines", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var lines LinesResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &lines))

	alg := algorithm.Defaults()[0]
	assert.Len(t, lines.Lines, alg.EditorLinesCount())
	assert.Len(t, lines.Settings, 2, "downloaded algorithms have no cloud line")
}

func TestServer_Run(t *testing.T) {
	h := NewHandler(newCatalog(t))

	w := do(t, h, http.MethodPost, "/algorithms/1/run", RunRequest{Values: map[string]string{"n": "7"}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var snap domain.Snapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	assert.Equal(t, []string{"odd"}, snap.Output)
	assert.Equal(t, "7", snap.Variables["n"])
	assert.True(t, snap.Finished)

	req := httptest.NewRequest(http.MethodPost, "/algorithms/1/run", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	snap = domain.Snapshot{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	assert.Equal(t, []string{"even"}, snap.Output, "defaults apply without a body")

	w = do(t, h, http.MethodPost, "/algorithms/1/run", RunRequest{Values: map[string]string{"n": "\x00"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestServer_RunTimeout(t *testing.T) {
	reg := newCatalog(t)
	_, err := reg.Upload(context.Background(), &domain.Record{
		Name:  "forever",
		Lines: "while \"1 = 1\" {\n    set \"i\" to \"1\"\n}",
	})
	require.NoError(t, err)

	h := NewHandler(reg, WithRunTimeout(50*time.Millisecond))
	w := do(t, h, http.MethodPost, "/algorithms/5/run", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var snap domain.Snapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	assert.True(t, snap.Cancelled)
}

func TestServer_Executor(t *testing.T) {
	var called bool
	exec := func(ctx context.Context, alg *algorithm.Algorithm, values map[string]string, opts ...domain.ProcessOption) (*domain.Process, error) {
		called = true
		return alg.Run(values, nil, opts...), nil
	}
	h := NewHandler(newCatalog(t), WithExecutor(exec))
	require.Equal(t, http.StatusOK, do(t, h, http.MethodPost, "/algorithms/4/run", nil).Code)
	assert.True(t, called)
}

func TestServer_Metrics(t *testing.T) {
	metrics := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("delta_runs_total 0\n"))
	})
	assert.Equal(t, http.StatusNotFound, do(t, NewHandler(newCatalog(t)), http.MethodGet, "/metrics", nil).Code)

	w := do(t, NewHandler(newCatalog(t), WithMetrics(metrics)), http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "delta_runs_total")
}

func TestSubscribeEvents(t *testing.T) {
	s := &Server{}
	h := NewHandler(newCatalog(t), func(srv *Server) { s = srv })

	wSub := httptest.NewRecorder()
	reqSub := httptest.NewRequest(http.MethodGet, "/events", nil)
	done := make(chan struct{})
	go func() {
		defer close(done)
		h.ServeHTTP(wSub, reqSub)
	}()

	require.Eventually(t, func() bool { return s.Streams.Subscribers() == 1 }, time.Second, 5*time.Millisecond)

	w := do(t, h, http.MethodPost, "/algorithms", domain.Record{Name: "announced", Lines: `print "1"`})
	require.Equal(t, http.StatusCreated, w.Code)

	s.Streams.Close()
	<-done

	output := wSub.Body.String()
	assert.Contains(t, output, "event: ping")
	assert.Contains(t, output, `"name":"announced"`)
	assert.Contains(t, output, `"type":"published"`)
}

func TestStreamManager_DropsWhenFull(t *testing.T) {
	sm := NewStreamManager()
	ch, unsubscribe := sm.Subscribe()
	for i := 0; i < 20; i++ {
		sm.Broadcast("x")
	}
	assert.Len(t, ch, 10)
	unsubscribe()
	unsubscribe()
	assert.Zero(t, sm.Subscribers())
}
