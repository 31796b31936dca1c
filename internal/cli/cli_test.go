package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/bizforge-hq/bizforge-client/internal/batch"
	"github.com/bizforge-hq/bizforge-client/internal/domain"
	"github.com/bizforge-hq/bizforge-client/pkg/bizforge"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRuntime struct {
	client *bizforge.Client

	mu      sync.Mutex
	calls   []batch.Call
	batches []string
	history []domain.HistoryEntry
}

func (f *fakeRuntime) Client() *bizforge.Client { return f.client }

func (f *fakeRuntime) Track(_ context.Context, call batch.Call) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeRuntime) RunBatch(_ context.Context, path string) (batch.Summary, error) {
	f.batches = append(f.batches, path)
	return batch.Summary{Total: 2, Succeeded: 2}, nil
}

func (f *fakeRuntime) History(limit int) ([]domain.HistoryEntry, error) {
	if limit < len(f.history) {
		return f.history[:limit], nil
	}
	return f.history, nil
}

type capturedRequest struct {
	Method string
	Path   string
	Header http.Header
	Body   map[string]any
}

func newTestRuntime(t *testing.T, status int, reply string) (*fakeRuntime, *[]capturedRequest) {
	t.Helper()
	var (
		mu   sync.Mutex
		reqs []capturedRequest
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured := capturedRequest{Method: r.Method, Path: r.URL.Path, Header: r.Header.Clone()}
		if r.Header.Get("Content-Type") == "application/json" {
			_ = json.NewDecoder(r.Body).Decode(&captured.Body)
		}
		mu.Lock()
		reqs = append(reqs, captured)
		mu.Unlock()
		w.WriteHeader(status)
		_, _ = io.WriteString(w, reply)
	}))
	t.Cleanup(srv.Close)
	return &fakeRuntime{client: bizforge.New(bizforge.WithBaseURL(srv.URL))}, &reqs
}

func execute(t *testing.T, rt Runtime, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCommand(rt, &out)
	cmd.SetArgs(args)
	cmd.SetErr(io.Discard)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestBrandCommand(t *testing.T) {
	rt, reqs := newTestRuntime(t, http.StatusOK, `{"brand_names":["Leafy"]}`)

	out, err := execute(t, rt, "brand", "-d", "coffee", "-k", "green,bean", "--compact")
	require.NoError(t, err)
	assert.JSONEq(t, `{"brand_names":["Leafy"]}`, out)

	require.Len(t, *reqs, 1)
	got := (*reqs)[0]
	assert.Equal(t, http.MethodPost, got.Method)
	assert.Equal(t, "/api/generate-brand", got.Path)
	assert.Equal(t, "coffee", got.Body["description"])
	assert.Equal(t, []any{"green", "bean"}, got.Body["keywords"])

	require.Len(t, rt.calls, 1)
	assert.Equal(t, bizforge.OpGenerateBrand, rt.calls[0].Operation)
	assert.NoError(t, rt.calls[0].Err)
}

func TestSaveCommandSendsItemType(t *testing.T) {
	rt, reqs := newTestRuntime(t, http.StatusOK, `{"id":1,"item_type":"brand","content":{"name":"Leafy"},"created_at":"2024-05-01T10:00:00"}`)

	_, err := execute(t, rt, "save", "--type", "brand", "--content", `{"name":"Leafy"}`)
	require.NoError(t, err)

	got := (*reqs)[0]
	assert.Equal(t, "/api/save-item", got.Path)
	assert.Equal(t, "brand", got.Body["item_type"])
	assert.Equal(t, map[string]any{"name": "Leafy"}, got.Body["content"])
	assert.Equal(t, "brand", rt.calls[0].ItemType)
}

func TestSaveCommandPlainStringContent(t *testing.T) {
	rt, reqs := newTestRuntime(t, http.StatusOK, `{"id":2,"item_type":"tagline","content":"Brew better","created_at":null}`)

	_, err := execute(t, rt, "save", "-t", "tagline", "-c", "Brew better")
	require.NoError(t, err)
	assert.Equal(t, "Brew better", (*reqs)[0].Body["content"])
}

func TestSavedCommandUsesGet(t *testing.T) {
	rt, reqs := newTestRuntime(t, http.StatusOK, `[]`)

	out, err := execute(t, rt, "saved", "--compact")
	require.NoError(t, err)
	assert.Equal(t, "[]\n", out)
	assert.Equal(t, http.MethodGet, (*reqs)[0].Method)
	assert.Equal(t, "/api/saved-items", (*reqs)[0].Path)
}

func TestCommandReportsStatusErrors(t *testing.T) {
	rt, _ := newTestRuntime(t, http.StatusUnprocessableEntity, `{"detail":"description is required"}`)

	_, err := execute(t, rt, "colors", "-d", "x")
	require.Error(t, err)
	assert.ErrorIs(t, err, bizforge.ErrStatus)
	require.Len(t, rt.calls, 1)
	assert.Error(t, rt.calls[0].Err)
}

func TestChatCommandDefaultsHistory(t *testing.T) {
	rt, reqs := newTestRuntime(t, http.StatusOK, `{"reply":"hello"}`)

	_, err := execute(t, rt, "chat", "-m", "hi")
	require.NoError(t, err)
	assert.Equal(t, []any{}, (*reqs)[0].Body["history"])
}

func TestChatCommandLoadsHistoryFile(t *testing.T) {
	rt, reqs := newTestRuntime(t, http.StatusOK, `{"reply":"sure"}`)
	path := filepath.Join(t.TempDir(), "history.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"role":"user","content":"hi"},{"role":"assistant","content":"hello"}]`), 0o644))

	_, err := execute(t, rt, "chat", "-m", "next", "--history", path)
	require.NoError(t, err)
	history, ok := (*reqs)[0].Body["history"].([]any)
	require.True(t, ok)
	assert.Len(t, history, 2)
}

func TestTranscribeCommand(t *testing.T) {
	rt, reqs := newTestRuntime(t, http.StatusOK, `{"transcription":"hello"}`)
	path := filepath.Join(t.TempDir(), "memo.m4a")
	require.NoError(t, os.WriteFile(path, []byte("audio"), 0o644))

	out, err := execute(t, rt, "transcribe", path, "--compact")
	require.NoError(t, err)
	assert.JSONEq(t, `{"transcription":"hello"}`, out)
	assert.Equal(t, "/api/transcribe-voice", (*reqs)[0].Path)
	assert.Contains(t, (*reqs)[0].Header.Get("Content-Type"), "multipart/form-data")
}

func TestRequestCommandPassesThroughErrorBodies(t *testing.T) {
	rt, reqs := newTestRuntime(t, http.StatusInternalServerError, `{"error":"boom"}`)

	out, err := execute(t, rt, "request", "/custom/path", "-X", "post", "-d", `{"a":1}`, "-H", "X-Trace=abc", "--compact")
	require.NoError(t, err)
	assert.JSONEq(t, `{"error":"boom"}`, out)

	got := (*reqs)[0]
	assert.Equal(t, http.MethodPost, got.Method)
	assert.Equal(t, "/custom/path", got.Path)
	assert.Equal(t, "abc", got.Header.Get("X-Trace"))
	assert.Equal(t, float64(1), got.Body["a"])
	assert.Empty(t, rt.calls)

	_, err = execute(t, rt, "request", "/custom/path", "--fail")
	assert.ErrorIs(t, err, bizforge.ErrStatus)
}

func TestRequestCommandRejectsInvalidData(t *testing.T) {
	rt, reqs := newTestRuntime(t, http.StatusOK, `{}`)

	_, err := execute(t, rt, "request", "/api/x", "-d", "{nope")
	require.Error(t, err)
	assert.Empty(t, *reqs)
}

func TestBatchCommandPrintsSummary(t *testing.T) {
	rt, _ := newTestRuntime(t, http.StatusOK, `{}`)

	out, err := execute(t, rt, "batch", "jobs.yaml", "--compact")
	require.NoError(t, err)
	assert.Equal(t, []string{"jobs.yaml"}, rt.batches)

	var sum batch.Summary
	require.NoError(t, json.Unmarshal([]byte(out), &sum))
	assert.Equal(t, 2, sum.Succeeded)
}

func TestHistoryCommandHonorsLimit(t *testing.T) {
	rt, _ := newTestRuntime(t, http.StatusOK, `{}`)
	rt.history = []domain.HistoryEntry{
		{ID: "2", Operation: bizforge.OpChat},
		{ID: "1", Operation: bizforge.OpSaveItem},
	}

	out, err := execute(t, rt, "history", "-n", "1")
	require.NoError(t, err)

	var entries []domain.HistoryEntry
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "2", entries[0].ID)
}

func TestRequiredFlags(t *testing.T) {
	rt, reqs := newTestRuntime(t, http.StatusOK, `{}`)

	_, err := execute(t, rt, "brand")
	require.Error(t, err)
	assert.Empty(t, *reqs)
}
