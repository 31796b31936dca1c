package batch

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/bizforge-hq/bizforge-client/internal/domain"
	"github.com/bizforge-hq/bizforge-client/pkg/bizforge"
	"github.com/bizforge-hq/bizforge-client/pkg/jobs"
	"github.com/bizforge-hq/bizforge-client/pkg/publishers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePublisher records published events and can inject errors.
type fakePublisher struct {
	mu     sync.Mutex
	events []publishers.Event
	err    error
}

func (f *fakePublisher) Publish(_ context.Context, evt publishers.Event) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, evt)
	if f.err != nil {
		return 0, f.err
	}
	return 1, nil
}

func (f *fakePublisher) byJob() map[string]publishers.Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]publishers.Event, len(f.events))
	for _, evt := range f.events {
		out[evt.JobID] = evt
	}
	return out
}

// fakeHistory keeps entries in memory.
type fakeHistory struct {
	mu      sync.Mutex
	entries []domain.HistoryEntry
	err     error
}

func (f *fakeHistory) Record(entry domain.HistoryEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeHistory) byJob() map[string]domain.HistoryEntry {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]domain.HistoryEntry, len(f.entries))
	for _, e := range f.entries {
		out[e.JobID] = e
	}
	return out
}

func newBackend(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/generate-brand":
			_, _ = io.WriteString(w, `{"brand_names":["Leafy","Brewsy"]}`)
		case "/api/save-item":
			var body map[string]any
			_ = json.NewDecoder(r.Body).Decode(&body)
			_, _ = io.WriteString(w, `{"id":7,"item_type":"`+body["item_type"].(string)+`","content":{},"created_at":"2024-05-01T10:00:00"}`)
		case "/api/chat":
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = io.WriteString(w, `{"detail":"model offline"}`)
		case "/api/transcribe-voice":
			file, header, err := r.FormFile("file")
			if err != nil {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = io.WriteString(w, `{"detail":"missing file"}`)
				return
			}
			defer file.Close()
			_, _ = io.WriteString(w, `{"transcription":"hello from `+header.Filename+`"}`)
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"detail":"Not Found"}`)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestService(t *testing.T, pub EventPublisher, hist HistoryRecorder) *Service {
	t.Helper()
	srv := newBackend(t)
	client := bizforge.New(bizforge.WithBaseURL(srv.URL))
	return NewService(client, pub, nil, hist, 2)
}

func TestRunRecordsAndPublishesOutcomes(t *testing.T) {
	pub := &fakePublisher{}
	hist := &fakeHistory{}
	svc := newTestService(t, pub, hist)

	list := []jobs.Job{
		{ID: "brand", Operation: bizforge.OpGenerateBrand, Params: map[string]any{"description": "coffee"}},
		{ID: "save", Operation: bizforge.OpSaveItem, Params: map[string]any{"item_type": "brand", "content": map[string]any{"name": "Leafy"}}},
		{ID: "chat", Operation: bizforge.OpChat, Params: map[string]any{"message": "hi"}},
	}

	sum, err := svc.Run(context.Background(), list)
	require.Error(t, err)
	assert.ErrorIs(t, err, bizforge.ErrStatus)
	assert.Contains(t, err.Error(), "job chat")
	assert.Equal(t, Summary{Total: 3, Succeeded: 2, Failed: 1, Elapsed: sum.Elapsed}, sum)

	entries := hist.byJob()
	require.Len(t, entries, 3)
	assert.Equal(t, http.StatusOK, entries["brand"].StatusCode)
	assert.JSONEq(t, `{"brand_names":["Leafy","Brewsy"]}`, string(entries["brand"].Response))
	assert.JSONEq(t, `{"description":"coffee"}`, string(entries["brand"].Request))
	assert.Equal(t, http.StatusInternalServerError, entries["chat"].StatusCode)
	assert.True(t, entries["chat"].Failed())
	assert.JSONEq(t, `{"detail":"model offline"}`, string(entries["chat"].Response))

	events := pub.byJob()
	require.Len(t, events, 3)
	assert.Equal(t, publishers.EventGenerationCompleted, events["brand"].Type)
	assert.Equal(t, publishers.EventItemSaved, events["save"].Type)
	assert.Equal(t, "brand", events["save"].ItemType)
	assert.Equal(t, publishers.EventGenerationFailed, events["chat"].Type)
	assert.Contains(t, events["chat"].Error, "model offline")
}

func TestRunSinkFailuresDoNotFailJobs(t *testing.T) {
	pub := &fakePublisher{err: errors.New("queue down")}
	hist := &fakeHistory{err: errors.New("disk full")}
	svc := newTestService(t, pub, hist)

	sum, err := svc.Run(context.Background(), []jobs.Job{
		{ID: "brand", Operation: bizforge.OpGenerateBrand, Params: map[string]any{"description": "tea"}},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Succeeded)
	assert.Len(t, pub.events, 1)
}

func TestRunWithoutSinks(t *testing.T) {
	svc := newTestService(t, nil, nil)

	sum, err := svc.Run(context.Background(), []jobs.Job{
		{ID: "saved", Operation: bizforge.OpGetSavedItems},
	})
	require.Error(t, err)
	assert.Equal(t, 1, sum.Failed)
	se, ok := bizforge.AsStatusError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, se.StatusCode)
}

func TestRunTranscribesAudioFile(t *testing.T) {
	hist := &fakeHistory{}
	svc := newTestService(t, nil, hist)

	path := filepath.Join(t.TempDir(), "memo.m4a")
	require.NoError(t, os.WriteFile(path, []byte("audio"), 0o644))

	_, err := svc.Run(context.Background(), []jobs.Job{
		{ID: "voice", Operation: bizforge.OpTranscribeVoice, Params: map[string]any{"file": path}},
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"transcription":"hello from memo.m4a"}`, string(hist.byJob()["voice"].Response))
}

func TestRunCancelledContext(t *testing.T) {
	svc := newTestService(t, nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sum, err := svc.Run(ctx, []jobs.Job{
		{ID: "a", Operation: bizforge.OpGetColors, Params: map[string]any{"description": "x"}},
		{ID: "b", Operation: bizforge.OpGetColors, Params: map[string]any{"description": "y"}},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 2, sum.Failed)
}

func TestRunRejectsEmptyInput(t *testing.T) {
	svc := newTestService(t, nil, nil)
	_, err := svc.Run(context.Background(), nil)
	require.Error(t, err)

	var nilSvc *Service
	_, err = nilSvc.Run(context.Background(), []jobs.Job{{ID: "a"}})
	require.Error(t, err)
}

func TestExecuteUnsupportedOperation(t *testing.T) {
	hist := &fakeHistory{}
	svc := newTestService(t, nil, hist)

	_, err := svc.Execute(context.Background(), jobs.Job{ID: "x", Operation: "request"})
	require.Error(t, err)
	require.Len(t, hist.entries, 1)
	assert.Zero(t, hist.entries[0].StatusCode)
}
