package publishers

import (
	"context"
	"errors"
	"testing"
)

type stubPublisher struct {
	id     string
	typ    string
	err    error
	calls  int
	closed bool
}

func (s *stubPublisher) ID() string   { return s.id }
func (s *stubPublisher) Type() string { return s.typ }
func (s *stubPublisher) Publish(context.Context, Event) error {
	s.calls++
	return s.err
}
func (s *stubPublisher) Close() error {
	s.closed = true
	return nil
}

func TestFanoutPublishAggregatesErrors(t *testing.T) {
	fanout := NewFanout([]Publisher{
		&stubPublisher{id: "ok", typ: "http"},
		&stubPublisher{id: "bad", typ: "http", err: errors.New("failed")},
		nil,
	})

	if fanout.Size() != 2 {
		t.Fatalf("expected nil publishers to be skipped, size=%d", fanout.Size())
	}
	count, err := fanout.Publish(context.Background(), Event{})
	if count != 1 {
		t.Fatalf("expected 1 success, got %d", count)
	}
	if err == nil {
		t.Fatalf("expected aggregated error")
	}
}

func TestNilFanoutIsInert(t *testing.T) {
	var fanout *Fanout
	count, err := fanout.Publish(context.Background(), Event{})
	if count != 0 || err != nil {
		t.Fatalf("expected no-op, got %d, %v", count, err)
	}
	if err := fanout.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestBuildAllWithDefaultRegistry(t *testing.T) {
	reg := DefaultRegistry()
	pubs, err := BuildAll(context.Background(), reg, []PublisherConfig{
		{ID: "http", Type: TypeHTTP, HTTP: &HTTPPublisherConfig{URL: "https://example.com"}},
	}, nil)
	if err != nil {
		t.Fatalf("BuildAll: %v", err)
	}
	if len(pubs) != 1 {
		t.Fatalf("expected 1 publisher, got %d", len(pubs))
	}
}

func TestBuildAllUnknownType(t *testing.T) {
	_, err := BuildAll(context.Background(), DefaultRegistry(), []PublisherConfig{
		{ID: "x", Type: "kafka"},
	}, nil)
	if err == nil {
		t.Fatalf("expected error for unregistered type")
	}
}

func TestBuildAllFiltersEvents(t *testing.T) {
	stub := &stubPublisher{id: "saved-only", typ: "stub"}
	reg := NewRegistry(map[string]Builder{
		"stub": func(context.Context, PublisherConfig, Logger) (Publisher, error) { return stub, nil },
	})

	pubs, err := BuildAll(context.Background(), reg, []PublisherConfig{
		{ID: "saved-only", Type: "stub", Events: []string{EventItemSaved}},
	}, nil)
	if err != nil {
		t.Fatalf("BuildAll: %v", err)
	}

	fanout := NewFanout(pubs)
	ctx := context.Background()
	if _, err := fanout.Publish(ctx, NewEvent(EventGenerationCompleted, "chat")); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if _, err := fanout.Publish(ctx, NewEvent(EventItemSaved, "save-item")); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if stub.calls != 1 {
		t.Fatalf("expected only item_saved to be delivered, calls=%d", stub.calls)
	}

	if err := fanout.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !stub.closed {
		t.Fatalf("expected Close to reach the wrapped publisher")
	}
}
