package batch

import (
	"context"

	"github.com/bizforge-hq/bizforge-client/internal/domain"
	"github.com/bizforge-hq/bizforge-client/pkg/publishers"
)

// EventPublisher publishes call outcomes downstream.
type EventPublisher interface {
	Publish(ctx context.Context, evt publishers.Event) (int, error)
}

// HistoryRecorder journals completed calls.
type HistoryRecorder interface {
	Record(entry domain.HistoryEntry) error
}
