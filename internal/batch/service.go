// Package batch runs jobs through the BizForge client and reports their
// outcomes to the history journal and the configured publishers.
package batch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/bizforge-hq/bizforge-client/internal/domain"
	"github.com/bizforge-hq/bizforge-client/internal/logger"
	"github.com/bizforge-hq/bizforge-client/pkg/bizforge"
	"github.com/bizforge-hq/bizforge-client/pkg/jobs"
	"github.com/bizforge-hq/bizforge-client/pkg/publishers"
)

const defaultWorkers = 4

// Service coordinates job execution across a fixed worker pool.
type Service struct {
	client    *bizforge.Client
	publisher EventPublisher
	history   HistoryRecorder
	workers   int
	log       logger.Logger
}

// Summary counts job outcomes for one Run.
type Summary struct {
	Total     int           `json:"total"`
	Succeeded int           `json:"succeeded"`
	Failed    int           `json:"failed"`
	Elapsed   time.Duration `json:"elapsed"`
}

// Call describes one finished client call.
type Call struct {
	JobID     string
	Operation string
	ItemType  string
	Request   any
	Response  any
	Err       error
}

// NewService wires the batch runner. publisher and history may be nil.
func NewService(client *bizforge.Client, publisher EventPublisher, log logger.Logger, history HistoryRecorder, workers int) *Service {
	if log == nil {
		log = &logger.NopLogger{}
	}
	if workers <= 0 {
		workers = defaultWorkers
	}
	return &Service{
		client:    client,
		publisher: publisher,
		history:   history,
		workers:   workers,
		log:       log,
	}
}

// Run executes every job and joins the per-job errors in job order.
func (s *Service) Run(ctx context.Context, list []jobs.Job) (Summary, error) {
	if s == nil || s.client == nil {
		return Summary{}, fmt.Errorf("batch service is not initialized")
	}
	if len(list) == 0 {
		return Summary{}, fmt.Errorf("no jobs to run")
	}

	start := time.Now()
	errs := make([]error, len(list))

	workers := s.workers
	if workers > len(list) {
		workers = len(list)
	}

	queue := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range queue {
				errs[i] = s.runJob(ctx, list[i])
			}
		}()
	}

	for i := range list {
		queue <- i
	}
	close(queue)
	wg.Wait()

	sum := Summary{Total: len(list), Elapsed: time.Since(start)}
	for _, err := range errs {
		if err != nil {
			sum.Failed++
		} else {
			sum.Succeeded++
		}
	}

	s.log.InfoObj("batch completed", "batch_summary", map[string]any{
		"total":      sum.Total,
		"succeeded":  sum.Succeeded,
		"failed":     sum.Failed,
		"workers":    workers,
		"elapsed_ms": sum.Elapsed.Milliseconds(),
	})

	return sum, errors.Join(errs...)
}

func (s *Service) runJob(ctx context.Context, job jobs.Job) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("job %s: %w", job.ID, err)
	}
	if _, err := s.Execute(ctx, job); err != nil {
		return fmt.Errorf("job %s (%s): %w", job.ID, job.Operation, err)
	}
	return nil
}

// Execute runs a single job and tracks its outcome.
func (s *Service) Execute(ctx context.Context, job jobs.Job) (any, error) {
	resp, err := s.dispatch(ctx, job)
	s.Track(ctx, Call{
		JobID:     job.ID,
		Operation: job.Operation,
		ItemType:  job.String("item_type", ""),
		Request:   job.Params,
		Response:  resp,
		Err:       err,
	})
	return resp, err
}

// Track journals the call and publishes the matching event. Failures in
// either sink are logged and never change the call outcome.
func (s *Service) Track(ctx context.Context, call Call) {
	if s == nil {
		return
	}

	entry := historyEntry(call)
	if s.history != nil {
		if err := s.history.Record(entry); err != nil {
			s.log.WarnObj("history record failed", "history_error", map[string]any{
				"operation": call.Operation,
				"job_id":    call.JobID,
				"error":     err.Error(),
			})
		}
	}

	if s.publisher != nil {
		evt := eventFor(call, entry)
		if _, err := s.publisher.Publish(ctx, evt); err != nil {
			s.log.WarnObj("event publish failed", "publish_error", map[string]any{
				"operation":  call.Operation,
				"event_type": evt.Type,
				"error":      err.Error(),
			})
		}
	}

	fields := map[string]any{
		"operation":   call.Operation,
		"job_id":      call.JobID,
		"status_code": entry.StatusCode,
	}
	if call.Err != nil {
		fields["error"] = call.Err.Error()
		s.log.ErrorObj("call failed", "call_result", fields)
		return
	}
	s.log.DebugObj("call completed", "call_result", fields)
}

func historyEntry(call Call) domain.HistoryEntry {
	entry := domain.HistoryEntry{
		Operation:  call.Operation,
		JobID:      call.JobID,
		Request:    rawJSON(call.Request),
		Response:   rawJSON(call.Response),
		RecordedAt: time.Now().UTC(),
	}
	if call.Err == nil {
		entry.StatusCode = http.StatusOK
		return entry
	}

	entry.Error = call.Err.Error()
	if se, ok := bizforge.AsStatusError(call.Err); ok {
		entry.StatusCode = se.StatusCode
		if json.Valid(se.Body) {
			entry.Response = json.RawMessage(se.Body)
		}
	}
	return entry
}

func eventFor(call Call, entry domain.HistoryEntry) publishers.Event {
	typ := publishers.EventGenerationCompleted
	switch {
	case call.Err != nil:
		typ = publishers.EventGenerationFailed
	case call.Operation == bizforge.OpSaveItem:
		typ = publishers.EventItemSaved
	}

	evt := publishers.NewEvent(typ, call.Operation)
	evt.JobID = call.JobID
	evt.ItemType = call.ItemType
	evt.Request = entry.Request
	evt.Response = entry.Response
	evt.StatusCode = entry.StatusCode
	evt.Error = entry.Error
	return evt
}

func rawJSON(v any) json.RawMessage {
	switch t := v.(type) {
	case nil:
		return nil
	case json.RawMessage:
		return t
	case *bizforge.Result:
		if t == nil {
			return nil
		}
		return t.Body
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	if string(raw) == "null" {
		return nil
	}
	return raw
}
