package batch

import (
	"context"
	"sync"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/pmcgrab/internal/errs"
	"github.com/ternarybob/pmcgrab/internal/serialize"
)

// runWorker drains queue until it is closed or ctx is cancelled, running
// the full per-item pipeline for each Item and recording the outcome in
// ledger. One failing item never halts the worker (spec §4.9 "failure
// isolation").
func runWorker(
	ctx context.Context,
	workerID int,
	queue <-chan Item,
	fetch FetchFunc,
	ledger *Ledger,
	stream *serialize.StreamWriter,
	cfg Config,
	sink ProgressSink,
	completedMu *sync.Mutex,
	completed *int64,
	total int,
) {
	logger := cfg.Logger
	if logger != nil {
		logger.Debug().Int("worker_id", workerID).Msg("worker started")
	}
	for {
		select {
		case <-ctx.Done():
			return
		case item, ok := <-queue:
			if !ok {
				return
			}
			processItem(ctx, item, fetch, ledger, stream, cfg, logger, workerID)
			reportProgress(ledger, item.ID, sink, completedMu, completed, total)
		}
	}
}

func processItem(
	ctx context.Context,
	item Item,
	fetch FetchFunc,
	ledger *Ledger,
	stream *serialize.StreamWriter,
	cfg Config,
	logger arbor.ILogger,
	workerID int,
) {
	ledger.Update(item.ID, func(e *Entry) { e.Status = StatusRunning })

	doc, attempts, err := fetch(ctx, item)
	if err != nil {
		kind := errs.KindOf(err)
		if logger != nil {
			logger.Warn().Int("worker_id", workerID).Str("id", item.ID).Str("error_kind", string(kind)).Msg("item fetch failed")
		}
		ledger.Update(item.ID, func(e *Entry) {
			e.Status = StatusFailed
			e.ErrorKind = kind
			e.Attempts = attempts
		})
		return
	}

	var path string
	switch cfg.Format {
	case FormatStream:
		err = stream.WriteDocument(doc)
	default:
		path, err = serialize.WriteItem(cfg.OutputDir, doc)
	}
	if err != nil {
		if logger != nil {
			logger.Error().Int("worker_id", workerID).Str("id", item.ID).Err(err).Msg("item serialize failed")
		}
		ledger.Update(item.ID, func(e *Entry) {
			e.Status = StatusFailed
			e.ErrorKind = errs.IOFailed
			e.Attempts = attempts
		})
		return
	}

	if logger != nil {
		logger.Debug().Int("worker_id", workerID).Str("id", item.ID).Msg("item completed")
	}
	ledger.Update(item.ID, func(e *Entry) {
		e.Status = StatusSucceeded
		e.ArtifactPath = path
		e.Attempts = attempts
	})
}

func reportProgress(ledger *Ledger, id string, sink ProgressSink, mu *sync.Mutex, completed *int64, total int) {
	mu.Lock()
	*completed++
	n := *completed
	mu.Unlock()

	var status Status
	ledger.Update(id, func(e *Entry) { status = e.Status })

	sink.Report(ProgressEvent{
		ID:        id,
		Status:    status,
		Completed: int(n),
		Total:     total,
	})
}
