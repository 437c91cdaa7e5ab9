// Package batch implements the Batch Orchestrator (C9): a bounded worker
// pool that fans the per-item pipeline out across workers, preserves
// input order in its result ledger, isolates per-item failure, and
// reports progress and a final summary artifact.
package batch

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/pmcgrab/internal/common"
	"github.com/ternarybob/pmcgrab/internal/models"
	"github.com/ternarybob/pmcgrab/internal/serialize"
)

// Format selects the Serializer's output mode (spec §4.8).
type Format string

const (
	FormatPerItem Format = "per-item"
	FormatStream  Format = "stream"
)

// FetchFunc runs the full per-item pipeline (acquire bytes, parse,
// assemble) for one Item, returning the attempt count C3 spent on it.
// The orchestrator is agnostic to whether acquisition is a remote NCBI
// fetch or a local file read; main wires the concrete implementation.
type FetchFunc func(ctx context.Context, item Item) (doc *models.Document, attempts int, err error)

// Config controls one orchestrator run.
type Config struct {
	Workers      int // default 10, spec §4.9
	OutputDir    string
	Format       Format
	StreamWriter io.Writer // required when Format == FormatStream
	Sink         ProgressSink
	Logger       arbor.ILogger
}

const DefaultWorkers = 10

// Summary is the artifact written on batch completion (spec §6).
type Summary struct {
	TotalRequested int                 `json:"total_requested"`
	Successful     int                 `json:"successful"`
	Failed         int                 `json:"failed"`
	ErrorCounts    map[string]int      `json:"error_counts"`
	ElapsedSeconds float64             `json:"elapsed_seconds"`
	FailedItems    []FailedItem        `json:"failed_items"`
}

// FailedItem is one entry of the summary's failed-items list.
type FailedItem struct {
	ID            string `json:"id"`
	LastErrorKind string `json:"last_error_kind"`
	Attempts      int    `json:"attempts"`
}

// Run executes the batch: deduplicates items, fans them out across
// Config.Workers bounded workers, and returns the ledger plus the
// completion summary. Run blocks until every item has reached a
// terminal state or ctx is cancelled, in which case in-flight items are
// drained and Run returns partial results (spec §4.9's cancellation
// property) rather than an error — a cancelled batch is not a failed
// call, it is a batch whose ledger has fewer SUCCEEDED entries.
func Run(ctx context.Context, items []Item, fetch FetchFunc, cfg Config) (*Ledger, *Summary, error) {
	items = DedupPreserveOrder(items)
	ledger := NewLedger(items)

	workers := cfg.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}
	sink := cfg.Sink
	if sink == nil {
		sink = DiscardSink{}
	}

	var stream *serialize.StreamWriter
	if cfg.Format == FormatStream {
		stream = serialize.NewStreamWriter(cfg.StreamWriter)
	}

	// Bounded queue: the channel buffer is the back-pressure bound (spec
	// §4.9 "work items are drawn from a bounded queue; producers block
	// when the queue is full"). A buffer of one batch-worth of workers
	// keeps the producer close behind the consumers without unbounded
	// buffering.
	queue := make(chan Item, workers)
	var completed int64
	var completedMu sync.Mutex
	total := len(items)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		workerID := i
		// A panic in one worker must not take down the whole batch run
		// (spec §4.9 failure isolation): route through SafeGo so it is
		// recovered, logged, and the worker slot simply stops producing
		// rather than crashing the process.
		common.SafeGo(cfg.Logger, "batch-worker", func() {
			defer wg.Done()
			runWorker(ctx, workerID, queue, fetch, ledger, stream, cfg, sink, &completedMu, &completed, total)
		})
	}

	start := time.Now()
producer:
	for _, it := range items {
		select {
		case queue <- it:
		case <-ctx.Done():
			break producer
		}
	}
	close(queue)
	wg.Wait()

	if stream != nil {
		if err := stream.Flush(); err != nil {
			return ledger, nil, err
		}
	}

	summary := buildSummary(ledger, total, time.Since(start))
	return ledger, summary, nil
}

func buildSummary(ledger *Ledger, total int, elapsed time.Duration) *Summary {
	s := &Summary{
		TotalRequested: total,
		ErrorCounts:    make(map[string]int),
		ElapsedSeconds: elapsed.Seconds(),
		FailedItems:    []FailedItem{},
	}
	for _, e := range ledger.Snapshot() {
		switch e.Status {
		case StatusSucceeded:
			s.Successful++
		case StatusFailed:
			s.Failed++
			s.ErrorCounts[string(e.ErrorKind)]++
			s.FailedItems = append(s.FailedItems, FailedItem{
				ID:            e.ID,
				LastErrorKind: string(e.ErrorKind),
				Attempts:      e.Attempts,
			})
		}
	}
	return s
}
