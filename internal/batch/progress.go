package batch

// ProgressEvent is the opaque record pushed to the caller's sink after
// each item completes (spec §4.9).
type ProgressEvent struct {
	ID        string
	Status    Status
	Completed int
	Total     int
}

// ProgressSink receives one ProgressEvent per completed item. Implementations
// must not block significantly; a slow sink throttles every worker.
type ProgressSink interface {
	Report(ProgressEvent)
}

// DiscardSink implements ProgressSink by dropping every event.
type DiscardSink struct{}

func (DiscardSink) Report(ProgressEvent) {}

// SinkFunc adapts a plain function to ProgressSink.
type SinkFunc func(ProgressEvent)

func (f SinkFunc) Report(e ProgressEvent) { f(e) }
