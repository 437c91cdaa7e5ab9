package serialize

import (
	"bufio"
	"fmt"
	"io"
	"sync"

	"github.com/ternarybob/pmcgrab/internal/models"
)

// StreamWriter implements stream mode: one compact-JSON artifact per
// line, all Documents in one file (spec §4.8). Safe for concurrent use
// by multiple orchestrator workers; each WriteDocument call serializes
// and appends a single line atomically under a lock so lines from
// different workers never interleave.
type StreamWriter struct {
	mu  sync.Mutex
	out *bufio.Writer
}

func NewStreamWriter(w io.Writer) *StreamWriter {
	return &StreamWriter{out: bufio.NewWriter(w)}
}

// WriteDocument appends one Document as a single JSON line.
func (s *StreamWriter) WriteDocument(d *models.Document) error {
	data, err := Marshal(FromDocument(d), false)
	if err != nil {
		return fmt.Errorf("serialize: marshal %s: %w", d.PMCID, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.out.Write(data); err != nil {
		return fmt.Errorf("serialize: write %s: %w", d.PMCID, err)
	}
	return nil
}

// Flush flushes any buffered output to the underlying writer. Callers
// must call Flush once all workers have finished writing.
func (s *StreamWriter) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.out.Flush()
}
