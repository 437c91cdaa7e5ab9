package common

import (
	"github.com/google/uuid"
)

// NewRunID generates a unique batch-run correlation ID with the "run_"
// prefix. cmd/pmcgrab uses it as the context ID of the run's logger
// (logger.WithContextWriter); the summary artifact does not include it.
func NewRunID() string {
	return "run_" + uuid.New().String()
}
