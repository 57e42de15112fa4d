package synonym

import (
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/synonym-backend/internal/format"
)

// ImportError describes one grouped item that could not be reconciled.
// Reason is safe to show to users; Err keeps the full cause for logs.
type ImportError struct {
	Word     string
	Synonyms []string
	Reason   string
	Err      error
}

// ImportResult reports the outcome of one import run. Every grouped item
// ends up in exactly one of Succeeded or Failed.
type ImportResult struct {
	Succeeded []uuid.UUID
	Failed    []ImportError
	Created   int
	Updated   int
	Warnings  []format.ParseWarning
	// Batched is true when the run went through the job runner.
	Batched bool
}

// Total returns the number of grouped items processed.
func (r *ImportResult) Total() int {
	return len(r.Succeeded) + len(r.Failed)
}

// ExportResult holds a rendered export.
type ExportResult struct {
	Plugin      string
	Payload     []byte
	ContentType string
	Count       int
	ExportedAt  time.Time
}
