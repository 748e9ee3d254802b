package docvec

import (
	"context"
	"time"
)

// Failure records a single document that could not be indexed.
type Failure struct {
	ID    string `json:"id"`
	Title string `json:"title,omitempty"`
	Error string `json:"error"`
}

// Report is the outcome of indexing a set of documents.
type Report struct {
	RunID     string        `json:"runId"`
	Source    string        `json:"source"`
	Attempted int           `json:"attempted"`
	Succeeded int           `json:"succeeded"`
	Failed    int           `json:"failed"`
	Failures  []Failure     `json:"failures,omitempty"`
	StartedAt time.Time     `json:"startedAt"`
	Duration  time.Duration `json:"duration"`
}

// OK reports whether every attempted document was indexed.
func (r *Report) OK() bool {
	return r.Failed == 0
}

// RunService persists ingestion reports.
type RunService interface {
	// CreateRun stores a report. A missing RunID is generated.
	CreateRun(ctx context.Context, report *Report) error

	// FindRunByID retrieves a report with its failures.
	// Returns ENOTFOUND if the run does not exist.
	FindRunByID(ctx context.Context, id string) (*Report, error)

	// FindRuns retrieves reports matching the filter, newest first.
	// Failures are not loaded.
	FindRuns(ctx context.Context, filter RunFilter) ([]*Report, error)
}

// RunFilter represents a filter for FindRuns.
type RunFilter struct {
	Source *string `json:"source"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}
