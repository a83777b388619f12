package status

import (
	"time"

	"github.com/google/uuid"
)

// Outcome is the result of a scraper run.
type Outcome string

const (
	// OutcomeSuccess means the run completed and produced output.
	OutcomeSuccess Outcome = "success"

	// OutcomeFailure means the run aborted before producing complete
	// output.
	OutcomeFailure Outcome = "failure"
)

// Valid reports whether o is a known outcome.
func (o Outcome) Valid() bool {
	return o == OutcomeSuccess || o == OutcomeFailure
}

// Run is one scraper run for one jurisdiction.
type Run struct {
	ID           uuid.UUID `db:"id"`
	Jurisdiction string    `db:"jurisdiction"`
	Outcome      Outcome   `db:"outcome"`
	Detail       string    `db:"detail"`
	StartedAt    time.Time `db:"started_at"`
	FinishedAt   time.Time `db:"finished_at"`
}
