package domain

import "time"

// Backend identifies this implementation in metrics, run records and the
// health payload. Peer implementations of the same API wrote "java" and
// "python" into the shared runs table.
const Backend = "go"

// Run statuses.
const (
	RunStatusOK    = "ok"
	RunStatusError = "error"
)

// Run is one persisted query attempt. Rows are append-only: never updated
// or deleted by this pipeline.
type Run struct {
	ID             string
	CreatedAt      time.Time
	Backend        string
	Query          string
	TopK           int
	LatencyMS      int64
	RetrievedCount int
	Status         string
	ErrorCode      string
	ErrorMessage   string
}
