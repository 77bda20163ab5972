package quiz

import "context"

// AttemptRecord is the persisted summary of one completed session. It is
// written exactly once, when the session finishes, and never updated.
type AttemptRecord struct {
	Timestamp  string `json:"timestamp"`
	Score      int    `json:"score"`
	Total      int    `json:"total"`
	Percentage int    `json:"percentage"`
}

// HistoryRepository is the append-only store of past attempts. List returns
// records most-recent-first; limit <= 0 means all records.
type HistoryRepository interface {
	Append(ctx context.Context, record AttemptRecord) error
	List(ctx context.Context, limit int) ([]AttemptRecord, error)
	Clear(ctx context.Context) error
}
