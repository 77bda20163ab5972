package quiz

import (
	"context"
	"database/sql"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore persists the attempt history. It implements
// HistoryRepository and outlives any single session.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		path = "trivia.db"
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`PRAGMA busy_timeout = 5000;`); err != nil {
		_ = db.Close()
		return nil, err
	}

	store := &SQLiteStore{db: db}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) initSchema(ctx context.Context) error {
	// The history is a flat append-only list; the rowid doubles as
	// insertion order.
	statements := []string{
		`CREATE TABLE IF NOT EXISTS attempts (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			recorded_at TEXT NOT NULL,
			score INTEGER NOT NULL,
			total INTEGER NOT NULL,
			percentage INTEGER NOT NULL
		);`,
	}

	for _, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteStore) Append(ctx context.Context, record AttemptRecord) error {
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO attempts (recorded_at, score, total, percentage) VALUES (?, ?, ?, ?)`,
		record.Timestamp,
		record.Score,
		record.Total,
		record.Percentage,
	)
	return err
}

func (s *SQLiteStore) List(ctx context.Context, limit int) ([]AttemptRecord, error) {
	if limit <= 0 {
		// Negative LIMIT means no limit in SQLite.
		limit = -1
	}

	rows, err := s.db.QueryContext(
		ctx,
		`SELECT recorded_at, score, total, percentage
		 FROM attempts
		 ORDER BY id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]AttemptRecord, 0)
	for rows.Next() {
		var record AttemptRecord
		if err := rows.Scan(&record.Timestamp, &record.Score, &record.Total, &record.Percentage); err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	return records, rows.Err()
}

func (s *SQLiteStore) Clear(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM attempts`)
	return err
}
