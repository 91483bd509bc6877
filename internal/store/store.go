// Package store journals drill attempts in an in-memory SQLite database.
// Nothing outlives the process.
package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/fretdrill/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// memoryDSN keeps the database in process memory. The pool is capped at one
// connection so every query sees the same database.
const memoryDSN = ":memory:"

// Store wraps SQLite access for the attempt journal.
type Store struct {
	db *sql.DB
}

// Open creates an empty in-memory journal and applies the schema.
func Open() (*Store, error) {
	db, err := sql.Open("sqlite", memoryDSN)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database, discarding the journal.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			drill TEXT NOT NULL,
			started_at TEXT NOT NULL,
			ended_at TEXT
		);`,
		`CREATE TABLE IF NOT EXISTS attempts (
			session_id TEXT NOT NULL,
			seq INTEGER NOT NULL,
			at TEXT NOT NULL,
			string INTEGER NOT NULL,
			fret INTEGER NOT NULL,
			target TEXT NOT NULL,
			correct INTEGER NOT NULL,
			resolved INTEGER NOT NULL,
			latency_ms INTEGER NOT NULL,
			PRIMARY KEY (session_id, seq)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_attempts_target ON attempts(target);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// BeginSession registers a session before its first attempt.
func (s *Store) BeginSession(ctx context.Context, summary model.SessionSummary) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (id, drill, started_at) VALUES (?, ?, ?)`,
		summary.ID.String(),
		string(summary.Drill),
		summary.StartedAt.Format(time.RFC3339Nano),
	)
	return err
}

// EndSession stamps the end time of a session.
func (s *Store) EndSession(ctx context.Context, id uuid.UUID, endedAt time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE sessions SET ended_at = ? WHERE id = ?`,
		endedAt.Format(time.RFC3339Nano),
		id.String(),
	)
	return err
}

// RecordAttempt appends one guess or pick.
func (s *Store) RecordAttempt(ctx context.Context, a model.Attempt) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO attempts (session_id, seq, at, string, fret, target, correct, resolved, latency_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.SessionID.String(),
		a.Seq,
		a.At.Format(time.RFC3339Nano),
		a.String,
		a.Fret,
		a.Target.String(),
		boolToInt(a.Correct),
		boolToInt(a.Resolved),
		a.Latency.Milliseconds(),
	)
	return err
}

// ListSessions returns journaled sessions in start order.
func (s *Store) ListSessions(ctx context.Context) ([]model.SessionSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT s.id, s.drill, s.started_at, COALESCE(s.ended_at, ''), COUNT(a.seq)
		 FROM sessions s
		 LEFT JOIN attempts a ON a.session_id = s.id
		 GROUP BY s.id
		 ORDER BY s.started_at ASC`)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var sessions []model.SessionSummary
	for rows.Next() {
		var summary model.SessionSummary
		var id, drill, startedAt, endedAt string
		if err := rows.Scan(&id, &drill, &startedAt, &endedAt, &summary.Attempts); err != nil {
			return nil, err
		}
		if summary.ID, err = uuid.Parse(id); err != nil {
			return nil, err
		}
		summary.Drill = model.DrillKind(drill)
		if summary.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt); err != nil {
			return nil, err
		}
		if endedAt != "" {
			if summary.EndedAt, err = time.Parse(time.RFC3339Nano, endedAt); err != nil {
				return nil, err
			}
		}
		sessions = append(sessions, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sessions, nil
}

// NoteAggregates sums attempts per target note for one session. Latency
// covers resolving attempts only.
func (s *Store) NoteAggregates(ctx context.Context, sessionID uuid.UUID) ([]model.NoteAggregate, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT target, SUM(correct), SUM(1 - correct),
			SUM(CASE WHEN resolved = 1 THEN latency_ms ELSE 0 END), SUM(resolved)
		 FROM attempts
		 WHERE session_id = ?
		 GROUP BY target`,
		sessionID.String())
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.NoteAggregate
	for rows.Next() {
		var agg model.NoteAggregate
		if err := rows.Scan(&agg.Note, &agg.Correct, &agg.Incorrect, &agg.LatencySumMs, &agg.LatencyCount); err != nil {
			return nil, err
		}
		result = append(result, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// ResponseTimes returns the latency of each resolving attempt in order.
func (s *Store) ResponseTimes(ctx context.Context, sessionID uuid.UUID) ([]time.Duration, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT latency_ms FROM attempts
		 WHERE session_id = ? AND resolved = 1
		 ORDER BY seq ASC`,
		sessionID.String())
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var out []time.Duration
	for rows.Next() {
		var ms int64
		if err := rows.Scan(&ms); err != nil {
			return nil, err
		}
		out = append(out, time.Duration(ms)*time.Millisecond)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
