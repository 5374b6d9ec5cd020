package progress

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const timeLayout = "2006-01-02 15:04:05"

// SQLiteStore persists outcomes in a local sqlite database. Besides the
// latest outcome per exercise it keeps an attempt history keyed by a
// per-process session id.
type SQLiteStore struct {
	db        *sql.DB
	sessionID string
}

// OpenStore opens (creating if needed) the database at path and ensures the
// schema exists.
func OpenStore(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	s := &SQLiteStore{db: db, sessionID: uuid.NewString()}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) ensureSchema() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS exercise_progress (
			package TEXT PRIMARY KEY,
			outcome TEXT NOT NULL,
			updated_ts TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS attempts (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL,
			package TEXT NOT NULL,
			outcome TEXT NOT NULL,
			attempt_ts TEXT NOT NULL DEFAULT (datetime('now'))
		);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// Load returns the latest persisted outcome per exercise.
func (s *SQLiteStore) Load() (map[string]Outcome, error) {
	rows, err := s.db.Query(`SELECT package, outcome FROM exercise_progress`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]Outcome)
	for rows.Next() {
		var pkg, raw string
		if err := rows.Scan(&pkg, &raw); err != nil {
			return nil, err
		}
		out[pkg] = parseOutcome(raw)
	}
	return out, rows.Err()
}

// Save upserts the latest outcome for pkg and appends to the attempt
// history. Skip and NotRun are state, not attempts, so only Pass and Fail
// are recorded in the history.
func (s *SQLiteStore) Save(pkg string, outcome Outcome) error {
	now := time.Now().UTC().Format(timeLayout)
	_, err := s.db.Exec(`
		INSERT INTO exercise_progress(package, outcome, updated_ts)
		VALUES(?, ?, ?)
		ON CONFLICT(package) DO UPDATE SET
			outcome = excluded.outcome,
			updated_ts = excluded.updated_ts
	`, pkg, outcome.String(), now)
	if err != nil {
		return err
	}
	if outcome == Pass || outcome == Fail {
		_, err = s.db.Exec(
			`INSERT INTO attempts(session_id, package, outcome) VALUES(?, ?, ?)`,
			s.sessionID, pkg, outcome.String(),
		)
	}
	return err
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func parseOutcome(raw string) Outcome {
	switch raw {
	case "pass":
		return Pass
	case "fail":
		return Fail
	case "skip":
		return Skip
	default:
		return NotRun
	}
}
