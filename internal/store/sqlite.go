package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/ntkit/ntsolve/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS solves (
	id         TEXT PRIMARY KEY,
	input      TEXT NOT NULL,
	output     TEXT NOT NULL,
	source     TEXT NOT NULL DEFAULT 'solve',
	created_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_solves_created_at ON solves(created_at);
CREATE INDEX IF NOT EXISTS idx_solves_source ON solves(source);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Save(ctx context.Context, input, output model.Scenario, source string) (*Solve, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	inputJSON, err := json.Marshal(input)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: marshal input")
	}
	outputJSON, err := json.Marshal(output)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: marshal output")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO solves (id, input, output, source, created_at) VALUES (?, ?, ?, ?, ?)`,
		id, string(inputJSON), string(outputJSON), source, now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert solve")
	}

	return &Solve{
		ID:        id,
		Input:     input,
		Output:    output,
		Source:    source,
		CreatedAt: now,
	}, nil
}

func (s *SQLiteStore) List(ctx context.Context, limit int) ([]Solve, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, input, output, source, created_at FROM solves ORDER BY created_at DESC, id LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list solves")
	}
	defer rows.Close()

	var solves []Solve
	for rows.Next() {
		var sv Solve
		var inputJSON, outputJSON string
		if err := rows.Scan(&sv.ID, &inputJSON, &outputJSON, &sv.Source, &sv.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan solve")
		}
		if err := json.Unmarshal([]byte(inputJSON), &sv.Input); err != nil {
			return nil, eris.Wrapf(err, "sqlite: unmarshal input %s", sv.ID)
		}
		if err := json.Unmarshal([]byte(outputJSON), &sv.Output); err != nil {
			return nil, eris.Wrapf(err, "sqlite: unmarshal output %s", sv.ID)
		}
		solves = append(solves, sv)
	}
	return solves, eris.Wrap(rows.Err(), "sqlite: iterate solves")
}
