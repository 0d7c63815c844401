package sink

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hazyhaar/suaplinks/dbopen"
	"github.com/hazyhaar/suaplinks/record"
)

// Schema is the run-history layout.
const Schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id      TEXT PRIMARY KEY,
	started_at  INTEGER NOT NULL,
	finished_at INTEGER NOT NULL,
	total       INTEGER NOT NULL,
	found       INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS results (
	run_id     TEXT NOT NULL REFERENCES runs(run_id) ON DELETE CASCADE,
	position   INTEGER NOT NULL,
	identifier TEXT NOT NULL,
	kind       TEXT NOT NULL,
	link       TEXT NOT NULL,
	message    TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (run_id, position)
);
CREATE INDEX IF NOT EXISTS idx_results_identifier ON results(identifier);
`

// SQLite appends every run to a history database.
type SQLite struct {
	db   *sql.DB
	owns bool
}

// NewSQLite wraps an open database. The schema must already exist; the
// caller keeps ownership of db.
func NewSQLite(db *sql.DB) *SQLite {
	return &SQLite{db: db}
}

// OpenSQLite opens (or creates) the history database at path.
func OpenSQLite(path string) (*SQLite, error) {
	db, err := dbopen.Open(path, dbopen.WithMkdirAll(), dbopen.WithSchema(Schema))
	if err != nil {
		return nil, fmt.Errorf("sqlite sink: %w", err)
	}
	return &SQLite{db: db, owns: true}, nil
}

func (s *SQLite) Write(ctx context.Context, run record.Run) error {
	sum := record.Summarize(run.Records)
	return dbopen.RunTx(ctx, s.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO runs (run_id, started_at, finished_at, total, found)
			VALUES (?,?,?,?,?)`,
			run.ID, run.StartedAt.Unix(), run.FinishedAt.Unix(), sum.Total, sum.Found); err != nil {
			return fmt.Errorf("sqlite sink: insert run: %w", err)
		}

		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO results (run_id, position, identifier, kind, link, message)
			VALUES (?,?,?,?,?,?)`)
		if err != nil {
			return fmt.Errorf("sqlite sink: prepare: %w", err)
		}
		defer stmt.Close()

		for i, r := range run.Records {
			if _, err := stmt.ExecContext(ctx, run.ID, i, r.Identifier,
				r.Outcome.Kind().String(), r.Outcome.Text(), r.Outcome.Message()); err != nil {
				return fmt.Errorf("sqlite sink: insert result %q: %w", r.Identifier, err)
			}
		}
		return nil
	})
}

func (s *SQLite) Close() error {
	if s.owns {
		return s.db.Close()
	}
	return nil
}
