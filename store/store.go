// Package store keeps decomposition runs in a SQLite database.
//
// A run is one codec.CaseReport, stored whole as deterministic CBOR and
// indexed by a random id, by the digests of its input and settings (so a
// repeated input can be answered from the store) and by component tag.
package store

import (
	"context"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/katalvlaran/ietx/codec"
)

// ErrNotFound is returned when no run matches.
var ErrNotFound = errors.New("store: run not found")

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id        TEXT PRIMARY KEY,
	name          TEXT NOT NULL,
	input_digest  TEXT NOT NULL,
	max_steps     INTEGER NOT NULL,
	settings      TEXT NOT NULL DEFAULT '',
	report        BLOB NOT NULL,
	created_at    TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS components (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id        TEXT NOT NULL,
	position      INTEGER NOT NULL,
	tag           TEXT NOT NULL,
	labels        TEXT NOT NULL,
	length        TEXT NOT NULL,
	steps         INTEGER NOT NULL,
	FOREIGN KEY (run_id) REFERENCES runs(run_id) ON DELETE CASCADE
);
`

// migrations bring databases created before a column existed up to date.
// Rows from before the settings column never match a Lookup.
var migrations = []struct{ table, column, ddl string }{
	{"runs", "settings", `ALTER TABLE runs ADD COLUMN settings TEXT NOT NULL DEFAULT ''`},
}

const index = `CREATE INDEX IF NOT EXISTS runs_key ON runs (input_digest, settings)`

// timeLayout sorts lexically in time order.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Run is the index entry of a stored report.
type Run struct {
	ID          uuid.UUID
	Name        string
	InputDigest string
	MaxSteps    int
	CreatedAt   time.Time
}

// Store wraps the database handle.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (or creates) the database at path and runs migrations.
// ":memory:" gives a private in-memory database.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// An in-memory database lives and dies with its connection.
	db.SetMaxOpenConns(1)
	if err := migrate(db); err != nil {
		db.Close()

		return nil, fmt.Errorf("migrate: %w", err)
	}

	return &Store{db: db, now: time.Now}, nil
}

func migrate(db *sql.DB) error {
	for _, stmt := range []string{"PRAGMA foreign_keys=ON", schema} {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	for _, m := range migrations {
		var n int
		err := db.QueryRow(`SELECT COUNT(*) FROM pragma_table_info(?) WHERE name = ?`, m.table, m.column).Scan(&n)
		if err != nil {
			return err
		}
		if n == 0 {
			if _, err := db.Exec(m.ddl); err != nil {
				return err
			}
		}
	}
	_, err := db.Exec(index)

	return err
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// InputDigest is the hex BLAKE3 digest of the deterministic encoding of an
// input.
func InputDigest(in codec.IETReport) (string, error) {
	return hexDigest(in)
}

// SettingsDigest is the hex BLAKE3 digest of the deterministic encoding of
// driver settings.
func SettingsDigest(st codec.Settings) (string, error) {
	return hexDigest(st)
}

func hexDigest(v any) (string, error) {
	d, err := codec.Digest(v)
	if err != nil {
		return "", err
	}

	return hex.EncodeToString(d[:]), nil
}

// Save stores r under a new id, keyed by its input and its settings.
func (s *Store) Save(ctx context.Context, r codec.CaseReport) (Run, error) {
	digest, err := InputDigest(r.Input)
	if err != nil {
		return Run{}, fmt.Errorf("digest input: %w", err)
	}
	settings, err := SettingsDigest(r.Settings)
	if err != nil {
		return Run{}, fmt.Errorf("digest settings: %w", err)
	}
	blob, err := codec.Marshal(r)
	if err != nil {
		return Run{}, fmt.Errorf("encode report: %w", err)
	}
	run := Run{
		ID:          uuid.New(),
		Name:        r.Name,
		InputDigest: digest,
		MaxSteps:    r.Settings.MaxSteps,
		CreatedAt:   s.now().UTC(),
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Run{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (run_id, name, input_digest, max_steps, settings, report, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ID.String(), run.Name, digest, run.MaxSteps, settings, blob, run.CreatedAt.Format(timeLayout),
	)
	if err != nil {
		return Run{}, fmt.Errorf("insert run: %w", err)
	}
	for i, c := range r.Components {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO components (run_id, position, tag, labels, length, steps)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			run.ID.String(), i, c.Tag, strings.Join(c.Labels, ","), c.Length, c.Steps,
		)
		if err != nil {
			return Run{}, fmt.Errorf("insert component %d: %w", i, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return Run{}, fmt.Errorf("commit: %w", err)
	}

	return run, nil
}

// Load returns the report stored under id.
func (s *Store) Load(ctx context.Context, id uuid.UUID) (codec.CaseReport, error) {
	var blob []byte
	err := s.db.QueryRowContext(ctx, `SELECT report FROM runs WHERE run_id = ?`, id.String()).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return codec.CaseReport{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return codec.CaseReport{}, fmt.Errorf("query run: %w", err)
	}

	return decode(blob)
}

// Lookup returns the latest report for the same input decomposed with the
// same settings. The boolean is false when there is none.
func (s *Store) Lookup(ctx context.Context, in codec.IETReport, st codec.Settings) (codec.CaseReport, bool, error) {
	digest, err := InputDigest(in)
	if err != nil {
		return codec.CaseReport{}, false, fmt.Errorf("digest input: %w", err)
	}
	settings, err := SettingsDigest(st)
	if err != nil {
		return codec.CaseReport{}, false, fmt.Errorf("digest settings: %w", err)
	}
	var blob []byte
	err = s.db.QueryRowContext(ctx,
		`SELECT report FROM runs WHERE input_digest = ? AND settings = ?
		 ORDER BY created_at DESC LIMIT 1`,
		digest, settings,
	).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return codec.CaseReport{}, false, nil
	}
	if err != nil {
		return codec.CaseReport{}, false, fmt.Errorf("query run: %w", err)
	}
	r, err := decode(blob)
	if err != nil {
		return codec.CaseReport{}, false, err
	}

	return r, true, nil
}

// List returns all runs, oldest first.
func (s *Store) List(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, name, input_digest, max_steps, created_at FROM runs ORDER BY created_at, run_id`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var (
			run    Run
			id, ts string
		)
		if err := rows.Scan(&id, &run.Name, &run.InputDigest, &run.MaxSteps, &ts); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if run.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("run id %q: %w", id, err)
		}
		if run.CreatedAt, err = time.Parse(timeLayout, ts); err != nil {
			return nil, fmt.Errorf("run %s time: %w", id, err)
		}
		out = append(out, run)
	}

	return out, rows.Err()
}

// CountByTag counts stored components per tag over all runs.
func (s *Store) CountByTag(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT tag, COUNT(*) FROM components GROUP BY tag`)
	if err != nil {
		return nil, fmt.Errorf("query components: %w", err)
	}
	defer rows.Close()

	out := make(map[string]int)
	for rows.Next() {
		var (
			tag string
			n   int
		)
		if err := rows.Scan(&tag, &n); err != nil {
			return nil, fmt.Errorf("scan components: %w", err)
		}
		out[tag] = n
	}

	return out, rows.Err()
}

// Delete removes a run and its components.
func (s *Store) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE run_id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("delete run: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	return nil
}

func decode(blob []byte) (codec.CaseReport, error) {
	var r codec.CaseReport
	if err := codec.Unmarshal(blob, &r); err != nil {
		return codec.CaseReport{}, fmt.Errorf("decode report: %w", err)
	}

	return r, nil
}
