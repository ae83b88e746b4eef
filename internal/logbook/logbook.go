// Package logbook keeps an audit trail of calculations in a SQLite database.
//
// Each entry records the calculator id, the JSON of the input it ran on, and
// the rendered result. The logbook never interprets those fields; it only
// stores, lists, and prunes them. Entry ids are ULIDs, so ids sort by creation
// time.
package logbook

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite" // registers the "sqlite" database/sql driver
)

// MemoryPath opens a private in-memory logbook, mainly for tests.
const MemoryPath = ":memory:"

// List limits.
const (
	// DefaultLimit is used when a Filter leaves Limit unset.
	DefaultLimit = 50

	// MaxLimit caps the entries one List call returns.
	MaxLimit = 10000
)

// timeLayout is fixed width so stored timestamps sort lexically in time order.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

const schema = `
CREATE TABLE IF NOT EXISTS calculation_log (
	id            TEXT PRIMARY KEY,
	calculator_id TEXT NOT NULL,
	inputs        TEXT NOT NULL,
	result        TEXT NOT NULL,
	timestamp     TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_calculation_log_calculator ON calculation_log(calculator_id);
CREATE INDEX IF NOT EXISTS idx_calculation_log_timestamp ON calculation_log(timestamp);
`

// Logbook errors.
var (
	ErrNotFound     = errors.New("logbook entry not found")
	ErrInvalidEntry = errors.New("invalid logbook entry")
	ErrEmptyPath    = errors.New("logbook path cannot be empty")
)

// Entry is one recorded calculation.
type Entry struct {
	ID           string    `json:"id"`
	CalculatorID string    `json:"calculator_id"`
	Inputs       string    `json:"inputs"`
	Result       string    `json:"result"`
	Timestamp    time.Time `json:"timestamp"`
}

// Cursor marks a position in the newest-first ordering of entries.
type Cursor struct {
	Timestamp time.Time
	ID        string
}

// IsZero reports whether c marks no position.
func (c Cursor) IsZero() bool {
	return c.ID == ""
}

// Cursor returns the position of e, for resuming a List after it.
func (e Entry) Cursor() Cursor {
	return Cursor{Timestamp: e.Timestamp, ID: e.ID}
}

// Filter narrows a List call. Zero values mean "no restriction".
// Before restricts the result to entries older than the cursor, so pages can
// be fetched with the last entry of the previous page.
type Filter struct {
	CalculatorID string
	Limit        int
	Since        time.Time
	Before       Cursor
}

// Store is a logbook backed by a SQLite file. It is safe for concurrent use.
type Store struct {
	db     *sql.DB
	path   string
	now    func() time.Time
	logger zerolog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithLogger sets the logger used for open, save, and prune events.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// Open opens or creates the logbook at path and ensures the schema exists.
// The parent directory is created when missing.
func Open(path string, opts ...Option) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, ErrEmptyPath
	}

	s := &Store{
		path:   path,
		now:    time.Now,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	dsn := path
	if path != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
			return nil, fmt.Errorf("creating logbook directory: %w", err)
		}
		dsn = path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening logbook %s: %w", path, err)
	}
	// SQLite allows one writer; a single connection also keeps :memory: databases shared.
	db.SetMaxOpenConns(1)

	if _, err = db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating logbook schema: %w", err)
	}
	s.db = db

	s.logger.Debug().Str("path", path).Msg("logbook opened")
	return s, nil
}

// Path returns the location the store was opened with.
func (s *Store) Path() string {
	return s.path
}

// Save records e and returns its id. A blank ID is replaced with a new ULID and
// a zero Timestamp with the current time.
func (s *Store) Save(ctx context.Context, e Entry) (string, error) {
	if strings.TrimSpace(e.CalculatorID) == "" {
		return "", fmt.Errorf("%w: calculator id is required", ErrInvalidEntry)
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = s.now()
	}
	if e.ID == "" {
		e.ID = ulid.MustNew(ulid.Timestamp(e.Timestamp), ulid.DefaultEntropy()).String()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO calculation_log (id, calculator_id, inputs, result, timestamp) VALUES (?, ?, ?, ?, ?)`,
		e.ID, e.CalculatorID, e.Inputs, e.Result, formatTime(e.Timestamp))
	if err != nil {
		return "", fmt.Errorf("saving logbook entry: %w", err)
	}

	s.logger.Debug().Str("id", e.ID).Str("calculator", e.CalculatorID).Msg("logbook entry saved")
	return e.ID, nil
}

// List returns entries matching f, newest first.
func (s *Store) List(ctx context.Context, f Filter) ([]Entry, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	limit = min(limit, MaxLimit)

	var (
		where []string
		args  []any
	)
	if f.CalculatorID != "" {
		where = append(where, "calculator_id = ?")
		args = append(args, f.CalculatorID)
	}
	if !f.Since.IsZero() {
		where = append(where, "timestamp >= ?")
		args = append(args, formatTime(f.Since))
	}
	if !f.Before.IsZero() {
		ts := formatTime(f.Before.Timestamp)
		where = append(where, "(timestamp < ? OR (timestamp = ? AND id < ?))")
		args = append(args, ts, ts, f.Before.ID)
	}

	query := "SELECT id, calculator_id, inputs, result, timestamp FROM calculation_log"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY timestamp DESC, id DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing logbook entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, scanErr := scanEntry(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		entries = append(entries, e)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("reading logbook entries: %w", err)
	}
	return entries, nil
}

// Pages walks every entry matching f, newest first, in pages of f.Limit
// entries (DefaultLimit when unset). fn sees each page in order; an error from
// fn stops the walk and is returned. f.Before is the starting point.
func (s *Store) Pages(ctx context.Context, f Filter, fn func(page []Entry) error) error {
	if f.Limit <= 0 {
		f.Limit = DefaultLimit
	}
	f.Limit = min(f.Limit, MaxLimit)

	for {
		page, err := s.List(ctx, f)
		if err != nil {
			return err
		}
		if len(page) == 0 {
			return nil
		}
		if err = fn(page); err != nil {
			return err
		}
		if len(page) < f.Limit {
			return nil
		}
		f.Before = page[len(page)-1].Cursor()
	}
}

// Get returns the entry with the given id, or ErrNotFound.
func (s *Store) Get(ctx context.Context, id string) (Entry, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, calculator_id, inputs, result, timestamp FROM calculation_log WHERE id = ?", id)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return e, err
}

// Prune deletes entries recorded before cutoff and returns how many were removed.
func (s *Store) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM calculation_log WHERE timestamp < ?", formatTime(cutoff))
	if err != nil {
		return 0, fmt.Errorf("pruning logbook: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("pruning logbook: %w", err)
	}

	s.logger.Info().Int64("removed", n).Time("cutoff", cutoff).Msg("logbook pruned")
	return n, nil
}

// PruneOlderThan deletes entries older than age, measured from the store clock.
func (s *Store) PruneOlderThan(ctx context.Context, age time.Duration) (int64, error) {
	return s.Prune(ctx, s.now().Add(-age))
}

// Count returns the number of stored entries.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM calculation_log").Scan(&n); err != nil {
		return 0, fmt.Errorf("counting logbook entries: %w", err)
	}
	return n, nil
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// scanner is the part of *sql.Row and *sql.Rows that scanEntry needs.
type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (Entry, error) {
	var (
		e  Entry
		ts string
	)
	if err := row.Scan(&e.ID, &e.CalculatorID, &e.Inputs, &e.Result, &ts); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Entry{}, err
		}
		return Entry{}, fmt.Errorf("scanning logbook entry: %w", err)
	}
	t, err := time.Parse(timeLayout, ts)
	if err != nil {
		return Entry{}, fmt.Errorf("parsing logbook timestamp %q: %w", ts, err)
	}
	e.Timestamp = t
	return e, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}
