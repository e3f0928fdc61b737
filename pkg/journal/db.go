// Package journal persists breakpoint crossings to SQLite so dwell time per
// breakpoint can be analysed after a session.
package journal

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/kraitsura/bpwatch/pkg/breakpoints"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Entry is one recorded crossing.
type Entry struct {
	ID         int64
	Session    string
	Breakpoint string
	Direction  string
	FromWidth  int
	ToWidth    int
	// Active is the breakpoint in effect after the crossing.
	Active    string
	CreatedAt time.Time
}

// Journal records crossings for one session. It implements
// breakpoints.Observer.
type Journal struct {
	db      *sql.DB
	session string
	now     func() time.Time
	log     *slog.Logger

	mu     sync.Mutex
	active string
}

// Open opens or creates the journal database at path and starts a new
// session.
func Open(path string, log *slog.Logger) (*Journal, error) {
	if log == nil {
		log = slog.Default()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return &Journal{
		db:      db,
		session: uuid.NewString(),
		now:     func() time.Time { return time.Now().UTC() },
		log:     log,
	}, nil
}

func runMigrations(db *sql.DB) error {
	src, err := iofs.New(migrations, "migrations")
	if err != nil {
		return err
	}
	driver, err := sqlite3.WithInstance(db, &sqlite3.Config{})
	if err != nil {
		return err
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite3", driver)
	if err != nil {
		return err
	}
	// m.Close would also close db; only the source needs releasing.
	defer src.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

// Close closes the database connection.
func (j *Journal) Close() error {
	return j.db.Close()
}

// Session returns the id of the session this journal records into.
func (j *Journal) Session() string {
	return j.session
}

// Record inserts e, filling in the session, timestamp and ID when unset.
func (j *Journal) Record(e *Entry) error {
	if e.Session == "" {
		e.Session = j.session
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = j.now()
	}
	result, err := j.db.Exec(`
		INSERT INTO crossings (session_id, breakpoint, direction, from_width, to_width, active, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, e.Session, e.Breakpoint, e.Direction, e.FromWidth, e.ToWidth, e.Active, e.CreatedAt)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	e.ID = id
	return nil
}

// ObserveWidth remembers the active breakpoint for the crossings that
// follow it.
func (j *Journal) ObserveWidth(_ int, active string) {
	j.mu.Lock()
	j.active = active
	j.mu.Unlock()
}

// ObserveCrossing records c. Write failures are logged, not returned.
func (j *Journal) ObserveCrossing(c breakpoints.Crossing) {
	j.mu.Lock()
	active := j.active
	j.mu.Unlock()

	e := &Entry{
		Breakpoint: c.Name,
		Direction:  c.Direction.String(),
		FromWidth:  c.From,
		ToWidth:    c.To,
		Active:     active,
	}
	if err := j.Record(e); err != nil {
		j.log.Warn("journal write failed", "point", c.Name, "error", err)
	}
}

// Recent returns up to limit entries across all sessions, newest first.
func (j *Journal) Recent(limit int) ([]Entry, error) {
	rows, err := j.db.Query(`
		SELECT id, session_id, breakpoint, direction, from_width, to_width, active, created_at
		FROM crossings
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEntries(rows)
}

// SessionEntries returns the entries of one session in recording order.
func (j *Journal) SessionEntries(session string) ([]Entry, error) {
	rows, err := j.db.Query(`
		SELECT id, session_id, breakpoint, direction, from_width, to_width, active, created_at
		FROM crossings
		WHERE session_id = ?
		ORDER BY id
	`, session)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEntries(rows)
}

// Sessions lists session ids, oldest first.
func (j *Journal) Sessions() ([]string, error) {
	rows, err := j.db.Query(`
		SELECT session_id FROM crossings
		GROUP BY session_id
		ORDER BY MIN(id)
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func scanEntries(rows *sql.Rows) ([]Entry, error) {
	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Session, &e.Breakpoint, &e.Direction, &e.FromWidth, &e.ToWidth, &e.Active, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
