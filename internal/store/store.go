// Package store is a SQLite-backed content store modelled on a CMS object
// database. Content objects live at slash-separated paths inside folders,
// carry a fixed set of fields per content type, and change only inside a
// transaction that is either committed with a history message or rolled
// back. A catalog table indexes objects that have been reindexed.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/isawnyu/pleiades-dura-converter/internal/logging"
)

var (
	// ErrNoField is returned for a field the content type does not have.
	ErrNoField = errors.New("no such field")
	// ErrNotFound is returned when no object exists at a path.
	ErrNotFound = errors.New("object not found")
	// ErrInvalidReference is returned when a reference field names a
	// target that does not exist.
	ErrInvalidReference = errors.New("invalid reference")
	// ErrExists is returned when creating an object at a taken path.
	ErrExists = errors.New("object already exists")
)

// Store is the content database. It holds a single connection, so reads
// on the Store wait while a transaction is open.
type Store struct {
	db     *sql.DB
	dbPath string
	now    func() time.Time
}

// Open creates or opens the content store at path. ":memory:" opens a
// private in-memory store.
func Open(path string) (*Store, error) {
	logging.Store("Opening content store at %s", path)

	dsn := ":memory:"
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
		dsn = path + "?_busy_timeout=5000&_journal_mode=WAL"
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One connection: an in-memory database exists per connection, and a
	// transaction must see its own writes.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	s := &Store{db: db, dbPath: path, now: func() time.Time { return time.Now().UTC() }}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	if err := RunMigrations(db); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database path.
func (s *Store) Path() string {
	return s.dbPath
}

func (s *Store) initSchema() error {
	schema := `
	-- Content objects
	CREATE TABLE IF NOT EXISTS content (
		path TEXT PRIMARY KEY,
		parent TEXT NOT NULL,
		id TEXT NOT NULL,
		uid TEXT NOT NULL UNIQUE,
		portal_type TEXT NOT NULL,
		title TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		fields_json TEXT NOT NULL DEFAULT '{}',
		review_state TEXT NOT NULL DEFAULT 'private',
		owner TEXT NOT NULL DEFAULT '',
		creators_json TEXT NOT NULL DEFAULT '[]',
		contributors_json TEXT NOT NULL DEFAULT '[]',
		created_at DATETIME NOT NULL,
		modified_at DATETIME NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_content_parent ON content(parent);
	CREATE INDEX IF NOT EXISTS idx_content_type_title ON content(portal_type, title);

	-- Catalog of indexed objects
	CREATE TABLE IF NOT EXISTS catalog (
		path TEXT PRIMARY KEY,
		uid TEXT NOT NULL,
		portal_type TEXT NOT NULL,
		title TEXT NOT NULL,
		review_state TEXT NOT NULL,
		searchable_text TEXT NOT NULL,
		modified_at DATETIME NOT NULL
	);

	-- Commit history
	CREATE TABLE IF NOT EXISTS history (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		path TEXT NOT NULL,
		actor TEXT NOT NULL,
		message TEXT NOT NULL,
		committed_at DATETIME NOT NULL,
		transaction_id TEXT NOT NULL DEFAULT ''
	);
	CREATE INDEX IF NOT EXISTS idx_history_path ON history(path);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Get returns the object at path.
func (s *Store) Get(ctx context.Context, path string) (*Object, error) {
	return getObject(ctx, s.db, path)
}

// Children returns the objects directly inside parent, ordered by id.
func (s *Store) Children(ctx context.Context, parent string) ([]*Object, error) {
	rows, err := s.db.QueryContext(ctx, selectObject+` WHERE parent = ? ORDER BY path`, cleanPath(parent))
	if err != nil {
		return nil, fmt.Errorf("failed to list children of %s: %w", parent, err)
	}
	defer rows.Close()

	var out []*Object
	for rows.Next() {
		obj, err := scanObject(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, obj)
	}
	return out, rows.Err()
}

// CatalogSize returns the number of indexed objects.
func (s *Store) CatalogSize(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM catalog`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count catalog: %w", err)
	}
	return n, nil
}

// HistoryEntry records one committed change to an object.
type HistoryEntry struct {
	Path      string
	Actor     string
	Message   string
	Committed time.Time
}

// History returns the commit history of path, oldest first.
func (s *Store) History(ctx context.Context, path string) ([]HistoryEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT path, actor, message, committed_at FROM history WHERE path = ? ORDER BY id`, cleanPath(path))
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var out []HistoryEntry
	for rows.Next() {
		var h HistoryEntry
		if err := rows.Scan(&h.Path, &h.Actor, &h.Message, &h.Committed); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

// querier is satisfied by *sql.DB and *sql.Tx.
type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
}

const selectObject = `SELECT path, parent, id, uid, portal_type, title, description, fields_json,
	review_state, owner, creators_json, contributors_json, created_at, modified_at FROM content`

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanObject(sc scanner) (*Object, error) {
	var obj Object
	var typ, fields, creators, contribs string
	err := sc.Scan(&obj.Path, &obj.Parent, &obj.ID, &obj.UID, &typ, &obj.Title, &obj.Description,
		&fields, &obj.ReviewState, &obj.Owner, &creators, &contribs, &obj.Created, &obj.Modified)
	if err != nil {
		return nil, err
	}
	obj.Type = ContentType(typ)
	if err := json.Unmarshal([]byte(fields), &obj.Fields); err != nil {
		return nil, fmt.Errorf("corrupt fields for %s: %w", obj.Path, err)
	}
	if err := json.Unmarshal([]byte(creators), &obj.Creators); err != nil {
		return nil, fmt.Errorf("corrupt creators for %s: %w", obj.Path, err)
	}
	if err := json.Unmarshal([]byte(contribs), &obj.Contributors); err != nil {
		return nil, fmt.Errorf("corrupt contributors for %s: %w", obj.Path, err)
	}
	return &obj, nil
}

func getObject(ctx context.Context, q querier, path string) (*Object, error) {
	obj, err := scanObject(q.QueryRowContext(ctx, selectObject+` WHERE path = ?`, cleanPath(path)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return obj, nil
}

func cleanPath(p string) string {
	return strings.Trim(p, "/")
}

func joinPath(parent, id string) string {
	parent = cleanPath(parent)
	if parent == "" {
		return id
	}
	return parent + "/" + id
}
