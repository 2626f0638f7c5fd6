package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/isawnyu/pleiades-dura-converter/internal/logging"
	"github.com/isawnyu/pleiades-dura-converter/internal/vocab"
)

// Tx is an open content transaction. Nothing it does is visible outside
// the transaction until Commit.
type Tx struct {
	ctx     context.Context
	store   *Store
	tx      *sql.Tx
	touched []string
	seen    map[string]bool
	done    bool
}

// Begin opens a transaction.
func (s *Store) Begin(ctx context.Context) (*Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return &Tx{ctx: ctx, store: s, tx: tx, seen: make(map[string]bool)}, nil
}

func (t *Tx) touch(path string) {
	if !t.seen[path] {
		t.seen[path] = true
		t.touched = append(t.touched, path)
	}
}

// Touched returns the paths changed in this transaction, in first-change
// order.
func (t *Tx) Touched() []string {
	return append([]string(nil), t.touched...)
}

// GenerateID returns the next free numeric id inside parent: one more than
// the largest numeric child id, or "1" for a folder with none.
func (t *Tx) GenerateID(parent string) (string, error) {
	rows, err := t.tx.QueryContext(t.ctx, `SELECT id FROM content WHERE parent = ?`, cleanPath(parent))
	if err != nil {
		return "", fmt.Errorf("failed to list ids in %s: %w", parent, err)
	}
	defer rows.Close()

	var highest int64
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return "", err
		}
		if n, err := strconv.ParseInt(id, 10, 64); err == nil && n > highest {
			highest = n
		}
	}
	if err := rows.Err(); err != nil {
		return "", err
	}
	return strconv.FormatInt(highest+1, 10), nil
}

// Create adds an empty object of type typ called id inside parent.
func (t *Tx) Create(parent string, typ ContentType, id string) (*Object, error) {
	if !Known(typ) {
		return nil, fmt.Errorf("unknown content type %q", typ)
	}
	if id == "" || strings.Contains(id, "/") {
		return nil, fmt.Errorf("invalid object id %q", id)
	}
	path := joinPath(parent, id)
	if _, err := getObject(t.ctx, t.tx, path); err == nil {
		return nil, fmt.Errorf("%w: %s", ErrExists, path)
	}

	now := t.store.now()
	obj := &Object{
		Path:         path,
		Parent:       cleanPath(parent),
		ID:           id,
		UID:          uuid.New().String(),
		Type:         typ,
		Fields:       map[string]json.RawMessage{},
		ReviewState:  StatePrivate,
		Creators:     []string{},
		Contributors: []string{},
		Created:      now,
		Modified:     now,
	}
	_, err := t.tx.ExecContext(t.ctx, `
		INSERT INTO content (path, parent, id, uid, portal_type, review_state, created_at, modified_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		obj.Path, obj.Parent, obj.ID, obj.UID, string(typ), obj.ReviewState, now, now)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", path, err)
	}
	t.touch(path)
	logging.StoreDebug("created %s %s (uid %s)", typ, path, obj.UID)
	return obj, nil
}

// Get returns the object at path as seen inside the transaction.
func (t *Tx) Get(path string) (*Object, error) {
	return getObject(t.ctx, t.tx, path)
}

// SetField stores value as field of obj. Title and description are routed
// to their setters. Connection targets must each be a Pleiades place URI
// or the title of an existing Place; otherwise nothing is stored and
// ErrInvalidReference is returned.
func (t *Tx) SetField(obj *Object, field string, value interface{}) error {
	if !HasField(obj.Type, field) {
		return fmt.Errorf("%w %q on %s", ErrNoField, field, obj.Type)
	}
	switch field {
	case FieldTitle, FieldDescription:
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("field %q of %s wants a string, got %T", field, obj.Path, value)
		}
		if field == FieldTitle {
			return t.SetTitle(obj, s)
		}
		return t.SetDescription(obj, s)
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode field %q: %w", field, err)
	}
	if field == FieldConnections {
		if err := t.checkConnections(raw); err != nil {
			return err
		}
	}
	return t.writeField(obj, field, raw)
}

func (t *Tx) checkConnections(raw json.RawMessage) error {
	var conns []struct {
		Connection string `json:"connection"`
	}
	if err := json.Unmarshal(raw, &conns); err != nil {
		return fmt.Errorf("%w: connections must be a list of objects: %v", ErrInvalidReference, err)
	}
	for _, c := range conns {
		if vocab.IsPleiadesPlace(c.Connection) {
			continue
		}
		var n int
		err := t.tx.QueryRowContext(t.ctx,
			`SELECT COUNT(*) FROM content WHERE portal_type = ? AND title = ?`,
			string(TypePlace), c.Connection).Scan(&n)
		if err != nil {
			return fmt.Errorf("failed to resolve connection %q: %w", c.Connection, err)
		}
		if n == 0 {
			return fmt.Errorf("%w: no place titled %q", ErrInvalidReference, c.Connection)
		}
	}
	return nil
}

func (t *Tx) writeField(obj *Object, field string, raw json.RawMessage) error {
	fields := make(map[string]json.RawMessage, len(obj.Fields)+1)
	for k, v := range obj.Fields {
		fields[k] = v
	}
	fields[field] = raw
	encoded, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("failed to encode fields of %s: %w", obj.Path, err)
	}
	if err := t.update(obj, `fields_json = ?`, string(encoded)); err != nil {
		return err
	}
	obj.Fields = fields
	return nil
}

// SetTitle sets the object title.
func (t *Tx) SetTitle(obj *Object, title string) error {
	if err := t.update(obj, `title = ?`, title); err != nil {
		return err
	}
	obj.Title = title
	return nil
}

// SetDescription sets the object description.
func (t *Tx) SetDescription(obj *Object, desc string) error {
	if err := t.update(obj, `description = ?`, desc); err != nil {
		return err
	}
	obj.Description = desc
	return nil
}

// ResizeField presizes a list field to n empty entries.
func (t *Tx) ResizeField(obj *Object, field string, n int) error {
	if !HasField(obj.Type, field) {
		return fmt.Errorf("%w %q on %s", ErrNoField, field, obj.Type)
	}
	if n < 0 {
		return fmt.Errorf("cannot resize %q to %d entries", field, n)
	}
	entries := make([]map[string]interface{}, n)
	for i := range entries {
		entries[i] = map[string]interface{}{}
	}
	raw, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	return t.writeField(obj, field, raw)
}

// SetWorkflowState moves obj to state: private, pending or published.
func (t *Tx) SetWorkflowState(obj *Object, state string) error {
	switch state {
	case StatePrivate, StatePending, StatePublished:
	default:
		return fmt.Errorf("invalid workflow state %q", state)
	}
	if err := t.update(obj, `review_state = ?`, state); err != nil {
		return err
	}
	obj.ReviewState = state
	return nil
}

// SetOwnership records the owner, creators and contributors of obj.
func (t *Tx) SetOwnership(obj *Object, owner string, creators, contributors []string) error {
	if creators == nil {
		creators = []string{}
	}
	if contributors == nil {
		contributors = []string{}
	}
	c, err := json.Marshal(creators)
	if err != nil {
		return err
	}
	k, err := json.Marshal(contributors)
	if err != nil {
		return err
	}
	if err := t.update(obj, `owner = ?, creators_json = ?, contributors_json = ?`, owner, string(c), string(k)); err != nil {
		return err
	}
	obj.Owner = owner
	obj.Creators = creators
	obj.Contributors = contributors
	return nil
}

// update applies a SET clause to obj's row.
func (t *Tx) update(obj *Object, set string, args ...interface{}) error {
	args = append(args, obj.Path)
	res, err := t.tx.ExecContext(t.ctx, `UPDATE content SET `+set+` WHERE path = ?`, args...)
	if err != nil {
		return fmt.Errorf("failed to update %s: %w", obj.Path, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, obj.Path)
	}
	t.touch(obj.Path)
	return nil
}

// Reindex refreshes the catalog entry for path and stamps its modified
// time.
func (t *Tx) Reindex(path string) error {
	obj, err := getObject(t.ctx, t.tx, path)
	if err != nil {
		return err
	}
	now := t.store.now()
	if _, err := t.tx.ExecContext(t.ctx, `UPDATE content SET modified_at = ? WHERE path = ?`, now, obj.Path); err != nil {
		return fmt.Errorf("failed to stamp %s: %w", obj.Path, err)
	}
	_, err = t.tx.ExecContext(t.ctx, `
		INSERT INTO catalog (path, uid, portal_type, title, review_state, searchable_text, modified_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			uid = excluded.uid,
			portal_type = excluded.portal_type,
			title = excluded.title,
			review_state = excluded.review_state,
			searchable_text = excluded.searchable_text,
			modified_at = excluded.modified_at`,
		obj.Path, obj.UID, string(obj.Type), obj.Title, obj.ReviewState,
		strings.TrimSpace(obj.Title+" "+obj.Description), now)
	if err != nil {
		return fmt.Errorf("failed to index %s: %w", obj.Path, err)
	}
	t.touch(obj.Path)
	return nil
}

// Commit writes a history entry for every touched object and commits.
func (t *Tx) Commit(message, actor string) error {
	if t.done {
		return sql.ErrTxDone
	}
	now := t.store.now()
	txID := uuid.New().String()
	for _, path := range t.touched {
		_, err := t.tx.ExecContext(t.ctx,
			`INSERT INTO history (path, actor, message, transaction_id, committed_at) VALUES (?, ?, ?, ?, ?)`,
			path, actor, message, txID, now)
		if err != nil {
			t.Rollback()
			return fmt.Errorf("failed to record history for %s: %w", path, err)
		}
	}
	t.done = true
	if err := t.tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	logging.Store("committed %d objects in transaction %s: %s", len(t.touched), txID, message)
	return nil
}

// Rollback abandons the transaction. It is safe to call after Commit.
func (t *Tx) Rollback() error {
	if t.done {
		return nil
	}
	t.done = true
	if err := t.tx.Rollback(); err != nil {
		return fmt.Errorf("failed to roll back: %w", err)
	}
	logging.StoreDebug("rolled back %d objects", len(t.touched))
	return nil
}
