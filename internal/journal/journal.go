// Package journal records the intents of an editing session in SQLite.
//
// The tree itself is never persisted. The journal is a diagnostic trail: by default it
// lives in a private in-memory database and disappears with the process.
package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	_ "modernc.org/sqlite"
)

// MemoryDSN opens a private in-memory journal.
const MemoryDSN = ":memory:"

// Entry is one recorded intent.
type Entry struct {
	Seq     int64          `json:"seq"`
	At      time.Time      `json:"at"`
	Intent  string         `json:"intent"`
	NodeID  string         `json:"nodeId,omitempty"`
	Outcome string         `json:"outcome"`
	Detail  map[string]any `json:"detail,omitempty"`
}

// Journal is an append-only intent log.
type Journal struct {
	db        *sql.DB
	sessionID string
}

// Open opens (creating if needed) the journal at dsn. An empty dsn or MemoryDSN uses a
// private in-memory database.
func Open(ctx context.Context, dsn string) (*Journal, error) {
	dsn = strings.TrimSpace(dsn)
	memory := dsn == "" || dsn == MemoryDSN
	if memory {
		dsn = MemoryDSN
	}

	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	// One connection: an in-memory database exists per connection, and the event loop
	// writes serially anyway.
	db.SetMaxOpenConns(1)

	pragmas := []string{"PRAGMA busy_timeout=5000;"}
	if !memory {
		pragmas = append(pragmas,
			"PRAGMA journal_mode=WAL;",
			"PRAGMA synchronous=NORMAL;",
		)
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("open journal: %w", err)
		}
	}
	if err := migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate journal: %w", err)
	}
	sid, err := ensureMetaUUID(ctx, db, "session_id")
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Journal{db: db, sessionID: sid}, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			k TEXT PRIMARY KEY,
			v TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS intents (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			ts_unixms INTEGER NOT NULL,
			intent TEXT NOT NULL,
			node_id TEXT NOT NULL,
			outcome TEXT NOT NULL,
			detail_json TEXT
		);`,
		`CREATE INDEX IF NOT EXISTS idx_intents_node ON intents(node_id, seq);`,
	}
	for _, st := range stmts {
		if _, err := db.ExecContext(ctx, st); err != nil {
			return err
		}
	}
	return nil
}

func ensureMetaUUID(ctx context.Context, db *sql.DB, key string) (string, error) {
	var v string
	err := db.QueryRowContext(ctx, `SELECT v FROM meta WHERE k = ?`, key).Scan(&v)
	if err == nil && strings.TrimSpace(v) != "" {
		return v, nil
	}
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return "", err
	}
	v = uuid.NewString()
	if _, err := db.ExecContext(ctx, `INSERT OR REPLACE INTO meta(k, v) VALUES(?, ?)`, key, v); err != nil {
		return "", err
	}
	return v, nil
}

// SessionID identifies the journal. A file journal keeps its id across runs.
func (j *Journal) SessionID() string { return j.sessionID }

// Close releases the database.
func (j *Journal) Close() error {
	if j == nil || j.db == nil {
		return nil
	}
	return j.db.Close()
}

// Record appends e and returns its sequence number. A zero At is stamped with the
// current time.
func (j *Journal) Record(ctx context.Context, e Entry) (int64, error) {
	if strings.TrimSpace(e.Intent) == "" {
		return 0, errors.New("journal: empty intent")
	}
	at := e.At
	if at.IsZero() {
		at = time.Now()
	}
	var detail sql.NullString
	if len(e.Detail) > 0 {
		b, err := json.Marshal(e.Detail)
		if err != nil {
			return 0, fmt.Errorf("journal: encode detail: %w", err)
		}
		detail = sql.NullString{String: string(b), Valid: true}
	}
	res, err := j.db.ExecContext(ctx,
		`INSERT INTO intents(ts_unixms, intent, node_id, outcome, detail_json) VALUES(?, ?, ?, ?, ?)`,
		at.UnixMilli(), e.Intent, e.NodeID, e.Outcome, detail,
	)
	if err != nil {
		return 0, fmt.Errorf("journal: record %s: %w", e.Intent, err)
	}
	return res.LastInsertId()
}

// Entries returns entries in order. limit <= 0 returns all of them.
func (j *Journal) Entries(ctx context.Context, limit int) ([]Entry, error) {
	q := `SELECT seq, ts_unixms, intent, node_id, outcome, detail_json FROM intents ORDER BY seq ASC`
	var args []any
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}
	return j.query(ctx, q, args...)
}

// Tail returns the last n entries, oldest first.
func (j *Journal) Tail(ctx context.Context, n int) ([]Entry, error) {
	if n <= 0 {
		return nil, nil
	}
	out, err := j.query(ctx,
		`SELECT seq, ts_unixms, intent, node_id, outcome, detail_json FROM intents ORDER BY seq DESC LIMIT ?`, n)
	if err != nil {
		return nil, err
	}
	for i, k := 0, len(out)-1; i < k; i, k = i+1, k-1 {
		out[i], out[k] = out[k], out[i]
	}
	return out, nil
}

// ForNode returns the entries that targeted nodeID, in order.
func (j *Journal) ForNode(ctx context.Context, nodeID string) ([]Entry, error) {
	return j.query(ctx,
		`SELECT seq, ts_unixms, intent, node_id, outcome, detail_json FROM intents WHERE node_id = ? ORDER BY seq ASC`,
		strings.TrimSpace(nodeID))
}

func (j *Journal) query(ctx context.Context, q string, args ...any) ([]Entry, error) {
	rows, err := j.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("journal: query: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			e      Entry
			ms     int64
			detail sql.NullString
		)
		if err := rows.Scan(&e.Seq, &ms, &e.Intent, &e.NodeID, &e.Outcome, &detail); err != nil {
			return nil, err
		}
		e.At = time.UnixMilli(ms).UTC()
		if detail.Valid && detail.String != "" {
			if err := json.Unmarshal([]byte(detail.String), &e.Detail); err != nil {
				return nil, fmt.Errorf("journal: decode detail of #%d: %w", e.Seq, err)
			}
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
