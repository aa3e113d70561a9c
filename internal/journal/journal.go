// Package journal records every invocation the node executes, with its
// outcome and emitted events, in SQLite.
package journal

import (
	"encoding/json"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	_ "modernc.org/sqlite"
)

// Receipt is the outcome of one invocation.
type Receipt struct {
	TxID       string `db:"tx_id" json:"txId"`
	Target     string `db:"target" json:"target"`
	Method     string `db:"method" json:"method"`
	Payload    string `db:"payload" json:"payload"`
	Sender     string `db:"sender" json:"sender"`
	Timestamp  uint64 `db:"ts" json:"ts"`
	OK         bool   `db:"ok" json:"ok"`
	Result     string `db:"result" json:"result,omitempty"`
	Error      string `db:"error" json:"error,omitempty"`
	DurationUS int64  `db:"duration_us" json:"durationUs"`
}

// Event is one log line emitted by a committed invocation.
type Event struct {
	ID   int64  `db:"id" json:"id"`
	TxID string `db:"tx_id" json:"txId"`
	Seq  int    `db:"seq" json:"seq"`
	Type string `db:"type" json:"type"`
	Body string `db:"body" json:"body"`
}

// Journal wraps a SQLite connection.
type Journal struct {
	conn *sqlx.DB
}

// Open opens or creates the journal at path. ":memory:" works for tests.
func Open(path string) (*Journal, error) {
	dsn := path
	if path != ":memory:" {
		dsn += "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}
	conn, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "open journal")
	}
	if path == ":memory:" {
		conn.SetMaxOpenConns(1)
	}
	j := &Journal{conn: conn}
	if err := j.migrate(); err != nil {
		conn.Close()
		return nil, errors.Wrap(err, "migrate journal")
	}
	return j, nil
}

func (j *Journal) Close() error { return j.conn.Close() }

func (j *Journal) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS receipts (
		tx_id TEXT PRIMARY KEY,
		target TEXT NOT NULL,
		method TEXT NOT NULL,
		payload TEXT NOT NULL,
		sender TEXT NOT NULL,
		ts INTEGER NOT NULL,
		ok INTEGER NOT NULL,
		result TEXT NOT NULL DEFAULT '',
		error TEXT NOT NULL DEFAULT '',
		duration_us INTEGER NOT NULL,
		seq INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		tx_id TEXT NOT NULL,
		seq INTEGER NOT NULL,
		type TEXT NOT NULL,
		body TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_receipts_seq ON receipts(seq);
	CREATE INDEX IF NOT EXISTS idx_events_tx ON events(tx_id);
	CREATE INDEX IF NOT EXISTS idx_events_type ON events(type);
	`
	_, err := j.conn.Exec(schema)
	return err
}

// Record stores a receipt and its events in one transaction.
func (j *Journal) Record(r Receipt, events []string) error {
	tx, err := j.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`INSERT INTO receipts
		(tx_id, target, method, payload, sender, ts, ok, result, error, duration_us, seq)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM receipts))`,
		r.TxID, r.Target, r.Method, r.Payload, r.Sender, r.Timestamp, r.OK, r.Result, r.Error, r.DurationUS); err != nil {
		return errors.Wrapf(err, "insert receipt %s", r.TxID)
	}

	stmt, err := tx.Preparex(`INSERT INTO events (tx_id, seq, type, body) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for i, body := range events {
		if _, err := stmt.Exec(r.TxID, i, eventType(body), body); err != nil {
			return errors.Wrapf(err, "insert event %d of %s", i, r.TxID)
		}
	}
	return tx.Commit()
}

// eventType pulls the "type" field out of a JSON event, or returns "raw".
func eventType(body string) string {
	var head struct {
		Type string `json:"type"`
	}
	if json.Unmarshal([]byte(body), &head) != nil || head.Type == "" {
		return "raw"
	}
	return head.Type
}

// Receipts returns the most recent receipts, newest first.
func (j *Journal) Receipts(limit int) ([]Receipt, error) {
	var out []Receipt
	err := j.conn.Select(&out, `SELECT tx_id, target, method, payload, sender, ts, ok, result, error, duration_us
		FROM receipts ORDER BY seq DESC LIMIT ?`, limit)
	return out, err
}

// Receipt returns one receipt by transaction id.
func (j *Journal) Receipt(txID string) (*Receipt, error) {
	var r Receipt
	err := j.conn.Get(&r, `SELECT tx_id, target, method, payload, sender, ts, ok, result, error, duration_us
		FROM receipts WHERE tx_id = ?`, txID)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// Events returns the events of txID in emission order.
func (j *Journal) Events(txID string) ([]Event, error) {
	var out []Event
	err := j.conn.Select(&out, `SELECT id, tx_id, seq, type, body FROM events WHERE tx_id = ? ORDER BY seq`, txID)
	return out, err
}

// EventsOfType returns every event of the given type in commit order.
func (j *Journal) EventsOfType(typ string) ([]Event, error) {
	var out []Event
	err := j.conn.Select(&out, `SELECT id, tx_id, seq, type, body FROM events WHERE type = ? ORDER BY id`, typ)
	return out, err
}
