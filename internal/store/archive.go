// Package store provides the SQLite-backed message archive. Imported dumps
// land here so report runs never need the device connected.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"smsledger/internal/source"

	_ "modernc.org/sqlite" // register sqlite driver
)

// Archive is the local message store.
type Archive struct {
	db *sql.DB
}

// Path returns the archive database location under the given data dir.
func Path(dataDir string) string {
	return filepath.Join(dataDir, "archive.db")
}

// Open opens or creates the archive database at the given path.
func Open(dbPath string) (*Archive, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating archive dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)")
	if err != nil {
		return nil, fmt.Errorf("opening archive db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Archive{db: db}, nil
}

// Close closes the archive database.
func (a *Archive) Close() error {
	return a.db.Close()
}

// SaveMessages upserts a batch of raw messages. Re-importing the same dump
// is idempotent: rows are keyed by (message_id, address).
func (a *Archive) SaveMessages(msgs []source.RawMessage) error {
	tx, err := a.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(`INSERT OR REPLACE INTO messages
		(message_id, address, ts, body, imported_at)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer func() { _ = stmt.Close() }()

	now := time.Now().UTC().Format(time.RFC3339)
	for _, m := range msgs {
		ts := ""
		if !m.Timestamp.IsZero() {
			ts = m.Timestamp.UTC().Format(time.RFC3339)
		}
		if _, err := stmt.Exec(m.ID, m.Address, ts, m.Body, now); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// LoadMessages reads all archived messages ordered by timestamp then ID,
// so pipeline runs over the archive are deterministic.
func (a *Archive) LoadMessages() ([]source.RawMessage, error) {
	rows, err := a.db.Query(
		"SELECT message_id, address, ts, body FROM messages ORDER BY ts, message_id")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var msgs []source.RawMessage
	for rows.Next() {
		var m source.RawMessage
		var ts, address, body sql.NullString
		if err := rows.Scan(&m.ID, &address, &ts, &body); err != nil {
			return nil, err
		}
		m.Address = address.String
		m.Body = body.String
		if ts.Valid && ts.String != "" {
			m.Timestamp, _ = time.Parse(time.RFC3339, ts.String)
		}
		msgs = append(msgs, m)
	}

	return msgs, rows.Err()
}

// Count returns the number of archived messages.
func (a *Archive) Count() (int, error) {
	var count int
	err := a.db.QueryRow("SELECT COUNT(*) FROM messages").Scan(&count)
	return count, err
}
