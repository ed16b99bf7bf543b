package source

import (
	"database/sql"
	"fmt"
	"io/fs"
	"path/filepath"
	"strconv"
	"time"

	_ "modernc.org/sqlite" // register sqlite driver
)

// appleEpoch is the reference instant for iPhone message timestamps.
var appleEpoch = time.Date(2001, 1, 1, 0, 0, 0, 0, time.UTC)

// FindMessageDB walks an iPhone backup directory looking for the SQLite
// database that contains a "message" table. Backups store files under
// hashed names, so every file is probed. Returns "" when none is found.
func FindMessageDB(backupDir string) (string, error) {
	var found string

	err := filepath.WalkDir(backupDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil //nolint:nilerr // skip unreadable entries
		}
		if d.IsDir() || found != "" {
			return nil
		}
		if hasMessageTable(path) {
			found = path
			return filepath.SkipAll
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("scanning backup %s: %w", backupDir, err)
	}

	return found, nil
}

func hasMessageTable(path string) bool {
	db, err := sql.Open("sqlite", path+"?mode=ro")
	if err != nil {
		return false
	}
	defer func() { _ = db.Close() }()

	var name string
	err = db.QueryRow(
		"SELECT name FROM sqlite_master WHERE type='table' AND name='message'",
	).Scan(&name)
	return err == nil && name == "message"
}

// ReadBackupDB extracts messages from an iPhone backup message database.
// Message dates are seconds since the Apple epoch (2001-01-01 UTC); a NULL
// or zero date yields a zero timestamp.
func ReadBackupDB(dbPath string) ([]RawMessage, error) {
	db, err := sql.Open("sqlite", dbPath+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("opening backup db: %w", err)
	}
	defer func() { _ = db.Close() }()

	rows, err := db.Query("SELECT ROWID, address, date, text FROM message")
	if err != nil {
		return nil, fmt.Errorf("querying messages: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var msgs []RawMessage
	for rows.Next() {
		var (
			rowid   int64
			address sql.NullString
			date    sql.NullInt64
			body    sql.NullString
		)
		if err := rows.Scan(&rowid, &address, &date, &body); err != nil {
			return nil, fmt.Errorf("scanning message row: %w", err)
		}

		m := RawMessage{
			ID:      strconv.FormatInt(rowid, 10),
			Address: address.String,
			Body:    body.String,
		}
		if date.Valid && date.Int64 > 0 {
			m.Timestamp = appleEpoch.Add(time.Duration(date.Int64) * time.Second)
		}
		msgs = append(msgs, m)
	}

	return msgs, rows.Err()
}
