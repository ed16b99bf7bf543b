package source

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeMessageDB(t *testing.T, path string) {
	t.Helper()
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("opening db: %v", err)
	}
	defer func() { _ = db.Close() }()

	if _, err := db.Exec(`CREATE TABLE message (
		ROWID INTEGER PRIMARY KEY,
		address TEXT,
		date INTEGER,
		text TEXT
	)`); err != nil {
		t.Fatalf("creating table: %v", err)
	}

	// 2025-10-02 10:30:00 UTC in seconds since the Apple epoch.
	appleSecs := time.Date(2025, 10, 2, 10, 30, 0, 0, time.UTC).Sub(appleEpoch) / time.Second
	rows := []struct {
		rowid   int
		address string
		date    any
		text    string
	}{
		{1, "HDFCBK", int64(appleSecs), "Rs.500 debited from your account"},
		{2, "VM-OTP", nil, "no date on this one"},
		{3, "AXISBK", 0, "zero date"},
	}
	for _, r := range rows {
		if _, err := db.Exec(
			"INSERT INTO message (ROWID, address, date, text) VALUES (?, ?, ?, ?)",
			r.rowid, r.address, r.date, r.text,
		); err != nil {
			t.Fatalf("inserting row: %v", err)
		}
	}
}

func TestReadBackupDB(t *testing.T) {
	path := filepath.Join(t.TempDir(), "3d0d7e5fb2ce288813306e4d4636395e047a3d28")
	writeMessageDB(t, path)

	msgs, err := ReadBackupDB(path)
	if err != nil {
		t.Fatalf("ReadBackupDB: %v", err)
	}
	if len(msgs) != 3 {
		t.Fatalf("got %d messages, want 3", len(msgs))
	}

	want := time.Date(2025, 10, 2, 10, 30, 0, 0, time.UTC)
	if !msgs[0].Timestamp.Equal(want) {
		t.Errorf("timestamp = %v, want %v", msgs[0].Timestamp, want)
	}
	if msgs[0].ID != "1" || msgs[0].Address != "HDFCBK" {
		t.Errorf("row 0 = %+v", msgs[0])
	}

	// NULL and zero dates both yield the zero time.
	if !msgs[1].Timestamp.IsZero() {
		t.Errorf("NULL date timestamp = %v, want zero", msgs[1].Timestamp)
	}
	if !msgs[2].Timestamp.IsZero() {
		t.Errorf("zero date timestamp = %v, want zero", msgs[2].Timestamp)
	}
}

func TestFindMessageDB(t *testing.T) {
	backupDir := t.TempDir()

	// Hash-named subdirectories as in a real backup layout.
	sub := filepath.Join(backupDir, "3d")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatal(err)
	}

	// Decoy files that are not the message database.
	if err := os.WriteFile(filepath.Join(backupDir, "Manifest.plist"), []byte("not a db"), 0o600); err != nil {
		t.Fatal(err)
	}

	dbPath := filepath.Join(sub, "3d0d7e5fb2ce288813306e4d4636395e047a3d28")
	writeMessageDB(t, dbPath)

	found, err := FindMessageDB(backupDir)
	if err != nil {
		t.Fatalf("FindMessageDB: %v", err)
	}
	if found != dbPath {
		t.Errorf("found %q, want %q", found, dbPath)
	}
}

func TestFindMessageDBNotFound(t *testing.T) {
	backupDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(backupDir, "Info.plist"), []byte("xml"), 0o600); err != nil {
		t.Fatal(err)
	}

	found, err := FindMessageDB(backupDir)
	if err != nil {
		t.Fatalf("FindMessageDB: %v", err)
	}
	if found != "" {
		t.Errorf("found %q, want empty", found)
	}
}
