package db

import (
	"path/filepath"
	"testing"
)

func TestNew_CreatesDatabase(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	database, err := New(dbPath, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer database.Close()

	tables := []string{"submissions", "_migrations"}
	for _, table := range tables {
		var name string
		err := database.Conn().QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %s not found: %v", table, err)
		}
	}
}

func TestNew_WALEnabled(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	database, err := New(dbPath, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer database.Close()

	var journalMode string
	err = database.Conn().QueryRow("PRAGMA journal_mode").Scan(&journalMode)
	if err != nil {
		t.Fatalf("PRAGMA journal_mode error = %v", err)
	}

	if journalMode != "wal" {
		t.Errorf("journal_mode = %s, want wal", journalMode)
	}
}

func TestNew_MigrationsIdempotent(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	db1, err := New(dbPath, nil)
	if err != nil {
		t.Fatalf("first New() error = %v", err)
	}
	db1.Close()

	db2, err := New(dbPath, nil)
	if err != nil {
		t.Fatalf("second New() error = %v", err)
	}
	defer db2.Close()

	var count int
	err = db2.Conn().QueryRow("SELECT COUNT(*) FROM _migrations").Scan(&count)
	if err != nil {
		t.Fatalf("count migrations error = %v", err)
	}

	if count != 2 {
		t.Errorf("migration count = %d, want 2", count)
	}
}

func TestMarkInterruptedSubmissions(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	db1, err := New(dbPath, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	_, err = db1.Conn().Exec(`
		INSERT INTO submissions (id, kind, target, status, progress, created_at, updated_at)
		VALUES ('in-flight', 'file', 'clip.mp4', 'submitting', 50, datetime('now'), datetime('now')),
		       ('done', 'link', 'https://example.com/video', 'succeeded', 0, datetime('now'), datetime('now'))
	`)
	if err != nil {
		t.Fatalf("insert submission error = %v", err)
	}
	db1.Close()

	db2, err := New(dbPath, nil)
	if err != nil {
		t.Fatalf("second New() error = %v", err)
	}
	defer db2.Close()

	var status, msg string
	err = db2.Conn().QueryRow("SELECT status, message FROM submissions WHERE id = 'in-flight'").Scan(&status, &msg)
	if err != nil {
		t.Fatalf("query submission error = %v", err)
	}

	if status != "failed" {
		t.Errorf("submission status = %s, want failed", status)
	}
	if msg != "interrupted by restart" {
		t.Errorf("submission message = %s, want 'interrupted by restart'", msg)
	}

	err = db2.Conn().QueryRow("SELECT status FROM submissions WHERE id = 'done'").Scan(&status)
	if err != nil {
		t.Fatalf("query submission error = %v", err)
	}
	if status != "succeeded" {
		t.Errorf("finished submission status = %s, want succeeded", status)
	}
}
