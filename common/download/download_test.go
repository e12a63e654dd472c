package download

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFilenameUsesMockedClock(t *testing.T) {
	w := &Writer{Now: func() time.Time {
		return time.Date(2026, 3, 7, 23, 59, 0, 0, time.UTC)
	}}

	got := w.Filename("audit_logs", "csv")
	if got != "audit_logs_2026-03-07.csv" {
		t.Errorf("Filename = %q, want audit_logs_2026-03-07.csv", got)
	}
}

func TestSaveCSV(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir)
	w.Now = func() time.Time { return time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC) }

	path, err := w.SaveCSV("attendees", []byte("name,email\nEmily Davis,emily@campus.edu\n"))
	if err != nil {
		t.Fatalf("SaveCSV: %v", err)
	}
	if filepath.Base(path) != "attendees_2026-09-01.csv" {
		t.Errorf("unexpected filename %q", filepath.Base(path))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != "name,email\nEmily Davis,emily@campus.edu\n" {
		t.Errorf("content mismatch: %q", data)
	}
}
