// Package download writes exported files (CSV, PDF) to disk using the
// <resource>_<YYYY-MM-DD>.<ext> naming convention the export endpoints
// follow.
package download

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Writer saves export payloads. Now is injectable so tests can pin the
// date embedded in filenames.
type Writer struct {
	Dir string
	Now func() time.Time
}

// NewWriter creates a Writer targeting dir
func NewWriter(dir string) *Writer {
	return &Writer{Dir: dir, Now: time.Now}
}

// Filename returns "<resource>_<YYYY-MM-DD>.<ext>" for today
func (w *Writer) Filename(resource, ext string) string {
	now := time.Now()
	if w.Now != nil {
		now = w.Now()
	}
	return fmt.Sprintf("%s_%s.%s", resource, now.Format("2006-01-02"), ext)
}

// Save writes data under the dated filename and returns the full path
func (w *Writer) Save(resource, ext string, data []byte) (string, error) {
	dir := w.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create download directory: %w", err)
	}

	path := filepath.Join(dir, w.Filename(resource, ext))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}

// SaveCSV writes CSV text under "<resource>_<date>.csv"
func (w *Writer) SaveCSV(resource string, data []byte) (string, error) {
	return w.Save(resource, "csv", data)
}

// SavePDF writes PDF bytes under "<resource>_<date>.pdf"
func (w *Writer) SavePDF(resource string, data []byte) (string, error) {
	return w.Save(resource, "pdf", data)
}
