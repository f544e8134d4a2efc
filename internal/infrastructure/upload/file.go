package upload

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Extension returns the lowercased extension without the leading dot
func Extension(filename string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
}

// ValidateFile checks an upload's extension and size against policy
func ValidateFile(filename string, size, maxSize int64, allowedExtensions []string) error {
	ext := Extension(filename)
	allowed := false
	for _, a := range allowedExtensions {
		if ext == strings.ToLower(a) {
			allowed = true
			break
		}
	}
	if !allowed {
		return fmt.Errorf("%w: .%s (allowed: %s)", ErrUnsupportedFormat, ext, strings.Join(allowedExtensions, ", "))
	}

	if size <= 0 {
		return ErrEmptyFile
	}
	if maxSize > 0 && size > maxSize {
		return fmt.Errorf("%w: %d bytes (limit %d)", ErrFileTooLarge, size, maxSize)
	}
	return nil
}

// Parse dispatches to the CSV or Excel parser based on the filename
func Parse(filename string, r io.Reader) ([]*Row, error) {
	switch Extension(filename) {
	case "csv":
		return ParseCSV(r)
	case "xlsx":
		return ParseExcel(r)
	case "xls":
		return ParseXLS(r)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filename)
	}
}

// Store saves an upload under dir and returns the stored path. The name
// carries a timestamp for operators and a random fragment so same-named
// uploads in the same second cannot overwrite each other. Callers remove
// the file once row processing finishes.
func Store(dir, filename string, r io.Reader) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("upload: failed to create upload directory: %w", err)
	}

	base := filepath.Base(filename)
	name := fmt.Sprintf("%s_%s_%s", time.Now().Format("20060102_150405"), uuid.NewString()[:8], base)
	path := filepath.Join(dir, name)

	out, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("upload: failed to save file: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, r); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("upload: failed to write file: %w", err)
	}
	return path, nil
}
