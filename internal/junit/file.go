package junit

import (
	"os"
	"path/filepath"
)

// WriteFile writes the report for suites to path via temp file + rename, so
// readers never observe a partial document. Parent directories are created.
func WriteFile(path string, suites []*TestSuite) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &WriteError{Err: err}
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*.xml")
	if err != nil {
		return &WriteError{Err: err}
	}
	tmpName := tmp.Name()

	ok := false
	defer func() {
		_ = tmp.Close()
		if !ok {
			_ = os.Remove(tmpName)
		}
	}()

	if err := tmp.Chmod(0o644); err != nil {
		return &WriteError{Err: err}
	}
	if err := Write(tmp, suites); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return &WriteError{Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &WriteError{Err: err}
	}
	if err := os.Rename(tmpName, path); err != nil {
		return &WriteError{Err: err}
	}
	ok = true
	return nil
}
