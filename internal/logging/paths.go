package logging

import (
	"fmt"
	"os"
	"path/filepath"

	amerrors "github.com/Aman-CERP/streamlog/internal/errors"
)

// probeName is created and removed by EnsureLogDir to prove write access.
const probeName = ".streamlog-probe"

// DefaultLogDir returns the default log directory (<tmp>/streamlog).
func DefaultLogDir() string {
	return filepath.Join(os.TempDir(), "streamlog")
}

// EnsureLogDir creates dir if it does not exist and verifies that it can be
// read and written. An existing directory is reused as is.
func EnsureLogDir(dir string) error {
	info, err := os.Stat(dir)
	switch {
	case err == nil && !info.IsDir():
		return amerrors.DirectoryError(dir, fmt.Errorf("path exists and is not a directory"))
	case err != nil && !os.IsNotExist(err):
		return amerrors.DirectoryError(dir, err)
	case err != nil:
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return amerrors.DirectoryError(dir, err)
		}
	}

	if _, err := os.ReadDir(dir); err != nil {
		return amerrors.DirectoryError(dir, err)
	}

	probe := filepath.Join(dir, probeName)
	f, err := os.OpenFile(probe, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return amerrors.DirectoryError(dir, err)
	}
	_ = f.Close()
	if err := os.Remove(probe); err != nil {
		return amerrors.DirectoryError(dir, err)
	}

	return nil
}
