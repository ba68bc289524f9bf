package reporting

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// ErrOutputExists is returned when the output file is already present.
// Results are never overwritten.
var ErrOutputExists = errors.New("output file already exists")

// CheckOutputPath fails with ErrOutputExists if path is taken, so a run can
// stop before scoring.
func CheckOutputPath(path string) error {
	_, err := os.Lstat(path)
	if err == nil {
		return fmt.Errorf("%w: %s", ErrOutputExists, path)
	}
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("stat output %s: %w", path, err)
}

// WriteNewFile creates path and writes data to it. The file must not exist.
func WriteNewFile(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("%w: %s", ErrOutputExists, path)
		}
		return fmt.Errorf("create output %s: %w", path, err)
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("write output %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close output %s: %w", path, err)
	}
	return nil
}
