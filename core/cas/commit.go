package cas

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// osRename is a variable to allow testing of rename errors.
var osRename = os.Rename

// tempFileWrite is a function variable for writing to temp files (for testing).
var tempFileWrite = func(f *os.File, data []byte) (int, error) {
	return f.Write(data)
}

// tempFileClose is a function variable for closing temp files (for testing).
var tempFileClose = func(f io.Closer) error {
	return f.Close()
}

// File is one file of a commit.
type File struct {
	Path string
	Data []byte
}

// WriteFile writes data to path atomically using a temp file in the same
// directory and a rename.
func WriteFile(path string, data []byte) error {
	return Commit([]File{{Path: path, Data: data}})
}

// Commit writes every file to a temp file next to its destination, then
// renames them into place. No destination is touched unless every temp file
// was written and closed.
func Commit(files []File) error {
	temps := make([]string, 0, len(files))
	cleanup := func() {
		for _, p := range temps {
			os.Remove(p)
		}
	}

	for _, f := range files {
		dir := filepath.Dir(f.Path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			cleanup()
			return fmt.Errorf("failed to create directory: %w", err)
		}

		tempFile, err := os.CreateTemp(dir, "."+filepath.Base(f.Path)+"-*")
		if err != nil {
			cleanup()
			return fmt.Errorf("failed to create temp file: %w", err)
		}
		temps = append(temps, tempFile.Name())

		if err := tempFile.Chmod(0644); err != nil {
			tempFileClose(tempFile)
			cleanup()
			return fmt.Errorf("failed to set permissions: %w", err)
		}

		if _, err := tempFileWrite(tempFile, f.Data); err != nil {
			tempFileClose(tempFile)
			cleanup()
			return fmt.Errorf("failed to write %s: %w", f.Path, err)
		}
		if err := tempFileClose(tempFile); err != nil {
			cleanup()
			return fmt.Errorf("failed to close temp file: %w", err)
		}
	}

	for i, f := range files {
		if err := osRename(temps[i], f.Path); err != nil {
			cleanup()
			return fmt.Errorf("failed to rename %s: %w", f.Path, err)
		}
	}
	return nil
}
