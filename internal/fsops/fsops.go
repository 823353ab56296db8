package fsops

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// CheckWritable checks if a directory is writable by creating and removing a probe file
func CheckWritable(fs afero.Fs, path string) error {
	testFile := filepath.Join(path, ".write_test")
	f, err := fs.Create(testFile)
	if err != nil {
		return fmt.Errorf("path not writable: %w", err)
	}
	f.Close()
	fs.Remove(testFile)
	return nil
}

// EnsureDir ensures a directory exists with the given permissions
func EnsureDir(fs afero.Fs, path string, perm os.FileMode) error {
	if err := fs.MkdirAll(path, perm); err != nil {
		return fmt.Errorf("ensure directory: %w", err)
	}
	return nil
}

// EnsureParentDir ensures the directory containing path exists
func EnsureParentDir(fs afero.Fs, path string) error {
	return EnsureDir(fs, filepath.Dir(path), 0755)
}

// Exists checks if a path exists
func Exists(fs afero.Fs, path string) bool {
	_, err := fs.Stat(path)
	return err == nil
}

// IsDir checks if a path is a directory
func IsDir(fs afero.Fs, path string) bool {
	info, err := fs.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// ReadString reads a whole file as text. Missing or unreadable files yield
// an empty string and ok=false.
func ReadString(fs afero.Fs, path string) (string, bool) {
	content, err := afero.ReadFile(fs, path)
	if err != nil {
		return "", false
	}
	return string(content), true
}
