// Package workspace provides file and buffer access to assembly modules and
// an index of the functions they define.
package workspace

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// FileProvider reads and writes modules on disk. Relative paths are resolved
// against Root when it is set.
type FileProvider struct {
	Root string
}

func (p FileProvider) resolve(path string) string {
	if p.Root == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(p.Root, path)
}

// Read returns the module text at path.
func (p FileProvider) Read(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := os.ReadFile(p.resolve(path))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Write replaces the module at path with text. The new content is written to
// a temporary file in the same directory and renamed over the original, so
// readers never observe a partial module.
func (p FileProvider) Write(ctx context.Context, path, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	target := p.resolve(path)

	mode := os.FileMode(0o644)
	if fi, err := os.Stat(target); err == nil {
		mode = fi.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(target), "."+filepath.Base(target)+".*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.WriteString(text); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, mode); err != nil {
		return err
	}
	return os.Rename(tmpName, target)
}
