// Package adapter contains the infrastructure adapters used by the designer cleaner.
package adapter

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	m "cleandesigner.dev/pkg/cleandesigner/internal/model"
)

const defaultFileMode os.FileMode = 0o644

// SourceFSAdapter abstracts filesystem-specific operations that the domain layer
// relies on when scanning a directory of designer files. It hides direct `os`
// access so the workflow logic can be tested against an in-memory filesystem.
type SourceFSAdapter interface {
	// ListFiles returns the names of the regular files directly inside dir,
	// sorted by name. Sub-directories are never visited.
	ListFiles(ctx context.Context, dir m.Path) ([]string, error)

	// FileInfo returns metadata for a path so the domain can check existence.
	FileInfo(ctx context.Context, path m.Path) (os.FileInfo, error)

	// Exists reports whether path exists and is a regular file.
	Exists(ctx context.Context, path m.Path) (bool, error)

	// ReadFile loads a file from disk and returns its contents.
	ReadFile(ctx context.Context, path m.Path) ([]byte, error)

	// WriteFileAtomic replaces the file at path with content. Either the whole
	// new content is visible afterwards or the previous file is left untouched.
	WriteFileAtomic(ctx context.Context, path m.Path, content []byte) error
}

// LocalSourceFSAdapter implements SourceFSAdapter on top of an afero filesystem.
type LocalSourceFSAdapter struct {
	fs afero.Fs
}

// NewLocalSourceFSAdapter constructs an adapter backed by the operating system filesystem.
func NewLocalSourceFSAdapter() *LocalSourceFSAdapter {
	return NewSourceFSAdapter(afero.NewOsFs())
}

// NewSourceFSAdapter constructs an adapter backed by the provided filesystem.
func NewSourceFSAdapter(fs afero.Fs) *LocalSourceFSAdapter {
	return &LocalSourceFSAdapter{fs: fs}
}

// ListFiles lists regular files directly inside dir.
func (a *LocalSourceFSAdapter) ListFiles(ctx context.Context, dir m.Path) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	infos, err := afero.ReadDir(a.fs, string(dir))
	if err != nil {
		return nil, fmt.Errorf("read directory %s: %w", dir, err)
	}

	names := make([]string, 0, len(infos))

	for _, info := range infos {
		if info.IsDir() {
			continue
		}

		names = append(names, info.Name())
	}

	return names, nil
}

// FileInfo returns os.FileInfo metadata for the given path.
func (a *LocalSourceFSAdapter) FileInfo(ctx context.Context, path m.Path) (os.FileInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return a.fs.Stat(string(path))
}

// Exists reports whether path is an existing regular file.
func (a *LocalSourceFSAdapter) Exists(ctx context.Context, path m.Path) (bool, error) {
	info, err := a.FileInfo(ctx, path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}

		return false, err
	}

	return !info.IsDir(), nil
}

// ReadFile loads file contents.
func (a *LocalSourceFSAdapter) ReadFile(ctx context.Context, path m.Path) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return afero.ReadFile(a.fs, string(path))
}

// WriteFileAtomic writes content to a temporary file next to path and renames
// it over path, keeping the permissions of the file it replaces.
func (a *LocalSourceFSAdapter) WriteFileAtomic(ctx context.Context, path m.Path, content []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	target := string(path)

	perm := defaultFileMode
	if info, err := a.fs.Stat(target); err == nil {
		perm = info.Mode().Perm()
	}

	tmp, err := afero.TempFile(a.fs, filepath.Dir(target), "."+filepath.Base(target)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file for %s: %w", target, err)
	}

	tmpName := tmp.Name()
	committed := false

	defer func() {
		if committed {
			return
		}

		if removeErr := a.fs.Remove(tmpName); removeErr != nil && !errors.Is(removeErr, fs.ErrNotExist) {
			slog.Error("Failed to remove temp file", "path", tmpName, "error", removeErr)
		}
	}()

	if _, err := tmp.Write(content); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp file for %s: %w", target, err)
	}

	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync temp file for %s: %w", target, err)
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file for %s: %w", target, err)
	}

	if err := a.fs.Chmod(tmpName, perm); err != nil {
		return fmt.Errorf("chmod temp file for %s: %w", target, err)
	}

	if err := a.fs.Rename(tmpName, target); err != nil {
		return fmt.Errorf("replace %s: %w", target, err)
	}

	committed = true

	slog.Debug("replaced file", "path", target, "bytes", len(content))

	return nil
}
