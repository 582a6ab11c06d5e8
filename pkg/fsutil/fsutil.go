// Package fsutil provides the file system primitives of gomdrender:
// context-aware source reads with change detection, atomic output writes
// and sidecar backups of outputs that are about to be replaced.
package fsutil

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"os"
	"time"
)

// Sentinel errors for error categorization via errors.Is.
var (
	// ErrNilSource is returned when a nil Source is passed.
	ErrNilSource = errors.New("nil source")

	// ErrNotFound indicates the file does not exist.
	ErrNotFound = errors.New("file not found")

	// ErrPermissionDenied indicates a permission error.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrIsDirectory indicates the path is a directory, not a file.
	ErrIsDirectory = errors.New("path is a directory")
)

// StdinPath is the path that names standard input.
const StdinPath = "-"

// Source captures the state of a Markdown source at the moment it was read.
type Source struct {
	// Path is the path the source was read from, StdinPath for stdin.
	Path string

	// ModTime is the file's modification time.
	ModTime time.Time

	// Size is the source size in bytes.
	Size int64

	// Hash is the SHA-256 hash of the content.
	Hash [32]byte
}

// ReadSource reads the Markdown source at path. A path of StdinPath reads
// r instead; r may be nil for file paths.
func ReadSource(ctx context.Context, path string, r io.Reader) ([]byte, *Source, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, fmt.Errorf("read source: %w", err)
	}

	if path == StdinPath {
		content, err := io.ReadAll(r)
		if err != nil {
			return nil, nil, fmt.Errorf("read stdin: %w", err)
		}
		return content, &Source{Path: path, Size: int64(len(content)), Hash: sha256.Sum256(content)}, nil
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, nil, classify(path, err)
	}
	if stat.IsDir() {
		return nil, nil, fmt.Errorf("%w: %s", ErrIsDirectory, path)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, classify(path, err)
	}

	return content, &Source{
		Path:    path,
		ModTime: stat.ModTime(),
		Size:    stat.Size(),
		Hash:    sha256.Sum256(content),
	}, nil
}

func classify(path string, err error) error {
	switch {
	case errors.Is(err, os.ErrNotExist):
		return fmt.Errorf("%w: %s: %w", ErrNotFound, path, err)
	case errors.Is(err, os.ErrPermission):
		return fmt.Errorf("%w: %s: %w", ErrPermissionDenied, path, err)
	default:
		return fmt.Errorf("read %s: %w", path, err)
	}
}

// Changed reports whether the file behind src differs from what was read.
// Mod time and size are compared first; when they match the content is
// hashed again. A deleted file counts as changed. Stdin never changes.
func Changed(ctx context.Context, src *Source) (bool, error) {
	if src == nil {
		return false, ErrNilSource
	}
	if src.Path == StdinPath {
		return false, nil
	}
	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("check source: %w", err)
	}

	stat, err := os.Stat(src.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return true, nil
		}
		return false, fmt.Errorf("stat %s: %w", src.Path, err)
	}
	if !stat.ModTime().Equal(src.ModTime) || stat.Size() != src.Size {
		return true, nil
	}

	content, err := os.ReadFile(src.Path)
	if err != nil {
		return false, fmt.Errorf("read %s: %w", src.Path, err)
	}
	return sha256.Sum256(content) != src.Hash, nil
}
