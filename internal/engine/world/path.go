package world

import (
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/zerr"

	"go.trai.ch/quill/internal/core/domain"
)

// resolveVirtual maps a rooted virtual path onto the filesystem below
// the given root directory.
func resolveVirtual(root, vpath string) (string, error) {
	resolved := filepath.Join(root, filepath.FromSlash(vpath))

	// Virtual paths are normalized at construction, but the root itself
	// may contain ".." segments; re-check relative containment.
	rel, err := filepath.Rel(root, resolved)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", zerr.With(zerr.Wrap(domain.ErrAccessDenied, "path escapes the project root"), "path", vpath)
	}

	return resolved, nil
}

// readDiskFile reads a file, mapping directories and I/O failures to
// the file error taxonomy. The offending path and the underlying cause
// travel as metadata so cache fingerprints can tell failure modes apart.
func readDiskFile(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, wrapIOError(err, path)
	}
	if info.IsDir() {
		return nil, zerr.With(zerr.Wrap(domain.ErrIsDirectory, "cannot read a directory"), "path", path)
	}

	data, err := os.ReadFile(path) //nolint:gosec // Resolved below a caller-chosen root.
	if err != nil {
		return nil, wrapIOError(err, path)
	}
	return data, nil
}

func wrapIOError(err error, path string) error {
	return zerr.With(zerr.With(zerr.Wrap(domain.ErrNotFound, "failed to read file"), "path", path), "cause", err.Error())
}
