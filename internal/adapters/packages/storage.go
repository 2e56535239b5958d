// Package packages implements local package storage: it resolves a
// package specification to a directory in the user cache, downloading
// and extracting the package archive on first use.
package packages

import (
	"archive/tar"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/klauspost/compress/gzip"
	"github.com/natefinch/atomic"
	"go.trai.ch/zerr"

	"go.trai.ch/quill/internal/core/domain"
	"go.trai.ch/quill/internal/core/ports"
)

var _ ports.PackageResolver = (*Storage)(nil)

// defaultRegistry is the package registry archives are fetched from.
const defaultRegistry = "https://packages.quill.sh"

// maxFileSize caps a single extracted file. Archives are fetched from
// the network; the cap bounds damage from a malicious entry.
const maxFileSize = 256 << 20

// StorageOptions configure the package storage.
type StorageOptions struct {
	// Dir is the storage root. Empty means <user cache dir>/quill/packages.
	Dir string
	// BaseURL is the registry URL. Empty means the default registry.
	BaseURL string
	// Downloader fetches archives.
	Downloader ports.Downloader
	// Progress observes downloads. Nil means silent.
	Progress ports.Progress
	// Logger is used for debug logging.
	Logger ports.Logger
}

// Storage resolves package specs to local directories. Resolution is
// idempotent: every distinct spec is downloaded at most once per
// storage lifetime, and previously extracted packages are reused
// across runs.
type Storage struct {
	dir        string
	baseURL    string
	downloader ports.Downloader
	progress   ports.Progress
	log        ports.Logger

	mu       sync.Mutex
	prepared map[domain.PackageSpec]string
}

// NewStorage creates package storage with the given options.
func NewStorage(opts StorageOptions) (*Storage, error) {
	dir := opts.Dir
	if dir == "" {
		cache, err := os.UserCacheDir()
		if err != nil {
			return nil, zerr.Wrap(err, "failed to locate user cache directory")
		}
		dir = filepath.Join(cache, "quill", "packages")
	}

	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = defaultRegistry
	}

	progress := opts.Progress
	if progress == nil {
		progress = SilentProgress()
	}

	return &Storage{
		dir:        dir,
		baseURL:    baseURL,
		downloader: opts.Downloader,
		progress:   progress,
		log:        opts.Logger,
		prepared:   make(map[domain.PackageSpec]string),
	}, nil
}

// Prepare returns the local directory of the given package, downloading
// and extracting it first if needed.
func (s *Storage) Prepare(ctx context.Context, spec domain.PackageSpec) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if dir, ok := s.prepared[spec]; ok {
		return dir, nil
	}

	dir := filepath.Join(s.dir, spec.Namespace, spec.Name, spec.Version)
	if info, err := os.Stat(dir); err == nil && info.IsDir() {
		s.prepared[spec] = dir
		return dir, nil
	}

	if err := s.fetch(ctx, spec, dir); err != nil {
		return "", err
	}

	s.prepared[spec] = dir
	return dir, nil
}

func (s *Storage) fetch(ctx context.Context, spec domain.PackageSpec, dir string) error {
	url := fmt.Sprintf("%s/%s/%s-%s.tar.gz", s.baseURL, spec.Namespace, spec.Name, spec.Version)
	if s.log != nil {
		s.log.Debug("downloading package", "spec", spec.String(), "url", url)
	}

	fail := func(err error) error {
		return zerr.With(zerr.With(zerr.Wrap(domain.ErrPackageResolution, "failed to fetch package"), "spec", spec.String()), "cause", err.Error())
	}

	if s.downloader == nil {
		return zerr.With(zerr.Wrap(domain.ErrPackageResolution, "failed to fetch package"), "spec", spec.String())
	}

	s.progress.Start(url)
	defer s.progress.Finish()

	body, err := s.downloader.Download(ctx, url)
	if err != nil {
		return fail(err)
	}
	defer body.Close() //nolint:errcheck // Best effort close.

	// Extract into a staging directory and promote it with one rename,
	// so a failed extraction never leaves a half-populated package.
	if err := os.MkdirAll(filepath.Dir(dir), 0o750); err != nil {
		return fail(err)
	}
	staging, err := os.MkdirTemp(filepath.Dir(dir), spec.Version+".partial-")
	if err != nil {
		return fail(err)
	}
	defer os.RemoveAll(staging) //nolint:errcheck // Gone after rename; best effort otherwise.

	reader := &progressReader{r: body, total: -1, progress: s.progress}
	if err := extractTarGz(reader, staging); err != nil {
		return fail(err)
	}

	if err := os.Rename(staging, dir); err != nil {
		return fail(err)
	}
	return nil
}

// extractTarGz unpacks a gzipped tarball below dest. Entry paths are
// confined to dest; files are written atomically.
func extractTarGz(r io.Reader, dest string) error {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return zerr.Wrap(err, "failed to open package archive")
	}
	defer gz.Close() //nolint:errcheck // Read-only close.

	tr := tar.NewReader(gz)
	for {
		header, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return zerr.Wrap(err, "failed to read package archive")
		}

		target, err := confine(dest, header.Name)
		if err != nil {
			return err
		}

		switch header.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0o750); err != nil {
				return zerr.Wrap(err, "failed to create package directory")
			}
		case tar.TypeReg:
			if header.Size > maxFileSize {
				return zerr.With(zerr.New("package file too large"), "name", header.Name)
			}
			if err := os.MkdirAll(filepath.Dir(target), 0o750); err != nil {
				return zerr.Wrap(err, "failed to create package directory")
			}
			data, err := io.ReadAll(io.LimitReader(tr, maxFileSize))
			if err != nil {
				return zerr.Wrap(err, "failed to read package file")
			}
			if err := atomic.WriteFile(target, bytes.NewReader(data)); err != nil {
				return zerr.Wrap(err, "failed to write package file")
			}
		default:
			// Links and special files are not part of the package format.
			continue
		}
	}
}

// confine joins an archive entry name onto dest, rejecting entries that
// would escape it.
func confine(dest, name string) (string, error) {
	target := filepath.Join(dest, filepath.FromSlash(name))
	rel, err := filepath.Rel(dest, target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", zerr.With(zerr.New("package entry escapes destination"), "name", name)
	}
	return target, nil
}
