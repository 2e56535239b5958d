// Package fonts implements eager font discovery and a lazily loading
// font catalog.
package fonts

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"

	"go.trai.ch/quill/internal/core/domain"
	"go.trai.ch/quill/internal/core/ports"
)

var _ ports.FontSearcher = (*Searcher)(nil)

var fontExtensions = map[string]bool{
	".ttf": true,
	".otf": true,
	".ttc": true,
	".otc": true,
}

// Searcher discovers font files. Discovery is eager and blocking; it
// happens once, when a compiler handle is created.
type Searcher struct {
	log ports.Logger
}

// NewSearcher creates a font searcher.
func NewSearcher(log ports.Logger) *Searcher {
	return &Searcher{log: log}
}

// Search walks the given directories, plus the system font directories
// when includeSystem is set, and returns a catalog of every font file
// found. A missing explicitly requested directory fails the search;
// missing system directories are skipped silently.
func (s *Searcher) Search(ctx context.Context, dirs []string, includeSystem bool) (ports.FontCatalog, error) {
	type scan struct {
		dir      string
		required bool
	}

	scans := make([]scan, 0, len(dirs)+4)
	for _, dir := range dirs {
		scans = append(scans, scan{dir: dir, required: true})
	}
	if includeSystem {
		for _, dir := range systemFontDirs() {
			scans = append(scans, scan{dir: dir})
		}
	}

	var mu sync.Mutex
	found := make(map[uint64]domain.FontInfo)

	g, ctx := errgroup.WithContext(ctx)
	for _, sc := range scans {
		g.Go(func() error {
			infos, err := scanDir(ctx, sc.dir)
			if err != nil {
				if !sc.required && errors.Is(err, fs.ErrNotExist) {
					return nil
				}
				return zerr.With(zerr.Wrap(err, "font search failed"), "dir", sc.dir)
			}

			mu.Lock()
			for key, info := range infos {
				if _, ok := found[key]; !ok {
					found[key] = info
				}
			}
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	infos := make([]domain.FontInfo, 0, len(found))
	for _, info := range found {
		infos = append(infos, info)
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Path < infos[j].Path })

	catalog := &Catalog{entries: make([]*entry, len(infos))}
	for i, info := range infos {
		catalog.entries[i] = &entry{info: info}
	}

	if s.log != nil {
		s.log.Debug("font search finished", "fonts", catalog.Len(), "dirs", len(scans))
	}
	return catalog, nil
}

// scanDir walks one directory tree and returns the discovered fonts
// keyed by an identity hash, so the same file reachable through
// several search roots is recorded once.
func scanDir(ctx context.Context, dir string) (map[uint64]domain.FontInfo, error) {
	if _, err := os.Stat(dir); err != nil {
		return nil, err
	}

	infos := make(map[uint64]domain.FontInfo)
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable subdirectories are skipped, not fatal.
			return nil //nolint:nilerr // Intentional skip.
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() || !fontExtensions[strings.ToLower(filepath.Ext(path))] {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return nil //nolint:nilerr // Raced removal; skip.
		}

		infos[identityHash(d.Name(), info.Size(), info.ModTime().UnixNano())] = domain.FontInfo{
			Family: familyName(d.Name()),
			Path:   path,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return infos, nil
}

// identityHash fingerprints a font file cheaply, without reading it.
func identityHash(name string, size, mtime int64) uint64 {
	h := xxhash.New()
	_, _ = h.WriteString(strings.ToLower(name))
	var buf [16]byte
	for i := range 8 {
		buf[i] = byte(size >> (8 * i))
		buf[8+i] = byte(mtime >> (8 * i))
	}
	_, _ = h.Write(buf[:])
	return h.Sum64()
}

// familyName guesses a family name from the file stem: "Fira-Sans.ttf"
// becomes "Fira Sans". Real shaping metadata is out of scope; the
// catalog only needs a stable presentable name.
func familyName(filename string) string {
	stem := strings.TrimSuffix(filename, filepath.Ext(filename))
	stem = strings.ReplaceAll(stem, "-", " ")
	stem = strings.ReplaceAll(stem, "_", " ")
	return strings.TrimSpace(stem)
}

// systemFontDirs returns the conventional font locations of the host OS.
func systemFontDirs() []string {
	home, _ := os.UserHomeDir()
	switch runtime.GOOS {
	case "darwin":
		return []string{
			"/Library/Fonts",
			"/System/Library/Fonts",
			filepath.Join(home, "Library", "Fonts"),
		}
	case "windows":
		windir := os.Getenv("WINDIR")
		if windir == "" {
			windir = `C:\Windows`
		}
		return []string{filepath.Join(windir, "Fonts")}
	default:
		return []string{
			"/usr/share/fonts",
			"/usr/local/share/fonts",
			filepath.Join(home, ".fonts"),
			filepath.Join(home, ".local", "share", "fonts"),
		}
	}
}
