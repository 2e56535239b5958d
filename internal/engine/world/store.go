// Package world implements the virtual file store backing a compiler
// handle: a map from file identities to fingerprint-cached slots, the
// standard-library configuration, the font catalog and the per-store
// clock. It satisfies the capability contract the compilation engine
// requires of its environment.
package world

import (
	"context"
	"sync"
	"time"

	"go.trai.ch/zerr"

	"go.trai.ch/quill/internal/core/domain"
	"go.trai.ch/quill/internal/core/ports"
)

var _ ports.World = (*Store)(nil)

// mainVirtualPath is the virtual path of the detached entry document.
const mainVirtualPath = "<main>"

// Options configure a new Store.
type Options struct {
	// Root is the project root; empty means the current directory.
	Root string
	// MainText is the in-memory content of the entry document.
	MainText string
	// Inputs is the free-form dictionary merged into the library.
	Inputs map[string]any
	// Features are the enabled library features.
	Features []domain.Feature
	// Catalog is the eagerly discovered font catalog.
	Catalog ports.FontCatalog
	// Resolver prepares package directories on demand.
	Resolver ports.PackageResolver
	// Clock overrides the wall clock. Nil means time.Now.
	Clock func() time.Time
}

// Store is the virtual file store. One store backs one compiler handle
// and lives exactly as long as it; slots accumulate monotonically
// across the compilation passes sharing the store.
type Store struct {
	root     string
	main     domain.FileID
	mainText string
	catalog  ports.FontCatalog
	resolver ports.PackageResolver

	libMu   sync.RWMutex
	library *domain.Library

	// mu guards the slot map and all per-slot work. Coarse on purpose:
	// correctness first, one slow read serializes the rest.
	mu    sync.Mutex
	slots map[domain.FileID]*fileSlot

	clock    func() time.Time
	nowOnce  sync.Once
	now      time.Time
	readFile func(path string) ([]byte, error)
}

// NewStore builds a store from the given options. Construction fails
// only if the inputs violate the library schema.
func NewStore(opts Options) (*Store, error) {
	library, err := domain.NewLibrary(opts.Inputs, opts.Features...)
	if err != nil {
		return nil, err
	}

	root := opts.Root
	if root == "" {
		root = "."
	}

	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}

	s := &Store{
		root:     root,
		main:     domain.DetachedFileID(mainVirtualPath),
		mainText: opts.MainText,
		catalog:  opts.Catalog,
		resolver: opts.Resolver,
		library:  library,
		slots:    make(map[domain.FileID]*fileSlot),
		clock:    clock,
		readFile: readDiskFile,
	}

	slot := newFileSlot(s.main)
	slot.source.init(domain.NewSource(s.main, opts.MainText), []byte(opts.MainText))
	s.slots[s.main] = slot

	return s, nil
}

// Library returns the current standard-library configuration.
func (s *Store) Library() *domain.Library {
	s.libMu.RLock()
	defer s.libMu.RUnlock()
	return s.library
}

// SetInputs atomically replaces the input dictionary. On validation
// failure the existing configuration stays untouched.
func (s *Store) SetInputs(inputs map[string]any) error {
	s.libMu.Lock()
	defer s.libMu.Unlock()

	features := make([]domain.Feature, 0, 1)
	if s.library.HasFeature(domain.FeatureHTML) {
		features = append(features, domain.FeatureHTML)
	}

	library, err := domain.NewLibrary(inputs, features...)
	if err != nil {
		return err
	}

	s.library = library
	return nil
}

// Book returns the font catalog.
func (s *Store) Book() ports.FontCatalog {
	return s.catalog
}

// Main returns the identity of the entry document.
func (s *Store) Main() domain.FileID {
	return s.main
}

// Source returns the decoded text of the file with the given identity.
func (s *Store) Source(id domain.FileID) (*domain.Source, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.slot(id).sourceText(s.readFn(id))
}

// File returns the raw bytes of the file with the given identity.
func (s *Store) File(id domain.FileID) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.slot(id).rawBytes(s.readFn(id))
}

// Today returns the date of the store's captured clock instant. The
// instant is captured on first call and never refreshed for this
// store, so every pass sharing the store sees the same date.
func (s *Store) Today(offsetHours *int) (domain.Date, bool) {
	s.nowOnce.Do(func() { s.now = s.clock() })

	t := s.now
	if offsetHours != nil {
		t = t.UTC().Add(time.Duration(*offsetHours) * time.Hour)
	}
	return domain.DateFromTime(t)
}

// Reset marks every cache cell unaccessed. Call it once at the start
// of each compilation pass; within the pass, repeated reads of one
// identity short-circuit to the first outcome.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, slot := range s.slots {
		slot.reset()
	}
}

func (s *Store) slot(id domain.FileID) *fileSlot {
	slot, ok := s.slots[id]
	if !ok {
		slot = newFileSlot(id)
		s.slots[id] = slot
	}
	return slot
}

// readFn builds the raw read for one identity: in-memory content for
// the detached main document, otherwise path resolution (through the
// package resolver where needed) followed by a disk read.
func (s *Store) readFn(id domain.FileID) func() ([]byte, error) {
	return func() ([]byte, error) {
		if id.Detached() {
			if id == s.main {
				return []byte(s.mainText), nil
			}
			return nil, zerr.With(zerr.Wrap(domain.ErrNotFound, "detached file has no content"), "file", id.String())
		}

		root := s.root
		if pkg, ok := id.Package(); ok {
			if s.resolver == nil {
				return nil, zerr.With(zerr.Wrap(domain.ErrPackageResolution, "no package resolver configured"), "spec", pkg.String())
			}
			dir, err := s.resolver.Prepare(context.Background(), pkg)
			if err != nil {
				return nil, err
			}
			root = dir
		}

		path, err := resolveVirtual(root, id.VirtualPath())
		if err != nil {
			return nil, err
		}
		return s.readFile(path)
	}
}
