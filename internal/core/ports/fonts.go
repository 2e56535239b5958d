package ports

import (
	"context"

	"go.trai.ch/quill/internal/core/domain"
)

// FontCatalog is the set of fonts discovered at world construction.
// Metadata is available eagerly; font bytes load lazily, at most once
// per entry.
//
//go:generate go run go.uber.org/mock/mockgen -source=fonts.go -destination=mocks/mock_fonts.go -package=mocks
type FontCatalog interface {
	// Len returns the number of discovered fonts.
	Len() int

	// Info returns the metadata of the font at the given index.
	Info(index int) (domain.FontInfo, bool)

	// Font returns the bytes of the font at the given index, loading
	// them on first access.
	Font(index int) ([]byte, error)
}

// FontSearcher discovers fonts in the given directories, plus the
// system font directories when enabled. Discovery is eager and
// blocking; a missing explicitly requested directory is a fatal error.
type FontSearcher interface {
	Search(ctx context.Context, dirs []string, includeSystem bool) (FontCatalog, error)
}
