package fonts

import (
	"os"
	"sync"

	"go.trai.ch/zerr"

	"go.trai.ch/quill/internal/core/domain"
	"go.trai.ch/quill/internal/core/ports"
)

var _ ports.FontCatalog = (*Catalog)(nil)

// entry is one discovered font. Bytes load lazily, at most once.
type entry struct {
	info domain.FontInfo

	once sync.Once
	data []byte
	err  error
}

// Catalog holds the fonts discovered by one search. Metadata is
// available immediately; font bytes are read from disk on first use.
type Catalog struct {
	entries []*entry
}

// Len returns the number of discovered fonts.
func (c *Catalog) Len() int {
	return len(c.entries)
}

// Info returns the metadata of the font at the given index.
func (c *Catalog) Info(index int) (domain.FontInfo, bool) {
	if index < 0 || index >= len(c.entries) {
		return domain.FontInfo{}, false
	}
	return c.entries[index].info, true
}

// Font returns the bytes of the font at the given index, loading them
// on first access. The load outcome is cached either way.
func (c *Catalog) Font(index int) ([]byte, error) {
	if index < 0 || index >= len(c.entries) {
		return nil, zerr.With(zerr.New("font index out of range"), "index", index)
	}

	e := c.entries[index]
	e.once.Do(func() {
		data, err := os.ReadFile(e.info.Path) //nolint:gosec // Discovered by the searcher.
		if err != nil {
			e.err = zerr.With(zerr.Wrap(err, "failed to load font"), "path", e.info.Path)
			return
		}
		e.data = data
	})

	return e.data, e.err
}
