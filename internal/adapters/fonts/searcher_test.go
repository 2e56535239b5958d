package fonts_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"go.trai.ch/quill/internal/adapters/fonts"
)

func TestSearcher_FindsFontsRecursively(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "nested"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Fira-Sans.ttf"), []byte("fontdata"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "nested", "Libertinus_Serif.otf"), []byte("other"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.txt"), []byte("not a font"), 0o644))

	searcher := fonts.NewSearcher(nil)
	catalog, err := searcher.Search(context.Background(), []string{dir}, false)
	require.NoError(t, err)
	require.Equal(t, 2, catalog.Len())

	families := make(map[string]bool)
	for i := range catalog.Len() {
		info, ok := catalog.Info(i)
		require.True(t, ok)
		families[info.Family] = true
	}
	require.True(t, families["Fira Sans"])
	require.True(t, families["Libertinus Serif"])
}

func TestSearcher_MissingExplicitDirFails(t *testing.T) {
	searcher := fonts.NewSearcher(nil)
	_, err := searcher.Search(context.Background(), []string{filepath.Join(t.TempDir(), "nope")}, false)
	require.Error(t, err)
}

func TestCatalog_LazyLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Mono.ttf")
	require.NoError(t, os.WriteFile(path, []byte("glyphs"), 0o644))

	searcher := fonts.NewSearcher(nil)
	catalog, err := searcher.Search(context.Background(), []string{dir}, false)
	require.NoError(t, err)
	require.Equal(t, 1, catalog.Len())

	data, err := catalog.Font(0)
	require.NoError(t, err)
	require.Equal(t, []byte("glyphs"), data)

	// Deleting the file after the first load must not matter: the
	// bytes were cached on first access.
	require.NoError(t, os.Remove(path))
	again, err := catalog.Font(0)
	require.NoError(t, err)
	require.Equal(t, data, again)

	_, err = catalog.Font(7)
	require.Error(t, err)
}
