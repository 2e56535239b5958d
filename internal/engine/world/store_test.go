package world_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"go.trai.ch/quill/internal/core/domain"
	"go.trai.ch/quill/internal/engine/world"
)

func newTestStore(t *testing.T, root, mainText string) *world.Store {
	t.Helper()
	store, err := world.NewStore(world.Options{Root: root, MainText: mainText})
	require.NoError(t, err)
	return store
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestStore_UnchangedContentReusesSource(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "chapter.qm"), "= Chapter One")

	store := newTestStore(t, root, "")
	id := domain.ProjectFileID("chapter.qm")

	first, err := store.Source(id)
	require.NoError(t, err)

	store.Reset()

	second, err := store.Source(id)
	require.NoError(t, err)
	require.Same(t, first, second)
	require.Equal(t, first.Version(), second.Version())
	require.Equal(t, "= Chapter One", second.Text())
}

func TestStore_ChangedContentPreservesSourceIdentity(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "chapter.qm")
	writeFile(t, path, "old text")

	store := newTestStore(t, root, "")
	id := domain.ProjectFileID("chapter.qm")

	first, err := store.Source(id)
	require.NoError(t, err)
	version := first.Version()

	writeFile(t, path, "new text")
	store.Reset()

	second, err := store.Source(id)
	require.NoError(t, err)
	require.Same(t, first, second)
	require.Equal(t, "new text", second.Text())
	require.Greater(t, second.Version(), version)
}

func TestStore_ChangedContentAllocatesFreshBytes(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "data.bin")
	writeFile(t, path, "aaaa")

	store := newTestStore(t, root, "")
	id := domain.ProjectFileID("data.bin")

	first, err := store.File(id)
	require.NoError(t, err)

	writeFile(t, path, "bbbb")
	store.Reset()

	second, err := store.File(id)
	require.NoError(t, err)
	require.Equal(t, []byte("bbbb"), second)
	require.NotSame(t, &first[0], &second[0])
}

func TestStore_ErrorOutcomeIsCached(t *testing.T) {
	store := newTestStore(t, t.TempDir(), "")
	id := domain.ProjectFileID("missing.qm")

	reads := 0
	store.OverrideReadFile(func(path string) ([]byte, error) {
		reads++
		return nil, domain.ErrNotFound
	})

	_, err := store.Source(id)
	require.ErrorIs(t, err, domain.ErrNotFound)

	_, err = store.Source(id)
	require.ErrorIs(t, err, domain.ErrNotFound)
	require.Equal(t, 1, reads, "second read within one pass must hit the cache")

	// Unchanged cause across passes: the read happens again but the
	// cached failure is reused.
	store.Reset()
	_, err = store.Source(id)
	require.ErrorIs(t, err, domain.ErrNotFound)
	require.Equal(t, 2, reads)
}

func TestStore_ChangedErrorCauseInvalidates(t *testing.T) {
	store := newTestStore(t, t.TempDir(), "")
	id := domain.ProjectFileID("flaky.qm")

	store.OverrideReadFile(func(path string) ([]byte, error) {
		return nil, domain.ErrNotFound
	})
	_, err := store.Source(id)
	require.ErrorIs(t, err, domain.ErrNotFound)

	store.Reset()
	store.OverrideReadFile(func(path string) ([]byte, error) {
		return nil, domain.ErrIsDirectory
	})
	_, err = store.Source(id)
	require.ErrorIs(t, err, domain.ErrIsDirectory)
}

func TestStore_PassShortCircuitIgnoresMutation(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "chapter.qm")
	writeFile(t, path, "before")

	store := newTestStore(t, root, "")
	id := domain.ProjectFileID("chapter.qm")

	first, err := store.Source(id)
	require.NoError(t, err)
	require.Equal(t, "before", first.Text())

	writeFile(t, path, "after")

	second, err := store.Source(id)
	require.NoError(t, err)
	require.Equal(t, "before", second.Text(), "mutation mid-pass must not be observed")

	store.Reset()
	third, err := store.Source(id)
	require.NoError(t, err)
	require.Equal(t, "after", third.Text())
}

func TestStore_MainNeverTouchesFilesystem(t *testing.T) {
	store := newTestStore(t, "/definitely/not/a/root", "= Hello")

	store.OverrideReadFile(func(path string) ([]byte, error) {
		t.Fatalf("unexpected disk read: %s", path)
		return nil, nil
	})

	src, err := store.Source(store.Main())
	require.NoError(t, err)
	require.Equal(t, "= Hello", src.Text())

	// Raw bytes of the main document come from memory too, across passes.
	store.Reset()
	raw, err := store.File(store.Main())
	require.NoError(t, err)
	require.Equal(t, []byte("= Hello"), raw)
}

func TestStore_DecodeErrorForInvalidUTF8(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "bad.qm"), []byte{0xff, 0xfe, 0x00}, 0o644))

	store := newTestStore(t, root, "")
	_, err := store.Source(domain.ProjectFileID("bad.qm"))
	require.ErrorIs(t, err, domain.ErrDecode)

	// The same bytes are valid as a raw file.
	raw, err := store.File(domain.ProjectFileID("bad.qm"))
	require.NoError(t, err)
	require.Len(t, raw, 3)
}

func TestStore_BOMIsStripped(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "bom.qm"), "\xef\xbb\xbfhello")

	store := newTestStore(t, root, "")
	src, err := store.Source(domain.ProjectFileID("bom.qm"))
	require.NoError(t, err)
	require.Equal(t, "hello", src.Text())
}

func TestStore_DirectoryRead(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, "subdir"), 0o755))

	store := newTestStore(t, root, "")
	_, err := store.File(domain.ProjectFileID("subdir"))
	require.ErrorIs(t, err, domain.ErrIsDirectory)
}

func TestStore_TodayIsCapturedOnce(t *testing.T) {
	calls := 0
	clock := func() time.Time {
		calls++
		return time.Date(2026, time.March, 14, 23, 30, 0, 0, time.UTC)
	}

	store, err := world.NewStore(world.Options{MainText: "", Clock: clock})
	require.NoError(t, err)

	date, ok := store.Today(nil)
	require.True(t, ok)
	require.Equal(t, domain.Date{Year: 2026, Month: time.March, Day: 14}, date)

	offset := 2
	shifted, ok := store.Today(&offset)
	require.True(t, ok)
	require.Equal(t, domain.Date{Year: 2026, Month: time.March, Day: 15}, shifted)

	require.Equal(t, 1, calls, "clock must be read exactly once per store")
}

func TestStore_SetInputs(t *testing.T) {
	store, err := world.NewStore(world.Options{MainText: "", Inputs: map[string]any{"title": "draft"}})
	require.NoError(t, err)

	// Invalid replacement leaves the existing configuration untouched.
	err = store.SetInputs(map[string]any{"bad key!": true})
	require.ErrorIs(t, err, domain.ErrInvalidConfig)
	v, ok := store.Library().Input("title")
	require.True(t, ok)
	require.Equal(t, "draft", v)

	require.NoError(t, store.SetInputs(map[string]any{"title": "final"}))
	v, _ = store.Library().Input("title")
	require.Equal(t, "final", v)
}

type fakeResolver struct {
	dir   string
	calls int
}

func (r *fakeResolver) Prepare(_ context.Context, _ domain.PackageSpec) (string, error) {
	r.calls++
	return r.dir, nil
}

func TestStore_PackageFilesResolveThroughResolver(t *testing.T) {
	pkgDir := t.TempDir()
	writeFile(t, filepath.Join(pkgDir, "lib.qm"), "= Library")

	resolver := &fakeResolver{dir: pkgDir}
	store, err := world.NewStore(world.Options{Root: t.TempDir(), MainText: "", Resolver: resolver})
	require.NoError(t, err)

	spec := domain.PackageSpec{Namespace: "preview", Name: "example", Version: "0.1.0"}
	src, err := store.Source(domain.NewFileID(spec, "lib.qm"))
	require.NoError(t, err)
	require.Equal(t, "= Library", src.Text())
	require.Equal(t, 1, resolver.calls)
}

func TestStore_PackageWithoutResolver(t *testing.T) {
	store := newTestStore(t, t.TempDir(), "")

	spec := domain.PackageSpec{Namespace: "preview", Name: "example", Version: "0.1.0"}
	_, err := store.Source(domain.NewFileID(spec, "lib.qm"))
	require.ErrorIs(t, err, domain.ErrPackageResolution)
}
