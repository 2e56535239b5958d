package app_test

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"go.trai.ch/quill/internal/adapters/fonts"
	"go.trai.ch/quill/internal/adapters/logger"
	"go.trai.ch/quill/internal/adapters/markup"
	"go.trai.ch/quill/internal/app"
	"go.trai.ch/quill/internal/boundary"
	"go.trai.ch/quill/internal/core/domain"
	"go.trai.ch/quill/internal/core/ports/mocks"
	"go.trai.ch/zerr"
)

func newApp(t *testing.T, loader *mocks.MockConfigLoader) *app.App {
	t.Helper()
	log := logger.NewWithWriter(io.Discard, slog.LevelError)
	service := boundary.New(markup.NewEngine(), markup.NewExporter(), fonts.NewSearcher(log), nil, log)
	return app.New(loader, service, log)
}

func projectIn(t *testing.T, mainText string) *domain.Project {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "main.qm"), []byte(mainText), 0o644))
	return &domain.Project{
		Root:   root,
		Main:   "main.qm",
		Format: "txt",
		PPI:    144,
		Output: filepath.Join(root, "out", "doc"),
	}
}

func TestApp_CompileWritesOutput(t *testing.T) {
	ctrl := gomock.NewController(t)
	loader := mocks.NewMockConfigLoader(ctrl)
	project := projectIn(t, "= Hello")
	loader.EXPECT().Load(".").Return(project, nil)

	a := newApp(t, loader)
	require.NoError(t, a.Compile(context.Background(), app.CompileOptions{}))

	data, err := os.ReadFile(project.Output + ".txt")
	require.NoError(t, err)
	require.Contains(t, string(data), "Hello")
}

func TestApp_CompileFormatOverride(t *testing.T) {
	ctrl := gomock.NewController(t)
	loader := mocks.NewMockConfigLoader(ctrl)
	project := projectIn(t, "= Hello")
	loader.EXPECT().Load(".").Return(project, nil)

	a := newApp(t, loader)
	require.NoError(t, a.Compile(context.Background(), app.CompileOptions{Format: "html"}))

	data, err := os.ReadFile(project.Output + ".html")
	require.NoError(t, err)
	require.Contains(t, string(data), "<html>")
}

func TestApp_CompileConfigError(t *testing.T) {
	ctrl := gomock.NewController(t)
	loader := mocks.NewMockConfigLoader(ctrl)
	loader.EXPECT().Load("missing/").Return(nil, zerr.With(zerr.Wrap(domain.ErrConfigNotFound, "no quill.yaml up from path"), "path", "missing/"))

	a := newApp(t, loader)
	err := a.Compile(context.Background(), app.CompileOptions{ConfigPath: "missing/"})
	require.ErrorIs(t, err, domain.ErrConfigNotFound)
}

func TestApp_CompileMissingMainDocument(t *testing.T) {
	ctrl := gomock.NewController(t)
	loader := mocks.NewMockConfigLoader(ctrl)
	project := projectIn(t, "text")
	project.Main = "ghost.qm"
	loader.EXPECT().Load(".").Return(project, nil)

	a := newApp(t, loader)
	err := a.Compile(context.Background(), app.CompileOptions{})
	require.Error(t, err)
	require.Contains(t, err.Error(), "main document")
}

func TestApp_CompileFailureSurfacesDiagnostics(t *testing.T) {
	ctrl := gomock.NewController(t)
	loader := mocks.NewMockConfigLoader(ctrl)
	project := projectIn(t, `#set text(style: "oops")`)
	loader.EXPECT().Load(".").Return(project, nil)

	a := newApp(t, loader)
	err := a.Compile(context.Background(), app.CompileOptions{})
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown text style")
	require.NoFileExists(t, project.Output+".txt")
}

func TestApp_Query(t *testing.T) {
	ctrl := gomock.NewController(t)
	loader := mocks.NewMockConfigLoader(ctrl)
	project := projectIn(t, "#metadata({\"author\": \"jane\"}) <info>")
	loader.EXPECT().Load(".").Return(project, nil)

	a := newApp(t, loader)
	result, err := a.Query(context.Background(), app.QueryOptions{
		Selector: "<info>",
		Field:    "value",
		One:      true,
	})
	require.NoError(t, err)
	require.JSONEq(t, `{"author": "jane"}`, result)
}
