package boundary_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"go.trai.ch/quill/internal/adapters/fonts"
	"go.trai.ch/quill/internal/adapters/logger"
	"go.trai.ch/quill/internal/adapters/markup"
	"go.trai.ch/quill/internal/boundary"
	"go.trai.ch/quill/internal/core/domain"
)

func newService(t *testing.T) *boundary.Service {
	t.Helper()
	log := logger.NewWithWriter(io.Discard, slog.LevelError)
	return boundary.New(markup.NewEngine(), markup.NewExporter(), fonts.NewSearcher(log), nil, log)
}

func createCompiler(t *testing.T, svc *boundary.Service, opts boundary.CreateOptions) boundary.Handle {
	t.Helper()
	if opts.Root == "" {
		opts.Root = t.TempDir()
	}
	handle, err := svc.CreateCompiler(context.Background(), opts)
	require.NoError(t, err)
	t.Cleanup(func() { svc.FreeCompiler(handle) })
	return handle
}

func TestService_CompileRoundTrip(t *testing.T) {
	baseline := boundary.LiveAllocations()
	svc := newService(t)
	handle := createCompiler(t, svc, boundary.CreateOptions{MainText: "= Hello"})

	result, err := svc.Compile(context.Background(), handle, "txt", 144)
	require.NoError(t, err)
	require.False(t, result.Failed())
	require.NotEmpty(t, result.Buffers)
	require.Positive(t, result.Buffers[0].Len())
	require.Contains(t, string(result.Buffers[0].Bytes()), "Hello")
	require.Empty(t, result.Warnings)

	require.NoError(t, boundary.FreeCompileResult(result))
	require.Equal(t, baseline, boundary.LiveAllocations())
}

func TestService_CompileFailureStillOwned(t *testing.T) {
	baseline := boundary.LiveAllocations()
	svc := newService(t)
	handle := createCompiler(t, svc, boundary.CreateOptions{MainText: `#set text(style: "oops")`})

	result, err := svc.Compile(context.Background(), handle, "txt", 144)
	require.NoError(t, err)
	require.True(t, result.Failed())
	require.Empty(t, result.Buffers)
	require.Contains(t, result.Err.Value(), `unknown text style: "oops"`)

	require.NoError(t, boundary.FreeCompileResult(result))
	require.Equal(t, baseline, boundary.LiveAllocations())
}

func TestService_CompileWarningsAreOwnedStrings(t *testing.T) {
	svc := newService(t)
	handle := createCompiler(t, svc, boundary.CreateOptions{MainText: "#frobnicate()\ntext"})

	result, err := svc.Compile(context.Background(), handle, "txt", 144)
	require.NoError(t, err)
	require.False(t, result.Failed())
	require.Len(t, result.Warnings, 1)
	require.Contains(t, result.Warnings[0].Value(), "unknown directive")
	require.NoError(t, boundary.FreeCompileResult(result))
}

func TestService_FreeCompileResultTwice(t *testing.T) {
	svc := newService(t)
	handle := createCompiler(t, svc, boundary.CreateOptions{MainText: "text"})

	result, err := svc.Compile(context.Background(), handle, "txt", 144)
	require.NoError(t, err)
	require.NoError(t, boundary.FreeCompileResult(result))
	require.ErrorIs(t, boundary.FreeCompileResult(result), domain.ErrDoubleRelease)
}

func TestService_FreeTolerateNil(t *testing.T) {
	require.NoError(t, boundary.FreeCompileResult(nil))
	require.NoError(t, boundary.FreeString(nil))
	newService(t).FreeCompiler(0)
}

func TestService_InvalidHandle(t *testing.T) {
	svc := newService(t)

	_, err := svc.Compile(context.Background(), boundary.Handle(42), "txt", 144)
	require.ErrorIs(t, err, domain.ErrInvalidHandle)

	_, err = svc.Query(boundary.Handle(42), "heading", "", false)
	require.ErrorIs(t, err, domain.ErrInvalidHandle)

	require.ErrorIs(t, svc.SetSysInputs(boundary.Handle(42), "{}"), domain.ErrInvalidHandle)
}

func TestService_FreedHandleIsInvalid(t *testing.T) {
	svc := newService(t)
	handle, err := svc.CreateCompiler(context.Background(), boundary.CreateOptions{Root: t.TempDir(), MainText: "text"})
	require.NoError(t, err)

	svc.FreeCompiler(handle)
	_, err = svc.Compile(context.Background(), handle, "txt", 144)
	require.ErrorIs(t, err, domain.ErrInvalidHandle)
}

func TestService_UnknownFormatFailsCompile(t *testing.T) {
	svc := newService(t)
	handle := createCompiler(t, svc, boundary.CreateOptions{MainText: "text"})

	result, err := svc.Compile(context.Background(), handle, "pdf", 144)
	require.NoError(t, err)
	require.True(t, result.Failed())
	require.NoError(t, boundary.FreeCompileResult(result))
}

func TestService_CreateMissingFontDirFails(t *testing.T) {
	svc := newService(t)

	_, err := svc.CreateCompiler(context.Background(), boundary.CreateOptions{
		Root:      t.TempDir(),
		MainText:  "text",
		FontPaths: []string{"/nonexistent/fonts"},
	})
	require.Error(t, err)
}

func TestService_CreateToleratesBrokenInputsJSON(t *testing.T) {
	svc := newService(t)
	handle := createCompiler(t, svc, boundary.CreateOptions{
		MainText:   `#input("title")`,
		InputsJSON: `{not json at all`,
	})

	result, err := svc.Compile(context.Background(), handle, "txt", 144)
	require.NoError(t, err)
	require.False(t, result.Failed())
	require.NoError(t, boundary.FreeCompileResult(result))
}

func TestService_SetSysInputs(t *testing.T) {
	svc := newService(t)
	handle := createCompiler(t, svc, boundary.CreateOptions{
		MainText:   `#input("title")`,
		InputsJSON: `{"title": "First"}`,
	})

	compileText := func() string {
		result, err := svc.Compile(context.Background(), handle, "txt", 144)
		require.NoError(t, err)
		require.False(t, result.Failed())
		text := string(result.Buffers[0].Bytes())
		require.NoError(t, boundary.FreeCompileResult(result))
		return text
	}

	require.Contains(t, compileText(), "First")

	require.NoError(t, svc.SetSysInputs(handle, `{"title": "Second"}`))
	require.Contains(t, compileText(), "Second")

	// A parse failure must leave the previous inputs untouched.
	err := svc.SetSysInputs(handle, `{"title": `)
	require.ErrorIs(t, err, domain.ErrInvalidConfig)
	require.Contains(t, compileText(), "Second")
}

func TestService_SetSysInputsIsStricterThanCreate(t *testing.T) {
	svc := newService(t)

	// Creation tolerates comments and trailing commas.
	handle := createCompiler(t, svc, boundary.CreateOptions{
		MainText:   `#input("title")`,
		InputsJSON: "{\"title\": \"First\", // relaxed\n}",
	})

	result, err := svc.Compile(context.Background(), handle, "txt", 144)
	require.NoError(t, err)
	require.Contains(t, string(result.Buffers[0].Bytes()), "First")
	require.NoError(t, boundary.FreeCompileResult(result))

	// Reconfiguration does not.
	err = svc.SetSysInputs(handle, `{"title": "Second",}`)
	require.ErrorIs(t, err, domain.ErrInvalidConfig)
	err = svc.SetSysInputs(handle, "{\"title\": \"Second\" // relaxed\n}")
	require.ErrorIs(t, err, domain.ErrInvalidConfig)
}

func TestService_QueryBeforeCompile(t *testing.T) {
	svc := newService(t)
	handle := createCompiler(t, svc, boundary.CreateOptions{MainText: "= Title"})

	_, err := svc.Query(handle, "heading", "", false)
	require.ErrorIs(t, err, domain.ErrNoDocument)
}

func TestService_Query(t *testing.T) {
	svc := newService(t)
	main := "#metadata({\"author\": \"jane\"}) <info>\n= One\n= Two"
	handle := createCompiler(t, svc, boundary.CreateOptions{MainText: main})

	result, err := svc.Compile(context.Background(), handle, "txt", 144)
	require.NoError(t, err)
	require.NoError(t, boundary.FreeCompileResult(result))

	out, err := svc.Query(handle, "<info>", "value", true)
	require.NoError(t, err)
	require.JSONEq(t, `{"author": "jane"}`, out.Value())
	require.NoError(t, boundary.FreeString(out))

	out, err = svc.Query(handle, "heading", "body", false)
	require.NoError(t, err)
	require.JSONEq(t, `["One", "Two"]`, out.Value())
	require.NoError(t, boundary.FreeString(out))

	out, err = svc.Query(handle, "image", "", false)
	require.NoError(t, err)
	require.JSONEq(t, `[]`, out.Value())
	require.NoError(t, boundary.FreeString(out))
}

func TestService_QueryOneRequiresSingleMatch(t *testing.T) {
	svc := newService(t)
	handle := createCompiler(t, svc, boundary.CreateOptions{MainText: "= One\n= Two"})

	result, err := svc.Compile(context.Background(), handle, "txt", 144)
	require.NoError(t, err)
	require.NoError(t, boundary.FreeCompileResult(result))

	_, err = svc.Query(handle, "heading", "", true)
	require.ErrorIs(t, err, domain.ErrQuery)

	_, err = svc.Query(handle, "image", "", true)
	require.ErrorIs(t, err, domain.ErrQuery)
}

func TestService_QueryMissingField(t *testing.T) {
	svc := newService(t)
	handle := createCompiler(t, svc, boundary.CreateOptions{MainText: "= Title"})

	result, err := svc.Compile(context.Background(), handle, "txt", 144)
	require.NoError(t, err)
	require.NoError(t, boundary.FreeCompileResult(result))

	_, err = svc.Query(handle, "heading", "nope", false)
	require.ErrorIs(t, err, domain.ErrQuery)
}

func TestService_QueryKeepsLastGoodDocument(t *testing.T) {
	svc := newService(t)
	handle := createCompiler(t, svc, boundary.CreateOptions{MainText: "= Title"})

	result, err := svc.Compile(context.Background(), handle, "txt", 144)
	require.NoError(t, err)
	require.NoError(t, boundary.FreeCompileResult(result))

	// A failed export does not clobber the queryable document.
	result, err = svc.Compile(context.Background(), handle, "pdf", 144)
	require.NoError(t, err)
	require.True(t, result.Failed())
	require.NoError(t, boundary.FreeCompileResult(result))

	out, err := svc.Query(handle, "heading", "body", true)
	require.NoError(t, err)
	require.JSONEq(t, `"Title"`, out.Value())
	require.NoError(t, boundary.FreeString(out))
}
