package commands_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.trai.ch/quill/cmd/quill/commands"
	"go.trai.ch/quill/internal/app"
	"go.trai.ch/quill/internal/build"
)

type mockApp struct {
	compileFunc func(ctx context.Context, opts app.CompileOptions) error
	queryFunc   func(ctx context.Context, opts app.QueryOptions) (string, error)
}

func (m *mockApp) Compile(ctx context.Context, opts app.CompileOptions) error {
	if m.compileFunc != nil {
		return m.compileFunc(ctx, opts)
	}
	return nil
}

func (m *mockApp) Query(ctx context.Context, opts app.QueryOptions) (string, error) {
	if m.queryFunc != nil {
		return m.queryFunc(ctx, opts)
	}
	return "[]", nil
}

func TestCommands_Compile(t *testing.T) {
	t.Run("wires flags correctly", func(t *testing.T) {
		var captured app.CompileOptions
		called := false

		mock := &mockApp{
			compileFunc: func(_ context.Context, opts app.CompileOptions) error {
				captured = opts
				called = true
				return nil
			},
		}

		cli := commands.New(mock)
		cli.SetArgs([]string{"compile", "docs/", "--format", "html", "-o", "out/doc"})

		err := cli.Execute(context.Background())
		require.NoError(t, err)
		assert.True(t, called)
		assert.Equal(t, "docs/", captured.ConfigPath)
		assert.Equal(t, "html", captured.Format)
		assert.Equal(t, "out/doc", captured.Output)
	})

	t.Run("returns error on compile failure", func(t *testing.T) {
		mock := &mockApp{
			compileFunc: func(_ context.Context, _ app.CompileOptions) error {
				return errors.New("simulated error")
			},
		}

		cli := commands.New(mock)
		cli.SetArgs([]string{"compile"})
		cli.SetOutput(new(bytes.Buffer), new(bytes.Buffer))

		err := cli.Execute(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "simulated error")
	})
}

func TestCommands_Query(t *testing.T) {
	t.Run("prints the query result", func(t *testing.T) {
		var captured app.QueryOptions
		mock := &mockApp{
			queryFunc: func(_ context.Context, opts app.QueryOptions) (string, error) {
				captured = opts
				return `["One"]`, nil
			},
		}

		cli := commands.New(mock)
		buf := new(bytes.Buffer)
		cli.SetOutput(buf, buf)
		cli.SetArgs([]string{"query", "heading", "--field", "body", "--one"})

		err := cli.Execute(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "heading", captured.Selector)
		assert.Equal(t, "body", captured.Field)
		assert.True(t, captured.One)
		assert.Equal(t, "[\"One\"]\n", buf.String())
	})

	t.Run("requires a selector", func(t *testing.T) {
		cli := commands.New(&mockApp{})
		cli.SetOutput(new(bytes.Buffer), new(bytes.Buffer))
		cli.SetArgs([]string{"query"})

		err := cli.Execute(context.Background())
		require.Error(t, err)
	})
}

func TestCommands_Version(t *testing.T) {
	cli := commands.New(&mockApp{})
	buf := new(bytes.Buffer)
	cli.SetOutput(buf, buf)
	cli.SetArgs([]string{"version"})

	err := cli.Execute(context.Background())
	require.NoError(t, err)
	assert.Contains(t, buf.String(), build.Version)
}
