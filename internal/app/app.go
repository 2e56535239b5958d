// Package app implements the application layer for quill.
package app

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.trai.ch/zerr"

	"go.trai.ch/quill/internal/boundary"
	"go.trai.ch/quill/internal/core/domain"
	"go.trai.ch/quill/internal/core/ports"
)

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	service      *boundary.Service
	logger       ports.Logger
}

// New creates a new App instance.
func New(loader ports.ConfigLoader, service *boundary.Service, log ports.Logger) *App {
	return &App{
		configLoader: loader,
		service:      service,
		logger:       log,
	}
}

// CompileOptions configuration for the Compile method.
type CompileOptions struct {
	// ConfigPath is the file or directory the project configuration is
	// loaded from. Empty means the current directory.
	ConfigPath string

	// Format overrides the configured export format when non-empty.
	Format string

	// Output overrides the configured output path when non-empty.
	Output string
}

// Compile loads the project, runs one compilation pass and writes the
// exported buffers to the output path. Warnings are logged, a failed
// compilation is returned as an error.
func (a *App) Compile(ctx context.Context, opts CompileOptions) error {
	handle, project, err := a.createCompiler(ctx, opts.ConfigPath)
	if err != nil {
		return err
	}
	defer a.service.FreeCompiler(handle)

	format := project.Format
	if opts.Format != "" {
		format = opts.Format
	}
	output := project.Output
	if opts.Output != "" {
		output = opts.Output
	}

	result, err := a.service.Compile(ctx, handle, format, project.PPI)
	if err != nil {
		return err
	}
	defer func() {
		if err := boundary.FreeCompileResult(result); err != nil {
			a.logger.Error(err)
		}
	}()

	for _, warning := range result.Warnings {
		a.logger.Warn(warning.Value())
	}
	if result.Failed() {
		return zerr.New(result.Err.Value())
	}

	return a.writeBuffers(result.Buffers, output, format)
}

// QueryOptions configuration for the Query method.
type QueryOptions struct {
	ConfigPath string
	Selector   string
	Field      string
	One        bool
}

// Query compiles the project and runs a structural query against the
// resulting document, returning the JSON-encoded matches.
func (a *App) Query(ctx context.Context, opts QueryOptions) (string, error) {
	handle, project, err := a.createCompiler(ctx, opts.ConfigPath)
	if err != nil {
		return "", err
	}
	defer a.service.FreeCompiler(handle)

	result, err := a.service.Compile(ctx, handle, project.Format, project.PPI)
	if err != nil {
		return "", err
	}
	failed := result.Failed()
	var message string
	if failed {
		message = result.Err.Value()
	}
	if err := boundary.FreeCompileResult(result); err != nil {
		return "", err
	}
	if failed {
		return "", zerr.New(message)
	}

	answer, err := a.service.Query(handle, opts.Selector, opts.Field, opts.One)
	if err != nil {
		return "", err
	}
	value := answer.Value()
	if err := boundary.FreeString(answer); err != nil {
		return "", err
	}
	return value, nil
}

func (a *App) createCompiler(ctx context.Context, configPath string) (boundary.Handle, *domain.Project, error) {
	if configPath == "" {
		configPath = "."
	}
	project, err := a.configLoader.Load(configPath)
	if err != nil {
		return 0, nil, zerr.Wrap(err, "failed to load configuration")
	}

	mainPath := filepath.Join(project.Root, project.Main)
	mainText, err := os.ReadFile(mainPath)
	if err != nil {
		return 0, nil, zerr.With(zerr.Wrap(err, "failed to read main document"), "path", mainPath)
	}

	inputsJSON := ""
	if len(project.Inputs) > 0 {
		encoded, err := json.Marshal(project.Inputs)
		if err != nil {
			return 0, nil, zerr.Wrap(err, "failed to encode inputs")
		}
		inputsJSON = string(encoded)
	}

	handle, err := a.service.CreateCompiler(ctx, boundary.CreateOptions{
		Root:        project.Root,
		MainText:    string(mainText),
		FontPaths:   project.FontPaths,
		SystemFonts: project.SystemFonts,
		InputsJSON:  inputsJSON,
	})
	if err != nil {
		return 0, nil, err
	}
	return handle, project, nil
}

// writeBuffers stores one file per buffer. A single buffer is written
// to the output path as is; multiple buffers get a numbered suffix.
func (a *App) writeBuffers(buffers []*boundary.Buffer, output, format string) error {
	if output == "" {
		output = "main"
	}
	if filepath.Ext(output) == "" {
		output += "." + extensionFor(format)
	}

	if dir := filepath.Dir(output); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return zerr.Wrap(err, "failed to create output directory")
		}
	}

	for i, buffer := range buffers {
		path := output
		if len(buffers) > 1 {
			ext := filepath.Ext(output)
			path = fmt.Sprintf("%s-%d%s", output[:len(output)-len(ext)], i+1, ext)
		}
		if err := os.WriteFile(path, buffer.Bytes(), 0o644); err != nil {
			return zerr.With(zerr.Wrap(err, "failed to write output"), "path", path)
		}
		a.logger.Info("output written", "path", path, "bytes", buffer.Len())
	}
	return nil
}

func extensionFor(format string) string {
	switch format {
	case "html":
		return "html"
	default:
		return "txt"
	}
}
