package boundary

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/tidwall/jsonc"
	"go.trai.ch/zerr"

	"go.trai.ch/quill/internal/core/domain"
	"go.trai.ch/quill/internal/core/ports"
	"go.trai.ch/quill/internal/engine/world"
)

// Handle identifies a compiler instance across the boundary. The zero
// handle is never issued and is tolerated by release operations.
type Handle int64

// defaultFormat is used when the requested export format is absent or
// not valid UTF-8.
const defaultFormat = "txt"

// Service is the boundary surface of the compiler. Every operation
// follows the ownership protocol: inputs are borrowed for the duration
// of the call, outputs are exclusively owned by the caller until
// explicitly released.
type Service struct {
	engine   ports.Engine
	exporter ports.Exporter
	searcher ports.FontSearcher
	resolver ports.PackageResolver
	log      ports.Logger

	mu        sync.Mutex
	next      Handle
	compilers map[Handle]*compiler
}

type compiler struct {
	store *world.Store
	doc   *domain.Document
}

// New creates the boundary service.
func New(
	engine ports.Engine,
	exporter ports.Exporter,
	searcher ports.FontSearcher,
	resolver ports.PackageResolver,
	log ports.Logger,
) *Service {
	return &Service{
		engine:    engine,
		exporter:  exporter,
		searcher:  searcher,
		resolver:  resolver,
		log:       log,
		compilers: make(map[Handle]*compiler),
	}
}

// CreateOptions carries the inputs of CreateCompiler.
type CreateOptions struct {
	// Root is the project root directory all file accesses are
	// confined to.
	Root string

	// MainText is the full text of the main document.
	MainText string

	// FontPaths are directories scanned for font files. Missing
	// directories are fatal.
	FontPaths []string

	// SystemFonts includes the platform font directories in the scan.
	SystemFonts bool

	// InputsJSON is a JSON object of system inputs. Anything that does
	// not parse to an object degrades to an empty dictionary.
	InputsJSON string
}

// CreateCompiler builds a compiler instance and returns its handle.
// Font discovery happens eagerly; a missing explicit font directory
// fails creation.
func (s *Service) CreateCompiler(ctx context.Context, opts CreateOptions) (Handle, error) {
	catalog, err := s.searcher.Search(ctx, opts.FontPaths, opts.SystemFonts)
	if err != nil {
		return 0, err
	}

	store, err := world.NewStore(world.Options{
		Root:     sanitize(opts.Root, "."),
		MainText: sanitize(opts.MainText, ""),
		Inputs:   parseInputs(opts.InputsJSON),
		Features: []domain.Feature{domain.FeatureHTML},
		Catalog:  catalog,
		Resolver: s.resolver,
	})
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	s.next++
	handle := s.next
	s.compilers[handle] = &compiler{store: store}
	s.mu.Unlock()

	s.log.Debug("compiler created", "handle", int64(handle), "fonts", catalog.Len())
	return handle, nil
}

// FreeCompiler destroys the compiler behind the handle. The zero
// handle is a no-op.
func (s *Service) FreeCompiler(handle Handle) {
	if handle == 0 {
		return
	}
	s.mu.Lock()
	delete(s.compilers, handle)
	s.mu.Unlock()
}

// SetSysInputs replaces the system inputs of the compiler. Unlike
// creation, the JSON here is parsed strictly: a parse failure leaves
// the previous inputs untouched and reports an error.
func (s *Service) SetSysInputs(handle Handle, inputsJSON string) error {
	c, err := s.compiler(handle)
	if err != nil {
		return err
	}

	var inputs map[string]any
	if err := json.Unmarshal([]byte(inputsJSON), &inputs); err != nil {
		return zerr.With(zerr.Wrap(domain.ErrInvalidConfig, "failed to parse inputs"), "cause", err.Error())
	}
	if inputs == nil {
		inputs = map[string]any{}
	}
	return c.store.SetInputs(inputs)
}

// Compile runs one compilation pass and exports the document in the
// requested format. The returned result is exclusively owned by the
// caller; an error return happens only for an invalid handle.
func (s *Service) Compile(ctx context.Context, handle Handle, format string, ppi float32) (*CompileResult, error) {
	c, err := s.compiler(handle)
	if err != nil {
		return nil, err
	}

	format = sanitize(format, defaultFormat)
	if format == "" {
		format = defaultFormat
	}

	c.store.Reset()
	doc, diags, err := s.engine.Compile(ctx, c.store)
	if err != nil {
		return failedResult(err, diags), nil
	}

	buffers, err := s.exporter.Export(doc, format, ppi)
	if err != nil {
		return failedResult(err, nil), nil
	}
	c.doc = doc

	result := &CompileResult{}
	for _, data := range buffers {
		result.Buffers = append(result.Buffers, newBuffer(data))
	}
	for _, diag := range diags {
		if diag.Severity == domain.SeverityWarning {
			result.Warnings = append(result.Warnings, newString(diag.String()))
		}
	}
	return result, nil
}

func failedResult(err error, diags []domain.Diagnostic) *CompileResult {
	var sb strings.Builder
	sb.WriteString(err.Error())
	for _, diag := range diags {
		if diag.Severity == domain.SeverityError {
			sb.WriteString("\n")
			sb.WriteString(diag.String())
		}
	}
	return &CompileResult{Err: newString(sb.String())}
}

func (s *Service) compiler(handle Handle) (*compiler, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.compilers[handle]
	if !ok {
		return nil, zerr.With(zerr.Wrap(domain.ErrInvalidHandle, "no compiler behind handle"), "handle", int64(handle))
	}
	return c, nil
}

// parseInputs parses the creation-time inputs tolerantly: comments and
// trailing commas are accepted, everything else degrades to an empty
// dictionary.
func parseInputs(raw string) map[string]any {
	var inputs map[string]any
	if err := json.Unmarshal(jsonc.ToJSON([]byte(raw)), &inputs); err != nil {
		return map[string]any{}
	}
	if inputs == nil {
		return map[string]any{}
	}
	return inputs
}

// sanitize degrades malformed UTF-8 input to a fallback instead of
// carrying broken text into the engine.
func sanitize(text, fallback string) string {
	if !utf8.ValidString(text) {
		return fallback
	}
	return text
}
