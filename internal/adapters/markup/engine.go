// Package markup implements the reference compilation engine: a small
// line-oriented markup language evaluated against a world. The engine
// is deliberately narrow; it exists to exercise the file-resolution
// substrate and to give the boundary something real to compile.
package markup

import (
	"context"
	"encoding/json"
	"fmt"
	"path"
	"strings"

	"go.trai.ch/zerr"

	"go.trai.ch/quill/internal/core/domain"
	"go.trai.ch/quill/internal/core/ports"
)

var _ ports.Engine = (*Engine)(nil)

var validTextStyles = map[string]bool{
	"normal":  true,
	"italic":  true,
	"oblique": true,
}

// Engine compiles markup documents.
type Engine struct{}

// NewEngine creates the reference engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Compile evaluates the world's main document. It returns the compiled
// document and any warnings, or ErrCompileFailed when error diagnostics
// prevent output; the diagnostics are returned in both cases.
func (e *Engine) Compile(ctx context.Context, world ports.World) (*domain.Document, []domain.Diagnostic, error) {
	c := &compilation{
		world:     world,
		importing: make(map[domain.FileID]bool),
		style:     "normal",
	}

	c.evalFile(world.Main(), domain.Diagnostic{})
	c.flushPage()

	if len(c.pages) == 0 {
		c.pages = append(c.pages, domain.Page{Number: 1})
	}

	var warnings []domain.Diagnostic
	var failed bool
	for _, d := range c.diags {
		if d.Severity == domain.SeverityError {
			failed = true
		} else {
			warnings = append(warnings, d)
		}
	}
	if failed {
		return nil, c.diags, zerr.With(zerr.Wrap(domain.ErrCompileFailed, "diagnostics prevent output"), "errors", errorSummary(c.diags))
	}

	doc := &domain.Document{Pages: c.pages, Elements: c.elements}
	return doc, warnings, nil
}

func errorSummary(diags []domain.Diagnostic) string {
	var msgs []string
	for _, d := range diags {
		if d.Severity == domain.SeverityError {
			msgs = append(msgs, d.String())
		}
	}
	return strings.Join(msgs, "; ")
}

// compilation is the mutable state of one engine run.
type compilation struct {
	world     ports.World
	importing map[domain.FileID]bool
	style     string

	pages    []domain.Page
	lines    []string
	elements []domain.Element
	diags    []domain.Diagnostic
}

// evalFile resolves and evaluates one source file. The via diagnostic
// locates the import statement that requested it, for error reporting.
func (c *compilation) evalFile(id domain.FileID, via domain.Diagnostic) {
	if c.importing[id] {
		via.Severity = domain.SeverityError
		via.Message = "import cycle: " + id.String()
		c.diags = append(c.diags, via)
		return
	}

	src, err := c.world.Source(id)
	if err != nil {
		via.Severity = domain.SeverityError
		via.Message = fmt.Sprintf("cannot read %s: %v", id.String(), err)
		c.diags = append(c.diags, via)
		return
	}

	c.importing[id] = true
	defer delete(c.importing, id)

	for n := 1; n <= src.LineCount(); n++ {
		line, _ := src.Line(n)
		c.evalLine(id, n, line)
	}
}

func (c *compilation) evalLine(id domain.FileID, n int, line string) {
	trimmed := strings.TrimSpace(line)
	switch {
	case trimmed == "":
		if len(c.lines) > 0 && c.lines[len(c.lines)-1] != "" {
			c.lines = append(c.lines, "")
		}
	case strings.HasPrefix(trimmed, "="):
		c.evalHeading(trimmed)
	case strings.HasPrefix(trimmed, "#"):
		c.evalDirective(id, n, trimmed)
	default:
		body, label := splitLabel(trimmed)
		if label != "" {
			c.elements = append(c.elements, domain.Element{
				Kind:   "text",
				Label:  label,
				Fields: map[string]any{"body": body},
			})
		}
		c.emit(body)
	}
}

func (c *compilation) evalHeading(line string) {
	level := 0
	for level < len(line) && line[level] == '=' {
		level++
	}
	body, label := splitLabel(strings.TrimSpace(line[level:]))

	c.elements = append(c.elements, domain.Element{
		Kind:  "heading",
		Label: label,
		Fields: map[string]any{
			"level": level,
			"body":  body,
		},
	})
	c.emit(body)
}

func (c *compilation) evalDirective(id domain.FileID, n int, line string) {
	name, rest := directiveName(line)

	switch name {
	case "import":
		c.evalImport(id, n, rest)
	case "image":
		c.evalImage(id, n, rest)
	case "set":
		c.evalSet(id, n, rest)
	case "metadata":
		c.evalMetadata(id, n, rest)
	case "input":
		c.evalInput(id, n, rest)
	case "today":
		if date, ok := c.world.Today(nil); ok {
			c.emit(date.String())
		}
	case "pagebreak":
		c.flushPage()
	default:
		c.warn(id, n, "unknown directive: #"+name)
	}
}

func (c *compilation) evalImport(id domain.FileID, n int, rest string) {
	raw, ok := quotedArgument(rest)
	if !ok {
		c.fail(id, n, "import expects a quoted path")
		return
	}

	target, err := importTarget(id, raw)
	if err != nil {
		c.fail(id, n, err.Error())
		return
	}

	c.evalFile(target, domain.Diagnostic{File: id, Line: n})
}

func (c *compilation) evalImage(id domain.FileID, n int, rest string) {
	raw, ok := quotedArgument(rest)
	if !ok {
		c.fail(id, n, "image expects a quoted path")
		return
	}

	target, err := importTarget(id, raw)
	if err != nil {
		c.fail(id, n, err.Error())
		return
	}

	data, err := c.world.File(target)
	if err != nil {
		c.fail(id, n, fmt.Sprintf("cannot read %s: %v", target.String(), err))
		return
	}

	c.elements = append(c.elements, domain.Element{
		Kind: "image",
		Fields: map[string]any{
			"path":  raw,
			"bytes": len(data),
		},
	})
	c.emit(fmt.Sprintf("[image %s, %d bytes]", raw, len(data)))
}

func (c *compilation) evalSet(id domain.FileID, n int, rest string) {
	style, ok := textStyleArgument(rest)
	if !ok {
		c.fail(id, n, "unsupported set rule: #set "+rest)
		return
	}
	if !validTextStyles[style] {
		c.fail(id, n, fmt.Sprintf("unknown text style: %q", style))
		return
	}
	c.style = style
}

func (c *compilation) evalMetadata(id domain.FileID, n int, rest string) {
	inner, label, ok := parenthesizedWithLabel(rest)
	if !ok {
		c.fail(id, n, "metadata expects a value and a <label>")
		return
	}

	var value any
	if err := json.Unmarshal([]byte(inner), &value); err != nil {
		c.fail(id, n, "metadata value is not valid JSON: "+inner)
		return
	}

	c.elements = append(c.elements, domain.Element{
		Kind:   "metadata",
		Label:  label,
		Fields: map[string]any{"value": value},
	})
}

func (c *compilation) evalInput(id domain.FileID, n int, rest string) {
	key, ok := quotedArgument(rest)
	if !ok {
		c.fail(id, n, "input expects a quoted key")
		return
	}

	value, ok := c.world.Library().Input(key)
	if !ok {
		c.warn(id, n, "unknown input: "+key)
		return
	}
	c.emit(fmt.Sprintf("%v", value))
}

func (c *compilation) emit(line string) {
	if c.style == "italic" || c.style == "oblique" {
		line = "/" + line + "/"
	}
	c.lines = append(c.lines, line)
}

func (c *compilation) flushPage() {
	for len(c.lines) > 0 && c.lines[len(c.lines)-1] == "" {
		c.lines = c.lines[:len(c.lines)-1]
	}
	if len(c.lines) == 0 {
		return
	}
	c.pages = append(c.pages, domain.Page{Number: len(c.pages) + 1, Lines: c.lines})
	c.lines = nil
}

func (c *compilation) warn(id domain.FileID, n int, msg string) {
	c.diags = append(c.diags, domain.Diagnostic{Severity: domain.SeverityWarning, Message: msg, File: id, Line: n})
}

func (c *compilation) fail(id domain.FileID, n int, msg string) {
	c.diags = append(c.diags, domain.Diagnostic{Severity: domain.SeverityError, Message: msg, File: id, Line: n})
}

// importTarget resolves an import path against the importing file:
// "@ns/name:ver/path" addresses a package file, anything else resolves
// relative to the importing file's directory within the same root.
func importTarget(from domain.FileID, raw string) (domain.FileID, error) {
	if strings.HasPrefix(raw, "@") {
		parts := strings.SplitN(raw, "/", 3)
		if len(parts) < 3 {
			return domain.FileID{}, zerr.With(zerr.New("package import is missing a file path"), "import", raw)
		}
		spec, err := domain.ParsePackageSpec(parts[0] + "/" + parts[1])
		if err != nil {
			return domain.FileID{}, err
		}
		return domain.NewFileID(spec, parts[2]), nil
	}

	base := path.Dir(from.VirtualPath())
	vpath := raw
	if !strings.HasPrefix(raw, "/") {
		vpath = path.Join(base, raw)
	}

	if pkg, ok := from.Package(); ok {
		return domain.NewFileID(pkg, vpath), nil
	}
	return domain.ProjectFileID(vpath), nil
}
