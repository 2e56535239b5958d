package domain

import (
	"strconv"
	"strings"
)

// Severity classifies a diagnostic.
type Severity uint8

const (
	SeverityWarning Severity = iota
	SeverityError
)

func (s Severity) String() string {
	if s == SeverityError {
		return "error"
	}
	return "warning"
}

// Diagnostic is a message the engine attaches to a location in the
// compiled sources.
type Diagnostic struct {
	Severity Severity
	Message  string
	File     FileID
	Line     int
}

func (d Diagnostic) String() string {
	var b strings.Builder
	b.WriteString(d.Severity.String())
	if !d.File.IsZero() {
		b.WriteString(" (")
		b.WriteString(d.File.String())
		if d.Line > 0 {
			b.WriteString(":")
			b.WriteString(strconv.Itoa(d.Line))
		}
		b.WriteString(")")
	}
	b.WriteString(": ")
	b.WriteString(d.Message)
	return b.String()
}

// Element is a queryable piece of document content.
type Element struct {
	Kind   string         `json:"kind"`
	Label  string         `json:"label,omitzero"`
	Fields map[string]any `json:"fields,omitzero"`
}

// Page is one page of rendered content.
type Page struct {
	Number int
	Lines  []string
}

// Text returns the page content as a single string.
func (p Page) Text() string {
	return strings.Join(p.Lines, "\n")
}

// Document is the engine's output: rendered pages plus the elements a
// structural query can address.
type Document struct {
	Pages    []Page
	Elements []Element
}
