package domain

import "strings"

// Source is the decoded text of a file. A source keeps its identity
// across edits: re-reading a changed file replaces the text of the
// existing object instead of allocating a new one, so downstream
// incremental work keyed on object identity keeps applying.
type Source struct {
	id      FileID
	text    string
	lines   []int // byte offset of each line start
	version int
}

// NewSource creates a source for the given identity and text.
func NewSource(id FileID, text string) *Source {
	s := &Source{id: id}
	s.set(text)
	return s
}

// ID returns the identity of the file this source was decoded from.
func (s *Source) ID() FileID { return s.id }

// Text returns the current text.
func (s *Source) Text() string { return s.text }

// Version returns a counter that increments on every Replace. It lets
// callers detect edits without comparing text.
func (s *Source) Version() int { return s.version }

// Replace swaps the text in place, preserving the source's identity.
func (s *Source) Replace(text string) {
	s.set(text)
}

// LineCount returns the number of lines in the source.
func (s *Source) LineCount() int { return len(s.lines) }

// Line returns the 1-based line text, without its trailing newline.
func (s *Source) Line(n int) (string, bool) {
	if n < 1 || n > len(s.lines) {
		return "", false
	}
	start := s.lines[n-1]
	end := len(s.text)
	if n < len(s.lines) {
		end = s.lines[n]
	}
	line := strings.TrimSuffix(s.text[start:end], "\n")
	return strings.TrimSuffix(line, "\r"), true
}

func (s *Source) set(text string) {
	s.text = text
	s.version++

	s.lines = s.lines[:0]
	s.lines = append(s.lines, 0)
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' && i+1 < len(text) {
			s.lines = append(s.lines, i+1)
		}
	}
}
