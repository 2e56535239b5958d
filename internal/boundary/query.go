package boundary

import (
	"encoding/json"
	"strings"

	"go.trai.ch/zerr"

	"go.trai.ch/quill/internal/core/domain"
)

// Query selects elements from the most recently compiled document of
// the compiler behind the handle and returns them serialized as JSON.
// A selector of the form "<label>" matches by label, anything else
// matches by element kind. A non-empty field projects that field out
// of each match; when one is set the query must match exactly one
// element, and the bare value is returned instead of an array.
func (s *Service) Query(handle Handle, selector, field string, one bool) (*String, error) {
	c, err := s.compiler(handle)
	if err != nil {
		return nil, err
	}
	if c.doc == nil {
		return nil, domain.ErrNoDocument
	}

	matches := selectElements(c.doc, selector)

	var values []any
	if field == "" {
		for _, el := range matches {
			values = append(values, el)
		}
	} else {
		for _, el := range matches {
			value, ok := el.Fields[field]
			if !ok {
				return nil, zerr.With(zerr.With(zerr.Wrap(domain.ErrQuery, "element has no such field"), "field", field), "kind", el.Kind)
			}
			values = append(values, value)
		}
	}

	var payload any = values
	if values == nil {
		payload = []any{}
	}
	if one {
		if len(values) != 1 {
			return nil, zerr.With(zerr.With(zerr.Wrap(domain.ErrQuery, "expected exactly one match"), "selector", selector), "matches", len(values))
		}
		payload = values[0]
	}

	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, zerr.Wrap(err, "encoding query result")
	}
	return newString(string(encoded)), nil
}

func selectElements(doc *domain.Document, selector string) []domain.Element {
	byLabel := strings.HasPrefix(selector, "<") && strings.HasSuffix(selector, ">")
	label := strings.TrimSuffix(strings.TrimPrefix(selector, "<"), ">")

	var matches []domain.Element
	for _, el := range doc.Elements {
		if byLabel && el.Label == label {
			matches = append(matches, el)
		}
		if !byLabel && el.Kind == selector {
			matches = append(matches, el)
		}
	}
	return matches
}
