package domain

import (
	"fmt"

	"go.trai.ch/zerr"
)

// Feature toggles optional engine behavior.
type Feature string

// FeatureHTML enables the HTML export surface.
const FeatureHTML Feature = "html"

// Library is the standard-library configuration handed to the engine:
// the free-form input dictionary merged at construction plus enabled
// features. A Library is immutable once built; reconfiguration swaps
// the whole value.
type Library struct {
	inputs   map[string]any
	features map[Feature]bool
}

// NewLibrary builds a library with the given inputs and features. The
// inputs are validated against the schema; on failure no library is
// produced.
func NewLibrary(inputs map[string]any, features ...Feature) (*Library, error) {
	if err := ValidateInputs(inputs); err != nil {
		return nil, err
	}

	fs := make(map[Feature]bool, len(features))
	for _, f := range features {
		fs[f] = true
	}

	copied := make(map[string]any, len(inputs))
	for k, v := range inputs {
		copied[k] = v
	}

	return &Library{inputs: copied, features: fs}, nil
}

// Input returns the value stored under the given key.
func (l *Library) Input(key string) (any, bool) {
	v, ok := l.inputs[key]
	return v, ok
}

// Inputs returns a copy of the input dictionary.
func (l *Library) Inputs() map[string]any {
	copied := make(map[string]any, len(l.inputs))
	for k, v := range l.inputs {
		copied[k] = v
	}
	return copied
}

// HasFeature reports whether the feature is enabled.
func (l *Library) HasFeature(f Feature) bool {
	return l.features[f]
}

// ValidateInputs checks an input dictionary against the library schema:
// keys must be identifiers and values must stay within the JSON data
// model (string, bool, number, null, array, object).
func ValidateInputs(inputs map[string]any) error {
	for key, value := range inputs {
		if !isIdentifier(key) {
			return zerr.With(zerr.Wrap(ErrInvalidConfig, "input key is not an identifier"), "key", key)
		}
		if err := validateValue(value); err != nil {
			return zerr.With(err, "key", key)
		}
	}
	return nil
}

func validateValue(v any) error {
	switch value := v.(type) {
	case nil, string, bool, float64, int, int64:
		return nil
	case []any:
		for _, item := range value {
			if err := validateValue(item); err != nil {
				return err
			}
		}
		return nil
	case map[string]any:
		for _, item := range value {
			if err := validateValue(item); err != nil {
				return err
			}
		}
		return nil
	default:
		return zerr.With(zerr.Wrap(ErrInvalidConfig, "input value is outside the JSON data model"), "value_type", fmt.Sprintf("%T", v))
	}
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_' || r == '-':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}
