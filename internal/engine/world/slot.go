package world

import (
	"bytes"
	"unicode/utf8"

	"go.trai.ch/zerr"

	"go.trai.ch/quill/internal/core/domain"
)

var utf8BOM = []byte{0xef, 0xbb, 0xbf}

// fileSlot pairs one file identity with its two cache cells: decoded
// text and raw bytes. Slots are created on first reference and live as
// long as the store.
type fileSlot struct {
	id     domain.FileID
	source slotCell[*domain.Source]
	bytes  slotCell[[]byte]
}

func newFileSlot(id domain.FileID) *fileSlot {
	return &fileSlot{id: id}
}

// sourceText returns the decoded text of the slot's file. When the
// content changed since the last pass, the previous source object is
// updated in place so its identity survives the edit; a brand-new
// object is only allocated on the very first successful read.
func (s *fileSlot) sourceText(read func() ([]byte, error)) (*domain.Source, error) {
	return s.source.get(read, func(data []byte, prev **domain.Source) (*domain.Source, error) {
		text, err := decodeUTF8(s.id, data)
		if err != nil {
			return nil, err
		}
		if prev != nil {
			(*prev).Replace(text)
			return *prev, nil
		}
		return domain.NewSource(s.id, text), nil
	})
}

// rawBytes returns the raw content of the slot's file. Unlike sources,
// changed content yields a freshly allocated buffer.
func (s *fileSlot) rawBytes(read func() ([]byte, error)) ([]byte, error) {
	return s.bytes.get(read, func(data []byte, _ *[]byte) ([]byte, error) {
		buf := make([]byte, len(data))
		copy(buf, data)
		return buf, nil
	})
}

// reset clears the per-pass flags of both cells.
func (s *fileSlot) reset() {
	s.source.reset()
	s.bytes.reset()
}

// decodeUTF8 strips an optional byte-order mark and validates the rest.
func decodeUTF8(id domain.FileID, data []byte) (string, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(data) {
		return "", zerr.With(zerr.Wrap(domain.ErrDecode, "failed to decode file"), "file", id.String())
	}
	return string(data), nil
}
