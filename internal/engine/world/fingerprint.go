package world

import (
	"errors"
	"fmt"
	"sort"

	"github.com/zeebo/blake3"
	"go.trai.ch/zerr"

	"go.trai.ch/quill/internal/core/domain"
)

// fingerprint is a 128-bit digest over one read outcome. Successes hash
// the payload; failures hash the error kind, message and metadata, so a
// repeated failure with an unchanged cause re-hits the cache while a
// changed cause invalidates it like changed content would.
type fingerprint [16]byte

func fingerprintOutcome(data []byte, err error) fingerprint {
	h := blake3.New()

	if err == nil {
		_, _ = h.Write([]byte{0})
		_, _ = h.Write(data)
	} else {
		_, _ = h.Write([]byte{1, byte(domain.FileErrorKind(err))})
		_, _ = h.Write([]byte(err.Error()))
		writeMetadata(h, err)
	}

	var fp fingerprint
	copy(fp[:], h.Sum(nil))
	return fp
}

// writeMetadata folds zerr metadata into the digest in key order. The
// metadata carries the offending path and I/O cause, which the error
// message alone does not.
func writeMetadata(h *blake3.Hasher, err error) {
	var zErr *zerr.Error
	if !errors.As(err, &zErr) {
		return
	}

	meta := zErr.Metadata()
	keys := make([]string, 0, len(meta))
	for k := range meta {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		_, _ = h.Write([]byte(k))
		_, _ = h.Write([]byte{'='})
		_, _ = fmt.Fprintf(h, "%v", meta[k])
		_, _ = h.Write([]byte{0})
	}
}
