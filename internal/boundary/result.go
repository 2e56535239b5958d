package boundary

import (
	"sync/atomic"

	"go.trai.ch/quill/internal/core/domain"
)

// liveAllocations counts allocations currently owned by the receiving
// side of the boundary. Tests assert it returns to zero after every
// release round trip.
var liveAllocations atomic.Int64

// String is a message string whose ownership crossed the boundary. The
// receiver owns it exclusively and must release it exactly once, either
// directly via FreeString or as part of FreeCompileResult.
type String struct {
	value    string
	released atomic.Bool
}

func newString(value string) *String {
	liveAllocations.Add(1)
	return &String{value: value}
}

// Value returns the string content.
func (s *String) Value() string {
	return s.value
}

func (s *String) release() error {
	if s == nil {
		return nil
	}
	if s.released.Swap(true) {
		return domain.ErrDoubleRelease
	}
	liveAllocations.Add(-1)
	return nil
}

// Buffer is an output byte buffer whose ownership crossed the boundary.
type Buffer struct {
	data     []byte
	released atomic.Bool
}

func newBuffer(data []byte) *Buffer {
	liveAllocations.Add(1)
	return &Buffer{data: data}
}

// Bytes returns the buffer content.
func (b *Buffer) Bytes() []byte {
	return b.data
}

// Len returns the explicit length of the buffer.
func (b *Buffer) Len() int {
	return len(b.data)
}

func (b *Buffer) release() error {
	if b == nil {
		return nil
	}
	if b.released.Swap(true) {
		return domain.ErrDoubleRelease
	}
	liveAllocations.Add(-1)
	return nil
}

// CompileResult bundles the outputs of one compile call. Either
// Buffers and Warnings are populated, or Err is; the receiver owns
// every field and releases the whole result exactly once.
type CompileResult struct {
	Buffers  []*Buffer
	Warnings []*String
	Err      *String

	released atomic.Bool
}

// Failed reports whether the result carries an error instead of output.
func (r *CompileResult) Failed() bool {
	return r.Err != nil
}

// FreeCompileResult releases every sub-allocation of the result:
// buffers, warnings and the error message, whichever are present. A nil
// result and absent fields are tolerated; releasing the same result
// (or a field of it) twice is an error.
func FreeCompileResult(result *CompileResult) error {
	if result == nil {
		return nil
	}
	if result.released.Swap(true) {
		return domain.ErrDoubleRelease
	}

	var firstErr error
	record := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	for _, buffer := range result.Buffers {
		record(buffer.release())
	}
	for _, warning := range result.Warnings {
		record(warning.release())
	}
	record(result.Err.release())

	return firstErr
}

// FreeString releases a single owned string returned by any operation.
func FreeString(s *String) error {
	return s.release()
}
