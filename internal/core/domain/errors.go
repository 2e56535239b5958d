package domain

import (
	"errors"

	"go.trai.ch/zerr"
)

var (
	// ErrAccessDenied is returned when a virtual path cannot be resolved
	// inside the allowed roots.
	ErrAccessDenied = zerr.New("access denied")

	// ErrIsDirectory is returned when a file read hits a directory.
	ErrIsDirectory = zerr.New("is a directory")

	// ErrNotFound is returned when a file does not exist or cannot be read.
	ErrNotFound = zerr.New("file not found")

	// ErrDecode is returned when file content is not valid UTF-8.
	ErrDecode = zerr.New("file is not valid utf-8")

	// ErrPackageResolution is returned when a package cannot be downloaded
	// or extracted into local storage.
	ErrPackageResolution = zerr.New("package resolution failed")

	// ErrInvalidConfig is returned when an input dictionary fails
	// validation against the library schema.
	ErrInvalidConfig = zerr.New("invalid input configuration")

	// ErrConfigNotFound is returned when no project configuration file
	// can be located.
	ErrConfigNotFound = zerr.New("no project configuration found")

	// ErrCompileFailed is returned when the engine reports diagnostics
	// that prevent producing a document.
	ErrCompileFailed = zerr.New("compilation failed")

	// ErrUnknownFormat is returned for an unrecognized export format selector.
	ErrUnknownFormat = zerr.New("unknown export format")

	// ErrInvalidHandle is returned when a boundary operation receives a
	// handle that does not name a live compiler.
	ErrInvalidHandle = zerr.New("invalid compiler handle")

	// ErrDoubleRelease is returned when a boundary allocation is released
	// more than once.
	ErrDoubleRelease = zerr.New("allocation already released")

	// ErrNoDocument is returned when a query runs before any successful
	// compilation.
	ErrNoDocument = zerr.New("no compiled document")

	// ErrQuery is returned when a query selector or field cannot be
	// satisfied against the compiled document.
	ErrQuery = zerr.New("query failed")
)

// ErrorKind is a stable code identifying a file-resolution failure class.
// It feeds the cache fingerprint: two failures with the same kind and
// message fingerprint identically and re-hit the cache.
type ErrorKind uint8

const (
	KindNone ErrorKind = iota
	KindAccessDenied
	KindIsDirectory
	KindNotFound
	KindDecode
	KindPackage
	KindOther
)

// FileErrorKind maps an error to its ErrorKind. Unrecognized errors map
// to KindOther so that a changed cause still invalidates the cache via
// the message portion of the fingerprint.
func FileErrorKind(err error) ErrorKind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrAccessDenied):
		return KindAccessDenied
	case errors.Is(err, ErrIsDirectory):
		return KindIsDirectory
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrDecode):
		return KindDecode
	case errors.Is(err, ErrPackageResolution):
		return KindPackage
	default:
		return KindOther
	}
}
