package ports

import "go.trai.ch/quill/internal/core/domain"

// World is the capability contract the compilation engine requires of
// its environment: configuration, fonts, the main document and file
// resolution.
type World interface {
	// Library returns the standard-library configuration.
	Library() *domain.Library

	// Book returns the catalog of discovered fonts.
	Book() FontCatalog

	// Main returns the identity of the in-memory entry document.
	Main() domain.FileID

	// Source returns the decoded text of the file with the given
	// identity. Repeated calls within one pass return the cached value.
	Source(id domain.FileID) (*domain.Source, error)

	// File returns the raw bytes of the file with the given identity.
	File(id domain.FileID) ([]byte, error)

	// Today returns the current date, captured once per world. A non-nil
	// offset shifts the captured instant by that many hours from UTC.
	// The second return value is false if the date is not representable.
	Today(offsetHours *int) (domain.Date, bool)
}
