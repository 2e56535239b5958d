package domain

import (
	"path"
	"strings"
	"unique"
)

// fileKey is the identity behind a FileID. Interning the key keeps
// FileID comparable and cheap to use as a map key, the same way task
// names are interned elsewhere.
type fileKey struct {
	pkg      PackageSpec
	vpath    string
	detached bool
}

// FileID identifies a file either relative to the project root, inside
// a resolved package, or as a detached in-memory document (the main
// entry document). IDs are stable for the lifetime of a store.
type FileID struct {
	h unique.Handle[fileKey]
}

// NewFileID creates an identity for a virtual path inside the given
// package. A zero spec means a project-relative file.
func NewFileID(pkg PackageSpec, vpath string) FileID {
	return FileID{h: unique.Make(fileKey{pkg: pkg, vpath: normalizeVirtualPath(vpath)})}
}

// ProjectFileID creates an identity for a file under the project root.
func ProjectFileID(vpath string) FileID {
	return NewFileID(PackageSpec{}, vpath)
}

// DetachedFileID creates an identity that is never resolved from disk.
// The store serves its content from memory.
func DetachedFileID(vpath string) FileID {
	return FileID{h: unique.Make(fileKey{vpath: normalizeVirtualPath(vpath), detached: true})}
}

// Package returns the package spec, if the identity names a package file.
func (id FileID) Package() (PackageSpec, bool) {
	key := id.key()
	return key.pkg, !key.pkg.IsZero()
}

// VirtualPath returns the rooted, slash-separated path within the
// identity's root (project root or package directory).
func (id FileID) VirtualPath() string {
	return id.key().vpath
}

// Detached reports whether the identity is backed by memory only.
func (id FileID) Detached() bool {
	return id.key().detached
}

// IsZero reports whether the identity is the zero FileID.
func (id FileID) IsZero() bool {
	var zero unique.Handle[fileKey]
	return id.h == zero
}

func (id FileID) String() string {
	key := id.key()
	if key.pkg.IsZero() {
		return key.vpath
	}
	return key.pkg.String() + key.vpath
}

func (id FileID) key() fileKey {
	var zero unique.Handle[fileKey]
	if id.h == zero {
		return fileKey{}
	}
	return id.h.Value()
}

// normalizeVirtualPath turns any input into a rooted slash path with
// "." and ".." segments collapsed. Rooting before cleaning means a
// path can never climb above its root.
func normalizeVirtualPath(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return path.Clean(p)
}
