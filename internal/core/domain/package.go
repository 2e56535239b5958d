package domain

import (
	"fmt"
	"strings"

	"go.trai.ch/zerr"
)

// PackageSpec names a remote package by namespace, name and version.
// The zero value means "no package" (a plain project file).
type PackageSpec struct {
	Namespace string
	Name      string
	Version   string
}

// IsZero reports whether the spec names no package.
func (s PackageSpec) IsZero() bool {
	return s == PackageSpec{}
}

// String renders the spec in import syntax: @namespace/name:version.
func (s PackageSpec) String() string {
	return fmt.Sprintf("@%s/%s:%s", s.Namespace, s.Name, s.Version)
}

// ParsePackageSpec parses "@namespace/name:version".
func ParsePackageSpec(raw string) (PackageSpec, error) {
	rest, ok := strings.CutPrefix(raw, "@")
	if !ok {
		return PackageSpec{}, zerr.With(zerr.New("package spec must start with '@'"), "spec", raw)
	}

	namespace, rest, ok := strings.Cut(rest, "/")
	if !ok || namespace == "" {
		return PackageSpec{}, zerr.With(zerr.New("package spec is missing a namespace"), "spec", raw)
	}

	name, version, ok := strings.Cut(rest, ":")
	if !ok || name == "" || version == "" {
		return PackageSpec{}, zerr.With(zerr.New("package spec is missing a name or version"), "spec", raw)
	}

	return PackageSpec{Namespace: namespace, Name: name, Version: version}, nil
}
