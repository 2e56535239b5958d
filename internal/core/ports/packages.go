package ports

import (
	"context"

	"go.trai.ch/quill/internal/core/domain"
)

// PackageResolver maps a package specification to a local directory,
// downloading and extracting the package on first use. Preparation is
// idempotent: the same spec resolves to the same directory without a
// second download.
//
//go:generate go run go.uber.org/mock/mockgen -source=packages.go -destination=mocks/mock_packages.go -package=mocks
type PackageResolver interface {
	Prepare(ctx context.Context, spec domain.PackageSpec) (string, error)
}
