package ports

import (
	"context"

	"go.trai.ch/quill/internal/core/domain"
)

// Engine is the external compilation engine: given a world satisfying
// the capability contract, it produces a document plus warnings, or an
// error when diagnostics prevent output.
//
//go:generate go run go.uber.org/mock/mockgen -source=engine.go -destination=mocks/mock_engine.go -package=mocks
type Engine interface {
	Compile(ctx context.Context, world World) (*domain.Document, []domain.Diagnostic, error)
}

// Exporter encodes a compiled document into one or more output buffers
// for the selected format.
type Exporter interface {
	Export(doc *domain.Document, format string, ppi float32) ([][]byte, error)
}
