package markup

import (
	"context"

	"github.com/grindlemire/graft"

	"go.trai.ch/quill/internal/core/ports"
)

const (
	// EngineNodeID is the unique identifier for the engine Graft node.
	EngineNodeID graft.ID = "adapter.markup.engine"
	// ExporterNodeID is the unique identifier for the exporter Graft node.
	ExporterNodeID graft.ID = "adapter.markup.exporter"
)

func init() {
	graft.Register(graft.Node[ports.Engine]{
		ID:        EngineNodeID,
		Cacheable: true,
		Run: func(ctx context.Context) (ports.Engine, error) {
			return NewEngine(), nil
		},
	})

	graft.Register(graft.Node[ports.Exporter]{
		ID:        ExporterNodeID,
		Cacheable: true,
		Run: func(ctx context.Context) (ports.Exporter, error) {
			return NewExporter(), nil
		},
	})
}
