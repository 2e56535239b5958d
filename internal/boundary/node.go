package boundary

import (
	"context"

	"github.com/grindlemire/graft"

	"go.trai.ch/quill/internal/adapters/fonts"
	"go.trai.ch/quill/internal/adapters/logger"
	"go.trai.ch/quill/internal/adapters/markup"
	"go.trai.ch/quill/internal/adapters/packages"
	"go.trai.ch/quill/internal/core/ports"
)

// NodeID is the unique identifier for the boundary service Graft node.
const NodeID graft.ID = "boundary.service"

func init() {
	graft.Register(graft.Node[*Service]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			markup.EngineNodeID,
			markup.ExporterNodeID,
			fonts.NodeID,
			packages.NodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Service, error) {
			engine, err := graft.Dep[ports.Engine](ctx)
			if err != nil {
				return nil, err
			}
			exporter, err := graft.Dep[ports.Exporter](ctx)
			if err != nil {
				return nil, err
			}
			searcher, err := graft.Dep[ports.FontSearcher](ctx)
			if err != nil {
				return nil, err
			}
			resolver, err := graft.Dep[ports.PackageResolver](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return New(engine, exporter, searcher, resolver, log), nil
		},
	})
}
