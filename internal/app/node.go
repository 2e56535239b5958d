package app

import (
	"context"

	"github.com/grindlemire/graft"

	"go.trai.ch/quill/internal/adapters/config"
	"go.trai.ch/quill/internal/adapters/logger"
	"go.trai.ch/quill/internal/boundary"
	"go.trai.ch/quill/internal/core/ports"
)

// Components contains all the initialized application components.
// This struct provides controlled access to components needed by the
// CLI layer.
type Components struct {
	App    *App
	Logger ports.Logger
}

// NodeID is the unique identifier for the application components Graft node.
const NodeID graft.ID = "app.components"

func init() {
	graft.Register(graft.Node[*Components]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.NodeID, boundary.NodeID, logger.NodeID},
		Run: func(ctx context.Context) (*Components, error) {
			loader, err := graft.Dep[ports.ConfigLoader](ctx)
			if err != nil {
				return nil, err
			}
			service, err := graft.Dep[*boundary.Service](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return &Components{
				App:    New(loader, service, log),
				Logger: log,
			}, nil
		},
	})
}
