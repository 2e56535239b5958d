package fonts

import (
	"context"

	"github.com/grindlemire/graft"

	"go.trai.ch/quill/internal/adapters/logger"
	"go.trai.ch/quill/internal/core/ports"
)

// NodeID is the unique identifier for the font searcher Graft node.
const NodeID graft.ID = "adapter.fonts"

func init() {
	graft.Register(graft.Node[ports.FontSearcher]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.FontSearcher, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewSearcher(log), nil
		},
	})
}
