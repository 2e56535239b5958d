package packages

import (
	"context"

	"github.com/grindlemire/graft"

	"go.trai.ch/quill/internal/adapters/logger"
	"go.trai.ch/quill/internal/core/ports"
)

const (
	// NodeID is the unique identifier for the package resolver Graft node.
	NodeID graft.ID = "adapter.packages"
	// DownloaderNodeID is the unique identifier for the downloader Graft node.
	DownloaderNodeID graft.ID = "adapter.packages.downloader"
)

func init() {
	graft.Register(graft.Node[ports.Downloader]{
		ID:        DownloaderNodeID,
		Cacheable: true,
		Run: func(ctx context.Context) (ports.Downloader, error) {
			return NewHTTPDownloader(), nil
		},
	})

	graft.Register(graft.Node[ports.PackageResolver]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{DownloaderNodeID, logger.NodeID},
		Run: func(ctx context.Context) (ports.PackageResolver, error) {
			downloader, err := graft.Dep[ports.Downloader](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewStorage(StorageOptions{Downloader: downloader, Logger: log})
		},
	})
}
