package ports

import (
	"context"
	"io"
)

// Downloader fetches a URL and returns its body. Implementations do
// not retry; callers decide what a failure means.
//
//go:generate go run go.uber.org/mock/mockgen -source=downloader.go -destination=mocks/mock_downloader.go -package=mocks
type Downloader interface {
	Download(ctx context.Context, url string) (io.ReadCloser, error)
}

// Progress observes one download. Package downloads use a silent
// implementation: resolution happens lazily in the middle of a
// compilation and must not write to the user's terminal.
type Progress interface {
	Start(url string)
	Advance(done, total int64)
	Finish()
}
