package packages

import (
	"context"
	"io"
	"net/http"

	"go.trai.ch/zerr"

	"go.trai.ch/quill/internal/build"
	"go.trai.ch/quill/internal/core/ports"
)

var _ ports.Downloader = (*HTTPDownloader)(nil)

// HTTPDownloader implements ports.Downloader over net/http.
type HTTPDownloader struct {
	client    *http.Client
	userAgent string
}

// NewHTTPDownloader creates a downloader identifying itself as this
// build of quill.
func NewHTTPDownloader() *HTTPDownloader {
	return &HTTPDownloader{
		client:    &http.Client{},
		userAgent: "quill/" + build.Version,
	}
}

// Download fetches the URL and returns the response body. The caller
// closes it.
func (d *HTTPDownloader) Download(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to build download request"), "url", url)
	}
	req.Header.Set("User-Agent", d.userAgent)

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "download failed"), "url", url)
	}
	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, zerr.With(zerr.With(zerr.New("unexpected download status"), "status", resp.StatusCode), "url", url)
	}

	return resp.Body, nil
}

// silentProgress discards all download events. Package resolution
// happens lazily in the middle of a compilation; it must not write to
// the user's terminal.
type silentProgress struct{}

func (silentProgress) Start(string)          {}
func (silentProgress) Advance(int64, int64)  {}
func (silentProgress) Finish()               {}

// SilentProgress returns the no-op progress observer.
func SilentProgress() ports.Progress { return silentProgress{} }

// progressReader forwards reads while reporting the running byte count.
type progressReader struct {
	r        io.Reader
	done     int64
	total    int64
	progress ports.Progress
}

func (p *progressReader) Read(buf []byte) (int, error) {
	n, err := p.r.Read(buf)
	p.done += int64(n)
	p.progress.Advance(p.done, p.total)
	return n, err
}
