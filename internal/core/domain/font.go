package domain

// FontInfo is the metadata the catalog records for a discovered font
// file. Font bytes are loaded lazily, not at discovery time.
type FontInfo struct {
	Family string
	Path   string
}
