// Package build holds build-time metadata.
package build

// Version is the application version. Overridden at link time via
// -ldflags "-X go.trai.ch/quill/internal/build.Version=...".
var Version = "dev"
