// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/quill/internal/adapters/config"
	_ "go.trai.ch/quill/internal/adapters/fonts"
	_ "go.trai.ch/quill/internal/adapters/logger"
	_ "go.trai.ch/quill/internal/adapters/markup"
	_ "go.trai.ch/quill/internal/adapters/packages"
	// Register app and boundary nodes.
	_ "go.trai.ch/quill/internal/app"
	_ "go.trai.ch/quill/internal/boundary"
)
