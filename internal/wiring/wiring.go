// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/assetpipe/internal/adapters/config"
	_ "go.trai.ch/assetpipe/internal/adapters/fs"
	_ "go.trai.ch/assetpipe/internal/adapters/imageopt"
	_ "go.trai.ch/assetpipe/internal/adapters/linear"
	_ "go.trai.ch/assetpipe/internal/adapters/logger"
	_ "go.trai.ch/assetpipe/internal/adapters/sass"
	_ "go.trai.ch/assetpipe/internal/adapters/script"
	_ "go.trai.ch/assetpipe/internal/adapters/stylesheet"
	_ "go.trai.ch/assetpipe/internal/adapters/watcher"
	// Register app and engine nodes.
	_ "go.trai.ch/assetpipe/internal/app"
	_ "go.trai.ch/assetpipe/internal/engine/pipeline"
)
