package ports

import "go.trai.ch/assetpipe/internal/core/domain"

// ConfigLoader defines the interface for loading the project configuration.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load builds the configuration for the project rooted at root. configPath
	// names the yaml file to read; when empty the default file in root is used
	// if present.
	Load(root, configPath string) (*domain.Config, error)
}
