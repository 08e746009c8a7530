package cmd

import (
	adapterdiscovery "repotabs/internal/adapters/discovery"
	adaptereditor "repotabs/internal/adapters/editor"
	adapterstorage "repotabs/internal/adapters/storage"
	adaptervcs "repotabs/internal/adapters/vcs"
	"repotabs/internal/config"
	"repotabs/internal/ports"
	"repotabs/internal/services"
)

// Container holds all dependencies for the application
type Container struct {
	Settings   ports.SettingsSource
	TabService *services.TabService

	// Internal - for cleanup only
	tabRepo ports.TabRepository
}

// NewContainer creates a new Container with all dependencies wired
func NewContainer() (*Container, error) {
	tabRepo, err := adapterstorage.NewSQLiteRepository(config.GetDBPath())
	if err != nil {
		return nil, err
	}

	settings := &config.FileSource{}
	discoverer := adapterdiscovery.NewDiscoverer()
	vcsReader := adaptervcs.NewStatusReader(nil)
	bridge := adaptereditor.NewBridge()

	tabService := services.NewTabService(tabRepo, discoverer, vcsReader, bridge, settings)

	return &Container{
		Settings:   settings,
		TabService: tabService,
		tabRepo:    tabRepo,
	}, nil
}

// Close closes all resources held by the container
func (c *Container) Close() error {
	if c.tabRepo != nil {
		return c.tabRepo.Close()
	}
	return nil
}

// NewSessionContainer builds an independent service over the shared
// database for one SSH session. The returned closer releases that
// session's connection pool.
func NewSessionContainer() (*services.TabService, func() error, error) {
	tabRepo, err := adapterstorage.NewSQLiteRepository(config.GetDBPath())
	if err != nil {
		return nil, nil, err
	}

	tabService := services.NewTabService(
		tabRepo,
		adapterdiscovery.NewDiscoverer(),
		adaptervcs.NewStatusReader(nil),
		adaptereditor.NewBridge(),
		&config.FileSource{},
	)
	return tabService, tabRepo.Close, nil
}
