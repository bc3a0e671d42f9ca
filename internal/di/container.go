// Package di provides dependency injection configuration for the Nightstand server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/nightstandapp/nightstand-server/internal/config"
	"github.com/nightstandapp/nightstand-server/internal/di/providers"
	"github.com/nightstandapp/nightstand-server/internal/logger"
	"github.com/nightstandapp/nightstand-server/internal/service"
	"github.com/nightstandapp/nightstand-server/internal/skins"
)

// NewContainer creates the server container. Configuration comes from the
// process arguments and environment.
func NewContainer() *do.RootScope {
	injector := do.New()

	do.Provide(injector, providers.ProvideConfig)
	registerCore(injector)

	// Event stream
	do.Provide(injector, providers.ProvideSSEManager)
	do.Provide(injector, providers.ProvideEventEmitter)

	// Catalog hot reload
	do.Provide(injector, providers.ProvideCatalogWatcher)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)
	do.Provide(injector, providers.ProvideMDNS)

	return injector
}

// NewToolContainer creates a container for command-line tools. It uses cfg
// as given and does not broadcast change events.
func NewToolContainer(cfg *config.Config) *do.RootScope {
	injector := do.New()

	do.ProvideValue(injector, cfg)
	registerCore(injector)
	do.Provide(injector, providers.ProvideNoopEmitter)

	return injector
}

func registerCore(injector do.Injector) {
	// Core infrastructure
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideSlogLogger)

	// Database layer
	do.Provide(injector, providers.ProvideStore)

	// Catalogs and lookup
	do.Provide(injector, providers.ProvideSkinCatalog)
	do.Provide(injector, providers.ProvideGoogleBooksClient)
	do.Provide(injector, providers.ProvideCoverDownloader)

	// Business services
	do.Provide(injector, providers.ProvideLibraryService)
}

// Bootstrap initializes all services for the server.
// This triggers lazy initialization of every provider.
func Bootstrap(injector *do.RootScope) error {
	if _, err := do.Invoke[*config.Config](injector); err != nil {
		return err
	}
	_ = do.MustInvoke[*logger.Logger](injector)

	if _, err := do.Invoke[*providers.StoreHandle](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*skins.Catalog](injector); err != nil {
		return err
	}
	_ = do.MustInvoke[*providers.SSEManagerHandle](injector)
	_ = do.MustInvoke[*providers.GoogleBooksClientHandle](injector)
	_ = do.MustInvoke[*service.LibraryService](injector)
	if _, err := do.Invoke[*providers.CatalogWatcherHandle](injector); err != nil {
		return err
	}

	// Server
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)
	if _, err := do.Invoke[*providers.MDNSHandle](injector); err != nil {
		return err
	}

	return nil
}

// Library resolves the library service from a tool container.
func Library(injector *do.RootScope) (*service.LibraryService, error) {
	return do.Invoke[*service.LibraryService](injector)
}
