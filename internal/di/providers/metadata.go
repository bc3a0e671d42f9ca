package providers

import (
	"context"
	"fmt"

	"github.com/samber/do/v2"

	"github.com/nightstandapp/nightstand-server/internal/config"
	"github.com/nightstandapp/nightstand-server/internal/logger"
	"github.com/nightstandapp/nightstand-server/internal/metadata/googlebooks"
	"github.com/nightstandapp/nightstand-server/internal/service"
	"github.com/nightstandapp/nightstand-server/internal/skins"
	"github.com/nightstandapp/nightstand-server/internal/watcher"
)

// GoogleBooksClientHandle wraps the Google Books client with shutdown capability.
type GoogleBooksClientHandle struct {
	*googlebooks.Client
}

// Shutdown implements do.Shutdownable.
func (h *GoogleBooksClientHandle) Shutdown() error {
	h.Client.Close()
	return nil
}

// ProvideGoogleBooksClient provides the book lookup client. The public
// endpoint works without an API key, just with a lower quota.
func ProvideGoogleBooksClient(i do.Injector) (*GoogleBooksClientHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	client := googlebooks.NewClient(googlebooks.Config{
		BaseURL:           cfg.Metadata.GoogleBooksBaseURL,
		APIKey:            cfg.Metadata.GoogleBooksAPIKey,
		RequestsPerMinute: cfg.Metadata.RequestsPerMinute,
	}, log.Logger)

	log.Debug("Google Books client initialized",
		"base_url", cfg.Metadata.GoogleBooksBaseURL,
		"api_key_set", cfg.Metadata.GoogleBooksAPIKey != "",
	)

	return &GoogleBooksClientHandle{Client: client}, nil
}

// ProvideSkinCatalog loads the cosmetic catalog, falling back to the built-in one.
func ProvideSkinCatalog(i do.Injector) (*skins.Catalog, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if cfg.Skins.CatalogPath == "" {
		return skins.Default(), nil
	}

	catalog, err := skins.Load(cfg.Skins.CatalogPath)
	if err != nil {
		return nil, err
	}

	log.Info("Skin catalog loaded",
		"path", cfg.Skins.CatalogPath,
		"skins", catalog.Len(),
	)

	return catalog, nil
}

// CatalogWatcherHandle reloads the skin catalog when its file changes.
type CatalogWatcherHandle struct {
	watcher *watcher.Watcher
	cancel  context.CancelFunc
}

// Shutdown implements do.Shutdownable.
func (h *CatalogWatcherHandle) Shutdown() error {
	if h.watcher == nil {
		return nil
	}
	h.cancel()
	return h.watcher.Stop()
}

// ProvideCatalogWatcher watches the configured catalog file and swaps the
// library's catalog after every settled write. A file that fails to parse is
// logged and the previous catalog stays in effect. With the built-in catalog
// there is nothing to watch and the handle is inert.
func ProvideCatalogWatcher(i do.Injector) (*CatalogWatcherHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	library := do.MustInvoke[*service.LibraryService](i)

	path := cfg.Skins.CatalogPath
	if path == "" {
		return &CatalogWatcherHandle{}, nil
	}

	w, err := watcher.New(log.Logger, path, watcher.Options{})
	if err != nil {
		return nil, fmt.Errorf("watch skin catalog: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		if err := w.Start(ctx); err != nil && ctx.Err() == nil {
			log.Error("Skin catalog watcher stopped", "error", err)
		}
	}()

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-w.Events():
				if !ok {
					return
				}
				if event.Type != watcher.EventChanged {
					log.Warn("Skin catalog file removed, keeping current catalog", "path", event.Path)
					continue
				}
				catalog, err := skins.Load(event.Path)
				if err != nil {
					log.Warn("Skin catalog reload failed, keeping current catalog",
						"path", event.Path,
						"error", err,
					)
					continue
				}
				library.SetCatalog(catalog)
			case err, ok := <-w.Errors():
				if !ok {
					return
				}
				log.Warn("Skin catalog watcher error", "error", err)
			}
		}
	}()

	log.Info("Watching skin catalog", "path", path)

	return &CatalogWatcherHandle{watcher: w, cancel: cancel}, nil
}
