package providers

import (
	"github.com/samber/do/v2"

	"github.com/nightstandapp/nightstand-server/internal/config"
	"github.com/nightstandapp/nightstand-server/internal/domain"
	"github.com/nightstandapp/nightstand-server/internal/logger"
	"github.com/nightstandapp/nightstand-server/internal/media/covers"
	"github.com/nightstandapp/nightstand-server/internal/service"
	"github.com/nightstandapp/nightstand-server/internal/skins"
	"github.com/nightstandapp/nightstand-server/internal/store"
)

// ProvideLibraryService provides the library service.
func ProvideLibraryService(i do.Injector) (*service.LibraryService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	catalog := do.MustInvoke[*skins.Catalog](i)
	lookup := do.MustInvoke[*GoogleBooksClientHandle](i)

	emitter := do.MustInvoke[store.EventEmitter](i)
	rules := domain.Rules{AwardOnRecomplete: cfg.Progress.AwardXPOnRecomplete}

	library := service.NewLibraryService(
		storeHandle.Store,
		catalog,
		lookup.Client,
		emitter,
		rules,
		log.Logger,
	)

	coverCache, err := do.Invoke[*covers.Downloader](i)
	if err != nil {
		return nil, err
	}
	library.UseCovers(coverCache)

	return library, nil
}

// ProvideEventEmitter broadcasts library changes to event stream clients.
func ProvideEventEmitter(i do.Injector) (store.EventEmitter, error) {
	sseHandle := do.MustInvoke[*SSEManagerHandle](i)
	return sseHandle.Manager, nil
}

// ProvideNoopEmitter drops library changes. Used where no event stream runs.
func ProvideNoopEmitter(_ do.Injector) (store.EventEmitter, error) {
	return store.NewNoopEmitter(), nil
}
