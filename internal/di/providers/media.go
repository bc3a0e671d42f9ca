package providers

import (
	"fmt"

	"github.com/samber/do/v2"

	"github.com/nightstandapp/nightstand-server/internal/config"
	"github.com/nightstandapp/nightstand-server/internal/logger"
	"github.com/nightstandapp/nightstand-server/internal/media/covers"
	"github.com/nightstandapp/nightstand-server/internal/media/images"
)

// ProvideCoverDownloader provides cover caching under the data path.
func ProvideCoverDownloader(i do.Injector) (*covers.Downloader, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	storage, err := images.NewStorage(cfg.Storage.DataPath)
	if err != nil {
		return nil, fmt.Errorf("create cover storage: %w", err)
	}
	return covers.NewDownloader(storage, log.Logger), nil
}
