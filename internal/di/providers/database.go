package providers

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/samber/do/v2"

	"github.com/nightstandapp/nightstand-server/internal/config"
	"github.com/nightstandapp/nightstand-server/internal/logger"
	"github.com/nightstandapp/nightstand-server/internal/sse"
	"github.com/nightstandapp/nightstand-server/internal/store"
	"github.com/nightstandapp/nightstand-server/internal/store/sqlite"
)

// SSEManagerHandle wraps the SSE manager with its context for lifecycle management.
type SSEManagerHandle struct {
	*sse.Manager
	cancel context.CancelFunc
}

// Shutdown implements do.Shutdownable.
func (h *SSEManagerHandle) Shutdown() error {
	h.cancel()
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Manager.Shutdown(ctx)
}

// ProvideSSEManager provides the server-sent events manager.
func ProvideSSEManager(i do.Injector) (*SSEManagerHandle, error) {
	log := do.MustInvoke[*logger.Logger](i)

	manager := sse.NewManager(log.Logger)

	// Start in background
	ctx, cancel := context.WithCancel(context.Background())
	go manager.Start(ctx)

	log.Debug("SSE manager started")

	return &SSEManagerHandle{
		Manager: manager,
		cancel:  cancel,
	}, nil
}

// StoreHandle wraps the store with shutdown capability.
type StoreHandle struct {
	store.Store
}

// Shutdown implements do.Shutdownable.
func (h *StoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideStore opens the configured storage backend.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	st, err := OpenStore(cfg, log.Logger)
	if err != nil {
		return nil, err
	}

	log.Info("Database initialized",
		"backend", cfg.Storage.Backend,
		"path", cfg.DatabasePath(),
	)

	return &StoreHandle{Store: st}, nil
}

// OpenStore opens the backend named by cfg, creating the data directory if needed.
func OpenStore(cfg *config.Config, logger *slog.Logger) (store.Store, error) {
	if err := os.MkdirAll(cfg.Storage.DataPath, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	switch cfg.Storage.Backend {
	case config.BackendSQLite:
		st, err := sqlite.Open(cfg.DatabasePath(), logger)
		if err != nil {
			return nil, err
		}
		return st, nil
	case config.BackendBadger:
		st, err := store.New(cfg.DatabasePath(), logger)
		if err != nil {
			return nil, err
		}
		return st, nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Storage.Backend)
	}
}
