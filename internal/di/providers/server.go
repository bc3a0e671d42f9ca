package providers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/samber/do/v2"

	"github.com/nightstandapp/nightstand-server/internal/api"
	"github.com/nightstandapp/nightstand-server/internal/config"
	"github.com/nightstandapp/nightstand-server/internal/logger"
	"github.com/nightstandapp/nightstand-server/internal/mdns"
	"github.com/nightstandapp/nightstand-server/internal/service"
)

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
	api *api.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	err := h.Server.Shutdown(ctx)
	h.api.Close()
	return err
}

// ProvideHTTPServer provides the HTTP server and starts listening.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	sseHandle := do.MustInvoke[*SSEManagerHandle](i)
	library := do.MustInvoke[*service.LibraryService](i)

	handler := api.NewServer(library, sseHandle.Manager, api.Config{
		AllowedOrigins: cfg.Server.AllowedOrigins,
	}, log.Logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start in background
	go func() {
		log.Info("HTTP server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server error", "error", err)
		}
	}()

	return &HTTPServerHandle{Server: srv, api: handler}, nil
}

// MDNSHandle wraps the mDNS advertisement with Shutdownable.
type MDNSHandle struct {
	Service *mdns.Service
}

// Shutdown implements do.Shutdownable.
func (h *MDNSHandle) Shutdown() error {
	if h.Service != nil {
		h.Service.Stop()
	}
	return nil
}

// ProvideMDNS advertises the HTTP server when MDNS_ENABLED is set. A
// responder that cannot start is logged and otherwise ignored.
func ProvideMDNS(i do.Injector) (*MDNSHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if !cfg.Server.AdvertiseMDNS {
		return &MDNSHandle{}, nil
	}

	port, err := strconv.Atoi(cfg.Server.Port)
	if err != nil {
		return nil, fmt.Errorf("mDNS needs a numeric port, got %q", cfg.Server.Port)
	}

	svc := mdns.NewService(log.Logger)
	err = svc.Start(mdns.Advertisement{
		Version:    api.Version,
		Port:       port,
		EventsPath: api.EventsPath,
	})
	if err != nil {
		log.Warn("mDNS advertisement unavailable", "error", err)
	}
	return &MDNSHandle{Service: svc}, nil
}
