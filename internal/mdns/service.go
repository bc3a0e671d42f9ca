// Package mdns advertises the server on the local network so companion apps
// can find it without configuration.
package mdns

import (
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/hashicorp/mdns"
)

const (
	// ServiceType is the mDNS service type for Nightstand servers.
	ServiceType = "_nightstand._tcp"

	// APIVersion is advertised in the TXT records.
	APIVersion = "v1"
)

// Advertisement describes what gets published.
type Advertisement struct {
	// Name is the instance name; the hostname when empty.
	Name       string
	Version    string
	Port       int
	EventsPath string
}

// TXT returns the TXT records for a.
func (a Advertisement) TXT() []string {
	txt := []string{
		"api=" + APIVersion,
		"version=" + a.Version,
	}
	if a.EventsPath != "" {
		txt = append(txt, "events="+a.EventsPath)
	}
	return txt
}

// Service manages the mDNS responder.
type Service struct {
	server *mdns.Server
	logger *slog.Logger
	mu     sync.Mutex
}

// NewService creates a new mDNS service.
func NewService(logger *slog.Logger) *Service {
	return &Service{
		logger: logger,
	}
}

// Start begins advertising. A running advertisement is replaced.
// Errors are usually non-fatal: containers often lack multicast.
func (s *Service) Start(ad Advertisement) error {
	if ad.Port <= 0 {
		return fmt.Errorf("invalid port %d", ad.Port)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.server != nil {
		_ = s.server.Shutdown()
		s.server = nil
	}

	name := ad.Name
	if name == "" {
		host, err := os.Hostname()
		if err != nil {
			host = "nightstand-server"
		}
		name = host
	}

	zone, err := mdns.NewMDNSService(name, ServiceType, "", "", ad.Port, nil, ad.TXT())
	if err != nil {
		return fmt.Errorf("create mDNS service: %w", err)
	}

	server, err := mdns.NewServer(&mdns.Config{Zone: zone})
	if err != nil {
		return fmt.Errorf("start mDNS server: %w", err)
	}
	s.server = server

	s.logger.Info("mDNS advertisement started",
		"service", ServiceType,
		"name", name,
		"port", ad.Port,
	)
	return nil
}

// Running reports whether an advertisement is active.
func (s *Service) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.server != nil
}

// Stop stops advertising. Safe to call multiple times or if not started.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.server != nil {
		_ = s.server.Shutdown()
		s.server = nil
		s.logger.Info("mDNS advertisement stopped")
	}
}
