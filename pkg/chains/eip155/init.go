package eip155

import (
	"log/slog"
	"time"

	"github.com/sigweihq/wcsign/pkg/chains"
)

// Init registers the eip155 adapter in the global registry using the
// official query endpoints. Endpoint discovery from chainlist.org runs in
// the background and re-registers the adapter when fresh endpoints arrive,
// so callers can connect immediately without blocking on health checks.
func Init(logger *slog.Logger, chainRefs ...string) error {
	if logger == nil {
		logger = slog.Default()
	}
	registry := chains.InitGlobalRegistry()

	if err := registry.Register(NewAdapter(nil)); err != nil {
		return err
	}

	if len(chainRefs) > 0 {
		provider := NewChainListEndpointProvider(logger)
		go refreshLoop(logger, provider, registry, chainRefs)
	}

	return nil
}

// InitWithEndpoints registers the eip155 adapter with caller-provided query
// endpoints (keyed by chain reference) and no background discovery.
func InitWithEndpoints(logger *slog.Logger, endpoints map[string][]string) error {
	registry := chains.InitGlobalRegistry()
	return registry.Register(NewAdapter(endpoints))
}

// refreshLoop refreshes endpoints and re-registers the adapter periodically.
// The first refresh runs immediately.
func refreshLoop(logger *slog.Logger, provider *ChainListEndpointProvider, registry *chains.Registry, chainRefs []string) {
	refresh := func() {
		if err := provider.RefreshEndpoints(chainRefs); err != nil {
			logger.Warn("endpoint refresh failed, keeping previous endpoints", "error", err)
			return
		}
		if err := registry.Register(NewAdapter(provider.Snapshot())); err != nil {
			logger.Warn("failed to re-register eip155 adapter", "error", err)
		}
	}

	refresh()

	ticker := time.NewTicker(6 * time.Hour)
	defer ticker.Stop()
	for range ticker.C {
		refresh()
	}
}
