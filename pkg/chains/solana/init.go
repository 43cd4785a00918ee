package solana

import (
	"github.com/sigweihq/wcsign/pkg/chains"
)

// Init registers the solana adapter in the global registry using the public
// query endpoints
func Init() error {
	registry := chains.InitGlobalRegistry()
	return registry.Register(NewAdapter(nil))
}

// InitWithEndpoints registers the solana adapter with caller-provided query
// endpoints keyed by chain reference
func InitWithEndpoints(endpoints map[string][]string) error {
	registry := chains.InitGlobalRegistry()
	return registry.Register(NewAdapter(endpoints))
}
