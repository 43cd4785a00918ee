package solana

import (
	"github.com/sigweihq/wcsign/pkg/chains"
	"github.com/sigweihq/wcsign/pkg/constants"
)

// Adapter provides solana namespace support
type Adapter struct {
	factory   *PayloadFactory
	validator *ResponseValidator
	rpc       *RPCClient
}

// NewAdapter creates a solana adapter. endpoints maps chain references to
// query endpoints; pass nil to use the public defaults.
func NewAdapter(endpoints map[string][]string) *Adapter {
	return &Adapter{
		factory:   NewPayloadFactory(),
		validator: NewResponseValidator(),
		rpc:       NewRPCClient(endpoints),
	}
}

var _ chains.NamespaceAdapter = (*Adapter)(nil)

// Namespace implements chains.NamespaceAdapter
func (a *Adapter) Namespace() string {
	return constants.NamespaceSolana
}

// Capabilities implements chains.NamespaceAdapter
func (a *Adapter) Capabilities() chains.Capabilities {
	return chains.Capabilities{
		RequiredMethods: []string{
			constants.MethodSolanaSignTransaction,
			constants.MethodSolanaSignMessage,
		},
		Events: []string{constants.EventChainChanged, constants.EventAccountsChanged},
	}
}

// PayloadFactory implements chains.NamespaceAdapter
func (a *Adapter) PayloadFactory() chains.PayloadFactory {
	return a.factory
}

// ResponseValidator implements chains.NamespaceAdapter
func (a *Adapter) ResponseValidator() chains.ResponseValidator {
	return a.validator
}

// RPCClient implements chains.NamespaceAdapter
func (a *Adapter) RPCClient() chains.RPCClient {
	return a.rpc
}
