package eip155

import (
	"github.com/sigweihq/wcsign/pkg/chains"
	"github.com/sigweihq/wcsign/pkg/constants"
)

// Adapter provides eip155 namespace support. A single adapter covers every
// EVM chain; per-chain differences (chain id, endpoints) are resolved at
// request time from the chain reference.
type Adapter struct {
	factory   *PayloadFactory
	validator *ResponseValidator
	rpc       *RPCClient
}

// NewAdapter creates an eip155 adapter. endpoints maps chain references to
// query endpoints; pass nil to use the official defaults.
func NewAdapter(endpoints map[string][]string) *Adapter {
	if endpoints == nil {
		endpoints = constants.OfficialRPCEndpoints
	}
	return &Adapter{
		factory:   NewPayloadFactory(),
		validator: NewResponseValidator(),
		rpc:       NewRPCClient(endpoints),
	}
}

var _ chains.NamespaceAdapter = (*Adapter)(nil)

// Namespace implements chains.NamespaceAdapter
func (a *Adapter) Namespace() string {
	return constants.NamespaceEIP155
}

// Capabilities implements chains.NamespaceAdapter
func (a *Adapter) Capabilities() chains.Capabilities {
	return chains.Capabilities{
		RequiredMethods: []string{
			constants.MethodEthSendTransaction,
			constants.MethodPersonalSign,
		},
		OptionalMethods: []string{
			constants.MethodEthSignTransaction,
			constants.MethodEthSign,
			constants.MethodEthSignTypedData,
			constants.MethodEthSignTypedDataV4,
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
