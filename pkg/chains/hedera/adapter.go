package hedera

import (
	"github.com/sigweihq/wcsign/pkg/chains"
	"github.com/sigweihq/wcsign/pkg/constants"
)

// Adapter provides hedera namespace support.
type Adapter struct {
	factory   *PayloadFactory
	validator *ResponseValidator
	mirror    *MirrorClient
}

// NewAdapter creates a hedera adapter. mirrorURLs maps chain references to
// mirror node base URLs; pass nil to use the public mirror nodes.
func NewAdapter(mirrorURLs map[string]string) *Adapter {
	return &Adapter{
		factory:   NewPayloadFactory(),
		validator: NewResponseValidator(),
		mirror:    NewMirrorClient(mirrorURLs),
	}
}

var _ chains.NamespaceAdapter = (*Adapter)(nil)

// Namespace implements chains.NamespaceAdapter
func (a *Adapter) Namespace() string {
	return constants.NamespaceHedera
}

// Capabilities implements chains.NamespaceAdapter
func (a *Adapter) Capabilities() chains.Capabilities {
	return chains.Capabilities{
		RequiredMethods: []string{
			constants.MethodHederaSignAndExecuteTransaction,
			constants.MethodHederaSignTransaction,
		},
		OptionalMethods: []string{
			constants.MethodHederaSignMessage,
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
	return a.mirror
}

// Init registers the hedera adapter in the global registry with the public
// mirror nodes.
func Init() error {
	registry := chains.InitGlobalRegistry()
	return registry.Register(NewAdapter(nil))
}
