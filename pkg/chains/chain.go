package chains

import (
	"context"
	"encoding/json"

	"github.com/sigweihq/wcsign/pkg/caip"
)

// NamespaceAdapter provides blockchain-namespace-specific behavior for the
// WalletConnect request/response flow: session capabilities, wire payload
// construction, and response validation. One adapter serves every chain of
// its namespace (e.g. a single eip155 adapter covers mainnet and L2s).
type NamespaceAdapter interface {
	// Namespace returns the CAIP-2 namespace this adapter serves (e.g. "eip155")
	Namespace() string

	// Capabilities returns the methods and events advertised in session proposals
	Capabilities() Capabilities

	// PayloadFactory returns the wire payload builder for this namespace
	PayloadFactory() PayloadFactory

	// ResponseValidator returns the response validator for this namespace
	ResponseValidator() ResponseValidator

	// RPCClient returns the public-endpoint query client for this namespace
	RPCClient() RPCClient
}

// Capabilities lists the session methods and events of a namespace.
// Required methods are the chain's baseline signing operations; optional
// methods are auxiliary operations a wallet may or may not implement.
type Capabilities struct {
	RequiredMethods []string
	OptionalMethods []string
	Events          []string
}

// PayloadFactory builds the JSON-RPC params for a wallet-bound request from
// an in-memory domain object. The shape of both the domain object and the
// produced params is method-specific; factories reject domain objects of the
// wrong type rather than guessing.
type PayloadFactory interface {
	// BuildParams returns the wire params for method. The domain argument is
	// namespace-specific (raw message bytes, a typed-data JSON string, a
	// transaction object) and must not be mutated by the factory.
	BuildParams(method string, address string, domain any) (any, error)
}

// SignRequest carries everything a validator needs to check a wallet
// response against the request that produced it.
type SignRequest struct {
	ChainID caip.ChainID
	Address string // bare on-chain address, not CAIP-10
	Method  string
	Params  any // wire params as built by the PayloadFactory
	Domain  any // original domain object handed to the factory
}

// Verdict is the outcome of validating a wallet response. Result holds a
// human-readable rendering of the response (a signature, a transaction hash,
// decoded transaction fields) regardless of validity.
type Verdict struct {
	Valid  bool
	Result string
}

// ResponseValidator checks a wallet's response against the originating
// request using the namespace's signature scheme. A failed check yields
// Verdict{Valid: false}; an error return is reserved for responses that
// cannot be interpreted at all.
type ResponseValidator interface {
	Validate(req *SignRequest, raw json.RawMessage) (Verdict, error)
}

// RPCClient handles direct queries against public chain endpoints. These are
// independent of the wallet session and exist to populate test transactions.
type RPCClient interface {
	// AccountBalance returns the balance of address in the chain's smallest
	// unit, as a decimal string
	AccountBalance(ctx context.Context, chainRef, address string) (string, error)

	// IsHealthy performs a health check on the given endpoint
	IsHealthy(endpoint string) bool
}

// NonceProvider is an optional interface for namespaces with account nonces.
// Implemented by: eip155 RPCClient
type NonceProvider interface {
	// PendingNonce returns the next usable nonce for address
	PendingNonce(ctx context.Context, chainRef, address string) (uint64, error)
}

// GasPriceProvider is an optional interface for namespaces with gas markets.
// Implemented by: eip155 RPCClient
type GasPriceProvider interface {
	// GasPrice returns the suggested gas price in the chain's smallest unit,
	// as a decimal string
	GasPrice(ctx context.Context, chainRef string) (string, error)
}
