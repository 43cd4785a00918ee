package constants

import "time"

const (
	DelayBetweenRPCCalls  = 200              // delay in milliseconds between RPC calls
	QueryTimeout          = 5 * time.Second  // timeout for balance/nonce/gas queries
	MirrorNodeTimeout     = 10 * time.Second // timeout for Hedera mirror node requests
	SessionRequestTimeout = 5 * time.Minute  // upper bound for a wallet to answer a session request
	TLSHandshakeTimeout   = 10 * time.Second // timeout for TLS handshake
	ResponseHeaderTimeout = 20 * time.Second // timeout for response header
	ExpectContinueTimeout = 1 * time.Second  // timeout for expect continue
	MaxResponseBodySize   = 10 * 1024 * 1024 // maximum response body size in bytes (10MB)
)

// Namespace identifiers (CAIP-2 prefixes)
const (
	NamespaceEIP155 = "eip155"
	NamespaceHedera = "hedera"
	NamespaceSolana = "solana"
)

// EIP-155 JSON-RPC methods
const (
	MethodEthSendTransaction = "eth_sendTransaction"
	MethodEthSignTransaction = "eth_signTransaction"
	MethodEthSign            = "eth_sign"
	MethodPersonalSign       = "personal_sign"
	MethodEthSignTypedData   = "eth_signTypedData"
	MethodEthSignTypedDataV4 = "eth_signTypedData_v4"
)

// Hedera JSON-RPC methods (HIP-820)
const (
	MethodHederaSignAndExecuteTransaction = "hedera_signAndExecuteTransaction"
	MethodHederaSignTransaction           = "hedera_signTransaction"
	MethodHederaSignMessage               = "hedera_signMessage"
)

// Solana JSON-RPC methods
const (
	MethodSolanaSignTransaction = "solana_signTransaction"
	MethodSolanaSignMessage     = "solana_signMessage"
)

// Session events every namespace proposal subscribes to
const (
	EventChainChanged    = "chainChanged"
	EventAccountsChanged = "accountsChanged"
)

// EIP-155 chain references
const (
	ChainEthereum  = "1"
	ChainOptimism  = "10"
	ChainPolygon   = "137"
	ChainZkSyncEra = "324"
	ChainBase      = "8453"
	ChainArbitrum  = "42161"
	ChainAvalanche = "43114"
	ChainSepolia   = "11155111"
)

// Hedera chain references
const (
	ChainHederaMainnet = "mainnet"
	ChainHederaTestnet = "testnet"
)

// Solana chain references (first 32 characters of the genesis hash)
const (
	ChainSolanaMainnet = "5eykt4UsFv8P8NJdTREpY1vzqKqZKvdp"
	ChainSolanaDevnet  = "EtWTRABZaYq6iMfeYKouRu166VU2xqa1"
)

// OfficialRPCEndpoints are the fallback query endpoints used before endpoint
// discovery has completed, keyed by EIP-155 chain reference.
var OfficialRPCEndpoints = map[string][]string{
	ChainEthereum:  {"https://cloudflare-eth.com", "https://eth.llamarpc.com"},
	ChainOptimism:  {"https://mainnet.optimism.io"},
	ChainPolygon:   {"https://polygon-rpc.com"},
	ChainZkSyncEra: {"https://mainnet.era.zksync.io"},
	ChainBase:      {"https://mainnet.base.org"},
	ChainArbitrum:  {"https://arb1.arbitrum.io/rpc"},
	ChainAvalanche: {"https://api.avax.network/ext/bc/C/rpc"},
	ChainSepolia:   {"https://rpc.sepolia.org"},
}

// SolanaRPCEndpoints maps Solana chain references to public RPC endpoints.
var SolanaRPCEndpoints = map[string][]string{
	ChainSolanaMainnet: {"https://api.mainnet-beta.solana.com"},
	ChainSolanaDevnet:  {"https://api.devnet.solana.com"},
}

// HederaMirrorNodeURLs maps Hedera chain references to mirror node base URLs.
var HederaMirrorNodeURLs = map[string]string{
	ChainHederaMainnet: "https://mainnet-public.mirrornode.hedera.com",
	ChainHederaTestnet: "https://testnet.mirrornode.hedera.com",
}

// DefaultRelayURL is the WalletConnect relay used when none is configured.
const DefaultRelayURL = "wss://relay.walletconnect.com"
