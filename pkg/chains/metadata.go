package chains

import (
	"github.com/sigweihq/wcsign/pkg/caip"
	"github.com/sigweihq/wcsign/pkg/constants"
)

// ChainMetadata is display-only information for a chain: name, native
// currency, accent color, and logo. Created once at startup, never mutated.
type ChainMetadata struct {
	Name     string
	Currency string
	RGB      string // accent color as "r, g, b"
	LogoURL  string
}

// MetadataRegistry resolves display metadata for chain ids. It is an
// interface so tests and embedders can substitute their own tables.
type MetadataRegistry interface {
	// Metadata returns the metadata for a chain id, reporting whether the
	// chain is known
	Metadata(id caip.ChainID) (ChainMetadata, bool)
}

type staticMetadata struct {
	entries map[caip.ChainID]ChainMetadata
}

// DefaultMetadata returns the built-in metadata tables for the chains this
// library knows about. The returned registry is immutable.
func DefaultMetadata() MetadataRegistry {
	return &staticMetadata{entries: defaultEntries}
}

func (s *staticMetadata) Metadata(id caip.ChainID) (ChainMetadata, bool) {
	md, ok := s.entries[id]
	return md, ok
}

var defaultEntries = map[caip.ChainID]ChainMetadata{
	{Namespace: constants.NamespaceEIP155, Reference: constants.ChainEthereum}: {
		Name:     "Ethereum",
		Currency: "ETH",
		RGB:      "99, 125, 234",
		LogoURL:  "/chain-logos/eip155-1.png",
	},
	{Namespace: constants.NamespaceEIP155, Reference: constants.ChainOptimism}: {
		Name:     "Optimism",
		Currency: "ETH",
		RGB:      "233, 1, 1",
		LogoURL:  "/chain-logos/eip155-10.png",
	},
	{Namespace: constants.NamespaceEIP155, Reference: constants.ChainPolygon}: {
		Name:     "Polygon",
		Currency: "MATIC",
		RGB:      "130, 71, 229",
		LogoURL:  "/chain-logos/eip155-137.png",
	},
	{Namespace: constants.NamespaceEIP155, Reference: constants.ChainZkSyncEra}: {
		Name:     "zkSync Era",
		Currency: "ETH",
		RGB:      "90, 90, 90",
		LogoURL:  "/chain-logos/eip155-324.svg",
	},
	{Namespace: constants.NamespaceEIP155, Reference: constants.ChainBase}: {
		Name:     "Base",
		Currency: "ETH",
		RGB:      "0, 82, 255",
		LogoURL:  "/chain-logos/eip155-8453.png",
	},
	{Namespace: constants.NamespaceEIP155, Reference: constants.ChainArbitrum}: {
		Name:     "Arbitrum One",
		Currency: "ETH",
		RGB:      "44, 83, 123",
		LogoURL:  "/chain-logos/eip155-42161.png",
	},
	{Namespace: constants.NamespaceEIP155, Reference: constants.ChainAvalanche}: {
		Name:     "Avalanche C-Chain",
		Currency: "AVAX",
		RGB:      "232, 65, 66",
		LogoURL:  "/chain-logos/eip155-43114.png",
	},
	{Namespace: constants.NamespaceEIP155, Reference: constants.ChainSepolia}: {
		Name:     "Sepolia",
		Currency: "ETH",
		RGB:      "99, 125, 234",
		LogoURL:  "/chain-logos/eip155-1.png",
	},
	{Namespace: constants.NamespaceHedera, Reference: constants.ChainHederaMainnet}: {
		Name:     "Hedera Mainnet",
		Currency: "HBAR",
		RGB:      "64, 64, 64",
		LogoURL:  "/chain-logos/hedera.png",
	},
	{Namespace: constants.NamespaceHedera, Reference: constants.ChainHederaTestnet}: {
		Name:     "Hedera Testnet",
		Currency: "HBAR",
		RGB:      "64, 64, 64",
		LogoURL:  "/chain-logos/hedera.png",
	},
	{Namespace: constants.NamespaceSolana, Reference: constants.ChainSolanaMainnet}: {
		Name:     "Solana",
		Currency: "SOL",
		RGB:      "30, 240, 166",
		LogoURL:  "/chain-logos/solana.png",
	},
	{Namespace: constants.NamespaceSolana, Reference: constants.ChainSolanaDevnet}: {
		Name:     "Solana Devnet",
		Currency: "SOL",
		RGB:      "30, 240, 166",
		LogoURL:  "/chain-logos/solana.png",
	},
}
