// Package caip implements parsing and formatting of CAIP-2 chain ids and
// CAIP-10 account ids, the namespace-qualified identifiers used throughout
// WalletConnect sessions (e.g. "eip155:1", "hedera:testnet:0.0.1234").
package caip

import (
	"fmt"
	"strings"
)

// ChainID is a CAIP-2 chain identifier: <namespace>:<reference>
type ChainID struct {
	Namespace string // e.g. "eip155", "hedera", "solana"
	Reference string // e.g. "1", "testnet", "5eykt4UsFv8P8NJdTREpY1vzqKqZKvdp"
}

// ParseChainID parses a CAIP-2 string into its namespace and reference parts.
func ParseChainID(s string) (ChainID, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return ChainID{}, fmt.Errorf("invalid CAIP-2 chain id, expected 'namespace:reference', got %q", s)
	}
	return ChainID{Namespace: parts[0], Reference: parts[1]}, nil
}

// MustChainID is a ParseChainID that panics on malformed input. Intended for
// static tables and tests.
func MustChainID(s string) ChainID {
	id, err := ParseChainID(s)
	if err != nil {
		panic(err)
	}
	return id
}

func (c ChainID) String() string {
	return c.Namespace + ":" + c.Reference
}

// Account is a CAIP-10 account identifier: <namespace>:<reference>:<address>
type Account struct {
	Chain   ChainID
	Address string
}

// ParseAccount parses a CAIP-10 string. The address part is kept verbatim;
// case and encoding rules are namespace-specific and enforced by the chain
// adapters, not here.
func ParseAccount(s string) (Account, error) {
	parts := strings.SplitN(s, ":", 3)
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return Account{}, fmt.Errorf("invalid CAIP-10 account, expected 'namespace:reference:address', got %q", s)
	}
	return Account{
		Chain:   ChainID{Namespace: parts[0], Reference: parts[1]},
		Address: parts[2],
	}, nil
}

func (a Account) String() string {
	return a.Chain.String() + ":" + a.Address
}

// ChainID returns the CAIP-2 part of the account id.
func (a Account) ChainID() ChainID {
	return a.Chain
}
