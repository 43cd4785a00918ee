package eip155

import "fmt"

// UnsupportedChainError is returned when a chain reference has no configuration
type UnsupportedChainError struct {
	ChainRef string
}

func (e *UnsupportedChainError) Error() string {
	return fmt.Sprintf("unsupported eip155 chain: %s", e.ChainRef)
}

// RPCError represents an RPC-related error
type RPCError struct {
	Endpoint string
	Err      error
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("RPC error on %s: %v", e.Endpoint, e.Err)
}

func (e *RPCError) Unwrap() error {
	return e.Err
}
