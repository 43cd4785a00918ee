package solana

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"strconv"
	"time"

	"github.com/sigweihq/wcsign/pkg/chains"
	"github.com/sigweihq/wcsign/pkg/constants"
)

// RPCClient answers balance queries against public Solana JSON-RPC endpoints
type RPCClient struct {
	endpoints map[string][]string // chain reference -> rpc urls
	client    *http.Client
}

// NewRPCClient creates a solana query client. endpoints is keyed by chain
// reference (genesis hash prefix); pass nil to use the public defaults.
func NewRPCClient(endpoints map[string][]string) *RPCClient {
	if endpoints == nil {
		endpoints = constants.SolanaRPCEndpoints
	}
	return &RPCClient{
		endpoints: endpoints,
		client: &http.Client{
			Timeout: constants.QueryTimeout,
		},
	}
}

var _ chains.RPCClient = (*RPCClient)(nil)

// AccountBalance implements chains.RPCClient. Returns the balance in
// lamports as a decimal string.
func (r *RPCClient) AccountBalance(ctx context.Context, chainRef, address string) (string, error) {
	var balance string
	err := r.withFailover(ctx, chainRef, func(ctx context.Context, endpoint string) error {
		lamports, err := r.getBalance(ctx, endpoint, address)
		if err != nil {
			return err
		}
		balance = strconv.FormatUint(lamports, 10)
		return nil
	})
	return balance, err
}

// IsHealthy implements chains.RPCClient
func (r *RPCClient) IsHealthy(endpoint string) bool {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	var result json.RawMessage
	err := r.call(ctx, endpoint, "getHealth", []interface{}{}, &result)
	return err == nil
}

// getBalance fetches the lamport balance of an account
func (r *RPCClient) getBalance(ctx context.Context, endpoint, address string) (uint64, error) {
	var result struct {
		Value uint64 `json:"value"`
	}
	if err := r.call(ctx, endpoint, "getBalance", []interface{}{address}, &result); err != nil {
		return 0, err
	}
	return result.Value, nil
}

// call issues a single JSON-RPC request and decodes the result
func (r *RPCClient) call(ctx context.Context, endpoint, method string, params []interface{}, result any) error {
	req := jsonrpcRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  method,
		Params:  params,
	}

	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	var rpcResp jsonrpcResponse
	if err := json.Unmarshal(respBody, &rpcResp); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if rpcResp.Error != nil {
		return fmt.Errorf("RPC error: %s", rpcResp.Error.Message)
	}
	if rpcResp.Result == nil {
		return fmt.Errorf("empty result")
	}

	if err := json.Unmarshal(rpcResp.Result, result); err != nil {
		return fmt.Errorf("failed to unmarshal result: %w", err)
	}
	return nil
}

// withFailover runs call against each of the chain's endpoints until one
// succeeds. Uses a random start position for load balancing.
func (r *RPCClient) withFailover(ctx context.Context, chainRef string, call func(context.Context, string) error) error {
	endpoints := r.endpoints[chainRef]
	if len(endpoints) == 0 {
		return fmt.Errorf("no RPC endpoints configured for chain solana:%s", chainRef)
	}

	startIdx := rand.Intn(len(endpoints))
	var lastErr error

	for i := 0; i < len(endpoints); i++ {
		if i > 0 {
			delay := time.Duration(i*constants.DelayBetweenRPCCalls) * time.Millisecond
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		// Wrap around using modulo for round-robin
		endpoint := endpoints[(startIdx+i)%len(endpoints)]

		if err := call(ctx, endpoint); err != nil {
			lastErr = err
			continue
		}
		return nil
	}

	return fmt.Errorf("all RPC endpoints failed for chain solana:%s: %w", chainRef, lastErr)
}

// jsonrpcRequest represents a JSON-RPC request
type jsonrpcRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      int           `json:"id"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
}

// jsonrpcResponse represents a JSON-RPC response
type jsonrpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      int             `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *jsonrpcError   `json:"error,omitempty"`
}

// jsonrpcError represents a JSON-RPC error
type jsonrpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
