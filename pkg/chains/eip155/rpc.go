package eip155

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/sigweihq/wcsign/pkg/chains"
	"github.com/sigweihq/wcsign/pkg/constants"
)

const (
	balanceCacheTTL  = 15 * time.Second
	gasPriceCacheTTL = 30 * time.Second
	queryCacheSize   = 256
)

// RPCClient answers balance/nonce/gas queries against public eip155
// endpoints. Results feed demo transactions, so short-lived caches are
// acceptable and spare the public endpoints.
type RPCClient struct {
	endpoints map[string][]string // chain reference -> rpc urls

	balanceCache  *expirable.LRU[string, string]
	gasPriceCache *expirable.LRU[string, string]
}

// NewRPCClient creates an eip155 query client. endpoints is keyed by chain
// reference ("1", "137", ...).
func NewRPCClient(endpoints map[string][]string) *RPCClient {
	return &RPCClient{
		endpoints:     endpoints,
		balanceCache:  expirable.NewLRU[string, string](queryCacheSize, nil, balanceCacheTTL),
		gasPriceCache: expirable.NewLRU[string, string](queryCacheSize, nil, gasPriceCacheTTL),
	}
}

var _ chains.RPCClient = (*RPCClient)(nil)
var _ chains.NonceProvider = (*RPCClient)(nil)
var _ chains.GasPriceProvider = (*RPCClient)(nil)

// AccountBalance implements chains.RPCClient. Returns the balance in wei as
// a decimal string.
func (r *RPCClient) AccountBalance(ctx context.Context, chainRef, address string) (string, error) {
	cacheKey := chainRef + ":" + address
	if cached, ok := r.balanceCache.Get(cacheKey); ok {
		return cached, nil
	}

	var balance string
	err := r.withFailover(ctx, chainRef, func(ctx context.Context, client *ethclient.Client) error {
		wei, err := client.BalanceAt(ctx, common.HexToAddress(address), nil)
		if err != nil {
			return err
		}
		balance = wei.String()
		return nil
	})
	if err != nil {
		return "", err
	}

	r.balanceCache.Add(cacheKey, balance)
	return balance, nil
}

// PendingNonce implements chains.NonceProvider. Nonces are never cached;
// a stale nonce produces an unusable transaction.
func (r *RPCClient) PendingNonce(ctx context.Context, chainRef, address string) (uint64, error) {
	var nonce uint64
	err := r.withFailover(ctx, chainRef, func(ctx context.Context, client *ethclient.Client) error {
		n, err := client.PendingNonceAt(ctx, common.HexToAddress(address))
		if err != nil {
			return err
		}
		nonce = n
		return nil
	})
	return nonce, err
}

// GasPrice implements chains.GasPriceProvider. Returns the suggested gas
// price in wei as a decimal string.
func (r *RPCClient) GasPrice(ctx context.Context, chainRef string) (string, error) {
	if cached, ok := r.gasPriceCache.Get(chainRef); ok {
		return cached, nil
	}

	var price string
	err := r.withFailover(ctx, chainRef, func(ctx context.Context, client *ethclient.Client) error {
		p, err := client.SuggestGasPrice(ctx)
		if err != nil {
			return err
		}
		price = p.String()
		return nil
	})
	if err != nil {
		return "", err
	}

	r.gasPriceCache.Add(chainRef, price)
	return price, nil
}

// IsHealthy implements chains.RPCClient
func (r *RPCClient) IsHealthy(endpoint string) bool {
	client, err := ethclient.Dial(endpoint)
	if err != nil {
		return false
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	_, err = client.BlockNumber(ctx)
	return err == nil
}

// withFailover runs call against each of the chain's endpoints until one
// succeeds. Uses a random start position for load balancing.
func (r *RPCClient) withFailover(ctx context.Context, chainRef string, call func(context.Context, *ethclient.Client) error) error {
	endpoints := r.endpoints[chainRef]
	if len(endpoints) == 0 {
		return &UnsupportedChainError{ChainRef: chainRef}
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

		client, err := ethclient.Dial(endpoint)
		if err != nil {
			lastErr = &RPCError{Endpoint: endpoint, Err: err}
			continue
		}

		callCtx, cancel := context.WithTimeout(ctx, constants.QueryTimeout)
		err = call(callCtx, client)
		client.Close()
		cancel()

		if err != nil {
			lastErr = &RPCError{Endpoint: endpoint, Err: err}
			continue
		}
		return nil
	}

	return fmt.Errorf("all RPC endpoints failed for chain eip155:%s: %w", chainRef, lastErr)
}
