package eip155

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/sigweihq/wcsign/pkg/constants"
)

// ChainListResponse represents a chain entry from chainlist.org/rpcs.json
type ChainListResponse struct {
	ChainID int `json:"chainId"`
	RPC     []struct {
		URL string `json:"url"`
	} `json:"rpc"`
}

// ChainListEndpointProvider fetches RPC endpoints from chainlist.org
// and performs health checks to prioritize reliable endpoints
type ChainListEndpointProvider struct {
	endpoints map[string][]string // chain reference -> rpc urls
	logger    *slog.Logger
	mu        sync.RWMutex
}

// NewChainListEndpointProvider creates a provider that fetches from chainlist.org
func NewChainListEndpointProvider(logger *slog.Logger) *ChainListEndpointProvider {
	if logger == nil {
		logger = slog.Default()
	}
	return &ChainListEndpointProvider{
		endpoints: make(map[string][]string),
		logger:    logger,
	}
}

// GetEndpoints returns the current endpoints for a chain reference,
// falling back to the official endpoints if discovery hasn't completed.
func (p *ChainListEndpointProvider) GetEndpoints(chainRef string) []string {
	p.mu.RLock()
	defer p.mu.RUnlock()

	endpoints := p.endpoints[chainRef]
	if len(endpoints) == 0 {
		return constants.OfficialRPCEndpoints[chainRef]
	}

	return endpoints
}

// Snapshot returns a copy of all known endpoints keyed by chain reference,
// suitable for constructing an RPCClient.
func (p *ChainListEndpointProvider) Snapshot() map[string][]string {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make(map[string][]string, len(p.endpoints))
	for ref, urls := range p.endpoints {
		out[ref] = append([]string(nil), urls...)
	}
	for ref, urls := range constants.OfficialRPCEndpoints {
		if len(out[ref]) == 0 {
			out[ref] = append([]string(nil), urls...)
		}
	}
	return out
}

// RefreshEndpoints fetches fresh endpoints from chainlist.org for the given
// chain references and performs health checks
func (p *ChainListEndpointProvider) RefreshEndpoints(chainRefs []string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	// Clear existing endpoints and start fresh
	p.endpoints = make(map[string][]string)

	// Start with official endpoints
	p.setOfficialEndpoints(chainRefs)

	// Fetch from chainlist.org
	chainListData, err := p.fetchAllChains()
	if err != nil {
		p.logger.Warn("failed to fetch from chainlist.org, using official endpoints only", "error", err)
		return err
	}

	// Add chainlist endpoints
	p.addChainlistEndpoints(chainRefs, chainListData)

	// Health check and prioritize
	p.healthCheckAndPrioritize()

	return nil
}

// setOfficialEndpoints sets the official reliable endpoints
func (p *ChainListEndpointProvider) setOfficialEndpoints(chainRefs []string) {
	for _, ref := range chainRefs {
		if endpoints, ok := constants.OfficialRPCEndpoints[ref]; ok {
			p.endpoints[ref] = endpoints
		}
	}
}

// fetchAllChains fetches chain data from chainlist.org
func (p *ChainListEndpointProvider) fetchAllChains() ([]ChainListResponse, error) {
	client := &http.Client{
		Timeout: 30 * time.Second,
	}

	resp, err := client.Get("https://chainlist.org/rpcs.json")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch chainlist data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("chainlist.org returned status %d", resp.StatusCode)
	}

	var chains []ChainListResponse
	if err := json.NewDecoder(resp.Body).Decode(&chains); err != nil {
		return nil, fmt.Errorf("failed to decode chainlist data: %w", err)
	}

	return chains, nil
}

// addChainlistEndpoints adds endpoints from chainlist.org for the chains we monitor
func (p *ChainListEndpointProvider) addChainlistEndpoints(chainRefs []string, chainListData []ChainListResponse) {
	wanted := make(map[string]bool, len(chainRefs))
	for _, ref := range chainRefs {
		wanted[ref] = true
	}

	for _, chain := range chainListData {
		ref := strconv.Itoa(chain.ChainID)
		if !wanted[ref] {
			continue
		}

		var httpsRPCs []string
		for _, rpc := range chain.RPC {
			// Only include HTTPS URLs and exclude templated URLs
			if strings.HasPrefix(rpc.URL, "https://") && !strings.Contains(rpc.URL, "${") {
				httpsRPCs = append(httpsRPCs, rpc.URL)
			}
		}
		if len(httpsRPCs) > 0 {
			p.endpoints[ref] = append(p.endpoints[ref], httpsRPCs...)
		}
	}
}

// healthCheckAndPrioritize checks endpoint health and prioritizes working ones
func (p *ChainListEndpointProvider) healthCheckAndPrioritize() {
	for ref, endpoints := range p.endpoints {
		if len(endpoints) == 0 {
			continue
		}

		// Check health of each endpoint
		var healthyEndpoints, unhealthyEndpoints []string
		for _, endpoint := range endpoints {
			if p.isEndpointHealthy(endpoint) {
				healthyEndpoints = append(healthyEndpoints, endpoint)
			} else {
				unhealthyEndpoints = append(unhealthyEndpoints, endpoint)
			}
		}

		// Prioritize healthy endpoints first, then unhealthy as backup
		p.endpoints[ref] = append(healthyEndpoints, unhealthyEndpoints...)

		p.logger.Debug("health check complete",
			"chainRef", ref,
			"healthy", len(healthyEndpoints),
			"unhealthy", len(unhealthyEndpoints))
	}
}

// isEndpointHealthy performs a simple health check on an RPC endpoint
func (p *ChainListEndpointProvider) isEndpointHealthy(endpoint string) bool {
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
