package hedera

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/sigweihq/wcsign/pkg/chains"
	"github.com/sigweihq/wcsign/pkg/constants"
)

// MirrorClient answers account queries against Hedera mirror nodes over
// their public REST API. Mirror queries are independent of the wallet
// session and of consensus nodes.
type MirrorClient struct {
	baseURLs map[string]string // chain reference -> mirror node base URL
	client   *http.Client
}

// NewMirrorClient creates a mirror node client. baseURLs is keyed by chain
// reference ("mainnet", "testnet"); pass nil to use the public mirror nodes.
func NewMirrorClient(baseURLs map[string]string) *MirrorClient {
	if baseURLs == nil {
		baseURLs = constants.HederaMirrorNodeURLs
	}
	return &MirrorClient{
		baseURLs: baseURLs,
		client: &http.Client{
			Timeout: constants.MirrorNodeTimeout,
			Transport: &http.Transport{
				TLSHandshakeTimeout:   constants.TLSHandshakeTimeout,
				ResponseHeaderTimeout: constants.ResponseHeaderTimeout,
				ExpectContinueTimeout: constants.ExpectContinueTimeout,
			},
		},
	}
}

var _ chains.RPCClient = (*MirrorClient)(nil)

// accountResponse is the subset of GET /api/v1/accounts/{id} we consume.
type accountResponse struct {
	Account string `json:"account"`
	Balance struct {
		Balance   int64  `json:"balance"`
		Timestamp string `json:"timestamp"`
	} `json:"balance"`
}

// AccountBalance implements chains.RPCClient. Returns the balance in
// tinybars as a decimal string.
func (m *MirrorClient) AccountBalance(ctx context.Context, chainRef, address string) (string, error) {
	base, ok := m.baseURLs[chainRef]
	if !ok {
		return "", fmt.Errorf("no mirror node configured for chain hedera:%s", chainRef)
	}

	var account accountResponse
	url := fmt.Sprintf("%s/api/v1/accounts/%s", base, address)
	if err := m.getJSON(ctx, url, &account); err != nil {
		return "", fmt.Errorf("mirror node account query failed: %w", err)
	}

	return strconv.FormatInt(account.Balance.Balance, 10), nil
}

// IsHealthy implements chains.RPCClient
func (m *MirrorClient) IsHealthy(endpoint string) bool {
	ctx, cancel := context.WithTimeout(context.Background(), constants.MirrorNodeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"/api/v1/network/nodes?limit=1", nil)
	if err != nil {
		return false
	}
	resp, err := m.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// getJSON performs a GET request and decodes the JSON response into result.
func (m *MirrorClient) getJSON(ctx context.Context, url string, result any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	limitedReader := io.LimitReader(resp.Body, int64(constants.MaxResponseBodySize))

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(limitedReader)
		return fmt.Errorf("mirror node returned status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(limitedReader).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
