package dispatch

import (
	"context"
	"crypto/ecdsa"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sigweihq/wcsign/pkg/caip"
	"github.com/sigweihq/wcsign/pkg/chains"
	"github.com/sigweihq/wcsign/pkg/chains/eip155"
	"github.com/sigweihq/wcsign/pkg/constants"
	"github.com/sigweihq/wcsign/pkg/session"
)

// requesterFunc adapts a function to session.Requester
type requesterFunc func(ctx context.Context, topic string, chainID caip.ChainID, method string, params any) (json.RawMessage, error)

func (f requesterFunc) Request(ctx context.Context, topic string, chainID caip.ChainID, method string, params any) (json.RawMessage, error) {
	return f(ctx, topic, chainID, method, params)
}

func newTestSession() *session.Session {
	return &session.Session{Topic: "topic-1"}
}

func eip155Registry(t *testing.T) *chains.Registry {
	t.Helper()
	registry := chains.NewRegistry()
	require.NoError(t, registry.Register(eip155.NewAdapter(nil)))
	return registry
}

// walletRequester behaves like a wallet answering personal_sign with key
func walletRequester(t *testing.T, key *ecdsa.PrivateKey) session.Requester {
	return requesterFunc(func(ctx context.Context, topic string, chainID caip.ChainID, method string, params any) (json.RawMessage, error) {
		require.Equal(t, constants.MethodPersonalSign, method)

		positional, ok := params.([]any)
		require.True(t, ok)
		require.Len(t, positional, 2)

		msg, err := hexutil.Decode(positional[0].(string))
		require.NoError(t, err)

		sig, err := crypto.Sign(accounts.TextHash(msg), key)
		require.NoError(t, err)
		sig[crypto.RecoveryIDOffset] += 27

		return json.Marshal(hexutil.Encode(sig))
	})
}

func TestSendPersonalSignEndToEnd(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	address := crypto.PubkeyToAddress(key.PublicKey).Hex()

	d := NewDispatcher(walletRequester(t, key), eip155Registry(t), nil)

	resp, err := d.Send(context.Background(), newTestSession(), caip.MustChainID("eip155:1"),
		address, constants.MethodPersonalSign, "My email is john@doe.com - 1700000000000")
	require.NoError(t, err)

	assert.True(t, resp.Valid)
	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, constants.MethodPersonalSign, resp.Method)
	assert.Equal(t, address, resp.Address)
}

func TestSendSignatureFromWrongKey(t *testing.T) {
	signingKey, err := crypto.GenerateKey()
	require.NoError(t, err)
	claimedKey, err := crypto.GenerateKey()
	require.NoError(t, err)
	claimedAddress := crypto.PubkeyToAddress(claimedKey.PublicKey).Hex()

	d := NewDispatcher(walletRequester(t, signingKey), eip155Registry(t), nil)

	resp, err := d.Send(context.Background(), newTestSession(), caip.MustChainID("eip155:1"),
		claimedAddress, constants.MethodPersonalSign, "My email is john@doe.com - 1700000000000")
	require.NoError(t, err)

	assert.False(t, resp.Valid)
	assert.NotEmpty(t, resp.Result)
}

func TestSendPreconditionErrors(t *testing.T) {
	registry := eip155Registry(t)
	requester := requesterFunc(func(ctx context.Context, topic string, chainID caip.ChainID, method string, params any) (json.RawMessage, error) {
		return json.RawMessage(`"0x00"`), nil
	})

	t.Run("no requester", func(t *testing.T) {
		d := NewDispatcher(nil, registry, nil)
		_, err := d.Send(context.Background(), newTestSession(), caip.MustChainID("eip155:1"),
			"0xabc", constants.MethodPersonalSign, "hi")
		assert.Error(t, err)
	})

	t.Run("nil session", func(t *testing.T) {
		d := NewDispatcher(requester, registry, nil)
		_, err := d.Send(context.Background(), nil, caip.MustChainID("eip155:1"),
			"0xabc", constants.MethodPersonalSign, "hi")
		assert.Error(t, err)
	})

	t.Run("empty topic", func(t *testing.T) {
		d := NewDispatcher(requester, registry, nil)
		_, err := d.Send(context.Background(), &session.Session{}, caip.MustChainID("eip155:1"),
			"0xabc", constants.MethodPersonalSign, "hi")
		assert.Error(t, err)
	})

	t.Run("expired session", func(t *testing.T) {
		d := NewDispatcher(requester, registry, nil)
		expired := &session.Session{Topic: "topic-1", Expiry: time.Now().Add(-time.Minute)}
		_, err := d.Send(context.Background(), expired, caip.MustChainID("eip155:1"),
			"0xabc", constants.MethodPersonalSign, "hi")
		assert.Error(t, err)
	})

	t.Run("unregistered namespace", func(t *testing.T) {
		d := NewDispatcher(requester, registry, nil)
		_, err := d.Send(context.Background(), newTestSession(), caip.MustChainID("near:mainnet"),
			"alice.near", "near_signMessage", "hi")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no adapter registered")
	})
}

func TestSendTransportFailureDegrades(t *testing.T) {
	requester := requesterFunc(func(ctx context.Context, topic string, chainID caip.ChainID, method string, params any) (json.RawMessage, error) {
		return nil, fmt.Errorf("user rejected the request")
	})
	d := NewDispatcher(requester, eip155Registry(t), nil)

	resp, err := d.Send(context.Background(), newTestSession(), caip.MustChainID("eip155:1"),
		"0xabc", constants.MethodPersonalSign, "hi")
	require.NoError(t, err)

	assert.False(t, resp.Valid)
	assert.Contains(t, resp.Result, "user rejected")
}

func TestSendMalformedWalletResponseDegrades(t *testing.T) {
	requester := requesterFunc(func(ctx context.Context, topic string, chainID caip.ChainID, method string, params any) (json.RawMessage, error) {
		return json.RawMessage(`"not a signature"`), nil
	})
	d := NewDispatcher(requester, eip155Registry(t), nil)

	resp, err := d.Send(context.Background(), newTestSession(), caip.MustChainID("eip155:1"),
		"0x3c3FbE1EA8100E401CF447Cc30A2b6c02E6Fa1D2", constants.MethodPersonalSign, "hi")
	require.NoError(t, err)

	assert.False(t, resp.Valid)
	assert.NotEmpty(t, resp.Result)
}

func TestSendBadDomainDegrades(t *testing.T) {
	requester := requesterFunc(func(ctx context.Context, topic string, chainID caip.ChainID, method string, params any) (json.RawMessage, error) {
		t.Fatal("request must not reach the wallet when params cannot be built")
		return nil, nil
	})
	d := NewDispatcher(requester, eip155Registry(t), nil)

	resp, err := d.Send(context.Background(), newTestSession(), caip.MustChainID("eip155:1"),
		"0xabc", constants.MethodEthSendTransaction, "not a transaction")
	require.NoError(t, err)

	assert.False(t, resp.Valid)
	assert.Contains(t, resp.Result, "failed to build request")
}

func TestPendingTracksInFlightRequest(t *testing.T) {
	var observed PendingRequest
	var observedOK bool

	var d *Dispatcher
	requester := requesterFunc(func(ctx context.Context, topic string, chainID caip.ChainID, method string, params any) (json.RawMessage, error) {
		observed, observedOK = d.Pending()
		return nil, fmt.Errorf("stop here")
	})
	d = NewDispatcher(requester, eip155Registry(t), nil)

	_, ok := d.Pending()
	assert.False(t, ok)

	resp, err := d.Send(context.Background(), newTestSession(), caip.MustChainID("eip155:1"),
		"0xabc", constants.MethodPersonalSign, "hi")
	require.NoError(t, err)

	require.True(t, observedOK)
	assert.Equal(t, resp.ID, observed.ID)
	assert.Equal(t, constants.MethodPersonalSign, observed.Method)
	assert.Equal(t, "0xabc", observed.Address)

	// Settled requests leave the pending set
	_, ok = d.Pending()
	assert.False(t, ok)
	assert.Equal(t, 0, d.InFlight())
}
