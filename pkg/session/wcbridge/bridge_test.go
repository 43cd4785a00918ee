package wcbridge

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sigweihq/wcsign/pkg/caip"
	"github.com/sigweihq/wcsign/pkg/constants"
)

var upgrader = websocket.Upgrader{}

// newBridgeServer runs a fake sign-client that answers every request with
// handle(req)
func newBridgeServer(t *testing.T, handle func(req request) response) string {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		for {
			var req request
			if err := conn.ReadJSON(&req); err != nil {
				return
			}
			if err := conn.WriteJSON(handle(req)); err != nil {
				return
			}
		}
	}))
	t.Cleanup(server.Close)

	return "ws" + strings.TrimPrefix(server.URL, "http")
}

func TestRequestRoundTrip(t *testing.T) {
	url := newBridgeServer(t, func(req request) response {
		assert.Equal(t, "session_request", req.Method)
		assert.Equal(t, "topic-1", req.Params.Topic)
		assert.Equal(t, "eip155:1", req.Params.ChainID)
		assert.Equal(t, constants.MethodPersonalSign, req.Params.Request.Method)
		return response{JSONRPC: "2.0", ID: req.ID, Result: json.RawMessage(`"0xsignature"`)}
	})

	client, err := Dial(context.Background(), url, nil)
	require.NoError(t, err)
	defer client.Close()

	raw, err := client.Request(context.Background(), "topic-1", caip.MustChainID("eip155:1"),
		constants.MethodPersonalSign, []string{"0xdeadbeef", "0xabc"})
	require.NoError(t, err)

	var result string
	require.NoError(t, json.Unmarshal(raw, &result))
	assert.Equal(t, "0xsignature", result)
}

func TestRequestWalletRejection(t *testing.T) {
	url := newBridgeServer(t, func(req request) response {
		return response{
			JSONRPC: "2.0",
			ID:      req.ID,
			Error:   &responseError{Code: 5000, Message: "user rejected"},
		}
	})

	client, err := Dial(context.Background(), url, nil)
	require.NoError(t, err)
	defer client.Close()

	_, err = client.Request(context.Background(), "topic-1", caip.MustChainID("eip155:1"),
		constants.MethodPersonalSign, []string{"0x00", "0xabc"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "user rejected")
}

func TestRequestContextCancelled(t *testing.T) {
	url := newBridgeServer(t, func(req request) response {
		time.Sleep(5 * time.Second)
		return response{JSONRPC: "2.0", ID: req.ID}
	})

	client, err := Dial(context.Background(), url, nil)
	require.NoError(t, err)
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	_, err = client.Request(ctx, "topic-1", caip.MustChainID("eip155:1"),
		constants.MethodPersonalSign, nil)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRequestAfterConnectionLost(t *testing.T) {
	url := newBridgeServer(t, func(req request) response {
		return response{JSONRPC: "2.0", ID: req.ID, Result: json.RawMessage(`"ok"`)}
	})

	client, err := Dial(context.Background(), url, nil)
	require.NoError(t, err)
	require.NoError(t, client.Close())

	// Give the read pump time to observe the close
	time.Sleep(100 * time.Millisecond)

	_, err = client.Request(context.Background(), "topic-1", caip.MustChainID("eip155:1"),
		constants.MethodPersonalSign, nil)
	assert.Error(t, err)
}

func TestDialRejectsNonWebSocketURL(t *testing.T) {
	_, err := Dial(context.Background(), "https://bridge.example.com", nil)
	assert.Error(t, err)
}
