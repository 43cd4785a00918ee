package wcbridge

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/sigweihq/wcsign/pkg/caip"
	"github.com/sigweihq/wcsign/pkg/constants"
	"github.com/sigweihq/wcsign/pkg/session"
	"github.com/sigweihq/wcsign/pkg/utils"
)

const (
	handshakeTimeout = 10 * time.Second
	writeTimeout     = 10 * time.Second
)

// request is the JSON-RPC frame sent to the sign-client bridge
type request struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      string        `json:"id"`
	Method  string        `json:"method"`
	Params  requestParams `json:"params"`
}

// requestParams wraps a wallet request with its session routing
type requestParams struct {
	Topic   string        `json:"topic"`
	ChainID string        `json:"chainId"`
	Request walletRequest `json:"request"`
}

type walletRequest struct {
	Method string `json:"method"`
	Params any    `json:"params"`
}

// response is the JSON-RPC frame received from the bridge
type response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      string          `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *responseError  `json:"error,omitempty"`
}

type responseError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Client is a websocket JSON-RPC client to an external WalletConnect
// sign-client process. Concurrent requests are multiplexed over one
// connection and matched to responses by correlation id.
type Client struct {
	conn   *websocket.Conn
	logger *slog.Logger

	writeMu sync.Mutex // one writer on the connection at a time

	mu      sync.Mutex
	pending map[string]chan response
	closed  bool
	readErr error
}

var _ session.Requester = (*Client)(nil)

// Dial connects to the sign-client bridge and starts the read pump
func Dial(ctx context.Context, bridgeURL string, logger *slog.Logger) (*Client, error) {
	if err := utils.ValidateBridgeURL(bridgeURL); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	dialer := websocket.Dialer{HandshakeTimeout: handshakeTimeout}
	conn, _, err := dialer.DialContext(ctx, bridgeURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to bridge %s: %w", bridgeURL, err)
	}

	c := &Client{
		conn:    conn,
		logger:  logger,
		pending: make(map[string]chan response),
	}
	go c.readPump()

	return c, nil
}

// Request implements session.Requester. Blocks until the wallet answers,
// the context is done, or the session request timeout elapses.
func (c *Client) Request(ctx context.Context, topic string, chainID caip.ChainID, method string, params any) (json.RawMessage, error) {
	id := uuid.NewString()
	ch := make(chan response, 1)

	c.mu.Lock()
	if c.closed {
		err := c.readErr
		c.mu.Unlock()
		if err == nil {
			err = fmt.Errorf("bridge connection closed")
		}
		return nil, err
	}
	c.pending[id] = ch
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		delete(c.pending, id)
		c.mu.Unlock()
	}()

	req := request{
		JSONRPC: "2.0",
		ID:      id,
		Method:  "session_request",
		Params: requestParams{
			Topic:   topic,
			ChainID: chainID.String(),
			Request: walletRequest{Method: method, Params: params},
		},
	}
	if err := c.write(req); err != nil {
		return nil, fmt.Errorf("failed to send session request: %w", err)
	}

	c.logger.Debug("session request sent", "id", id, "method", method, "chainId", chainID.String())

	select {
	case resp := <-ch:
		if resp.Error != nil {
			return nil, fmt.Errorf("wallet returned error %d: %s", resp.Error.Code, resp.Error.Message)
		}
		return resp.Result, nil
	case <-time.After(constants.SessionRequestTimeout):
		return nil, fmt.Errorf("wallet did not answer %s within %s", method, constants.SessionRequestTimeout)
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Close tears down the connection. In-flight requests fail with a closed
// connection error.
func (c *Client) Close() error {
	c.writeMu.Lock()
	deadline := time.Now().Add(writeTimeout)
	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
	c.writeMu.Unlock()

	return c.conn.Close()
}

func (c *Client) write(v any) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if err := c.conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return err
	}
	return c.conn.WriteJSON(v)
}

// readPump reads responses and resolves the matching pending request. A
// read error fails every pending request and marks the client closed.
func (c *Client) readPump() {
	for {
		var resp response
		if err := c.conn.ReadJSON(&resp); err != nil {
			c.failAll(err)
			return
		}

		c.mu.Lock()
		ch, ok := c.pending[resp.ID]
		if ok {
			delete(c.pending, resp.ID)
		}
		c.mu.Unlock()

		if !ok {
			c.logger.Warn("dropping response with unknown correlation id", "id", resp.ID)
			continue
		}
		ch <- resp
	}
}

func (c *Client) failAll(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true
	c.readErr = fmt.Errorf("bridge connection lost: %w", err)

	for id, ch := range c.pending {
		ch <- response{ID: id, Error: &responseError{Code: -1, Message: c.readErr.Error()}}
		delete(c.pending, id)
	}
}
