package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sigweihq/wcsign/pkg/caip"
	"github.com/sigweihq/wcsign/pkg/chains"
	"github.com/sigweihq/wcsign/pkg/session"
)

// Response is the formatted outcome of one signing request, shaped for
// direct display. Valid reports whether the wallet's answer passed the
// namespace validator; Result carries the signature/transaction id on
// success or a human-readable reason on failure.
type Response struct {
	ID      string `json:"id"`
	Method  string `json:"method"`
	Address string `json:"address"`
	Valid   bool   `json:"valid"`
	Result  string `json:"result"`
}

// PendingRequest describes an in-flight signing request
type PendingRequest struct {
	ID        string
	Method    string
	ChainID   caip.ChainID
	Address   string
	StartedAt time.Time
}

// Dispatcher routes signing requests to the wallet through a session
// requester and validates what comes back. Once dispatched, a request
// always produces a Response; runtime failures surface as Valid:false,
// never as an error.
type Dispatcher struct {
	requester session.Requester
	registry  *chains.Registry
	logger    *slog.Logger

	mu      sync.Mutex
	pending map[string]PendingRequest
	lastID  string
}

// NewDispatcher creates a dispatcher. Pass a nil registry to use the global
// adapter registry.
func NewDispatcher(requester session.Requester, registry *chains.Registry, logger *slog.Logger) *Dispatcher {
	if registry == nil {
		registry = chains.InitGlobalRegistry()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		requester: requester,
		registry:  registry,
		logger:    logger,
		pending:   make(map[string]PendingRequest),
	}
}

// Send builds the wire params for method on the given chain, dispatches them
// over the session, and validates the wallet's answer.
//
// Precondition failures (no requester, no usable session, unregistered
// namespace) return an error before anything reaches the wallet. Every
// failure after that point is reported in the Response.
func (d *Dispatcher) Send(ctx context.Context, sess *session.Session, chainID caip.ChainID, address, method string, domain any) (*Response, error) {
	if d.requester == nil {
		return nil, fmt.Errorf("dispatcher has no session requester")
	}
	if sess == nil || sess.Topic == "" {
		return nil, fmt.Errorf("no active session")
	}
	if sess.Expired(time.Now()) {
		return nil, fmt.Errorf("session %s expired at %s", sess.Topic, sess.Expiry)
	}

	adapter, err := d.registry.Get(chainID.Namespace)
	if err != nil {
		return nil, err
	}

	id := uuid.NewString()
	d.track(PendingRequest{
		ID:        id,
		Method:    method,
		ChainID:   chainID,
		Address:   address,
		StartedAt: time.Now(),
	})
	defer d.untrack(id)

	resp := &Response{ID: id, Method: method, Address: address}

	params, err := adapter.PayloadFactory().BuildParams(method, address, domain)
	if err != nil {
		d.logger.Warn("failed to build request params",
			"id", id, "method", method, "chainId", chainID.String(), "error", err)
		resp.Result = fmt.Sprintf("failed to build request: %v", err)
		return resp, nil
	}

	d.logger.Info("dispatching session request",
		"id", id, "method", method, "chainId", chainID.String(), "address", address)

	raw, err := d.requester.Request(ctx, sess.Topic, chainID, method, params)
	if err != nil {
		d.logger.Warn("session request failed",
			"id", id, "method", method, "error", err)
		resp.Result = fmt.Sprintf("request failed: %v", err)
		return resp, nil
	}

	verdict, err := adapter.ResponseValidator().Validate(&chains.SignRequest{
		ChainID: chainID,
		Address: address,
		Method:  method,
		Params:  params,
		Domain:  domain,
	}, raw)
	if err != nil {
		d.logger.Warn("response validation errored",
			"id", id, "method", method, "error", err)
		resp.Result = fmt.Sprintf("validation failed: %v", err)
		return resp, nil
	}

	d.logger.Info("session request completed",
		"id", id, "method", method, "valid", verdict.Valid)

	resp.Valid = verdict.Valid
	resp.Result = verdict.Result
	return resp, nil
}

// Pending returns the most recently dispatched request still awaiting its
// wallet response
func (d *Dispatcher) Pending() (PendingRequest, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	req, ok := d.pending[d.lastID]
	return req, ok
}

// InFlight returns the number of requests awaiting a wallet response
func (d *Dispatcher) InFlight() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.pending)
}

func (d *Dispatcher) track(req PendingRequest) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pending[req.ID] = req
	d.lastID = req.ID
}

func (d *Dispatcher) untrack(id string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.pending, id)
}
