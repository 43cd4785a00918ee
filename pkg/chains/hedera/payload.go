package hedera

import (
	"encoding/base64"
	"fmt"

	hiero "github.com/hashgraph/hedera-sdk-go/v2"

	"github.com/sigweihq/wcsign/pkg/chains"
	"github.com/sigweihq/wcsign/pkg/constants"
)

// DefaultNodeAccountID is the node a transaction is bound to when the caller
// hasn't picked one. Binding must happen before freezing: freezing fixes the
// transaction's byte representation so dApp and wallet sign identical bytes.
var DefaultNodeAccountID = hiero.AccountID{Account: 3}

// PreparedTransaction is the immutable, wire-ready form of a Hedera
// transaction: frozen, node-bound, and serialized. Values are safe to share
// and reuse across requests.
type PreparedTransaction struct {
	transactionID string
	nodeAccountID string
	raw           []byte
}

// TransactionID returns the transaction id fixed at freeze time.
func (p PreparedTransaction) TransactionID() string {
	return p.transactionID
}

// NodeAccountID returns the node the transaction is bound to.
func (p PreparedTransaction) NodeAccountID() string {
	return p.nodeAccountID
}

// Bytes returns a copy of the serialized transaction.
func (p PreparedTransaction) Bytes() []byte {
	return append([]byte(nil), p.raw...)
}

// Base64 returns the serialized transaction in the JSON transport encoding.
func (p PreparedTransaction) Base64() string {
	return base64.StdEncoding.EncodeToString(p.raw)
}

// PrepareTransfer freezes and serializes a transfer transaction into an
// immutable PreparedTransaction. Missing node account ids and transaction id
// are filled in (default node, id generated for signer) before freezing; an
// already-frozen transaction is serialized as-is, so preparing twice yields
// identical bytes.
//
// The SDK transaction is consumed by this call: it ends up frozen and must
// not be modified afterwards. All further use should go through the returned
// value.
func PrepareTransfer(tx *hiero.TransferTransaction, signer hiero.AccountID) (PreparedTransaction, error) {
	if tx == nil {
		return PreparedTransaction{}, fmt.Errorf("nil transfer transaction")
	}

	if !tx.IsFrozen() {
		if len(tx.GetNodeAccountIDs()) == 0 {
			tx.SetNodeAccountIDs([]hiero.AccountID{DefaultNodeAccountID})
		}
		if tx.GetTransactionID().AccountID == nil {
			tx.SetTransactionID(hiero.TransactionIDGenerate(signer))
		}
		if _, err := tx.Freeze(); err != nil {
			return PreparedTransaction{}, fmt.Errorf("failed to freeze transaction: %w", err)
		}
	}

	raw, err := tx.ToBytes()
	if err != nil {
		return PreparedTransaction{}, fmt.Errorf("failed to serialize transaction: %w", err)
	}

	nodeID := ""
	if ids := tx.GetNodeAccountIDs(); len(ids) > 0 {
		nodeID = ids[0].String()
	}

	return PreparedTransaction{
		transactionID: tx.GetTransactionID().String(),
		nodeAccountID: nodeID,
		raw:           raw,
	}, nil
}

// signTransactionParams is the wire shape for hedera_signAndExecuteTransaction
// and hedera_signTransaction. The session request envelope carries the chain
// id, so the signer account is the bare "0.0.x" form.
type signTransactionParams struct {
	SignerAccountID string `json:"signerAccountId"`
	TransactionList string `json:"transactionList"`
}

// signMessageParams is the wire shape for hedera_signMessage.
type signMessageParams struct {
	SignerAccountID string `json:"signerAccountId"`
	Message         string `json:"message"`
}

// PayloadFactory builds Hedera JSON-RPC params from prepared transactions
// and raw messages.
type PayloadFactory struct{}

func NewPayloadFactory() *PayloadFactory {
	return &PayloadFactory{}
}

var _ chains.PayloadFactory = (*PayloadFactory)(nil)

// BuildParams implements chains.PayloadFactory. Transaction methods take a
// PreparedTransaction (see PrepareTransfer); hedera_signMessage takes a
// string or []byte message, encoded base64 for transport.
func (f *PayloadFactory) BuildParams(method string, address string, domain any) (any, error) {
	switch method {
	case constants.MethodHederaSignAndExecuteTransaction, constants.MethodHederaSignTransaction:
		prepared, ok := domain.(PreparedTransaction)
		if !ok {
			if p, isPtr := domain.(*PreparedTransaction); isPtr && p != nil {
				prepared = *p
			} else {
				return nil, fmt.Errorf("invalid domain object for %s: got %T, want hedera.PreparedTransaction", method, domain)
			}
		}
		if len(prepared.raw) == 0 {
			return nil, fmt.Errorf("prepared transaction is empty")
		}
		return &signTransactionParams{
			SignerAccountID: address,
			TransactionList: prepared.Base64(),
		}, nil

	case constants.MethodHederaSignMessage:
		var msg []byte
		switch m := domain.(type) {
		case string:
			msg = []byte(m)
		case []byte:
			msg = m
		default:
			return nil, fmt.Errorf("invalid message domain object: got %T, want string or []byte", domain)
		}
		return &signMessageParams{
			SignerAccountID: address,
			Message:         base64.StdEncoding.EncodeToString(msg),
		}, nil

	default:
		return nil, fmt.Errorf("no hedera payload builder for method: %s", method)
	}
}
