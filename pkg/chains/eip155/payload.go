package eip155

import (
	"encoding/json"
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"

	"github.com/sigweihq/wcsign/pkg/chains"
	"github.com/sigweihq/wcsign/pkg/constants"
)

// Transaction is the in-memory transaction object handed to the payload
// factory for eth_sendTransaction / eth_signTransaction. All numeric fields
// are 0x-prefixed hex, matching the wallet-side JSON-RPC handler.
type Transaction struct {
	From     string `json:"from"`
	To       string `json:"to,omitempty"`
	Data     string `json:"data,omitempty"`
	Nonce    string `json:"nonce,omitempty"`
	GasPrice string `json:"gasPrice,omitempty"`
	GasLimit string `json:"gasLimit,omitempty"`
	Value    string `json:"value,omitempty"`
}

// PayloadFactory builds eip155 JSON-RPC params. EVM methods take positional
// arguments whose order is method-dependent; messages are hex-encoded before
// signing requests so both sides hash identical bytes.
type PayloadFactory struct{}

func NewPayloadFactory() *PayloadFactory {
	return &PayloadFactory{}
}

var _ chains.PayloadFactory = (*PayloadFactory)(nil)

// BuildParams implements chains.PayloadFactory
func (f *PayloadFactory) BuildParams(method string, address string, domain any) (any, error) {
	switch method {
	case constants.MethodPersonalSign:
		msg, err := messageBytes(domain)
		if err != nil {
			return nil, err
		}
		// personal_sign params are [message, address]
		return []any{hexutil.Encode(msg), address}, nil

	case constants.MethodEthSign:
		msg, err := messageBytes(domain)
		if err != nil {
			return nil, err
		}
		// eth_sign params are [address, message]
		return []any{address, hexutil.Encode(msg)}, nil

	case constants.MethodEthSignTypedData, constants.MethodEthSignTypedDataV4:
		typedDataJSON, err := typedDataString(domain)
		if err != nil {
			return nil, err
		}
		return []any{address, typedDataJSON}, nil

	case constants.MethodEthSendTransaction, constants.MethodEthSignTransaction:
		tx, ok := domain.(*Transaction)
		if !ok {
			return nil, fmt.Errorf("invalid domain object for %s: got %T, want *eip155.Transaction", method, domain)
		}
		if tx.From == "" {
			return nil, fmt.Errorf("transaction is missing the from address")
		}
		return []any{tx}, nil

	default:
		return nil, fmt.Errorf("no eip155 payload builder for method: %s", method)
	}
}

func messageBytes(domain any) ([]byte, error) {
	switch m := domain.(type) {
	case []byte:
		return m, nil
	case string:
		return []byte(m), nil
	default:
		return nil, fmt.Errorf("invalid message domain object: got %T, want string or []byte", domain)
	}
}

// typedDataString accepts either ready-made typed-data JSON or an
// apitypes.TypedData value, and always returns the JSON form. Malformed JSON
// is rejected here rather than by the wallet.
func typedDataString(domain any) (string, error) {
	switch d := domain.(type) {
	case string:
		var td apitypes.TypedData
		if err := json.Unmarshal([]byte(d), &td); err != nil {
			return "", fmt.Errorf("malformed typed data JSON: %w", err)
		}
		return d, nil
	case apitypes.TypedData:
		raw, err := json.Marshal(d)
		if err != nil {
			return "", fmt.Errorf("failed to marshal typed data: %w", err)
		}
		return string(raw), nil
	case *apitypes.TypedData:
		raw, err := json.Marshal(d)
		if err != nil {
			return "", fmt.Errorf("failed to marshal typed data: %w", err)
		}
		return string(raw), nil
	default:
		return "", fmt.Errorf("invalid typed data domain object: got %T", domain)
	}
}
