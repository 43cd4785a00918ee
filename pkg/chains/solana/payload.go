package solana

import (
	"fmt"

	solanago "github.com/gagliardetto/solana-go"

	"github.com/sigweihq/wcsign/pkg/constants"
)

// signTransactionParams is the request body for solana_signTransaction.
// Transaction is the full serialized transaction, base64-encoded.
type signTransactionParams struct {
	Transaction string `json:"transaction"`
}

// signMessageParams is the request body for solana_signMessage.
// Message is base58-encoded per the WalletConnect Solana RPC convention.
type signMessageParams struct {
	Pubkey  string `json:"pubkey"`
	Message string `json:"message"`
}

// PayloadFactory builds solana namespace request params
type PayloadFactory struct{}

// NewPayloadFactory creates a new solana payload factory
func NewPayloadFactory() *PayloadFactory {
	return &PayloadFactory{}
}

// BuildParams implements chains.PayloadFactory.
//
// For solana_signTransaction the domain must be an unsigned
// *solana.Transaction; it is serialized and base64-encoded. For
// solana_signMessage the domain is the message (string or bytes) and is
// base58-encoded alongside the signer's public key.
func (f *PayloadFactory) BuildParams(method string, address string, domain any) (any, error) {
	switch method {
	case constants.MethodSolanaSignTransaction:
		tx, err := transactionOf(domain)
		if err != nil {
			return nil, err
		}
		encoded, err := tx.ToBase64()
		if err != nil {
			return nil, fmt.Errorf("failed to serialize transaction: %w", err)
		}
		return signTransactionParams{Transaction: encoded}, nil

	case constants.MethodSolanaSignMessage:
		msg, err := messageBytes(domain)
		if err != nil {
			return nil, err
		}
		return signMessageParams{
			Pubkey:  address,
			Message: solanago.Base58(msg).String(),
		}, nil

	default:
		return nil, fmt.Errorf("unsupported solana method: %s", method)
	}
}

// transactionOf extracts the unsigned transaction from a request domain
func transactionOf(domain any) (*solanago.Transaction, error) {
	tx, ok := domain.(*solanago.Transaction)
	if !ok {
		return nil, fmt.Errorf("expected *solana.Transaction domain, got %T", domain)
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction is nil")
	}
	return tx, nil
}

// messageBytes extracts raw message bytes from a request domain
func messageBytes(domain any) ([]byte, error) {
	switch m := domain.(type) {
	case string:
		if m == "" {
			return nil, fmt.Errorf("message is empty")
		}
		return []byte(m), nil
	case []byte:
		if len(m) == 0 {
			return nil, fmt.Errorf("message is empty")
		}
		return m, nil
	default:
		return nil, fmt.Errorf("unsupported message type: %T", domain)
	}
}
