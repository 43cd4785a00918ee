package hedera

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	hiero "github.com/hashgraph/hedera-sdk-go/v2"

	"github.com/sigweihq/wcsign/pkg/chains"
	"github.com/sigweihq/wcsign/pkg/constants"
)

// executeResponse is the wallet's answer to hedera_signAndExecuteTransaction.
type executeResponse struct {
	NodeID          string `json:"nodeId"`
	TransactionHash string `json:"transactionHash"`
	TransactionID   string `json:"transactionId"`
}

// signResponse is the wallet's answer to hedera_signTransaction.
type signResponse struct {
	SignedTransaction string `json:"signedTransaction"`
}

// messageResponse is the wallet's answer to hedera_signMessage.
type messageResponse struct {
	SignatureMap string `json:"signatureMap"`
}

// ResponseValidator interprets Hedera wallet responses. The dApp does not
// independently verify Hedera signatures: signing and submission trust is
// delegated to the wallet and the network. Responses are decoded for display
// and checked for consistency with the prepared transaction.
type ResponseValidator struct{}

func NewResponseValidator() *ResponseValidator {
	return &ResponseValidator{}
}

var _ chains.ResponseValidator = (*ResponseValidator)(nil)

// Validate implements chains.ResponseValidator
func (v *ResponseValidator) Validate(req *chains.SignRequest, raw json.RawMessage) (chains.Verdict, error) {
	switch req.Method {
	case constants.MethodHederaSignAndExecuteTransaction:
		return v.validateExecute(req, raw)
	case constants.MethodHederaSignTransaction:
		return v.validateSigned(req, raw)
	case constants.MethodHederaSignMessage:
		return v.validateMessage(raw)
	default:
		return chains.Verdict{}, fmt.Errorf("no hedera validator for method: %s", req.Method)
	}
}

func (v *ResponseValidator) validateExecute(req *chains.SignRequest, raw json.RawMessage) (chains.Verdict, error) {
	var resp executeResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return chains.Verdict{}, fmt.Errorf("malformed hedera execute response: %w", err)
	}
	if resp.TransactionID == "" {
		return chains.Verdict{Valid: false, Result: "response is missing the transaction id"}, nil
	}

	// The executed transaction id must be the one fixed at freeze time.
	if prepared, ok := preparedOf(req.Domain); ok && resp.TransactionID != prepared.TransactionID() {
		return chains.Verdict{
			Valid:  false,
			Result: fmt.Sprintf("transaction id mismatch: sent %s, wallet executed %s", prepared.TransactionID(), resp.TransactionID),
		}, nil
	}

	return chains.Verdict{
		Valid:  true,
		Result: fmt.Sprintf("transactionId: %s, nodeId: %s", resp.TransactionID, resp.NodeID),
	}, nil
}

func (v *ResponseValidator) validateSigned(req *chains.SignRequest, raw json.RawMessage) (chains.Verdict, error) {
	var resp signResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return chains.Verdict{}, fmt.Errorf("malformed hedera sign response: %w", err)
	}

	data, err := base64.StdEncoding.DecodeString(resp.SignedTransaction)
	if err != nil {
		return chains.Verdict{Valid: false, Result: fmt.Sprintf("signed transaction is not valid base64: %v", err)}, nil
	}

	decoded, err := hiero.TransactionFromBytes(data)
	if err != nil {
		return chains.Verdict{Valid: false, Result: fmt.Sprintf("signed transaction does not decode: %v", err)}, nil
	}

	txID, err := hiero.TransactionGetTransactionID(decoded)
	if err != nil {
		return chains.Verdict{Valid: false, Result: fmt.Sprintf("signed transaction has no transaction id: %v", err)}, nil
	}

	if prepared, ok := preparedOf(req.Domain); ok && txID.String() != prepared.TransactionID() {
		return chains.Verdict{
			Valid:  false,
			Result: fmt.Sprintf("transaction id mismatch: sent %s, wallet signed %s", prepared.TransactionID(), txID.String()),
		}, nil
	}

	return chains.Verdict{
		Valid:  true,
		Result: fmt.Sprintf("signed transaction %s (%d bytes)", txID.String(), len(data)),
	}, nil
}

func (v *ResponseValidator) validateMessage(raw json.RawMessage) (chains.Verdict, error) {
	var resp messageResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return chains.Verdict{}, fmt.Errorf("malformed hedera message response: %w", err)
	}
	if resp.SignatureMap == "" {
		return chains.Verdict{Valid: false, Result: "response is missing the signature map"}, nil
	}
	if _, err := base64.StdEncoding.DecodeString(resp.SignatureMap); err != nil {
		return chains.Verdict{Valid: false, Result: fmt.Sprintf("signature map is not valid base64: %v", err)}, nil
	}
	return chains.Verdict{Valid: true, Result: resp.SignatureMap}, nil
}

func preparedOf(domain any) (PreparedTransaction, bool) {
	switch d := domain.(type) {
	case PreparedTransaction:
		return d, true
	case *PreparedTransaction:
		if d != nil {
			return *d, true
		}
	}
	return PreparedTransaction{}, false
}
