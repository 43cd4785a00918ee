package solana

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	bin "github.com/gagliardetto/binary"
	solanago "github.com/gagliardetto/solana-go"

	"github.com/sigweihq/wcsign/pkg/chains"
	"github.com/sigweihq/wcsign/pkg/constants"
)

// signatureResponse covers both solana response shapes: message signing
// returns a base58 signature, transaction signing returns either a base58
// signature or the fully signed transaction, base64-encoded.
type signatureResponse struct {
	Signature   string `json:"signature,omitempty"`
	Transaction string `json:"transaction,omitempty"`
}

// ResponseValidator checks solana wallet responses. Signatures are ed25519
// and verified directly against the requesting address.
type ResponseValidator struct{}

// NewResponseValidator creates a new solana response validator
func NewResponseValidator() *ResponseValidator {
	return &ResponseValidator{}
}

var _ chains.ResponseValidator = (*ResponseValidator)(nil)

// Validate implements chains.ResponseValidator
func (v *ResponseValidator) Validate(req *chains.SignRequest, raw json.RawMessage) (chains.Verdict, error) {
	var resp signatureResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return chains.Verdict{Valid: false, Result: fmt.Sprintf("failed to decode response: %v", err)}, nil
	}

	switch req.Method {
	case constants.MethodSolanaSignMessage:
		return v.validateMessageSignature(req, resp)
	case constants.MethodSolanaSignTransaction:
		return v.validateSignedTransaction(req, resp)
	default:
		return chains.Verdict{}, fmt.Errorf("unsupported solana method: %s", req.Method)
	}
}

// validateMessageSignature verifies the returned signature over the original
// message bytes against the signer's public key.
func (v *ResponseValidator) validateMessageSignature(req *chains.SignRequest, resp signatureResponse) (chains.Verdict, error) {
	if resp.Signature == "" {
		return chains.Verdict{Valid: false, Result: "response is missing the signature"}, nil
	}

	pubkey, err := solanago.PublicKeyFromBase58(req.Address)
	if err != nil {
		return chains.Verdict{Valid: false, Result: fmt.Sprintf("invalid signer address: %v", err)}, nil
	}

	sig, err := solanago.SignatureFromBase58(resp.Signature)
	if err != nil {
		return chains.Verdict{Valid: false, Result: fmt.Sprintf("signature is not valid base58: %v", err)}, nil
	}

	msg, err := messageBytes(req.Domain)
	if err != nil {
		return chains.Verdict{}, err
	}

	if !sig.Verify(pubkey, msg) {
		return chains.Verdict{Valid: false, Result: "signature does not verify against signer"}, nil
	}

	return chains.Verdict{Valid: true, Result: resp.Signature}, nil
}

// validateSignedTransaction checks the transaction-signing response. When the
// wallet returns the signed transaction it is decoded, its signatures are
// verified, and the fee payer is compared to the requesting address. When only
// a signature is returned it is verified over the sent transaction's message
// bytes.
func (v *ResponseValidator) validateSignedTransaction(req *chains.SignRequest, resp signatureResponse) (chains.Verdict, error) {
	if resp.Transaction != "" {
		return v.verifyReturnedTransaction(req, resp.Transaction)
	}
	if resp.Signature != "" {
		return v.verifyDetachedSignature(req, resp.Signature)
	}
	return chains.Verdict{Valid: false, Result: "response has neither signature nor transaction"}, nil
}

func (v *ResponseValidator) verifyReturnedTransaction(req *chains.SignRequest, encoded string) (chains.Verdict, error) {
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return chains.Verdict{Valid: false, Result: fmt.Sprintf("transaction is not valid base64: %v", err)}, nil
	}

	tx, err := solanago.TransactionFromDecoder(bin.NewBinDecoder(data))
	if err != nil {
		return chains.Verdict{Valid: false, Result: fmt.Sprintf("transaction does not decode: %v", err)}, nil
	}

	if len(tx.Message.AccountKeys) == 0 {
		return chains.Verdict{Valid: false, Result: "transaction has no account keys"}, nil
	}

	// The fee payer is always the first account key and must be the wallet
	// we asked to sign.
	feePayer := tx.Message.AccountKeys[0].String()
	if feePayer != req.Address {
		return chains.Verdict{
			Valid:  false,
			Result: fmt.Sprintf("fee payer mismatch: expected %s, got %s", req.Address, feePayer),
		}, nil
	}

	if err := tx.VerifySignatures(); err != nil {
		return chains.Verdict{Valid: false, Result: fmt.Sprintf("transaction signatures do not verify: %v", err)}, nil
	}

	if len(tx.Signatures) == 0 {
		return chains.Verdict{Valid: false, Result: "transaction has no signatures"}, nil
	}

	return chains.Verdict{Valid: true, Result: tx.Signatures[0].String()}, nil
}

func (v *ResponseValidator) verifyDetachedSignature(req *chains.SignRequest, encoded string) (chains.Verdict, error) {
	tx, err := transactionOf(req.Domain)
	if err != nil {
		return chains.Verdict{}, err
	}

	sig, err := solanago.SignatureFromBase58(encoded)
	if err != nil {
		return chains.Verdict{Valid: false, Result: fmt.Sprintf("signature is not valid base58: %v", err)}, nil
	}

	pubkey, err := solanago.PublicKeyFromBase58(req.Address)
	if err != nil {
		return chains.Verdict{Valid: false, Result: fmt.Sprintf("invalid signer address: %v", err)}, nil
	}

	msg, err := tx.Message.MarshalBinary()
	if err != nil {
		return chains.Verdict{}, fmt.Errorf("failed to serialize transaction message: %w", err)
	}

	if !sig.Verify(pubkey, msg) {
		return chains.Verdict{Valid: false, Result: "signature does not verify against fee payer"}, nil
	}

	return chains.Verdict{Valid: true, Result: encoded}, nil
}
