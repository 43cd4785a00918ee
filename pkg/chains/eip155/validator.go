package eip155

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"

	"github.com/sigweihq/wcsign/pkg/chains"
	"github.com/sigweihq/wcsign/pkg/constants"
)

// ResponseValidator verifies eip155 wallet responses: signature recovery for
// message and typed-data signing, sender recovery for signed transactions,
// and hash shape checks for submitted transactions.
type ResponseValidator struct{}

func NewResponseValidator() *ResponseValidator {
	return &ResponseValidator{}
}

var _ chains.ResponseValidator = (*ResponseValidator)(nil)

// Validate implements chains.ResponseValidator
func (v *ResponseValidator) Validate(req *chains.SignRequest, raw json.RawMessage) (chains.Verdict, error) {
	var result string
	if err := json.Unmarshal(raw, &result); err != nil {
		return chains.Verdict{}, fmt.Errorf("eip155 response is not a string: %w", err)
	}

	switch req.Method {
	case constants.MethodPersonalSign, constants.MethodEthSign:
		msg, err := messageBytes(req.Domain)
		if err != nil {
			return chains.Verdict{}, err
		}
		return v.verifySignature(req.Address, result, accounts.TextHash(msg)), nil

	case constants.MethodEthSignTypedData, constants.MethodEthSignTypedDataV4:
		typedDataJSON, err := typedDataString(req.Domain)
		if err != nil {
			return chains.Verdict{}, err
		}
		var typedData apitypes.TypedData
		if err := json.Unmarshal([]byte(typedDataJSON), &typedData); err != nil {
			return chains.Verdict{}, fmt.Errorf("malformed typed data JSON: %w", err)
		}
		hash, _, err := apitypes.TypedDataAndHash(typedData)
		if err != nil {
			return chains.Verdict{}, fmt.Errorf("failed to hash typed data: %w", err)
		}
		return v.verifySignature(req.Address, result, hash), nil

	case constants.MethodEthSignTransaction:
		return v.verifySignedTransaction(req.Address, result)

	case constants.MethodEthSendTransaction:
		return v.verifyTransactionHash(result), nil

	default:
		return chains.Verdict{}, fmt.Errorf("no eip155 validator for method: %s", req.Method)
	}
}

// verifySignature recovers the signer address from a 65-byte secp256k1
// signature over hash and compares it case-insensitively (EIP-55) to the
// requesting address.
func (v *ResponseValidator) verifySignature(address, sigHex string, hash []byte) chains.Verdict {
	sig := common.FromHex(sigHex)
	if len(sig) != crypto.SignatureLength {
		return chains.Verdict{Valid: false, Result: fmt.Sprintf("signature has %d bytes, want %d", len(sig), crypto.SignatureLength)}
	}

	// Wallets return v as 27/28; SigToPub wants the 0/1 recovery id.
	recovered := make([]byte, crypto.SignatureLength)
	copy(recovered, sig)
	if recovered[crypto.RecoveryIDOffset] >= 27 {
		recovered[crypto.RecoveryIDOffset] -= 27
	}

	pub, err := crypto.SigToPub(hash, recovered)
	if err != nil {
		return chains.Verdict{Valid: false, Result: fmt.Sprintf("signature recovery failed: %v", err)}
	}

	signer := crypto.PubkeyToAddress(*pub)
	return chains.Verdict{
		Valid:  strings.EqualFold(signer.Hex(), address),
		Result: sigHex,
	}
}

// verifySignedTransaction deserializes the RLP-encoded signed transaction
// and checks the embedded signature by recovering the sender.
func (v *ResponseValidator) verifySignedTransaction(address, rawTxHex string) (chains.Verdict, error) {
	var tx ethtypes.Transaction
	if err := tx.UnmarshalBinary(common.FromHex(rawTxHex)); err != nil {
		return chains.Verdict{}, fmt.Errorf("failed to decode signed transaction: %w", err)
	}

	signer := ethtypes.LatestSignerForChainID(tx.ChainId())
	from, err := ethtypes.Sender(signer, &tx)
	if err != nil {
		return chains.Verdict{Valid: false, Result: fmt.Sprintf("sender recovery failed: %v", err)}, nil
	}

	return chains.Verdict{
		Valid:  strings.EqualFold(from.Hex(), address),
		Result: rawTxHex,
	}, nil
}

// verifyTransactionHash checks that a submitted transaction produced a
// well-formed hash. Execution trust is delegated to the wallet and network.
func (v *ResponseValidator) verifyTransactionHash(txHash string) chains.Verdict {
	if !strings.HasPrefix(txHash, "0x") {
		txHash = "0x" + txHash
	}
	if len(txHash) != 66 { // 0x + 64 hex chars
		return chains.Verdict{Valid: false, Result: fmt.Sprintf("invalid transaction hash format: %s", txHash)}
	}
	if _, err := hexDecodeHash(txHash); err != nil {
		return chains.Verdict{Valid: false, Result: fmt.Sprintf("invalid transaction hash: %v", err)}
	}
	return chains.Verdict{Valid: true, Result: txHash}
}

func hexDecodeHash(s string) (common.Hash, error) {
	b := common.FromHex(s)
	if len(b) != common.HashLength {
		return common.Hash{}, fmt.Errorf("hash has %d bytes, want %d", len(b), common.HashLength)
	}
	return common.BytesToHash(b), nil
}
