package hedera

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sigweihq/wcsign/pkg/caip"
	"github.com/sigweihq/wcsign/pkg/chains"
	"github.com/sigweihq/wcsign/pkg/constants"
)

func hederaRequest(t *testing.T, method string, prepared PreparedTransaction) *chains.SignRequest {
	t.Helper()
	return &chains.SignRequest{
		ChainID: caip.MustChainID("hedera:testnet"),
		Address: "0.0.1001",
		Method:  method,
		Domain:  prepared,
	}
}

func TestValidateExecuteResponse(t *testing.T) {
	validator := NewResponseValidator()

	prepared, err := PrepareTransfer(newTransfer(), testSigner)
	require.NoError(t, err)

	raw, err := json.Marshal(executeResponse{
		NodeID:          "0.0.3",
		TransactionHash: base64.StdEncoding.EncodeToString([]byte("hash")),
		TransactionID:   prepared.TransactionID(),
	})
	require.NoError(t, err)

	verdict, err := validator.Validate(hederaRequest(t, constants.MethodHederaSignAndExecuteTransaction, prepared), raw)
	require.NoError(t, err)
	assert.True(t, verdict.Valid)
	assert.Contains(t, verdict.Result, prepared.TransactionID())
}

func TestValidateExecuteResponseTransactionIDMismatch(t *testing.T) {
	validator := NewResponseValidator()

	prepared, err := PrepareTransfer(newTransfer(), testSigner)
	require.NoError(t, err)

	raw, err := json.Marshal(executeResponse{
		NodeID:        "0.0.3",
		TransactionID: "0.0.9999@1700000000.000000000",
	})
	require.NoError(t, err)

	verdict, err := validator.Validate(hederaRequest(t, constants.MethodHederaSignAndExecuteTransaction, prepared), raw)
	require.NoError(t, err)
	assert.False(t, verdict.Valid)
	assert.Contains(t, verdict.Result, "mismatch")
}

func TestValidateExecuteResponseMissingTransactionID(t *testing.T) {
	validator := NewResponseValidator()

	prepared, err := PrepareTransfer(newTransfer(), testSigner)
	require.NoError(t, err)

	verdict, err := validator.Validate(
		hederaRequest(t, constants.MethodHederaSignAndExecuteTransaction, prepared),
		json.RawMessage(`{"nodeId":"0.0.3"}`),
	)
	require.NoError(t, err)
	assert.False(t, verdict.Valid)
	assert.NotEmpty(t, verdict.Result)
}

func TestValidateSignedResponseRoundTrip(t *testing.T) {
	validator := NewResponseValidator()

	prepared, err := PrepareTransfer(newTransfer(), testSigner)
	require.NoError(t, err)

	// A wallet that signs and returns the same transaction list decodes to
	// the transaction id fixed at freeze time.
	raw, err := json.Marshal(signResponse{SignedTransaction: prepared.Base64()})
	require.NoError(t, err)

	verdict, err := validator.Validate(hederaRequest(t, constants.MethodHederaSignTransaction, prepared), raw)
	require.NoError(t, err)
	assert.True(t, verdict.Valid)
}

func TestValidateSignedResponseBadBase64(t *testing.T) {
	validator := NewResponseValidator()

	prepared, err := PrepareTransfer(newTransfer(), testSigner)
	require.NoError(t, err)

	verdict, err := validator.Validate(
		hederaRequest(t, constants.MethodHederaSignTransaction, prepared),
		json.RawMessage(`{"signedTransaction":"%%%not-base64%%%"}`),
	)
	require.NoError(t, err)
	assert.False(t, verdict.Valid)
	assert.NotEmpty(t, verdict.Result)
}

func TestValidateSignedResponseGarbageBytes(t *testing.T) {
	validator := NewResponseValidator()

	prepared, err := PrepareTransfer(newTransfer(), testSigner)
	require.NoError(t, err)

	garbage := base64.StdEncoding.EncodeToString([]byte("definitely not a transaction"))
	raw, err := json.Marshal(signResponse{SignedTransaction: garbage})
	require.NoError(t, err)

	verdict, err := validator.Validate(hederaRequest(t, constants.MethodHederaSignTransaction, prepared), raw)
	require.NoError(t, err)
	assert.False(t, verdict.Valid)
}

func TestValidateMessageResponse(t *testing.T) {
	validator := NewResponseValidator()

	sigMap := base64.StdEncoding.EncodeToString([]byte("signature-map-bytes"))
	raw := json.RawMessage(fmt.Sprintf(`{"signatureMap":%q}`, sigMap))

	verdict, err := validator.Validate(
		&chains.SignRequest{
			ChainID: caip.MustChainID("hedera:testnet"),
			Address: "0.0.1001",
			Method:  constants.MethodHederaSignMessage,
			Domain:  "hello hedera",
		},
		raw,
	)
	require.NoError(t, err)
	assert.True(t, verdict.Valid)
	assert.Equal(t, sigMap, verdict.Result)
}

func TestValidateMessageResponseMissingSignature(t *testing.T) {
	validator := NewResponseValidator()

	verdict, err := validator.Validate(
		&chains.SignRequest{
			ChainID: caip.MustChainID("hedera:testnet"),
			Address: "0.0.1001",
			Method:  constants.MethodHederaSignMessage,
			Domain:  "hello",
		},
		json.RawMessage(`{}`),
	)
	require.NoError(t, err)
	assert.False(t, verdict.Valid)
}
