package hedera

import (
	"encoding/base64"
	"testing"

	hiero "github.com/hashgraph/hedera-sdk-go/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sigweihq/wcsign/pkg/constants"
)

var (
	testSigner    = hiero.AccountID{Account: 1001}
	testRecipient = hiero.AccountID{Account: 1002}
)

func newTransfer() *hiero.TransferTransaction {
	return hiero.NewTransferTransaction().
		AddHbarTransfer(testSigner, hiero.NewHbar(-1)).
		AddHbarTransfer(testRecipient, hiero.NewHbar(1))
}

func TestPrepareTransferAssignsDefaultNode(t *testing.T) {
	prepared, err := PrepareTransfer(newTransfer(), testSigner)
	require.NoError(t, err)

	assert.Equal(t, DefaultNodeAccountID.String(), prepared.NodeAccountID())
	assert.NotEmpty(t, prepared.TransactionID())
	assert.NotEmpty(t, prepared.Bytes())
}

func TestPrepareTransferKeepsExplicitNode(t *testing.T) {
	node := hiero.AccountID{Account: 7}
	tx := newTransfer().SetNodeAccountIDs([]hiero.AccountID{node})

	prepared, err := PrepareTransfer(tx, testSigner)
	require.NoError(t, err)

	assert.Equal(t, node.String(), prepared.NodeAccountID())
}

func TestPrepareTransferIdempotentOnFrozenTransaction(t *testing.T) {
	tx := newTransfer()

	first, err := PrepareTransfer(tx, testSigner)
	require.NoError(t, err)

	// Preparing the already-frozen, already-node-assigned transaction again
	// must not alter the produced bytes.
	second, err := PrepareTransfer(tx, testSigner)
	require.NoError(t, err)

	assert.Equal(t, first.Bytes(), second.Bytes())
	assert.Equal(t, first.TransactionID(), second.TransactionID())
	assert.Equal(t, first.NodeAccountID(), second.NodeAccountID())
}

func TestPrepareTransferNil(t *testing.T) {
	_, err := PrepareTransfer(nil, testSigner)
	assert.Error(t, err)
}

func TestPreparedTransactionBytesAreCopies(t *testing.T) {
	prepared, err := PrepareTransfer(newTransfer(), testSigner)
	require.NoError(t, err)

	b := prepared.Bytes()
	b[0] ^= 0xFF
	assert.NotEqual(t, b[0], prepared.Bytes()[0])
}

func TestBuildParamsSignAndExecute(t *testing.T) {
	factory := NewPayloadFactory()

	prepared, err := PrepareTransfer(newTransfer(), testSigner)
	require.NoError(t, err)

	params, err := factory.BuildParams(constants.MethodHederaSignAndExecuteTransaction, "0.0.1001", prepared)
	require.NoError(t, err)

	p, ok := params.(*signTransactionParams)
	require.True(t, ok)
	assert.Equal(t, "0.0.1001", p.SignerAccountID)

	decoded, err := base64.StdEncoding.DecodeString(p.TransactionList)
	require.NoError(t, err)
	assert.Equal(t, prepared.Bytes(), decoded)
}

func TestBuildParamsSignMessage(t *testing.T) {
	factory := NewPayloadFactory()

	params, err := factory.BuildParams(constants.MethodHederaSignMessage, "0.0.1001", "hello hedera")
	require.NoError(t, err)

	p, ok := params.(*signMessageParams)
	require.True(t, ok)
	assert.Equal(t, "0.0.1001", p.SignerAccountID)
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("hello hedera")), p.Message)
}

func TestBuildParamsRejectsWrongDomain(t *testing.T) {
	factory := NewPayloadFactory()

	_, err := factory.BuildParams(constants.MethodHederaSignAndExecuteTransaction, "0.0.1001", "not a transaction")
	assert.Error(t, err)

	_, err = factory.BuildParams(constants.MethodHederaSignAndExecuteTransaction, "0.0.1001", PreparedTransaction{})
	assert.Error(t, err)

	_, err = factory.BuildParams(constants.MethodHederaSignMessage, "0.0.1001", 42)
	assert.Error(t, err)
}

func TestBuildParamsUnknownMethod(t *testing.T) {
	factory := NewPayloadFactory()

	_, err := factory.BuildParams("hedera_getNodeAddresses", "0.0.1001", "x")
	assert.Error(t, err)
}
