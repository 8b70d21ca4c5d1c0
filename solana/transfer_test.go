package solana

import (
	"context"
	"encoding/binary"
	"io"
	"log/slog"
	"math"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brojonat/solkit/wallet"
)

// newSendMock returns a mock ready for a happy-path submission: a blockhash,
// immediate confirmation, and the transaction's own signature echoed back.
func newSendMock() *mockRPCClient {
	blockhash := solana.Hash(solana.NewWallet().PublicKey())
	return &mockRPCClient{
		blockhash: &rpc.GetLatestBlockhashResult{
			Value: &rpc.LatestBlockhashResult{Blockhash: blockhash},
		},
	}
}

// sentProgram resolves the program ID of the i-th instruction in the
// submitted transaction.
func sentProgram(t *testing.T, tx *solana.Transaction, i int) solana.PublicKey {
	t.Helper()
	require.Greater(t, len(tx.Message.Instructions), i)
	program, err := tx.Message.Program(tx.Message.Instructions[i].ProgramIDIndex)
	require.NoError(t, err)
	return program
}

func TestSendSol_Success(t *testing.T) {
	ctx := context.Background()

	mock := newSendMock()
	client := newTestClient(mock)

	sender := solana.NewWallet()
	recipient := solana.NewWallet().PublicKey()

	result, err := client.SendSol(ctx, sender.PrivateKey.String(), recipient.String(), 2.5)

	require.NoError(t, err)
	require.NotNil(t, result)
	assert.NotEmpty(t, result.TransactionSignature)

	// One system transfer instruction moving 2.5 SOL = 2,500,000,000 lamports.
	require.NotNil(t, mock.sentTx)
	require.Len(t, mock.sentTx.Message.Instructions, 1)
	assert.Equal(t, solana.SystemProgramID, sentProgram(t, mock.sentTx, 0))

	data := []byte(mock.sentTx.Message.Instructions[0].Data)
	require.Len(t, data, 12)
	assert.Equal(t, uint32(2), binary.LittleEndian.Uint32(data[0:4])) // system transfer variant
	assert.Equal(t, uint64(2_500_000_000), binary.LittleEndian.Uint64(data[4:12]))
}

func TestSendSol_ValidationErrors(t *testing.T) {
	ctx := context.Background()

	sender := solana.NewWallet().PrivateKey.String()
	recipient := solana.NewWallet().PublicKey().String()

	cases := map[string]struct {
		key    string
		to     string
		amount float64
	}{
		"empty private key": {"", recipient, 1},
		"empty recipient":   {sender, "", 1},
		"bad recipient":     {sender, "not-an-address-0OIl", 1},
		"zero amount":       {sender, recipient, 0},
		"negative amount":   {sender, recipient, -1},
		"NaN amount":        {sender, recipient, math.NaN()},
		"infinite amount":   {sender, recipient, math.Inf(1)},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			mock := newSendMock()
			client := newTestClient(mock)

			result, err := client.SendSol(ctx, tc.key, tc.to, tc.amount)

			require.Error(t, err)
			assert.Nil(t, result)

			var invalidErr *InvalidTransferRequestError
			assert.ErrorAs(t, err, &invalidErr)
			assert.False(t, mock.contacted, "validation must fail before any RPC call")
			assert.False(t, mock.sendCalled)
		})
	}
}

func TestSendSol_MalformedPrivateKey(t *testing.T) {
	ctx := context.Background()

	mock := newSendMock()
	client := newTestClient(mock)

	result, err := client.SendSol(ctx, "garbage-key-0OIl", solana.NewWallet().PublicKey().String(), 1)

	require.Error(t, err)
	assert.Nil(t, result)

	var keyErr *wallet.InvalidPrivateKeyError
	assert.ErrorAs(t, err, &keyErr)
	assert.False(t, mock.contacted)
}

func TestSendSol_SubmitFailure(t *testing.T) {
	ctx := context.Background()

	mock := newSendMock()
	mock.sendErr = assert.AnError
	client := newTestClient(mock)

	result, err := client.SendSol(
		ctx,
		solana.NewWallet().PrivateKey.String(),
		solana.NewWallet().PublicKey().String(),
		1,
	)

	require.Error(t, err)
	assert.Nil(t, result, "a failed transfer never returns a signature")

	var transferErr *TransferFailedError
	assert.ErrorAs(t, err, &transferErr)
	assert.ErrorIs(t, err, assert.AnError)
}

func TestSendSol_OnChainFailure(t *testing.T) {
	ctx := context.Background()

	mock := newSendMock()
	mock.statuses = &rpc.GetSignatureStatusesResult{
		Value: []*rpc.SignatureStatusesResult{
			{Err: map[string]interface{}{"InstructionError": []interface{}{0, "Custom"}}},
		},
	}
	client := newTestClient(mock)

	result, err := client.SendSol(
		ctx,
		solana.NewWallet().PrivateKey.String(),
		solana.NewWallet().PublicKey().String(),
		1,
	)

	require.Error(t, err)
	assert.Nil(t, result)

	var transferErr *TransferFailedError
	assert.ErrorAs(t, err, &transferErr)
}

func TestSendSplToken_RecipientAccountAbsent(t *testing.T) {
	ctx := context.Background()

	mock := newSendMock()
	mock.tokenSupply = &rpc.GetTokenSupplyResult{
		Value: &rpc.UiTokenAmount{Decimals: 6},
	}
	mock.accountInfoErr = rpc.ErrNotFound
	client := newTestClient(mock)

	sender := solana.NewWallet()
	recipient := solana.NewWallet().PublicKey()
	mint := solana.NewWallet().PublicKey()

	result, err := client.SendSplToken(ctx, sender.PrivateKey.String(), recipient.String(), 2.5, mint.String())

	require.NoError(t, err)
	assert.NotEmpty(t, result.TransactionSignature)

	// Absent recipient account: create-account instruction prepended, then
	// the transfer.
	require.NotNil(t, mock.sentTx)
	require.Len(t, mock.sentTx.Message.Instructions, 2)
	assert.Equal(t, solana.SPLAssociatedTokenAccountProgramID, sentProgram(t, mock.sentTx, 0))
	assert.Equal(t, solana.TokenProgramID, sentProgram(t, mock.sentTx, 1))

	// TransferChecked: variant byte 12, u64 amount, u8 decimals.
	// 2.5 tokens at 6 decimals is 2,500,000 base units.
	data := []byte(mock.sentTx.Message.Instructions[1].Data)
	require.Len(t, data, 10)
	assert.Equal(t, uint8(12), data[0])
	assert.Equal(t, uint64(2_500_000), binary.LittleEndian.Uint64(data[1:9]))
	assert.Equal(t, uint8(6), data[9])
}

func TestSendSplToken_RecipientAccountPresent(t *testing.T) {
	ctx := context.Background()

	mock := newSendMock()
	mock.tokenSupply = &rpc.GetTokenSupplyResult{
		Value: &rpc.UiTokenAmount{Decimals: 6},
	}
	mock.accountInfo = &rpc.GetAccountInfoResult{
		Value: &rpc.Account{Lamports: 2_039_280},
	}
	client := newTestClient(mock)

	sender := solana.NewWallet()
	recipient := solana.NewWallet().PublicKey()
	mint := solana.NewWallet().PublicKey()

	result, err := client.SendSplToken(ctx, sender.PrivateKey.String(), recipient.String(), 2.5, mint.String())

	require.NoError(t, err)
	assert.NotEmpty(t, result.TransactionSignature)

	// Existing recipient account: just the transfer instruction.
	require.NotNil(t, mock.sentTx)
	require.Len(t, mock.sentTx.Message.Instructions, 1)
	assert.Equal(t, solana.TokenProgramID, sentProgram(t, mock.sentTx, 0))
}

func TestSendSplToken_MintLookupFailure(t *testing.T) {
	ctx := context.Background()

	mock := newSendMock()
	mock.tokenSupplyErr = assert.AnError
	client := newTestClient(mock)

	result, err := client.SendSplToken(
		ctx,
		solana.NewWallet().PrivateKey.String(),
		solana.NewWallet().PublicKey().String(),
		1,
		solana.NewWallet().PublicKey().String(),
	)

	require.Error(t, err)
	assert.Nil(t, result)

	var mintErr *MintLookupError
	assert.ErrorAs(t, err, &mintErr)
	assert.False(t, mock.sendCalled, "a failed mint lookup must not submit anything")
}

func TestSendSplToken_ValidationErrors(t *testing.T) {
	ctx := context.Background()

	sender := solana.NewWallet().PrivateKey.String()
	recipient := solana.NewWallet().PublicKey().String()
	mint := solana.NewWallet().PublicKey().String()

	cases := map[string]struct {
		key    string
		to     string
		amount float64
		mint   string
	}{
		"empty private key": {"", recipient, 1, mint},
		"empty recipient":   {sender, "", 1, mint},
		"bad recipient":     {sender, "nope0", 1, mint},
		"zero amount":       {sender, recipient, 0, mint},
		"negative amount":   {sender, recipient, -0.5, mint},
		"NaN amount":        {sender, recipient, math.NaN(), mint},
		"empty mint":        {sender, recipient, 1, ""},
		"bad mint":          {sender, recipient, 1, "nope0"},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			mock := newSendMock()
			client := newTestClient(mock)

			result, err := client.SendSplToken(ctx, tc.key, tc.to, tc.amount, tc.mint)

			require.Error(t, err)
			assert.Nil(t, result)

			var invalidErr *InvalidTransferRequestError
			assert.ErrorAs(t, err, &invalidErr)
			assert.False(t, mock.contacted, "validation must fail before any RPC call")
		})
	}
}

func TestSendSplToken_ConfirmationWaitsForCommitment(t *testing.T) {
	ctx := context.Background()

	// Processed is below the client's confirmed commitment, so the first
	// poll must not report confirmation; only the second poll, which
	// observes confirmed, completes the wait.
	mock := newSendMock()
	mock.tokenSupply = &rpc.GetTokenSupplyResult{
		Value: &rpc.UiTokenAmount{Decimals: 6},
	}
	mock.accountInfo = &rpc.GetAccountInfoResult{
		Value: &rpc.Account{Lamports: 1},
	}
	mock.statusSeq = []*rpc.GetSignatureStatusesResult{
		{Value: []*rpc.SignatureStatusesResult{
			{ConfirmationStatus: rpc.ConfirmationStatusProcessed},
		}},
		{Value: []*rpc.SignatureStatusesResult{
			{ConfirmationStatus: rpc.ConfirmationStatusConfirmed},
		}},
	}
	client := newTestClient(mock)

	result, err := client.SendSplToken(
		ctx,
		solana.NewWallet().PrivateKey.String(),
		solana.NewWallet().PublicKey().String(),
		1,
		solana.NewWallet().PublicKey().String(),
	)

	require.NoError(t, err)
	assert.NotEmpty(t, result.TransactionSignature)
	assert.Equal(t, 2, mock.statusCalls, "processed must not satisfy confirmed")
}

func TestSendSol_UnknownCommitmentNeverConfirmsEarly(t *testing.T) {
	ctx := context.Background()

	// A client built with a typo'd commitment level holds confirmation to
	// the confirmed bar: a status with no confirmation level and then a
	// merely processed one must keep the wait going.
	mock := newSendMock()
	mock.statusSeq = []*rpc.GetSignatureStatusesResult{
		{Value: []*rpc.SignatureStatusesResult{{}}},
		{Value: []*rpc.SignatureStatusesResult{
			{ConfirmationStatus: rpc.ConfirmationStatusProcessed},
		}},
		{Value: []*rpc.SignatureStatusesResult{
			{ConfirmationStatus: rpc.ConfirmationStatusConfirmed},
		}},
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	client := NewClient(mock, "test", rpc.CommitmentType("procesed"), nil, logger)

	result, err := client.SendSol(
		ctx,
		solana.NewWallet().PrivateKey.String(),
		solana.NewWallet().PublicKey().String(),
		1,
	)

	require.NoError(t, err)
	assert.NotEmpty(t, result.TransactionSignature)
	assert.Equal(t, 3, mock.statusCalls, "confirmation must wait for a confirmed status")
}
