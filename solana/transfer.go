package solana

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	ata "github.com/gagliardetto/solana-go/programs/associated-token-account"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/gagliardetto/solana-go/programs/token"
	"github.com/gagliardetto/solana-go/rpc"

	"github.com/brojonat/solkit/wallet"
)

// confirmPollInterval is how often the signature status is re-queried while
// waiting for a submitted transaction to reach the configured commitment.
const confirmPollInterval = 500 * time.Millisecond

// SendSol moves amount SOL from the key's account to toPublicKey as a single
// system transfer instruction, then blocks until the transaction reaches the
// client's commitment level. Every transfer is attempted exactly once; there
// is no retry.
func (c *Client) SendSol(ctx context.Context, fromPrivateKey, toPublicKey string, amount float64) (*TransferResult, error) {
	if err := c.requireInitialized("SendSol"); err != nil {
		return nil, err
	}

	if fromPrivateKey == "" {
		return nil, &InvalidTransferRequestError{Field: "fromPrivateKey", Reason: "private key is required"}
	}
	to, err := parseAddress("toPublicKey", toPublicKey)
	if err != nil {
		return nil, &InvalidTransferRequestError{Field: "toPublicKey", Reason: "recipient address is invalid", Cause: err}
	}
	if !validAmount(amount) {
		return nil, &InvalidTransferRequestError{Field: "amount", Reason: fmt.Sprintf("amount must be a finite number greater than zero, got %v", amount)}
	}

	sender, err := signingKey(fromPrivateKey)
	if err != nil {
		return nil, err
	}

	lamports, err := SolToLamports(amount)
	if err != nil {
		return nil, &InvalidTransferRequestError{Field: "amount", Reason: "amount cannot be converted to lamports", Cause: err}
	}

	inst := system.NewTransferInstruction(lamports, sender.PublicKey(), to).Build()

	sig, err := c.submitAndConfirm(ctx, []solana.Instruction{inst}, sender)
	if c.metrics != nil {
		c.metrics.RecordTransfer("sol", transferStatus(err))
	}
	if err != nil {
		return nil, err
	}

	c.logger.InfoContext(ctx, "sol transfer confirmed",
		"to", toPublicKey,
		"lamports", lamports,
		"signature", sig.String(),
	)

	return &TransferResult{TransactionSignature: sig.String()}, nil
}

// SendSplToken moves amount tokens of the given mint from the key's
// associated token account to the recipient's. When the recipient has no
// token account for the mint yet, a create-account instruction is prepended
// with the sender as payer; this happens whenever the account is absent and
// is never requested by the caller. Mint decimals are fetched fresh on every
// call.
func (c *Client) SendSplToken(ctx context.Context, fromPrivateKey, toPublicKey string, amount float64, tokenAddress string) (*TransferResult, error) {
	if err := c.requireInitialized("SendSplToken"); err != nil {
		return nil, err
	}

	if fromPrivateKey == "" {
		return nil, &InvalidTransferRequestError{Field: "fromPrivateKey", Reason: "private key is required"}
	}
	to, err := parseAddress("toPublicKey", toPublicKey)
	if err != nil {
		return nil, &InvalidTransferRequestError{Field: "toPublicKey", Reason: "recipient address is invalid", Cause: err}
	}
	if !validAmount(amount) {
		return nil, &InvalidTransferRequestError{Field: "amount", Reason: fmt.Sprintf("amount must be a finite number greater than zero, got %v", amount)}
	}
	mint, err := parseAddress("tokenAddress", tokenAddress)
	if err != nil {
		return nil, &InvalidTransferRequestError{Field: "tokenAddress", Reason: "token mint address is invalid", Cause: err}
	}

	sender, err := signingKey(fromPrivateKey)
	if err != nil {
		return nil, err
	}

	decimals, err := c.mintDecimals(ctx, mint, tokenAddress)
	if err != nil {
		return nil, err
	}

	baseUnits, err := TokenToBaseUnits(amount, decimals)
	if err != nil {
		return nil, &InvalidTransferRequestError{Field: "amount", Reason: "amount cannot be converted to base units", Cause: err}
	}

	// The associated token accounts are derived deterministically; no
	// network call is involved.
	senderATA, _, err := solana.FindAssociatedTokenAddress(sender.PublicKey(), mint)
	if err != nil {
		return nil, &TransferFailedError{Stage: "derive sender token account", Cause: err}
	}
	recipientATA, _, err := solana.FindAssociatedTokenAddress(to, mint)
	if err != nil {
		return nil, &TransferFailedError{Stage: "derive recipient token account", Cause: err}
	}

	exists, err := c.accountExists(ctx, recipientATA)
	if err != nil {
		return nil, &TransferFailedError{Stage: "check recipient token account", Cause: err}
	}

	instructions := make([]solana.Instruction, 0, 2)
	if !exists {
		c.logger.DebugContext(ctx, "recipient token account absent, creating it",
			"recipient", toPublicKey,
			"mint", tokenAddress,
			"token_account", recipientATA.String(),
		)
		instructions = append(instructions, ata.NewCreateInstruction(
			sender.PublicKey(), // payer
			to,
			mint,
		).Build())
	}

	instructions = append(instructions, token.NewTransferCheckedInstruction(
		baseUnits,
		decimals,
		senderATA,
		mint,
		recipientATA,
		sender.PublicKey(),
		[]solana.PublicKey{},
	).Build())

	sig, err := c.submitAndConfirm(ctx, instructions, sender)
	if c.metrics != nil {
		c.metrics.RecordTransfer("spl", transferStatus(err))
	}
	if err != nil {
		return nil, err
	}

	c.logger.InfoContext(ctx, "spl transfer confirmed",
		"to", toPublicKey,
		"mint", tokenAddress,
		"base_units", baseUnits,
		"created_recipient_account", !exists,
		"signature", sig.String(),
	)

	return &TransferResult{TransactionSignature: sig.String()}, nil
}

// signingKey reconstructs the sender keypair from the encoded secret.
// A malformed secret surfaces as the wallet package's typed error.
func signingKey(fromPrivateKey string) (solana.PrivateKey, error) {
	w, err := wallet.FromPrivateKey(fromPrivateKey)
	if err != nil {
		return nil, err
	}
	return w.Keypair()
}

// mintDecimals fetches the mint's decimal precision via its token supply.
// The result is deliberately not cached; staleness would be invisible but
// the lookup is cheap and mints are re-resolved on every transfer.
func (c *Client) mintDecimals(ctx context.Context, mint solana.PublicKey, tokenAddress string) (uint8, error) {
	start := time.Now()
	out, err := c.rpc.GetTokenSupply(ctx, mint, c.commitment)
	c.recordRPC("GetTokenSupply", start, err)
	if err != nil {
		c.logger.ErrorContext(ctx, "failed to look up mint",
			"mint", tokenAddress,
			"error", err,
		)
		return 0, &MintLookupError{Mint: tokenAddress, Cause: err}
	}
	if out == nil || out.Value == nil {
		return 0, &MintLookupError{Mint: tokenAddress, Cause: fmt.Errorf("mint does not exist on-chain")}
	}
	return out.Value.Decimals, nil
}

// accountExists probes an account via GetAccountInfo. The RPC layer reports
// a missing account as rpc.ErrNotFound.
func (c *Client) accountExists(ctx context.Context, account solana.PublicKey) (bool, error) {
	start := time.Now()
	out, err := c.rpc.GetAccountInfo(ctx, account)
	c.recordRPC("GetAccountInfo", start, err)
	if err != nil {
		if errors.Is(err, rpc.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return out != nil && out.Value != nil, nil
}

// submitAndConfirm builds, signs, submits, and confirms a transaction made of
// the given instructions with the sender as fee payer and sole signer. Any
// failure is wrapped as TransferFailedError; a failed transfer never returns
// a signature.
func (c *Client) submitAndConfirm(ctx context.Context, instructions []solana.Instruction, sender solana.PrivateKey) (solana.Signature, error) {
	start := time.Now()
	recent, err := c.rpc.GetLatestBlockhash(ctx, c.commitment)
	c.recordRPC("GetLatestBlockhash", start, err)
	if err != nil {
		return solana.Signature{}, &TransferFailedError{Stage: "fetch blockhash", Cause: err}
	}
	if recent == nil || recent.Value == nil {
		return solana.Signature{}, &TransferFailedError{Stage: "fetch blockhash", Cause: fmt.Errorf("empty blockhash response")}
	}

	tx, err := solana.NewTransaction(
		instructions,
		recent.Value.Blockhash,
		solana.TransactionPayer(sender.PublicKey()),
	)
	if err != nil {
		return solana.Signature{}, &TransferFailedError{Stage: "build transaction", Cause: err}
	}

	_, err = tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		if key.Equals(sender.PublicKey()) {
			return &sender
		}
		return nil
	})
	if err != nil {
		return solana.Signature{}, &TransferFailedError{Stage: "sign transaction", Cause: err}
	}

	start = time.Now()
	sig, err := c.rpc.SendTransactionWithOpts(ctx, tx, rpc.TransactionOpts{
		PreflightCommitment: c.commitment,
	})
	c.recordRPC("SendTransaction", start, err)
	if err != nil {
		return solana.Signature{}, &TransferFailedError{Stage: "submit transaction", Cause: err}
	}

	if err := c.waitForConfirmation(ctx, sig); err != nil {
		return solana.Signature{}, &TransferFailedError{Stage: "confirm transaction", Cause: err}
	}

	return sig, nil
}

// waitForConfirmation polls the signature status until it reaches the
// client's commitment level, the transaction fails on-chain, or the caller's
// context expires. The library imposes no timeout of its own.
func (c *Client) waitForConfirmation(ctx context.Context, sig solana.Signature) error {
	for {
		start := time.Now()
		out, err := c.rpc.GetSignatureStatuses(ctx, true, sig)
		c.recordRPC("GetSignatureStatuses", start, err)
		if err != nil {
			return err
		}

		if out != nil && len(out.Value) > 0 && out.Value[0] != nil {
			status := out.Value[0]
			if status.Err != nil {
				return fmt.Errorf("transaction failed on-chain: %v", status.Err)
			}
			if commitmentReached(c.commitment, status.ConfirmationStatus) {
				return nil
			}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(confirmPollInterval):
		}
	}
}

// commitmentReached reports whether an observed confirmation status satisfies
// the requested commitment level.
func commitmentReached(want rpc.CommitmentType, got rpc.ConfirmationStatusType) bool {
	rank := map[rpc.ConfirmationStatusType]int{
		rpc.ConfirmationStatusProcessed: 1,
		rpc.ConfirmationStatusConfirmed: 2,
		rpc.ConfirmationStatusFinalized: 3,
	}
	need := map[rpc.CommitmentType]int{
		rpc.CommitmentProcessed: 1,
		rpc.CommitmentConfirmed: 2,
		rpc.CommitmentFinalized: 3,
	}
	n, ok := need[want]
	if !ok {
		// An unrecognized commitment must never report confirmation for an
		// unconfirmed status; hold it to the confirmed bar.
		n = 2
	}
	return rank[got] >= n
}

func transferStatus(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
