package solana

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"

	"github.com/brojonat/solkit/metrics"
)

// RPCClient is an interface for the Solana RPC operations we need.
// This allows us to mock the RPC layer in tests without hitting real
// Solana nodes. Method signatures mirror the solana-go rpc.Client so the
// real adapter is a straight passthrough.
type RPCClient interface {
	GetBalance(
		ctx context.Context,
		account solana.PublicKey,
		commitment rpc.CommitmentType,
	) (*rpc.GetBalanceResult, error)

	GetTokenAccountsByOwner(
		ctx context.Context,
		owner solana.PublicKey,
		conf *rpc.GetTokenAccountsConfig,
		opts *rpc.GetTokenAccountsOpts,
	) (*rpc.GetTokenAccountsResult, error)

	GetTokenSupply(
		ctx context.Context,
		mint solana.PublicKey,
		commitment rpc.CommitmentType,
	) (*rpc.GetTokenSupplyResult, error)

	GetAccountInfo(
		ctx context.Context,
		account solana.PublicKey,
	) (*rpc.GetAccountInfoResult, error)

	GetLatestBlockhash(
		ctx context.Context,
		commitment rpc.CommitmentType,
	) (*rpc.GetLatestBlockhashResult, error)

	SendTransactionWithOpts(
		ctx context.Context,
		tx *solana.Transaction,
		opts rpc.TransactionOpts,
	) (solana.Signature, error)

	GetSignatureStatuses(
		ctx context.Context,
		searchTransactionHistory bool,
		signatures ...solana.Signature,
	) (*rpc.GetSignatureStatusesResult, error)
}

// Client is the connection handle for all balance and transfer operations.
// It holds the RPC endpoint and the commitment level applied to every query
// and confirmation. Construct it with Connect (or NewClient in tests); the
// zero value is unusable and every operation on it reports
// NotInitializedError.
//
// Re-creating a client while operations on the old one are in flight is the
// caller's concern; in-flight operations keep using the handle they started
// with.
type Client struct {
	rpc        RPCClient
	endpoint   string
	commitment rpc.CommitmentType
	metrics    *metrics.Metrics
	logger     *slog.Logger
}

// Connect creates a client for the given RPC endpoint. An empty rpcURL
// defaults to the public devnet endpoint and an empty commitment defaults to
// "confirmed". No network traffic happens here; the endpoint is first
// contacted by the operation that needs it.
// If m is nil, no metrics are recorded.
func Connect(rpcURL string, commitment rpc.CommitmentType, m *metrics.Metrics, logger *slog.Logger) *Client {
	if rpcURL == "" {
		rpcURL = rpc.DevNet_RPC
	}
	return NewClient(NewRPCClient(rpcURL), rpcURL, commitment, m, logger)
}

// NewClient creates a client around an existing RPCClient. The endpoint
// parameter is used for metrics labeling (e.g., "mainnet", "devnet", or the
// RPC hostname). Anything other than a recognized commitment level falls
// back to "confirmed" so a typo can never weaken the confirmation wait.
func NewClient(rpcClient RPCClient, endpoint string, commitment rpc.CommitmentType, m *metrics.Metrics, logger *slog.Logger) *Client {
	switch commitment {
	case rpc.CommitmentProcessed, rpc.CommitmentConfirmed, rpc.CommitmentFinalized:
	default:
		commitment = rpc.CommitmentConfirmed
	}
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return &Client{
		rpc:        rpcClient,
		endpoint:   endpoint,
		commitment: commitment,
		metrics:    m,
		logger:     logger,
	}
}

// Endpoint returns the RPC endpoint this client talks to.
func (c *Client) Endpoint() string { return c.endpoint }

// Commitment returns the commitment level applied to queries and
// confirmations.
func (c *Client) Commitment() rpc.CommitmentType { return c.commitment }

// requireInitialized guards every network-touching operation. It fails on a
// nil or zero-value client before any validation or RPC work happens.
func (c *Client) requireInitialized(op string) error {
	if c == nil || c.rpc == nil {
		return &NotInitializedError{Op: op}
	}
	return nil
}

// parseAddress validates and decodes a base58 on-chain address.
func parseAddress(field, address string) (solana.PublicKey, error) {
	if address == "" {
		return solana.PublicKey{}, &InvalidAddressError{Field: field, Value: address}
	}
	key, err := solana.PublicKeyFromBase58(address)
	if err != nil {
		return solana.PublicKey{}, &InvalidAddressError{Field: field, Value: address, Cause: err}
	}
	return key, nil
}

// recordRPC records a single RPC call outcome if metrics are configured.
func (c *Client) recordRPC(method string, start time.Time, err error) {
	if c.metrics == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	c.metrics.RecordRPCCall(method, status, c.endpoint, time.Since(start).Seconds())
}

// GetSolBalance queries the native SOL balance of an address. The returned
// balance is in SOL (lamports divided by 1e9).
func (c *Client) GetSolBalance(ctx context.Context, publicKey string) (*Balance, error) {
	if err := c.requireInitialized("GetSolBalance"); err != nil {
		return nil, err
	}

	account, err := parseAddress("publicKey", publicKey)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	out, err := c.rpc.GetBalance(ctx, account, c.commitment)
	c.recordRPC("GetBalance", start, err)
	if err != nil {
		c.logger.ErrorContext(ctx, "failed to get balance",
			"public_key", publicKey,
			"error", err,
		)
		return nil, &BalanceQueryError{Address: publicKey, Cause: err}
	}

	c.logger.DebugContext(ctx, "fetched native balance",
		"public_key", publicKey,
		"lamports", out.Value,
	)

	return &Balance{
		PublicKey: publicKey,
		Balance:   LamportsToSol(out.Value),
	}, nil
}

// GetSplBalance queries the SPL token balance of an address for a given
// mint. An owner with no token account for the mint reads as zero; when
// multiple accounts exist, the first one's network-scaled amount is used.
func (c *Client) GetSplBalance(ctx context.Context, publicKey, tokenAddress string) (*TokenBalance, error) {
	if err := c.requireInitialized("GetSplBalance"); err != nil {
		return nil, err
	}

	owner, err := parseAddress("publicKey", publicKey)
	if err != nil {
		return nil, err
	}
	mint, err := parseAddress("tokenAddress", tokenAddress)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	out, err := c.rpc.GetTokenAccountsByOwner(
		ctx,
		owner,
		&rpc.GetTokenAccountsConfig{Mint: &mint},
		&rpc.GetTokenAccountsOpts{
			Commitment: c.commitment,
			Encoding:   solana.EncodingJSONParsed,
		},
	)
	c.recordRPC("GetTokenAccountsByOwner", start, err)
	if err != nil {
		c.logger.ErrorContext(ctx, "failed to get token accounts",
			"public_key", publicKey,
			"mint", tokenAddress,
			"error", err,
		)
		return nil, &TokenBalanceQueryError{Address: publicKey, Mint: tokenAddress, Cause: err}
	}

	balance := &TokenBalance{
		PublicKey:    publicKey,
		TokenAddress: tokenAddress,
	}

	// No token account for this owner/mint pair means a zero balance,
	// not an error.
	if out == nil || len(out.Value) == 0 {
		c.logger.DebugContext(ctx, "no token account for owner/mint pair",
			"public_key", publicKey,
			"mint", tokenAddress,
		)
		return balance, nil
	}

	amount, err := parsedTokenAmount(out.Value[0])
	if err != nil {
		return nil, &TokenBalanceQueryError{Address: publicKey, Mint: tokenAddress, Cause: err}
	}
	balance.Balance = amount

	c.logger.DebugContext(ctx, "fetched token balance",
		"public_key", publicKey,
		"mint", tokenAddress,
		"balance", amount,
	)

	return balance, nil
}

// parsedTokenAmount extracts the human-scaled token amount from a
// jsonParsed token account. The node applies the mint's decimal scaling.
func parsedTokenAmount(account *rpc.TokenAccount) (float64, error) {
	if account == nil || account.Account.Data == nil {
		return 0, fmt.Errorf("token account has no data")
	}

	var parsed struct {
		Parsed struct {
			Info struct {
				TokenAmount struct {
					UiAmount       *float64 `json:"uiAmount"`
					UiAmountString string   `json:"uiAmountString"`
				} `json:"tokenAmount"`
			} `json:"info"`
		} `json:"parsed"`
	}
	if err := json.Unmarshal(account.Account.Data.GetRawJSON(), &parsed); err != nil {
		return 0, fmt.Errorf("failed to decode parsed token account: %w", err)
	}

	amount := parsed.Parsed.Info.TokenAmount
	if amount.UiAmountString != "" {
		v, err := strconv.ParseFloat(amount.UiAmountString, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid uiAmountString %q: %w", amount.UiAmountString, err)
		}
		return v, nil
	}
	if amount.UiAmount != nil {
		return *amount.UiAmount, nil
	}
	return 0, nil
}
