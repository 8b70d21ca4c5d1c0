package solana

import "fmt"

// NotInitializedError indicates an operation was invoked on a client that was
// never connected to an RPC endpoint.
type NotInitializedError struct {
	Op string
}

func (e *NotInitializedError) Error() string {
	return fmt.Sprintf("%s: client is not initialized, call Connect first", e.Op)
}

// InvalidAddressError indicates an empty or malformed on-chain address input.
type InvalidAddressError struct {
	Field string
	Value string
	Cause error
}

func (e *InvalidAddressError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("invalid address for %s: %q: %v", e.Field, e.Value, e.Cause)
	}
	return fmt.Sprintf("invalid address for %s: %q", e.Field, e.Value)
}

func (e *InvalidAddressError) Unwrap() error { return e.Cause }

// InvalidTransferRequestError indicates a transfer was requested with a
// missing field or a non-positive/non-finite amount.
type InvalidTransferRequestError struct {
	Field  string
	Reason string
	Cause  error
}

func (e *InvalidTransferRequestError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("invalid transfer request: %s: %s: %v", e.Field, e.Reason, e.Cause)
	}
	return fmt.Sprintf("invalid transfer request: %s: %s", e.Field, e.Reason)
}

func (e *InvalidTransferRequestError) Unwrap() error { return e.Cause }

// BalanceQueryError wraps a network or RPC failure during a native balance
// lookup.
type BalanceQueryError struct {
	Address string
	Cause   error
}

func (e *BalanceQueryError) Error() string {
	return fmt.Sprintf("failed to query balance for %s: %v", e.Address, e.Cause)
}

func (e *BalanceQueryError) Unwrap() error { return e.Cause }

// TokenBalanceQueryError wraps a network or RPC failure during a token
// balance lookup.
type TokenBalanceQueryError struct {
	Address string
	Mint    string
	Cause   error
}

func (e *TokenBalanceQueryError) Error() string {
	return fmt.Sprintf("failed to query token balance for %s (mint %s): %v", e.Address, e.Mint, e.Cause)
}

func (e *TokenBalanceQueryError) Unwrap() error { return e.Cause }

// MintLookupError indicates the token mint could not be resolved on-chain.
type MintLookupError struct {
	Mint  string
	Cause error
}

func (e *MintLookupError) Error() string {
	return fmt.Sprintf("failed to look up mint %s: %v", e.Mint, e.Cause)
}

func (e *MintLookupError) Unwrap() error { return e.Cause }

// TransferFailedError wraps a submission or confirmation failure. A failed
// transfer never carries a signature back to the caller.
type TransferFailedError struct {
	Stage string // e.g. "blockhash", "submit", "confirm"
	Cause error
}

func (e *TransferFailedError) Error() string {
	return fmt.Sprintf("transfer failed at %s: %v", e.Stage, e.Cause)
}

func (e *TransferFailedError) Unwrap() error { return e.Cause }
