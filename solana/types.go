package solana

// Balance is the result of a native SOL balance query. Balance is in SOL,
// not lamports.
type Balance struct {
	PublicKey string  `json:"public_key"`
	Balance   float64 `json:"balance"`
}

// TokenBalance is the result of an SPL token balance query. Balance is in
// token units already scaled by the mint's decimals, as reported by the
// network. A missing token account reads as zero.
type TokenBalance struct {
	PublicKey    string  `json:"public_key"`
	TokenAddress string  `json:"token_address"`
	Balance      float64 `json:"balance"`
}

// TransferResult confirms on-chain inclusion of a submitted transfer.
type TransferResult struct {
	TransactionSignature string `json:"transaction_signature"`
}
