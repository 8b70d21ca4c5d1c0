package solana

import (
	"fmt"
	"math"

	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
)

// solDecimals is the fixed decimal precision of native SOL
// (1 SOL = 1e9 lamports).
const solDecimals = 9

// validAmount reports whether a human-unit transfer amount is a finite
// number greater than zero.
func validAmount(amount float64) bool {
	return !math.IsNaN(amount) && !math.IsInf(amount, 0) && amount > 0
}

// SolToLamports converts a human-unit SOL amount to lamports. The conversion
// goes through a decimal representation so values like 2.5 scale exactly.
func SolToLamports(amount float64) (uint64, error) {
	return scaleToBaseUnits(amount, solDecimals)
}

// LamportsToSol converts lamports to a human-unit SOL amount.
func LamportsToSol(lamports uint64) float64 {
	return float64(lamports) / float64(solana.LAMPORTS_PER_SOL)
}

// TokenToBaseUnits converts a human-unit token amount to base units using the
// mint's declared decimal precision.
func TokenToBaseUnits(amount float64, decimals uint8) (uint64, error) {
	return scaleToBaseUnits(amount, int32(decimals))
}

func scaleToBaseUnits(amount float64, decimals int32) (uint64, error) {
	if !validAmount(amount) {
		return 0, fmt.Errorf("amount must be a finite number greater than zero, got %v", amount)
	}
	scaled := decimal.NewFromFloat(amount).Shift(decimals).Truncate(0)
	base := scaled.BigInt()
	if !base.IsUint64() {
		return 0, fmt.Errorf("amount %v exceeds the representable range at %d decimals", amount, decimals)
	}
	return base.Uint64(), nil
}
