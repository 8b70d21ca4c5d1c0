package wallet

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/mr-tron/base58"
)

// secretKeyLen is the byte length of an ed25519 secret key
// (32-byte seed followed by the 32-byte public key).
const secretKeyLen = 64

// Wallet holds a keypair as base58-encoded strings. The public key is the
// on-chain address; the private key is the full signing secret. The caller
// owns the plaintext secret; this package never persists it.
type Wallet struct {
	PublicKey  string `json:"public_key"`
	PrivateKey string `json:"private_key"`
}

// New generates a fresh keypair from the system's cryptographically secure
// random source.
func New() (*Wallet, error) {
	key, err := solana.NewRandomPrivateKey()
	if err != nil {
		return nil, &CreationError{Cause: err}
	}
	return &Wallet{
		PublicKey:  key.PublicKey().String(),
		PrivateKey: key.String(),
	}, nil
}

// FromPrivateKey reconstructs a wallet from a base58-encoded secret key.
// The returned wallet echoes the input secret unchanged and carries the
// public key derived from it.
func FromPrivateKey(encoded string) (*Wallet, error) {
	if encoded == "" {
		return nil, &InvalidPrivateKeyError{Reason: "private key is empty"}
	}

	raw, err := base58.Decode(encoded)
	if err != nil {
		return nil, &InvalidPrivateKeyError{Reason: "private key is not valid base58", Cause: err}
	}
	if len(raw) != secretKeyLen {
		return nil, &InvalidPrivateKeyError{
			Reason: fmt.Sprintf("private key must be %d bytes, got %d", secretKeyLen, len(raw)),
		}
	}

	key, err := solana.PrivateKeyFromBase58(encoded)
	if err != nil {
		return nil, &InvalidPrivateKeyError{Reason: "private key could not be decoded", Cause: err}
	}

	return &Wallet{
		PublicKey:  key.PublicKey().String(),
		PrivateKey: encoded,
	}, nil
}

// Keypair returns the decoded solana private key for signing. The wallet is
// assumed to have been produced by New or FromPrivateKey, so decoding cannot
// fail unless the struct was built by hand with a bad secret.
func (w *Wallet) Keypair() (solana.PrivateKey, error) {
	key, err := solana.PrivateKeyFromBase58(w.PrivateKey)
	if err != nil {
		return nil, &InvalidPrivateKeyError{Reason: "private key could not be decoded", Cause: err}
	}
	return key, nil
}
