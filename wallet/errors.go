package wallet

import "fmt"

// InvalidPrivateKeyError indicates an empty or malformed secret key input.
type InvalidPrivateKeyError struct {
	Reason string
	Cause  error
}

func (e *InvalidPrivateKeyError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("invalid private key: %s: %v", e.Reason, e.Cause)
	}
	return fmt.Sprintf("invalid private key: %s", e.Reason)
}

func (e *InvalidPrivateKeyError) Unwrap() error { return e.Cause }

// CreationError indicates the underlying random key generation failed.
type CreationError struct {
	Cause error
}

func (e *CreationError) Error() string {
	return fmt.Sprintf("failed to generate keypair: %v", e.Cause)
}

func (e *CreationError) Unwrap() error { return e.Cause }
