package signature

import (
	"errors"
)

var (
	ErrInvalidFormat    = errors.New("invalid signature format")
	ErrDuplicatedSigner = errors.New("duplicated signer")
	ErrNoSigners        = errors.New("no signers attached")

	// ErrMissingSignature is returned by a presigned signer asked to sign bytes it holds
	// no stored signature for.
	ErrMissingSignature = errors.New("no stored signature for message")
)
