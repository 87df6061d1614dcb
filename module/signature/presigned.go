package signature

import (
	"encoding/hex"
	"fmt"

	"github.com/ledgerexec/ledgerexec/crypto"
)

// Presigned is a signer that replays signatures produced elsewhere, for instance by an
// offline signer whose transaction was later decoded from its portable form. It holds
// no private key: it can only "sign" messages it already has a signature for.
type Presigned struct {
	publicKey  crypto.PublicKey
	signatures map[string][]byte // hex SHA-384 of the message -> signature
}

var _ crypto.Signer = (*Presigned)(nil)

func NewPresigned(pk crypto.PublicKey) *Presigned {
	return &Presigned{
		publicKey:  pk,
		signatures: make(map[string][]byte),
	}
}

// Add stores the signature of message after checking it against the public key.
func (p *Presigned) Add(message []byte, sig []byte) error {
	if !p.publicKey.Verify(message, sig) {
		return fmt.Errorf("signature by %s does not match message: %w", p.publicKey, ErrInvalidFormat)
	}
	p.signatures[digest(message)] = sig
	return nil
}

func (p *Presigned) PublicKey() crypto.PublicKey {
	return p.publicKey
}

func (p *Presigned) Sign(message []byte) ([]byte, error) {
	sig, ok := p.signatures[digest(message)]
	if !ok {
		return nil, fmt.Errorf("key %s: %w", p.publicKey, ErrMissingSignature)
	}
	return sig, nil
}

func digest(message []byte) string {
	return hex.EncodeToString(crypto.SHA384(message))
}
