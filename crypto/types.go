// Package crypto provides the keys used to sign transactions and query payments.
package crypto

//revive:disable:var-naming

// SigningAlgorithm is an identifier for a signing algorithm and curve.
type SigningAlgorithm int

const (
	// Supported signing algorithms
	UnknownSigningAlgorithm SigningAlgorithm = iota
	ED25519
	ECDSA_SECp256k1
)

// String returns the string representation of this signing algorithm.
func (f SigningAlgorithm) String() string {
	switch f {
	case ED25519:
		return "ED25519"
	case ECDSA_SECp256k1:
		return "ECDSA_SECp256k1"
	default:
		return "UNKNOWN"
	}
}

const (
	PrKeyLenED25519     = 32
	PubKeyLenED25519    = 32
	SignatureLenED25519 = 64

	PrKeyLenECDSA_SECp256k1 = 32
	// compressed form
	PubKeyLenECDSA_SECp256k1    = 33
	SignatureLenECDSA_SECp256k1 = 64

	HashLenSHA2_384 = 48
)

// Signer produces signatures over transaction body bytes.
//
// Implementations may be backed by an in-memory key, a hardware module or a remote
// service. Sign may block.
type Signer interface {
	PublicKey() PublicKey
	Sign(message []byte) ([]byte, error)
}

type cryptoError struct {
	msg string
}

func (e cryptoError) Error() string {
	return e.msg
}

func newCryptoError(msg string) error {
	return cryptoError{msg: msg}
}
