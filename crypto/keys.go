package crypto

import (
	"bytes"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"golang.org/x/crypto/sha3"

	"github.com/ledgerexec/ledgerexec/model/wire"
)

// PublicKey is the public half of a signing key.
type PublicKey struct {
	algo SigningAlgorithm
	raw  []byte
}

// Algorithm returns the signing algorithm of the key.
func (pk PublicKey) Algorithm() SigningAlgorithm {
	return pk.algo
}

// Bytes returns the raw key bytes: 32 bytes for Ed25519, the 33-byte compressed point
// for secp256k1.
func (pk PublicKey) Bytes() []byte {
	return pk.raw
}

// BytesDER returns the key wrapped in its DER SubjectPublicKeyInfo prefix.
func (pk PublicKey) BytesDER() []byte {
	switch pk.algo {
	case ED25519:
		return append(append([]byte{}, ed25519PublicPrefix...), pk.raw...)
	case ECDSA_SECp256k1:
		return append(append([]byte{}, secp256k1PublicPrefix...), pk.raw...)
	default:
		return nil
	}
}

func (pk PublicKey) Equal(other PublicKey) bool {
	return pk.algo == other.algo && bytes.Equal(pk.raw, other.raw)
}

func (pk PublicKey) IsZero() bool {
	return pk.algo == UnknownSigningAlgorithm
}

// String returns the hex encoding of the DER form.
func (pk PublicKey) String() string {
	return hex.EncodeToString(pk.BytesDER())
}

// ToWire returns the wire form of the key.
func (pk PublicKey) ToWire() wire.Key {
	switch pk.algo {
	case ED25519:
		return wire.Key{Ed25519: pk.raw}
	case ECDSA_SECp256k1:
		return wire.Key{ECDSASecp256k1: pk.raw}
	default:
		return wire.Key{}
	}
}

// SignaturePair wraps a signature produced by this key for a signature map.
func (pk PublicKey) SignaturePair(sig []byte) wire.SignaturePair {
	pair := wire.SignaturePair{PubKeyPrefix: pk.raw}
	switch pk.algo {
	case ED25519:
		pair.Ed25519 = sig
	case ECDSA_SECp256k1:
		pair.ECDSASecp256k1 = sig
	}
	return pair
}

// Verify reports whether sig is a valid signature of message by this key.
func (pk PublicKey) Verify(message []byte, sig []byte) bool {
	switch pk.algo {
	case ED25519:
		if len(pk.raw) != PubKeyLenED25519 {
			return false
		}
		return ed25519.Verify(ed25519.PublicKey(pk.raw), message, sig)
	case ECDSA_SECp256k1:
		if len(sig) != SignatureLenECDSA_SECp256k1 {
			return false
		}
		pub, err := btcec.ParsePubKey(pk.raw)
		if err != nil {
			return false
		}
		var r, s btcec.ModNScalar
		if r.SetByteSlice(sig[:32]) || s.SetByteSlice(sig[32:]) {
			return false
		}
		return ecdsa.NewSignature(&r, &s).Verify(keccak256(message), pub)
	default:
		return false
	}
}

// PrivateKey is an in-memory signing key. It implements Signer.
type PrivateKey struct {
	algo SigningAlgorithm
	ed   ed25519.PrivateKey
	ec   *btcec.PrivateKey
}

var _ Signer = (*PrivateKey)(nil)

// GeneratePrivateKey returns a new random key for the given algorithm.
func GeneratePrivateKey(algo SigningAlgorithm) (*PrivateKey, error) {
	switch algo {
	case ED25519:
		_, key, err := ed25519.GenerateKey(rand.Reader)
		if err != nil {
			return nil, fmt.Errorf("could not generate ed25519 key: %w", err)
		}
		return &PrivateKey{algo: ED25519, ed: key}, nil
	case ECDSA_SECp256k1:
		key, err := btcec.NewPrivateKey()
		if err != nil {
			return nil, fmt.Errorf("could not generate secp256k1 key: %w", err)
		}
		return &PrivateKey{algo: ECDSA_SECp256k1, ec: key}, nil
	default:
		return nil, newCryptoError(fmt.Sprintf("unsupported signing algorithm %s", algo))
	}
}

// NewPrivateKey decodes a raw 32-byte key of the given algorithm.
func NewPrivateKey(algo SigningAlgorithm, raw []byte) (*PrivateKey, error) {
	switch algo {
	case ED25519:
		if len(raw) != PrKeyLenED25519 {
			return nil, newCryptoError(fmt.Sprintf("ed25519 private key must be %d bytes, got %d", PrKeyLenED25519, len(raw)))
		}
		return &PrivateKey{algo: ED25519, ed: ed25519.NewKeyFromSeed(raw)}, nil
	case ECDSA_SECp256k1:
		if len(raw) != PrKeyLenECDSA_SECp256k1 {
			return nil, newCryptoError(fmt.Sprintf("secp256k1 private key must be %d bytes, got %d", PrKeyLenECDSA_SECp256k1, len(raw)))
		}
		key, _ := btcec.PrivKeyFromBytes(raw)
		return &PrivateKey{algo: ECDSA_SECp256k1, ec: key}, nil
	default:
		return nil, newCryptoError(fmt.Sprintf("unsupported signing algorithm %s", algo))
	}
}

func (sk *PrivateKey) Algorithm() SigningAlgorithm {
	return sk.algo
}

// Bytes returns the raw 32-byte key.
func (sk *PrivateKey) Bytes() []byte {
	switch sk.algo {
	case ED25519:
		return sk.ed.Seed()
	case ECDSA_SECp256k1:
		return sk.ec.Serialize()
	default:
		return nil
	}
}

// BytesDER returns the key wrapped in its DER PKCS#8 prefix.
func (sk *PrivateKey) BytesDER() []byte {
	switch sk.algo {
	case ED25519:
		return append(append([]byte{}, ed25519PrivatePrefix...), sk.Bytes()...)
	case ECDSA_SECp256k1:
		return append(append([]byte{}, secp256k1PrivatePrefix...), sk.Bytes()...)
	default:
		return nil
	}
}

// String returns the hex encoding of the DER form.
func (sk *PrivateKey) String() string {
	return hex.EncodeToString(sk.BytesDER())
}

func (sk *PrivateKey) PublicKey() PublicKey {
	switch sk.algo {
	case ED25519:
		return PublicKey{algo: ED25519, raw: []byte(sk.ed.Public().(ed25519.PublicKey))}
	case ECDSA_SECp256k1:
		return PublicKey{algo: ECDSA_SECp256k1, raw: sk.ec.PubKey().SerializeCompressed()}
	default:
		return PublicKey{}
	}
}

// Sign signs message. Ed25519 signs the message itself, secp256k1 signs its keccak-256
// digest and returns the 64-byte r||s form.
func (sk *PrivateKey) Sign(message []byte) ([]byte, error) {
	switch sk.algo {
	case ED25519:
		return ed25519.Sign(sk.ed, message), nil
	case ECDSA_SECp256k1:
		compact, err := ecdsa.SignCompact(sk.ec, keccak256(message), true)
		if err != nil {
			return nil, fmt.Errorf("could not sign with secp256k1 key: %w", err)
		}
		// drop the recovery byte
		return compact[1:], nil
	default:
		return nil, newCryptoError(fmt.Sprintf("unsupported signing algorithm %s", sk.algo))
	}
}

func keccak256(data []byte) []byte {
	hasher := sha3.NewLegacyKeccak256()
	hasher.Write(data)
	return hasher.Sum(nil)
}

func (pk PublicKey) MarshalText() ([]byte, error) {
	return []byte(pk.String()), nil
}

func (pk *PublicKey) UnmarshalText(text []byte) error {
	decoded, err := DecodePublicKeyHex(string(text))
	if err != nil {
		return err
	}
	*pk = decoded
	return nil
}
