package crypto

import (
	"bytes"
	"crypto/sha512"
	"encoding/hex"
	"encoding/pem"
	"fmt"
	"strings"

	"github.com/ledgerexec/ledgerexec/model/wire"
)

var (
	ed25519PrivatePrefix   = mustDecodeHex("302e020100300506032b657004220420")
	ed25519PublicPrefix    = mustDecodeHex("302a300506032b6570032100")
	secp256k1PrivatePrefix = mustDecodeHex("3030020100300706052b8104000a04220420")
	secp256k1PublicPrefix  = mustDecodeHex("302d300706052b8104000a032200")
)

// DecodePrivateKeyDER decodes a DER PKCS#8 private key, detecting its algorithm from
// the prefix.
func DecodePrivateKeyDER(der []byte) (*PrivateKey, error) {
	switch {
	case bytes.HasPrefix(der, ed25519PrivatePrefix):
		return NewPrivateKey(ED25519, der[len(ed25519PrivatePrefix):])
	case bytes.HasPrefix(der, secp256k1PrivatePrefix):
		return NewPrivateKey(ECDSA_SECp256k1, der[len(secp256k1PrivatePrefix):])
	default:
		return nil, newCryptoError("unrecognized private key encoding")
	}
}

// DecodePrivateKeyHex decodes a hex private key. The DER form is accepted for both
// algorithms; a bare 32-byte key is taken as Ed25519.
func DecodePrivateKeyHex(s string) (*PrivateKey, error) {
	raw, err := hex.DecodeString(strings.TrimPrefix(strings.TrimSpace(s), "0x"))
	if err != nil {
		return nil, fmt.Errorf("could not decode private key hex: %w", err)
	}
	if len(raw) == PrKeyLenED25519 {
		return NewPrivateKey(ED25519, raw)
	}
	// some tools export ed25519 keys as seed||public
	if len(raw) == PrKeyLenED25519+PubKeyLenED25519 {
		return NewPrivateKey(ED25519, raw[:PrKeyLenED25519])
	}
	return DecodePrivateKeyDER(raw)
}

// DecodePrivateKeyPEM decodes the first unencrypted PRIVATE KEY block of a PEM document.
func DecodePrivateKeyPEM(data []byte) (*PrivateKey, error) {
	for {
		var block *pem.Block
		block, data = pem.Decode(data)
		if block == nil {
			return nil, newCryptoError("no PRIVATE KEY block found in PEM data")
		}
		switch block.Type {
		case "PRIVATE KEY":
			return DecodePrivateKeyDER(block.Bytes)
		case "ENCRYPTED PRIVATE KEY":
			return nil, newCryptoError("encrypted PEM private keys are not supported")
		}
	}
}

// DecodePublicKeyHex decodes a hex public key, either DER or raw. A raw 32-byte key is
// taken as Ed25519, a raw 33-byte key as a compressed secp256k1 point.
func DecodePublicKeyHex(s string) (PublicKey, error) {
	raw, err := hex.DecodeString(strings.TrimPrefix(strings.TrimSpace(s), "0x"))
	if err != nil {
		return PublicKey{}, fmt.Errorf("could not decode public key hex: %w", err)
	}
	return DecodePublicKey(raw)
}

// DecodePublicKey decodes a public key, either DER or raw.
func DecodePublicKey(raw []byte) (PublicKey, error) {
	switch {
	case bytes.HasPrefix(raw, ed25519PublicPrefix):
		raw = raw[len(ed25519PublicPrefix):]
		if len(raw) != PubKeyLenED25519 {
			return PublicKey{}, newCryptoError("invalid ed25519 public key length")
		}
		return PublicKey{algo: ED25519, raw: raw}, nil
	case bytes.HasPrefix(raw, secp256k1PublicPrefix):
		raw = raw[len(secp256k1PublicPrefix):]
		if len(raw) != PubKeyLenECDSA_SECp256k1 {
			return PublicKey{}, newCryptoError("invalid secp256k1 public key length")
		}
		return PublicKey{algo: ECDSA_SECp256k1, raw: raw}, nil
	case len(raw) == PubKeyLenED25519:
		return PublicKey{algo: ED25519, raw: raw}, nil
	case len(raw) == PubKeyLenECDSA_SECp256k1:
		return PublicKey{algo: ECDSA_SECp256k1, raw: raw}, nil
	default:
		return PublicKey{}, newCryptoError(fmt.Sprintf("unrecognized public key encoding of %d bytes", len(raw)))
	}
}

// PublicKeyFromWire converts a wire key. The second return is false for an empty key.
func PublicKeyFromWire(key wire.Key) (PublicKey, bool) {
	switch {
	case len(key.Ed25519) > 0:
		return PublicKey{algo: ED25519, raw: key.Ed25519}, true
	case len(key.ECDSASecp256k1) > 0:
		return PublicKey{algo: ECDSA_SECp256k1, raw: key.ECDSASecp256k1}, true
	default:
		return PublicKey{}, false
	}
}

// SHA384 returns the SHA2-384 digest of data. Transaction hashes are computed with it.
func SHA384(data []byte) []byte {
	digest := sha512.Sum384(data)
	return digest[:]
}

func mustDecodeHex(s string) []byte {
	b, err := hex.DecodeString(s)
	if err != nil {
		panic(err)
	}
	return b
}
