package signature

import (
	"fmt"
	"sync"

	"github.com/ledgerexec/ledgerexec/crypto"
	"github.com/ledgerexec/ledgerexec/model/wire"
)

// Set is an ordered collection of signers, deduplicated by public key.
//
// Signers are invoked in attachment order, so a given set over the same message always
// produces the same signature map. Safe for concurrent use.
type Set struct {
	mu      sync.RWMutex
	signers []crypto.Signer
	keys    map[string]struct{}
}

// NewSet returns an empty signer set.
func NewSet() *Set {
	return &Set{
		keys: make(map[string]struct{}),
	}
}

// Clone returns a set with the same signers. Signers attached afterwards to either set
// are not seen by the other.
func (s *Set) Clone() *Set {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make(map[string]struct{}, len(s.keys))
	for key := range s.keys {
		keys[key] = struct{}{}
	}
	return &Set{
		signers: append([]crypto.Signer(nil), s.signers...),
		keys:    keys,
	}
}

// Attach adds a signer. It returns false when a signer with the same public key is
// already attached, in which case the set is unchanged.
func (s *Set) Attach(signer crypto.Signer) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := string(signer.PublicKey().Bytes())
	if _, ok := s.keys[key]; ok {
		return false
	}
	s.keys[key] = struct{}{}
	s.signers = append(s.signers, signer)
	return true
}

// Contains reports whether a signer with the given public key is attached.
func (s *Set) Contains(pk crypto.PublicKey) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.keys[string(pk.Bytes())]
	return ok
}

func (s *Set) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.signers)
}

// PublicKeys returns the public keys of the attached signers in attachment order.
func (s *Set) PublicKeys() []crypto.PublicKey {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]crypto.PublicKey, 0, len(s.signers))
	for _, signer := range s.signers {
		keys = append(keys, signer.PublicKey())
	}
	return keys
}

// Signers returns a copy of the attached signers in attachment order.
func (s *Set) Signers() []crypto.Signer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]crypto.Signer(nil), s.signers...)
}

// Sign has every attached signer sign message and collects the results.
//
// No errors are expected during normal operations; an error from any signer aborts the
// whole operation.
func (s *Set) Sign(message []byte) (wire.SignatureMap, error) {
	signers := s.Signers()
	if len(signers) == 0 {
		return wire.SignatureMap{}, ErrNoSigners
	}

	sigMap := wire.SignatureMap{SigPair: make([]wire.SignaturePair, 0, len(signers))}
	for _, signer := range signers {
		sig, err := signer.Sign(message)
		if err != nil {
			return wire.SignatureMap{}, fmt.Errorf("signer %s failed: %w", signer.PublicKey(), err)
		}
		sigMap.SigPair = append(sigMap.SigPair, signer.PublicKey().SignaturePair(sig))
	}
	return sigMap, nil
}
