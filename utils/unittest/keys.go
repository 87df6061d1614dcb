package unittest

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ledgerexec/ledgerexec/crypto"
)

// PrivateKeyFixture returns a new random key of the given algorithm.
func PrivateKeyFixture(t testing.TB, algo crypto.SigningAlgorithm) *crypto.PrivateKey {
	sk, err := crypto.GeneratePrivateKey(algo)
	require.NoError(t, err)
	return sk
}
