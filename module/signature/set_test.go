package signature_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerexec/ledgerexec/crypto"
	"github.com/ledgerexec/ledgerexec/module/signature"
	"github.com/ledgerexec/ledgerexec/utils/unittest"
)

func TestSet(t *testing.T) {
	message := []byte("body bytes")

	t.Run("empty set cannot sign", func(t *testing.T) {
		_, err := signature.NewSet().Sign(message)
		assert.ErrorIs(t, err, signature.ErrNoSigners)
	})

	t.Run("dedup by public key", func(t *testing.T) {
		sk := unittest.PrivateKeyFixture(t, crypto.ED25519)
		set := signature.NewSet()

		assert.True(t, set.Attach(sk))
		assert.False(t, set.Attach(sk))
		assert.Equal(t, 1, set.Len())
		assert.True(t, set.Contains(sk.PublicKey()))
	})

	t.Run("signs in attachment order", func(t *testing.T) {
		first := unittest.PrivateKeyFixture(t, crypto.ECDSA_SECp256k1)
		second := unittest.PrivateKeyFixture(t, crypto.ED25519)

		set := signature.NewSet()
		set.Attach(first)
		set.Attach(second)

		sigMap, err := set.Sign(message)
		require.NoError(t, err)
		require.Len(t, sigMap.SigPair, 2)

		assert.Equal(t, first.PublicKey().Bytes(), sigMap.SigPair[0].PubKeyPrefix)
		assert.True(t, first.PublicKey().Verify(message, sigMap.SigPair[0].ECDSASecp256k1))
		assert.Empty(t, sigMap.SigPair[0].Ed25519)

		assert.Equal(t, second.PublicKey().Bytes(), sigMap.SigPair[1].PubKeyPrefix)
		assert.True(t, second.PublicKey().Verify(message, sigMap.SigPair[1].Ed25519))
	})

	t.Run("clones are independent", func(t *testing.T) {
		first := unittest.PrivateKeyFixture(t, crypto.ED25519)
		second := unittest.PrivateKeyFixture(t, crypto.ED25519)

		set := signature.NewSet()
		set.Attach(first)
		clone := set.Clone()
		assert.True(t, clone.Contains(first.PublicKey()))

		assert.True(t, clone.Attach(second))
		assert.Equal(t, 1, set.Len())
		assert.False(t, set.Contains(second.PublicKey()))
		assert.True(t, set.Attach(second), "the original set has not seen the signer")
	})
}

func TestPresigned(t *testing.T) {
	sk := unittest.PrivateKeyFixture(t, crypto.ED25519)
	message := []byte("node 0.0.3 body")
	sig, err := sk.Sign(message)
	require.NoError(t, err)

	presigned := signature.NewPresigned(sk.PublicKey())
	require.NoError(t, presigned.Add(message, sig))

	replayed, err := presigned.Sign(message)
	require.NoError(t, err)
	assert.Equal(t, sig, replayed)

	_, err = presigned.Sign([]byte("node 0.0.4 body"))
	assert.ErrorIs(t, err, signature.ErrMissingSignature)

	err = presigned.Add([]byte("tampered"), sig)
	assert.ErrorIs(t, err, signature.ErrInvalidFormat)
}
