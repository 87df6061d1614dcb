package ledger_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerexec/ledgerexec/model/ledger"
)

func TestAccountIDFromString(t *testing.T) {
	t.Run("numeric", func(t *testing.T) {
		id, err := ledger.AccountIDFromString("0.0.1001")
		require.NoError(t, err)
		assert.Equal(t, ledger.NewAccountID(0, 0, 1001), id)
		assert.Equal(t, "0.0.1001", id.String())
	})

	t.Run("alias", func(t *testing.T) {
		id, err := ledger.AccountIDFromString("0.0.302a300506032b6570032100")
		require.NoError(t, err)
		assert.NotEmpty(t, id.Alias)
		assert.Equal(t, "0.0.302a300506032b6570032100", id.String())
	})

	t.Run("malformed", func(t *testing.T) {
		for _, s := range []string{"", "1001", "0.0", "0.0.x", "a.0.1", "0.0.1.2"} {
			_, err := ledger.AccountIDFromString(s)
			assert.Error(t, err, s)
		}
	})
}

func TestAccountIDCompare(t *testing.T) {
	a := ledger.NewAccountID(0, 0, 3)
	b := ledger.NewAccountID(0, 0, 4)
	c := ledger.NewAccountID(0, 1, 0)

	assert.Equal(t, -1, a.Compare(b))
	assert.Equal(t, 1, b.Compare(a))
	assert.Equal(t, -1, b.Compare(c))
	assert.Equal(t, 0, a.Compare(ledger.NewAccountID(0, 0, 3)))
}

func TestEntityIDClone(t *testing.T) {
	account := ledger.AccountID{Alias: []byte{1, 2, 3}}
	accountCopy := account.Clone()
	accountCopy.Alias[0] = 9
	assert.Equal(t, []byte{1, 2, 3}, account.Alias)
	assert.Nil(t, ledger.NewAccountID(0, 0, 3).Clone().Alias)

	contract := ledger.ContractID{EvmAddress: []byte{4, 5}}
	contractCopy := contract.Clone()
	contractCopy.EvmAddress[0] = 9
	assert.Equal(t, []byte{4, 5}, contract.EvmAddress)
}

func TestEntityIDText(t *testing.T) {
	var contract ledger.ContractID
	require.NoError(t, contract.UnmarshalText([]byte("0.0.1234567890abcdef1234567890abcdef12345678")))
	assert.Len(t, contract.EvmAddress, 20)

	var file ledger.FileID
	require.NoError(t, file.UnmarshalText([]byte("0.0.150")))
	assert.Equal(t, ledger.NewFileID(0, 0, 150), file)

	var token ledger.TokenID
	require.Error(t, token.UnmarshalText([]byte("0.0")))
}

func TestTransactionID(t *testing.T) {
	payer := ledger.NewAccountID(0, 0, 2)

	t.Run("string round trip", func(t *testing.T) {
		id := ledger.TransactionID{
			AccountID:  payer,
			ValidStart: time.Unix(1690000000, 1).UTC(),
			Scheduled:  true,
			Nonce:      4,
		}
		assert.Equal(t, "0.0.2@1690000000.000000001?scheduled/4", id.String())

		parsed, err := ledger.TransactionIDFromString(id.String())
		require.NoError(t, err)
		assert.True(t, id.Equal(parsed))
	})

	t.Run("generated ids are backdated", func(t *testing.T) {
		before := time.Now()
		id := ledger.GenerateTransactionID(payer)
		after := time.Now()

		assert.True(t, id.AccountID.Equal(payer))
		assert.False(t, id.ValidStart.After(after.Add(-5*time.Second)))
		assert.False(t, id.ValidStart.Before(before.Add(-8*time.Second)))
	})

	t.Run("malformed", func(t *testing.T) {
		for _, s := range []string{"0.0.2", "0.0.2@1690000000", "x@1.2", "0.0.2@1.2/abc"} {
			_, err := ledger.TransactionIDFromString(s)
			assert.Error(t, err, s)
		}
	})
}

func TestHbar(t *testing.T) {
	assert.Equal(t, ledger.Hbar(150_000_000), ledger.NewHbar(1.5))
	assert.Equal(t, "1.5 ℏ", ledger.NewHbar(1.5).String())
	assert.Equal(t, "42 tℏ", ledger.HbarFromTinybar(42).String())

	parsed, err := ledger.HbarFromString("2 ℏ")
	require.NoError(t, err)
	assert.Equal(t, ledger.NewHbar(2), parsed)

	parsed, err = ledger.HbarFromString("17 tℏ")
	require.NoError(t, err)
	assert.Equal(t, ledger.HbarFromTinybar(17), parsed)
}

func TestStatus(t *testing.T) {
	assert.Equal(t, "INSUFFICIENT_PAYER_BALANCE", ledger.StatusInsufficientPayerBalance.String())
	assert.Equal(t, "UNRECOGNIZED(9999)", ledger.Status(9999).String())

	status, ok := ledger.StatusFromString("BUSY")
	require.True(t, ok)
	assert.Equal(t, ledger.StatusBusy, status)

	assert.True(t, ledger.StatusUnknown.IsPending())
	assert.True(t, ledger.StatusReceiptNotFound.IsPending())
	assert.False(t, ledger.StatusSuccess.IsPending())
	assert.True(t, ledger.StatusSuccess.IsReceiptSuccess())
	assert.False(t, ledger.StatusInvalidSignature.IsReceiptSuccess())
}
