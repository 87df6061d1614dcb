package sdk

import (
	"encoding/json"
	stdErrors "errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
	"pgregory.net/rapid"

	"github.com/ledgerexec/ledgerexec/crypto"
	clienterrors "github.com/ledgerexec/ledgerexec/engine/client/errors"
	"github.com/ledgerexec/ledgerexec/model/ledger"
	"github.com/ledgerexec/ledgerexec/model/wire"
	"github.com/ledgerexec/ledgerexec/utils/unittest"
)

var testNodes = []ledger.AccountID{ledger.NewAccountID(0, 0, 3), ledger.NewAccountID(0, 0, 4)}

// signedTransfer is a frozen transfer signed by an ed25519 and an ECDSA key.
func signedTransfer(t *testing.T) *TransferTransaction {
	payer := unittest.AccountIDFixture()
	tx := transferFixture(t, payer, unittest.AccountIDFixture(), ledger.NewHbar(3))
	require.NoError(t, tx.AddTokenTransfer(ledger.NewTokenID(0, 0, 77), payer, -10))
	require.NoError(t, tx.AddTokenTransfer(ledger.NewTokenID(0, 0, 77), unittest.AccountIDFixture(), 10))
	require.NoError(t, tx.SetTransactionID(ledger.GenerateTransactionID(payer)))
	require.NoError(t, tx.SetNodeAccountIDs(testNodes...))
	require.NoError(t, tx.SetTransactionMemo("portable"))
	require.NoError(t, tx.Freeze())
	tx.Sign(unittest.PrivateKeyFixture(t, crypto.ED25519))
	tx.Sign(unittest.PrivateKeyFixture(t, crypto.ECDSA_SECp256k1))
	return tx
}

func TestAnyTransactionRoundTrip(t *testing.T) {
	tx := signedTransfer(t)

	encoded, err := json.Marshal(tx)
	require.NoError(t, err)

	decoded, err := DecodeAnyTransaction(encoded)
	require.NoError(t, err)
	assert.True(t, decoded.IsFrozen())
	assert.Equal(t, "portable", decoded.TransactionMemo())
	assert.Equal(t, testNodes, decoded.NodeAccountIDs())
	assert.Equal(t, tx.PublicKeys(), decoded.PublicKeys())

	inner, ok := decoded.Data().Inner().(TransferTransactionData)
	require.True(t, ok)
	assert.Equal(t, tx.Data(), inner)

	for _, node := range testNodes {
		want, err := tx.MakeRequest(ledger.NodeIdentity{AccountID: node}, 1)
		require.NoError(t, err)
		got, err := decoded.MakeRequest(ledger.NodeIdentity{AccountID: node}, 1)
		require.NoError(t, err)
		assert.Equal(t, want.SignedTransactionBytes, got.SignedTransactionBytes,
			"the decoded transaction sends the same bytes without the private keys")
	}

	again, err := json.Marshal(decoded)
	require.NoError(t, err)
	assert.JSONEq(t, string(encoded), string(again))
}

func TestAnyTransactionUnsigned(t *testing.T) {
	tx := NewAccountDeleteTransaction()
	require.NoError(t, tx.SetAccountID(unittest.AccountIDFixture()))
	require.NoError(t, tx.SetTransferAccountID(unittest.AccountIDFixture()))

	encoded, err := json.Marshal(tx.ToAny())
	require.NoError(t, err)

	decoded, err := DecodeAnyTransaction(encoded)
	require.NoError(t, err)
	assert.False(t, decoded.IsFrozen())
	_, ok := decoded.TransactionID()
	assert.False(t, ok)
	assert.Equal(t, tx.Data(), decoded.Data().Inner())

	// still editable once decoded
	require.NoError(t, decoded.SetTransactionMemo("later"))
}

func TestAnyTransactionRejectsTampering(t *testing.T) {
	encoded, err := json.Marshal(signedTransfer(t))
	require.NoError(t, err)

	tampered := strings.Replace(string(encoded), `"portable"`, `"tampered"`, 1)
	require.NotEqual(t, string(encoded), tampered)

	_, err = DecodeAnyTransaction([]byte(tampered))
	assert.True(t, clienterrors.IsBuildError(err))
}

func TestAnyTransactionUnknownVariant(t *testing.T) {
	_, err := DecodeAnyTransaction([]byte(`{"version":1,"type":"scheduleSign","data":{}}`))

	var unknown *clienterrors.UnknownVariantError
	require.True(t, stdErrors.As(err, &unknown))
	assert.True(t, clienterrors.IsUnknownVariantError(err))
}

func TestAnyTransactionUnsupportedVersion(t *testing.T) {
	_, err := DecodeAnyTransaction([]byte(`{"version":2,"type":"transfer","data":{}}`))

	var unsupported *clienterrors.UnsupportedVersionError
	require.True(t, stdErrors.As(err, &unsupported))
	assert.Equal(t, "2.0.0", unsupported.Version)

	_, err = DecodeAnyTransaction([]byte(`{"version":"2.1.0","type":"transfer","data":{}}`))
	require.True(t, stdErrors.As(err, &unsupported))
	assert.Equal(t, "2.1.0", unsupported.Version)

	for _, readable := range []string{
		`{"type":"transfer","data":{}}`,
		`{"version":1,"type":"transfer","data":{}}`,
		`{"version":"1.0.0","type":"transfer","data":{}}`,
		`{"version":"1.9.0","type":"transfer","data":{}}`,
	} {
		_, err = DecodeAnyTransaction([]byte(readable))
		assert.NoError(t, err, readable)
	}

	_, err = DecodeAnyTransaction([]byte(`{"version":"one","type":"transfer","data":{}}`))
	assert.True(t, clienterrors.IsBuildError(err))
}

func TestAnyTransactionWritesVersion(t *testing.T) {
	encoded, err := json.Marshal(signedTransfer(t))
	require.NoError(t, err)

	var out struct {
		Version string `json:"version"`
	}
	require.NoError(t, json.Unmarshal(encoded, &out))
	assert.Equal(t, PortableVersion.String(), out.Version)
	assert.Equal(t, "1.1.0", out.Version)
}

func TestAnyTransactionZeroValue(t *testing.T) {
	var tx AnyTransaction

	assert.NotPanics(t, func() {
		assert.Empty(t, tx.Method())
		assert.Equal(t, ledger.Hbar(0), tx.MaxTransactionFee())
	})

	_, err := json.Marshal(&tx)
	assert.True(t, clienterrors.IsBuildError(err))
	_, err = tx.MarshalJSON()
	assert.True(t, clienterrors.IsBuildError(err))
	assert.True(t, clienterrors.IsBuildError(tx.Freeze()))

	var query AnyQuery
	assert.NotPanics(t, func() { assert.Empty(t, query.Data().tag()) })
	_, err = query.MarshalJSON()
	assert.True(t, clienterrors.IsBuildError(err))
}

func TestToAnyKeepsSignersApart(t *testing.T) {
	tx := signedTransfer(t)
	erased := tx.ToAny()
	node := ledger.NodeIdentity{AccountID: testNodes[0]}

	before, err := erased.MakeRequest(node, 1)
	require.NoError(t, err)

	tx.Sign(unittest.PrivateKeyFixture(t, crypto.ED25519))
	assert.Len(t, tx.PublicKeys(), 3)
	assert.Len(t, erased.PublicKeys(), 2)

	after, err := erased.MakeRequest(node, 1)
	require.NoError(t, err)
	assert.Equal(t, before.SignedTransactionBytes, after.SignedTransactionBytes)

	erased.Sign(unittest.PrivateKeyFixture(t, crypto.ECDSA_SECp256k1))
	signed, _ := decodeSigned(t, mustRequest(t, erased, node))
	assert.Len(t, signed.SigMap.SigPair, 3, "the erased copy signs with its own signers")
	signed, _ = decodeSigned(t, mustRequest(t, &tx.Transaction, node))
	assert.Len(t, signed.SigMap.SigPair, 3)
	for i, key := range tx.PublicKeys() {
		assert.Equal(t, key.Bytes(), signed.SigMap.SigPair[i].PubKeyPrefix)
	}
}

func mustRequest[D TransactionData](t *testing.T, tx *Transaction[D], node ledger.NodeIdentity) *wire.Transaction {
	t.Helper()
	request, err := tx.MakeRequest(node, 1)
	require.NoError(t, err)
	return request
}

func TestAnyTransactionCarriesNewFields(t *testing.T) {
	payer := unittest.AccountIDFixture()
	token := ledger.NewTokenID(0, 0, 77)

	transfer := NewTransferTransaction()
	require.NoError(t, transfer.AddTokenTransferWithDecimals(token, payer, -10, 6))
	require.NoError(t, transfer.AddTokenTransferWithDecimals(token, unittest.AccountIDFixture(), 10, 6))

	create := NewTokenCreateTransaction()
	require.NoError(t, create.SetTokenName("Gold"))
	require.NoError(t, create.SetTokenSymbol("AU"))
	require.NoError(t, create.SetDecimals(6))
	require.NoError(t, create.SetTreasuryAccountID(payer))

	txs := []*AnyTransaction{transfer.ToAny(), create.ToAny()}
	for _, tx := range txs {
		require.NoError(t, tx.SetTransactionID(ledger.GenerateTransactionID(payer)))
		require.NoError(t, tx.SetNodeAccountIDs(testNodes...))
		tx.Sign(unittest.PrivateKeyFixture(t, crypto.ED25519))
	}

	encoded, err := EncodeAnyTransactionList(txs)
	require.NoError(t, err)
	assert.Contains(t, string(encoded), `"expectedDecimals":6`)
	assert.Contains(t, string(encoded), `"type":"tokenCreate"`)

	decoded, err := DecodeAnyTransactionList(encoded)
	require.NoError(t, err)
	require.Len(t, decoded, 2)

	decodedTransfer, ok := decoded[0].Data().Inner().(TransferTransactionData)
	require.True(t, ok)
	for _, transfer := range decodedTransfer.TokenTransfers {
		require.NotNil(t, transfer.ExpectedDecimals)
		assert.EqualValues(t, 6, *transfer.ExpectedDecimals)
	}
	decodedCreate, ok := decoded[1].Data().Inner().(TokenCreateTransactionData)
	require.True(t, ok)
	assert.Equal(t, create.Data(), decodedCreate)
	assert.Equal(t, wire.MethodTokenCreate, decoded[1].Method())
}

func TestAnyTransactionListKeepsGoodItems(t *testing.T) {
	first := signedTransfer(t).ToAny()
	second := signedTransfer(t).ToAny()
	encoded, err := EncodeAnyTransactionList([]*AnyTransaction{first, second})
	require.NoError(t, err)

	var items []json.RawMessage
	require.NoError(t, json.Unmarshal(encoded, &items))
	require.Len(t, items, 2)
	list, err := json.Marshal([]json.RawMessage{items[0], json.RawMessage(`{"version":1,"type":"bogus"}`), items[1], json.RawMessage(`[]`)})
	require.NoError(t, err)

	decoded, err := DecodeAnyTransactionList(list)
	require.Len(t, decoded, 4)
	assert.NotNil(t, decoded[0])
	assert.Nil(t, decoded[1])
	assert.NotNil(t, decoded[2])
	assert.Nil(t, decoded[3])

	errs := multierr.Errors(err)
	require.Len(t, errs, 2)
	var item *ItemError
	require.True(t, stdErrors.As(errs[0], &item))
	assert.Equal(t, 1, item.Index)
	assert.True(t, clienterrors.IsUnknownVariantError(errs[0]))
	require.True(t, stdErrors.As(errs[1], &item))
	assert.Equal(t, 3, item.Index)
	assert.True(t, clienterrors.IsBuildError(errs[1]))

	_, err = DecodeAnyTransactionList([]byte(`{}`))
	assert.True(t, clienterrors.IsBuildError(err))
}

func TestAnyTransactionBodyRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		accounts := rapid.IntRange(1, 5).Draw(t, "accounts")
		var total ledger.Hbar
		tx := NewTransferTransaction()
		for i := 0; i < accounts; i++ {
			amount := ledger.HbarFromTinybar(rapid.Int64Range(1, 1_000_000).Draw(t, "amount"))
			total += amount
			if err := tx.AddHbarTransfer(ledger.NewAccountID(0, 0, uint64(1000+i)), amount); err != nil {
				t.Fatal(err)
			}
		}
		if err := tx.AddHbarTransfer(ledger.NewAccountID(0, 0, 999), total.Negated()); err != nil {
			t.Fatal(err)
		}
		memo := rapid.StringN(0, 40, -1).Draw(t, "memo")
		if err := tx.SetTransactionMemo(memo); err != nil {
			t.Fatal(err)
		}
		fee := ledger.HbarFromTinybar(rapid.Int64Range(0, 1_000_000_000).Draw(t, "fee"))
		if err := tx.SetMaxTransactionFee(fee); err != nil {
			t.Fatal(err)
		}

		encoded, err := json.Marshal(tx)
		if err != nil {
			t.Fatal(err)
		}
		decoded, err := DecodeAnyTransaction(encoded)
		if err != nil {
			t.Fatal(err)
		}
		if decoded.TransactionMemo() != memo {
			t.Fatalf("memo %q decoded as %q", memo, decoded.TransactionMemo())
		}
		if decoded.MaxTransactionFee() != tx.MaxTransactionFee() {
			t.Fatalf("max fee %s decoded as %s", tx.MaxTransactionFee(), decoded.MaxTransactionFee())
		}
		inner := decoded.Data().Inner().(TransferTransactionData)
		if len(inner.HbarTransfers) != accounts+1 || inner.validate() != nil {
			t.Fatalf("transfers decoded as %v", inner.HbarTransfers)
		}
	})
}

func TestAnyQueryRoundTrip(t *testing.T) {
	account := unittest.AccountIDFixture()
	query := NewAccountBalanceQuery().SetAccountID(account)
	query.SetNodeAccountIDs(testNodes...)

	encoded, err := json.Marshal(query)
	require.NoError(t, err)

	decoded, err := DecodeAnyQuery(encoded)
	require.NoError(t, err)
	assert.Equal(t, testNodes, decoded.NodeAccountIDs())
	assert.Equal(t, query.Data(), decoded.Data().Inner())

	paid := NewFileContentsQuery().SetFileID(ledger.NewFileID(0, 0, 150))
	paid.SetQueryPayment(ledger.HbarFromTinybar(55))
	anyQuery, err := paid.ToAny()
	require.NoError(t, err)
	encoded, err = json.Marshal(anyQuery)
	require.NoError(t, err)

	decoded, err = DecodeAnyQuery(encoded)
	require.NoError(t, err)
	require.NotNil(t, decoded.payment)
	assert.Equal(t, ledger.HbarFromTinybar(55), *decoded.payment)
	assert.True(t, decoded.Data().paymentRequired())

	_, err = DecodeAnyQuery([]byte(`{"version":1,"type":"tokenInfo","data":{}}`))
	assert.True(t, clienterrors.IsUnknownVariantError(err))
}
