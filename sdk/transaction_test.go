package sdk

import (
	"context"
	stdErrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerexec/ledgerexec/crypto"
	clienterrors "github.com/ledgerexec/ledgerexec/engine/client/errors"
	"github.com/ledgerexec/ledgerexec/model/ledger"
	"github.com/ledgerexec/ledgerexec/model/wire"
	"github.com/ledgerexec/ledgerexec/utils/unittest"
	"github.com/ledgerexec/ledgerexec/utils/unittest/mocknode"
)

func transferFixture(t *testing.T, from, to ledger.AccountID, amount ledger.Hbar) *TransferTransaction {
	tx := NewTransferTransaction()
	require.NoError(t, tx.AddHbarTransfer(from, amount.Negated()))
	require.NoError(t, tx.AddHbarTransfer(to, amount))
	return tx
}

func TestTransactionFreezesOnFirstSignature(t *testing.T) {
	payer := unittest.AccountIDFixture()
	tx := transferFixture(t, payer, unittest.AccountIDFixture(), ledger.NewHbar(1))
	require.NoError(t, tx.SetTransactionMemo("before"))
	assert.False(t, tx.IsFrozen())

	tx.Sign(unittest.PrivateKeyFixture(t, crypto.ED25519))
	assert.True(t, tx.IsFrozen())

	assert.ErrorIs(t, tx.SetTransactionMemo("after"), clienterrors.ErrFrozen)
	assert.ErrorIs(t, tx.AddHbarTransfer(payer, 1), clienterrors.ErrFrozen)
	assert.ErrorIs(t, tx.SetNodeAccountIDs(ledger.NewAccountID(0, 0, 3)), clienterrors.ErrFrozen)
	assert.True(t, clienterrors.IsInvalidStateError(tx.SetMaxTransactionFee(ledger.NewHbar(2))))
	assert.Equal(t, "before", tx.TransactionMemo())

	// execution settings are not part of the body
	tx.SetMaxAttempts(3)
	assert.Equal(t, 3, tx.ExecutionOptions().MaxAttempts)
}

func TestTransactionFreezeRequirements(t *testing.T) {
	payer := unittest.AccountIDFixture()

	tx := transferFixture(t, payer, unittest.AccountIDFixture(), ledger.NewHbar(1))
	require.NoError(t, tx.SetNodeAccountIDs(ledger.NewAccountID(0, 0, 3)))
	assert.True(t, clienterrors.IsBuildError(tx.Freeze()), "no transaction ID")

	tx = transferFixture(t, payer, unittest.AccountIDFixture(), ledger.NewHbar(1))
	require.NoError(t, tx.SetTransactionID(ledger.GenerateTransactionID(payer)))
	assert.True(t, clienterrors.IsBuildError(tx.Freeze()), "no nodes")

	tx = NewTransferTransaction()
	require.NoError(t, tx.AddHbarTransfer(payer, ledger.NewHbar(-1)))
	require.NoError(t, tx.SetTransactionID(ledger.GenerateTransactionID(payer)))
	require.NoError(t, tx.SetNodeAccountIDs(ledger.NewAccountID(0, 0, 3)))
	err := tx.Freeze()
	assert.True(t, clienterrors.IsBuildError(err), "unbalanced transfer")
	assert.False(t, tx.IsFrozen())

	require.NoError(t, tx.AddHbarTransfer(unittest.AccountIDFixture(), ledger.NewHbar(1)))
	require.NoError(t, tx.Freeze())
	assert.True(t, tx.IsFrozen())
}

func TestTransactionValidation(t *testing.T) {
	account := unittest.AccountIDFixture()
	token := ledger.NewTokenID(0, 0, 1001)
	key := unittest.PrivateKeyFixture(t, crypto.ED25519).PublicKey()
	two, three := uint32(2), uint32(3)

	tests := []struct {
		name  string
		data  TransactionData
		valid bool
	}{
		{"empty transfer", TransferTransactionData{}, false},
		{"balanced token transfer", TransferTransactionData{TokenTransfers: []TokenTransfer{
			{TokenID: token, AccountID: account, Amount: -5},
			{TokenID: token, AccountID: unittest.AccountIDFixture(), Amount: 5},
		}}, true},
		{"unbalanced token transfer", TransferTransactionData{TokenTransfers: []TokenTransfer{
			{TokenID: token, AccountID: account, Amount: -5},
		}}, false},
		{"token transfer expecting decimals once", TransferTransactionData{TokenTransfers: []TokenTransfer{
			{TokenID: token, AccountID: account, Amount: -5, ExpectedDecimals: &two},
			{TokenID: token, AccountID: unittest.AccountIDFixture(), Amount: 5},
		}}, true},
		{"token transfer expecting different decimals", TransferTransactionData{TokenTransfers: []TokenTransfer{
			{TokenID: token, AccountID: account, Amount: -5, ExpectedDecimals: &two},
			{TokenID: token, AccountID: unittest.AccountIDFixture(), Amount: 5, ExpectedDecimals: &three},
		}}, false},
		{"account create without key", AccountCreateTransactionData{}, false},
		{"account create with key", AccountCreateTransactionData{Key: &key}, true},
		{"account update without account", AccountUpdateTransactionData{}, false},
		{"account delete without transfer account", AccountDeleteTransactionData{AccountID: &account}, false},
		{"token associate without tokens", TokenAssociateTransactionData{AccountID: &account}, false},
		{"token associate", TokenAssociateTransactionData{AccountID: &account, TokenIDs: []ledger.TokenID{token}}, true},
		{"token wipe with amount and serials", TokenWipeTransactionData{
			TokenID: &token, AccountID: &account, Amount: 1, Serials: []int64{1},
		}, false},
		{"token wipe", TokenWipeTransactionData{TokenID: &token, AccountID: &account, Amount: 1}, true},
		{"token create without symbol", TokenCreateTransactionData{Name: "Gold", TreasuryID: &account}, false},
		{"token create without treasury", TokenCreateTransactionData{Name: "Gold", Symbol: "AU"}, false},
		{"token create", TokenCreateTransactionData{Name: "Gold", Symbol: "AU", TreasuryID: &account}, true},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := test.data.validate()
			if test.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestTransferMergesRepeatedAccounts(t *testing.T) {
	from, to := unittest.AccountIDFixture(), unittest.AccountIDFixture()
	tx := transferFixture(t, from, to, ledger.NewHbar(1))
	require.NoError(t, tx.AddHbarTransfer(from, ledger.NewHbar(-2)))
	require.NoError(t, tx.AddHbarTransfer(to, ledger.NewHbar(2)))

	assert.Equal(t, []HbarTransfer{
		{AccountID: from, Amount: ledger.NewHbar(-3)},
		{AccountID: to, Amount: ledger.NewHbar(3)},
	}, tx.Data().HbarTransfers)
}

func TestTransactionAccessorsReturnCopies(t *testing.T) {
	node := ledger.NewAccountID(0, 0, 3)

	t.Run("transfer", func(t *testing.T) {
		payer := ledger.AccountID{Num: 1001, Alias: []byte{0xaa, 0xbb}}
		tx := transferFixture(t, payer, unittest.AccountIDFixture(), ledger.NewHbar(1))
		require.NoError(t, tx.AddTokenTransferWithDecimals(ledger.NewTokenID(0, 0, 77), payer, -10, 2))
		require.NoError(t, tx.AddTokenTransfer(ledger.NewTokenID(0, 0, 77), unittest.AccountIDFixture(), 10))
		require.NoError(t, tx.SetTransactionID(ledger.GenerateTransactionID(payer)))
		require.NoError(t, tx.SetNodeAccountIDs(node))
		tx.Sign(unittest.PrivateKeyFixture(t, crypto.ED25519))
		before, err := tx.BodyBytes(node)
		require.NoError(t, err)

		data := tx.Data()
		data.HbarTransfers[0].Amount = ledger.NewHbar(-1000)
		data.HbarTransfers[0].AccountID.Alias[0] = 0xff
		data.TokenTransfers[1].Amount = 1000
		*data.TokenTransfers[0].ExpectedDecimals = 8
		ids := tx.NodeAccountIDs()
		ids[0] = ledger.NewAccountID(0, 0, 99)

		after, err := tx.BodyBytes(node)
		require.NoError(t, err)
		assert.Equal(t, before, after)
		assert.Equal(t, []ledger.AccountID{node}, tx.NodeAccountIDs())
		assert.NoError(t, tx.Data().validate())
	})

	t.Run("token associate", func(t *testing.T) {
		account := unittest.AccountIDFixture()
		tx := NewTokenAssociateTransaction()
		require.NoError(t, tx.SetAccountID(account))
		require.NoError(t, tx.SetTokenIDs(ledger.NewTokenID(0, 0, 5), ledger.NewTokenID(0, 0, 6)))
		require.NoError(t, tx.SetTransactionID(ledger.GenerateTransactionID(account)))
		require.NoError(t, tx.SetNodeAccountIDs(node))
		tx.Sign(unittest.PrivateKeyFixture(t, crypto.ED25519))
		before, err := tx.BodyBytes(node)
		require.NoError(t, err)

		data := tx.Data()
		data.TokenIDs[0] = ledger.NewTokenID(0, 0, 500)
		data.AccountID.Num = 42

		after, err := tx.BodyBytes(node)
		require.NoError(t, err)
		assert.Equal(t, before, after)
	})

	t.Run("token wipe", func(t *testing.T) {
		tx := NewTokenWipeTransaction()
		require.NoError(t, tx.SetSerials(1, 2, 3))
		tx.Data().Serials[0] = 7
		assert.Equal(t, []int64{1, 2, 3}, tx.Data().Serials)
	})
}

func TestTransferExpectedDecimals(t *testing.T) {
	token := ledger.NewTokenID(0, 0, 77)
	other := ledger.NewTokenID(0, 0, 78)
	from, to := unittest.AccountIDFixture(), unittest.AccountIDFixture()

	tx := NewTransferTransaction()
	require.NoError(t, tx.AddTokenTransferWithDecimals(token, from, -10, 2))
	require.NoError(t, tx.AddTokenTransfer(token, to, 10))
	require.NoError(t, tx.AddTokenTransfer(other, from, -1))
	require.NoError(t, tx.AddTokenTransfer(other, to, 1))

	err := tx.AddTokenTransferWithDecimals(token, to, 1, 3)
	assert.True(t, clienterrors.IsBuildError(err), "decimals must agree per token")
	require.Len(t, tx.Data().TokenTransfers, 4, "a rejected transfer is not recorded")

	require.NoError(t, tx.SetTransactionID(ledger.GenerateTransactionID(from)))
	require.NoError(t, tx.SetNodeAccountIDs(ledger.NewAccountID(0, 0, 3)))
	require.NoError(t, tx.Freeze())

	request, err := tx.MakeRequest(ledger.NodeIdentity{AccountID: ledger.NewAccountID(0, 0, 3)}, 1)
	require.NoError(t, err)
	_, body := decodeSigned(t, request)
	require.NotNil(t, body.CryptoTransfer)
	lists := body.CryptoTransfer.TokenTransfers
	require.Len(t, lists, 2)
	assert.Equal(t, token, lists[0].Token.ToLedger())
	require.NotNil(t, lists[0].ExpectedDecimals)
	assert.EqualValues(t, 2, *lists[0].ExpectedDecimals)
	assert.Len(t, lists[0].Transfers, 2)
	assert.Nil(t, lists[1].ExpectedDecimals)

	t.Run("mismatch in decoded data fails to freeze", func(t *testing.T) {
		two, three := uint32(2), uint32(3)
		tx := NewTransferTransaction()
		tx.data.TokenTransfers = []TokenTransfer{
			{TokenID: token, AccountID: from, Amount: -10, ExpectedDecimals: &two},
			{TokenID: token, AccountID: to, Amount: 10, ExpectedDecimals: &three},
		}
		require.NoError(t, tx.SetTransactionID(ledger.GenerateTransactionID(from)))
		require.NoError(t, tx.SetNodeAccountIDs(ledger.NewAccountID(0, 0, 3)))
		assert.True(t, clienterrors.IsBuildError(tx.Freeze()))
	})
}

func TestTokenCreateTransaction(t *testing.T) {
	payer := unittest.AccountIDFixture()
	treasury := unittest.AccountIDFixture()
	key := unittest.PrivateKeyFixture(t, crypto.ED25519).PublicKey()
	node := ledger.NewAccountID(0, 0, 3)

	tx := NewTokenCreateTransaction()
	require.NoError(t, tx.SetTokenName("Gold"))
	require.NoError(t, tx.SetTokenSymbol("AU"))
	require.NoError(t, tx.SetDecimals(2))
	require.NoError(t, tx.SetInitialSupply(1_000_000))
	require.NoError(t, tx.SetTreasuryAccountID(treasury))
	require.NoError(t, tx.SetSupplyKey(key))
	require.NoError(t, tx.SetTransactionID(ledger.GenerateTransactionID(payer)))
	require.NoError(t, tx.SetNodeAccountIDs(node))
	require.NoError(t, tx.Freeze())
	assert.Equal(t, wire.MethodTokenCreate, tx.Method())
	assert.Equal(t, ledger.NewHbar(40), tx.MaxTransactionFee())

	request, err := tx.MakeRequest(ledger.NodeIdentity{AccountID: node}, 1)
	require.NoError(t, err)
	_, body := decodeSigned(t, request)
	created := body.TokenCreation
	require.NotNil(t, created)
	assert.Equal(t, "Gold", created.Name)
	assert.Equal(t, "AU", created.Symbol)
	assert.EqualValues(t, 2, created.Decimals)
	assert.EqualValues(t, 1_000_000, created.InitialSupply)
	require.NotNil(t, created.Treasury)
	assert.Equal(t, treasury, created.Treasury.ToLedger())
	assert.Nil(t, created.AdminKey)
	require.NotNil(t, created.SupplyKey)
	require.NotNil(t, created.AutoRenewAccount)
	assert.Equal(t, payer, created.AutoRenewAccount.ToLedger(), "the payer renews by default")
	require.NotNil(t, created.AutoRenewPeriod)
	assert.Equal(t, int64(DefaultAutoRenewPeriod/time.Second), created.AutoRenewPeriod.Seconds)

	assert.ErrorIs(t, tx.SetTokenName("Silver"), clienterrors.ErrFrozen)
}

func TestTransactionRenderIsDeterministic(t *testing.T) {
	payer := unittest.AccountIDFixture()
	nodes := []ledger.AccountID{ledger.NewAccountID(0, 0, 3), ledger.NewAccountID(0, 0, 4)}
	edKey := unittest.PrivateKeyFixture(t, crypto.ED25519)
	ecKey := unittest.PrivateKeyFixture(t, crypto.ECDSA_SECp256k1)

	build := func() *TransferTransaction {
		tx := transferFixture(t, payer, unittest.AccountIDFixture(), ledger.NewHbar(1))
		tx.data.HbarTransfers[1].AccountID = ledger.NewAccountID(0, 0, 1234)
		return tx
	}
	txID := ledger.GenerateTransactionID(payer)

	first := build()
	require.NoError(t, first.SetTransactionID(txID))
	require.NoError(t, first.SetNodeAccountIDs(nodes...))
	require.NoError(t, first.SetTransactionMemo("deterministic"))
	first.Sign(edKey)
	first.Sign(ecKey)

	second := build()
	require.NoError(t, second.SetTransactionID(txID))
	require.NoError(t, second.SetNodeAccountIDs(nodes...))
	require.NoError(t, second.SetTransactionMemo("deterministic"))
	second.Sign(edKey)
	second.Sign(ecKey)
	second.Sign(edKey)

	for _, node := range nodes {
		a, err := first.MakeRequest(ledger.NodeIdentity{AccountID: node}, 1)
		require.NoError(t, err)
		b, err := second.MakeRequest(ledger.NodeIdentity{AccountID: node}, 7)
		require.NoError(t, err)
		assert.Equal(t, a.SignedTransactionBytes, b.SignedTransactionBytes)

		signed, body := decodeSigned(t, a)
		assert.Equal(t, node, body.NodeAccountID.ToLedger())
		assert.Equal(t, "deterministic", body.Memo)
		assert.Equal(t, uint64(ledger.NewHbar(1).Tinybars()), body.TransactionFee, "default max fee of a transfer")
		assert.Equal(t, int64(DefaultTransactionValidDuration/time.Second), body.TransactionValidDuration.Seconds)
		require.NotNil(t, body.CryptoTransfer)
		assert.Len(t, body.CryptoTransfer.Transfers.AccountAmounts, 2)

		require.Len(t, signed.SigMap.SigPair, 2, "attaching a key twice signs once")
		assert.True(t, edKey.PublicKey().Verify(signed.BodyBytes, signed.SigMap.SigPair[0].Ed25519))
		assert.True(t, ecKey.PublicKey().Verify(signed.BodyBytes, signed.SigMap.SigPair[1].ECDSASecp256k1))
	}

	a, err := first.MakeRequest(ledger.NodeIdentity{AccountID: nodes[0]}, 1)
	require.NoError(t, err)
	b, err := first.MakeRequest(ledger.NodeIdentity{AccountID: nodes[1]}, 1)
	require.NoError(t, err)
	assert.NotEqual(t, a.SignedTransactionBytes, b.SignedTransactionBytes, "each node gets its own body")
}

func TestTransactionExecute(t *testing.T) {
	nodes := mocknode.NewNetwork(t, 3)
	client := newTestClient(t, nodes)
	key, operator := withOperator(t, client)

	nodes.Node(3).Handle(byMethod(map[string]mocknode.HandlerFunc{
		wire.MethodCryptoTransfer:         mocknode.Always(mocknode.Precheck(ledger.StatusOk)),
		wire.MethodGetTransactionReceipts: mocknode.Always(mocknode.ReceiptResponse(ledger.Receipt{Status: ledger.StatusSuccess})),
	}))

	tx := transferFixture(t, operator, unittest.AccountIDFixture(), ledger.NewHbar(2))
	response, err := tx.Execute(context.Background(), client)
	require.NoError(t, err)

	txID, ok := tx.TransactionID()
	require.True(t, ok, "the operator pays")
	assert.True(t, txID.AccountID.Equal(operator))
	assert.True(t, response.TransactionID.Equal(txID))
	assert.Equal(t, ledger.NewAccountID(0, 0, 3), response.NodeID)

	calls := nodes.Node(3).Calls()
	require.Len(t, calls, 1)
	require.NotNil(t, calls[0].Transaction)
	assert.Equal(t, crypto.SHA384(calls[0].Transaction.SignedTransactionBytes), response.Hash)

	signed, _ := decodeSigned(t, calls[0].Transaction)
	require.Len(t, signed.SigMap.SigPair, 1)
	assert.True(t, key.PublicKey().Verify(signed.BodyBytes, signed.SigMap.SigPair[0].Ed25519))

	receipt, err := response.GetReceipt(context.Background(), client)
	require.NoError(t, err)
	assert.Equal(t, ledger.StatusSuccess, receipt.Status)
}

func TestTransactionRetriesSendIdenticalBytes(t *testing.T) {
	nodes := mocknode.NewNetwork(t, 3)
	client := newTestClient(t, nodes)
	_, operator := withOperator(t, client)

	nodes.Node(3).Handle(mocknode.Sequence(
		mocknode.Precheck(ledger.StatusBusy),
		mocknode.Precheck(ledger.StatusPlatformTransactionNotCreated),
		mocknode.Precheck(ledger.StatusOk),
	))

	tx := transferFixture(t, operator, unittest.AccountIDFixture(), ledger.NewHbar(2))
	response, err := tx.Execute(context.Background(), client)
	require.NoError(t, err)

	calls := nodes.Node(3).Calls()
	require.Len(t, calls, 3)
	for _, call := range calls[1:] {
		assert.Equal(t, calls[0].Transaction.SignedTransactionBytes, call.Transaction.SignedTransactionBytes)
	}
	assert.Equal(t, crypto.SHA384(calls[2].Transaction.SignedTransactionBytes), response.Hash)
}

func TestTransactionTerminalPrecheck(t *testing.T) {
	nodes := mocknode.NewNetwork(t, 3, 4)
	client := newTestClient(t, nodes)
	_, operator := withOperator(t, client)
	nodes.Node(3).Handle(mocknode.Always(mocknode.Precheck(ledger.StatusInsufficientPayerBalance)))
	nodes.Node(4).Handle(mocknode.Always(mocknode.Precheck(ledger.StatusInsufficientPayerBalance)))

	tx := transferFixture(t, operator, unittest.AccountIDFixture(), ledger.NewHbar(2))
	_, err := tx.Execute(context.Background(), client)

	var precheck *clienterrors.PrecheckStatusError
	require.True(t, stdErrors.As(err, &precheck))
	assert.Equal(t, ledger.StatusInsufficientPayerBalance, precheck.Status)
	assert.Equal(t, 1, nodes.Node(3).CallCount()+nodes.Node(4).CallCount(), "terminal statuses are not retried")
}

func TestTransactionFailedReceipt(t *testing.T) {
	nodes := mocknode.NewNetwork(t, 3)
	client := newTestClient(t, nodes)
	_, operator := withOperator(t, client)
	nodes.Node(3).Handle(byMethod(map[string]mocknode.HandlerFunc{
		wire.MethodCryptoTransfer: mocknode.Always(mocknode.Precheck(ledger.StatusOk)),
		wire.MethodGetTransactionReceipts: mocknode.Sequence(
			mocknode.ReceiptResponse(ledger.Receipt{Status: ledger.StatusReceiptNotFound}),
			mocknode.ReceiptResponse(ledger.Receipt{Status: ledger.StatusInvalidSignature}),
		),
	}))

	tx := transferFixture(t, operator, unittest.AccountIDFixture(), ledger.NewHbar(2))
	response, err := tx.Execute(context.Background(), client)
	require.NoError(t, err)

	receipt, err := response.GetReceipt(context.Background(), client)
	var statusErr *clienterrors.ReceiptStatusError
	require.True(t, stdErrors.As(err, &statusErr))
	assert.Equal(t, ledger.StatusInvalidSignature, statusErr.Receipt.Status)
	assert.Equal(t, ledger.StatusInvalidSignature, receipt.Status)

	response.ValidateStatus = false
	receipt, err = response.GetReceipt(context.Background(), client)
	require.NoError(t, err)
	assert.Equal(t, ledger.StatusInvalidSignature, receipt.Status)
}

func TestTransactionExecuteWithoutOperator(t *testing.T) {
	nodes := mocknode.NewNetwork(t, 3)
	client := newTestClient(t, nodes)

	tx := transferFixture(t, unittest.AccountIDFixture(), unittest.AccountIDFixture(), ledger.NewHbar(2))
	_, err := tx.Execute(context.Background(), client)
	assert.True(t, clienterrors.IsBuildError(err))
	assert.Equal(t, 0, nodes.Node(3).CallCount())
}
