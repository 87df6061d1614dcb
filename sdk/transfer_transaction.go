package sdk

import (
	"errors"
	"fmt"

	clienterrors "github.com/ledgerexec/ledgerexec/engine/client/errors"
	"github.com/ledgerexec/ledgerexec/model/ledger"
	"github.com/ledgerexec/ledgerexec/model/wire"
)

// HbarTransfer is the hbar balance change of one account.
type HbarTransfer struct {
	AccountID ledger.AccountID `json:"accountId"`
	Amount    ledger.Hbar      `json:"amount"`
}

// TokenTransfer is the balance change of one account in one token. Amounts are in the
// smallest unit of the token.
type TokenTransfer struct {
	TokenID   ledger.TokenID   `json:"tokenId"`
	AccountID ledger.AccountID `json:"accountId"`
	Amount    int64            `json:"amount"`
	// ExpectedDecimals makes the network reject the transfer unless the token has that
	// many decimals. Every transfer of a token that sets it must agree.
	ExpectedDecimals *uint32 `json:"expectedDecimals,omitempty"`
}

// TransferTransactionData moves hbars and tokens between accounts. The changes of
// each currency must add up to zero.
type TransferTransactionData struct {
	HbarTransfers  []HbarTransfer  `json:"hbarTransfers,omitempty"`
	TokenTransfers []TokenTransfer `json:"tokenTransfers,omitempty"`
}

var _ TransactionData = TransferTransactionData{}

// addHbarTransfer adds amount to the change of account, merging repeated accounts.
func (d *TransferTransactionData) addHbarTransfer(account ledger.AccountID, amount ledger.Hbar) {
	for i := range d.HbarTransfers {
		if d.HbarTransfers[i].AccountID.Equal(account) {
			d.HbarTransfers[i].Amount += amount
			return
		}
	}
	d.HbarTransfers = append(d.HbarTransfers, HbarTransfer{AccountID: account, Amount: amount})
}

// addTokenTransfer adds amount to the change of account in token, merging repeated
// accounts. It fails when decimals disagree with the decimals already expected for
// token.
func (d *TransferTransactionData) addTokenTransfer(token ledger.TokenID, account ledger.AccountID, amount int64, decimals *uint32) error {
	if decimals != nil {
		expected, ok := d.expectedDecimals(token)
		if ok && expected != *decimals {
			return fmt.Errorf("token %s is expected to have %d decimals, not %d", token, expected, *decimals)
		}
	}
	for i := range d.TokenTransfers {
		transfer := &d.TokenTransfers[i]
		if transfer.TokenID == token && transfer.AccountID.Equal(account) {
			transfer.Amount += amount
			if decimals != nil {
				transfer.ExpectedDecimals = clonePtr(decimals)
			}
			return nil
		}
	}
	d.TokenTransfers = append(d.TokenTransfers, TokenTransfer{
		TokenID:          token,
		AccountID:        account,
		Amount:           amount,
		ExpectedDecimals: clonePtr(decimals),
	})
	return nil
}

// expectedDecimals returns the decimals the first transfer of token expects, if any.
func (d TransferTransactionData) expectedDecimals(token ledger.TokenID) (uint32, bool) {
	for _, transfer := range d.TokenTransfers {
		if transfer.TokenID == token && transfer.ExpectedDecimals != nil {
			return *transfer.ExpectedDecimals, true
		}
	}
	return 0, false
}

func (d TransferTransactionData) toWire(ledger.AccountID, ledger.TransactionID) wire.TransactionData {
	body := &wire.CryptoTransferTransactionBody{}
	for _, transfer := range d.HbarTransfers {
		body.Transfers.AccountAmounts = append(body.Transfers.AccountAmounts, wire.AccountAmount{
			AccountID: wire.NewAccountID(transfer.AccountID),
			Amount:    transfer.Amount.Tinybars(),
		})
	}

	// one list per token, in order of first appearance
	index := make(map[ledger.TokenID]int)
	for _, transfer := range d.TokenTransfers {
		i, ok := index[transfer.TokenID]
		if !ok {
			i = len(body.TokenTransfers)
			index[transfer.TokenID] = i
			body.TokenTransfers = append(body.TokenTransfers, wire.TokenTransferList{Token: wire.NewTokenID(transfer.TokenID)})
		}
		list := &body.TokenTransfers[i]
		list.Transfers = append(list.Transfers, wire.AccountAmount{
			AccountID: wire.NewAccountID(transfer.AccountID),
			Amount:    transfer.Amount,
		})
		if list.ExpectedDecimals == nil && transfer.ExpectedDecimals != nil {
			decimals := *transfer.ExpectedDecimals
			list.ExpectedDecimals = &decimals
		}
	}
	return wire.TransactionData{CryptoTransfer: body}
}

func (d TransferTransactionData) method() string { return wire.MethodCryptoTransfer }
func (d TransferTransactionData) tag() string    { return "transfer" }

func (d TransferTransactionData) defaultMaxTransactionFee() ledger.Hbar {
	return ledger.NewHbar(1)
}

func (d TransferTransactionData) clone() TransactionData {
	if d.HbarTransfers != nil {
		hbars := make([]HbarTransfer, len(d.HbarTransfers))
		for i, transfer := range d.HbarTransfers {
			transfer.AccountID = transfer.AccountID.Clone()
			hbars[i] = transfer
		}
		d.HbarTransfers = hbars
	}
	if d.TokenTransfers != nil {
		tokens := make([]TokenTransfer, len(d.TokenTransfers))
		for i, transfer := range d.TokenTransfers {
			transfer.AccountID = transfer.AccountID.Clone()
			transfer.ExpectedDecimals = clonePtr(transfer.ExpectedDecimals)
			tokens[i] = transfer
		}
		d.TokenTransfers = tokens
	}
	return d
}

func (d TransferTransactionData) validate() error {
	if len(d.HbarTransfers) == 0 && len(d.TokenTransfers) == 0 {
		return errors.New("transfer has no transfers")
	}

	var sum ledger.Hbar
	for _, transfer := range d.HbarTransfers {
		sum += transfer.Amount
	}
	if sum != 0 {
		return fmt.Errorf("hbar transfers add up to %s instead of zero", sum)
	}

	tokenSums := make(map[ledger.TokenID]int64)
	tokenDecimals := make(map[ledger.TokenID]uint32)
	for _, transfer := range d.TokenTransfers {
		tokenSums[transfer.TokenID] += transfer.Amount
		if transfer.ExpectedDecimals == nil {
			continue
		}
		decimals, ok := tokenDecimals[transfer.TokenID]
		if ok && decimals != *transfer.ExpectedDecimals {
			return fmt.Errorf("transfers of token %s expect both %d and %d decimals", transfer.TokenID, decimals, *transfer.ExpectedDecimals)
		}
		tokenDecimals[transfer.TokenID] = *transfer.ExpectedDecimals
	}
	for token, sum := range tokenSums {
		if sum != 0 {
			return fmt.Errorf("transfers of token %s add up to %d instead of zero", token, sum)
		}
	}
	return nil
}

// TransferTransaction moves hbars and tokens between accounts.
type TransferTransaction struct {
	Transaction[TransferTransactionData]
}

func NewTransferTransaction() *TransferTransaction {
	return &TransferTransaction{}
}

// AddHbarTransfer adds amount to the hbar balance change of account. Debits are
// negative.
func (tx *TransferTransaction) AddHbarTransfer(account ledger.AccountID, amount ledger.Hbar) error {
	if err := tx.requireNotFrozen(); err != nil {
		return err
	}
	tx.data.addHbarTransfer(account, amount)
	return nil
}

// AddTokenTransfer adds amount to the balance change of account in token. Debits are
// negative.
func (tx *TransferTransaction) AddTokenTransfer(token ledger.TokenID, account ledger.AccountID, amount int64) error {
	if err := tx.requireNotFrozen(); err != nil {
		return err
	}
	return tx.data.addTokenTransfer(token, account, amount, nil)
}

// AddTokenTransferWithDecimals is AddTokenTransfer, and has the network reject the
// transfer unless token has the given number of decimals.
//
// Expected errors:
//   - ErrFrozen if the transaction is frozen
//   - BuildError if an earlier transfer of token expects other decimals
func (tx *TransferTransaction) AddTokenTransferWithDecimals(token ledger.TokenID, account ledger.AccountID, amount int64, decimals uint32) error {
	if err := tx.requireNotFrozen(); err != nil {
		return err
	}
	err := tx.data.addTokenTransfer(token, account, amount, &decimals)
	if err != nil {
		return clienterrors.NewBuildError(err)
	}
	return nil
}
