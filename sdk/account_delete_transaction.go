package sdk

import (
	"errors"

	"github.com/ledgerexec/ledgerexec/model/ledger"
	"github.com/ledgerexec/ledgerexec/model/wire"
)

// AccountDeleteTransactionData deletes an account, moving its remaining hbars to
// another one.
type AccountDeleteTransactionData struct {
	AccountID         *ledger.AccountID `json:"accountId,omitempty"`
	TransferAccountID *ledger.AccountID `json:"transferAccountId,omitempty"`
}

var _ TransactionData = AccountDeleteTransactionData{}

func (d AccountDeleteTransactionData) toWire(ledger.AccountID, ledger.TransactionID) wire.TransactionData {
	body := &wire.CryptoDeleteTransactionBody{}
	if d.AccountID != nil {
		body.DeleteAccountID = wire.NewAccountIDPtr(*d.AccountID)
	}
	if d.TransferAccountID != nil {
		body.TransferAccountID = wire.NewAccountIDPtr(*d.TransferAccountID)
	}
	return wire.TransactionData{CryptoDelete: body}
}

func (d AccountDeleteTransactionData) method() string { return wire.MethodCryptoDelete }
func (d AccountDeleteTransactionData) tag() string    { return "accountDelete" }

func (d AccountDeleteTransactionData) defaultMaxTransactionFee() ledger.Hbar {
	return ledger.NewHbar(2)
}

func (d AccountDeleteTransactionData) clone() TransactionData {
	d.AccountID = cloneAccountID(d.AccountID)
	d.TransferAccountID = cloneAccountID(d.TransferAccountID)
	return d
}

func (d AccountDeleteTransactionData) validate() error {
	if d.AccountID == nil {
		return errors.New("account delete needs an account ID")
	}
	if d.TransferAccountID == nil {
		return errors.New("account delete needs a transfer account ID")
	}
	return nil
}

// AccountDeleteTransaction deletes an account.
type AccountDeleteTransaction struct {
	Transaction[AccountDeleteTransactionData]
}

func NewAccountDeleteTransaction() *AccountDeleteTransaction {
	return &AccountDeleteTransaction{}
}

func (tx *AccountDeleteTransaction) SetAccountID(id ledger.AccountID) error {
	if err := tx.requireNotFrozen(); err != nil {
		return err
	}
	tx.data.AccountID = &id
	return nil
}

// SetTransferAccountID sets the account receiving the remaining hbars.
func (tx *AccountDeleteTransaction) SetTransferAccountID(id ledger.AccountID) error {
	if err := tx.requireNotFrozen(); err != nil {
		return err
	}
	tx.data.TransferAccountID = &id
	return nil
}
