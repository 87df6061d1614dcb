package sdk

import (
	"errors"
	"time"

	"github.com/ledgerexec/ledgerexec/crypto"
	"github.com/ledgerexec/ledgerexec/model/ledger"
	"github.com/ledgerexec/ledgerexec/model/wire"
)

// AccountUpdateTransactionData changes the properties of an account. Unset fields are
// left unchanged.
type AccountUpdateTransactionData struct {
	AccountID                 *ledger.AccountID `json:"accountId,omitempty"`
	Key                       *crypto.PublicKey `json:"key,omitempty"`
	ReceiverSignatureRequired *bool             `json:"receiverSignatureRequired,omitempty"`
	AutoRenewPeriod           *time.Duration    `json:"autoRenewPeriod,omitempty"`
	ExpirationTime            *time.Time        `json:"expirationTime,omitempty"`
	AccountMemo               *string           `json:"accountMemo,omitempty"`
}

var _ TransactionData = AccountUpdateTransactionData{}

func (d AccountUpdateTransactionData) toWire(ledger.AccountID, ledger.TransactionID) wire.TransactionData {
	body := &wire.CryptoUpdateTransactionBody{
		ReceiverSigRequired: d.ReceiverSignatureRequired,
		Memo:                d.AccountMemo,
	}
	if d.AccountID != nil {
		body.AccountIDToUpdate = wire.NewAccountIDPtr(*d.AccountID)
	}
	if d.Key != nil {
		key := d.Key.ToWire()
		body.Key = &key
	}
	if d.AutoRenewPeriod != nil {
		period := wire.NewDuration(*d.AutoRenewPeriod)
		body.AutoRenewPeriod = &period
	}
	if d.ExpirationTime != nil {
		expiration := wire.NewTimestamp(*d.ExpirationTime)
		body.ExpirationTime = &expiration
	}
	return wire.TransactionData{CryptoUpdateAccount: body}
}

func (d AccountUpdateTransactionData) method() string { return wire.MethodCryptoUpdateAccount }
func (d AccountUpdateTransactionData) tag() string    { return "accountUpdate" }

func (d AccountUpdateTransactionData) defaultMaxTransactionFee() ledger.Hbar {
	return ledger.NewHbar(2)
}

func (d AccountUpdateTransactionData) clone() TransactionData {
	d.AccountID = cloneAccountID(d.AccountID)
	d.Key = clonePtr(d.Key)
	d.ReceiverSignatureRequired = clonePtr(d.ReceiverSignatureRequired)
	d.AutoRenewPeriod = clonePtr(d.AutoRenewPeriod)
	d.ExpirationTime = clonePtr(d.ExpirationTime)
	d.AccountMemo = clonePtr(d.AccountMemo)
	return d
}

func (d AccountUpdateTransactionData) validate() error {
	if d.AccountID == nil {
		return errors.New("account update needs an account ID")
	}
	return nil
}

// AccountUpdateTransaction changes the properties of an account.
type AccountUpdateTransaction struct {
	Transaction[AccountUpdateTransactionData]
}

func NewAccountUpdateTransaction() *AccountUpdateTransaction {
	return &AccountUpdateTransaction{}
}

func (tx *AccountUpdateTransaction) SetAccountID(id ledger.AccountID) error {
	if err := tx.requireNotFrozen(); err != nil {
		return err
	}
	tx.data.AccountID = &id
	return nil
}

func (tx *AccountUpdateTransaction) SetKey(key crypto.PublicKey) error {
	if err := tx.requireNotFrozen(); err != nil {
		return err
	}
	tx.data.Key = &key
	return nil
}

func (tx *AccountUpdateTransaction) SetReceiverSignatureRequired(required bool) error {
	if err := tx.requireNotFrozen(); err != nil {
		return err
	}
	tx.data.ReceiverSignatureRequired = &required
	return nil
}

func (tx *AccountUpdateTransaction) SetAutoRenewPeriod(period time.Duration) error {
	if err := tx.requireNotFrozen(); err != nil {
		return err
	}
	tx.data.AutoRenewPeriod = &period
	return nil
}

func (tx *AccountUpdateTransaction) SetExpirationTime(expiration time.Time) error {
	if err := tx.requireNotFrozen(); err != nil {
		return err
	}
	tx.data.ExpirationTime = &expiration
	return nil
}

func (tx *AccountUpdateTransaction) SetAccountMemo(memo string) error {
	if err := tx.requireNotFrozen(); err != nil {
		return err
	}
	tx.data.AccountMemo = &memo
	return nil
}
