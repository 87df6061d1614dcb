package sdk

import (
	"errors"
	"slices"
	"time"

	"github.com/ledgerexec/ledgerexec/crypto"
	"github.com/ledgerexec/ledgerexec/model/ledger"
	"github.com/ledgerexec/ledgerexec/model/wire"
)

// DefaultAutoRenewPeriod is the auto renew period of new accounts, about 90 days.
const DefaultAutoRenewPeriod = 7_776_000 * time.Second

// AccountCreateTransactionData creates an account.
type AccountCreateTransactionData struct {
	Key                           *crypto.PublicKey `json:"key,omitempty"`
	InitialBalance                ledger.Hbar       `json:"initialBalance,omitempty"`
	ReceiverSignatureRequired     bool              `json:"receiverSignatureRequired,omitempty"`
	AutoRenewPeriod               time.Duration     `json:"autoRenewPeriod,omitempty"`
	AccountMemo                   string            `json:"accountMemo,omitempty"`
	MaxAutomaticTokenAssociations int32             `json:"maxAutomaticTokenAssociations,omitempty"`
	Alias                         []byte            `json:"alias,omitempty"`
}

var _ TransactionData = AccountCreateTransactionData{}

func (d AccountCreateTransactionData) toWire(ledger.AccountID, ledger.TransactionID) wire.TransactionData {
	body := &wire.CryptoCreateTransactionBody{
		InitialBalance:                uint64(d.InitialBalance.Tinybars()),
		ReceiverSigRequired:           d.ReceiverSignatureRequired,
		Memo:                          d.AccountMemo,
		MaxAutomaticTokenAssociations: d.MaxAutomaticTokenAssociations,
		Alias:                         d.Alias,
	}
	if d.Key != nil {
		key := d.Key.ToWire()
		body.Key = &key
	}
	period := d.AutoRenewPeriod
	if period == 0 {
		period = DefaultAutoRenewPeriod
	}
	duration := wire.NewDuration(period)
	body.AutoRenewPeriod = &duration
	return wire.TransactionData{CryptoCreateAccount: body}
}

func (d AccountCreateTransactionData) method() string { return wire.MethodCryptoCreateAccount }
func (d AccountCreateTransactionData) tag() string    { return "accountCreate" }

func (d AccountCreateTransactionData) defaultMaxTransactionFee() ledger.Hbar {
	return ledger.NewHbar(5)
}

func (d AccountCreateTransactionData) clone() TransactionData {
	d.Key = clonePtr(d.Key)
	d.Alias = slices.Clone(d.Alias)
	return d
}

func (d AccountCreateTransactionData) validate() error {
	if d.Key == nil && len(d.Alias) == 0 {
		return errors.New("account create needs a key or an alias")
	}
	if d.InitialBalance < 0 {
		return errors.New("initial balance cannot be negative")
	}
	return nil
}

// AccountCreateTransaction creates an account. The new account ID is in the receipt.
type AccountCreateTransaction struct {
	Transaction[AccountCreateTransactionData]
}

func NewAccountCreateTransaction() *AccountCreateTransaction {
	return &AccountCreateTransaction{}
}

func (tx *AccountCreateTransaction) SetKey(key crypto.PublicKey) error {
	if err := tx.requireNotFrozen(); err != nil {
		return err
	}
	tx.data.Key = &key
	return nil
}

func (tx *AccountCreateTransaction) SetInitialBalance(balance ledger.Hbar) error {
	if err := tx.requireNotFrozen(); err != nil {
		return err
	}
	tx.data.InitialBalance = balance
	return nil
}

func (tx *AccountCreateTransaction) SetReceiverSignatureRequired(required bool) error {
	if err := tx.requireNotFrozen(); err != nil {
		return err
	}
	tx.data.ReceiverSignatureRequired = required
	return nil
}

func (tx *AccountCreateTransaction) SetAutoRenewPeriod(period time.Duration) error {
	if err := tx.requireNotFrozen(); err != nil {
		return err
	}
	tx.data.AutoRenewPeriod = period
	return nil
}

func (tx *AccountCreateTransaction) SetAccountMemo(memo string) error {
	if err := tx.requireNotFrozen(); err != nil {
		return err
	}
	tx.data.AccountMemo = memo
	return nil
}

func (tx *AccountCreateTransaction) SetMaxAutomaticTokenAssociations(n int32) error {
	if err := tx.requireNotFrozen(); err != nil {
		return err
	}
	tx.data.MaxAutomaticTokenAssociations = n
	return nil
}

// SetAlias creates the account under an EVM address or public key alias.
func (tx *AccountCreateTransaction) SetAlias(alias []byte) error {
	if err := tx.requireNotFrozen(); err != nil {
		return err
	}
	tx.data.Alias = append([]byte(nil), alias...)
	return nil
}
