package sdk

import (
	"errors"
	"time"

	"github.com/ledgerexec/ledgerexec/crypto"
	"github.com/ledgerexec/ledgerexec/model/ledger"
	"github.com/ledgerexec/ledgerexec/model/wire"
)

// TokenCreateTransactionData creates a fungible token. The new token ID is in the
// receipt.
type TokenCreateTransactionData struct {
	Name             string            `json:"name,omitempty"`
	Symbol           string            `json:"symbol,omitempty"`
	Decimals         uint32            `json:"decimals,omitempty"`
	InitialSupply    uint64            `json:"initialSupply,omitempty"`
	TreasuryID       *ledger.AccountID `json:"treasuryId,omitempty"`
	AdminKey         *crypto.PublicKey `json:"adminKey,omitempty"`
	SupplyKey        *crypto.PublicKey `json:"supplyKey,omitempty"`
	FreezeDefault    bool              `json:"freezeDefault,omitempty"`
	AutoRenewAccount *ledger.AccountID `json:"autoRenewAccount,omitempty"`
	AutoRenewPeriod  time.Duration     `json:"autoRenewPeriod,omitempty"`
	TokenMemo        string            `json:"tokenMemo,omitempty"`
}

var _ TransactionData = TokenCreateTransactionData{}

// maxTokenNameLength is the longest name and symbol nodes accept, in bytes.
const maxTokenNameLength = 100

func (d TokenCreateTransactionData) toWire(_ ledger.AccountID, txID ledger.TransactionID) wire.TransactionData {
	body := &wire.TokenCreateTransactionBody{
		Name:          d.Name,
		Symbol:        d.Symbol,
		Decimals:      d.Decimals,
		InitialSupply: d.InitialSupply,
		FreezeDefault: d.FreezeDefault,
		Memo:          d.TokenMemo,
	}
	if d.TreasuryID != nil {
		body.Treasury = wire.NewAccountIDPtr(*d.TreasuryID)
	}
	if d.AdminKey != nil {
		key := d.AdminKey.ToWire()
		body.AdminKey = &key
	}
	if d.SupplyKey != nil {
		key := d.SupplyKey.ToWire()
		body.SupplyKey = &key
	}

	// the payer renews the token unless told otherwise
	renewAccount := txID.AccountID
	if d.AutoRenewAccount != nil {
		renewAccount = *d.AutoRenewAccount
	}
	if !renewAccount.IsZero() {
		body.AutoRenewAccount = wire.NewAccountIDPtr(renewAccount)
		period := d.AutoRenewPeriod
		if period == 0 {
			period = DefaultAutoRenewPeriod
		}
		duration := wire.NewDuration(period)
		body.AutoRenewPeriod = &duration
	}
	return wire.TransactionData{TokenCreation: body}
}

func (d TokenCreateTransactionData) method() string { return wire.MethodTokenCreate }
func (d TokenCreateTransactionData) tag() string    { return "tokenCreate" }

func (d TokenCreateTransactionData) defaultMaxTransactionFee() ledger.Hbar {
	return ledger.NewHbar(40)
}

func (d TokenCreateTransactionData) clone() TransactionData {
	d.TreasuryID = cloneAccountID(d.TreasuryID)
	d.AdminKey = clonePtr(d.AdminKey)
	d.SupplyKey = clonePtr(d.SupplyKey)
	d.AutoRenewAccount = cloneAccountID(d.AutoRenewAccount)
	return d
}

func (d TokenCreateTransactionData) validate() error {
	switch {
	case d.Name == "":
		return errors.New("token create needs a name")
	case d.Symbol == "":
		return errors.New("token create needs a symbol")
	case len(d.Name) > maxTokenNameLength:
		return errors.New("token name is too long")
	case len(d.Symbol) > maxTokenNameLength:
		return errors.New("token symbol is too long")
	case d.TreasuryID == nil:
		return errors.New("token create needs a treasury account")
	}
	return nil
}

// TokenCreateTransaction creates a fungible token.
type TokenCreateTransaction struct {
	Transaction[TokenCreateTransactionData]
}

func NewTokenCreateTransaction() *TokenCreateTransaction {
	return &TokenCreateTransaction{}
}

func (tx *TokenCreateTransaction) SetTokenName(name string) error {
	if err := tx.requireNotFrozen(); err != nil {
		return err
	}
	tx.data.Name = name
	return nil
}

func (tx *TokenCreateTransaction) SetTokenSymbol(symbol string) error {
	if err := tx.requireNotFrozen(); err != nil {
		return err
	}
	tx.data.Symbol = symbol
	return nil
}

// SetDecimals sets the number of decimal places a token unit is divisible into.
func (tx *TokenCreateTransaction) SetDecimals(decimals uint32) error {
	if err := tx.requireNotFrozen(); err != nil {
		return err
	}
	tx.data.Decimals = decimals
	return nil
}

// SetInitialSupply sets the supply credited to the treasury, in the smallest unit.
func (tx *TokenCreateTransaction) SetInitialSupply(supply uint64) error {
	if err := tx.requireNotFrozen(); err != nil {
		return err
	}
	tx.data.InitialSupply = supply
	return nil
}

func (tx *TokenCreateTransaction) SetTreasuryAccountID(id ledger.AccountID) error {
	if err := tx.requireNotFrozen(); err != nil {
		return err
	}
	tx.data.TreasuryID = &id
	return nil
}

func (tx *TokenCreateTransaction) SetAdminKey(key crypto.PublicKey) error {
	if err := tx.requireNotFrozen(); err != nil {
		return err
	}
	tx.data.AdminKey = &key
	return nil
}

func (tx *TokenCreateTransaction) SetSupplyKey(key crypto.PublicKey) error {
	if err := tx.requireNotFrozen(); err != nil {
		return err
	}
	tx.data.SupplyKey = &key
	return nil
}

// SetFreezeDefault makes new token holders start frozen.
func (tx *TokenCreateTransaction) SetFreezeDefault(freeze bool) error {
	if err := tx.requireNotFrozen(); err != nil {
		return err
	}
	tx.data.FreezeDefault = freeze
	return nil
}

// SetAutoRenewAccount sets the account paying for renewals. It defaults to the payer.
func (tx *TokenCreateTransaction) SetAutoRenewAccount(id ledger.AccountID) error {
	if err := tx.requireNotFrozen(); err != nil {
		return err
	}
	tx.data.AutoRenewAccount = &id
	return nil
}

func (tx *TokenCreateTransaction) SetAutoRenewPeriod(period time.Duration) error {
	if err := tx.requireNotFrozen(); err != nil {
		return err
	}
	tx.data.AutoRenewPeriod = period
	return nil
}

func (tx *TokenCreateTransaction) SetTokenMemo(memo string) error {
	if err := tx.requireNotFrozen(); err != nil {
		return err
	}
	tx.data.TokenMemo = memo
	return nil
}
