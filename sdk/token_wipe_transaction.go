package sdk

import (
	"errors"
	"slices"

	"github.com/ledgerexec/ledgerexec/model/ledger"
	"github.com/ledgerexec/ledgerexec/model/wire"
)

// TokenWipeTransactionData burns tokens held by an account: an amount of a fungible
// token, or serial numbers of a non-fungible one.
type TokenWipeTransactionData struct {
	TokenID   *ledger.TokenID   `json:"tokenId,omitempty"`
	AccountID *ledger.AccountID `json:"accountId,omitempty"`
	Amount    uint64            `json:"amount,omitempty"`
	Serials   []int64           `json:"serials,omitempty"`
}

var _ TransactionData = TokenWipeTransactionData{}

func (d TokenWipeTransactionData) toWire(ledger.AccountID, ledger.TransactionID) wire.TransactionData {
	body := &wire.TokenWipeAccountTransactionBody{
		Amount:        d.Amount,
		SerialNumbers: d.Serials,
	}
	if d.TokenID != nil {
		id := wire.NewTokenID(*d.TokenID)
		body.Token = &id
	}
	if d.AccountID != nil {
		body.Account = wire.NewAccountIDPtr(*d.AccountID)
	}
	return wire.TransactionData{TokenWipe: body}
}

func (d TokenWipeTransactionData) method() string { return wire.MethodTokenWipeAccount }
func (d TokenWipeTransactionData) tag() string    { return "tokenWipe" }

func (d TokenWipeTransactionData) defaultMaxTransactionFee() ledger.Hbar {
	return ledger.NewHbar(30)
}

func (d TokenWipeTransactionData) clone() TransactionData {
	d.TokenID = clonePtr(d.TokenID)
	d.AccountID = cloneAccountID(d.AccountID)
	d.Serials = slices.Clone(d.Serials)
	return d
}

func (d TokenWipeTransactionData) validate() error {
	if d.TokenID == nil {
		return errors.New("token wipe needs a token ID")
	}
	if d.AccountID == nil {
		return errors.New("token wipe needs an account ID")
	}
	if d.Amount > 0 && len(d.Serials) > 0 {
		return errors.New("token wipe has both an amount and serial numbers")
	}
	return nil
}

// TokenWipeTransaction burns tokens held by an account.
type TokenWipeTransaction struct {
	Transaction[TokenWipeTransactionData]
}

func NewTokenWipeTransaction() *TokenWipeTransaction {
	return &TokenWipeTransaction{}
}

func (tx *TokenWipeTransaction) SetTokenID(id ledger.TokenID) error {
	if err := tx.requireNotFrozen(); err != nil {
		return err
	}
	tx.data.TokenID = &id
	return nil
}

func (tx *TokenWipeTransaction) SetAccountID(id ledger.AccountID) error {
	if err := tx.requireNotFrozen(); err != nil {
		return err
	}
	tx.data.AccountID = &id
	return nil
}

// SetAmount sets the amount of a fungible token to wipe.
func (tx *TokenWipeTransaction) SetAmount(amount uint64) error {
	if err := tx.requireNotFrozen(); err != nil {
		return err
	}
	tx.data.Amount = amount
	return nil
}

// SetSerials sets the serial numbers of a non-fungible token to wipe.
func (tx *TokenWipeTransaction) SetSerials(serials ...int64) error {
	if err := tx.requireNotFrozen(); err != nil {
		return err
	}
	tx.data.Serials = append([]int64(nil), serials...)
	return nil
}
