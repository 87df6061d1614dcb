package sdk

import (
	"errors"
	"slices"

	"github.com/ledgerexec/ledgerexec/model/ledger"
	"github.com/ledgerexec/ledgerexec/model/wire"
)

// TokenAssociateTransactionData associates an account with tokens, so that it can
// hold them.
type TokenAssociateTransactionData struct {
	AccountID *ledger.AccountID `json:"accountId,omitempty"`
	TokenIDs  []ledger.TokenID  `json:"tokenIds,omitempty"`
}

var _ TransactionData = TokenAssociateTransactionData{}

func (d TokenAssociateTransactionData) toWire(ledger.AccountID, ledger.TransactionID) wire.TransactionData {
	body := &wire.TokenAssociateTransactionBody{}
	if d.AccountID != nil {
		body.Account = wire.NewAccountIDPtr(*d.AccountID)
	}
	for _, token := range d.TokenIDs {
		body.Tokens = append(body.Tokens, wire.NewTokenID(token))
	}
	return wire.TransactionData{TokenAssociate: body}
}

func (d TokenAssociateTransactionData) method() string { return wire.MethodTokenAssociate }
func (d TokenAssociateTransactionData) tag() string    { return "tokenAssociate" }

func (d TokenAssociateTransactionData) defaultMaxTransactionFee() ledger.Hbar {
	return ledger.NewHbar(5)
}

func (d TokenAssociateTransactionData) clone() TransactionData {
	d.AccountID = cloneAccountID(d.AccountID)
	d.TokenIDs = slices.Clone(d.TokenIDs)
	return d
}

func (d TokenAssociateTransactionData) validate() error {
	if d.AccountID == nil {
		return errors.New("token associate needs an account ID")
	}
	if len(d.TokenIDs) == 0 {
		return errors.New("token associate needs at least one token ID")
	}
	return nil
}

// TokenAssociateTransaction associates an account with tokens.
type TokenAssociateTransaction struct {
	Transaction[TokenAssociateTransactionData]
}

func NewTokenAssociateTransaction() *TokenAssociateTransaction {
	return &TokenAssociateTransaction{}
}

func (tx *TokenAssociateTransaction) SetAccountID(id ledger.AccountID) error {
	if err := tx.requireNotFrozen(); err != nil {
		return err
	}
	tx.data.AccountID = &id
	return nil
}

func (tx *TokenAssociateTransaction) SetTokenIDs(ids ...ledger.TokenID) error {
	if err := tx.requireNotFrozen(); err != nil {
		return err
	}
	tx.data.TokenIDs = append([]ledger.TokenID(nil), ids...)
	return nil
}
