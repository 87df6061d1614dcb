package sdk

import (
	"errors"

	"github.com/ledgerexec/ledgerexec/model/ledger"
	"github.com/ledgerexec/ledgerexec/model/wire"
)

// ContractDeleteTransactionData deletes a contract, moving its remaining hbars to an
// account or to another contract.
type ContractDeleteTransactionData struct {
	ContractID         *ledger.ContractID `json:"contractId,omitempty"`
	TransferAccountID  *ledger.AccountID  `json:"transferAccountId,omitempty"`
	TransferContractID *ledger.ContractID `json:"transferContractId,omitempty"`
}

var _ TransactionData = ContractDeleteTransactionData{}

func (d ContractDeleteTransactionData) toWire(ledger.AccountID, ledger.TransactionID) wire.TransactionData {
	body := &wire.ContractDeleteTransactionBody{}
	if d.ContractID != nil {
		id := wire.NewContractID(*d.ContractID)
		body.ContractID = &id
	}
	if d.TransferAccountID != nil {
		body.TransferAccountID = wire.NewAccountIDPtr(*d.TransferAccountID)
	}
	if d.TransferContractID != nil {
		id := wire.NewContractID(*d.TransferContractID)
		body.TransferContractID = &id
	}
	return wire.TransactionData{ContractDeleteInstance: body}
}

func (d ContractDeleteTransactionData) method() string { return wire.MethodContractDelete }
func (d ContractDeleteTransactionData) tag() string    { return "contractDelete" }

func (d ContractDeleteTransactionData) defaultMaxTransactionFee() ledger.Hbar {
	return ledger.NewHbar(2)
}

func (d ContractDeleteTransactionData) clone() TransactionData {
	d.ContractID = cloneContractID(d.ContractID)
	d.TransferAccountID = cloneAccountID(d.TransferAccountID)
	d.TransferContractID = cloneContractID(d.TransferContractID)
	return d
}

func (d ContractDeleteTransactionData) validate() error {
	if d.ContractID == nil {
		return errors.New("contract delete needs a contract ID")
	}
	if d.TransferAccountID != nil && d.TransferContractID != nil {
		return errors.New("contract delete has both a transfer account and a transfer contract")
	}
	return nil
}

// ContractDeleteTransaction deletes a contract.
type ContractDeleteTransaction struct {
	Transaction[ContractDeleteTransactionData]
}

func NewContractDeleteTransaction() *ContractDeleteTransaction {
	return &ContractDeleteTransaction{}
}

func (tx *ContractDeleteTransaction) SetContractID(id ledger.ContractID) error {
	if err := tx.requireNotFrozen(); err != nil {
		return err
	}
	tx.data.ContractID = &id
	return nil
}

// SetTransferAccountID sends the remaining hbars to an account, replacing any
// transfer contract.
func (tx *ContractDeleteTransaction) SetTransferAccountID(id ledger.AccountID) error {
	if err := tx.requireNotFrozen(); err != nil {
		return err
	}
	tx.data.TransferAccountID = &id
	tx.data.TransferContractID = nil
	return nil
}

// SetTransferContractID sends the remaining hbars to a contract, replacing any
// transfer account.
func (tx *ContractDeleteTransaction) SetTransferContractID(id ledger.ContractID) error {
	if err := tx.requireNotFrozen(); err != nil {
		return err
	}
	tx.data.TransferContractID = &id
	tx.data.TransferAccountID = nil
	return nil
}
