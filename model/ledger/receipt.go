package ledger

import (
	"time"
)

// Receipt is the consensus outcome of a transaction.
//
// A receipt only exists once the network has reached consensus on the transaction; from
// then on it never changes, so callers may cache it.
type Receipt struct {
	Status Status

	// Set depending on the kind of transaction that produced the receipt.
	AccountID   *AccountID
	FileID      *FileID
	ContractID  *ContractID
	TokenID     *TokenID
	TotalSupply uint64

	ExchangeRate *ExchangeRate
}

// ExchangeRate is the hbar to cent rate in effect when a receipt was produced.
type ExchangeRate struct {
	Hbars          int32
	Cents          int32
	ExpirationTime time.Time
}

// TransactionRecord is the full record of a processed transaction.
type TransactionRecord struct {
	Receipt            Receipt
	TransactionHash    []byte
	ConsensusTimestamp time.Time
	TransactionID      TransactionID
	Memo               string
	TransactionFee     Hbar
	Transfers          []Transfer
	TokenTransfers     map[TokenID][]TokenTransfer
}

// Transfer is a signed hbar balance change of one account.
type Transfer struct {
	AccountID AccountID
	Amount    Hbar
}

// TokenTransfer is a signed token balance change of one account.
type TokenTransfer struct {
	AccountID AccountID
	Amount    int64
}

// AccountBalance is the balance of an account or contract.
type AccountBalance struct {
	AccountID AccountID
	Hbars     Hbar
	Tokens    map[TokenID]uint64
}

// FileContents is the content of a stored file.
type FileContents struct {
	FileID   FileID
	Contents []byte
}
