package wire

import (
	"time"

	"github.com/ledgerexec/ledgerexec/model/ledger"
)

func NewAccountID(id ledger.AccountID) AccountID {
	return AccountID{
		ShardNum:   int64(id.Shard),
		RealmNum:   int64(id.Realm),
		AccountNum: int64(id.Num),
		Alias:      id.Alias,
	}
}

// NewAccountIDPtr returns nil for the zero account ID, which is how optional account
// fields are left unset on the wire.
func NewAccountIDPtr(id ledger.AccountID) *AccountID {
	if id.IsZero() {
		return nil
	}
	w := NewAccountID(id)
	return &w
}

func (id *AccountID) ToLedger() ledger.AccountID {
	if id == nil {
		return ledger.AccountID{}
	}
	return ledger.AccountID{
		Shard: uint64(id.ShardNum),
		Realm: uint64(id.RealmNum),
		Num:   uint64(id.AccountNum),
		Alias: id.Alias,
	}
}

func NewContractID(id ledger.ContractID) ContractID {
	return ContractID{
		ShardNum:    int64(id.Shard),
		RealmNum:    int64(id.Realm),
		ContractNum: int64(id.Num),
		EvmAddress:  id.EvmAddress,
	}
}

func (id *ContractID) ToLedger() ledger.ContractID {
	if id == nil {
		return ledger.ContractID{}
	}
	return ledger.ContractID{
		Shard:      uint64(id.ShardNum),
		Realm:      uint64(id.RealmNum),
		Num:        uint64(id.ContractNum),
		EvmAddress: id.EvmAddress,
	}
}

func NewFileID(id ledger.FileID) FileID {
	return FileID{ShardNum: int64(id.Shard), RealmNum: int64(id.Realm), FileNum: int64(id.Num)}
}

func (id *FileID) ToLedger() ledger.FileID {
	if id == nil {
		return ledger.FileID{}
	}
	return ledger.NewFileID(uint64(id.ShardNum), uint64(id.RealmNum), uint64(id.FileNum))
}

func NewTokenID(id ledger.TokenID) TokenID {
	return TokenID{ShardNum: int64(id.Shard), RealmNum: int64(id.Realm), TokenNum: int64(id.Num)}
}

func (id *TokenID) ToLedger() ledger.TokenID {
	if id == nil {
		return ledger.TokenID{}
	}
	return ledger.NewTokenID(uint64(id.ShardNum), uint64(id.RealmNum), uint64(id.TokenNum))
}

func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Seconds: t.Unix(), Nanos: int32(t.Nanosecond())}
}

func (ts Timestamp) ToTime() time.Time {
	return time.Unix(ts.Seconds, int64(ts.Nanos)).UTC()
}

func NewDuration(d time.Duration) Duration {
	return Duration{Seconds: int64(d / time.Second)}
}

func (d Duration) ToDuration() time.Duration {
	return time.Duration(d.Seconds) * time.Second
}

func NewTransactionID(id ledger.TransactionID) TransactionID {
	return TransactionID{
		TransactionValidStart: NewTimestamp(id.ValidStart),
		AccountID:             NewAccountID(id.AccountID),
		Scheduled:             id.Scheduled,
		Nonce:                 id.Nonce,
	}
}

func (id *TransactionID) ToLedger() ledger.TransactionID {
	if id == nil {
		return ledger.TransactionID{}
	}
	return ledger.TransactionID{
		AccountID:  id.AccountID.ToLedger(),
		ValidStart: id.TransactionValidStart.ToTime(),
		Scheduled:  id.Scheduled,
		Nonce:      id.Nonce,
	}
}

// NewTransferList converts hbar transfers, keeping their order.
func NewTransferList(transfers []ledger.Transfer) TransferList {
	list := TransferList{AccountAmounts: make([]AccountAmount, 0, len(transfers))}
	for _, transfer := range transfers {
		list.AccountAmounts = append(list.AccountAmounts, AccountAmount{
			AccountID: NewAccountID(transfer.AccountID),
			Amount:    transfer.Amount.Tinybars(),
		})
	}
	return list
}

func (l TransferList) ToLedger() []ledger.Transfer {
	transfers := make([]ledger.Transfer, 0, len(l.AccountAmounts))
	for _, amount := range l.AccountAmounts {
		transfers = append(transfers, ledger.Transfer{
			AccountID: amount.AccountID.ToLedger(),
			Amount:    ledger.HbarFromTinybar(amount.Amount),
		})
	}
	return transfers
}

func (r *ExchangeRate) ToLedger() *ledger.ExchangeRate {
	if r == nil {
		return nil
	}
	return &ledger.ExchangeRate{
		Hbars:          r.HbarEquiv,
		Cents:          r.CentEquiv,
		ExpirationTime: r.ExpirationTime.ToTime(),
	}
}

func NewTransactionReceipt(receipt ledger.Receipt) *TransactionReceipt {
	w := &TransactionReceipt{
		Status:         int32(receipt.Status),
		NewTotalSupply: receipt.TotalSupply,
	}
	if receipt.AccountID != nil {
		id := NewAccountID(*receipt.AccountID)
		w.AccountID = &id
	}
	if receipt.FileID != nil {
		id := NewFileID(*receipt.FileID)
		w.FileID = &id
	}
	if receipt.ContractID != nil {
		id := NewContractID(*receipt.ContractID)
		w.ContractID = &id
	}
	if receipt.TokenID != nil {
		id := NewTokenID(*receipt.TokenID)
		w.TokenID = &id
	}
	if receipt.ExchangeRate != nil {
		w.ExchangeRate = &ExchangeRate{
			HbarEquiv:      receipt.ExchangeRate.Hbars,
			CentEquiv:      receipt.ExchangeRate.Cents,
			ExpirationTime: NewTimestamp(receipt.ExchangeRate.ExpirationTime),
		}
	}
	return w
}

func (r *TransactionReceipt) ToLedger() ledger.Receipt {
	if r == nil {
		return ledger.Receipt{Status: ledger.StatusUnknown}
	}
	receipt := ledger.Receipt{
		Status:       ledger.Status(r.Status),
		TotalSupply:  r.NewTotalSupply,
		ExchangeRate: r.ExchangeRate.ToLedger(),
	}
	if r.AccountID != nil {
		id := r.AccountID.ToLedger()
		receipt.AccountID = &id
	}
	if r.FileID != nil {
		id := r.FileID.ToLedger()
		receipt.FileID = &id
	}
	if r.ContractID != nil {
		id := r.ContractID.ToLedger()
		receipt.ContractID = &id
	}
	if r.TokenID != nil {
		id := r.TokenID.ToLedger()
		receipt.TokenID = &id
	}
	return receipt
}

func (r *TransactionRecord) ToLedger() ledger.TransactionRecord {
	record := ledger.TransactionRecord{
		Receipt:            r.Receipt.ToLedger(),
		TransactionHash:    r.TransactionHash,
		ConsensusTimestamp: r.ConsensusTimestamp.ToTime(),
		TransactionID:      r.TransactionID.ToLedger(),
		Memo:               r.Memo,
		TransactionFee:     ledger.HbarFromTinybar(int64(r.TransactionFee)),
		Transfers:          r.TransferList.ToLedger(),
	}
	if len(r.TokenTransferLists) > 0 {
		record.TokenTransfers = make(map[ledger.TokenID][]ledger.TokenTransfer, len(r.TokenTransferLists))
		for _, list := range r.TokenTransferLists {
			token := list.Token.ToLedger()
			for _, amount := range list.Transfers {
				record.TokenTransfers[token] = append(record.TokenTransfers[token], ledger.TokenTransfer{
					AccountID: amount.AccountID.ToLedger(),
					Amount:    amount.Amount,
				})
			}
		}
	}
	return record
}

func (r *CryptoGetAccountBalanceResponse) ToLedger() ledger.AccountBalance {
	balance := ledger.AccountBalance{
		AccountID: r.AccountID.ToLedger(),
		Hbars:     ledger.HbarFromTinybar(int64(r.Balance)),
		Tokens:    make(map[ledger.TokenID]uint64, len(r.TokenBalances)),
	}
	for _, token := range r.TokenBalances {
		balance.Tokens[token.TokenID.ToLedger()] = token.Balance
	}
	return balance
}
