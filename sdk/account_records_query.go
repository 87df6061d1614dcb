package sdk

import (
	"errors"
	"fmt"

	"github.com/ledgerexec/ledgerexec/model/ledger"
	"github.com/ledgerexec/ledgerexec/model/wire"
)

// AccountRecordsQueryData asks for the records of the recent transactions of an
// account.
type AccountRecordsQueryData struct {
	AccountID *ledger.AccountID `json:"accountId,omitempty"`
}

var _ QueryData[[]ledger.TransactionRecord] = AccountRecordsQueryData{}

func (d AccountRecordsQueryData) toWire(header wire.QueryHeader) *wire.Query {
	q := &wire.CryptoGetAccountRecordsQuery{Header: header}
	if d.AccountID != nil {
		q.AccountID = wire.NewAccountIDPtr(*d.AccountID)
	}
	return &wire.Query{CryptoGetAccountRecords: q}
}

func (d AccountRecordsQueryData) method() string        { return wire.MethodCryptoGetAccountRecords }
func (d AccountRecordsQueryData) paymentRequired() bool { return true }
func (d AccountRecordsQueryData) tag() string           { return "accountRecords" }

func (d AccountRecordsQueryData) clone() QueryData[[]ledger.TransactionRecord] {
	d.AccountID = cloneAccountID(d.AccountID)
	return d
}

func (d AccountRecordsQueryData) cloneVariant() anyQueryVariant {
	return d.clone().(AccountRecordsQueryData)
}

func (d AccountRecordsQueryData) validate() error {
	if d.AccountID == nil {
		return errors.New("account records query needs an account ID")
	}
	return nil
}

func (d AccountRecordsQueryData) mapResponse(resp *wire.Response) ([]ledger.TransactionRecord, error) {
	if resp.CryptoGetAccountRecords == nil {
		return nil, fmt.Errorf("expected an account records answer")
	}
	records := make([]ledger.TransactionRecord, 0, len(resp.CryptoGetAccountRecords.Records))
	for i := range resp.CryptoGetAccountRecords.Records {
		records = append(records, resp.CryptoGetAccountRecords.Records[i].ToLedger())
	}
	return records, nil
}

func (d AccountRecordsQueryData) mapAnyResponse(resp *wire.Response) (AnyQueryResponse, error) {
	records, err := d.mapResponse(resp)
	if err != nil {
		return AnyQueryResponse{}, err
	}
	return AnyQueryResponse{AccountRecords: records}, nil
}

// AccountRecordsQuery gets the records of the recent transactions of an account.
type AccountRecordsQuery struct {
	Query[AccountRecordsQueryData, []ledger.TransactionRecord]
}

func NewAccountRecordsQuery() *AccountRecordsQuery {
	return &AccountRecordsQuery{}
}

func (q *AccountRecordsQuery) SetAccountID(id ledger.AccountID) *AccountRecordsQuery {
	q.data.AccountID = &id
	return q
}
