package sdk

import (
	"errors"
	"fmt"

	"github.com/ledgerexec/ledgerexec/engine/client/execute"
	"github.com/ledgerexec/ledgerexec/engine/client/receipt"
	"github.com/ledgerexec/ledgerexec/model/ledger"
	"github.com/ledgerexec/ledgerexec/model/wire"
)

// TransactionReceiptQueryData asks once for the receipt of a transaction. A pending
// receipt is a valid answer: waiting until it is final is the job of
// TransactionResponse.GetReceipt.
type TransactionReceiptQueryData struct {
	TransactionID *ledger.TransactionID `json:"transactionId,omitempty"`
}

var _ QueryData[ledger.Receipt] = TransactionReceiptQueryData{}

func (d TransactionReceiptQueryData) toWire(header wire.QueryHeader) *wire.Query {
	if d.TransactionID == nil {
		return &wire.Query{TransactionGetReceipt: &wire.TransactionGetReceiptQuery{Header: header}}
	}
	q := receipt.NewWireQuery(*d.TransactionID, header.ResponseType)
	q.TransactionGetReceipt.Header = header
	return q
}

func (d TransactionReceiptQueryData) method() string        { return wire.MethodGetTransactionReceipts }
func (d TransactionReceiptQueryData) paymentRequired() bool { return false }
func (d TransactionReceiptQueryData) tag() string           { return "transactionReceipt" }

func (d TransactionReceiptQueryData) clone() QueryData[ledger.Receipt] {
	if d.TransactionID != nil {
		id := *d.TransactionID
		id.AccountID = id.AccountID.Clone()
		d.TransactionID = &id
	}
	return d
}

func (d TransactionReceiptQueryData) cloneVariant() anyQueryVariant {
	return d.clone().(TransactionReceiptQueryData)
}

func (d TransactionReceiptQueryData) validate() error {
	if d.TransactionID == nil {
		return errors.New("transaction receipt query needs a transaction ID")
	}
	return nil
}

func (d TransactionReceiptQueryData) classifyStatus(s ledger.Status) (execute.Outcome, bool) {
	return receipt.ClassifyStatus(s)
}

func (d TransactionReceiptQueryData) mapResponse(resp *wire.Response) (ledger.Receipt, error) {
	if resp.TransactionGetReceipt == nil {
		return ledger.Receipt{}, fmt.Errorf("expected a transaction receipt answer")
	}
	return receipt.FromResponse(resp), nil
}

func (d TransactionReceiptQueryData) mapAnyResponse(resp *wire.Response) (AnyQueryResponse, error) {
	result, err := d.mapResponse(resp)
	if err != nil {
		return AnyQueryResponse{}, err
	}
	return AnyQueryResponse{Receipt: &result}, nil
}

// TransactionReceiptQuery gets the current receipt of a transaction, pending or not.
type TransactionReceiptQuery struct {
	Query[TransactionReceiptQueryData, ledger.Receipt]
}

func NewTransactionReceiptQuery() *TransactionReceiptQuery {
	return &TransactionReceiptQuery{}
}

func (q *TransactionReceiptQuery) SetTransactionID(id ledger.TransactionID) *TransactionReceiptQuery {
	q.data.TransactionID = &id
	return q
}
