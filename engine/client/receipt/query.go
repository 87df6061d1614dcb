package receipt

import (
	"github.com/ledgerexec/ledgerexec/engine/client/execute"
	"github.com/ledgerexec/ledgerexec/model/ledger"
	"github.com/ledgerexec/ledgerexec/model/wire"
)

// Query fetches the receipt of a transaction from one node. It is free: receipt queries
// carry no payment.
type Query struct {
	txID  ledger.TransactionID
	nodes []ledger.AccountID
}

var _ execute.Executable[*wire.Query, *wire.Response] = (*Query)(nil)
var _ execute.StatusClassifier = (*Query)(nil)

// NewQuery returns a receipt query for txID, pinned to nodes when any are given.
func NewQuery(txID ledger.TransactionID, nodes []ledger.AccountID) *Query {
	return &Query{txID: txID, nodes: nodes}
}

func (q *Query) NodeAccountIDs() []ledger.AccountID {
	return q.nodes
}

// TransactionID is empty: the query itself is not a submission. The transaction it
// asks about is part of the request body.
func (q *Query) TransactionID() (ledger.TransactionID, bool) {
	return ledger.TransactionID{}, false
}

func (q *Query) MakeRequest(ledger.NodeIdentity, int) (*wire.Query, error) {
	return NewWireQuery(q.txID, wire.ResponseTypeAnswerOnly), nil
}

func (q *Query) NewResponse() *wire.Response {
	return &wire.Response{}
}

func (q *Query) Method() string {
	return wire.MethodGetTransactionReceipts
}

func (q *Query) ResponseStatus(resp *wire.Response) ledger.Status {
	return PrecheckStatus(resp)
}

func (q *Query) ClassifyStatus(s ledger.Status) (execute.Outcome, bool) {
	return ClassifyStatus(s)
}

// NewWireQuery renders a receipt query for txID.
func NewWireQuery(txID ledger.TransactionID, responseType wire.ResponseType) *wire.Query {
	id := wire.NewTransactionID(txID)
	return &wire.Query{TransactionGetReceipt: &wire.TransactionGetReceiptQuery{
		Header:        wire.QueryHeader{ResponseType: responseType},
		TransactionID: &id,
	}}
}

// ClassifyStatus reads the precheck statuses of receipt answers. A receipt that does
// not exist yet is a valid answer to a receipt query, not a failure of the node: the
// poller, not the engine, decides to ask again.
func ClassifyStatus(s ledger.Status) (execute.Outcome, bool) {
	switch s {
	case ledger.StatusOk, ledger.StatusReceiptNotFound, ledger.StatusUnknown:
		return execute.OutcomeAccepted, true
	default:
		return execute.Outcome{}, false
	}
}

// PrecheckStatus returns the precheck status of a receipt answer.
func PrecheckStatus(resp *wire.Response) ledger.Status {
	if resp.TransactionGetReceipt == nil {
		return ledger.StatusUnknown
	}
	return ledger.Status(resp.TransactionGetReceipt.Header.NodeTransactionPrecheckCode)
}

// FromResponse extracts the receipt of an accepted receipt answer. An answer without a
// receipt carries the precheck status instead, which is then a pending status.
func FromResponse(resp *wire.Response) ledger.Receipt {
	answer := resp.TransactionGetReceipt
	if answer == nil {
		return ledger.Receipt{Status: ledger.StatusUnknown}
	}
	if answer.Receipt == nil {
		status := ledger.Status(answer.Header.NodeTransactionPrecheckCode)
		if status == ledger.StatusOk {
			status = ledger.StatusUnknown
		}
		return ledger.Receipt{Status: status}
	}
	return answer.Receipt.ToLedger()
}
