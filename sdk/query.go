package sdk

import (
	"context"
	"fmt"
	"time"

	clienterrors "github.com/ledgerexec/ledgerexec/engine/client/errors"
	"github.com/ledgerexec/ledgerexec/engine/client/execute"
	"github.com/ledgerexec/ledgerexec/model/ledger"
	"github.com/ledgerexec/ledgerexec/model/wire"
)

// QueryData is the body of a query of type R. The set of implementations is closed:
// they are the *QueryData types of this package.
type QueryData[R any] interface {
	// toWire renders the query around the given header.
	toWire(header wire.QueryHeader) *wire.Query
	method() string
	// paymentRequired reports whether nodes charge for the answer.
	paymentRequired() bool
	mapResponse(resp *wire.Response) (R, error)
	validate() error
	tag() string
	// clone returns a copy sharing no memory with the receiver.
	clone() QueryData[R]
}

// statusClassifier is implemented by query bodies that read some precheck statuses
// differently from the engine policy.
type statusClassifier interface {
	classifyStatus(s ledger.Status) (execute.Outcome, bool)
}

// Query is a read request answered by a single node.
//
// Paid queries carry a payment transfer from the client operator to the answering
// node. Unless set explicitly, the payment is the cost reported by the network, which
// must not be above the maximum query payment.
type Query[D QueryData[R], R any] struct {
	data           D
	nodeAccountIDs []ledger.AccountID
	payment        *ledger.Hbar
	maxPayment     *ledger.Hbar
	options        execute.Options
}

// Data returns a copy of the body. Changing it has no effect on the query.
func (q *Query[D, R]) Data() D {
	return q.data.clone().(D)
}

// SetNodeAccountIDs pins the query to the given nodes, tried in order.
func (q *Query[D, R]) SetNodeAccountIDs(ids ...ledger.AccountID) {
	q.nodeAccountIDs = append([]ledger.AccountID(nil), ids...)
}

func (q *Query[D, R]) NodeAccountIDs() []ledger.AccountID {
	return cloneAccountIDs(q.nodeAccountIDs)
}

// SetQueryPayment sets the payment attached to paid queries, skipping the cost query.
func (q *Query[D, R]) SetQueryPayment(amount ledger.Hbar) {
	q.payment = &amount
}

// SetMaxQueryPayment overrides the client maximum query payment for this query.
func (q *Query[D, R]) SetMaxQueryPayment(amount ledger.Hbar) {
	q.maxPayment = &amount
}

// SetMaxAttempts overrides the engine attempt budget for this query.
func (q *Query[D, R]) SetMaxAttempts(n int) {
	q.options.MaxAttempts = n
}

// SetRequestTimeout overrides the engine time budget for this query.
func (q *Query[D, R]) SetRequestTimeout(d time.Duration) {
	q.options.MaxElapsed = d
}

// GetCost asks the network how much answering the query costs. Free queries cost 0.
func (q *Query[D, R]) GetCost(ctx context.Context, client *Client) (ledger.Hbar, error) {
	err := q.data.validate()
	if err != nil {
		return 0, clienterrors.NewBuildError(err)
	}
	if !q.data.paymentRequired() {
		return 0, nil
	}

	x := &queryExecutable[D, R]{query: q, responseType: wire.ResponseTypeCostAnswer}
	if operator := client.Operator(); operator != nil {
		// nodes want a payment transaction on cost queries too, but do not charge it
		x.payer = operator
		x.paymentTxID = ledger.GenerateTransactionID(operator.AccountID)
	}

	result, err := execute.Execute[*wire.Query, *wire.Response](ctx, client.engine, x)
	if err != nil {
		return 0, fmt.Errorf("could not get cost of %s query: %w", q.data.tag(), err)
	}
	header := result.Response.Header()
	if header == nil {
		return 0, fmt.Errorf("cost answer of %s query has no header", q.data.tag())
	}
	return ledger.HbarFromTinybar(int64(header.Cost)), nil
}

// Execute runs the query and returns the mapped answer.
//
// Expected errors, besides the engine errors:
//   - BuildError if the query is incomplete, or paid and the client has no operator
//   - MaxQueryPaymentExceededError if the cost is above the maximum payment
func (q *Query[D, R]) Execute(ctx context.Context, client *Client) (R, error) {
	var empty R

	err := q.data.validate()
	if err != nil {
		return empty, clienterrors.NewBuildError(err)
	}

	x := &queryExecutable[D, R]{query: q, responseType: wire.ResponseTypeAnswerOnly}
	if q.data.paymentRequired() {
		operator := client.Operator()
		if operator == nil {
			return empty, clienterrors.NewBuildErrorf("%s query requires a payment but the client has no operator", q.data.tag())
		}
		payment, err := q.paymentAmount(ctx, client)
		if err != nil {
			return empty, err
		}
		x.payer = operator
		x.payment = payment
		x.paymentTxID = ledger.GenerateTransactionID(operator.AccountID)
	}

	result, err := execute.Execute[*wire.Query, *wire.Response](ctx, client.engine, x)
	if err != nil {
		return empty, err
	}
	return q.data.mapResponse(result.Response)
}

func (q *Query[D, R]) paymentAmount(ctx context.Context, client *Client) (ledger.Hbar, error) {
	if q.payment != nil {
		return *q.payment, nil
	}

	cost, err := q.GetCost(ctx, client)
	if err != nil {
		return 0, err
	}
	max := client.config.MaxQueryPayment
	if q.maxPayment != nil {
		max = *q.maxPayment
	}
	if cost > max {
		return 0, clienterrors.NewMaxQueryPaymentExceededError(q.data.tag(), cost, max)
	}
	return cost, nil
}

// queryExecutable runs one execution of a query: either its cost query or the query
// itself, with the payment decided for that execution.
type queryExecutable[D QueryData[R], R any] struct {
	query        *Query[D, R]
	responseType wire.ResponseType

	payer       *Operator
	payment     ledger.Hbar
	paymentTxID ledger.TransactionID
	payments    map[string]*wire.Transaction // by node account key
}

func (x *queryExecutable[D, R]) NodeAccountIDs() []ledger.AccountID {
	return x.query.nodeAccountIDs
}

// TransactionID is the ID of the payment transaction, when the query is paid.
func (x *queryExecutable[D, R]) TransactionID() (ledger.TransactionID, bool) {
	return x.paymentTxID, x.payer != nil
}

// MakeRequest renders a fresh header for every attempt. The payment to a given node
// is built once, so retries against it pay with the same transaction.
func (x *queryExecutable[D, R]) MakeRequest(node ledger.NodeIdentity, _ int) (*wire.Query, error) {
	header := wire.QueryHeader{ResponseType: x.responseType}
	if x.payer != nil {
		payment, err := x.paymentFor(node.AccountID)
		if err != nil {
			return nil, err
		}
		header.Payment = payment
	}
	return x.query.data.toWire(header), nil
}

func (x *queryExecutable[D, R]) paymentFor(node ledger.AccountID) (*wire.Transaction, error) {
	if payment, ok := x.payments[node.Key()]; ok {
		return payment, nil
	}
	payment, err := newQueryPayment(x.payer, node, x.payment, x.paymentTxID)
	if err != nil {
		return nil, fmt.Errorf("could not build query payment: %w", err)
	}
	if x.payments == nil {
		x.payments = make(map[string]*wire.Transaction)
	}
	x.payments[node.Key()] = payment
	return payment, nil
}

func (x *queryExecutable[D, R]) NewResponse() *wire.Response {
	return &wire.Response{}
}

func (x *queryExecutable[D, R]) Method() string {
	return x.query.data.method()
}

func (x *queryExecutable[D, R]) ResponseStatus(resp *wire.Response) ledger.Status {
	header := resp.Header()
	if header == nil {
		return ledger.StatusUnknown
	}
	return ledger.Status(header.NodeTransactionPrecheckCode)
}

func (x *queryExecutable[D, R]) ClassifyStatus(s ledger.Status) (execute.Outcome, bool) {
	if classifier, ok := any(x.query.data).(statusClassifier); ok {
		return classifier.classifyStatus(s)
	}
	return execute.Outcome{}, false
}

func (x *queryExecutable[D, R]) ExecutionOptions() execute.Options {
	return x.query.options
}

// newQueryPayment renders the transfer paying node for answering a query.
func newQueryPayment(payer *Operator, node ledger.AccountID, amount ledger.Hbar, txID ledger.TransactionID) (*wire.Transaction, error) {
	tx := NewTransferTransaction()
	tx.data.addHbarTransfer(payer.AccountID, amount.Negated())
	tx.data.addHbarTransfer(node, amount)
	tx.transactionID = txID
	tx.nodeAccountIDs = []ledger.AccountID{node}
	tx.memo = "query payment"

	err := tx.Freeze()
	if err != nil {
		return nil, err
	}
	tx.Sign(payer.Signer)
	return tx.signedTransaction(node)
}
