package execute

import (
	"time"

	"github.com/ledgerexec/ledgerexec/model/ledger"
)

// Executable is a request the engine can run: it knows which nodes may serve it, how to
// render itself for one of them and how to read the status of the answer.
//
// Req and Resp are the wire messages exchanged on Method. The engine borrows an
// Executable for the duration of one Execute call and never keeps it afterwards.
type Executable[Req, Resp any] interface {
	// NodeAccountIDs are the nodes the request is pinned to. Empty means any known node.
	NodeAccountIDs() []ledger.AccountID

	// TransactionID is the identifier of the submission, if the request has one. It is
	// read once, before the first attempt.
	TransactionID() (ledger.TransactionID, bool)

	// MakeRequest renders the wire request for one attempt against the given node.
	// attempt starts at 1. Errors are build errors and end the request.
	MakeRequest(node ledger.NodeIdentity, attempt int) (Req, error)

	// NewResponse returns an empty response to decode into.
	NewResponse() Resp

	// Method is the fully qualified gRPC method the request is sent to.
	Method() string

	// ResponseStatus returns the precheck status of a decoded response.
	ResponseStatus(resp Resp) ledger.Status
}

// StatusClassifier is implemented by requests that read some precheck statuses
// differently from the engine policy. The receipt query, for instance, treats a
// receipt that is not found yet as an answer rather than a failure.
type StatusClassifier interface {
	ClassifyStatus(s ledger.Status) (Outcome, bool)
}

// Overrider is implemented by requests carrying their own retry budget.
type Overrider interface {
	ExecutionOptions() Options
}

// Result is the accepted response of a request and where it came from.
type Result[Resp any] struct {
	Response      Resp
	Node          ledger.NodeIdentity
	TransactionID ledger.TransactionID
	Attempts      int
	Elapsed       time.Duration
}
