package execute

import (
	"errors"

	"github.com/sony/gobreaker"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/ledgerexec/ledgerexec/model/ledger"
)

// Policy maps what a node answered to what the engine does next.
//
// Statuses are the precheck codes found in responses. Codes are the gRPC codes of failed
// calls. Anything not listed is terminal.
type Policy struct {
	Statuses map[ledger.Status]Outcome
	Codes    map[codes.Code]Outcome
}

// DefaultPolicy returns the retry policy used by the client.
//
//	OK, SUCCESS                        accepted
//	BUSY                               busy: backoff, next node
//	PLATFORM_TRANSACTION_NOT_CREATED   transient on node: backoff, next node
//	PLATFORM_NOT_ACTIVE                transient on node: backoff, next node
//	UNKNOWN                            transient on request: backoff, same node
//	INVALID_NODE_ACCOUNT               unreachable: the address book is stale for this node
//	gRPC Unavailable                   unreachable
//	gRPC ResourceExhausted             busy (client rate limit, or node throttling)
//	gRPC DeadlineExceeded              transient on node (attempt timeout)
//	gRPC Internal, Unknown, Aborted    transient on node
//	open circuit breaker               unreachable
func DefaultPolicy() Policy {
	return Policy{
		Statuses: map[ledger.Status]Outcome{
			ledger.StatusOk:                            OutcomeAccepted,
			ledger.StatusSuccess:                       OutcomeAccepted,
			ledger.StatusBusy:                          OutcomeBusy,
			ledger.StatusPlatformTransactionNotCreated: OutcomeNodeLocal,
			ledger.StatusPlatformNotActive:             OutcomeNodeLocal,
			ledger.StatusUnknown:                       OutcomeRequestLocal,
			ledger.StatusInvalidNodeAccount:            OutcomeUnreachable,
		},
		Codes: map[codes.Code]Outcome{
			codes.Unavailable:       OutcomeUnreachable,
			codes.ResourceExhausted: OutcomeBusy,
			codes.DeadlineExceeded:  OutcomeNodeLocal,
			codes.Internal:          OutcomeNodeLocal,
			codes.Unknown:           OutcomeNodeLocal,
			codes.Aborted:           OutcomeNodeLocal,
		},
	}
}

// ClassifyStatus classifies a response carrying the given precheck status.
func (p Policy) ClassifyStatus(s ledger.Status) Outcome {
	if outcome, ok := p.Statuses[s]; ok {
		return outcome
	}
	return OutcomeTerminal
}

// ClassifyError classifies a failed call.
func (p Policy) ClassifyError(err error) Outcome {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return OutcomeUnreachable
	}

	st, ok := status.FromError(err)
	if !ok {
		// not a gRPC error: the call never reached the network
		return OutcomeUnreachable
	}
	if outcome, ok := p.Codes[st.Code()]; ok {
		return outcome
	}
	return OutcomeTerminal
}
