package execute

import "fmt"

// OutcomeKind is how the engine reacts to one attempt.
type OutcomeKind int

const (
	// Accepted ends the request with the response of the node.
	Accepted OutcomeKind = iota
	// NodeBusy waits for a backoff and moves on to the next node.
	NodeBusy
	// TransientFailure waits for a backoff, then retries on the next node or on the same
	// one depending on the scope.
	TransientFailure
	// TerminalFailure ends the request with an error.
	TerminalFailure
	// Unreachable moves on to the next node immediately and never tries this node again
	// within the same request.
	Unreachable
)

func (k OutcomeKind) String() string {
	switch k {
	case Accepted:
		return "accepted"
	case NodeBusy:
		return "busy"
	case TransientFailure:
		return "transient"
	case TerminalFailure:
		return "terminal"
	case Unreachable:
		return "unreachable"
	default:
		return fmt.Sprintf("outcome(%d)", int(k))
	}
}

// Scope tells whether a transient failure is tied to the node or to the request.
type Scope int

const (
	// NodeLocal failures are expected to go away by asking another node.
	NodeLocal Scope = iota
	// RequestLocal failures are expected to go away by asking the same node again later.
	RequestLocal
)

func (s Scope) String() string {
	if s == RequestLocal {
		return "request"
	}
	return "node"
}

// Outcome is the classification of one attempt.
type Outcome struct {
	Kind  OutcomeKind
	Scope Scope
}

func (o Outcome) String() string {
	if o.Kind == TransientFailure {
		return fmt.Sprintf("%s_%s", o.Kind, o.Scope)
	}
	return o.Kind.String()
}

// retriesOnSameNode reports whether the next attempt targets the node that was just tried.
func (o Outcome) retriesOnSameNode() bool {
	return o.Kind == TransientFailure && o.Scope == RequestLocal
}

// needsBackoff reports whether the engine waits before the next attempt.
func (o Outcome) needsBackoff() bool {
	return o.Kind == NodeBusy || o.Kind == TransientFailure
}

var (
	OutcomeAccepted     = Outcome{Kind: Accepted}
	OutcomeBusy         = Outcome{Kind: NodeBusy}
	OutcomeNodeLocal    = Outcome{Kind: TransientFailure, Scope: NodeLocal}
	OutcomeRequestLocal = Outcome{Kind: TransientFailure, Scope: RequestLocal}
	OutcomeTerminal     = Outcome{Kind: TerminalFailure}
	OutcomeUnreachable  = Outcome{Kind: Unreachable}
)
