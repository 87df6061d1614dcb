package logging

import (
	"github.com/rs/zerolog"

	"github.com/ledgerexec/ledgerexec/model/ledger"
)

// Field names shared by every component, so log lines can be joined on them.
const (
	KeyNode          = "node"
	KeyTransactionID = "tx_id"
	KeyMethod        = "method"
	KeyAttempt       = "attempt"
	KeyRequestID     = "request_id"
)

// Node adds the account ID of a node to a log event.
func Node(event *zerolog.Event, node ledger.AccountID) *zerolog.Event {
	return event.Str(KeyNode, node.String())
}

// TransactionID adds a transaction ID to a log event. Queries have no transaction ID
// and are left untouched.
func TransactionID(event *zerolog.Event, txID ledger.TransactionID) *zerolog.Event {
	if txID.IsZero() {
		return event
	}
	return event.Str(KeyTransactionID, txID.String())
}

// Nodes renders node account IDs for a log array.
func Nodes(ids []ledger.AccountID) []string {
	ss := make([]string, 0, len(ids))
	for _, id := range ids {
		ss = append(ss, id.String())
	}
	return ss
}
