package sdk

import (
	"context"
	"encoding/hex"

	"github.com/ledgerexec/ledgerexec/engine/client/receipt"
	"github.com/ledgerexec/ledgerexec/model/ledger"
)

// TransactionResponse identifies an accepted submission.
type TransactionResponse struct {
	NodeID        ledger.AccountID
	TransactionID ledger.TransactionID
	Hash          []byte

	// ValidateStatus makes GetReceipt fail with a ReceiptStatusError when the final
	// receipt status is not a success. On by default.
	ValidateStatus bool

	nodes []ledger.AccountID
}

func newTransactionResponse(node ledger.AccountID, txID ledger.TransactionID, hash []byte, nodes []ledger.AccountID) *TransactionResponse {
	// the accepting node knows about the transaction first, the others follow
	pollNodes := make([]ledger.AccountID, 0, len(nodes))
	pollNodes = append(pollNodes, node)
	for _, other := range nodes {
		if !other.Equal(node) {
			pollNodes = append(pollNodes, other)
		}
	}
	return &TransactionResponse{
		NodeID:         node,
		TransactionID:  txID,
		Hash:           hash,
		ValidateStatus: true,
		nodes:          pollNodes,
	}
}

// GetReceipt waits for the receipt of the transaction. See receipt.Poller.Wait for the
// expected errors.
func (r *TransactionResponse) GetReceipt(ctx context.Context, client *Client) (ledger.Receipt, error) {
	result, err := client.poller.Wait(ctx, r.TransactionID, r.nodes)
	if err != nil {
		return ledger.Receipt{}, err
	}
	if r.ValidateStatus {
		err = receipt.Validate(r.TransactionID, result)
		if err != nil {
			return result, err
		}
	}
	return result, nil
}

// GetReceiptQuery returns a single-shot receipt query for the transaction, pinned to
// the nodes it was sent to.
func (r *TransactionResponse) GetReceiptQuery() *TransactionReceiptQuery {
	query := NewTransactionReceiptQuery().SetTransactionID(r.TransactionID)
	query.SetNodeAccountIDs(r.nodes...)
	return query
}

func (r *TransactionResponse) String() string {
	return r.TransactionID.String() + " via " + r.NodeID.String() + " (" + hex.EncodeToString(r.Hash) + ")"
}
