package mocknode

import (
	"context"
	"sync"
	"time"

	"github.com/ledgerexec/ledgerexec/model/ledger"
	"github.com/ledgerexec/ledgerexec/model/wire"
)

// Sequence answers the n-th call with the n-th response, repeating the last one once
// the list is exhausted. A response that is an error is returned as the call status.
func Sequence(responses ...interface{}) HandlerFunc {
	var (
		mu   sync.Mutex
		next int
	)
	return func(_ context.Context, _ Call) (interface{}, error) {
		mu.Lock()
		resp := responses[next]
		if next < len(responses)-1 {
			next++
		}
		mu.Unlock()

		if err, ok := resp.(error); ok {
			return nil, err
		}
		return resp, nil
	}
}

// Always answers every call with the same response.
func Always(resp interface{}) HandlerFunc {
	return Sequence(resp)
}

// Delayed waits before calling handler, or until the call is abandoned.
func Delayed(delay time.Duration, handler HandlerFunc) HandlerFunc {
	return func(ctx context.Context, call Call) (interface{}, error) {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
		return handler(ctx, call)
	}
}

// Precheck is a transaction answer with the given precheck status.
func Precheck(s ledger.Status) *wire.TransactionResponse {
	return &wire.TransactionResponse{NodeTransactionPrecheckCode: int32(s)}
}

// ReceiptResponse is a receipt query answer. The precheck status is OK unless the
// receipt status is one a node reports at precheck, like RECEIPT_NOT_FOUND or BUSY.
func ReceiptResponse(receipt ledger.Receipt) *wire.Response {
	precheck := ledger.StatusOk
	switch receipt.Status {
	case ledger.StatusReceiptNotFound, ledger.StatusBusy:
		precheck = receipt.Status
	}
	return &wire.Response{
		TransactionGetReceipt: &wire.TransactionGetReceiptResponse{
			Header:  wire.ResponseHeader{NodeTransactionPrecheckCode: int32(precheck)},
			Receipt: wire.NewTransactionReceipt(receipt),
		},
	}
}

// BalanceResponse is an account balance query answer.
func BalanceResponse(account ledger.AccountID, hbars ledger.Hbar) *wire.Response {
	return &wire.Response{
		CryptoGetAccountBalance: &wire.CryptoGetAccountBalanceResponse{
			Header:    wire.ResponseHeader{NodeTransactionPrecheckCode: int32(ledger.StatusOk)},
			AccountID: wire.NewAccountIDPtr(account),
			Balance:   uint64(hbars.Tinybars()),
		},
	}
}

// QueryPrecheck is a query answer of the given kind carrying only a precheck status
// and a cost, as returned for cost queries or rejected queries.
func QueryPrecheck(method string, s ledger.Status, cost uint64) *wire.Response {
	header := wire.ResponseHeader{NodeTransactionPrecheckCode: int32(s), Cost: cost}
	switch method {
	case wire.MethodCryptoGetBalance:
		return &wire.Response{CryptoGetAccountBalance: &wire.CryptoGetAccountBalanceResponse{Header: header}}
	case wire.MethodCryptoGetAccountRecords:
		return &wire.Response{CryptoGetAccountRecords: &wire.CryptoGetAccountRecordsResponse{Header: header}}
	case wire.MethodFileGetContents:
		return &wire.Response{FileGetContents: &wire.FileGetContentsResponse{Header: header}}
	case wire.MethodContractGetBytecode:
		return &wire.Response{ContractGetBytecode: &wire.ContractGetBytecodeResponse{Header: header}}
	default:
		return &wire.Response{TransactionGetReceipt: &wire.TransactionGetReceiptResponse{Header: header}}
	}
}
