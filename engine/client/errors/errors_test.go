package errors_test

import (
	stdErrors "errors"
	"fmt"
	"testing"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"

	clienterrors "github.com/ledgerexec/ledgerexec/engine/client/errors"
	"github.com/ledgerexec/ledgerexec/model/ledger"
)

func TestErrorHelpersSeeThroughWrapping(t *testing.T) {
	node := ledger.NewAccountID(0, 0, 3)
	txID := ledger.GenerateTransactionID(ledger.NewAccountID(0, 0, 2))
	cause := stdErrors.New("connection reset")

	transport := clienterrors.NewTransportError(node, ledger.TransactionID{}, cause)
	timeout := clienterrors.NewTimeoutError(txID, node, 4, time.Second, transport)
	wrapped := fmt.Errorf("submit failed: %w", timeout)

	assert.True(t, clienterrors.IsTimeoutError(wrapped))
	assert.True(t, clienterrors.IsTransportError(wrapped))
	assert.ErrorIs(t, wrapped, cause)
	assert.False(t, clienterrors.IsMaxAttemptsExceededError(wrapped))
	assert.Contains(t, wrapped.Error(), txID.String())
}

func TestErrorsNameTransaction(t *testing.T) {
	node := ledger.NewAccountID(0, 0, 3)
	txID := ledger.GenerateTransactionID(ledger.NewAccountID(0, 0, 2))

	transport := clienterrors.NewTransportError(node, txID, stdErrors.New("refused"))
	assert.Equal(t, txID, transport.TransactionID)
	assert.Contains(t, transport.Error(), txID.String())

	query := clienterrors.NewTransportError(node, ledger.TransactionID{}, stdErrors.New("refused"))
	assert.Equal(t, "transport failure on node 0.0.3: refused", query.Error())

	build := clienterrors.NewBuildErrorf("memo too long").WithTransactionID(txID)
	assert.Contains(t, build.Error(), txID.String())
	assert.Contains(t, build.Error(), "memo too long")

	other := ledger.GenerateTransactionID(ledger.NewAccountID(0, 0, 5))
	assert.Equal(t, txID, build.WithTransactionID(other).TransactionID)
}

func TestFrozen(t *testing.T) {
	err := fmt.Errorf("could not set memo: %w", clienterrors.ErrFrozen)
	assert.ErrorIs(t, err, clienterrors.ErrFrozen)
	assert.True(t, clienterrors.IsInvalidStateError(err))
	assert.EqualError(t, clienterrors.ErrFrozen, "transaction is frozen")
}

func TestNoNodesAvailable(t *testing.T) {
	var errs *multierror.Error
	errs = multierror.Append(errs, clienterrors.NewTransportError(ledger.NewAccountID(0, 0, 3), ledger.TransactionID{}, stdErrors.New("refused")))
	errs = multierror.Append(errs, clienterrors.NewTransportError(ledger.NewAccountID(0, 0, 4), ledger.TransactionID{}, stdErrors.New("refused")))

	err := clienterrors.NewNoNodesAvailableError(ledger.TransactionID{}, errs)
	assert.True(t, clienterrors.IsNoNodesAvailableError(err))
	assert.Len(t, err.NodeErrors(), 2)
	assert.Contains(t, err.Error(), "(query)")

	empty := clienterrors.NewNoNodesAvailableError(ledger.TransactionID{}, nil)
	assert.Nil(t, empty.NodeErrors())
	assert.NotPanics(t, func() { _ = empty.Error() })
}

func TestReceiptErrors(t *testing.T) {
	txID := ledger.GenerateTransactionID(ledger.NewAccountID(0, 0, 2))

	failed := clienterrors.NewReceiptStatusError(txID, ledger.Receipt{Status: ledger.StatusInsufficientPayerBalance})
	assert.Contains(t, failed.Error(), "INSUFFICIENT_PAYER_BALANCE")
	assert.True(t, clienterrors.IsReceiptStatusError(failed))

	unavailable := clienterrors.NewReceiptUnavailableError(txID, ledger.StatusReceiptNotFound, 3, nil)
	assert.True(t, clienterrors.IsReceiptUnavailableError(unavailable))
	assert.False(t, clienterrors.IsReceiptStatusError(unavailable))
}
