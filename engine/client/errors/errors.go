// Package errors defines the errors returned to callers of the client.
//
// Every error a caller may want to branch on has a concrete type and an IsX helper
// based on errors.As, so wrapped errors are still recognized.
package errors

import (
	stdErrors "errors"
	"fmt"
	"time"

	"github.com/hashicorp/go-multierror"

	"github.com/ledgerexec/ledgerexec/model/ledger"
)

// BuildError indicates that a request could not be turned into a wire message, for
// instance because a required field is missing. It is never retried.
type BuildError struct {
	// TransactionID is set when the request is a transaction.
	TransactionID ledger.TransactionID
	msg           string
	err           error
}

func NewBuildError(err error) *BuildError {
	return &BuildError{err: err}
}

func NewBuildErrorf(msg string, args ...interface{}) *BuildError {
	return &BuildError{msg: fmt.Sprintf(msg, args...)}
}

// WithTransactionID sets the transaction ID of e if it is not set yet, and returns e.
func (e *BuildError) WithTransactionID(txID ledger.TransactionID) *BuildError {
	if e.TransactionID.IsZero() {
		e.TransactionID = txID
	}
	return e
}

func (e *BuildError) Error() string {
	cause := e.msg
	if e.err != nil {
		cause = e.err.Error()
	}
	if e.TransactionID.IsZero() {
		return fmt.Sprintf("could not build request: %s", cause)
	}
	return fmt.Sprintf("could not build transaction %s: %s", e.TransactionID, cause)
}

func (e *BuildError) Unwrap() error {
	return e.err
}

func IsBuildError(err error) bool {
	var target *BuildError
	return stdErrors.As(err, &target)
}

// InvalidStateError indicates an operation that is not allowed in the current state of
// a request, such as modifying a transaction that was already signed.
type InvalidStateError struct {
	msg string
}

// ErrFrozen is returned when modifying a transaction whose body is frozen.
var ErrFrozen = NewInvalidStateError("transaction is frozen")

func NewInvalidStateError(msg string) *InvalidStateError {
	return &InvalidStateError{msg: msg}
}

func (e *InvalidStateError) Error() string {
	return e.msg
}

func IsInvalidStateError(err error) bool {
	var target *InvalidStateError
	return stdErrors.As(err, &target)
}

// TransportError is a failure to exchange a message with a node: connection refused,
// reset, or an attempt timeout.
type TransportError struct {
	Node          ledger.AccountID
	TransactionID ledger.TransactionID
	err           error
}

func NewTransportError(node ledger.AccountID, txID ledger.TransactionID, err error) *TransportError {
	return &TransportError{Node: node, TransactionID: txID, err: err}
}

func (e *TransportError) Error() string {
	if e.TransactionID.IsZero() {
		return fmt.Sprintf("transport failure on node %s: %v", e.Node, e.err)
	}
	return fmt.Sprintf("transport failure for transaction %s on node %s: %v", e.TransactionID, e.Node, e.err)
}

func (e *TransportError) Unwrap() error {
	return e.err
}

func IsTransportError(err error) bool {
	var target *TransportError
	return stdErrors.As(err, &target)
}

// PrecheckStatusError is a terminal status returned by a node before the request
// reached consensus.
type PrecheckStatusError struct {
	Status        ledger.Status
	Node          ledger.AccountID
	TransactionID ledger.TransactionID
}

func NewPrecheckStatusError(status ledger.Status, node ledger.AccountID, txID ledger.TransactionID) *PrecheckStatusError {
	return &PrecheckStatusError{Status: status, Node: node, TransactionID: txID}
}

func (e *PrecheckStatusError) Error() string {
	if e.TransactionID.IsZero() {
		return fmt.Sprintf("precheck failed on node %s with status %s", e.Node, e.Status)
	}
	return fmt.Sprintf("precheck of transaction %s failed on node %s with status %s", e.TransactionID, e.Node, e.Status)
}

func IsPrecheckStatusError(err error) bool {
	var target *PrecheckStatusError
	return stdErrors.As(err, &target)
}

// ReceiptStatusError is a receipt whose final status is not a success. The receipt is
// attached: a failed transaction is still final and charged.
type ReceiptStatusError struct {
	TransactionID ledger.TransactionID
	Receipt       ledger.Receipt
}

func NewReceiptStatusError(txID ledger.TransactionID, receipt ledger.Receipt) *ReceiptStatusError {
	return &ReceiptStatusError{TransactionID: txID, Receipt: receipt}
}

func (e *ReceiptStatusError) Error() string {
	return fmt.Sprintf("transaction %s failed with receipt status %s", e.TransactionID, e.Receipt.Status)
}

func IsReceiptStatusError(err error) bool {
	var target *ReceiptStatusError
	return stdErrors.As(err, &target)
}

// ReceiptUnavailableError indicates that no final receipt was observed before the poll
// deadline. The transaction may still reach consensus later: polling again is safe.
type ReceiptUnavailableError struct {
	TransactionID ledger.TransactionID
	LastStatus    ledger.Status
	Polls         int
	err           error
}

func NewReceiptUnavailableError(txID ledger.TransactionID, lastStatus ledger.Status, polls int, err error) *ReceiptUnavailableError {
	return &ReceiptUnavailableError{TransactionID: txID, LastStatus: lastStatus, Polls: polls, err: err}
}

func (e *ReceiptUnavailableError) Error() string {
	msg := fmt.Sprintf("receipt of transaction %s unavailable after %d polls (last status %s)", e.TransactionID, e.Polls, e.LastStatus)
	if e.err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.err)
	}
	return msg
}

func (e *ReceiptUnavailableError) Unwrap() error {
	return e.err
}

func IsReceiptUnavailableError(err error) bool {
	var target *ReceiptUnavailableError
	return stdErrors.As(err, &target)
}

// TimeoutError indicates that the retry budget of a request ran out. It carries the
// error of the last attempt.
type TimeoutError struct {
	TransactionID ledger.TransactionID
	LastNode      ledger.AccountID
	Attempts      int
	Elapsed       time.Duration
	err           error
}

func NewTimeoutError(txID ledger.TransactionID, lastNode ledger.AccountID, attempts int, elapsed time.Duration, lastErr error) *TimeoutError {
	return &TimeoutError{TransactionID: txID, LastNode: lastNode, Attempts: attempts, Elapsed: elapsed, err: lastErr}
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("request %s timed out after %d attempts in %s (last node %s): %v",
		txLabel(e.TransactionID), e.Attempts, e.Elapsed, e.LastNode, e.err)
}

func (e *TimeoutError) Unwrap() error {
	return e.err
}

func IsTimeoutError(err error) bool {
	var target *TimeoutError
	return stdErrors.As(err, &target)
}

// MaxAttemptsExceededError indicates that a request used up its attempts. It carries
// the error of the last attempt.
type MaxAttemptsExceededError struct {
	TransactionID ledger.TransactionID
	LastNode      ledger.AccountID
	Attempts      int
	err           error
}

func NewMaxAttemptsExceededError(txID ledger.TransactionID, lastNode ledger.AccountID, attempts int, lastErr error) *MaxAttemptsExceededError {
	return &MaxAttemptsExceededError{TransactionID: txID, LastNode: lastNode, Attempts: attempts, err: lastErr}
}

func (e *MaxAttemptsExceededError) Error() string {
	return fmt.Sprintf("request %s failed after %d attempts (last node %s): %v",
		txLabel(e.TransactionID), e.Attempts, e.LastNode, e.err)
}

func (e *MaxAttemptsExceededError) Unwrap() error {
	return e.err
}

func IsMaxAttemptsExceededError(err error) bool {
	var target *MaxAttemptsExceededError
	return stdErrors.As(err, &target)
}

// NoNodesAvailableError indicates that every eligible node was unreachable, or that
// there were no eligible nodes at all.
type NoNodesAvailableError struct {
	TransactionID ledger.TransactionID
	errs          *multierror.Error
}

func NewNoNodesAvailableError(txID ledger.TransactionID, errs *multierror.Error) *NoNodesAvailableError {
	return &NoNodesAvailableError{TransactionID: txID, errs: errs}
}

func (e *NoNodesAvailableError) Error() string {
	if e.errs.ErrorOrNil() == nil {
		return fmt.Sprintf("no nodes available for request %s", txLabel(e.TransactionID))
	}
	return fmt.Sprintf("no nodes available for request %s: %v", txLabel(e.TransactionID), e.errs)
}

func (e *NoNodesAvailableError) Unwrap() error {
	return e.errs.ErrorOrNil()
}

// NodeErrors returns the errors observed on each node, in the order they happened.
func (e *NoNodesAvailableError) NodeErrors() []error {
	if e.errs == nil {
		return nil
	}
	return e.errs.WrappedErrors()
}

func IsNoNodesAvailableError(err error) bool {
	var target *NoNodesAvailableError
	return stdErrors.As(err, &target)
}

// UnknownVariantError is returned when decoding a portable request whose type tag is
// not supported by this build.
type UnknownVariantError struct {
	Kind string
	Tag  string
}

func NewUnknownVariantError(kind string, tag string) *UnknownVariantError {
	return &UnknownVariantError{Kind: kind, Tag: tag}
}

func (e *UnknownVariantError) Error() string {
	return fmt.Sprintf("unknown %s type %q", e.Kind, e.Tag)
}

func IsUnknownVariantError(err error) bool {
	var target *UnknownVariantError
	return stdErrors.As(err, &target)
}

// UnsupportedVersionError is returned when decoding a portable request written by a
// newer, incompatible encoder.
type UnsupportedVersionError struct {
	Version string
}

func (e *UnsupportedVersionError) Error() string {
	return fmt.Sprintf("unsupported encoding version %s", e.Version)
}

// MaxQueryPaymentExceededError is returned when the cost of a query reported by the
// network is above the configured maximum.
type MaxQueryPaymentExceededError struct {
	Query string
	Cost  ledger.Hbar
	Max   ledger.Hbar
}

func NewMaxQueryPaymentExceededError(query string, cost, max ledger.Hbar) *MaxQueryPaymentExceededError {
	return &MaxQueryPaymentExceededError{Query: query, Cost: cost, Max: max}
}

func (e *MaxQueryPaymentExceededError) Error() string {
	return fmt.Sprintf("cost of %s (%s) is above the maximum query payment of %s", e.Query, e.Cost, e.Max)
}

func IsMaxQueryPaymentExceededError(err error) bool {
	var target *MaxQueryPaymentExceededError
	return stdErrors.As(err, &target)
}

func txLabel(txID ledger.TransactionID) string {
	if txID.IsZero() {
		return "(query)"
	}
	return txID.String()
}
