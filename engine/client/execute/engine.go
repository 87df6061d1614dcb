// Package execute runs requests against the nodes of the network: it picks a node,
// sends the request, classifies the answer and decides whether to return, fail, or try
// again on the same or another node.
package execute

import (
	"context"
	stdErrors "errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"
	"github.com/sethvargo/go-retry"

	clienterrors "github.com/ledgerexec/ledgerexec/engine/client/errors"
	"github.com/ledgerexec/ledgerexec/model/ledger"
	"github.com/ledgerexec/ledgerexec/module"
	"github.com/ledgerexec/ledgerexec/module/metrics"
	"github.com/ledgerexec/ledgerexec/utils/logging"
)

// NodeDirectory is the address book the engine selects nodes from, see network.Directory.
type NodeDirectory interface {
	Nodes() ledger.NodeIdentityList
	Node(id ledger.AccountID) (ledger.NodeIdentity, bool)
	IsHealthy(id ledger.AccountID) bool
	MarkUnhealthy(id ledger.AccountID)
	MarkHealthy(id ledger.AccountID)
}

// Engine executes requests. It keeps no state about individual requests: everything a
// request needs across attempts lives in its Execute call, so one Engine serves any
// number of concurrent requests.
type Engine struct {
	log       zerolog.Logger
	config    Config
	directory NodeDirectory
	transport Transport
	metrics   module.ExecutionMetrics
}

// New creates an engine. A nil metrics collector disables metrics.
func New(
	log zerolog.Logger,
	config Config,
	directory NodeDirectory,
	transport Transport,
	collector module.ExecutionMetrics,
) *Engine {
	if collector == nil {
		collector = metrics.NewNoopCollector()
	}
	if config.Policy.Statuses == nil && config.Policy.Codes == nil {
		config.Policy = DefaultPolicy()
	}
	return &Engine{
		log:       log.With().Str("component", "execution_engine").Logger(),
		config:    config,
		directory: directory,
		transport: transport,
		metrics:   collector,
	}
}

// Config returns the defaults applied to every request.
func (e *Engine) Config() Config {
	return e.config
}

// Nodes returns the nodes requests are sent to when they are not pinned.
func (e *Engine) Nodes() ledger.NodeIdentityList {
	return e.directory.Nodes()
}

// Execute runs x until a node accepts it, a node rejects it for good, or the retry
// budget runs out.
//
// Nodes are tried in the order of the request (or of the directory), healthy nodes first.
// The transaction ID of x is read once and is the same in every attempt.
//
// Expected errors:
//   - BuildError if x could not be rendered for a node
//   - PrecheckStatusError if a node rejected x with a terminal status
//   - TransportError if a call failed in a way that is not worth retrying
//   - NoNodesAvailableError if every eligible node was unreachable
//   - MaxAttemptsExceededError, TimeoutError if the retry budget ran out
func Execute[Req, Resp any](ctx context.Context, e *Engine, x Executable[Req, Resp]) (Result[Resp], error) {
	start := time.Now()
	method := x.Method()
	txID, _ := x.TransactionID()

	config := e.config
	if overrider, ok := x.(Overrider); ok {
		config = config.with(overrider.ExecutionOptions())
	}

	log := e.log.With().
		Str(logging.KeyRequestID, uuid.NewString()).
		Str(logging.KeyMethod, method).
		Logger()
	if !txID.IsZero() {
		log = log.With().Str(logging.KeyTransactionID, txID.String()).Logger()
	}

	var (
		result      Result[Resp]
		attempt     int
		lastNode    ledger.AccountID
		lastErr     error
		unreachable *multierror.Error
	)
	finish := func(outcome string) {
		e.metrics.RequestFinished(method, outcome, attempt, time.Since(start))
	}

	nodes, err := e.eligibleNodes(x.NodeAccountIDs())
	if err != nil {
		finish(metrics.ResultFailure)
		return result, err
	}
	selector := newNodeSelector(nodes, e.directory.IsHealthy)

	deadline := start.Add(config.MaxElapsed)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}

	backoff := retry.NewExponential(config.MinBackoff)
	backoff = retry.WithCappedDuration(config.MaxBackoff, backoff)
	if config.JitterPercent > 0 {
		backoff = retry.WithJitterPercent(config.JitterPercent, backoff)
	}

	for {
		node, ok := selector.Current()
		if !ok {
			finish(metrics.ResultNoNodes)
			log.Warn().Int("nodes", selector.Len()).Msg("no reachable node left")
			return result, clienterrors.NewNoNodesAvailableError(txID, unreachable)
		}
		if attempt >= config.MaxAttempts {
			finish(metrics.ResultFailure)
			return result, clienterrors.NewMaxAttemptsExceededError(txID, lastNode, attempt, lastErr)
		}
		remaining := time.Until(deadline)
		if remaining <= 0 {
			finish(metrics.ResultTimeout)
			return result, clienterrors.NewTimeoutError(txID, lastNode, attempt, time.Since(start), lastErr)
		}

		attempt++
		lastNode = node.AccountID

		req, err := x.MakeRequest(node, attempt)
		if err != nil {
			finish(metrics.ResultFailure)
			if clienterrors.IsInvalidStateError(err) {
				return result, err
			}
			var buildErr *clienterrors.BuildError
			if stdErrors.As(err, &buildErr) {
				buildErr.WithTransactionID(txID)
				return result, err
			}
			return result, clienterrors.NewBuildError(err).WithTransactionID(txID)
		}
		resp := x.NewResponse()

		attemptTimeout := config.AttemptTimeout
		if remaining < attemptTimeout {
			attemptTimeout = remaining
		}
		attemptStart := time.Now()
		attemptCtx, cancel := context.WithTimeout(ctx, attemptTimeout)
		err = e.transport.Invoke(attemptCtx, node, method, req, resp)
		cancel()

		if ctx.Err() != nil {
			return result, e.abort(ctx, finish, txID, node.AccountID, attempt, start, err)
		}

		var outcome Outcome
		if err != nil {
			outcome = config.Policy.ClassifyError(err)
			lastErr = clienterrors.NewTransportError(node.AccountID, txID, err)
		} else {
			responseStatus := x.ResponseStatus(resp)
			outcome = classifyStatus(config.Policy, x, responseStatus)
			if outcome.Kind != Accepted {
				lastErr = clienterrors.NewPrecheckStatusError(responseStatus, node.AccountID, txID)
			}
		}

		e.metrics.AttemptFinished(method, outcome.String(), time.Since(attemptStart))
		logging.Node(log.Debug(), node.AccountID).
			Int(logging.KeyAttempt, attempt).
			Str("outcome", outcome.String()).
			Dur("duration", time.Since(attemptStart)).
			Msg("attempt finished")

		switch outcome.Kind {
		case Accepted:
			e.directory.MarkHealthy(node.AccountID)
			finish(metrics.ResultSuccess)
			return Result[Resp]{
				Response:      resp,
				Node:          node,
				TransactionID: txID,
				Attempts:      attempt,
				Elapsed:       time.Since(start),
			}, nil

		case TerminalFailure:
			finish(metrics.ResultFailure)
			logging.Node(log.Warn(), node.AccountID).Err(lastErr).Int(logging.KeyAttempt, attempt).Msg("request failed")
			return result, lastErr

		case Unreachable:
			e.directory.MarkUnhealthy(node.AccountID)
			unreachable = multierror.Append(unreachable, lastErr)
			selector.MarkUnreachable()
			continue
		}

		if !outcome.retriesOnSameNode() {
			selector.Advance()
		}
		if !outcome.needsBackoff() {
			continue
		}

		delay, stop := backoff.Next()
		if stop || time.Now().Add(delay).After(deadline) {
			finish(metrics.ResultTimeout)
			log.Warn().Err(lastErr).Int(logging.KeyAttempt, attempt).Msg("request ran out of time")
			return result, clienterrors.NewTimeoutError(txID, lastNode, attempt, time.Since(start), lastErr)
		}

		log.Debug().Err(lastErr).Dur("backoff", delay).Msg("retrying request")
		e.metrics.BackoffWaited(delay)
		err = wait(ctx, delay)
		if err != nil {
			return result, e.abort(ctx, finish, txID, lastNode, attempt, start, lastErr)
		}
	}
}

// eligibleNodes resolves the pinned node IDs against the directory, or returns every
// known node when none are pinned.
func (e *Engine) eligibleNodes(pinned []ledger.AccountID) ([]ledger.NodeIdentity, error) {
	if len(pinned) == 0 {
		return e.directory.Nodes(), nil
	}

	nodes := make([]ledger.NodeIdentity, 0, len(pinned))
	for _, id := range pinned {
		node, ok := e.directory.Node(id)
		if !ok {
			return nil, clienterrors.NewBuildErrorf("node %s is not part of the network", id)
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}

// abort ends a request whose caller context is done.
func (e *Engine) abort(
	ctx context.Context,
	finish func(string),
	txID ledger.TransactionID,
	node ledger.AccountID,
	attempt int,
	start time.Time,
	lastErr error,
) error {
	if ctx.Err() == context.DeadlineExceeded {
		finish(metrics.ResultTimeout)
		if lastErr == nil {
			lastErr = ctx.Err()
		}
		return clienterrors.NewTimeoutError(txID, node, attempt, time.Since(start), lastErr)
	}

	finish(metrics.ResultCanceled)
	if txID.IsZero() {
		return fmt.Errorf("query canceled after %d attempts: %w", attempt, ctx.Err())
	}
	return fmt.Errorf("transaction %s canceled after %d attempts: %w", txID, attempt, ctx.Err())
}

func classifyStatus[Req, Resp any](policy Policy, x Executable[Req, Resp], s ledger.Status) Outcome {
	if classifier, ok := x.(StatusClassifier); ok {
		if outcome, ok := classifier.ClassifyStatus(s); ok {
			return outcome
		}
	}
	return policy.ClassifyStatus(s)
}

func wait(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
