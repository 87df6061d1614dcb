package sdk

import (
	"context"
	"fmt"
	"time"

	"github.com/ledgerexec/ledgerexec/crypto"
	clienterrors "github.com/ledgerexec/ledgerexec/engine/client/errors"
	"github.com/ledgerexec/ledgerexec/engine/client/execute"
	"github.com/ledgerexec/ledgerexec/model/encoding/cbor"
	"github.com/ledgerexec/ledgerexec/model/ledger"
	"github.com/ledgerexec/ledgerexec/model/wire"
	"github.com/ledgerexec/ledgerexec/module/signature"
)

// DefaultTransactionValidDuration is how long after its valid start a transaction may
// still be submitted, unless set otherwise.
const DefaultTransactionValidDuration = 120 * time.Second

// TransactionData is the body of a transaction. The set of implementations is closed:
// they are the *TransactionData types of this package.
type TransactionData interface {
	// toWire renders the body sent to node. It must be pure: the same inputs always
	// render the same payload, since signatures are made over its encoding.
	toWire(node ledger.AccountID, txID ledger.TransactionID) wire.TransactionData
	method() string
	defaultMaxTransactionFee() ledger.Hbar
	validate() error
	tag() string
	// clone returns a copy sharing no memory with the receiver.
	clone() TransactionData
}

// Transaction is a request changing the ledger state.
//
// A transaction is built, then frozen, then signed and executed. Freezing happens on
// Freeze, FreezeWith, or when the first signer attaches; from then on the body and
// the common fields can no longer change and their setters return ErrFrozen. Fields
// still unset when the transaction is executed are filled in from the client.
//
// The body is rendered and signed for every node it may be sent to. Every retry
// against a node sends the exact same bytes, with the same transaction ID.
//
// A Transaction is not safe for concurrent use.
type Transaction[D TransactionData] struct {
	data           D
	nodeAccountIDs []ledger.AccountID
	transactionID  ledger.TransactionID
	validDuration  time.Duration
	maxFee         ledger.Hbar
	memo           string
	options        execute.Options

	frozen  bool
	signers *signature.Set
	signed  map[string]*wire.Transaction // by node account key
}

// Data returns a copy of the body. Changing it has no effect on the transaction.
func (tx *Transaction[D]) Data() D {
	return tx.data.clone().(D)
}

func (tx *Transaction[D]) IsFrozen() bool {
	return tx.frozen
}

func (tx *Transaction[D]) requireNotFrozen() error {
	if tx.frozen {
		return clienterrors.ErrFrozen
	}
	return nil
}

// SetNodeAccountIDs pins the transaction to the given nodes, tried in order.
func (tx *Transaction[D]) SetNodeAccountIDs(ids ...ledger.AccountID) error {
	if err := tx.requireNotFrozen(); err != nil {
		return err
	}
	tx.nodeAccountIDs = append([]ledger.AccountID(nil), ids...)
	return nil
}

func (tx *Transaction[D]) NodeAccountIDs() []ledger.AccountID {
	return cloneAccountIDs(tx.nodeAccountIDs)
}

func (tx *Transaction[D]) SetTransactionID(id ledger.TransactionID) error {
	if err := tx.requireNotFrozen(); err != nil {
		return err
	}
	tx.transactionID = id
	return nil
}

// TransactionID returns the transaction ID, and false if it is not set yet.
func (tx *Transaction[D]) TransactionID() (ledger.TransactionID, bool) {
	return tx.transactionID, !tx.transactionID.IsZero()
}

func (tx *Transaction[D]) SetTransactionValidDuration(d time.Duration) error {
	if err := tx.requireNotFrozen(); err != nil {
		return err
	}
	tx.validDuration = d
	return nil
}

func (tx *Transaction[D]) TransactionValidDuration() time.Duration {
	if tx.validDuration == 0 {
		return DefaultTransactionValidDuration
	}
	return tx.validDuration
}

// SetMaxTransactionFee sets the most the payer accepts to be charged.
func (tx *Transaction[D]) SetMaxTransactionFee(fee ledger.Hbar) error {
	if err := tx.requireNotFrozen(); err != nil {
		return err
	}
	tx.maxFee = fee
	return nil
}

// MaxTransactionFee returns the max fee, or the default of the transaction type.
func (tx *Transaction[D]) MaxTransactionFee() ledger.Hbar {
	if tx.maxFee == 0 {
		return tx.data.defaultMaxTransactionFee()
	}
	return tx.maxFee
}

func (tx *Transaction[D]) SetTransactionMemo(memo string) error {
	if err := tx.requireNotFrozen(); err != nil {
		return err
	}
	tx.memo = memo
	return nil
}

func (tx *Transaction[D]) TransactionMemo() string {
	return tx.memo
}

// SetMaxAttempts overrides the engine attempt budget. It is not part of the body and
// may change after freezing.
func (tx *Transaction[D]) SetMaxAttempts(n int) {
	tx.options.MaxAttempts = n
}

// SetRequestTimeout overrides the engine time budget. It is not part of the body and
// may change after freezing.
func (tx *Transaction[D]) SetRequestTimeout(d time.Duration) {
	tx.options.MaxElapsed = d
}

func (tx *Transaction[D]) ExecutionOptions() execute.Options {
	return tx.options
}

// Freeze validates the transaction and prevents further changes. The transaction ID
// and the nodes must be set; see FreezeWith.
func (tx *Transaction[D]) Freeze() error {
	if tx.transactionID.IsZero() {
		return clienterrors.NewBuildErrorf("transaction ID must be set before freezing")
	}
	if len(tx.nodeAccountIDs) == 0 {
		return clienterrors.NewBuildErrorf("node account IDs must be set before freezing")
	}
	err := tx.data.validate()
	if err != nil {
		return clienterrors.NewBuildError(err)
	}
	tx.frozen = true
	return nil
}

// FreezeWith fills the unset transaction ID, nodes and max fee from the client, then
// freezes the transaction.
func (tx *Transaction[D]) FreezeWith(client *Client) error {
	err := tx.complete(client)
	if err != nil {
		return err
	}
	return tx.Freeze()
}

// complete fills the fields still unset from the client. It may run on a frozen
// transaction: the body is only rendered, and signed, once every field is set.
func (tx *Transaction[D]) complete(client *Client) error {
	changed := false
	if tx.transactionID.IsZero() {
		operator := client.Operator()
		if operator == nil {
			return clienterrors.NewBuildErrorf("transaction ID is not set and the client has no operator")
		}
		tx.transactionID = ledger.GenerateTransactionID(operator.AccountID)
		changed = true
	}
	if len(tx.nodeAccountIDs) == 0 {
		tx.nodeAccountIDs = client.Nodes().AccountIDs()
		if len(tx.nodeAccountIDs) == 0 {
			return clienterrors.NewBuildErrorf("no node account IDs set and the client knows no nodes")
		}
		changed = true
	}
	// a frozen body keeps the fee it was signed with
	if !tx.frozen && tx.maxFee == 0 && client.config.DefaultMaxTransactionFee > 0 {
		tx.maxFee = client.config.DefaultMaxTransactionFee
		changed = true
	}
	if changed {
		tx.signed = nil
	}
	return nil
}

// Sign attaches a signer and freezes the transaction. Attaching a key twice has no
// effect. Signatures are made when the transaction is rendered for a node.
func (tx *Transaction[D]) Sign(signer crypto.Signer) {
	tx.frozen = true
	if tx.signerSet().Attach(signer) {
		tx.signed = nil
	}
}

// SignWithOperator signs with the client operator.
func (tx *Transaction[D]) SignWithOperator(client *Client) error {
	operator := client.Operator()
	if operator == nil {
		return clienterrors.NewBuildErrorf("client has no operator")
	}
	tx.Sign(operator.Signer)
	return nil
}

// PublicKeys returns the keys of the attached signers, in attachment order.
func (tx *Transaction[D]) PublicKeys() []crypto.PublicKey {
	return tx.signerSet().PublicKeys()
}

func (tx *Transaction[D]) signerSet() *signature.Set {
	if tx.signers == nil {
		tx.signers = signature.NewSet()
	}
	return tx.signers
}

// BodyBytes returns the encoded body sent to node, which is what signers sign.
func (tx *Transaction[D]) BodyBytes(node ledger.AccountID) ([]byte, error) {
	if tx.transactionID.IsZero() {
		return nil, clienterrors.NewBuildErrorf("transaction ID is not set")
	}
	body := wire.TransactionBody{
		TransactionID:            wire.NewTransactionID(tx.transactionID),
		NodeAccountID:            wire.NewAccountID(node),
		TransactionFee:           uint64(tx.MaxTransactionFee().Tinybars()),
		TransactionValidDuration: wire.NewDuration(tx.TransactionValidDuration()),
		Memo:                     tx.memo,
		TransactionData:          tx.data.toWire(node, tx.transactionID),
	}
	bodyBytes, err := cbor.EncMode.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("could not encode transaction body: %w", err)
	}
	return bodyBytes, nil
}

// signedTransaction renders and signs the transaction for node. The result is cached
// until the signers change.
func (tx *Transaction[D]) signedTransaction(node ledger.AccountID) (*wire.Transaction, error) {
	if signed, ok := tx.signed[node.Key()]; ok {
		return signed, nil
	}

	bodyBytes, err := tx.BodyBytes(node)
	if err != nil {
		return nil, err
	}
	sigMap := wire.SignatureMap{}
	if tx.signerSet().Len() > 0 {
		sigMap, err = tx.signers.Sign(bodyBytes)
		if err != nil {
			return nil, clienterrors.NewBuildError(fmt.Errorf("could not sign transaction for node %s: %w", node, err))
		}
	}
	signedBytes, err := cbor.EncMode.Marshal(wire.SignedTransaction{BodyBytes: bodyBytes, SigMap: sigMap})
	if err != nil {
		return nil, fmt.Errorf("could not encode signed transaction: %w", err)
	}

	signed := &wire.Transaction{SignedTransactionBytes: signedBytes}
	if tx.signed == nil {
		tx.signed = make(map[string]*wire.Transaction)
	}
	tx.signed[node.Key()] = signed
	return signed, nil
}

// Hash returns the SHA-384 hash of the signed transaction sent to node, which is how
// the network identifies the submission in records.
func (tx *Transaction[D]) Hash(node ledger.AccountID) ([]byte, error) {
	signed, err := tx.signedTransaction(node)
	if err != nil {
		return nil, err
	}
	return crypto.SHA384(signed.SignedTransactionBytes), nil
}

// MakeRequest renders the signed transaction for node. The attempt number has no
// effect: every attempt sends the same bytes.
func (tx *Transaction[D]) MakeRequest(node ledger.NodeIdentity, _ int) (*wire.Transaction, error) {
	return tx.signedTransaction(node.AccountID)
}

func (tx *Transaction[D]) NewResponse() *wire.TransactionResponse {
	return &wire.TransactionResponse{}
}

func (tx *Transaction[D]) Method() string {
	return tx.data.method()
}

func (tx *Transaction[D]) ResponseStatus(resp *wire.TransactionResponse) ledger.Status {
	return ledger.Status(resp.NodeTransactionPrecheckCode)
}

// Execute completes the transaction from the client, signs it with the operator when
// the operator pays for it, and submits it. The returned response identifies the
// submission; the outcome is known from its receipt.
func (tx *Transaction[D]) Execute(ctx context.Context, client *Client) (*TransactionResponse, error) {
	err := tx.complete(client)
	if err != nil {
		return nil, err
	}
	if !tx.frozen {
		err = tx.Freeze()
		if err != nil {
			return nil, err
		}
	} else if err = tx.data.validate(); err != nil {
		return nil, clienterrors.NewBuildError(err)
	}

	operator := client.Operator()
	if operator != nil && operator.AccountID.Equal(tx.transactionID.AccountID) {
		tx.Sign(operator.Signer)
	}

	result, err := execute.Execute[*wire.Transaction, *wire.TransactionResponse](ctx, client.engine, tx)
	if err != nil {
		return nil, err
	}

	hash, err := tx.Hash(result.Node.AccountID)
	if err != nil {
		return nil, err
	}
	return newTransactionResponse(result.Node.AccountID, tx.transactionID, hash, tx.nodeAccountIDs), nil
}

// ToAny returns a type-erased copy of the transaction. The copy has the signers
// attached so far; signers attached later to either side are not seen by the other.
func (tx *Transaction[D]) ToAny() *AnyTransaction {
	return &AnyTransaction{
		data:           wrapTransactionData(tx.data.clone()),
		nodeAccountIDs: cloneAccountIDs(tx.nodeAccountIDs),
		transactionID:  tx.transactionID,
		validDuration:  tx.validDuration,
		maxFee:         tx.maxFee,
		memo:           tx.memo,
		options:        tx.options,
		frozen:         tx.frozen,
		signers:        tx.signerSet().Clone(),
	}
}

func cloneAccountIDs(ids []ledger.AccountID) []ledger.AccountID {
	if ids == nil {
		return nil
	}
	cloned := make([]ledger.AccountID, len(ids))
	for i, id := range ids {
		cloned[i] = id.Clone()
	}
	return cloned
}

func cloneAccountID(id *ledger.AccountID) *ledger.AccountID {
	if id == nil {
		return nil
	}
	cloned := id.Clone()
	return &cloned
}

func cloneContractID(id *ledger.ContractID) *ledger.ContractID {
	if id == nil {
		return nil
	}
	cloned := id.Clone()
	return &cloned
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
