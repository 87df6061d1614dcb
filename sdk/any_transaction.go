package sdk

import (
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/multierr"

	"github.com/ledgerexec/ledgerexec/crypto"
	clienterrors "github.com/ledgerexec/ledgerexec/engine/client/errors"
	"github.com/ledgerexec/ledgerexec/model/ledger"
	"github.com/ledgerexec/ledgerexec/model/wire"
	"github.com/ledgerexec/ledgerexec/module/signature"
)

// AnyTransaction is a transaction of any type, as decoded from its portable form.
type AnyTransaction = Transaction[AnyTransactionData]

// AnyTransactionData holds the body of a transaction of any type.
type AnyTransactionData struct {
	inner TransactionData
}

var _ TransactionData = AnyTransactionData{}

func wrapTransactionData(data TransactionData) AnyTransactionData {
	if wrapped, ok := data.(AnyTransactionData); ok {
		return wrapped
	}
	return AnyTransactionData{inner: data}
}

// Inner returns the typed body, one of the *TransactionData types of this package.
func (d AnyTransactionData) Inner() TransactionData {
	return d.inner
}

// The methods below are safe on the zero value, which has no body: it renders an empty
// body, has no method or tag, and fails validation.

func (d AnyTransactionData) toWire(node ledger.AccountID, txID ledger.TransactionID) wire.TransactionData {
	if d.inner == nil {
		return wire.TransactionData{}
	}
	return d.inner.toWire(node, txID)
}

func (d AnyTransactionData) method() string {
	if d.inner == nil {
		return ""
	}
	return d.inner.method()
}

func (d AnyTransactionData) tag() string {
	if d.inner == nil {
		return ""
	}
	return d.inner.tag()
}

func (d AnyTransactionData) defaultMaxTransactionFee() ledger.Hbar {
	if d.inner == nil {
		return 0
	}
	return d.inner.defaultMaxTransactionFee()
}

func (d AnyTransactionData) clone() TransactionData {
	if d.inner != nil {
		d.inner = d.inner.clone()
	}
	return d
}

func (d AnyTransactionData) validate() error {
	if d.inner == nil {
		return fmt.Errorf("transaction has no body")
	}
	return d.inner.validate()
}

func (d AnyTransactionData) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.inner)
}

// transactionVariants decodes the body of every transaction type, by tag.
var transactionVariants = map[string]func(json.RawMessage) (TransactionData, error){
	"accountCreate":  decodeTransactionData[AccountCreateTransactionData],
	"accountUpdate":  decodeTransactionData[AccountUpdateTransactionData],
	"accountDelete":  decodeTransactionData[AccountDeleteTransactionData],
	"transfer":       decodeTransactionData[TransferTransactionData],
	"contractDelete": decodeTransactionData[ContractDeleteTransactionData],
	"tokenAssociate": decodeTransactionData[TokenAssociateTransactionData],
	"tokenWipe":      decodeTransactionData[TokenWipeTransactionData],
	"tokenCreate":    decodeTransactionData[TokenCreateTransactionData],
}

func decodeTransactionData[T TransactionData](raw json.RawMessage) (TransactionData, error) {
	var data T
	if len(raw) > 0 {
		err := json.Unmarshal(raw, &data)
		if err != nil {
			return nil, err
		}
	}
	return data, nil
}

// portableTransaction is the portable form of a transaction: the body, the common
// fields and, per node, the signatures over the body sent to that node.
type portableTransaction struct {
	Version           portableVersion                `json:"version"`
	Type              string                         `json:"type"`
	Data              json.RawMessage                `json:"data"`
	NodeAccountIDs    []ledger.AccountID             `json:"nodeAccountIds,omitempty"`
	TransactionID     *ledger.TransactionID          `json:"transactionId,omitempty"`
	ValidDuration     int64                          `json:"transactionValidDuration,omitempty"` // seconds
	MaxTransactionFee ledger.Hbar                    `json:"maxTransactionFee,omitempty"`
	Memo              string                         `json:"transactionMemo,omitempty"`
	Frozen            bool                           `json:"frozen,omitempty"`
	Signatures        map[string][]portableSignature `json:"signatures,omitempty"`
}

type portableSignature struct {
	PublicKey crypto.PublicKey `json:"publicKey"`
	Signature []byte           `json:"signature"`
}

// MarshalJSON encodes the transaction in its portable form. Once the transaction ID
// and the nodes are set, the signatures of every attached signer over the body of
// every node are included, so the decoded transaction can be submitted without the
// signers.
func (tx *Transaction[D]) MarshalJSON() ([]byte, error) {
	tag := tx.data.tag()
	if tag == "" {
		return nil, clienterrors.NewBuildErrorf("transaction has no body")
	}
	data, err := json.Marshal(tx.data)
	if err != nil {
		return nil, fmt.Errorf("could not encode %s body: %w", tag, err)
	}

	out := portableTransaction{
		Version:           currentPortableVersion(),
		Type:              tag,
		Data:              data,
		NodeAccountIDs:    tx.nodeAccountIDs,
		ValidDuration:     int64(tx.TransactionValidDuration().Seconds()),
		MaxTransactionFee: tx.maxFee,
		Memo:              tx.memo,
		Frozen:            tx.frozen,
	}
	if !tx.transactionID.IsZero() {
		id := tx.transactionID
		out.TransactionID = &id
	}

	if !tx.transactionID.IsZero() && tx.signerSet().Len() > 0 {
		out.Signatures = make(map[string][]portableSignature, len(tx.nodeAccountIDs))
		for _, node := range tx.nodeAccountIDs {
			bodyBytes, err := tx.BodyBytes(node)
			if err != nil {
				return nil, err
			}
			for _, signer := range tx.signers.Signers() {
				sig, err := signer.Sign(bodyBytes)
				if err != nil {
					return nil, fmt.Errorf("could not sign for node %s: %w", node, err)
				}
				out.Signatures[node.String()] = append(out.Signatures[node.String()], portableSignature{
					PublicKey: signer.PublicKey(),
					Signature: sig,
				})
			}
		}
	}
	return json.Marshal(out)
}

// DecodeAnyTransaction decodes a transaction from its portable form. Stored signatures
// are checked against the body and replayed when the transaction is rendered.
//
// Expected errors:
//   - UnknownVariantError if the type tag is not known
//   - UnsupportedVersionError if the encoding is newer than this package
//   - BuildError if the form is malformed or a signature does not match
func DecodeAnyTransaction(data []byte) (*AnyTransaction, error) {
	var in portableTransaction
	err := json.Unmarshal(data, &in)
	if err != nil {
		return nil, clienterrors.NewBuildError(fmt.Errorf("malformed transaction: %w", err))
	}
	err = in.Version.check()
	if err != nil {
		return nil, err
	}

	decode, ok := transactionVariants[in.Type]
	if !ok {
		return nil, clienterrors.NewUnknownVariantError("transaction", in.Type)
	}
	body, err := decode(in.Data)
	if err != nil {
		return nil, clienterrors.NewBuildError(fmt.Errorf("malformed %s body: %w", in.Type, err))
	}

	tx := &AnyTransaction{
		data:           AnyTransactionData{inner: body},
		nodeAccountIDs: in.NodeAccountIDs,
		maxFee:         in.MaxTransactionFee,
		memo:           in.Memo,
		frozen:         in.Frozen,
	}
	if in.ValidDuration > 0 {
		tx.validDuration = time.Duration(in.ValidDuration) * time.Second
	}
	if in.TransactionID != nil {
		tx.transactionID = *in.TransactionID
	}

	err = tx.attachPresigned(in.Signatures)
	if err != nil {
		return nil, clienterrors.NewBuildError(err)
	}
	return tx, nil
}

// attachPresigned attaches one presigned signer per key, in the order the keys first
// appear over the nodes, which is the attachment order of the encoded transaction.
func (tx *Transaction[D]) attachPresigned(signatures map[string][]portableSignature) error {
	if len(signatures) == 0 {
		return nil
	}
	if tx.transactionID.IsZero() {
		return fmt.Errorf("signatures without a transaction ID")
	}

	presigned := make(map[string]*signature.Presigned)
	var order []*signature.Presigned
	for _, node := range tx.nodeAccountIDs {
		sigs := signatures[node.String()]
		if len(sigs) == 0 {
			continue
		}
		bodyBytes, err := tx.BodyBytes(node)
		if err != nil {
			return err
		}
		for _, sig := range sigs {
			key := string(sig.PublicKey.Bytes())
			signer, ok := presigned[key]
			if !ok {
				signer = signature.NewPresigned(sig.PublicKey)
				presigned[key] = signer
				order = append(order, signer)
			}
			err = signer.Add(bodyBytes, sig.Signature)
			if err != nil {
				return fmt.Errorf("node %s: %w", node, err)
			}
		}
	}
	if len(presigned) == 0 {
		return fmt.Errorf("signatures are for none of the nodes of the transaction")
	}

	for _, signer := range order {
		tx.Sign(signer)
	}
	return nil
}

// EncodeAnyTransactionList encodes transactions as a JSON array of portable forms.
func EncodeAnyTransactionList(txs []*AnyTransaction) ([]byte, error) {
	items := make([]json.RawMessage, 0, len(txs))
	for i, tx := range txs {
		item, err := tx.MarshalJSON()
		if err != nil {
			return nil, fmt.Errorf("could not encode transaction %d: %w", i, err)
		}
		items = append(items, item)
	}
	return json.Marshal(items)
}

// DecodeAnyTransactionList decodes a JSON array of portable transactions. Every item
// is decoded independently: the result has one entry per item, nil where the item
// failed, and the returned error combines the failures of the items, each wrapped with
// its index. multierr.Errors splits it back.
func DecodeAnyTransactionList(data []byte) ([]*AnyTransaction, error) {
	var items []json.RawMessage
	err := json.Unmarshal(data, &items)
	if err != nil {
		return nil, clienterrors.NewBuildError(fmt.Errorf("malformed transaction list: %w", err))
	}

	txs := make([]*AnyTransaction, len(items))
	var errs error
	for i, item := range items {
		tx, err := DecodeAnyTransaction(item)
		if err != nil {
			errs = multierr.Append(errs, &ItemError{Index: i, Err: err})
			continue
		}
		txs[i] = tx
	}
	return txs, errs
}

// ItemError is the failure of one item of a list.
type ItemError struct {
	Index int
	Err   error
}

func (e *ItemError) Error() string {
	return fmt.Sprintf("item %d: %v", e.Index, e.Err)
}

func (e *ItemError) Unwrap() error {
	return e.Err
}
