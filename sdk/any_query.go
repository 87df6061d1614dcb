package sdk

import (
	"encoding/json"
	"fmt"

	clienterrors "github.com/ledgerexec/ledgerexec/engine/client/errors"
	"github.com/ledgerexec/ledgerexec/engine/client/execute"
	"github.com/ledgerexec/ledgerexec/model/ledger"
	"github.com/ledgerexec/ledgerexec/model/wire"
)

// AnyQuery is a query of any type, as decoded from its portable form.
type AnyQuery = Query[AnyQueryData, AnyQueryResponse]

// AnyQueryResponse is the answer of an AnyQuery. The field matching the query type is
// set.
type AnyQueryResponse struct {
	AccountBalance   *ledger.AccountBalance     `json:"accountBalance,omitempty"`
	AccountRecords   []ledger.TransactionRecord `json:"accountRecords,omitempty"`
	ContractBytecode []byte                     `json:"contractBytecode,omitempty"`
	FileContents     *ledger.FileContents       `json:"fileContents,omitempty"`
	Receipt          *ledger.Receipt            `json:"receipt,omitempty"`
}

// anyQueryVariant is a query body whose answer can be type-erased.
type anyQueryVariant interface {
	toWire(header wire.QueryHeader) *wire.Query
	method() string
	paymentRequired() bool
	validate() error
	tag() string
	mapAnyResponse(resp *wire.Response) (AnyQueryResponse, error)
	cloneVariant() anyQueryVariant
}

// AnyQueryData holds the body of a query of any type.
type AnyQueryData struct {
	inner anyQueryVariant
}

var _ QueryData[AnyQueryResponse] = AnyQueryData{}

// Inner returns the typed body, one of the *QueryData types of this package.
func (d AnyQueryData) Inner() interface{} {
	return d.inner
}

// The methods below are safe on the zero value, which has no body.

func (d AnyQueryData) toWire(header wire.QueryHeader) *wire.Query {
	if d.inner == nil {
		return &wire.Query{}
	}
	return d.inner.toWire(header)
}

func (d AnyQueryData) method() string {
	if d.inner == nil {
		return ""
	}
	return d.inner.method()
}

func (d AnyQueryData) paymentRequired() bool {
	return d.inner != nil && d.inner.paymentRequired()
}

func (d AnyQueryData) tag() string {
	if d.inner == nil {
		return ""
	}
	return d.inner.tag()
}

func (d AnyQueryData) clone() QueryData[AnyQueryResponse] {
	if d.inner != nil {
		d.inner = d.inner.cloneVariant()
	}
	return d
}

func (d AnyQueryData) validate() error {
	if d.inner == nil {
		return fmt.Errorf("query has no body")
	}
	return d.inner.validate()
}

func (d AnyQueryData) mapResponse(resp *wire.Response) (AnyQueryResponse, error) {
	if d.inner == nil {
		return AnyQueryResponse{}, fmt.Errorf("query has no body")
	}
	return d.inner.mapAnyResponse(resp)
}

func (d AnyQueryData) classifyStatus(s ledger.Status) (execute.Outcome, bool) {
	if classifier, ok := d.inner.(statusClassifier); ok {
		return classifier.classifyStatus(s)
	}
	return execute.Outcome{}, false
}

func (d AnyQueryData) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.inner)
}

var queryVariants = map[string]func(json.RawMessage) (anyQueryVariant, error){
	"accountBalance":     decodeQueryData[AccountBalanceQueryData],
	"accountRecords":     decodeQueryData[AccountRecordsQueryData],
	"contractBytecode":   decodeQueryData[ContractBytecodeQueryData],
	"fileContents":       decodeQueryData[FileContentsQueryData],
	"transactionReceipt": decodeQueryData[TransactionReceiptQueryData],
}

// decodeQueryData decodes into *T so that bodies with custom decoding, like the
// balance source, are handled.
func decodeQueryData[T anyQueryVariant](raw json.RawMessage) (anyQueryVariant, error) {
	var data T
	if len(raw) > 0 {
		err := json.Unmarshal(raw, &data)
		if err != nil {
			return nil, err
		}
	}
	return data, nil
}

type portableQuery struct {
	Version         portableVersion    `json:"version"`
	Type            string             `json:"type"`
	Data            json.RawMessage    `json:"data"`
	NodeAccountIDs  []ledger.AccountID `json:"nodeAccountIds,omitempty"`
	Payment         *ledger.Hbar       `json:"payment,omitempty"`
	MaxQueryPayment *ledger.Hbar       `json:"maxQueryPayment,omitempty"`
}

// ToAny returns a type-erased copy of the query.
func (q *Query[D, R]) ToAny() (*AnyQuery, error) {
	var inner anyQueryVariant
	switch data := any(q.data.clone()).(type) {
	case AnyQueryData:
		inner = data.inner
	case anyQueryVariant:
		inner = data
	default:
		return nil, fmt.Errorf("query %s cannot be type-erased", q.data.tag())
	}
	return &AnyQuery{
		data:           AnyQueryData{inner: inner},
		nodeAccountIDs: cloneAccountIDs(q.nodeAccountIDs),
		payment:        clonePtr(q.payment),
		maxPayment:     clonePtr(q.maxPayment),
		options:        q.options,
	}, nil
}

// MarshalJSON encodes the query in its portable form.
func (q *Query[D, R]) MarshalJSON() ([]byte, error) {
	tag := q.data.tag()
	if tag == "" {
		return nil, clienterrors.NewBuildErrorf("query has no body")
	}
	data, err := json.Marshal(q.data)
	if err != nil {
		return nil, fmt.Errorf("could not encode %s query: %w", tag, err)
	}
	return json.Marshal(portableQuery{
		Version:         currentPortableVersion(),
		Type:            tag,
		Data:            data,
		NodeAccountIDs:  q.nodeAccountIDs,
		Payment:         q.payment,
		MaxQueryPayment: q.maxPayment,
	})
}

// DecodeAnyQuery decodes a query from its portable form. It fails with an
// UnknownVariantError for unknown type tags.
func DecodeAnyQuery(data []byte) (*AnyQuery, error) {
	var in portableQuery
	err := json.Unmarshal(data, &in)
	if err != nil {
		return nil, clienterrors.NewBuildError(fmt.Errorf("malformed query: %w", err))
	}
	err = in.Version.check()
	if err != nil {
		return nil, err
	}

	decode, ok := queryVariants[in.Type]
	if !ok {
		return nil, clienterrors.NewUnknownVariantError("query", in.Type)
	}
	body, err := decode(in.Data)
	if err != nil {
		return nil, clienterrors.NewBuildError(fmt.Errorf("malformed %s query: %w", in.Type, err))
	}

	return &AnyQuery{
		data:           AnyQueryData{inner: body},
		nodeAccountIDs: in.NodeAccountIDs,
		payment:        in.Payment,
		maxPayment:     in.MaxQueryPayment,
	}, nil
}
