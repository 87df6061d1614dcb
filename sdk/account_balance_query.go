package sdk

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ledgerexec/ledgerexec/model/ledger"
	"github.com/ledgerexec/ledgerexec/model/wire"
)

// balanceSource is the account or the contract whose balance is asked for. Exactly
// one of the two kinds can be set at a time.
type balanceSource interface {
	render(q *wire.CryptoGetAccountBalanceQuery)
}

type accountBalanceSource ledger.AccountID

func (s accountBalanceSource) render(q *wire.CryptoGetAccountBalanceQuery) {
	id := wire.NewAccountID(ledger.AccountID(s))
	q.AccountID = &id
}

type contractBalanceSource ledger.ContractID

func (s contractBalanceSource) render(q *wire.CryptoGetAccountBalanceQuery) {
	id := wire.NewContractID(ledger.ContractID(s))
	q.ContractID = &id
}

// AccountBalanceQueryData asks for the hbar and token balances of an account or a
// contract. Balance queries are free.
type AccountBalanceQueryData struct {
	source balanceSource
}

var _ QueryData[ledger.AccountBalance] = AccountBalanceQueryData{}

func (d AccountBalanceQueryData) toWire(header wire.QueryHeader) *wire.Query {
	q := &wire.CryptoGetAccountBalanceQuery{Header: header}
	if d.source != nil {
		d.source.render(q)
	}
	return &wire.Query{CryptoGetAccountBalance: q}
}

func (d AccountBalanceQueryData) method() string        { return wire.MethodCryptoGetBalance }
func (d AccountBalanceQueryData) paymentRequired() bool { return false }
func (d AccountBalanceQueryData) tag() string           { return "accountBalance" }

func (d AccountBalanceQueryData) clone() QueryData[ledger.AccountBalance] {
	switch source := d.source.(type) {
	case accountBalanceSource:
		d.source = accountBalanceSource(ledger.AccountID(source).Clone())
	case contractBalanceSource:
		d.source = contractBalanceSource(ledger.ContractID(source).Clone())
	}
	return d
}

func (d AccountBalanceQueryData) cloneVariant() anyQueryVariant {
	return d.clone().(AccountBalanceQueryData)
}

func (d AccountBalanceQueryData) validate() error {
	if d.source == nil {
		return errors.New("account balance query needs an account or a contract ID")
	}
	return nil
}

func (d AccountBalanceQueryData) mapResponse(resp *wire.Response) (ledger.AccountBalance, error) {
	if resp.CryptoGetAccountBalance == nil {
		return ledger.AccountBalance{}, fmt.Errorf("expected an account balance answer")
	}
	return resp.CryptoGetAccountBalance.ToLedger(), nil
}

func (d AccountBalanceQueryData) mapAnyResponse(resp *wire.Response) (AnyQueryResponse, error) {
	balance, err := d.mapResponse(resp)
	if err != nil {
		return AnyQueryResponse{}, err
	}
	return AnyQueryResponse{AccountBalance: &balance}, nil
}

type balanceSourceJSON struct {
	AccountID  *ledger.AccountID  `json:"accountId,omitempty"`
	ContractID *ledger.ContractID `json:"contractId,omitempty"`
}

func (d AccountBalanceQueryData) MarshalJSON() ([]byte, error) {
	var out balanceSourceJSON
	switch source := d.source.(type) {
	case accountBalanceSource:
		id := ledger.AccountID(source)
		out.AccountID = &id
	case contractBalanceSource:
		id := ledger.ContractID(source)
		out.ContractID = &id
	}
	return json.Marshal(out)
}

func (d *AccountBalanceQueryData) UnmarshalJSON(data []byte) error {
	var in balanceSourceJSON
	err := json.Unmarshal(data, &in)
	if err != nil {
		return err
	}
	switch {
	case in.AccountID != nil && in.ContractID != nil:
		return errors.New("account balance query has both an account and a contract ID")
	case in.AccountID != nil:
		d.source = accountBalanceSource(*in.AccountID)
	case in.ContractID != nil:
		d.source = contractBalanceSource(*in.ContractID)
	default:
		d.source = nil
	}
	return nil
}

// AccountBalanceQuery gets the balance of an account or a contract.
type AccountBalanceQuery struct {
	Query[AccountBalanceQueryData, ledger.AccountBalance]
}

func NewAccountBalanceQuery() *AccountBalanceQuery {
	return &AccountBalanceQuery{}
}

// SetAccountID asks for the balance of an account, replacing any contract ID.
func (q *AccountBalanceQuery) SetAccountID(id ledger.AccountID) *AccountBalanceQuery {
	q.data.source = accountBalanceSource(id)
	return q
}

// SetContractID asks for the balance of a contract, replacing any account ID.
func (q *AccountBalanceQuery) SetContractID(id ledger.ContractID) *AccountBalanceQuery {
	q.data.source = contractBalanceSource(id)
	return q
}
