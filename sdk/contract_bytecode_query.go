package sdk

import (
	"errors"
	"fmt"

	"github.com/ledgerexec/ledgerexec/model/ledger"
	"github.com/ledgerexec/ledgerexec/model/wire"
)

// ContractBytecodeQueryData asks for the runtime bytecode of a contract.
type ContractBytecodeQueryData struct {
	ContractID *ledger.ContractID `json:"contractId,omitempty"`
}

var _ QueryData[[]byte] = ContractBytecodeQueryData{}

func (d ContractBytecodeQueryData) toWire(header wire.QueryHeader) *wire.Query {
	q := &wire.ContractGetBytecodeQuery{Header: header}
	if d.ContractID != nil {
		id := wire.NewContractID(*d.ContractID)
		q.ContractID = &id
	}
	return &wire.Query{ContractGetBytecode: q}
}

func (d ContractBytecodeQueryData) method() string        { return wire.MethodContractGetBytecode }
func (d ContractBytecodeQueryData) paymentRequired() bool { return true }
func (d ContractBytecodeQueryData) tag() string           { return "contractBytecode" }

func (d ContractBytecodeQueryData) clone() QueryData[[]byte] {
	d.ContractID = cloneContractID(d.ContractID)
	return d
}

func (d ContractBytecodeQueryData) cloneVariant() anyQueryVariant {
	return d.clone().(ContractBytecodeQueryData)
}

func (d ContractBytecodeQueryData) validate() error {
	if d.ContractID == nil {
		return errors.New("contract bytecode query needs a contract ID")
	}
	return nil
}

func (d ContractBytecodeQueryData) mapResponse(resp *wire.Response) ([]byte, error) {
	if resp.ContractGetBytecode == nil {
		return nil, fmt.Errorf("expected a contract bytecode answer")
	}
	return resp.ContractGetBytecode.Bytecode, nil
}

func (d ContractBytecodeQueryData) mapAnyResponse(resp *wire.Response) (AnyQueryResponse, error) {
	bytecode, err := d.mapResponse(resp)
	if err != nil {
		return AnyQueryResponse{}, err
	}
	return AnyQueryResponse{ContractBytecode: bytecode}, nil
}

// ContractBytecodeQuery gets the runtime bytecode of a contract.
type ContractBytecodeQuery struct {
	Query[ContractBytecodeQueryData, []byte]
}

func NewContractBytecodeQuery() *ContractBytecodeQuery {
	return &ContractBytecodeQuery{}
}

func (q *ContractBytecodeQuery) SetContractID(id ledger.ContractID) *ContractBytecodeQuery {
	q.data.ContractID = &id
	return q
}
