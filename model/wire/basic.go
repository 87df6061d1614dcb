// Package wire contains the messages exchanged with network nodes.
//
// Messages are plain structs encoded with the deterministic CBOR codec in
// model/encoding/cbor. Field keys are small integers and must never be renumbered:
// transaction bodies are signed over their encoded bytes.
package wire

// AccountID is the wire form of ledger.AccountID.
type AccountID struct {
	ShardNum   int64  `cbor:"1,keyasint,omitempty"`
	RealmNum   int64  `cbor:"2,keyasint,omitempty"`
	AccountNum int64  `cbor:"3,keyasint,omitempty"`
	Alias      []byte `cbor:"4,keyasint,omitempty"`
}

// ContractID is the wire form of ledger.ContractID.
type ContractID struct {
	ShardNum    int64  `cbor:"1,keyasint,omitempty"`
	RealmNum    int64  `cbor:"2,keyasint,omitempty"`
	ContractNum int64  `cbor:"3,keyasint,omitempty"`
	EvmAddress  []byte `cbor:"4,keyasint,omitempty"`
}

// FileID is the wire form of ledger.FileID.
type FileID struct {
	ShardNum int64 `cbor:"1,keyasint,omitempty"`
	RealmNum int64 `cbor:"2,keyasint,omitempty"`
	FileNum  int64 `cbor:"3,keyasint,omitempty"`
}

// TokenID is the wire form of ledger.TokenID.
type TokenID struct {
	ShardNum int64 `cbor:"1,keyasint,omitempty"`
	RealmNum int64 `cbor:"2,keyasint,omitempty"`
	TokenNum int64 `cbor:"3,keyasint,omitempty"`
}

// Timestamp is a point in time with nanosecond precision.
type Timestamp struct {
	Seconds int64 `cbor:"1,keyasint,omitempty"`
	Nanos   int32 `cbor:"2,keyasint,omitempty"`
}

// Duration is a length of time in seconds.
type Duration struct {
	Seconds int64 `cbor:"1,keyasint,omitempty"`
}

// TransactionID is the wire form of ledger.TransactionID.
type TransactionID struct {
	TransactionValidStart Timestamp `cbor:"1,keyasint"`
	AccountID             AccountID `cbor:"2,keyasint"`
	Scheduled             bool      `cbor:"3,keyasint,omitempty"`
	Nonce                 int32     `cbor:"4,keyasint,omitempty"`
}

// Key is a public key.
type Key struct {
	Ed25519        []byte `cbor:"1,keyasint,omitempty"`
	ECDSASecp256k1 []byte `cbor:"2,keyasint,omitempty"`
}

// AccountAmount is a signed hbar amount moved in or out of an account.
type AccountAmount struct {
	AccountID AccountID `cbor:"1,keyasint"`
	Amount    int64     `cbor:"2,keyasint"`
}

// TransferList is a list of hbar transfers that must sum to zero.
type TransferList struct {
	AccountAmounts []AccountAmount `cbor:"1,keyasint,omitempty"`
}

// TokenTransferList is a list of transfers of one token that must sum to zero.
// ExpectedDecimals, when set, makes the network reject the transfer unless the token
// has that many decimals.
type TokenTransferList struct {
	Token            TokenID         `cbor:"1,keyasint"`
	Transfers        []AccountAmount `cbor:"2,keyasint,omitempty"`
	ExpectedDecimals *uint32         `cbor:"3,keyasint,omitempty"`
}

// ExchangeRate is the hbar to cent exchange rate.
type ExchangeRate struct {
	HbarEquiv      int32     `cbor:"1,keyasint"`
	CentEquiv      int32     `cbor:"2,keyasint"`
	ExpirationTime Timestamp `cbor:"3,keyasint"`
}
