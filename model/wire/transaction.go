package wire

// Transaction is the envelope submitted to a node.
type Transaction struct {
	SignedTransactionBytes []byte `cbor:"1,keyasint"`
}

// SignedTransaction is a serialized body plus the signatures over those exact bytes.
type SignedTransaction struct {
	BodyBytes []byte       `cbor:"1,keyasint"`
	SigMap    SignatureMap `cbor:"2,keyasint"`
}

// SignatureMap holds one signature per signing key.
type SignatureMap struct {
	SigPair []SignaturePair `cbor:"1,keyasint,omitempty"`
}

// SignaturePair is a signature together with the public key that produced it.
type SignaturePair struct {
	PubKeyPrefix   []byte `cbor:"1,keyasint"`
	Ed25519        []byte `cbor:"2,keyasint,omitempty"`
	ECDSASecp256k1 []byte `cbor:"3,keyasint,omitempty"`
}

// TransactionBody carries the fields common to every transaction plus exactly one
// operation-specific body.
type TransactionBody struct {
	TransactionID            TransactionID `cbor:"1,keyasint"`
	NodeAccountID            AccountID     `cbor:"2,keyasint"`
	TransactionFee           uint64        `cbor:"3,keyasint"`
	TransactionValidDuration Duration      `cbor:"4,keyasint"`
	Memo                     string        `cbor:"5,keyasint,omitempty"`

	TransactionData
}

// TransactionData is the operation-specific part of a transaction body. Exactly one
// field is set.
type TransactionData struct {
	CryptoCreateAccount    *CryptoCreateTransactionBody     `cbor:"10,keyasint,omitempty"`
	CryptoUpdateAccount    *CryptoUpdateTransactionBody     `cbor:"11,keyasint,omitempty"`
	CryptoDelete           *CryptoDeleteTransactionBody     `cbor:"12,keyasint,omitempty"`
	CryptoTransfer         *CryptoTransferTransactionBody   `cbor:"13,keyasint,omitempty"`
	ContractDeleteInstance *ContractDeleteTransactionBody   `cbor:"14,keyasint,omitempty"`
	TokenAssociate         *TokenAssociateTransactionBody   `cbor:"15,keyasint,omitempty"`
	TokenWipe              *TokenWipeAccountTransactionBody `cbor:"16,keyasint,omitempty"`
	TokenCreation          *TokenCreateTransactionBody      `cbor:"17,keyasint,omitempty"`
}

// CryptoCreateTransactionBody creates a new account.
type CryptoCreateTransactionBody struct {
	Key                           *Key      `cbor:"1,keyasint,omitempty"`
	InitialBalance                uint64    `cbor:"2,keyasint,omitempty"`
	ReceiverSigRequired           bool      `cbor:"3,keyasint,omitempty"`
	AutoRenewPeriod               *Duration `cbor:"4,keyasint,omitempty"`
	Memo                          string    `cbor:"5,keyasint,omitempty"`
	MaxAutomaticTokenAssociations int32     `cbor:"6,keyasint,omitempty"`
	Alias                         []byte    `cbor:"7,keyasint,omitempty"`
}

// CryptoUpdateTransactionBody changes the properties of an existing account.
type CryptoUpdateTransactionBody struct {
	AccountIDToUpdate   *AccountID `cbor:"1,keyasint,omitempty"`
	Key                 *Key       `cbor:"2,keyasint,omitempty"`
	ReceiverSigRequired *bool      `cbor:"3,keyasint,omitempty"`
	AutoRenewPeriod     *Duration  `cbor:"4,keyasint,omitempty"`
	ExpirationTime      *Timestamp `cbor:"5,keyasint,omitempty"`
	Memo                *string    `cbor:"6,keyasint,omitempty"`
}

// CryptoDeleteTransactionBody deletes an account, moving its balance to a transfer
// account.
type CryptoDeleteTransactionBody struct {
	DeleteAccountID   *AccountID `cbor:"1,keyasint,omitempty"`
	TransferAccountID *AccountID `cbor:"2,keyasint,omitempty"`
}

// CryptoTransferTransactionBody moves hbars and tokens between accounts.
type CryptoTransferTransactionBody struct {
	Transfers      TransferList        `cbor:"1,keyasint"`
	TokenTransfers []TokenTransferList `cbor:"2,keyasint,omitempty"`
}

// ContractDeleteTransactionBody marks a contract as deleted and moves its remaining
// hbars to an obtainer.
type ContractDeleteTransactionBody struct {
	ContractID         *ContractID `cbor:"1,keyasint,omitempty"`
	TransferAccountID  *AccountID  `cbor:"2,keyasint,omitempty"`
	TransferContractID *ContractID `cbor:"3,keyasint,omitempty"`
}

// TokenAssociateTransactionBody associates an account with tokens.
type TokenAssociateTransactionBody struct {
	Account *AccountID `cbor:"1,keyasint,omitempty"`
	Tokens  []TokenID  `cbor:"2,keyasint,omitempty"`
}

// TokenWipeAccountTransactionBody wipes an amount of tokens from an account.
type TokenWipeAccountTransactionBody struct {
	Token         *TokenID   `cbor:"1,keyasint,omitempty"`
	Account       *AccountID `cbor:"2,keyasint,omitempty"`
	Amount        uint64     `cbor:"3,keyasint,omitempty"`
	SerialNumbers []int64    `cbor:"4,keyasint,omitempty"`
}

// TokenCreateTransactionBody creates a fungible token. The initial supply goes to the
// treasury account.
type TokenCreateTransactionBody struct {
	Name             string     `cbor:"1,keyasint"`
	Symbol           string     `cbor:"2,keyasint"`
	Decimals         uint32     `cbor:"3,keyasint,omitempty"`
	InitialSupply    uint64     `cbor:"4,keyasint,omitempty"`
	Treasury         *AccountID `cbor:"5,keyasint,omitempty"`
	AdminKey         *Key       `cbor:"6,keyasint,omitempty"`
	SupplyKey        *Key       `cbor:"7,keyasint,omitempty"`
	FreezeDefault    bool       `cbor:"8,keyasint,omitempty"`
	AutoRenewAccount *AccountID `cbor:"9,keyasint,omitempty"`
	AutoRenewPeriod  *Duration  `cbor:"10,keyasint,omitempty"`
	Memo             string     `cbor:"11,keyasint,omitempty"`
}

// TransactionResponse is the precheck answer of a node to a submitted transaction.
type TransactionResponse struct {
	NodeTransactionPrecheckCode int32  `cbor:"1,keyasint"`
	Cost                        uint64 `cbor:"2,keyasint,omitempty"`
}
