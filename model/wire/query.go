package wire

// ResponseType selects whether a query asks for its answer or only for its cost.
type ResponseType int32

const (
	ResponseTypeAnswerOnly ResponseType = 0
	ResponseTypeCostAnswer ResponseType = 2
)

// QueryHeader is attached to every query.
type QueryHeader struct {
	Payment      *Transaction `cbor:"1,keyasint,omitempty"`
	ResponseType ResponseType `cbor:"2,keyasint,omitempty"`
}

// ResponseHeader is attached to every query response.
type ResponseHeader struct {
	NodeTransactionPrecheckCode int32        `cbor:"1,keyasint"`
	ResponseType                ResponseType `cbor:"2,keyasint,omitempty"`
	Cost                        uint64       `cbor:"3,keyasint,omitempty"`
}

// Query is the envelope of every query. Exactly one field is set.
type Query struct {
	CryptoGetAccountBalance *CryptoGetAccountBalanceQuery `cbor:"1,keyasint,omitempty"`
	CryptoGetAccountRecords *CryptoGetAccountRecordsQuery `cbor:"2,keyasint,omitempty"`
	FileGetContents         *FileGetContentsQuery         `cbor:"3,keyasint,omitempty"`
	ContractGetBytecode     *ContractGetBytecodeQuery     `cbor:"4,keyasint,omitempty"`
	TransactionGetReceipt   *TransactionGetReceiptQuery   `cbor:"5,keyasint,omitempty"`
}

// Header returns the header of whichever query is set.
func (q *Query) Header() *QueryHeader {
	switch {
	case q.CryptoGetAccountBalance != nil:
		return &q.CryptoGetAccountBalance.Header
	case q.CryptoGetAccountRecords != nil:
		return &q.CryptoGetAccountRecords.Header
	case q.FileGetContents != nil:
		return &q.FileGetContents.Header
	case q.ContractGetBytecode != nil:
		return &q.ContractGetBytecode.Header
	case q.TransactionGetReceipt != nil:
		return &q.TransactionGetReceipt.Header
	default:
		return nil
	}
}

// CryptoGetAccountBalanceQuery asks for the balance of an account or of a contract.
type CryptoGetAccountBalanceQuery struct {
	Header     QueryHeader `cbor:"1,keyasint"`
	AccountID  *AccountID  `cbor:"2,keyasint,omitempty"`
	ContractID *ContractID `cbor:"3,keyasint,omitempty"`
}

// CryptoGetAccountRecordsQuery asks for the recent records of an account.
type CryptoGetAccountRecordsQuery struct {
	Header    QueryHeader `cbor:"1,keyasint"`
	AccountID *AccountID  `cbor:"2,keyasint,omitempty"`
}

// FileGetContentsQuery asks for the contents of a file.
type FileGetContentsQuery struct {
	Header QueryHeader `cbor:"1,keyasint"`
	FileID *FileID     `cbor:"2,keyasint,omitempty"`
}

// ContractGetBytecodeQuery asks for the runtime bytecode of a contract.
type ContractGetBytecodeQuery struct {
	Header     QueryHeader `cbor:"1,keyasint"`
	ContractID *ContractID `cbor:"2,keyasint,omitempty"`
}

// TransactionGetReceiptQuery asks for the receipt of a transaction.
type TransactionGetReceiptQuery struct {
	Header        QueryHeader    `cbor:"1,keyasint"`
	TransactionID *TransactionID `cbor:"2,keyasint,omitempty"`
}

// Response is the envelope of every query response. Exactly one field is set.
type Response struct {
	CryptoGetAccountBalance *CryptoGetAccountBalanceResponse `cbor:"1,keyasint,omitempty"`
	CryptoGetAccountRecords *CryptoGetAccountRecordsResponse `cbor:"2,keyasint,omitempty"`
	FileGetContents         *FileGetContentsResponse         `cbor:"3,keyasint,omitempty"`
	ContractGetBytecode     *ContractGetBytecodeResponse     `cbor:"4,keyasint,omitempty"`
	TransactionGetReceipt   *TransactionGetReceiptResponse   `cbor:"5,keyasint,omitempty"`
}

// Header returns the header of whichever response is set.
func (r *Response) Header() *ResponseHeader {
	switch {
	case r.CryptoGetAccountBalance != nil:
		return &r.CryptoGetAccountBalance.Header
	case r.CryptoGetAccountRecords != nil:
		return &r.CryptoGetAccountRecords.Header
	case r.FileGetContents != nil:
		return &r.FileGetContents.Header
	case r.ContractGetBytecode != nil:
		return &r.ContractGetBytecode.Header
	case r.TransactionGetReceipt != nil:
		return &r.TransactionGetReceipt.Header
	default:
		return nil
	}
}

// TokenBalance is the balance of one token held by an account.
type TokenBalance struct {
	TokenID  TokenID `cbor:"1,keyasint"`
	Balance  uint64  `cbor:"2,keyasint"`
	Decimals uint32  `cbor:"3,keyasint,omitempty"`
}

type CryptoGetAccountBalanceResponse struct {
	Header        ResponseHeader `cbor:"1,keyasint"`
	AccountID     *AccountID     `cbor:"2,keyasint,omitempty"`
	Balance       uint64         `cbor:"3,keyasint,omitempty"`
	TokenBalances []TokenBalance `cbor:"4,keyasint,omitempty"`
}

type CryptoGetAccountRecordsResponse struct {
	Header    ResponseHeader      `cbor:"1,keyasint"`
	AccountID *AccountID          `cbor:"2,keyasint,omitempty"`
	Records   []TransactionRecord `cbor:"3,keyasint,omitempty"`
}

type FileGetContentsResponse struct {
	Header       ResponseHeader `cbor:"1,keyasint"`
	FileContents *FileContents  `cbor:"2,keyasint,omitempty"`
}

// FileContents is a file identifier plus its content.
type FileContents struct {
	FileID   FileID `cbor:"1,keyasint"`
	Contents []byte `cbor:"2,keyasint,omitempty"`
}

type ContractGetBytecodeResponse struct {
	Header   ResponseHeader `cbor:"1,keyasint"`
	Bytecode []byte         `cbor:"2,keyasint,omitempty"`
}

type TransactionGetReceiptResponse struct {
	Header  ResponseHeader      `cbor:"1,keyasint"`
	Receipt *TransactionReceipt `cbor:"2,keyasint,omitempty"`
}

// TransactionReceipt is the wire form of ledger.Receipt.
type TransactionReceipt struct {
	Status         int32         `cbor:"1,keyasint"`
	AccountID      *AccountID    `cbor:"2,keyasint,omitempty"`
	FileID         *FileID       `cbor:"3,keyasint,omitempty"`
	ContractID     *ContractID   `cbor:"4,keyasint,omitempty"`
	TokenID        *TokenID      `cbor:"5,keyasint,omitempty"`
	NewTotalSupply uint64        `cbor:"6,keyasint,omitempty"`
	ExchangeRate   *ExchangeRate `cbor:"7,keyasint,omitempty"`
}

// TransactionRecord is the wire form of ledger.TransactionRecord.
type TransactionRecord struct {
	Receipt            TransactionReceipt  `cbor:"1,keyasint"`
	TransactionHash    []byte              `cbor:"2,keyasint,omitempty"`
	ConsensusTimestamp Timestamp           `cbor:"3,keyasint"`
	TransactionID      TransactionID       `cbor:"4,keyasint"`
	Memo               string              `cbor:"5,keyasint,omitempty"`
	TransactionFee     uint64              `cbor:"6,keyasint,omitempty"`
	TransferList       TransferList        `cbor:"7,keyasint"`
	TokenTransferLists []TokenTransferList `cbor:"8,keyasint,omitempty"`
}
