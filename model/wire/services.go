package wire

// Fully qualified gRPC method names served by network nodes.
const (
	MethodCryptoCreateAccount     = "/proto.CryptoService/createAccount"
	MethodCryptoUpdateAccount     = "/proto.CryptoService/updateAccount"
	MethodCryptoDelete            = "/proto.CryptoService/cryptoDelete"
	MethodCryptoTransfer          = "/proto.CryptoService/cryptoTransfer"
	MethodCryptoGetBalance        = "/proto.CryptoService/cryptoGetBalance"
	MethodCryptoGetAccountRecords = "/proto.CryptoService/getAccountRecords"
	MethodGetTransactionReceipts  = "/proto.CryptoService/getTransactionReceipts"

	MethodFileGetContents = "/proto.FileService/getFileContent"

	MethodContractDelete      = "/proto.SmartContractService/deleteContract"
	MethodContractGetBytecode = "/proto.SmartContractService/ContractGetBytecode"

	MethodTokenCreate      = "/proto.TokenService/createToken"
	MethodTokenAssociate   = "/proto.TokenService/associateTokens"
	MethodTokenWipeAccount = "/proto.TokenService/wipeTokenAccount"
)

// IsQueryMethod reports whether the method carries a Query and answers with a Response,
// as opposed to carrying a Transaction and answering with a TransactionResponse.
func IsQueryMethod(method string) bool {
	switch method {
	case MethodCryptoGetBalance,
		MethodCryptoGetAccountRecords,
		MethodGetTransactionReceipts,
		MethodFileGetContents,
		MethodContractGetBytecode:
		return true
	default:
		return false
	}
}
