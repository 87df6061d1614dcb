package ledger

import "fmt"

// Status is a response code returned by a node, either at precheck (when a request is
// first received) or in a receipt (once the network reached consensus on a transaction).
type Status int32

const (
	StatusOk                                           Status = 0
	StatusInvalidTransaction                           Status = 1
	StatusPayerAccountNotFound                         Status = 2
	StatusInvalidNodeAccount                           Status = 3
	StatusTransactionExpired                           Status = 4
	StatusInvalidTransactionStart                      Status = 5
	StatusInvalidTransactionDuration                   Status = 6
	StatusInvalidSignature                             Status = 7
	StatusMemoTooLong                                  Status = 8
	StatusInsufficientTxFee                            Status = 9
	StatusInsufficientPayerBalance                     Status = 10
	StatusDuplicateTransaction                         Status = 11
	StatusBusy                                         Status = 12
	StatusNotSupported                                 Status = 13
	StatusInvalidFileId                                Status = 14
	StatusInvalidAccountId                             Status = 15
	StatusInvalidContractId                            Status = 16
	StatusInvalidTransactionId                         Status = 17
	StatusReceiptNotFound                              Status = 18
	StatusRecordNotFound                               Status = 19
	StatusInvalidSolidityId                            Status = 20
	StatusUnknown                                      Status = 21
	StatusSuccess                                      Status = 22
	StatusFailInvalid                                  Status = 23
	StatusFailFee                                      Status = 24
	StatusFailBalance                                  Status = 25
	StatusKeyRequired                                  Status = 26
	StatusBadEncoding                                  Status = 27
	StatusInsufficientAccountBalance                   Status = 28
	StatusInvalidSolidityAddress                       Status = 29
	StatusInsufficientGas                              Status = 30
	StatusContractSizeLimitExceeded                    Status = 31
	StatusLocalCallModificationException               Status = 32
	StatusContractRevertExecuted                       Status = 33
	StatusContractExecutionException                   Status = 34
	StatusInvalidReceivingNodeAccount                  Status = 35
	StatusMissingQueryHeader                           Status = 36
	StatusAccountUpdateFailed                          Status = 37
	StatusInvalidKeyEncoding                           Status = 38
	StatusNullSolidityAddress                          Status = 39
	StatusContractUpdateFailed                         Status = 40
	StatusInvalidQueryHeader                           Status = 41
	StatusInvalidFeeSubmitted                          Status = 42
	StatusInvalidPayerSignature                        Status = 43
	StatusKeyNotProvided                               Status = 44
	StatusInvalidExpirationTime                        Status = 45
	StatusNoWaclKey                                    Status = 46
	StatusFileContentEmpty                             Status = 47
	StatusInvalidAccountAmounts                        Status = 48
	StatusEmptyTransactionBody                         Status = 49
	StatusInvalidTransactionBody                       Status = 50
	StatusInvalidSignatureTypeMismatchingKey           Status = 51
	StatusInvalidSignatureCountMismatchingKey          Status = 52
	StatusEmptyQueryBody                               Status = 57
	StatusAccountIdDoesNotExist                        Status = 60
	StatusInvalidFileWacl                              Status = 62
	StatusSerializationFailed                          Status = 63
	StatusTransactionOversize                          Status = 64
	StatusTransactionTooManyLayers                     Status = 65
	StatusContractDeleted                              Status = 66
	StatusPlatformNotActive                            Status = 67
	StatusKeyPrefixMismatch                            Status = 68
	StatusPlatformTransactionNotCreated                Status = 69
	StatusInvalidRenewalPeriod                         Status = 70
	StatusInvalidPayerAccountId                        Status = 71
	StatusAccountDeleted                               Status = 72
	StatusFileDeleted                                  Status = 73
	StatusAccountRepeatedInAccountAmounts              Status = 74
	StatusSettingNegativeAccountBalance                Status = 75
	StatusObtainerRequired                             Status = 76
	StatusObtainerSameContractId                       Status = 77
	StatusObtainerDoesNotExist                         Status = 78
	StatusModifyingImmutableContract                   Status = 79
	StatusFileSystemException                          Status = 80
	StatusAutorenewDurationNotInRange                  Status = 81
	StatusErrorDecodingBytestring                      Status = 82
	StatusContractFileEmpty                            Status = 83
	StatusContractBytecodeEmpty                        Status = 84
	StatusInvalidInitialBalance                        Status = 85
	StatusAccountIsNotGenesisAccount                   Status = 88
	StatusPayerAccountUnauthorized                     Status = 89
	StatusTransferListSizeLimitExceeded                Status = 92
	StatusResultSizeLimitExceeded                      Status = 93
	StatusNotSpecialAccount                            Status = 94
	StatusContractNegativeGas                          Status = 95
	StatusContractNegativeValue                        Status = 96
	StatusInsufficientLocalCallGas                     Status = 99
	StatusEntityNotAllowedToDelete                     Status = 100
	StatusAuthorizationFailed                          Status = 101
	StatusFeeScheduleFilePartUploaded                  Status = 104
	StatusExchangeRateChangeLimitExceeded              Status = 105
	StatusMaxContractStorageExceeded                   Status = 106
	StatusTransferAccountSameAsDeleteAccount           Status = 107
	StatusTotalLedgerBalanceInvalid                    Status = 108
	StatusExpirationReductionNotAllowed                Status = 110
	StatusMaxGasLimitExceeded                          Status = 111
	StatusMaxFileSizeExceeded                          Status = 112
	StatusReceiverSigRequired                          Status = 113
	StatusAccountFrozenForToken                        Status = 165
	StatusTokensPerAccountLimitExceeded                Status = 166
	StatusInvalidTokenId                               Status = 167
	StatusInvalidTokenDecimals                         Status = 168
	StatusInvalidTokenInitialSupply                    Status = 169
	StatusInvalidTreasuryAccountForToken               Status = 170
	StatusInvalidTokenSymbol                           Status = 171
	StatusTokenHasNoFreezeKey                          Status = 172
	StatusTransfersNotZeroSumForToken                  Status = 173
	StatusMissingTokenSymbol                           Status = 174
	StatusTokenSymbolTooLong                           Status = 175
	StatusAccountKycNotGrantedForToken                 Status = 176
	StatusTokenHasNoKycKey                             Status = 177
	StatusInsufficientTokenBalance                     Status = 178
	StatusTokenWasDeleted                              Status = 179
	StatusTokenHasNoSupplyKey                          Status = 180
	StatusTokenHasNoWipeKey                            Status = 181
	StatusInvalidTokenMintAmount                       Status = 182
	StatusInvalidTokenBurnAmount                       Status = 183
	StatusTokenNotAssociatedToAccount                  Status = 184
	StatusCannotWipeTokenTreasuryAccount               Status = 185
	StatusInvalidKycKey                                Status = 186
	StatusInvalidWipeKey                               Status = 187
	StatusInvalidFreezeKey                             Status = 188
	StatusInvalidSupplyKey                             Status = 189
	StatusMissingTokenName                             Status = 190
	StatusTokenNameTooLong                             Status = 191
	StatusInvalidWipingAmount                          Status = 192
	StatusTokenIsImmutable                             Status = 193
	StatusTokenAlreadyAssociatedToAccount              Status = 194
	StatusTransactionRequiresZeroTokenBalances         Status = 195
	StatusAccountIsTreasury                            Status = 196
	StatusTokenIdRepeatedInTokenList                   Status = 197
	StatusTokenTransferListSizeLimitExceeded           Status = 198
	StatusEmptyTokenTransferBody                       Status = 199
	StatusEmptyTokenTransferAccountAmounts             Status = 200
	StatusInsufficientSenderAccountBalanceForCustomFee Status = 243
	StatusUnexpectedTokenDecimals                      Status = 268
	StatusDuplicateTransactionIdInBatch                Status = 280
)

var statusNames = map[Status]string{
	StatusOk:                                           "OK",
	StatusInvalidTransaction:                           "INVALID_TRANSACTION",
	StatusPayerAccountNotFound:                         "PAYER_ACCOUNT_NOT_FOUND",
	StatusInvalidNodeAccount:                           "INVALID_NODE_ACCOUNT",
	StatusTransactionExpired:                           "TRANSACTION_EXPIRED",
	StatusInvalidTransactionStart:                      "INVALID_TRANSACTION_START",
	StatusInvalidTransactionDuration:                   "INVALID_TRANSACTION_DURATION",
	StatusInvalidSignature:                             "INVALID_SIGNATURE",
	StatusMemoTooLong:                                  "MEMO_TOO_LONG",
	StatusInsufficientTxFee:                            "INSUFFICIENT_TX_FEE",
	StatusInsufficientPayerBalance:                     "INSUFFICIENT_PAYER_BALANCE",
	StatusDuplicateTransaction:                         "DUPLICATE_TRANSACTION",
	StatusBusy:                                         "BUSY",
	StatusNotSupported:                                 "NOT_SUPPORTED",
	StatusInvalidFileId:                                "INVALID_FILE_ID",
	StatusInvalidAccountId:                             "INVALID_ACCOUNT_ID",
	StatusInvalidContractId:                            "INVALID_CONTRACT_ID",
	StatusInvalidTransactionId:                         "INVALID_TRANSACTION_ID",
	StatusReceiptNotFound:                              "RECEIPT_NOT_FOUND",
	StatusRecordNotFound:                               "RECORD_NOT_FOUND",
	StatusInvalidSolidityId:                            "INVALID_SOLIDITY_ID",
	StatusUnknown:                                      "UNKNOWN",
	StatusSuccess:                                      "SUCCESS",
	StatusFailInvalid:                                  "FAIL_INVALID",
	StatusFailFee:                                      "FAIL_FEE",
	StatusFailBalance:                                  "FAIL_BALANCE",
	StatusKeyRequired:                                  "KEY_REQUIRED",
	StatusBadEncoding:                                  "BAD_ENCODING",
	StatusInsufficientAccountBalance:                   "INSUFFICIENT_ACCOUNT_BALANCE",
	StatusInvalidSolidityAddress:                       "INVALID_SOLIDITY_ADDRESS",
	StatusInsufficientGas:                              "INSUFFICIENT_GAS",
	StatusContractSizeLimitExceeded:                    "CONTRACT_SIZE_LIMIT_EXCEEDED",
	StatusLocalCallModificationException:               "LOCAL_CALL_MODIFICATION_EXCEPTION",
	StatusContractRevertExecuted:                       "CONTRACT_REVERT_EXECUTED",
	StatusContractExecutionException:                   "CONTRACT_EXECUTION_EXCEPTION",
	StatusInvalidReceivingNodeAccount:                  "INVALID_RECEIVING_NODE_ACCOUNT",
	StatusMissingQueryHeader:                           "MISSING_QUERY_HEADER",
	StatusAccountUpdateFailed:                          "ACCOUNT_UPDATE_FAILED",
	StatusInvalidKeyEncoding:                           "INVALID_KEY_ENCODING",
	StatusNullSolidityAddress:                          "NULL_SOLIDITY_ADDRESS",
	StatusContractUpdateFailed:                         "CONTRACT_UPDATE_FAILED",
	StatusInvalidQueryHeader:                           "INVALID_QUERY_HEADER",
	StatusInvalidFeeSubmitted:                          "INVALID_FEE_SUBMITTED",
	StatusInvalidPayerSignature:                        "INVALID_PAYER_SIGNATURE",
	StatusKeyNotProvided:                               "KEY_NOT_PROVIDED",
	StatusInvalidExpirationTime:                        "INVALID_EXPIRATION_TIME",
	StatusNoWaclKey:                                    "NO_WACL_KEY",
	StatusFileContentEmpty:                             "FILE_CONTENT_EMPTY",
	StatusInvalidAccountAmounts:                        "INVALID_ACCOUNT_AMOUNTS",
	StatusEmptyTransactionBody:                         "EMPTY_TRANSACTION_BODY",
	StatusInvalidTransactionBody:                       "INVALID_TRANSACTION_BODY",
	StatusInvalidSignatureTypeMismatchingKey:           "INVALID_SIGNATURE_TYPE_MISMATCHING_KEY",
	StatusInvalidSignatureCountMismatchingKey:          "INVALID_SIGNATURE_COUNT_MISMATCHING_KEY",
	StatusEmptyQueryBody:                               "EMPTY_QUERY_BODY",
	StatusAccountIdDoesNotExist:                        "ACCOUNT_ID_DOES_NOT_EXIST",
	StatusInvalidFileWacl:                              "INVALID_FILE_WACL",
	StatusSerializationFailed:                          "SERIALIZATION_FAILED",
	StatusTransactionOversize:                          "TRANSACTION_OVERSIZE",
	StatusTransactionTooManyLayers:                     "TRANSACTION_TOO_MANY_LAYERS",
	StatusContractDeleted:                              "CONTRACT_DELETED",
	StatusPlatformNotActive:                            "PLATFORM_NOT_ACTIVE",
	StatusKeyPrefixMismatch:                            "KEY_PREFIX_MISMATCH",
	StatusPlatformTransactionNotCreated:                "PLATFORM_TRANSACTION_NOT_CREATED",
	StatusInvalidRenewalPeriod:                         "INVALID_RENEWAL_PERIOD",
	StatusInvalidPayerAccountId:                        "INVALID_PAYER_ACCOUNT_ID",
	StatusAccountDeleted:                               "ACCOUNT_DELETED",
	StatusFileDeleted:                                  "FILE_DELETED",
	StatusAccountRepeatedInAccountAmounts:              "ACCOUNT_REPEATED_IN_ACCOUNT_AMOUNTS",
	StatusSettingNegativeAccountBalance:                "SETTING_NEGATIVE_ACCOUNT_BALANCE",
	StatusObtainerRequired:                             "OBTAINER_REQUIRED",
	StatusObtainerSameContractId:                       "OBTAINER_SAME_CONTRACT_ID",
	StatusObtainerDoesNotExist:                         "OBTAINER_DOES_NOT_EXIST",
	StatusModifyingImmutableContract:                   "MODIFYING_IMMUTABLE_CONTRACT",
	StatusFileSystemException:                          "FILE_SYSTEM_EXCEPTION",
	StatusAutorenewDurationNotInRange:                  "AUTORENEW_DURATION_NOT_IN_RANGE",
	StatusErrorDecodingBytestring:                      "ERROR_DECODING_BYTESTRING",
	StatusContractFileEmpty:                            "CONTRACT_FILE_EMPTY",
	StatusContractBytecodeEmpty:                        "CONTRACT_BYTECODE_EMPTY",
	StatusInvalidInitialBalance:                        "INVALID_INITIAL_BALANCE",
	StatusAccountIsNotGenesisAccount:                   "ACCOUNT_IS_NOT_GENESIS_ACCOUNT",
	StatusPayerAccountUnauthorized:                     "PAYER_ACCOUNT_UNAUTHORIZED",
	StatusTransferListSizeLimitExceeded:                "TRANSFER_LIST_SIZE_LIMIT_EXCEEDED",
	StatusResultSizeLimitExceeded:                      "RESULT_SIZE_LIMIT_EXCEEDED",
	StatusNotSpecialAccount:                            "NOT_SPECIAL_ACCOUNT",
	StatusContractNegativeGas:                          "CONTRACT_NEGATIVE_GAS",
	StatusContractNegativeValue:                        "CONTRACT_NEGATIVE_VALUE",
	StatusInsufficientLocalCallGas:                     "INSUFFICIENT_LOCAL_CALL_GAS",
	StatusEntityNotAllowedToDelete:                     "ENTITY_NOT_ALLOWED_TO_DELETE",
	StatusAuthorizationFailed:                          "AUTHORIZATION_FAILED",
	StatusFeeScheduleFilePartUploaded:                  "FEE_SCHEDULE_FILE_PART_UPLOADED",
	StatusExchangeRateChangeLimitExceeded:              "EXCHANGE_RATE_CHANGE_LIMIT_EXCEEDED",
	StatusMaxContractStorageExceeded:                   "MAX_CONTRACT_STORAGE_EXCEEDED",
	StatusTransferAccountSameAsDeleteAccount:           "TRANSFER_ACCOUNT_SAME_AS_DELETE_ACCOUNT",
	StatusTotalLedgerBalanceInvalid:                    "TOTAL_LEDGER_BALANCE_INVALID",
	StatusExpirationReductionNotAllowed:                "EXPIRATION_REDUCTION_NOT_ALLOWED",
	StatusMaxGasLimitExceeded:                          "MAX_GAS_LIMIT_EXCEEDED",
	StatusMaxFileSizeExceeded:                          "MAX_FILE_SIZE_EXCEEDED",
	StatusReceiverSigRequired:                          "RECEIVER_SIG_REQUIRED",
	StatusAccountFrozenForToken:                        "ACCOUNT_FROZEN_FOR_TOKEN",
	StatusTokensPerAccountLimitExceeded:                "TOKENS_PER_ACCOUNT_LIMIT_EXCEEDED",
	StatusInvalidTokenId:                               "INVALID_TOKEN_ID",
	StatusInvalidTokenDecimals:                         "INVALID_TOKEN_DECIMALS",
	StatusInvalidTokenInitialSupply:                    "INVALID_TOKEN_INITIAL_SUPPLY",
	StatusInvalidTreasuryAccountForToken:               "INVALID_TREASURY_ACCOUNT_FOR_TOKEN",
	StatusInvalidTokenSymbol:                           "INVALID_TOKEN_SYMBOL",
	StatusTokenHasNoFreezeKey:                          "TOKEN_HAS_NO_FREEZE_KEY",
	StatusTransfersNotZeroSumForToken:                  "TRANSFERS_NOT_ZERO_SUM_FOR_TOKEN",
	StatusMissingTokenSymbol:                           "MISSING_TOKEN_SYMBOL",
	StatusTokenSymbolTooLong:                           "TOKEN_SYMBOL_TOO_LONG",
	StatusAccountKycNotGrantedForToken:                 "ACCOUNT_KYC_NOT_GRANTED_FOR_TOKEN",
	StatusTokenHasNoKycKey:                             "TOKEN_HAS_NO_KYC_KEY",
	StatusInsufficientTokenBalance:                     "INSUFFICIENT_TOKEN_BALANCE",
	StatusTokenWasDeleted:                              "TOKEN_WAS_DELETED",
	StatusTokenHasNoSupplyKey:                          "TOKEN_HAS_NO_SUPPLY_KEY",
	StatusTokenHasNoWipeKey:                            "TOKEN_HAS_NO_WIPE_KEY",
	StatusInvalidTokenMintAmount:                       "INVALID_TOKEN_MINT_AMOUNT",
	StatusInvalidTokenBurnAmount:                       "INVALID_TOKEN_BURN_AMOUNT",
	StatusTokenNotAssociatedToAccount:                  "TOKEN_NOT_ASSOCIATED_TO_ACCOUNT",
	StatusCannotWipeTokenTreasuryAccount:               "CANNOT_WIPE_TOKEN_TREASURY_ACCOUNT",
	StatusInvalidKycKey:                                "INVALID_KYC_KEY",
	StatusInvalidWipeKey:                               "INVALID_WIPE_KEY",
	StatusInvalidFreezeKey:                             "INVALID_FREEZE_KEY",
	StatusInvalidSupplyKey:                             "INVALID_SUPPLY_KEY",
	StatusMissingTokenName:                             "MISSING_TOKEN_NAME",
	StatusTokenNameTooLong:                             "TOKEN_NAME_TOO_LONG",
	StatusInvalidWipingAmount:                          "INVALID_WIPING_AMOUNT",
	StatusTokenIsImmutable:                             "TOKEN_IS_IMMUTABLE",
	StatusTokenAlreadyAssociatedToAccount:              "TOKEN_ALREADY_ASSOCIATED_TO_ACCOUNT",
	StatusTransactionRequiresZeroTokenBalances:         "TRANSACTION_REQUIRES_ZERO_TOKEN_BALANCES",
	StatusAccountIsTreasury:                            "ACCOUNT_IS_TREASURY",
	StatusTokenIdRepeatedInTokenList:                   "TOKEN_ID_REPEATED_IN_TOKEN_LIST",
	StatusTokenTransferListSizeLimitExceeded:           "TOKEN_TRANSFER_LIST_SIZE_LIMIT_EXCEEDED",
	StatusEmptyTokenTransferBody:                       "EMPTY_TOKEN_TRANSFER_BODY",
	StatusEmptyTokenTransferAccountAmounts:             "EMPTY_TOKEN_TRANSFER_ACCOUNT_AMOUNTS",
	StatusInsufficientSenderAccountBalanceForCustomFee: "INSUFFICIENT_SENDER_ACCOUNT_BALANCE_FOR_CUSTOM_FEE",
	StatusUnexpectedTokenDecimals:                      "UNEXPECTED_TOKEN_DECIMALS",
	StatusDuplicateTransactionIdInBatch:                "DUPLICATE_TRANSACTION_ID_IN_BATCH",
}

var statusesByName = func() map[string]Status {
	byName := make(map[string]Status, len(statusNames))
	for status, name := range statusNames {
		byName[name] = status
	}
	return byName
}()

// String returns the wire name of the status, e.g. `INSUFFICIENT_PAYER_BALANCE`.
func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("UNRECOGNIZED(%d)", int32(s))
}

// StatusFromString returns the status with the given wire name.
func StatusFromString(name string) (Status, bool) {
	status, ok := statusesByName[name]
	return status, ok
}

// IsKnown returns true if the status is part of the response code table.
func (s Status) IsKnown() bool {
	_, ok := statusNames[s]
	return ok
}

// IsPending returns true if a receipt with this status has not reached consensus yet.
func (s Status) IsPending() bool {
	switch s {
	case StatusUnknown, StatusReceiptNotFound, StatusRecordNotFound, StatusBusy:
		return true
	default:
		return false
	}
}

// IsReceiptSuccess returns true if a receipt with this status records a successful
// transaction.
func (s Status) IsReceiptSuccess() bool {
	return s == StatusSuccess || s == StatusFeeScheduleFilePartUploaded
}
