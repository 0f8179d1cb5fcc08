package hashgraph

import (
	"fmt"

	"github.com/pkg/errors"
)

// Status is a node response code. Codes without a name are kept as their
// numeric value and classified as fatal.
type Status int32

const (
	StatusOK                                  Status = 0
	StatusInvalidTransaction                  Status = 1
	StatusPayerAccountNotFound                Status = 2
	StatusInvalidNodeAccount                  Status = 3
	StatusTransactionExpired                  Status = 4
	StatusInvalidTransactionStart             Status = 5
	StatusInvalidTransactionDuration          Status = 6
	StatusInvalidSignature                    Status = 7
	StatusMemoTooLong                         Status = 8
	StatusInsufficientTxFee                   Status = 9
	StatusInsufficientPayerBalance            Status = 10
	StatusDuplicateTransaction                Status = 11
	StatusBusy                                Status = 12
	StatusNotSupported                        Status = 13
	StatusInvalidFileID                       Status = 14
	StatusInvalidAccountID                    Status = 15
	StatusInvalidContractID                   Status = 16
	StatusInvalidTransactionID                Status = 17
	StatusReceiptNotFound                     Status = 18
	StatusRecordNotFound                      Status = 19
	StatusInvalidSolidityID                   Status = 20
	StatusUnknown                             Status = 21
	StatusSuccess                             Status = 22
	StatusFailInvalid                         Status = 23
	StatusFailFee                             Status = 24
	StatusFailBalance                         Status = 25
	StatusKeyRequired                         Status = 26
	StatusBadEncoding                         Status = 27
	StatusInsufficientAccountBalance          Status = 28
	StatusInvalidSolidityAddress              Status = 29
	StatusInsufficientGas                     Status = 30
	StatusContractSizeLimitExceeded           Status = 31
	StatusLocalCallModificationException      Status = 32
	StatusContractRevertExecuted              Status = 33
	StatusContractExecutionException          Status = 34
	StatusInvalidReceivingNodeAccount         Status = 35
	StatusMissingQueryHeader                  Status = 36
	StatusAccountUpdateFailed                 Status = 37
	StatusInvalidKeyEncoding                  Status = 38
	StatusNullSolidityAddress                 Status = 39
	StatusContractUpdateFailed                Status = 40
	StatusInvalidQueryHeader                  Status = 41
	StatusInvalidFeeSubmitted                 Status = 42
	StatusInvalidPayerSignature               Status = 43
	StatusKeyNotProvided                      Status = 44
	StatusInvalidExpirationTime               Status = 45
	StatusNoWaclKey                           Status = 46
	StatusFileContentEmpty                    Status = 47
	StatusInvalidAccountAmounts               Status = 48
	StatusEmptyTransactionBody                Status = 49
	StatusInvalidTransactionBody              Status = 50
	StatusInvalidSignatureTypeMismatchingKey  Status = 51
	StatusInvalidSignatureCountMismatchingKey Status = 52
	StatusEmptyLiveHashBody                   Status = 53
	StatusEmptyLiveHash                       Status = 54
	StatusEmptyLiveHashKeys                   Status = 55
	StatusInvalidLiveHashSize                 Status = 56
	StatusEmptyQueryBody                      Status = 57
	StatusEmptyLiveHashQuery                  Status = 58
	StatusLiveHashNotFound                    Status = 59
	StatusAccountIDDoesNotExist               Status = 60
	StatusLiveHashAlreadyExists               Status = 61
	StatusInvalidFileWacl                     Status = 62
	StatusSerializationFailed                 Status = 63
	StatusTransactionOversize                 Status = 64
	StatusTransactionTooManyLayers            Status = 65
	StatusContractDeleted                     Status = 66
	StatusPlatformNotActive                   Status = 67
	StatusKeyPrefixMismatch                   Status = 68
	StatusPlatformTransactionNotCreated       Status = 69
	StatusInvalidRenewalPeriod                Status = 70
	StatusInvalidPayerAccountID               Status = 71
	StatusAccountDeleted                      Status = 72
	StatusFileDeleted                         Status = 73
	StatusAccountRepeatedInAccountAmounts     Status = 74
	StatusSettingNegativeAccountBalance       Status = 75
	StatusObtainerRequired                    Status = 76
	StatusObtainerSameContractID              Status = 77
	StatusObtainerDoesNotExist                Status = 78
	StatusModifyingImmutableContract          Status = 79
	StatusFileSystemException                 Status = 80
	StatusAutorenewDurationNotInRange         Status = 81
	StatusErrorDecodingBytestring             Status = 82
	StatusContractFileEmpty                   Status = 83
	StatusContractBytecodeEmpty               Status = 84
	StatusInvalidInitialBalance               Status = 85
	StatusInvalidReceiveRecordThreshold       Status = 86
	StatusInvalidSendRecordThreshold          Status = 87
	StatusAccountIsNotGenesisAccount          Status = 88
	StatusPayerAccountUnauthorized            Status = 89
	StatusInvalidFreezeTransactionBody        Status = 90
	StatusFreezeTransactionBodyNotFound       Status = 91
	StatusTransferListSizeLimitExceeded       Status = 92
	StatusResultSizeLimitExceeded             Status = 93
	StatusNotSpecialAccount                   Status = 94
	StatusContractNegativeGas                 Status = 95
	StatusContractNegativeValue               Status = 96
	StatusInvalidFeeFile                      Status = 97
	StatusInvalidExchangeRateFile             Status = 98
	StatusInsufficientLocalCallGas            Status = 99
	StatusEntityNotAllowedToDelete            Status = 100
	StatusAuthorizationFailed                 Status = 101
	StatusFileUploadedProtoInvalid            Status = 102
	StatusFileUploadedProtoNotSavedToDisk     Status = 103
	StatusFeeScheduleFilePartUploaded         Status = 104
	StatusExchangeRateChangeLimitExceeded     Status = 105
	StatusMaxContractStorageExceeded          Status = 106
	StatusTransferAccountSameAsDeleteAccount  Status = 107
	StatusTotalLedgerBalanceInvalid           Status = 108
	StatusExpirationReductionNotAllowed       Status = 110
	StatusMaxGasLimitExceeded                 Status = 111
	StatusMaxFileSizeExceeded                 Status = 112
	StatusReceiverSigRequired                 Status = 113
)

var StatusStringMap = map[Status]string{
	StatusOK:                                  "OK",
	StatusInvalidTransaction:                  "INVALID_TRANSACTION",
	StatusPayerAccountNotFound:                "PAYER_ACCOUNT_NOT_FOUND",
	StatusInvalidNodeAccount:                  "INVALID_NODE_ACCOUNT",
	StatusTransactionExpired:                  "TRANSACTION_EXPIRED",
	StatusInvalidTransactionStart:             "INVALID_TRANSACTION_START",
	StatusInvalidTransactionDuration:          "INVALID_TRANSACTION_DURATION",
	StatusInvalidSignature:                    "INVALID_SIGNATURE",
	StatusMemoTooLong:                         "MEMO_TOO_LONG",
	StatusInsufficientTxFee:                   "INSUFFICIENT_TX_FEE",
	StatusInsufficientPayerBalance:            "INSUFFICIENT_PAYER_BALANCE",
	StatusDuplicateTransaction:                "DUPLICATE_TRANSACTION",
	StatusBusy:                                "BUSY",
	StatusNotSupported:                        "NOT_SUPPORTED",
	StatusInvalidFileID:                       "INVALID_FILE_ID",
	StatusInvalidAccountID:                    "INVALID_ACCOUNT_ID",
	StatusInvalidContractID:                   "INVALID_CONTRACT_ID",
	StatusInvalidTransactionID:                "INVALID_TRANSACTION_ID",
	StatusReceiptNotFound:                     "RECEIPT_NOT_FOUND",
	StatusRecordNotFound:                      "RECORD_NOT_FOUND",
	StatusInvalidSolidityID:                   "INVALID_SOLIDITY_ID",
	StatusUnknown:                             "UNKNOWN",
	StatusSuccess:                             "SUCCESS",
	StatusFailInvalid:                         "FAIL_INVALID",
	StatusFailFee:                             "FAIL_FEE",
	StatusFailBalance:                         "FAIL_BALANCE",
	StatusKeyRequired:                         "KEY_REQUIRED",
	StatusBadEncoding:                         "BAD_ENCODING",
	StatusInsufficientAccountBalance:          "INSUFFICIENT_ACCOUNT_BALANCE",
	StatusInvalidSolidityAddress:              "INVALID_SOLIDITY_ADDRESS",
	StatusInsufficientGas:                     "INSUFFICIENT_GAS",
	StatusContractSizeLimitExceeded:           "CONTRACT_SIZE_LIMIT_EXCEEDED",
	StatusLocalCallModificationException:      "LOCAL_CALL_MODIFICATION_EXCEPTION",
	StatusContractRevertExecuted:              "CONTRACT_REVERT_EXECUTED",
	StatusContractExecutionException:          "CONTRACT_EXECUTION_EXCEPTION",
	StatusInvalidReceivingNodeAccount:         "INVALID_RECEIVING_NODE_ACCOUNT",
	StatusMissingQueryHeader:                  "MISSING_QUERY_HEADER",
	StatusAccountUpdateFailed:                 "ACCOUNT_UPDATE_FAILED",
	StatusInvalidKeyEncoding:                  "INVALID_KEY_ENCODING",
	StatusNullSolidityAddress:                 "NULL_SOLIDITY_ADDRESS",
	StatusContractUpdateFailed:                "CONTRACT_UPDATE_FAILED",
	StatusInvalidQueryHeader:                  "INVALID_QUERY_HEADER",
	StatusInvalidFeeSubmitted:                 "INVALID_FEE_SUBMITTED",
	StatusInvalidPayerSignature:               "INVALID_PAYER_SIGNATURE",
	StatusKeyNotProvided:                      "KEY_NOT_PROVIDED",
	StatusInvalidExpirationTime:               "INVALID_EXPIRATION_TIME",
	StatusNoWaclKey:                           "NO_WACL_KEY",
	StatusFileContentEmpty:                    "FILE_CONTENT_EMPTY",
	StatusInvalidAccountAmounts:               "INVALID_ACCOUNT_AMOUNTS",
	StatusEmptyTransactionBody:                "EMPTY_TRANSACTION_BODY",
	StatusInvalidTransactionBody:              "INVALID_TRANSACTION_BODY",
	StatusInvalidSignatureTypeMismatchingKey:  "INVALID_SIGNATURE_TYPE_MISMATCHING_KEY",
	StatusInvalidSignatureCountMismatchingKey: "INVALID_SIGNATURE_COUNT_MISMATCHING_KEY",
	StatusEmptyLiveHashBody:                   "EMPTY_LIVE_HASH_BODY",
	StatusEmptyLiveHash:                       "EMPTY_LIVE_HASH",
	StatusEmptyLiveHashKeys:                   "EMPTY_LIVE_HASH_KEYS",
	StatusInvalidLiveHashSize:                 "INVALID_LIVE_HASH_SIZE",
	StatusEmptyQueryBody:                      "EMPTY_QUERY_BODY",
	StatusEmptyLiveHashQuery:                  "EMPTY_LIVE_HASH_QUERY",
	StatusLiveHashNotFound:                    "LIVE_HASH_NOT_FOUND",
	StatusAccountIDDoesNotExist:               "ACCOUNT_ID_DOES_NOT_EXIST",
	StatusLiveHashAlreadyExists:               "LIVE_HASH_ALREADY_EXISTS",
	StatusInvalidFileWacl:                     "INVALID_FILE_WACL",
	StatusSerializationFailed:                 "SERIALIZATION_FAILED",
	StatusTransactionOversize:                 "TRANSACTION_OVERSIZE",
	StatusTransactionTooManyLayers:            "TRANSACTION_TOO_MANY_LAYERS",
	StatusContractDeleted:                     "CONTRACT_DELETED",
	StatusPlatformNotActive:                   "PLATFORM_NOT_ACTIVE",
	StatusKeyPrefixMismatch:                   "KEY_PREFIX_MISMATCH",
	StatusPlatformTransactionNotCreated:       "PLATFORM_TRANSACTION_NOT_CREATED",
	StatusInvalidRenewalPeriod:                "INVALID_RENEWAL_PERIOD",
	StatusInvalidPayerAccountID:               "INVALID_PAYER_ACCOUNT_ID",
	StatusAccountDeleted:                      "ACCOUNT_DELETED",
	StatusFileDeleted:                         "FILE_DELETED",
	StatusAccountRepeatedInAccountAmounts:     "ACCOUNT_REPEATED_IN_ACCOUNT_AMOUNTS",
	StatusSettingNegativeAccountBalance:       "SETTING_NEGATIVE_ACCOUNT_BALANCE",
	StatusObtainerRequired:                    "OBTAINER_REQUIRED",
	StatusObtainerSameContractID:              "OBTAINER_SAME_CONTRACT_ID",
	StatusObtainerDoesNotExist:                "OBTAINER_DOES_NOT_EXIST",
	StatusModifyingImmutableContract:          "MODIFYING_IMMUTABLE_CONTRACT",
	StatusFileSystemException:                 "FILE_SYSTEM_EXCEPTION",
	StatusAutorenewDurationNotInRange:         "AUTORENEW_DURATION_NOT_IN_RANGE",
	StatusErrorDecodingBytestring:             "ERROR_DECODING_BYTESTRING",
	StatusContractFileEmpty:                   "CONTRACT_FILE_EMPTY",
	StatusContractBytecodeEmpty:               "CONTRACT_BYTECODE_EMPTY",
	StatusInvalidInitialBalance:               "INVALID_INITIAL_BALANCE",
	StatusInvalidReceiveRecordThreshold:       "INVALID_RECEIVE_RECORD_THRESHOLD",
	StatusInvalidSendRecordThreshold:          "INVALID_SEND_RECORD_THRESHOLD",
	StatusAccountIsNotGenesisAccount:          "ACCOUNT_IS_NOT_GENESIS_ACCOUNT",
	StatusPayerAccountUnauthorized:            "PAYER_ACCOUNT_UNAUTHORIZED",
	StatusInvalidFreezeTransactionBody:        "INVALID_FREEZE_TRANSACTION_BODY",
	StatusFreezeTransactionBodyNotFound:       "FREEZE_TRANSACTION_BODY_NOT_FOUND",
	StatusTransferListSizeLimitExceeded:       "TRANSFER_LIST_SIZE_LIMIT_EXCEEDED",
	StatusResultSizeLimitExceeded:             "RESULT_SIZE_LIMIT_EXCEEDED",
	StatusNotSpecialAccount:                   "NOT_SPECIAL_ACCOUNT",
	StatusContractNegativeGas:                 "CONTRACT_NEGATIVE_GAS",
	StatusContractNegativeValue:               "CONTRACT_NEGATIVE_VALUE",
	StatusInvalidFeeFile:                      "INVALID_FEE_FILE",
	StatusInvalidExchangeRateFile:             "INVALID_EXCHANGE_RATE_FILE",
	StatusInsufficientLocalCallGas:            "INSUFFICIENT_LOCAL_CALL_GAS",
	StatusEntityNotAllowedToDelete:            "ENTITY_NOT_ALLOWED_TO_DELETE",
	StatusAuthorizationFailed:                 "AUTHORIZATION_FAILED",
	StatusFileUploadedProtoInvalid:            "FILE_UPLOADED_PROTO_INVALID",
	StatusFileUploadedProtoNotSavedToDisk:     "FILE_UPLOADED_PROTO_NOT_SAVED_TO_DISK",
	StatusFeeScheduleFilePartUploaded:         "FEE_SCHEDULE_FILE_PART_UPLOADED",
	StatusExchangeRateChangeLimitExceeded:     "EXCHANGE_RATE_CHANGE_LIMIT_EXCEEDED",
	StatusMaxContractStorageExceeded:          "MAX_CONTRACT_STORAGE_EXCEEDED",
	StatusTransferAccountSameAsDeleteAccount:  "TRANSFER_ACCOUNT_SAME_AS_DELETE_ACCOUNT",
	StatusTotalLedgerBalanceInvalid:           "TOTAL_LEDGER_BALANCE_INVALID",
	StatusExpirationReductionNotAllowed:       "EXPIRATION_REDUCTION_NOT_ALLOWED",
	StatusMaxGasLimitExceeded:                 "MAX_GAS_LIMIT_EXCEEDED",
	StatusMaxFileSizeExceeded:                 "MAX_FILE_SIZE_EXCEEDED",
	StatusReceiverSigRequired:                 "RECEIVER_SIG_REQUIRED",
}

var statusByName = func() map[string]Status {
	m := make(map[string]Status, len(StatusStringMap))
	for s, name := range StatusStringMap {
		m[name] = s
	}
	return m
}()

var retryableStatuses = map[Status]struct{}{
	StatusUnknown:           {},
	StatusBusy:              {},
	StatusReceiptNotFound:   {},
	StatusRecordNotFound:    {},
	StatusPlatformNotActive: {},
}

func (s Status) String() string {
	if name, ok := StatusStringMap[s]; ok {
		return name
	}
	return fmt.Sprintf("Status(%d)", int32(s))
}

func (s Status) Known() bool {
	_, ok := StatusStringMap[s]
	return ok
}

// Success covers the precheck OK and the receipt SUCCESS codes.
func (s Status) Success() bool {
	return s == StatusOK || s == StatusSuccess
}

func (s Status) Retryable() bool {
	_, ok := retryableStatuses[s]
	return ok
}

func (s Status) Fatal() bool {
	return !s.Success() && !s.Retryable()
}

// ParseStatus accepts a status name or the Status(n) form String uses for
// codes without a name.
func ParseStatus(name string) (s Status, err error) {
	s, ok := statusByName[name]
	if ok {
		return
	}

	var code int32
	if _, err2 := fmt.Sscanf(name, "Status(%d)", &code); err2 == nil {
		return Status(code), nil
	}

	err = errors.Wrapf(ErrValidation, "unknown status '%s'", name)
	return
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(text []byte) (err error) {
	*s, err = ParseStatus(string(text))
	return
}
