package errors

// ErrorCode identifies an application error category in API responses.
type ErrorCode int32

const (
	ErrorCode_UNKNOWN          ErrorCode = 0
	ErrorCode_HTTP_OK          ErrorCode = 200
	ErrorCode_INTERNAL         ErrorCode = 1000
	ErrorCode_INVALID_ARGUMENT ErrorCode = 1001
	ErrorCode_NOT_FOUND        ErrorCode = 1002
	ErrorCode_ALREADY_EXISTS   ErrorCode = 1003
	ErrorCode_FORBIDDEN        ErrorCode = 1004
	ErrorCode_UNAUTHENTICATED  ErrorCode = 1005
	ErrorCode_INVALID_PAYLOAD  ErrorCode = 1006

	ErrorCode_AUTH_INVALID_TOKEN ErrorCode = 2001
	ErrorCode_AUTH_TOKEN_EXPIRED ErrorCode = 2002

	ErrorCode_MEETING_NOT_FOUND     ErrorCode = 3001
	ErrorCode_MEETING_INVALID_STATE ErrorCode = 3002
	ErrorCode_MEETING_MISSING_LINK  ErrorCode = 3003
	ErrorCode_MEETING_INVALID_TIME  ErrorCode = 3004

	ErrorCode_RECORDING_IN_PROGRESS   ErrorCode = 4001
	ErrorCode_RECORDING_BOT_NOT_READY ErrorCode = 4002
	ErrorCode_RECORDING_START_FAILED  ErrorCode = 4003

	ErrorCode_SUMMARY_NOT_FOUND ErrorCode = 5001

	ErrorCode_INTEGRATION_STORAGE_FAILED ErrorCode = 6001
	ErrorCode_INTEGRATION_CACHE_FAILED   ErrorCode = 6002
	ErrorCode_INTEGRATION_NOTIFY_FAILED  ErrorCode = 6003

	ErrorCode_DB_QUERY_FAILED ErrorCode = 7001
)

var errorCodeNames = map[ErrorCode]string{
	ErrorCode_UNKNOWN:                    "UNKNOWN",
	ErrorCode_HTTP_OK:                    "HTTP_OK",
	ErrorCode_INTERNAL:                   "INTERNAL",
	ErrorCode_INVALID_ARGUMENT:           "INVALID_ARGUMENT",
	ErrorCode_NOT_FOUND:                  "NOT_FOUND",
	ErrorCode_ALREADY_EXISTS:             "ALREADY_EXISTS",
	ErrorCode_FORBIDDEN:                  "FORBIDDEN",
	ErrorCode_UNAUTHENTICATED:            "UNAUTHENTICATED",
	ErrorCode_INVALID_PAYLOAD:            "INVALID_PAYLOAD",
	ErrorCode_AUTH_INVALID_TOKEN:         "AUTH_INVALID_TOKEN",
	ErrorCode_AUTH_TOKEN_EXPIRED:         "AUTH_TOKEN_EXPIRED",
	ErrorCode_MEETING_NOT_FOUND:          "MEETING_NOT_FOUND",
	ErrorCode_MEETING_INVALID_STATE:      "MEETING_INVALID_STATE",
	ErrorCode_MEETING_MISSING_LINK:       "MEETING_MISSING_LINK",
	ErrorCode_MEETING_INVALID_TIME:       "MEETING_INVALID_TIME",
	ErrorCode_RECORDING_IN_PROGRESS:      "RECORDING_IN_PROGRESS",
	ErrorCode_RECORDING_BOT_NOT_READY:    "RECORDING_BOT_NOT_READY",
	ErrorCode_RECORDING_START_FAILED:     "RECORDING_START_FAILED",
	ErrorCode_SUMMARY_NOT_FOUND:          "SUMMARY_NOT_FOUND",
	ErrorCode_INTEGRATION_STORAGE_FAILED: "INTEGRATION_STORAGE_FAILED",
	ErrorCode_INTEGRATION_CACHE_FAILED:   "INTEGRATION_CACHE_FAILED",
	ErrorCode_INTEGRATION_NOTIFY_FAILED:  "INTEGRATION_NOTIFY_FAILED",
	ErrorCode_DB_QUERY_FAILED:            "DB_QUERY_FAILED",
}

// String returns the symbolic name of the code
func (c ErrorCode) String() string {
	if name, ok := errorCodeNames[c]; ok {
		return name
	}
	return errorCodeNames[ErrorCode_UNKNOWN]
}
