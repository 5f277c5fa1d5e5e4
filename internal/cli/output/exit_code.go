package output

import (
	"strings"
	"sync/atomic"
)

const (
	CodeInvalidArgument  = "INVALID_ARGUMENT"
	CodeNotFound         = "NOT_FOUND"
	CodeCapacityExceeded = "CAPACITY_EXCEEDED"
	CodeStorageError     = "STORAGE_ERROR"
	CodeCryptoError      = "CRYPTO_ERROR"
	CodeConfigError      = "CONFIG_ERROR"
	CodeInternalError    = "INTERNAL_ERROR"
)

const exitCodeInternal = 1

var exitCodes = map[string]int{
	CodeInvalidArgument:  2,
	CodeNotFound:         3,
	CodeCapacityExceeded: 4,
	CodeStorageError:     5,
	CodeCryptoError:      6,
	CodeConfigError:      7,
	CodeInternalError:    exitCodeInternal,
}

// processExitCode holds the exit code of the last printed envelope.
var processExitCode atomic.Int32

func ResetProcessExitCode() {
	processExitCode.Store(0)
}

func CurrentProcessExitCode() int {
	return int(processExitCode.Load())
}

func SetProcessExitCodeFromEnvelope(envelope Envelope) {
	code := 0
	if !envelope.Ok && envelope.Error != nil {
		code = ExitCodeForErrorCode(envelope.Error.Code)
	}
	processExitCode.Store(int32(code))
}

// ExitCodeForErrorCode maps an envelope error code to a process exit code.
// Unknown codes exit 1.
func ExitCodeForErrorCode(errorCode string) int {
	if code, ok := exitCodes[strings.ToUpper(strings.TrimSpace(errorCode))]; ok {
		return code
	}
	return exitCodeInternal
}
