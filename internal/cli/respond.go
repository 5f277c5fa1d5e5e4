package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"finance-dashboard/internal/cli/output"
	"finance-dashboard/internal/domain"
	"github.com/spf13/cobra"
)

func printSuccess(cmd *cobra.Command, format string, data any, warnings []output.WarningPayload) error {
	envelope := output.NewSuccessEnvelope(data, warnings)
	return output.Print(cmd.OutOrStdout(), format, envelope)
}

func printError(cmd *cobra.Command, format, code, message string, details any) error {
	envelope := output.NewErrorEnvelope(code, message, details, nil)
	return output.Print(cmd.OutOrStdout(), format, envelope)
}

// printServiceError maps a service failure onto an error envelope by its
// domain kind. details.reason carries the machine code of typed errors.
func printServiceError(cmd *cobra.Command, format string, err error) error {
	code, message := envelopeCodeForError(err)

	details := map[string]any{"error": err.Error()}
	if reason := domain.CodeOf(err); reason != "" {
		details["reason"] = reason
	}

	return printError(cmd, format, code, message, details)
}

func envelopeCodeForError(err error) (string, string) {
	var typed *domain.Error
	message := "operation failed"
	if errors.As(err, &typed) {
		message = typed.Message
	}
	if errors.Is(err, fs.ErrNotExist) {
		return output.CodeNotFound, "file not found"
	}

	switch domain.KindOf(err) {
	case domain.ErrorKindValidation:
		return output.CodeInvalidArgument, message
	case domain.ErrorKindNotFound:
		return output.CodeNotFound, message
	case domain.ErrorKindCapacity:
		return output.CodeCapacityExceeded, message
	case domain.ErrorKindPersistence:
		return output.CodeStorageError, message
	case domain.ErrorKindCrypto:
		return output.CodeCryptoError, message
	default:
		return output.CodeInternalError, message
	}
}

func printInvalidArgument(cmd *cobra.Command, format, message string, details any) error {
	return printError(cmd, format, output.CodeInvalidArgument, message, details)
}

func printArgCountError(cmd *cobra.Command, format, usage string, args []string) error {
	return printInvalidArgument(cmd, format, fmt.Sprintf("usage: %s", usage), map[string]any{"args": args})
}

// toWarnings converts import warnings into envelope warnings.
func toWarnings(warnings []domain.Warning) []output.WarningPayload {
	payloads := make([]output.WarningPayload, 0, len(warnings))
	for _, warning := range warnings {
		payloads = append(payloads, output.WarningPayload{
			Code:    strings.ToUpper(warning.Code),
			Message: warning.Message,
			Details: warning.Details,
		})
	}
	return payloads
}
