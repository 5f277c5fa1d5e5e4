package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"finance-dashboard/internal/cli/output"
	"finance-dashboard/internal/service"
	"github.com/spf13/cobra"
)

type dataExportFlags struct {
	file       string
	passphrase string
}

type dataImportFlags struct {
	file       string
	passphrase string
	merge      bool
}

func NewDataCmd(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "data",
		Short: "Back up, restore and clear stored data",
	}

	cmd.AddCommand(
		newDataExportCmd(opts),
		newDataImportCmd(opts),
		newDataClearCmd(opts),
	)

	return cmd
}

func newDataExportCmd(opts *RootOptions) *cobra.Command {
	flags := &dataExportFlags{}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a JSON backup, optionally encrypted with a passphrase",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 {
				return printArgCountError(cmd, opts.Output, "data export [--file PATH] [--passphrase SECRET]", args)
			}

			services, err := opts.services()
			if err != nil {
				return printServiceError(cmd, opts.Output, err)
			}

			encrypted := flags.passphrase != ""
			var payload []byte
			if encrypted {
				payload, err = services.portability.ExportEncrypted(cmd.Context(), flags.passphrase)
			} else {
				payload, err = services.portability.ExportPlain(cmd.Context())
			}
			if err != nil {
				return printServiceError(cmd, opts.Output, err)
			}

			path := strings.TrimSpace(flags.file)
			if path == "" {
				path = services.portability.FileName(encrypted)
			}
			if dir := filepath.Dir(path); dir != "." {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return printError(cmd, opts.Output, output.CodeStorageError, "failed to create backup directory", map[string]any{"error": err.Error(), "file": path})
				}
			}
			if err := os.WriteFile(path, payload, 0o600); err != nil {
				return printError(cmd, opts.Output, output.CodeStorageError, "failed to write backup file", map[string]any{"error": err.Error(), "file": path})
			}

			return printSuccess(cmd, opts.Output, map[string]any{
				"file":      path,
				"encrypted": encrypted,
				"bytes":     len(payload),
			}, nil)
		},
	}

	cmd.Flags().StringVar(&flags.file, "file", "", "Output file path (defaults to a dated file name)")
	cmd.Flags().StringVar(&flags.passphrase, "passphrase", "", "Encrypt the backup with this passphrase")
	return cmd
}

func newDataImportCmd(opts *RootOptions) *cobra.Command {
	flags := &dataImportFlags{}

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Restore a plain or encrypted JSON backup",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 {
				return printArgCountError(cmd, opts.Output, "data import --file PATH [--passphrase SECRET] [--merge]", args)
			}
			if strings.TrimSpace(flags.file) == "" {
				return printInvalidArgument(cmd, opts.Output, "file is required", map[string]any{"required_flags": []string{"file"}})
			}

			services, err := opts.services()
			if err != nil {
				return printServiceError(cmd, opts.Output, err)
			}

			result, err := services.portability.ImportFile(cmd.Context(), flags.file, service.ImportOptions{
				Passphrase: flags.passphrase,
				Merge:      flags.merge,
			})
			if err != nil {
				if len(result.Imported) == 0 && len(result.Skipped) == 0 {
					return printServiceError(cmd, opts.Output, err)
				}
				code, message := envelopeCodeForError(err)
				envelope := output.NewErrorEnvelope(code, message, map[string]any{
					"error":  err.Error(),
					"result": result,
				}, toWarnings(result.Warnings))
				return output.Print(cmd.OutOrStdout(), opts.Output, envelope)
			}

			return printSuccess(cmd, opts.Output, map[string]any{
				"file":   flags.file,
				"result": result,
			}, toWarnings(result.Warnings))
		},
	}

	cmd.Flags().StringVar(&flags.file, "file", "", "Backup file path")
	cmd.Flags().StringVar(&flags.passphrase, "passphrase", "", "Passphrase for encrypted backups")
	cmd.Flags().BoolVar(&flags.merge, "merge", false, "Merge into existing data instead of replacing each section")
	return cmd
}

func newDataClearCmd(opts *RootOptions) *cobra.Command {
	var confirmed bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every stored document",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 {
				return printArgCountError(cmd, opts.Output, "data clear --yes", args)
			}
			if !confirmed {
				return printInvalidArgument(cmd, opts.Output, fmt.Sprintf("refusing to clear %s without --yes", opts.DBPath), map[string]any{"required_flags": []string{"yes"}})
			}

			services, err := opts.services()
			if err != nil {
				return printServiceError(cmd, opts.Output, err)
			}

			if err := services.portability.Clear(cmd.Context()); err != nil {
				return printServiceError(cmd, opts.Output, err)
			}

			return printSuccess(cmd, opts.Output, map[string]any{"cleared": true}, nil)
		},
	}

	cmd.Flags().BoolVar(&confirmed, "yes", false, "Confirm deleting all data")
	return cmd
}
