package cli

import (
	"strings"

	"finance-dashboard/internal/domain"
	"github.com/spf13/cobra"
)

func NewCategoryCmd(opts *RootOptions) *cobra.Command {
	command := &cobra.Command{
		Use:   "category",
		Short: "Manage ledger categories",
	}

	command.AddCommand(
		newCategoryAddCmd(opts),
		newCategoryListCmd(opts),
		newCategoryDeleteCmd(opts),
	)

	return command
}

func newCategoryAddCmd(opts *RootOptions) *cobra.Command {
	var categoryType string
	var color string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a ledger category",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return printInvalidArgument(cmd, opts.Output, "category name is required", map[string]any{"field": "name"})
			}

			services, err := opts.services()
			if err != nil {
				return printServiceError(cmd, opts.Output, err)
			}

			category, err := services.categories.Add(cmd.Context(), domain.LedgerCategoryInput{
				Name:  strings.Join(args, " "),
				Type:  categoryType,
				Color: color,
			})
			if err != nil {
				return printServiceError(cmd, opts.Output, err)
			}

			return printSuccess(cmd, opts.Output, map[string]any{"category": category}, nil)
		},
	}

	cmd.Flags().StringVar(&categoryType, "type", string(domain.TransactionTypeExpense), "Category type: income|expense")
	cmd.Flags().StringVar(&color, "color", "", "Hex color (defaults to the type color)")
	return cmd
}

func newCategoryListCmd(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List ledger categories",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 {
				return printInvalidArgument(cmd, opts.Output, "list does not accept positional arguments", map[string]any{"args": args})
			}

			services, err := opts.services()
			if err != nil {
				return printServiceError(cmd, opts.Output, err)
			}

			categories, err := services.categories.List(cmd.Context())
			if err != nil {
				return printServiceError(cmd, opts.Output, err)
			}

			return printSuccess(cmd, opts.Output, map[string]any{
				"categories": categories,
				"count":      len(categories),
			}, nil)
		},
	}
}

func newCategoryDeleteCmd(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a ledger category",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return printInvalidArgument(cmd, opts.Output, "delete requires exactly one argument: <id>", map[string]any{
					"required_args": []string{"id"},
				})
			}

			services, err := opts.services()
			if err != nil {
				return printServiceError(cmd, opts.Output, err)
			}

			if err := services.categories.Delete(cmd.Context(), args[0]); err != nil {
				return printServiceError(cmd, opts.Output, err)
			}

			return printSuccess(cmd, opts.Output, map[string]any{
				"deleted": true,
				"id":      args[0],
			}, nil)
		},
	}
}
