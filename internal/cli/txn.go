package cli

import (
	"fmt"
	"strings"

	"finance-dashboard/internal/cli/output"
	"finance-dashboard/internal/domain"
	"github.com/spf13/cobra"
)

type txnFlags struct {
	amount           float64
	kind             string
	category         string
	budgetCategoryID string
	description      string
	date             string
}

type txnListFlags struct {
	period   string
	kind     string
	category string
	search   string
	from     string
	to       string
	date     string
	sort     string
	all      bool
}

func NewTxnCmd(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "txn",
		Short: "Record and query ledger transactions",
	}

	cmd.AddCommand(
		newTxnAddCmd(opts),
		newTxnUpdateCmd(opts),
		newTxnDeleteCmd(opts),
		newTxnListCmd(opts),
		newTxnActualsCmd(opts),
	)

	return cmd
}

func newTxnAddCmd(opts *RootOptions) *cobra.Command {
	flags := &txnFlags{}

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a transaction",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 {
				return printArgCountError(cmd, opts.Output, "txn add --amount N [--type income|expense] [--category NAME] [--budget-category ID] [--date YYYY-MM-DD]", args)
			}

			date := strings.TrimSpace(flags.date)
			if date == "" {
				date = opts.today()
			}

			services, err := opts.services()
			if err != nil {
				return printServiceError(cmd, opts.Output, err)
			}

			transaction, err := services.ledger.Add(cmd.Context(), domain.TransactionInput{
				Amount:           flags.amount,
				Type:             flags.kind,
				Category:         flags.category,
				BudgetCategoryID: flags.budgetCategoryID,
				Description:      flags.description,
				Date:             date,
			})
			if err != nil {
				return printServiceError(cmd, opts.Output, err)
			}

			return printSuccess(cmd, opts.Output, map[string]any{"transaction": transaction}, nil)
		},
	}

	cmd.Flags().Float64Var(&flags.amount, "amount", 0, "Amount greater than zero")
	cmd.Flags().StringVar(&flags.kind, "type", string(domain.TransactionTypeExpense), "Transaction type: income|expense (derived from --budget-category when linked)")
	cmd.Flags().StringVar(&flags.category, "category", "", "Ledger category name")
	cmd.Flags().StringVar(&flags.budgetCategoryID, "budget-category", "", "Budget category id to attribute the transaction to")
	cmd.Flags().StringVar(&flags.description, "description", "", "Free text description")
	cmd.Flags().StringVar(&flags.date, "date", "", "Date YYYY-MM-DD (defaults to today)")
	return cmd
}

func newTxnUpdateCmd(opts *RootOptions) *cobra.Command {
	flags := &txnFlags{}

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change fields of a transaction",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return printInvalidArgument(cmd, opts.Output, "update requires exactly one argument: <id>", map[string]any{
					"required_args": []string{"id"},
				})
			}

			patch := domain.TransactionPatch{}
			if cmd.Flags().Changed("amount") {
				patch.Amount = &flags.amount
			}
			if cmd.Flags().Changed("type") {
				patch.Type = &flags.kind
			}
			if cmd.Flags().Changed("category") {
				patch.Category = &flags.category
			}
			if cmd.Flags().Changed("budget-category") {
				patch.BudgetCategoryID = &flags.budgetCategoryID
			}
			if cmd.Flags().Changed("description") {
				patch.Description = &flags.description
			}
			if cmd.Flags().Changed("date") {
				patch.Date = &flags.date
			}

			services, err := opts.services()
			if err != nil {
				return printServiceError(cmd, opts.Output, err)
			}

			result, err := services.ledger.Update(cmd.Context(), args[0], patch)
			if err != nil {
				return printServiceError(cmd, opts.Output, err)
			}

			warnings := make([]output.WarningPayload, 0, len(result.Ignored))
			for _, field := range result.Ignored {
				warnings = append(warnings, output.WarningPayload{
					Code:    "FIELD_IGNORED",
					Message: fmt.Sprintf("%s was invalid and left unchanged", field),
					Details: map[string]any{"field": field},
				})
			}

			return printSuccess(cmd, opts.Output, map[string]any{
				"transaction": result.Transaction,
				"ignored":     result.Ignored,
			}, warnings)
		},
	}

	cmd.Flags().Float64Var(&flags.amount, "amount", 0, "New amount")
	cmd.Flags().StringVar(&flags.kind, "type", "", "New type: income|expense")
	cmd.Flags().StringVar(&flags.category, "category", "", "New ledger category name")
	cmd.Flags().StringVar(&flags.budgetCategoryID, "budget-category", "", "New budget category id (empty to unlink)")
	cmd.Flags().StringVar(&flags.description, "description", "", "New description")
	cmd.Flags().StringVar(&flags.date, "date", "", "New date YYYY-MM-DD")
	return cmd
}

func newTxnDeleteCmd(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a transaction",
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

			if err := services.ledger.Delete(cmd.Context(), args[0]); err != nil {
				return printServiceError(cmd, opts.Output, err)
			}

			return printSuccess(cmd, opts.Output, map[string]any{
				"deleted": true,
				"id":      args[0],
			}, nil)
		},
	}
}

func newTxnListCmd(opts *RootOptions) *cobra.Command {
	flags := &txnListFlags{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions with filters and totals",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 {
				return printArgCountError(cmd, opts.Output, "txn list [--period YYYY-MM|--all] [--type] [--category] [--search] [--from] [--to] [--date] [--sort]", args)
			}

			sortOrder, ok := domain.ParseTransactionSort(flags.sort)
			if !ok {
				return printInvalidArgument(cmd, opts.Output, "sort must be one of newest|oldest|amount-desc|amount-asc", map[string]any{
					"field": "sort",
					"value": flags.sort,
				})
			}

			services, err := opts.services()
			if err != nil {
				return printServiceError(cmd, opts.Output, err)
			}

			filter := domain.TransactionFilter{
				Type:      flags.kind,
				Date:      flags.date,
				StartDate: flags.from,
				EndDate:   flags.to,
				Category:  flags.category,
				Search:    flags.search,
				Sort:      sortOrder,
			}
			if !flags.all {
				key, err := resolvePeriod(cmd.Context(), services, flags.period)
				if err != nil {
					return printServiceError(cmd, opts.Output, err)
				}
				filter.Period = &key
			}

			transactions, err := services.ledger.Filter(cmd.Context(), filter)
			if err != nil {
				return printServiceError(cmd, opts.Output, err)
			}

			data := map[string]any{
				"transactions": transactions,
				"count":        len(transactions),
				"summary":      domain.SummarizeTransactions(transactions),
			}
			if filter.Period != nil {
				data["period"] = filter.Period.String()
			}
			return printSuccess(cmd, opts.Output, data, nil)
		},
	}

	cmd.Flags().StringVar(&flags.period, "period", "", "Period YYYY-MM (defaults to the selected period)")
	cmd.Flags().BoolVar(&flags.all, "all", false, "List every period")
	cmd.Flags().StringVar(&flags.kind, "type", "", "Type filter: income|expense|all")
	cmd.Flags().StringVar(&flags.category, "category", "", "Ledger category name, case-insensitive substring")
	cmd.Flags().StringVar(&flags.search, "search", "", "Case-insensitive text in description or category")
	cmd.Flags().StringVar(&flags.from, "from", "", "Earliest date YYYY-MM-DD")
	cmd.Flags().StringVar(&flags.to, "to", "", "Latest date YYYY-MM-DD")
	cmd.Flags().StringVar(&flags.date, "date", "", "Exact date YYYY-MM-DD")
	cmd.Flags().StringVar(&flags.sort, "sort", string(domain.TransactionSortNewest), "Sort: newest|oldest|amount-desc|amount-asc")
	return cmd
}

func newTxnActualsCmd(opts *RootOptions) *cobra.Command {
	var periodRaw string

	cmd := &cobra.Command{
		Use:   "actuals",
		Short: "Sum a period's transactions per budget category",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 {
				return printArgCountError(cmd, opts.Output, "txn actuals [--period YYYY-MM]", args)
			}

			services, err := opts.services()
			if err != nil {
				return printServiceError(cmd, opts.Output, err)
			}
			key, err := resolvePeriod(cmd.Context(), services, periodRaw)
			if err != nil {
				return printServiceError(cmd, opts.Output, err)
			}

			actuals, err := services.ledger.ActualsByCategory(cmd.Context(), key)
			if err != nil {
				return printServiceError(cmd, opts.Output, err)
			}

			return printSuccess(cmd, opts.Output, map[string]any{"actuals": actuals}, nil)
		},
	}

	cmd.Flags().StringVar(&periodRaw, "period", "", "Period YYYY-MM (defaults to the selected period)")
	return cmd
}
