package cli

import (
	"finance-dashboard/internal/reporting"
	"github.com/spf13/cobra"
)

func NewSummaryCmd(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Reconcile budgets against the ledger",
	}

	cmd.AddCommand(
		newSummaryShowCmd(opts),
		newSummaryTrendCmd(opts),
	)

	return cmd
}

func newSummaryShowCmd(opts *RootOptions) *cobra.Command {
	var periodRaw string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show planned versus actual totals for a period",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 {
				return printArgCountError(cmd, opts.Output, "summary show [--period YYYY-MM]", args)
			}

			services, err := opts.services()
			if err != nil {
				return printServiceError(cmd, opts.Output, err)
			}
			key, err := resolvePeriod(cmd.Context(), services, periodRaw)
			if err != nil {
				return printServiceError(cmd, opts.Output, err)
			}

			summary, err := services.reports.Summary(cmd.Context(), key)
			if err != nil {
				return printServiceError(cmd, opts.Output, err)
			}
			currency, err := services.preferences.CurrencyInfo(cmd.Context())
			if err != nil {
				return printServiceError(cmd, opts.Output, err)
			}

			return printSuccess(cmd, opts.Output, map[string]any{
				"summary":  summary,
				"currency": currency,
			}, nil)
		},
	}

	cmd.Flags().StringVar(&periodRaw, "period", "", "Period YYYY-MM (defaults to the selected period)")
	return cmd
}

func newSummaryTrendCmd(opts *RootOptions) *cobra.Command {
	var periodRaw string
	var months int

	cmd := &cobra.Command{
		Use:   "trend",
		Short: "Show monthly ledger totals ending at a period",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 {
				return printArgCountError(cmd, opts.Output, "summary trend [--months N] [--period YYYY-MM]", args)
			}
			if months < 1 || months > reporting.MaxTrendMonths {
				return printInvalidArgument(cmd, opts.Output, "months must be between 1 and 24", map[string]any{
					"field": "months",
					"value": months,
				})
			}

			services, err := opts.services()
			if err != nil {
				return printServiceError(cmd, opts.Output, err)
			}
			key, err := resolvePeriod(cmd.Context(), services, periodRaw)
			if err != nil {
				return printServiceError(cmd, opts.Output, err)
			}

			points, err := services.reports.Trend(cmd.Context(), key, months)
			if err != nil {
				return printServiceError(cmd, opts.Output, err)
			}

			return printSuccess(cmd, opts.Output, map[string]any{
				"end":    key.String(),
				"months": months,
				"trend":  points,
			}, nil)
		},
	}

	cmd.Flags().StringVar(&periodRaw, "period", "", "Last period YYYY-MM (defaults to the selected period)")
	cmd.Flags().IntVar(&months, "months", 6, "Number of months to include (1-24)")
	return cmd
}
