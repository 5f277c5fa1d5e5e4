package cli

import (
	"strings"

	"finance-dashboard/internal/domain"
	"finance-dashboard/internal/service"
	"github.com/spf13/cobra"
)

func NewPeriodCmd(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "period",
		Short: "Inspect and manage monthly budget periods",
	}

	cmd.AddCommand(
		newPeriodShowCmd(opts),
		newPeriodEnsureCmd(opts),
		newPeriodListCmd(opts),
		newPeriodResetCmd(opts),
		newPeriodCopyCmd(opts),
		newPeriodNotesCmd(opts),
		newPeriodYearsCmd(opts),
	)

	return cmd
}

func newPeriodShowCmd(opts *RootOptions) *cobra.Command {
	var periodRaw string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show a period without creating it",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 {
				return printArgCountError(cmd, opts.Output, "period show [--period YYYY-MM]", args)
			}

			services, err := opts.services()
			if err != nil {
				return printServiceError(cmd, opts.Output, err)
			}
			key, err := resolvePeriod(cmd.Context(), services, periodRaw)
			if err != nil {
				return printServiceError(cmd, opts.Output, err)
			}

			exists, err := services.budgets.HasPeriod(cmd.Context(), key)
			if err != nil {
				return printServiceError(cmd, opts.Output, err)
			}
			period, err := services.budgets.GetPeriod(cmd.Context(), key)
			if err != nil {
				return printServiceError(cmd, opts.Output, err)
			}

			return printSuccess(cmd, opts.Output, map[string]any{
				"period": key.String(),
				"exists": exists,
				"budget": period,
				"count":  len(period.Categories),
			}, nil)
		},
	}

	cmd.Flags().StringVar(&periodRaw, "period", "", "Period YYYY-MM (defaults to the selected period)")
	return cmd
}

func newPeriodEnsureCmd(opts *RootOptions) *cobra.Command {
	var periodRaw string

	cmd := &cobra.Command{
		Use:   "ensure",
		Short: "Create a period with the default categories if it is missing",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 {
				return printArgCountError(cmd, opts.Output, "period ensure [--period YYYY-MM]", args)
			}

			services, err := opts.services()
			if err != nil {
				return printServiceError(cmd, opts.Output, err)
			}
			key, err := resolvePeriod(cmd.Context(), services, periodRaw)
			if err != nil {
				return printServiceError(cmd, opts.Output, err)
			}

			period, err := services.budgets.EnsurePeriod(cmd.Context(), key)
			if err != nil {
				return printServiceError(cmd, opts.Output, err)
			}

			return printSuccess(cmd, opts.Output, map[string]any{
				"period": key.String(),
				"budget": period,
			}, nil)
		},
	}

	cmd.Flags().StringVar(&periodRaw, "period", "", "Period YYYY-MM (defaults to the selected period)")
	return cmd
}

func newPeriodListCmd(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored periods in chronological order",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 {
				return printArgCountError(cmd, opts.Output, "period list", args)
			}

			services, err := opts.services()
			if err != nil {
				return printServiceError(cmd, opts.Output, err)
			}

			keys, err := services.budgets.ListPeriods(cmd.Context())
			if err != nil {
				return printServiceError(cmd, opts.Output, err)
			}

			periods := make([]string, 0, len(keys))
			for _, key := range keys {
				periods = append(periods, key.String())
			}

			return printSuccess(cmd, opts.Output, map[string]any{
				"periods": periods,
				"count":   len(periods),
			}, nil)
		},
	}
}

func newPeriodResetCmd(opts *RootOptions) *cobra.Command {
	var periodRaw string

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Restore a period to the default categories",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 {
				return printArgCountError(cmd, opts.Output, "period reset [--period YYYY-MM]", args)
			}

			services, err := opts.services()
			if err != nil {
				return printServiceError(cmd, opts.Output, err)
			}
			key, err := resolvePeriod(cmd.Context(), services, periodRaw)
			if err != nil {
				return printServiceError(cmd, opts.Output, err)
			}

			period, err := services.budgets.ResetPeriod(cmd.Context(), key)
			if err != nil {
				return printServiceError(cmd, opts.Output, err)
			}

			return printSuccess(cmd, opts.Output, map[string]any{
				"period": key.String(),
				"budget": period,
			}, nil)
		},
	}

	cmd.Flags().StringVar(&periodRaw, "period", "", "Period YYYY-MM (defaults to the selected period)")
	return cmd
}

func newPeriodCopyCmd(opts *RootOptions) *cobra.Command {
	var includeNotes bool

	cmd := &cobra.Command{
		Use:   "copy <src> <dst>",
		Short: "Copy one period's categories into another",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 2 {
				return printInvalidArgument(cmd, opts.Output, "copy requires <src> and <dst>", map[string]any{
					"required_args": []string{"src", "dst"},
				})
			}

			src, err := domain.ParsePeriodKey(args[0])
			if err != nil {
				return printServiceError(cmd, opts.Output, err)
			}
			dst, err := domain.ParsePeriodKey(args[1])
			if err != nil {
				return printServiceError(cmd, opts.Output, err)
			}

			services, err := opts.services()
			if err != nil {
				return printServiceError(cmd, opts.Output, err)
			}

			period, err := services.budgets.CopyPeriod(cmd.Context(), src, dst, service.CopyOptions{IncludeNotes: includeNotes})
			if err != nil {
				return printServiceError(cmd, opts.Output, err)
			}

			return printSuccess(cmd, opts.Output, map[string]any{
				"source":      src.String(),
				"destination": dst.String(),
				"budget":      period,
			}, nil)
		},
	}

	cmd.Flags().BoolVar(&includeNotes, "include-notes", false, "Copy the source notes as well")
	return cmd
}

func newPeriodNotesCmd(opts *RootOptions) *cobra.Command {
	var periodRaw string

	cmd := &cobra.Command{
		Use:   "notes [text]",
		Short: "Show or replace a period's notes",
		RunE: func(cmd *cobra.Command, args []string) error {
			services, err := opts.services()
			if err != nil {
				return printServiceError(cmd, opts.Output, err)
			}
			key, err := resolvePeriod(cmd.Context(), services, periodRaw)
			if err != nil {
				return printServiceError(cmd, opts.Output, err)
			}

			if len(args) == 0 {
				notes, err := services.budgets.Notes(cmd.Context(), key)
				if err != nil {
					return printServiceError(cmd, opts.Output, err)
				}
				return printSuccess(cmd, opts.Output, map[string]any{
					"period": key.String(),
					"notes":  notes,
				}, nil)
			}

			period, err := services.budgets.SetNotes(cmd.Context(), key, strings.Join(args, " "))
			if err != nil {
				return printServiceError(cmd, opts.Output, err)
			}

			return printSuccess(cmd, opts.Output, map[string]any{
				"period": key.String(),
				"notes":  period.Notes,
			}, nil)
		},
	}

	cmd.Flags().StringVar(&periodRaw, "period", "", "Period YYYY-MM (defaults to the selected period)")
	return cmd
}

func newPeriodYearsCmd(opts *RootOptions) *cobra.Command {
	var selectedYear int

	cmd := &cobra.Command{
		Use:   "years",
		Short: "List the years offered by the period picker",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 {
				return printArgCountError(cmd, opts.Output, "period years [--selected-year YYYY]", args)
			}

			services, err := opts.services()
			if err != nil {
				return printServiceError(cmd, opts.Output, err)
			}

			if !cmd.Flags().Changed("selected-year") {
				selected, err := services.preferences.SelectedPeriod(cmd.Context())
				if err != nil {
					return printServiceError(cmd, opts.Output, err)
				}
				selectedYear = selected.Year
			}

			years, err := services.budgets.AvailableYears(cmd.Context(), selectedYear)
			if err != nil {
				return printServiceError(cmd, opts.Output, err)
			}

			return printSuccess(cmd, opts.Output, map[string]any{
				"years": years,
				"count": len(years),
			}, nil)
		},
	}

	cmd.Flags().IntVar(&selectedYear, "selected-year", 0, "Year to include (defaults to the selected period's year)")
	return cmd
}
