package cli

import (
	"strings"

	"finance-dashboard/internal/domain"
	"github.com/spf13/cobra"
)

type budgetAddFlags struct {
	name    string
	kind    string
	planned float64
	actual  float64
	color   string
	period  string
}

func NewBudgetCmd(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "budget",
		Short: "Manage the budget categories of a period",
	}

	cmd.AddCommand(
		newBudgetListCmd(opts),
		newBudgetAddCmd(opts),
		newBudgetUpdateCmd(opts),
		newBudgetDeleteCmd(opts),
	)

	return cmd
}

func newBudgetListCmd(opts *RootOptions) *cobra.Command {
	var periodRaw string
	var typeRaw string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List budget categories, optionally of one type",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 {
				return printArgCountError(cmd, opts.Output, "budget list [--period YYYY-MM] [--type TYPE]", args)
			}

			var budgetType domain.BudgetType
			if strings.TrimSpace(typeRaw) != "" {
				parsed, ok := domain.ParseBudgetType(typeRaw)
				if !ok {
					return printInvalidArgument(cmd, opts.Output, "type must be one of income|variable|fixed|savings|debt", map[string]any{
						"field": "type",
						"value": typeRaw,
					})
				}
				budgetType = parsed
			}

			services, err := opts.services()
			if err != nil {
				return printServiceError(cmd, opts.Output, err)
			}
			key, err := resolvePeriod(cmd.Context(), services, periodRaw)
			if err != nil {
				return printServiceError(cmd, opts.Output, err)
			}

			var categories []domain.BudgetCategory
			if budgetType == "" {
				period, err := services.budgets.GetPeriod(cmd.Context(), key)
				if err != nil {
					return printServiceError(cmd, opts.Output, err)
				}
				categories = period.Categories
			} else {
				categories, err = services.budgets.CategoriesByType(cmd.Context(), key, budgetType)
				if err != nil {
					return printServiceError(cmd, opts.Output, err)
				}
			}

			return printSuccess(cmd, opts.Output, map[string]any{
				"period":     key.String(),
				"categories": categories,
				"count":      len(categories),
			}, nil)
		},
	}

	cmd.Flags().StringVar(&periodRaw, "period", "", "Period YYYY-MM (defaults to the selected period)")
	cmd.Flags().StringVar(&typeRaw, "type", "", "Budget type filter: income|variable|fixed|savings|debt")
	return cmd
}

func newBudgetAddCmd(opts *RootOptions) *cobra.Command {
	flags := &budgetAddFlags{}

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a budget category to a period",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 {
				return printArgCountError(cmd, opts.Output, "budget add --name NAME --type TYPE [--planned N] [--actual N] [--color #RRGGBB]", args)
			}
			if strings.TrimSpace(flags.name) == "" {
				return printServiceError(cmd, opts.Output, domain.ErrInvalidName)
			}
			if _, ok := domain.ParseBudgetType(flags.kind); !ok {
				return printInvalidArgument(cmd, opts.Output, "type must be one of income|variable|fixed|savings|debt", map[string]any{
					"field": "type",
					"value": flags.kind,
				})
			}

			services, err := opts.services()
			if err != nil {
				return printServiceError(cmd, opts.Output, err)
			}
			key, err := resolvePeriod(cmd.Context(), services, flags.period)
			if err != nil {
				return printServiceError(cmd, opts.Output, err)
			}

			category, err := services.budgets.AddCategory(cmd.Context(), key, domain.BudgetCategoryInput{
				Name:    flags.name,
				Type:    flags.kind,
				Color:   flags.color,
				Planned: flags.planned,
				Actual:  flags.actual,
			})
			if err != nil {
				return printServiceError(cmd, opts.Output, err)
			}

			return printSuccess(cmd, opts.Output, map[string]any{
				"period":   key.String(),
				"category": category,
			}, nil)
		},
	}

	cmd.Flags().StringVar(&flags.name, "name", "", "Category name")
	cmd.Flags().StringVar(&flags.kind, "type", "", "Budget type: income|variable|fixed|savings|debt")
	cmd.Flags().Float64Var(&flags.planned, "planned", 0, "Planned amount")
	cmd.Flags().Float64Var(&flags.actual, "actual", 0, "Manually tracked actual amount")
	cmd.Flags().StringVar(&flags.color, "color", "", "Hex color (defaults to the type color)")
	cmd.Flags().StringVar(&flags.period, "period", "", "Period YYYY-MM (defaults to the selected period)")
	return cmd
}

func newBudgetUpdateCmd(opts *RootOptions) *cobra.Command {
	var periodRaw string

	cmd := &cobra.Command{
		Use:   "update <id> <field> <value>",
		Short: "Set one field (name|planned|actual|color) of a budget category",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) < 3 {
				return printInvalidArgument(cmd, opts.Output, "update requires <id> <field> <value>", map[string]any{
					"required_args": []string{"id", "field", "value"},
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

			category, err := services.budgets.UpdateCategoryField(cmd.Context(), key, args[0], args[1], strings.Join(args[2:], " "))
			if err != nil {
				return printServiceError(cmd, opts.Output, err)
			}

			return printSuccess(cmd, opts.Output, map[string]any{
				"period":   key.String(),
				"category": category,
			}, nil)
		},
	}

	cmd.Flags().StringVar(&periodRaw, "period", "", "Period YYYY-MM (defaults to the selected period)")
	return cmd
}

func newBudgetDeleteCmd(opts *RootOptions) *cobra.Command {
	var periodRaw string

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove a budget category from a period",
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
			key, err := resolvePeriod(cmd.Context(), services, periodRaw)
			if err != nil {
				return printServiceError(cmd, opts.Output, err)
			}

			if err := services.budgets.DeleteCategory(cmd.Context(), key, args[0]); err != nil {
				return printServiceError(cmd, opts.Output, err)
			}

			return printSuccess(cmd, opts.Output, map[string]any{
				"period":  key.String(),
				"deleted": true,
				"id":      args[0],
			}, nil)
		},
	}

	cmd.Flags().StringVar(&periodRaw, "period", "", "Period YYYY-MM (defaults to the selected period)")
	return cmd
}
