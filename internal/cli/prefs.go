package cli

import (
	"finance-dashboard/internal/domain"
	"github.com/spf13/cobra"
)

type prefsSetFlags struct {
	currency string
	theme    string
	preset   string
	period   string
	month    int
	year     int
}

func NewPrefsCmd(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "Show and change display preferences",
	}

	cmd.AddCommand(
		newPrefsShowCmd(opts),
		newPrefsSetCmd(opts),
		newPrefsCurrenciesCmd(opts),
	)

	return cmd
}

func newPrefsShowCmd(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the stored preferences",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 {
				return printArgCountError(cmd, opts.Output, "prefs show", args)
			}

			services, err := opts.services()
			if err != nil {
				return printServiceError(cmd, opts.Output, err)
			}

			preferences, err := services.preferences.Get(cmd.Context())
			if err != nil {
				return printServiceError(cmd, opts.Output, err)
			}
			currency, err := services.preferences.CurrencyInfo(cmd.Context())
			if err != nil {
				return printServiceError(cmd, opts.Output, err)
			}
			selected, err := services.preferences.SelectedPeriod(cmd.Context())
			if err != nil {
				return printServiceError(cmd, opts.Output, err)
			}

			return printSuccess(cmd, opts.Output, map[string]any{
				"preferences":     preferences,
				"currency":        currency,
				"selected_period": selected.String(),
			}, nil)
		},
	}
}

func newPrefsSetCmd(opts *RootOptions) *cobra.Command {
	flags := &prefsSetFlags{}

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change one or more preferences",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 {
				return printArgCountError(cmd, opts.Output, "prefs set [--currency] [--theme] [--preset] [--period|--month --year]", args)
			}

			patch := domain.PreferencesPatch{}
			changed := 0
			if cmd.Flags().Changed("currency") {
				patch.Currency = &flags.currency
				changed++
			}
			if cmd.Flags().Changed("theme") {
				patch.Theme = &flags.theme
				changed++
			}
			if cmd.Flags().Changed("preset") {
				patch.UIThemePreset = &flags.preset
				changed++
			}
			if cmd.Flags().Changed("period") {
				key, err := domain.ParsePeriodKey(flags.period)
				if err != nil {
					return printServiceError(cmd, opts.Output, err)
				}
				patch.SelectedMonth = &key.Month
				patch.SelectedYear = &key.Year
				changed++
			}
			if cmd.Flags().Changed("month") {
				month := flags.month - 1
				patch.SelectedMonth = &month
				changed++
			}
			if cmd.Flags().Changed("year") {
				patch.SelectedYear = &flags.year
				changed++
			}
			if changed == 0 {
				return printInvalidArgument(cmd, opts.Output, "at least one preference flag is required", map[string]any{
					"flags": []string{"currency", "theme", "preset", "period", "month", "year"},
				})
			}

			services, err := opts.services()
			if err != nil {
				return printServiceError(cmd, opts.Output, err)
			}

			preferences, err := services.preferences.Set(cmd.Context(), patch)
			if err != nil {
				return printServiceError(cmd, opts.Output, err)
			}

			return printSuccess(cmd, opts.Output, map[string]any{"preferences": preferences}, nil)
		},
	}

	cmd.Flags().StringVar(&flags.currency, "currency", "", "Display currency code, e.g. USD")
	cmd.Flags().StringVar(&flags.theme, "theme", "", "Theme: light|dark")
	cmd.Flags().StringVar(&flags.preset, "preset", "", "UI theme preset: default|ocean|forest|sunset|midnight")
	cmd.Flags().StringVar(&flags.period, "period", "", "Selected period YYYY-MM")
	cmd.Flags().IntVar(&flags.month, "month", 0, "Selected month 1-12 (clamped)")
	cmd.Flags().IntVar(&flags.year, "year", 0, "Selected year (clamped to the supported range)")

	return cmd
}

func newPrefsCurrenciesCmd(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "currencies",
		Short: "List supported display currencies",
		RunE: func(cmd *cobra.Command, args []string) error {
			currencies := domain.Currencies()
			return printSuccess(cmd, opts.Output, map[string]any{
				"currencies": currencies,
				"count":      len(currencies),
			}, nil)
		},
	}
}
