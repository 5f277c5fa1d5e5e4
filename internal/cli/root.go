package cli

import (
	"database/sql"
	"fmt"
	"time"

	"finance-dashboard/internal/cli/output"
	"finance-dashboard/internal/config"
	applog "finance-dashboard/internal/log"
	"finance-dashboard/internal/service"
	sqlitestore "finance-dashboard/internal/store/sqlite"
	"github.com/spf13/cobra"
)

type RootOptions struct {
	Output        string
	Timezone      string
	DBPath        string
	MigrationsDir string
	LogLevel      string

	db     *sql.DB
	logger *applog.Logger
	now    func() time.Time
}

// appServices is the service graph every command runs against.
type appServices struct {
	preferences *service.PreferenceService
	budgets     *service.BudgetService
	ledger      *service.LedgerService
	categories  *service.LedgerCategoryService
	reports     *service.ReportService
	portability *service.PortabilityService
}

func NewRootCmd() *cobra.Command {
	cfg := config.Load()

	opts := &RootOptions{
		Output:        cfg.Output,
		Timezone:      cfg.Timezone,
		DBPath:        cfg.DBPath,
		MigrationsDir: sqlitestore.DefaultMigrationsDir,
		LogLevel:      cfg.LogLevel,
	}

	cmd := &cobra.Command{
		Use:           "finance-dashboard",
		Short:         "Personal budgeting and transaction ledger",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			format, ok := output.ParseFormat(opts.Output)
			if !ok {
				return fmt.Errorf("invalid --output value %q: supported values are %s|%s", opts.Output, output.FormatHuman, output.FormatJSON)
			}
			opts.Output = format

			resolved := config.Config{DBPath: opts.DBPath, LogLevel: opts.LogLevel, Timezone: opts.Timezone, Output: opts.Output}
			if err := resolved.Validate(); err != nil {
				_ = printError(cmd, opts.Output, output.CodeConfigError, "invalid configuration", map[string]any{"error": err.Error()})
				return fmt.Errorf("invalid configuration: %w", err)
			}
			if err := output.SetDisplayTimezone(opts.Timezone); err != nil {
				return fmt.Errorf("set display timezone: %w", err)
			}

			level, _ := applog.ParseLevel(opts.LogLevel)
			opts.logger = applog.New(applog.Config{
				Level:     level,
				Format:    applog.FormatText,
				Component: applog.ComponentCLI,
				Output:    cmd.ErrOrStderr(),
			})

			db, err := sqlitestore.OpenAndMigrate(cmd.Context(), opts.DBPath, opts.MigrationsDir)
			if err != nil {
				return fmt.Errorf("initialize sqlite: %w", err)
			}

			opts.db = db
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			version, err := sqlitestore.SchemaVersion(cmd.Context(), opts.db, opts.MigrationsDir)
			if err != nil {
				return printServiceError(cmd, opts.Output, err)
			}

			return printSuccess(cmd, opts.Output, map[string]any{
				"command":        "root",
				"message":        "finance-dashboard ready",
				"timezone":       opts.Timezone,
				"db_path":        opts.DBPath,
				"schema_version": version,
			}, nil)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if opts.db != nil {
				if err := opts.db.Close(); err != nil {
					return fmt.Errorf("close sqlite db: %w", err)
				}
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.Output, "output", opts.Output, "Output format: human|json")
	cmd.PersistentFlags().StringVar(&opts.Timezone, "timezone", opts.Timezone, "Display timezone (IANA, e.g. America/New_York)")
	cmd.PersistentFlags().StringVar(&opts.DBPath, "db-path", opts.DBPath, "SQLite database path")
	cmd.PersistentFlags().StringVar(&opts.MigrationsDir, "migrations-dir", opts.MigrationsDir, "Migrations directory path (embedded migrations when empty)")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", opts.LogLevel, "Log level: debug|info|warn|error")

	cmd.AddCommand(
		NewPrefsCmd(opts),
		NewPeriodCmd(opts),
		NewBudgetCmd(opts),
		NewCategoryCmd(opts),
		NewTxnCmd(opts),
		NewSummaryCmd(opts),
		NewDataCmd(opts),
	)

	return cmd
}

// services wires the service graph over the opened database.
func (opts *RootOptions) services() (*appServices, error) {
	if opts.db == nil {
		return nil, fmt.Errorf("database is not initialized")
	}

	kv := sqlitestore.NewKVRepo(opts.db)
	serviceOpts := []service.Option{service.WithLogger(opts.logger)}
	if opts.now != nil {
		serviceOpts = append(serviceOpts, service.WithClock(opts.now))
	}

	preferences, err := service.NewPreferenceService(kv, serviceOpts...)
	if err != nil {
		return nil, err
	}
	budgets, err := service.NewBudgetService(kv, preferences, serviceOpts...)
	if err != nil {
		return nil, err
	}
	ledger, err := service.NewLedgerService(kv, budgets, serviceOpts...)
	if err != nil {
		return nil, err
	}
	categories, err := service.NewLedgerCategoryService(kv, serviceOpts...)
	if err != nil {
		return nil, err
	}
	reports, err := service.NewReportService(budgets, ledger)
	if err != nil {
		return nil, err
	}
	portability, err := service.NewPortabilityService(preferences, budgets, ledger, categories, kv, serviceOpts...)
	if err != nil {
		return nil, err
	}

	return &appServices{
		preferences: preferences,
		budgets:     budgets,
		ledger:      ledger,
		categories:  categories,
		reports:     reports,
		portability: portability,
	}, nil
}

// today is the calendar date of the clock in the display timezone.
func (opts *RootOptions) today() string {
	now := time.Now()
	if opts.now != nil {
		now = opts.now()
	}
	return now.In(output.DisplayLocation()).Format(time.DateOnly)
}
