package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"kpidash/internal/config"
	"kpidash/internal/metrics"
	"kpidash/internal/server"
	"kpidash/internal/targets"
	"kpidash/internal/warehouse"
	"kpidash/pkg/constants"
	"kpidash/pkg/output"
	"kpidash/pkg/validation"
)

var version = "dev"

// initializeLogger creates a zap logger based on configuration and CLI override
func initializeLogger(loggingConfig config.LoggingConfig, logLevelOverride string) (*zap.Logger, error) {
	// Determine log level (CLI override takes precedence)
	level := loggingConfig.Level
	if logLevelOverride != "" {
		level = logLevelOverride
	}
	if level == "" {
		level = "info"
	}

	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn", "warning":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		return nil, fmt.Errorf("invalid log level: %s", level)
	}

	format := loggingConfig.Format
	if format == "" {
		format = "json"
	}

	var zapConfig zap.Config
	switch format {
	case "console":
		zapConfig = zap.NewDevelopmentConfig()
		zapConfig.Level = zap.NewAtomicLevelAt(zapLevel)
	case "json":
		zapConfig = zap.NewProductionConfig()
		zapConfig.Level = zap.NewAtomicLevelAt(zapLevel)
	default:
		return nil, fmt.Errorf("invalid log format: %s", format)
	}

	if loggingConfig.OutputFile != "" {
		if dir := filepath.Dir(loggingConfig.OutputFile); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create log directory %s: %v", dir, err)
			}
		}
		zapConfig.OutputPaths = []string{loggingConfig.OutputFile}
		zapConfig.ErrorOutputPaths = []string{loggingConfig.OutputFile}
	}

	return zapConfig.Build()
}

type app struct {
	conf     *config.Configuration
	logger   *zap.Logger
	store    *targets.Store
	resolver *metrics.Resolver
	source   *warehouse.SQLSource
}

func newApp(configPath, logLevel string) (*app, error) {
	conf, err := config.LoadConfiguration(configPath)
	if err != nil {
		return nil, err
	}

	logger, err := initializeLogger(conf.Logging, logLevel)
	if err != nil {
		return nil, err
	}

	store := targets.NewStore(conf.Targets.Path, conf.Targets.CacheTTL(), logger)

	var src warehouse.Source
	var sqlSource *warehouse.SQLSource
	if conf.Warehouse.Enabled() {
		sqlSource, err = warehouse.Open(conf.Warehouse.Path, conf.Warehouse.QueryTimeout(), logger)
		if err != nil {
			return nil, err
		}
		if err := sqlSource.EnsureSchema(context.Background()); err != nil {
			return nil, err
		}
		src = warehouse.NewCachedSource(sqlSource, conf.Warehouse.CacheTTL(), logger)
	}

	return &app{
		conf:     conf,
		logger:   logger,
		store:    store,
		resolver: metrics.NewResolver(src, store, logger),
		source:   sqlSource,
	}, nil
}

func (a *app) close() {
	if a.source != nil {
		_ = a.source.Close()
	}
	_ = a.logger.Sync()
}

var rootCmd = &cobra.Command{
	Use:   "kpidash",
	Short: "Executive KPI dashboard",
	Long: `kpidash aggregates company and per-person performance metrics, compares
them against configurable targets, and serves status-annotated results over
HTTP or as terminal reports. Targets live in a small JSON store with atomic
writes and a pre-save backup.`,
	SilenceUsage: true,
}

func main() {
	cobra.OnInitialize(initViper)
	addPersistentFlags()
	registerCommands()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func initViper() {
	viper.SetEnvPrefix("KPIDASH")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func addPersistentFlags() {
	rootCmd.PersistentFlags().String("config", constants.DefaultConfigFile, "path to configuration file")
	rootCmd.PersistentFlags().String("log-level", "", "log level override (debug, info, warn, error)")
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))
}

func registerCommands() {
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(reportCmd())
	rootCmd.AddCommand(targetsCmd())
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard JSON API",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(viper.GetString("config"), viper.GetString("log-level"))
			if err != nil {
				return err
			}
			defer a.close()

			handler := server.NewHandler(a.logger, a.resolver, a.store, version)
			a.logger.Info("serving dashboard API",
				zap.String("op", "main"),
				zap.String("address", a.conf.Server.Address),
			)
			return http.ListenAndServe(a.conf.Server.Address, handler)
		},
	}
}

func reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print the KPI scoreboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			outputFormat, _ := cmd.Flags().GetString("output-format")
			if err := validation.ValidateOutputFormat(outputFormat); err != nil {
				return err
			}

			a, err := newApp(viper.GetString("config"), viper.GetString("log-level"))
			if err != nil {
				return err
			}
			defer a.close()

			snap := a.resolver.Snapshot(cmd.Context(), metrics.Keys())
			switch outputFormat {
			case constants.OutputFormatCSV:
				output.CsvFormat(snap)
			default:
				output.PrettyFormat(snap, a.resolver.People())
			}
			return nil
		},
	}
	cmd.Flags().String("output-format", constants.OutputFormatPretty, "type of output: pretty, csv")
	return cmd
}

func targetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "targets",
		Short: "Inspect and edit the target store",
	}
	cmd.AddCommand(targetsExportCmd())
	cmd.AddCommand(targetsSetCmd())
	cmd.AddCommand(targetsRestoreCmd())
	return cmd
}

func targetsExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Print the target configuration as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(viper.GetString("config"), viper.GetString("log-level"))
			if err != nil {
				return err
			}
			defer a.close()

			data, err := targets.ExportJSON(a.store.Load())
			if err != nil {
				return err
			}
			fmt.Println(string(data))
			return nil
		},
	}
}

func targetsSetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Update a single target (company key or person name)",
		RunE: func(cmd *cobra.Command, args []string) error {
			companyArg, _ := cmd.Flags().GetString("company")
			personArg, _ := cmd.Flags().GetString("person")
			updatedBy, _ := cmd.Flags().GetString("updated-by")

			if (companyArg == "") == (personArg == "") {
				return fmt.Errorf("exactly one of --company or --person is required")
			}

			a, err := newApp(viper.GetString("config"), viper.GetString("log-level"))
			if err != nil {
				return err
			}
			defer a.close()

			if companyArg != "" {
				key, value, err := splitAssignment(companyArg)
				if err != nil {
					return err
				}
				return a.store.UpdateCompanyTarget(key, value, updatedBy)
			}

			name, value, err := splitAssignment(personArg)
			if err != nil {
				return err
			}
			return a.store.UpdatePersonTarget(name, value, updatedBy)
		},
	}
	cmd.Flags().String("company", "", "company target as key=value (e.g. revenue_target=12000000)")
	cmd.Flags().String("person", "", "person target as name=value (e.g. Victoria=55)")
	cmd.Flags().String("updated-by", "admin", "name recorded in the audit fields")
	return cmd
}

func targetsRestoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "restore",
		Short: "Restore the target configuration from the backup file",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(viper.GetString("config"), viper.GetString("log-level"))
			if err != nil {
				return err
			}
			defer a.close()

			if !a.store.RestoreFromBackup() {
				return fmt.Errorf("no backup available at %s", a.store.Path()+constants.BackupSuffix)
			}
			fmt.Println("restored targets from backup")
			return nil
		},
	}
}

func splitAssignment(arg string) (string, float64, error) {
	key, valueStr, ok := strings.Cut(arg, "=")
	if !ok || key == "" {
		return "", 0, fmt.Errorf("expected key=value, got %q", arg)
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return "", 0, fmt.Errorf("invalid target value %q: %w", valueStr, err)
	}
	return key, value, nil
}
