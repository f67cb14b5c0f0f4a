package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/StevenVC-P/phpTemplateGenerator/config"
	"github.com/StevenVC-P/phpTemplateGenerator/internal/template_generation/logging"
)

var (
	cfg      *config.Config
	logger   *zap.Logger
	outDir   string
	logLevel string
	asJSON   bool
)

var rootCmd = &cobra.Command{
	Use:           "worker",
	Short:         "Generate, review and maintain PHP landing page templates",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if cfg, err = config.Load(); err != nil {
			return err
		}
		if outDir != "" {
			cfg.Generator.OutDir = outDir
		}
		level := cfg.App.LogLevel
		if logLevel != "" {
			level = logLevel
		}
		if logger, err = logging.New(cfg.App.Environment, level); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&outDir, "out", "o", "", "Output directory (default: OUT_DIR)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (default: LOG_LEVEL)")
	rootCmd.PersistentFlags().BoolVar(&asJSON, "json", false, "Print machine-readable JSON")

	generateCmd.Flags().StringVar(&jobID, "job-id", "", "Job id used to group delivery versions")
	resolveCmd.Flags().BoolVar(&asYAML, "yaml", false, "Print the resolved spec as YAML")
	cleanupCmd.Flags().IntVar(&retentionDays, "older-than", 0, "Retention in days (default: RETENTION_DAYS)")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(reviewCmd)
	rootCmd.AddCommand(cleanupCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
