package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/StevenVC-P/phpTemplateGenerator/internal/bootstrap"
	cronjob "github.com/StevenVC-P/phpTemplateGenerator/internal/template_generation/cron"
	"github.com/StevenVC-P/phpTemplateGenerator/internal/template_generation/domain"
	"github.com/StevenVC-P/phpTemplateGenerator/internal/template_generation/repository"
	"github.com/StevenVC-P/phpTemplateGenerator/internal/template_generation/service"
)

var (
	jobID         string
	asYAML        bool
	retentionDays int
)

var generateCmd = &cobra.Command{
	Use:   "generate <request>",
	Short: "Run the full pipeline for a markdown, JSON or YAML request file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := domain.ValidateJobID(jobID); err != nil {
			return err
		}
		ctx := cmd.Context()
		var dep bootstrap.PipelineDeps
		dep.Logger = logger
		rdb, err := bootstrap.OpenRedis(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		if rdb != nil {
			defer rdb.Close()
			dep.Runs = repository.NewRunRepository(rdb)
		}

		p, err := bootstrap.BuildPipeline(ctx, cfg, dep)
		if err != nil {
			return err
		}
		res, err := p.Run(ctx, service.Input{JobID: jobID, Path: args[0]})
		if err != nil {
			return fmt.Errorf("run %s: %w", res.RunID, err)
		}
		if asJSON {
			return printJSON(cmd.OutOrStdout(), res)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "run:      %s\n", res.RunID)
		fmt.Fprintf(out, "business: %s (%s)\n", res.Spec.BusinessName, res.Spec.BusinessType)
		fmt.Fprintf(out, "services: %s\n", strings.Join(res.Spec.Services.Names(), ", "))
		fmt.Fprintf(out, "code:     %.1f/10\n", res.CodeReview.OverallScore)
		fmt.Fprintf(out, "design:   %.1f/10\n", res.DesignReview.OverallScore)
		fmt.Fprintf(out, "delivery: %s (v%s)\n", res.Delivery.Dir, res.Delivery.Version)
		for _, w := range res.Warnings {
			fmt.Fprintf(out, "warning:  %s\n", w)
		}
		return nil
	},
}

var resolveCmd = &cobra.Command{
	Use:   "resolve <request>",
	Short: "Parse a request and print the resolved project spec",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := bootstrap.BuildPipeline(cmd.Context(), cfg, bootstrap.PipelineDeps{Logger: logger})
		if err != nil {
			return err
		}
		raw, warnings := p.Parse(service.Input{Path: args[0]})
		for _, w := range warnings {
			fmt.Fprintln(cmd.ErrOrStderr(), "warning:", w)
		}
		spec := p.Resolve(cmd.Context(), raw)
		if asYAML {
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			defer enc.Close()
			return enc.Encode(spec)
		}
		return printJSON(cmd.OutOrStdout(), spec)
	},
}

var reviewCmd = &cobra.Command{
	Use:   "review <markup>",
	Short: "Score an existing template and print the design critique",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		markup, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		p, err := bootstrap.BuildPipeline(cmd.Context(), cfg, bootstrap.PipelineDeps{Logger: logger})
		if err != nil {
			return err
		}
		res, err := p.Review(cmd.Context(), string(markup))
		if err != nil {
			return err
		}
		if asJSON {
			return printJSON(cmd.OutOrStdout(), res)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Code review: %.1f/10\n\n%s", res.CodeReview.OverallScore, res.Critique)
		return nil
	},
}

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Remove run and version directories past the retention window",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		retention := cfg.Cleanup.Retention()
		if retentionDays > 0 {
			retention = time.Duration(retentionDays) * 24 * time.Hour
		}
		n, err := cronjob.CleanupOld(cfg.Generator.OutDir, retention, time.Now())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "removed %d director(ies) older than %s\n", n, retention)
		return nil
	},
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
