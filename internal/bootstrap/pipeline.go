package bootstrap

import (
	"context"
	"fmt"

	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"go.uber.org/zap"

	"github.com/StevenVC-P/phpTemplateGenerator/config"
	"github.com/StevenVC-P/phpTemplateGenerator/internal/template_generation/packager"
	"github.com/StevenVC-P/phpTemplateGenerator/internal/template_generation/prompt"
	"github.com/StevenVC-P/phpTemplateGenerator/internal/template_generation/resolver"
	"github.com/StevenVC-P/phpTemplateGenerator/internal/template_generation/service"
	"github.com/StevenVC-P/phpTemplateGenerator/internal/template_generation/tables"
	"github.com/StevenVC-P/phpTemplateGenerator/internal/template_generation/variation"
)

// PipelineDeps carries the optional stores; leave them nil to run without
// tracking or report persistence.
type PipelineDeps struct {
	Runs    service.RunRecorder
	Reports service.ReportStore
	Logger  *zap.Logger
}

// BuildPipeline loads the configured tables, prompt fragments, preset
// services and variation catalog, and wires the publisher when a bucket is
// configured.
func BuildPipeline(ctx context.Context, cfg *config.Config, dep PipelineDeps) (*service.Pipeline, error) {
	t := tables.Default()
	if cfg.Generator.TablesFile != "" {
		var err error
		if t, err = tables.Load(cfg.Generator.TablesFile); err != nil {
			return nil, err
		}
	}

	var opts []resolver.Option
	if cfg.Generator.PresetServicesFile != "" {
		preset, err := tables.LoadPresetServices(cfg.Generator.PresetServicesFile)
		if err != nil {
			return nil, err
		}
		opts = append(opts, resolver.WithPresetServices(preset))
	}

	fragments := prompt.DefaultFragments()
	if cfg.Generator.PromptsFile != "" {
		var err error
		if fragments, err = prompt.LoadFragments(cfg.Generator.PromptsFile); err != nil {
			return nil, err
		}
	}
	assembler, err := prompt.NewAssembler(fragments)
	if err != nil {
		return nil, err
	}

	catalog := variation.DefaultCatalog()
	if cfg.Generator.VariationsFile != "" {
		if catalog, err = variation.LoadCatalog(cfg.Generator.VariationsFile); err != nil {
			return nil, err
		}
	}

	pkgOpts := packager.Options{OutDir: cfg.Generator.OutDir}
	if cfg.Publishing.Bucket != "" {
		awsCfg, err := awsConfig.LoadDefaultConfig(ctx, awsConfig.WithRegion(cfg.Publishing.AWSRegion))
		if err != nil {
			return nil, fmt.Errorf("load aws config: %w", err)
		}
		pkgOpts.Publisher = packager.NewS3Publisher(awsCfg, cfg.Publishing.Bucket, cfg.Publishing.Prefix)
	}
	pkg, err := packager.New(pkgOpts)
	if err != nil {
		return nil, err
	}

	return service.NewPipeline(service.Deps{
		Tables:     t,
		Resolver:   resolver.New(t, opts...),
		Assembler:  assembler,
		Variations: variation.New(catalog),
		Packager:   pkg,
		Runs:       dep.Runs,
		Reports:    dep.Reports,
		Logger:     dep.Logger,
		OutDir:     cfg.Generator.OutDir,
	})
}
