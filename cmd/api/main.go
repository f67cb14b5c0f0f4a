package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/StevenVC-P/phpTemplateGenerator/config"
	"github.com/StevenVC-P/phpTemplateGenerator/internal/bootstrap"
	"github.com/StevenVC-P/phpTemplateGenerator/internal/storage/postgres"
	cronjob "github.com/StevenVC-P/phpTemplateGenerator/internal/template_generation/cron"
	tghttp "github.com/StevenVC-P/phpTemplateGenerator/internal/template_generation/http"
	"github.com/StevenVC-P/phpTemplateGenerator/internal/template_generation/logging"
	"github.com/StevenVC-P/phpTemplateGenerator/internal/template_generation/repository"
)

const serviceName = "php-template-generator"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger, err := logging.New(cfg.App.Environment, cfg.App.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	bootstrap.SetGinMode(cfg.App.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rdb, err := bootstrap.OpenRedis(ctx, cfg.Redis)
	if err != nil {
		logger.Fatal("redis", zap.Error(err))
	}
	var pipelineDeps bootstrap.PipelineDeps
	handlerDeps := tghttp.Deps{
		GenerateRPS:   cfg.Server.GenerateRPS,
		GenerateBurst: cfg.Server.GenerateBurst,
	}
	if rdb != nil {
		defer rdb.Close()
		runs := repository.NewRunRepository(rdb)
		pipelineDeps.Runs = runs
		handlerDeps.Runs = runs
	} else {
		logger.Warn("REDIS_ADDR not set, run tracking disabled")
	}

	var reports *repository.ReportRepository
	db, pool := openDatabase(ctx, cfg, logger)
	if db != nil {
		defer db.Close()
		reports = repository.NewReportRepository(db)
		pipelineDeps.Reports = reports
		handlerDeps.Reports = reports
	}
	if pool != nil {
		defer pool.Close()
	}

	pipelineDeps.Logger = logger
	pipeline, err := bootstrap.BuildPipeline(ctx, cfg, pipelineDeps)
	if err != nil {
		logger.Fatal("pipeline", zap.Error(err))
	}
	handlerDeps.Pipeline = pipeline

	schedOpts := cronjob.Options{
		BaseDir:   cfg.Generator.OutDir,
		Retention: cfg.Cleanup.Retention(),
		Schedule:  cfg.Cleanup.Schedule,
		Logger:    logger,
	}
	if reports != nil {
		schedOpts.Reports = reports
	}
	scheduler := cronjob.NewScheduler(schedOpts)
	if err := scheduler.Start(); err != nil {
		logger.Fatal("scheduler", zap.Error(err))
	}
	defer func() { <-scheduler.Stop().Done() }()

	router := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName: serviceName,
		Version:     cfg.App.Version,
		DB:          pool,
		Redis:       rdb,
		Logger:      logger,
		Templates:   tghttp.New(handlerDeps),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info("listening", zap.String("addr", srv.Addr), zap.String("env", cfg.App.Environment))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", zap.Error(err))
	}
}

// openDatabase connects the report store and the health-check pool. The
// service keeps running without them when postgres is unreachable.
func openDatabase(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*sql.DB, *pgxpool.Pool) {
	db, err := postgres.NewConnection(ctx, &cfg.Database)
	if err != nil {
		logger.Warn("postgres unavailable, report persistence disabled", zap.Error(err))
		return nil, nil
	}
	applied, err := postgres.Migrate(ctx, db)
	if err != nil {
		logger.Warn("migrations failed, report persistence disabled", zap.Error(err))
		_ = db.Close()
		return nil, nil
	}
	logger.Info("migrations applied", zap.Strings("files", applied))

	pool, err := bootstrap.OpenDB(ctx, bootstrap.DBOptions{DSN: postgres.DSN(&cfg.Database)})
	if err != nil {
		logger.Warn("health pool unavailable", zap.Error(err))
		return db, nil
	}
	return db, pool
}
