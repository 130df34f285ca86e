package cmd

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"algowatch/internal/audit"
	"algowatch/internal/generation"
	genmetrics "algowatch/internal/generation/metrics"
	genservice "algowatch/internal/generation/service"
	httpapi "algowatch/internal/http"
	jwttoken "algowatch/internal/jwt_token"
	"algowatch/internal/kit"
	kitmetrics "algowatch/internal/kit/metrics"
	kitservice "algowatch/internal/kit/service"
	"algowatch/internal/patterns"
	patternsmetrics "algowatch/internal/patterns/metrics"
	patternsservice "algowatch/internal/patterns/service"
	"algowatch/internal/place"
	"algowatch/internal/platform/config"
	"algowatch/internal/platform/httpserver"
	"algowatch/internal/platform/logger"
	platformmetrics "algowatch/internal/platform/metrics"
	"algowatch/internal/platform/postgres"
	redisclient "algowatch/internal/platform/redis"
	"algowatch/internal/report"
	reportmetrics "algowatch/internal/report/metrics"
	reportservice "algowatch/internal/report/service"
)

const auditBuffer = 1024

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := logger.New(cfg.Log.Level, cfg.Log.Format)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := buildApp(ctx, cfg, log)
	if err != nil {
		log.Error("startup failed", "error", err)
		return err
	}
	defer app.close()

	srv := httpserver.New(cfg.Server.Addr, app.router, cfg.Generation.Timeout)

	// The audit worker outlives the server so events emitted by in-flight
	// requests are still delivered.
	workerCtx, stopWorker := context.WithCancel(context.Background())
	workerDone := make(chan error, 1)
	go func() { workerDone <- app.auditWorker.Run(workerCtx) }()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting algowatch", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		log.Info("shutting down")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		return nil
	})

	err = g.Wait()
	stopWorker()
	if werr := <-workerDone; werr != nil && !errors.Is(werr, context.Canceled) {
		log.Error("audit worker stopped", "error", werr)
	}
	return err
}

type application struct {
	router      http.Handler
	auditWorker *audit.Worker
	closers     []func()
}

func (a *application) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

func buildApp(ctx context.Context, cfg config.Config, log *slog.Logger) (*application, error) {
	app := &application{}
	health := map[string]httpapi.HealthCheck{}

	var db *sql.DB
	if cfg.Database.URL != "" {
		var err error
		db, err = postgres.Open(ctx, cfg.Database, log)
		if err != nil {
			return nil, err
		}
		app.closers = append(app.closers, func() { _ = db.Close() })
		applied, err := postgres.Migrate(ctx, db)
		if err != nil {
			app.close()
			return nil, err
		}
		log.Info("schema applied", "migrations", len(applied))
		health["postgres"] = db.PingContext
	} else {
		log.Warn("no database configured, using in-memory stores")
	}

	rdb, err := redisclient.New(ctx, cfg.Redis)
	if err != nil {
		app.close()
		return nil, err
	}
	if rdb != nil {
		app.closers = append(app.closers, func() { _ = rdb.Close() })
		health["redis"] = rdb.Health
	}

	publisher := audit.NewPublisher(auditBuffer)
	var sink audit.Sink = audit.NewLogSink(log)
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaSink, err := audit.NewKafkaSink(ctx, cfg.Kafka.Brokers, cfg.Kafka.Topic, cfg.Kafka.ClientID)
		if err != nil {
			app.close()
			return nil, err
		}
		app.closers = append(app.closers, kafkaSink.Close)
		sink = kafkaSink
	}
	app.auditWorker = audit.NewWorker(sink, publisher.Inbox(), log)

	kitOwner, kitSystem := kit.NewStores(db)
	kitSvc, err := kit.NewService(kitOwner, kitSystem,
		kitservice.WithLogger(log),
		kitservice.WithMetrics(kitmetrics.New()),
		kitservice.WithAuditPublisher(publisher),
		kitservice.WithDuplicationScope(kitservice.DuplicationScope(cfg.Kits.DuplicationScope)),
	)
	if err != nil {
		app.close()
		return nil, err
	}

	reportOwner, reportSystem := report.NewStores(db)
	patternOpts := []patternsservice.Option{
		patternsservice.WithLogger(log),
		patternsservice.WithMetrics(patternsmetrics.New()),
		patternsservice.WithMinSample(cfg.Patterns.MinSample),
	}
	if rdb != nil {
		patternOpts = append(patternOpts, patternsservice.WithCache(patterns.NewCache(rdb.Client, cfg.Patterns.CacheTTL)))
	}
	patternsSvc, err := patterns.NewService(reportSystem, patternOpts...)
	if err != nil {
		app.close()
		return nil, err
	}

	reportSvc, err := report.NewService(reportOwner,
		reportservice.WithLogger(log),
		reportservice.WithMetrics(reportmetrics.New()),
		reportservice.WithAuditPublisher(publisher),
		reportservice.WithCacheInvalidator(patternsSvc),
	)
	if err != nil {
		app.close()
		return nil, err
	}

	provider, err := generation.NewProvider(ctx, cfg.Generation)
	if err != nil {
		app.close()
		return nil, err
	}
	if provider == nil {
		log.Warn("no generation API key configured, generate-kit will report unavailable")
	}
	genSvc := generation.NewService(provider,
		genservice.WithLogger(log),
		genservice.WithMetrics(genmetrics.New()),
		genservice.WithOutputScreening(cfg.Generation.ScreenOutput),
	)

	jwt := jwttoken.NewJWTService(cfg.Auth.JWTSigningKey, cfg.Auth.JWTIssuer, cfg.Auth.JWTAudience)
	kitHandler := kit.NewHandler(kitSvc, log)

	app.router = httpapi.NewRouter(httpapi.Config{
		Logger:    log,
		Observer:  platformmetrics.New(),
		Validator: jwttoken.NewJWTServiceAdapter(jwt),
		Public: []httpapi.Registrar{
			generation.NewHandler(genSvc, log),
			patterns.NewHandler(patternsSvc, log),
			place.NewHandler(log),
			httpapi.RegistrarFunc(kitHandler.RegisterPublic),
		},
		Protected: []httpapi.Registrar{
			kitHandler,
			report.NewHandler(reportSvc, log),
		},
		Health:         health,
		MetricsHandler: promhttp.Handler(),
	})
	return app, nil
}
