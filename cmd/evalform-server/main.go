package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-evalform/internal/cache"
	"github.com/goliatone/go-evalform/internal/config"
	"github.com/goliatone/go-evalform/internal/logging"
	"github.com/goliatone/go-evalform/internal/openapi"
	"github.com/goliatone/go-evalform/internal/repository"
	"github.com/goliatone/go-evalform/internal/service"
	"github.com/goliatone/go-evalform/internal/transport/rest"
	"github.com/goliatone/go-evalform/pkg/form"
	"github.com/goliatone/go-evalform/pkg/renderers/html"
	"github.com/goliatone/go-evalform/pkg/sink"
	"github.com/goliatone/go-evalform/pkg/wizard"
)

func main() {
	configFile := flag.String("config", "", "config file (searched in ./config and . when empty)")
	flag.Parse()

	var opts []config.Option
	if *configFile != "" {
		opts = append(opts, config.WithConfigFile(*configFile))
	}
	cfg, err := config.Load(opts...)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	formRepo, submissionRepo, closeStorage, err := openStorage(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStorage()

	sessions, closeCache, err := openCache(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeCache()

	forms := service.NewFormService(formRepo, submissionRepo, logger)
	if cfg.Forms.Dir != "" {
		catalog, err := form.Load(ctx, cfg.Forms.Dir)
		if err != nil {
			return fmt.Errorf("load forms: %w", err)
		}
		if _, err := forms.Seed(ctx, catalog); err != nil {
			return err
		}
	}

	sinks := []wizard.Sink{repository.SubmissionSink(submissionRepo)}
	if cfg.Submission.WebhookURL != "" {
		webhook, err := sink.NewWebhook(cfg.Submission.WebhookURL, sink.WithTimeout(cfg.Submission.Timeout))
		if err != nil {
			return fmt.Errorf("configure webhook: %w", err)
		}
		sinks = append(sinks, webhook)
		logger.Info("submission webhook enabled", zap.String("url", cfg.Submission.WebhookURL))
	}

	sessionSvc := service.NewSessionService(formRepo, sessions, sink.Multi(sinks...), logger,
		service.WithNoticeTimeout(cfg.Wizard.NoticeTimeout),
	)

	apiDoc, err := openapi.Load(ctx)
	if err != nil {
		return err
	}
	renderer, err := html.New()
	if err != nil {
		return err
	}

	router := rest.NewRouter(&rest.Container{
		FormService:    forms,
		SessionService: sessionSvc,
		Renderer:       renderer,
		APIDoc:         apiDoc,
		Logger:         logger,
		CORSOrigins:    cfg.HTTP.CORSOrigins,
	})

	srv := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting",
			zap.String("addr", cfg.HTTP.Addr),
			zap.String("env", cfg.Env),
			zap.String("storage", cfg.Storage.Driver),
			zap.String("cache", cfg.Cache.Driver),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("server exited")
	return nil
}

func openStorage(ctx context.Context, cfg *config.Config, logger *zap.Logger) (repository.FormRepo, repository.SubmissionRepo, func(), error) {
	if cfg.Storage.Driver != config.DriverMongo {
		logger.Warn("using in-memory storage; data is lost on restart")
		return repository.NewMemoryFormRepo(), repository.NewMemorySubmissionRepo(), func() {}, nil
	}

	client, err := repository.Connect(ctx, cfg.Mongo)
	if err != nil {
		return nil, nil, nil, err
	}
	logger.Info("connected to mongodb", zap.String("database", cfg.Mongo.Database))

	db := client.Database(cfg.Mongo.Database)
	closeFn := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Disconnect(ctx); err != nil {
			logger.Warn("mongo disconnect", zap.Error(err))
		}
	}
	return repository.NewFormRepo(db), repository.NewSubmissionRepo(db), closeFn, nil
}

func openCache(ctx context.Context, cfg *config.Config, logger *zap.Logger) (cache.SessionCache, func(), error) {
	if cfg.Cache.Driver != config.DriverRedis {
		logger.Warn("using in-memory session cache; sessions are lost on restart")
		return cache.NewMemorySessionCache(cfg.Redis.SessionTTL, nil), func() {}, nil
	}

	client, err := cache.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("connected to redis", zap.String("addr", cfg.Redis.Addr))
	closeFn := func() {
		if err := client.Close(); err != nil {
			logger.Warn("redis close", zap.Error(err))
		}
	}
	return cache.NewSessionCache(client, cfg.Redis.SessionTTL), closeFn, nil
}
