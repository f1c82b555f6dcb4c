package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/nzvirtual/api/configs"
	"github.com/nzvirtual/api/internal/adapters"
)

const shutdownTimeout = 10 * time.Second

func Run() error {
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(fmt.Errorf("can't create logger: %w", err))
	}
	defer func() { _ = logger.Sync() }()

	cfg, err := configs.GetConfig(os.Args[1:], logger)
	if err != nil {
		logger.Error("can't read the config", zap.Error(err))
		return err
	}
	if cfg.Server.Production {
		if logger, err = zap.NewProduction(); err != nil {
			return fmt.Errorf("can't create production logger: %w", err)
		}
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := gorm.Open(
		postgres.Open(cfg.DSN()),
		&gorm.Config{
			PrepareStmt:    true,
			TranslateError: true,
		},
	)
	if err != nil {
		logger.Error("error while opening the database", zap.Error(err))
		return err
	}
	userStorage, err := adapters.NewUserStorage(db, logger)
	if err != nil {
		logger.Error("can't create userStorage", zap.Error(err))
		return err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	recorder, err := adapters.NewPrometheusRecorder(registry)
	if err != nil {
		return fmt.Errorf("can't register metrics: %w", err)
	}

	jwt, err := adapters.NewProviderJWT(cfg.Auth.Secret, cfg.Auth.Lifetime, logger,
		adapters.WithRecorder(recorder))
	if err != nil {
		logger.Error("can't create jwt provider", zap.Error(err))
		return err
	}

	restAPI := adapters.NewRestAPI(cfg, logger, jwt, userStorage, registry, gin.Default())
	restAPI.Serve()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return serve(ctx, &http.Server{Addr: cfg.Server.Address, Handler: restAPI, ReadHeaderTimeout: 5 * time.Second}, logger)
}

func serve(ctx context.Context, srv *http.Server, logger *zap.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server started", zap.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	return nil
}
