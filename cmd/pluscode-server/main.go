package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/mohammed-shakir/pluscode/internal/core/config"
	"github.com/mohammed-shakir/pluscode/internal/core/observability"
	"github.com/mohammed-shakir/pluscode/internal/core/router"
	"github.com/mohammed-shakir/pluscode/internal/core/server"
	"github.com/mohammed-shakir/pluscode/internal/locality"
	"github.com/mohammed-shakir/pluscode/internal/locality/kafkasync"
	"github.com/mohammed-shakir/pluscode/internal/locality/redisstore"
	"github.com/mohammed-shakir/pluscode/internal/logger"
	h3mapper "github.com/mohammed-shakir/pluscode/internal/mapper/h3"
	"github.com/mohammed-shakir/pluscode/internal/metrics"
)

var Version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	envFile := flag.String("env-file", ".env", "optional dotenv file loaded before reading the environment")
	flag.Parse()

	// a missing .env is normal outside local development
	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("dotenv load failed", "file", *envFile, "err", err)
	}

	cfg := config.FromEnv()

	zl := logger.Build(logger.Config{
		Level:     cfg.LogLevel,
		Console:   cfg.LogConsole,
		SampleN:   cfg.LogSampleN,
		Component: "pluscode-server",
	}, os.Stdout)
	appLog := logger.NewSlog(&zl)
	slog.SetDefault(appLog)

	appLog.Info("starting pluscode server",
		"addr", cfg.Addr,
		"version", Version,
		"default_code_length", cfg.DefaultCodeLength,
		"redis", cfg.RedisAddr != "")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	mp := metrics.Init(metrics.Config{
		Enabled: cfg.MetricsEnabled,
		Addr:    cfg.MetricsAddr,
		Path:    cfg.MetricsPath,
		Build: metrics.BuildInfo{
			Version:   Version,
			Revision:  os.Getenv("BUILD_REVISION"),
			BuildDate: os.Getenv("BUILD_DATE"),
		},
	})
	observability.Init(mp.Registerer(), cfg.MetricsEnabled)
	if srv := mp.Server(); srv != nil {
		srv.ReadHeaderTimeout = 5 * time.Second
		go func() {
			appLog.Info("metrics listen", "addr", srv.Addr, "path", mp.Path())
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				appLog.Error("metrics server exited", "err", err)
			}
		}()
		go func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				appLog.Warn("metrics shutdown", "err", err)
			}
		}()
	}

	backing, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		appLog.Error("locality store setup failed", "err", err)
		return 1
	}
	defer closeStore()

	cached, err := locality.NewCached(backing, cfg.LocalityCacheSize)
	if err != nil {
		appLog.Error("locality cache setup failed", "err", err)
		return 1
	}

	syncCfg := kafkasync.FromSettings(cfg.LocalitySync)
	runner := kafkasync.New(syncCfg, backing, kafkasync.Options{
		Logger:      appLog,
		Register:    registererIf(mp, cfg.MetricsEnabled),
		Invalidator: cached,
	})
	if err := runner.Start(ctx); err != nil {
		appLog.Error("locality sync start failed", "err", err)
		return 1
	}
	defer runner.Stop()

	deps := router.Deps{
		Logger:            appLog,
		Localities:        cached,
		Mapper:            h3mapper.New(),
		DefaultCodeLength: cfg.DefaultCodeLength,
	}
	if syncCfg.Active() {
		pub, err := kafkasync.NewPublisher(syncCfg, appLog, registererIf(mp, cfg.MetricsEnabled), 256)
		if err != nil {
			appLog.Error("locality publisher setup failed", "err", err)
			return 1
		}
		defer func() {
			if err := pub.Close(); err != nil {
				appLog.Warn("locality publisher close", "err", err)
			}
		}()
		deps.Publisher = pub
	}

	opts := server.Options{Ready: runner}
	if cfg.MetricsEnabled && mp.Server() == nil {
		opts.Metrics, opts.MetricsPath = mp.Handler(), mp.Path()
	}
	handler := server.NewHandler(appLog, router.New(deps), opts)

	if err := server.Run(ctx, cfg, appLog, handler); err != nil {
		appLog.Error("server exited with error", "err", err)
		return 1
	}
	appLog.Info("server stopped")
	return 0
}

func openStore(ctx context.Context, cfg config.Config) (locality.Store, func(), error) {
	if cfg.RedisAddr == "" {
		return locality.NewMemoryStore(), func() {}, nil
	}
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	rs, err := redisstore.New(pingCtx, cfg.RedisAddr,
		redisstore.WithPoolSize(cfg.RedisPoolSize),
		redisstore.WithTTL(cfg.LocalityTTL),
		redisstore.WithOpTimeout(cfg.CacheOpTimeout),
	)
	if err != nil {
		return nil, nil, err
	}
	return rs, func() { _ = rs.Close() }, nil
}

func registererIf(mp *metrics.Provider, enabled bool) prometheus.Registerer {
	if !enabled {
		return nil
	}
	return mp.Registerer()
}
