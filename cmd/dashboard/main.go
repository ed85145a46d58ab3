// Command dashboard serves the indicator forecast dashboard over HTTP.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/aouyang1/go-forecast-dashboard/config"
	"github.com/aouyang1/go-forecast-dashboard/logger"
	"github.com/aouyang1/go-forecast-dashboard/metrics"
	"github.com/aouyang1/go-forecast-dashboard/modelstore"
	"github.com/aouyang1/go-forecast-dashboard/predict"
	"github.com/aouyang1/go-forecast-dashboard/server"
	"github.com/rs/zerolog"
)

const msgModelsNotFound = "Model files not found. Please ensure the model files are in the model directory."

func main() {
	configPath := flag.String("config", "", "config file path, defaults are used when empty")
	flag.Parse()

	cfg, err := config.LoadWithEnv(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	l, closer, err := logger.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init failed: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = run(ctx, cfg, l)
	stop()
	closer.Close()
	if err != nil {
		os.Exit(1)
	}
}

// run loads every model up front so a missing file stops the process before it serves
// anything, then serves until ctx is done.
func run(ctx context.Context, cfg *config.Config, l zerolog.Logger) error {
	var (
		storeOpts   []modelstore.Option
		predictOpts []predict.Option
		serverOpts  = []server.ServerOption{
			server.WithHost(cfg.Server.Host),
			server.WithPort(cfg.Server.Port),
			server.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		}
	)
	if cfg.Metrics.Enabled {
		rec := metrics.New(true)
		storeOpts = append(storeOpts, modelstore.WithRecorder(rec))
		predictOpts = append(predictOpts, predict.WithRecorder(rec))
		serverOpts = append(serverOpts, server.WithMetrics(cfg.Metrics.Path, rec.Handler(), rec))
	}

	store := modelstore.NewFromDir(cfg.Models.Dir, storeOpts...)
	if _, err := store.Load(); err != nil {
		if errors.Is(err, modelstore.ErrModelNotFound) {
			fmt.Fprintln(os.Stderr, msgModelsNotFound)
			l.Error().Err(err).Str("dir", cfg.Models.Dir).Msg(msgModelsNotFound)
			return err
		}
		l.Error().Err(err).Str("dir", cfg.Models.Dir).Msg("unable to load models")
		return err
	}
	l.Info().Str("dir", cfg.Models.Dir).Int("models", len(store.Metrics())).Msg("models loaded")

	cache := predict.New(store, predictOpts...)
	dashboard, err := server.NewDashboard(cache, store, cfg.Dashboard, l)
	if err != nil {
		l.Error().Err(err).Msg("unable to create dashboard")
		return err
	}

	srv := server.NewServer(dashboard, l, serverOpts...)
	if err := srv.Start(); err != nil {
		l.Error().Err(err).Msg("http server start error")
		return err
	}

	<-ctx.Done()
	l.Info().Msg("shutdown signal received")
	return srv.Stop(context.Background())
}
