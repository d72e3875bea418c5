package main

import (
	"context"
	"errors"
	"net/http"
	"os"

	"golang.org/x/sync/errgroup"

	"budget/internal/cli"
	apphttp "budget/internal/http"
	"budget/internal/log"
	"budget/internal/services"
)

func main() {
	cfg := cli.MustLoadConfig()
	logger := cli.SetupLogger(cfg, log.ComponentApp, os.Stdout)

	ctx, stop := cli.SignalContext(context.Background())
	defer stop()

	res, err := cli.InitBackend(ctx, logger, cfg)
	if err != nil {
		logger.Error("Failed to initialize backend", log.FieldError, err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	defer func() {
		if err := res.Close(); err != nil {
			logger.Error("Failed to release backend", log.FieldError, err)
		}
	}()

	transactions := services.NewTransactionService(res.Store, res.Publisher)
	goals := services.NewGoalService(res.Store, transactions)

	srv := apphttp.NewServer(cfg.Addr(), goals, transactions, res.Store, logger, apphttp.Options{
		AllowedOrigin:   cfg.AllowedOrigin,
		RateLimitPerMin: cfg.RateLimitPerMin,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting budget server", "port", cfg.Port, "backend", cfg.DataBackend,
			"events", res.Publisher != nil)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", log.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}
