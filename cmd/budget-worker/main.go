package main

import (
	"context"
	"errors"
	"os"

	"golang.org/x/sync/errgroup"

	"budget/internal/amqp"
	"budget/internal/cli"
	"budget/internal/log"
	"budget/internal/services"
	"budget/internal/worker"
)

func main() {
	cfg := cli.MustLoadConfig()
	logger := cli.SetupLogger(cfg, log.ComponentWorker, os.Stdout)

	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the worker")
		os.Exit(1)
	}
	if err := cli.RequireSharedBackend(cfg); err != nil {
		logger.Error("Worker needs the API server's database", log.FieldError, err)
		os.Exit(1)
	}

	ctx, stop := cli.SignalContext(context.Background())
	defer stop()

	// The worker only reads, so the backend needs no publisher of its own.
	amqpURL := cfg.AMQPURL
	cfg.AMQPURL = ""
	res, err := cli.InitBackend(ctx, logger, cfg)
	if err != nil {
		logger.Error("Failed to initialize backend", log.FieldError, err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	defer res.Close()

	client, err := amqp.NewClient(amqpURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", log.FieldError, err)
		os.Exit(1)
	}
	defer client.Close()

	summaries := worker.NewSummaryWorker(services.NewTransactionService(res.Store, nil), logger)

	logger.Info("Performing startup refresh...")
	if err := summaries.Refresh(ctx, 0); err != nil {
		// Storage may come up later; the periodic refresh retries.
		logger.Error("Startup refresh failed", log.FieldError, err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := client.ConsumeTransactionRecorded(gctx, summaries.HandleTransactionRecorded)
		if err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})
	if cfg.SummaryRefreshInterval > 0 {
		g.Go(func() error {
			summaries.RunPeriodic(gctx, cfg.SummaryRefreshInterval)
			return nil
		})
	}

	logger.Info("Starting budget-worker", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	if err := g.Wait(); err != nil {
		logger.Error("Message consumption failed", log.FieldError, err)
		os.Exit(1)
	}

	_, processed := summaries.Snapshot()
	logger.Info("Worker shutdown complete", "processed", processed)
}
