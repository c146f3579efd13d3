// Vitrina - Catalog Recommendations for E-Commerce
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrina

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/vitrina/internal/config"
	"github.com/tomtom215/vitrina/internal/ingest"
	"github.com/tomtom215/vitrina/internal/logging"
	"github.com/tomtom215/vitrina/internal/store/mongostore"
)

const metricsShutdownTimeout = 10 * time.Second

// runIngest consumes interaction events from NATS until SIGINT or SIGTERM.
// When metrics are enabled it also serves Prometheus metrics over HTTP.
func runIngest(ctx context.Context, cfg *config.Config, store *mongostore.Store) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	wmLogger := ingest.NewWatermillLogger(logging.Logger())
	subscriber, err := ingest.NewSubscriber(cfg.Ingest, wmLogger)
	if err != nil {
		return fmt.Errorf("create subscriber: %w", err)
	}
	defer func() {
		if err := subscriber.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing subscriber")
		}
	}()

	consumer, err := ingest.NewConsumer(subscriber, store, cfg.Ingest.Topic, logging.Logger())
	if err != nil {
		return fmt.Errorf("create consumer: %w", err)
	}

	var metricsServer *http.Server
	if cfg.Metrics.Enabled {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		metricsServer = &http.Server{
			Addr:              cfg.Metrics.Addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			logging.Info().Str("addr", cfg.Metrics.Addr).Msg("Metrics listener started")
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logging.Error().Err(err).Msg("Metrics listener failed")
			}
		}()
	}

	logging.Info().
		Str("nats_url", cfg.Ingest.NATSURL).
		Str("topic", cfg.Ingest.Topic).
		Str("queue_group", cfg.Ingest.QueueGroup).
		Msg("Starting ingest consumer")

	runErr := consumer.Run(ctx)
	if errors.Is(runErr, context.Canceled) {
		logging.Info().Msg("Shutdown signal received")
		runErr = nil
	}

	if metricsServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), metricsShutdownTimeout)
		defer cancel()
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			logging.Error().Err(err).Msg("Error shutting down metrics listener")
		}
	}

	return runErr
}
