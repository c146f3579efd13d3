// Vitrina - Catalog Recommendations for E-Commerce
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrina

// Package main is the entry point for the Vitrina recommendation service.
//
// Vitrina computes personalized product recommendations from a shared
// MongoDB catalog using user-based collaborative filtering, with trending
// and recency fallbacks for cold-start users.
//
// # Modes
//
// The binary runs in one of three modes:
//
//	vitrina -user <id> [-limit n]   # print recommendations for a user as JSON
//	vitrina -ingest                 # consume interaction events from NATS
//	vitrina -seed                   # load demo catalog fixtures
//
// # Configuration
//
// Configuration is loaded via Koanf v2 with layered sources (highest
// priority wins):
//   - Environment variables (MONGODB_URI, NATS_URL, LOG_LEVEL, ...)
//   - Config file (config.yaml, or CONFIG_PATH)
//   - Built-in defaults
//
// Minimal setup:
//
//	export MONGODB_URI=mongodb://localhost:27017
//	./vitrina -seed                 # prints "<name>\t<user id>" per demo user
//	./vitrina -user <id from -seed>
//
// # Signal Handling
//
// Ingest mode shuts down gracefully on SIGINT and SIGTERM: the subscriber
// stops pulling messages, in-flight events finish, and the store
// connection closes.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/tomtom215/vitrina/internal/config"
	"github.com/tomtom215/vitrina/internal/logging"
)

func main() {
	userID := flag.String("user", "", "user id to recommend products for")
	limit := flag.Int("limit", 0, "number of recommendations (0 = configured default)")
	ingestMode := flag.Bool("ingest", false, "run the NATS interaction event consumer")
	seedMode := flag.Bool("seed", false, "load demo catalog fixtures and exit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	ctx := context.Background()
	store, err := openStore(ctx, cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to connect to MongoDB")
	}
	defer func() {
		if err := store.Close(context.Background()); err != nil {
			logging.Error().Err(err).Msg("Error closing store")
		}
	}()

	switch {
	case *seedMode:
		err = runSeed(ctx, store)
	case *ingestMode:
		err = runIngest(ctx, cfg, store)
	case *userID != "":
		err = runRecommend(ctx, cfg, store, *userID, *limit)
	default:
		fmt.Fprintln(os.Stderr, "one of -user, -ingest, or -seed is required")
		flag.Usage()
		os.Exit(2)
	}

	if err != nil {
		logging.Fatal().Err(err).Msg("Command failed")
	}
}
