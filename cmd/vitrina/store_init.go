// Vitrina - Catalog Recommendations for E-Commerce
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrina

package main

import (
	"context"
	"fmt"

	"github.com/tomtom215/vitrina/internal/config"
	"github.com/tomtom215/vitrina/internal/logging"
	"github.com/tomtom215/vitrina/internal/store/mongostore"
)

// openStore connects to MongoDB using the configured URI and breaker
// settings. Every mode needs the store, so this runs before dispatch.
func openStore(ctx context.Context, cfg *config.Config) (*mongostore.Store, error) {
	store, err := mongostore.Connect(ctx, cfg.Mongo)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	logging.Info().
		Str("database", cfg.Mongo.Database).
		Msg("Connected to MongoDB")
	return store, nil
}
