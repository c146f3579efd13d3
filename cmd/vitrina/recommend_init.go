// Vitrina - Catalog Recommendations for E-Commerce
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrina

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/goccy/go-json"

	"github.com/tomtom215/vitrina/internal/config"
	"github.com/tomtom215/vitrina/internal/logging"
	"github.com/tomtom215/vitrina/internal/recommend"
	"github.com/tomtom215/vitrina/internal/store/mongostore"
)

// runRecommend computes recommendations for one user and prints them to
// stdout as indented JSON.
func runRecommend(ctx context.Context, cfg *config.Config, store *mongostore.Store, userID string, limit int) error {
	engine, err := recommend.NewEngine(store, store, recommend.Config{
		DefaultLimit: cfg.Recommend.DefaultLimit,
		MaxLimit:     cfg.Recommend.MaxLimit,
		TopNeighbors: cfg.Recommend.TopNeighbors,
	}, logging.Logger())
	if err != nil {
		return fmt.Errorf("create engine: %w", err)
	}

	products, err := engine.Recommend(ctx, userID, limit)
	if err != nil {
		return fmt.Errorf("recommend for %s: %w", userID, err)
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(products); err != nil {
		return fmt.Errorf("encode recommendations: %w", err)
	}
	return nil
}
