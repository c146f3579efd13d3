// Vitrina - Catalog Recommendations for E-Commerce
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrina

package recommend

import (
	"context"
	"fmt"

	"github.com/tomtom215/vitrina/internal/models"
)

// InteractionStore is the engine's read interface to the interaction log.
// Implementations live in internal/store; the engine never writes.
type InteractionStore interface {
	// QueryByUser returns all interactions of one user with any of the
	// given types.
	QueryByUser(ctx context.Context, userID string, types []models.InteractionType) ([]models.Interaction, error)

	// QueryByProductsExcludingUser returns all interactions on the given
	// products by users other than excludeUserID, filtered by type.
	QueryByProductsExcludingUser(ctx context.Context, productIDs []string, excludeUserID string, types []models.InteractionType) ([]models.Interaction, error)

	// QueryByUsers returns all interactions of the given users, filtered
	// by type.
	QueryByUsers(ctx context.Context, userIDs []string, types []models.InteractionType) ([]models.Interaction, error)

	// AggregateScoreByProduct returns the summed weighted engagement per
	// product across the whole interaction log, considering only the given
	// types with their weights. Order of the returned slice is
	// unspecified; the engine ranks it.
	AggregateScoreByProduct(ctx context.Context, types []models.InteractionType, weights map[models.InteractionType]int) ([]models.ProductScore, error)
}

// ProductCatalog is the engine's read interface to the product catalog.
type ProductCatalog interface {
	// FindByIDs returns the products with the given ids. Order is not
	// guaranteed and missing ids are simply absent from the result.
	FindByIDs(ctx context.Context, ids []string) ([]models.Product, error)

	// FindMostRecent returns up to limit products ordered by creation
	// time, newest first.
	FindMostRecent(ctx context.Context, limit int) ([]models.Product, error)
}

// Config contains engine parameters.
type Config struct {
	// DefaultLimit is used when the caller passes a limit <= 0.
	DefaultLimit int

	// MaxLimit caps the requested limit.
	MaxLimit int

	// TopNeighbors is how many of the highest-scored similar users feed
	// candidate scoring.
	TopNeighbors int
}

// DefaultConfig returns the default engine configuration.
func DefaultConfig() Config {
	return Config{
		DefaultLimit: 9,
		MaxLimit:     50,
		TopNeighbors: 20,
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.DefaultLimit <= 0 {
		return fmt.Errorf("default limit must be positive, got %d", c.DefaultLimit)
	}
	if c.MaxLimit < c.DefaultLimit {
		return fmt.Errorf("max limit (%d) must be >= default limit (%d)", c.MaxLimit, c.DefaultLimit)
	}
	if c.TopNeighbors <= 0 {
		return fmt.Errorf("top neighbors must be positive, got %d", c.TopNeighbors)
	}
	return nil
}

// neighbor is one similar user with their accumulated similarity score.
// Request-scoped; never persisted.
type neighbor struct {
	UserID string
	Score  int
}

// scoredID pairs an id with an accumulated weight for ranking.
type scoredID struct {
	ID    string
	Score int
}

// weightsFor builds the weight table for the given types from the single
// weighting scheme in models.
func weightsFor(types []models.InteractionType) map[models.InteractionType]int {
	weights := make(map[models.InteractionType]int, len(types))
	for _, t := range types {
		weights[t] = t.Weight()
	}
	return weights
}
