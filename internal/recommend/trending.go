// Vitrina - Catalog Recommendations for E-Commerce
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrina

package recommend

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/vitrina/internal/metrics"
	"github.com/tomtom215/vitrina/internal/models"
)

// trending is the cold-start path: products ranked by aggregate weighted
// like/purchase engagement across all users, using the same weight table as
// personalized scoring. If the interaction log carries no engagement at
// all, the newest catalog products are returned instead. The result can be
// empty only when the catalog itself is empty.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func (e *Engine) trending(ctx context.Context, limit int, logger zerolog.Logger, start time.Time) ([]models.Product, error) {
	strong := models.StrongInteractions()

	aggregated, err := e.store.AggregateScoreByProduct(ctx, strong, weightsFor(strong))
	if err != nil {
		metrics.ObserveRecommend(metrics.OutcomeError, 0, start)
		return nil, fmt.Errorf("aggregate trending scores: %w", err)
	}

	if len(aggregated) == 0 {
		products, err := e.catalog.FindMostRecent(ctx, limit)
		if err != nil {
			metrics.ObserveRecommend(metrics.OutcomeError, 0, start)
			return nil, fmt.Errorf("find most recent products: %w", err)
		}
		logger.Debug().Int("returned", len(products)).Msg("empty interaction log, returning newest products")
		metrics.ObserveRecommend(metrics.OutcomeRecency, len(products), start)
		return products, nil
	}

	scores := make(map[string]int, len(aggregated))
	for _, entry := range aggregated {
		scores[entry.ProductID] = entry.Score
	}
	ranked := rankScores(scores)
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	ids := make([]string, len(ranked))
	for i, r := range ranked {
		ids[i] = r.ID
	}

	products, err := e.materialize(ctx, ids)
	if err != nil {
		metrics.ObserveRecommend(metrics.OutcomeError, 0, start)
		return nil, err
	}

	logger.Debug().Int("returned", len(products)).Msg("trending recommendation complete")
	metrics.ObserveRecommend(metrics.OutcomeTrending, len(products), start)
	return products, nil
}
