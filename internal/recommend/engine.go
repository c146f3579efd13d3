// Vitrina - Catalog Recommendations for E-Commerce
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrina

package recommend

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tomtom215/vitrina/internal/metrics"
	"github.com/tomtom215/vitrina/internal/models"
)

// Engine produces bounded, ordered product recommendations for a user.
// It is stateless and safe for concurrent use.
type Engine struct {
	store   InteractionStore
	catalog ProductCatalog
	config  Config
	logger  zerolog.Logger
}

// NewEngine creates a recommendation engine.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(store InteractionStore, catalog ProductCatalog, cfg Config, logger zerolog.Logger) (*Engine, error) {
	if store == nil {
		return nil, fmt.Errorf("interaction store must not be nil")
	}
	if catalog == nil {
		return nil, fmt.Errorf("product catalog must not be nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Engine{
		store:   store,
		catalog: catalog,
		config:  cfg,
		logger:  logger.With().Str("component", "recommend").Logger(),
	}, nil
}

// Recommend returns up to limit products for the given user, best first.
// A limit <= 0 selects the configured default. A malformed user id yields
// an empty result and a nil error; store failures propagate.
func (e *Engine) Recommend(ctx context.Context, userID string, limit int) ([]models.Product, error) {
	start := time.Now()
	limit = e.clampLimit(limit)

	logger := e.logger.With().
		Str("request_id", uuid.NewString()).
		Str("user_id", userID).
		Int("limit", limit).
		Logger()

	if !models.IsValidID(userID) {
		logger.Debug().Msg("malformed user id, returning empty result")
		metrics.ObserveRecommend(metrics.OutcomeInvalidUser, 0, start)
		return []models.Product{}, nil
	}

	neighbors, focus, err := e.discoverNeighbors(ctx, userID)
	if err != nil {
		metrics.ObserveRecommend(metrics.OutcomeError, 0, start)
		return nil, err
	}
	if len(neighbors) == 0 {
		logger.Debug().Int("focus_products", len(focus)).Msg("no personalized signal, using trending fallback")
		return e.trending(ctx, limit, logger, start)
	}

	products, err := e.scoreCandidates(ctx, neighbors, focus, limit)
	if err != nil {
		metrics.ObserveRecommend(metrics.OutcomeError, 0, start)
		return nil, err
	}
	if len(products) == 0 {
		logger.Debug().Int("neighbors", len(neighbors)).Msg("no candidates outside focus set, using trending fallback")
		return e.trending(ctx, limit, logger, start)
	}

	logger.Debug().
		Int("neighbors", len(neighbors)).
		Int("returned", len(products)).
		Dur("elapsed", time.Since(start)).
		Msg("personalized recommendation complete")
	metrics.ObserveRecommend(metrics.OutcomePersonalized, len(products), start)

	return products, nil
}

// clampLimit applies the default and maximum result counts.
func (e *Engine) clampLimit(limit int) int {
	if limit <= 0 {
		return e.config.DefaultLimit
	}
	if limit > e.config.MaxLimit {
		return e.config.MaxLimit
	}
	return limit
}

// discoverNeighbors finds the users most similar to userID.
//
// The focus set is every distinct product userID liked or purchased. Each
// other user scores the summed weight of their like/purchase interactions
// on focus products. The top TopNeighbors by score are returned together
// with the focus set (needed for candidate exclusion). An empty neighbor
// list signals the caller to fall back to trending.
func (e *Engine) discoverNeighbors(ctx context.Context, userID string) ([]neighbor, map[string]struct{}, error) {
	strong := models.StrongInteractions()

	own, err := e.store.QueryByUser(ctx, userID, strong)
	if err != nil {
		return nil, nil, fmt.Errorf("query focus interactions: %w", err)
	}

	focus := make(map[string]struct{}, len(own))
	for _, in := range own {
		focus[in.ProductID] = struct{}{}
	}
	if len(focus) == 0 {
		return nil, focus, nil
	}

	focusIDs := make([]string, 0, len(focus))
	for id := range focus {
		focusIDs = append(focusIDs, id)
	}
	sort.Strings(focusIDs) // stable store queries regardless of map order

	overlapping, err := e.store.QueryByProductsExcludingUser(ctx, focusIDs, userID, strong)
	if err != nil {
		return nil, nil, fmt.Errorf("query neighbor interactions: %w", err)
	}

	scores := make(map[string]int, len(overlapping))
	for _, in := range overlapping {
		scores[in.UserID] += in.Type.Weight()
	}

	ranked := rankScores(scores)
	if len(ranked) > e.config.TopNeighbors {
		ranked = ranked[:e.config.TopNeighbors]
	}

	neighbors := make([]neighbor, len(ranked))
	for i, r := range ranked {
		neighbors[i] = neighbor{UserID: r.ID, Score: r.Score}
	}
	return neighbors, focus, nil
}

// scoreCandidates ranks products engaged by the top neighbors, excluding
// the focus set, and materializes the top limit into catalog records.
//
// Views count here even though they do not count toward similarity: weak
// signals influence what to recommend, not who is similar. Each interaction
// contributes weight(type) * neighborScore, double-weighting by interaction
// strength and neighbor similarity.
func (e *Engine) scoreCandidates(ctx context.Context, neighbors []neighbor, focus map[string]struct{}, limit int) ([]models.Product, error) {
	neighborScore := make(map[string]int, len(neighbors))
	neighborIDs := make([]string, len(neighbors))
	for i, n := range neighbors {
		neighborScore[n.UserID] = n.Score
		neighborIDs[i] = n.UserID
	}

	interactions, err := e.store.QueryByUsers(ctx, neighborIDs, models.AllInteractions())
	if err != nil {
		return nil, fmt.Errorf("query candidate interactions: %w", err)
	}

	scores := make(map[string]int)
	for _, in := range interactions {
		if _, engaged := focus[in.ProductID]; engaged {
			continue
		}
		scores[in.ProductID] += in.Type.Weight() * neighborScore[in.UserID]
	}

	ranked := rankScores(scores)
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	ids := make([]string, len(ranked))
	for i, r := range ranked {
		ids[i] = r.ID
	}
	return e.materialize(ctx, ids)
}

// materialize resolves ranked product ids into catalog records, preserving
// the computed order. Catalog lookups do not guarantee order, so records
// are re-sorted to match; ids without a matching record (e.g. since
// deleted) are silently dropped.
func (e *Engine) materialize(ctx context.Context, ids []string) ([]models.Product, error) {
	if len(ids) == 0 {
		return []models.Product{}, nil
	}

	found, err := e.catalog.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("materialize products: %w", err)
	}

	byID := make(map[string]models.Product, len(found))
	for _, p := range found {
		byID[p.ID] = p
	}

	out := make([]models.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

// rankScores orders a score map descending by score with ascending id as
// the tie-break, making every ranking independent of map iteration order.
func rankScores(scores map[string]int) []scoredID {
	ranked := make([]scoredID, 0, len(scores))
	for id, score := range scores {
		ranked = append(ranked, scoredID{ID: id, Score: score})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].ID < ranked[j].ID
	})
	return ranked
}
