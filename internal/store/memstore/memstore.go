// Vitrina - Catalog Recommendations for E-Commerce
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrina

// Package memstore provides an in-memory interaction store and product
// catalog. It implements the same interfaces as the MongoDB adapter and is
// used by tests and local development; data is lost on process exit.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/tomtom215/vitrina/internal/models"
)

// Store holds interactions and products in memory behind a RWMutex.
// Safe for concurrent use.
type Store struct {
	mu           sync.RWMutex
	interactions []models.Interaction
	products     map[string]models.Product
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		products: make(map[string]models.Product),
	}
}

// AddProduct inserts or replaces a product in the catalog.
func (s *Store) AddProduct(p models.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[p.ID] = p
}

// Append records one interaction. Implements the ingest Recorder contract:
// interactions with an invalid type are rejected so the closed enumeration
// holds for everything the scoring paths read.
func (s *Store) Append(_ context.Context, in models.Interaction) error {
	if !in.Type.Valid() {
		return fmt.Errorf("append interaction: %w", models.ErrUnknownInteractionType)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.interactions = append(s.interactions, in)
	return nil
}

// QueryByUser returns all interactions of userID with any of the types.
func (s *Store) QueryByUser(_ context.Context, userID string, types []models.InteractionType) ([]models.Interaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	wanted := typeSet(types)
	var out []models.Interaction
	for _, in := range s.interactions {
		if in.UserID == userID && wanted[in.Type] {
			out = append(out, in)
		}
	}
	return out, nil
}

// QueryByProductsExcludingUser returns interactions on the given products
// by any user except excludeUserID, filtered by type.
func (s *Store) QueryByProductsExcludingUser(_ context.Context, productIDs []string, excludeUserID string, types []models.InteractionType) ([]models.Interaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	wanted := typeSet(types)
	inProducts := make(map[string]bool, len(productIDs))
	for _, id := range productIDs {
		inProducts[id] = true
	}

	var out []models.Interaction
	for _, in := range s.interactions {
		if in.UserID != excludeUserID && inProducts[in.ProductID] && wanted[in.Type] {
			out = append(out, in)
		}
	}
	return out, nil
}

// QueryByUsers returns all interactions of the given users, filtered by type.
func (s *Store) QueryByUsers(_ context.Context, userIDs []string, types []models.InteractionType) ([]models.Interaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	wanted := typeSet(types)
	inUsers := make(map[string]bool, len(userIDs))
	for _, id := range userIDs {
		inUsers[id] = true
	}

	var out []models.Interaction
	for _, in := range s.interactions {
		if inUsers[in.UserID] && wanted[in.Type] {
			out = append(out, in)
		}
	}
	return out, nil
}

// AggregateScoreByProduct sums weighted engagement per product across the
// whole log for the given types. Result order is unspecified.
func (s *Store) AggregateScoreByProduct(_ context.Context, types []models.InteractionType, weights map[models.InteractionType]int) ([]models.ProductScore, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	wanted := typeSet(types)
	scores := make(map[string]int)
	for _, in := range s.interactions {
		if wanted[in.Type] {
			scores[in.ProductID] += weights[in.Type]
		}
	}

	out := make([]models.ProductScore, 0, len(scores))
	for id, score := range scores {
		out = append(out, models.ProductScore{ProductID: id, Score: score})
	}
	return out, nil
}

// FindByIDs returns the products with the given ids, order unspecified.
func (s *Store) FindByIDs(_ context.Context, ids []string) ([]models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := s.products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

// FindMostRecent returns up to limit products, newest first. Creation-time
// ties are broken by ascending id to keep the ordering deterministic.
func (s *Store) FindMostRecent(_ context.Context, limit int) ([]models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]models.Product, 0, len(s.products))
	for _, p := range s.products {
		all = append(all, p)
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].ID < all[j].ID
	})

	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

// InteractionCount reports how many interactions have been recorded.
func (s *Store) InteractionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.interactions)
}

func typeSet(types []models.InteractionType) map[models.InteractionType]bool {
	set := make(map[models.InteractionType]bool, len(types))
	for _, t := range types {
		set[t] = true
	}
	return set
}
