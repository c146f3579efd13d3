// Vitrina - Catalog Recommendations for E-Commerce
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrina

// Package recommend implements Vitrina's user-based collaborative filtering
// engine with a trending fallback.
//
// # Algorithm
//
// For a target user the engine:
//
//  1. Builds the focus set: distinct products the user liked or purchased.
//  2. Discovers neighbors: other users with like/purchase interactions on
//     focus products, scored by summed interaction weight, top 20 kept.
//  3. Scores candidates: every interaction (views included) of the top
//     neighbors on products outside the focus set contributes
//     weight(type) * neighborScore to that product.
//  4. Materializes the top-ranked product ids into catalog records,
//     preserving rank order.
//
// Whenever a stage yields nothing (no focus set, no neighbors, no
// candidates) the engine falls back to trending: products ranked by
// aggregate weighted like/purchase engagement across all users, and if the
// interaction log is completely empty, the newest catalog products.
//
// # Determinism
//
// Same inputs at the same data snapshot always produce the same ordered
// output. All score ties are broken by ascending id, so results never
// depend on map iteration order.
//
// # Concurrency
//
// The engine is stateless and re-entrant. Every request computes its own
// scoring maps from fresh store reads; there is no shared mutable state, no
// caching, and no precomputation. Concurrent calls need no coordination.
//
// # Errors
//
// Store and catalog I/O failures propagate wrapped to the caller. Empty
// results are control flow, never errors: a malformed user id or an empty
// catalog yields an empty list and a nil error.
package recommend
