// Vitrina - Catalog Recommendations for E-Commerce
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrina

/*
Package models defines data structures for the Vitrina application.

This package contains the domain models shared by the recommendation engine,
the store adapters, and the ingest pipeline. It serves as the single source
of truth for data structure definitions.

Key Components:

  - Product: Catalog product record (read-only from the recommender's view)
  - Interaction: One user engagement event (view, like, purchase)
  - InteractionType: Closed enumeration of engagement kinds with scoring weights
  - ProductScore: Aggregate weighted engagement for a single product

The interaction weight table (purchase=3, like=2, view=1) is defined once here
and used by every scoring path. Neighbor discovery, candidate scoring, and
trending all read the same table; there is deliberately no second inline
weighting scheme anywhere in the codebase.
*/
package models
