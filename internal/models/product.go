// Vitrina - Catalog Recommendations for E-Commerce
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrina

package models

import "time"

// Product represents a catalog product record.
//
// Products are owned by the catalog service and are immutable from the
// recommender's perspective; the engine only ever reads them to materialize
// a ranked list of ids into full records.
type Product struct {
	// ID is the catalog identifier (MongoDB ObjectID hex).
	ID string `bson:"_id" json:"id"`

	// Name is the display name.
	Name string `bson:"name" json:"name"`

	// Category is the primary catalog category.
	Category string `bson:"category" json:"category"`

	// Tags are free-form merchandising labels.
	Tags []string `bson:"tags,omitempty" json:"tags,omitempty"`

	// Price is the list price in the shop currency.
	Price float64 `bson:"price" json:"price"`

	// Popularity is a pre-computed popularity metric maintained by the
	// catalog; it is not used by the scoring paths but is carried through
	// so callers can display it.
	Popularity float64 `bson:"popularity,omitempty" json:"popularity,omitempty"`

	// CreatedAt is when the product was added to the catalog. The recency
	// fallback orders by this field, newest first.
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// IsValidID reports whether s has the shape of a MongoDB ObjectID:
// exactly 24 lowercase-insensitive hex characters.
//
// The recommendation engine treats a malformed user id as "no such user"
// and soft-fails to an empty result instead of returning an error, matching
// the upstream API contract.
func IsValidID(s string) bool {
	if len(s) != 24 {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}
