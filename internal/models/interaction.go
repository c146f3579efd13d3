// Vitrina - Catalog Recommendations for E-Commerce
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrina

package models

import (
	"errors"
	"fmt"
	"time"
)

// ErrUnknownInteractionType is returned when parsing an interaction type
// string that is not part of the closed enumeration. Unknown types are
// rejected at ingestion rather than silently weighted; the scoring paths
// therefore never observe one.
var ErrUnknownInteractionType = errors.New("models: unknown interaction type")

// InteractionType classifies user-product engagement events.
//
// The enumeration is closed: view, like, and purchase are the only valid
// values. The zero value is InteractionView so that an uninitialized type
// carries the weakest signal rather than an invalid one.
type InteractionType int

const (
	// InteractionView indicates the user opened a product page.
	InteractionView InteractionType = iota
	// InteractionLike indicates the user liked/saved a product.
	InteractionLike
	// InteractionPurchase indicates the user bought a product.
	InteractionPurchase
)

// interactionTypeNames maps enum values to their wire/storage names.
var interactionTypeNames = [...]string{
	InteractionView:     "view",
	InteractionLike:     "like",
	InteractionPurchase: "purchase",
}

// String returns the wire name for the interaction type.
func (t InteractionType) String() string {
	if t < InteractionView || t > InteractionPurchase {
		return "unknown"
	}
	return interactionTypeNames[t]
}

// Valid reports whether t is a member of the closed enumeration.
func (t InteractionType) Valid() bool {
	return t >= InteractionView && t <= InteractionPurchase
}

// Weight returns the scoring weight for this interaction type.
//
// The table is strictly ordered (purchase > like > view) and is the single
// weighting scheme used across neighbor discovery, candidate scoring, and
// trending aggregation.
func (t InteractionType) Weight() int {
	switch t {
	case InteractionPurchase:
		return 3
	case InteractionLike:
		return 2
	case InteractionView:
		return 1
	default:
		// Unreachable for values produced by ParseInteractionType; kept
		// exhaustive so a future enum member cannot fall through silently.
		return 1
	}
}

// ParseInteractionType parses a wire name into an InteractionType.
// Unknown names return ErrUnknownInteractionType.
func ParseInteractionType(s string) (InteractionType, error) {
	switch s {
	case "view":
		return InteractionView, nil
	case "like":
		return InteractionLike, nil
	case "purchase":
		return InteractionPurchase, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownInteractionType, s)
	}
}

// MarshalText implements encoding.TextMarshaler so the type serializes as
// its wire name in JSON payloads.
func (t InteractionType) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownInteractionType, int(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *InteractionType) UnmarshalText(b []byte) error {
	parsed, err := ParseInteractionType(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// StrongInteractions are the types that define a user's focus set and
// contribute to neighbor similarity. Views are excluded here on purpose:
// weak signals count toward what to recommend, not who is similar.
func StrongInteractions() []InteractionType {
	return []InteractionType{InteractionLike, InteractionPurchase}
}

// AllInteractions returns every member of the enumeration.
func AllInteractions() []InteractionType {
	return []InteractionType{InteractionView, InteractionLike, InteractionPurchase}
}

// Interaction represents one user-product engagement event.
//
// Events are append-only; duplicates of the same (user, product, type) are
// legal and legitimately increase accumulated weight under weighted-sum
// semantics.
type Interaction struct {
	// UserID is the 24-character hex identifier of the acting user.
	UserID string `bson:"user" json:"userId"`

	// ProductID is the identifier of the engaged product.
	ProductID string `bson:"product" json:"productId"`

	// Type classifies the engagement.
	Type InteractionType `bson:"-" json:"type"`

	// CreatedAt is when the interaction occurred.
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// ProductScore is an aggregate weighted engagement score for a product,
// produced by store-side trending aggregation.
type ProductScore struct {
	ProductID string `bson:"_id" json:"productId"`
	Score     int    `bson:"score" json:"score"`
}
