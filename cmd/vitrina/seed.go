// Vitrina - Catalog Recommendations for E-Commerce
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrina

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/vitrina/internal/logging"
	"github.com/tomtom215/vitrina/internal/models"
	"github.com/tomtom215/vitrina/internal/store/mongostore"
)

// Deterministic fixture ids so repeat runs upsert instead of duplicating.
// Products occupy the 0x100 range, users the 0x200 range.
func seedProductID(n int) string { return fmt.Sprintf("%024x", 0x100+n) }
func seedUserID(n int) string    { return fmt.Sprintf("%024x", 0x200+n) }

type seedUser struct {
	name      string
	liked     []int
	purchased []int
}

var seedProducts = []models.Product{
	{Name: "Aurora Noise-Cancelling Headphones", Category: "Electronics", Price: 199.99, Tags: []string{"audio", "wireless", "premium"}},
	{Name: "Summit Trail Running Shoes", Category: "Outdoors", Price: 149.00, Tags: []string{"footwear", "athletic", "water-resistant"}},
	{Name: "Harbor Pour-Over Coffee Maker", Category: "Home", Price: 59.50, Tags: []string{"kitchen", "coffee", "eco-friendly"}},
	{Name: "Cascade Smart Water Bottle", Category: "Wellness", Price: 89.99, Tags: []string{"hydration", "smart", "health"}},
	{Name: "Lumen Desk Lamp", Category: "Office", Price: 129.99, Tags: []string{"lighting", "smart", "workspace"}},
}

var seedUsers = []seedUser{
	{name: "ava", liked: []int{0, 3, 4}, purchased: []int{0, 2}},
	{name: "marco", liked: []int{1, 2}, purchased: []int{1}},
	{name: "tanya", liked: []int{3, 4}, purchased: []int{4}},
}

// runSeed loads the demo catalog and interaction fixtures. Products are
// upserted unconditionally; interactions are only inserted into an empty
// log so repeat runs don't inflate scores.
func runSeed(ctx context.Context, store *mongostore.Store) error {
	base := time.Now().UTC().Add(-24 * time.Hour)

	for i, p := range seedProducts {
		p.ID = seedProductID(i)
		// Staggered creation times keep the recency fallback ordering stable.
		p.CreatedAt = base.Add(time.Duration(i) * time.Hour)
		if err := store.UpsertProduct(ctx, p); err != nil {
			return fmt.Errorf("seed product %q: %w", p.Name, err)
		}
	}
	logging.Info().Int("products", len(seedProducts)).Msg("Catalog fixtures loaded")

	count, err := store.CountInteractions(ctx)
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	if count > 0 {
		logging.Info().Int64("existing", count).Msg("Interaction log not empty, skipping interaction fixtures")
	} else {
		inserted := 0
		for i, u := range seedUsers {
			userID := seedUserID(i)
			for _, p := range u.liked {
				if err := appendSeed(ctx, store, userID, seedProductID(p), models.InteractionLike, base); err != nil {
					return err
				}
				inserted++
			}
			for _, p := range u.purchased {
				if err := appendSeed(ctx, store, userID, seedProductID(p), models.InteractionPurchase, base); err != nil {
					return err
				}
				inserted++
			}
		}
		logging.Info().Int("interactions", inserted).Msg("Interaction fixtures loaded")
	}

	for i, u := range seedUsers {
		fmt.Printf("%s\t%s\n", u.name, seedUserID(i))
	}
	return nil
}

func appendSeed(ctx context.Context, store *mongostore.Store, userID, productID string, typ models.InteractionType, at time.Time) error {
	err := store.Append(ctx, models.Interaction{
		UserID:    userID,
		ProductID: productID,
		Type:      typ,
		CreatedAt: at,
	})
	if err != nil {
		return fmt.Errorf("seed interaction: %w", err)
	}
	return nil
}
