// Vitrina - Catalog Recommendations for E-Commerce
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrina

package mongostore

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/tomtom215/vitrina/internal/models"
)

// FindByIDs returns the catalog products matching the given ids. Missing
// ids are simply absent from the result; order is not specified.
func (s *Store) FindByIDs(ctx context.Context, ids []string) ([]models.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	filter := bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: ids}}}}
	return execute(s, "find_products", func() ([]models.Product, error) {
		cursor, err := s.products.Find(ctx, filter)
		if err != nil {
			return nil, fmt.Errorf("mongostore: find products: %w", err)
		}
		var products []models.Product
		if err := cursor.All(ctx, &products); err != nil {
			return nil, fmt.Errorf("mongostore: decode products: %w", err)
		}
		return products, nil
	})
}

// FindMostRecent returns up to limit products ordered newest first, with
// ascending id breaking creation-time ties so the order is reproducible.
func (s *Store) FindMostRecent(ctx context.Context, limit int) ([]models.Product, error) {
	opts := options.Find().
		SetSort(bson.D{
			{Key: "createdAt", Value: -1},
			{Key: "_id", Value: 1},
		}).
		SetLimit(int64(limit))

	return execute(s, "find_recent", func() ([]models.Product, error) {
		cursor, err := s.products.Find(ctx, bson.D{}, opts)
		if err != nil {
			return nil, fmt.Errorf("mongostore: find recent products: %w", err)
		}
		var products []models.Product
		if err := cursor.All(ctx, &products); err != nil {
			return nil, fmt.Errorf("mongostore: decode recent products: %w", err)
		}
		return products, nil
	})
}

// UpsertProduct inserts or replaces a catalog product. Used by the seed
// tooling; the serving path never writes products.
func (s *Store) UpsertProduct(ctx context.Context, p models.Product) error {
	if p.ID == "" {
		return fmt.Errorf("mongostore: upsert product: id must not be empty")
	}
	filter := bson.D{{Key: "_id", Value: p.ID}}
	opts := options.Replace().SetUpsert(true)

	_, err := execute(s, "upsert_product", func() (struct{}, error) {
		_, err := s.products.ReplaceOne(ctx, filter, p, opts)
		return struct{}{}, err
	})
	if err != nil {
		return fmt.Errorf("mongostore: upsert product %s: %w", p.ID, err)
	}
	return nil
}
