// Vitrina - Catalog Recommendations for E-Commerce
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrina

package mongostore

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/tomtom215/vitrina/internal/logging"
	"github.com/tomtom215/vitrina/internal/models"
)

// interactionDoc is the persisted shape of an interaction. The type is
// stored as its text form so documents stay readable in the shell and
// stable if the enum ordering ever changes.
type interactionDoc struct {
	UserID    string    `bson:"user"`
	ProductID string    `bson:"product"`
	Type      string    `bson:"type"`
	CreatedAt time.Time `bson:"createdAt"`
}

func toDoc(in models.Interaction) interactionDoc {
	return interactionDoc{
		UserID:    in.UserID,
		ProductID: in.ProductID,
		Type:      in.Type.String(),
		CreatedAt: in.CreatedAt,
	}
}

// fromDocs converts persisted documents back to model interactions.
// Documents carrying a type this build does not know are skipped with a
// warning rather than failing the whole query; they can appear after a
// rollback to an older binary.
func fromDocs(docs []interactionDoc) []models.Interaction {
	out := make([]models.Interaction, 0, len(docs))
	for _, d := range docs {
		typ, err := models.ParseInteractionType(d.Type)
		if err != nil {
			logging.Warn().
				Str("type", d.Type).
				Str("user", d.UserID).
				Str("product", d.ProductID).
				Msg("skipping interaction with unrecognized type")
			continue
		}
		out = append(out, models.Interaction{
			UserID:    d.UserID,
			ProductID: d.ProductID,
			Type:      typ,
			CreatedAt: d.CreatedAt,
		})
	}
	return out
}

func typeNames(types []models.InteractionType) []string {
	names := make([]string, 0, len(types))
	for _, t := range types {
		names = append(names, t.String())
	}
	return names
}

// Append persists a single interaction. Interactions carrying an invalid
// type are rejected before they reach the database.
func (s *Store) Append(ctx context.Context, in models.Interaction) error {
	if !in.Type.Valid() {
		return fmt.Errorf("mongostore: append: %w", models.ErrUnknownInteractionType)
	}
	if in.CreatedAt.IsZero() {
		in.CreatedAt = time.Now().UTC()
	}

	_, err := execute(s, "append", func() (struct{}, error) {
		_, err := s.interactions.InsertOne(ctx, toDoc(in))
		return struct{}{}, err
	})
	if err != nil {
		return fmt.Errorf("mongostore: append interaction: %w", err)
	}
	return nil
}

// CountInteractions returns the total number of stored interactions. Used
// by the seed tooling to avoid doubling fixtures on repeat runs.
func (s *Store) CountInteractions(ctx context.Context) (int64, error) {
	n, err := execute(s, "count_interactions", func() (int64, error) {
		return s.interactions.CountDocuments(ctx, bson.D{})
	})
	if err != nil {
		return 0, fmt.Errorf("mongostore: count interactions: %w", err)
	}
	return n, nil
}

// QueryByUser returns the user's interactions restricted to the given types.
func (s *Store) QueryByUser(ctx context.Context, userID string, types []models.InteractionType) ([]models.Interaction, error) {
	filter := bson.D{
		{Key: "user", Value: userID},
		{Key: "type", Value: bson.D{{Key: "$in", Value: typeNames(types)}}},
	}
	docs, err := s.findInteractions(ctx, "query_by_user", filter)
	if err != nil {
		return nil, err
	}
	return fromDocs(docs), nil
}

// QueryByProductsExcludingUser returns interactions of the given types that
// touch any of the products, excluding those made by the given user.
func (s *Store) QueryByProductsExcludingUser(ctx context.Context, productIDs []string, excludeUserID string, types []models.InteractionType) ([]models.Interaction, error) {
	filter := bson.D{
		{Key: "product", Value: bson.D{{Key: "$in", Value: productIDs}}},
		{Key: "user", Value: bson.D{{Key: "$ne", Value: excludeUserID}}},
		{Key: "type", Value: bson.D{{Key: "$in", Value: typeNames(types)}}},
	}
	docs, err := s.findInteractions(ctx, "query_by_products", filter)
	if err != nil {
		return nil, err
	}
	return fromDocs(docs), nil
}

// QueryByUsers returns interactions of the given types made by any of the
// given users.
func (s *Store) QueryByUsers(ctx context.Context, userIDs []string, types []models.InteractionType) ([]models.Interaction, error) {
	filter := bson.D{
		{Key: "user", Value: bson.D{{Key: "$in", Value: userIDs}}},
		{Key: "type", Value: bson.D{{Key: "$in", Value: typeNames(types)}}},
	}
	docs, err := s.findInteractions(ctx, "query_by_users", filter)
	if err != nil {
		return nil, err
	}
	return fromDocs(docs), nil
}

// AggregateScoreByProduct sums per-product interaction weights across the
// whole store, restricted to the given types. The result is unordered; the
// caller ranks it.
func (s *Store) AggregateScoreByProduct(ctx context.Context, types []models.InteractionType, weights map[models.InteractionType]int) ([]models.ProductScore, error) {
	pipeline := scorePipeline(types, weights)
	return execute(s, "aggregate_scores", func() ([]models.ProductScore, error) {
		cursor, err := s.interactions.Aggregate(ctx, pipeline)
		if err != nil {
			return nil, fmt.Errorf("mongostore: aggregate scores: %w", err)
		}
		var scores []models.ProductScore
		if err := cursor.All(ctx, &scores); err != nil {
			return nil, fmt.Errorf("mongostore: decode scores: %w", err)
		}
		return scores, nil
	})
}

// scorePipeline builds the weighted-sum aggregation: filter to the wanted
// types, group by product, and $sum a $switch that maps each type name to
// its weight.
func scorePipeline(types []models.InteractionType, weights map[models.InteractionType]int) mongo.Pipeline {
	branches := make(bson.A, 0, len(types))
	for _, t := range types {
		branches = append(branches, bson.D{
			{Key: "case", Value: bson.D{{Key: "$eq", Value: bson.A{"$type", t.String()}}}},
			{Key: "then", Value: weights[t]},
		})
	}

	return mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.D{
			{Key: "type", Value: bson.D{{Key: "$in", Value: typeNames(types)}}},
		}}},
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$product"},
			{Key: "score", Value: bson.D{{Key: "$sum", Value: bson.D{
				{Key: "$switch", Value: bson.D{
					{Key: "branches", Value: branches},
					{Key: "default", Value: 0},
				}},
			}}}},
		}}},
	}
}

func (s *Store) findInteractions(ctx context.Context, op string, filter bson.D) ([]interactionDoc, error) {
	return execute(s, op, func() ([]interactionDoc, error) {
		cursor, err := s.interactions.Find(ctx, filter)
		if err != nil {
			return nil, fmt.Errorf("mongostore: %s: %w", op, err)
		}
		var docs []interactionDoc
		if err := cursor.All(ctx, &docs); err != nil {
			return nil, fmt.Errorf("mongostore: %s decode: %w", op, err)
		}
		return docs, nil
	})
}
