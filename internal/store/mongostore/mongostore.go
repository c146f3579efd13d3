// Vitrina - Catalog Recommendations for E-Commerce
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrina

// Package mongostore adapts MongoDB collections to the recommendation
// engine's interaction store and product catalog interfaces.
//
// The adapter issues the same queries the upstream catalog service uses:
// plain filtered finds for interaction lookups and an aggregation pipeline
// ($match, $group with a weighted $switch, $sum) for trending scores. Every
// query runs through a circuit breaker so a struggling database sheds load
// fast instead of queueing callers; the engine itself performs no retries,
// availability policy lives entirely in this adapter.
package mongostore

import (
	"context"
	"fmt"

	gobreaker "github.com/sony/gobreaker/v2"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/tomtom215/vitrina/internal/config"
	"github.com/tomtom215/vitrina/internal/logging"
	"github.com/tomtom215/vitrina/internal/metrics"
)

// Collection names owned by Vitrina.
const (
	interactionsCollection = "interactions"
	productsCollection     = "products"
)

// Store provides MongoDB-backed implementations of the engine's
// InteractionStore and ProductCatalog interfaces plus the ingest Recorder.
// Safe for concurrent use.
type Store struct {
	client       *mongo.Client
	interactions *mongo.Collection
	products     *mongo.Collection
	breaker      *gobreaker.CircuitBreaker[any]
}

// Connect establishes a MongoDB client, pings it, and returns a Store.
// The caller owns the Store and must Close it when done.
func Connect(ctx context.Context, cfg config.MongoConfig) (*Store, error) {
	if cfg.URI == "" {
		return nil, fmt.Errorf("mongostore: connection URI must not be empty")
	}

	connectCtx := ctx
	if cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		connectCtx, cancel = context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()
	}

	serverAPI := options.ServerAPI(options.ServerAPIVersion1)
	client, err := mongo.Connect(options.Client().ApplyURI(cfg.URI).SetServerAPIOptions(serverAPI))
	if err != nil {
		return nil, fmt.Errorf("mongostore: connect: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongostore: ping: %w", err)
	}

	return New(client, cfg.Database, cfg.Breaker), nil
}

// New wraps an existing client. Useful when the caller manages the
// connection lifecycle itself.
func New(client *mongo.Client, database string, breakerCfg config.BreakerConfig) *Store {
	db := client.Database(database)
	return &Store{
		client:       client,
		interactions: db.Collection(interactionsCollection),
		products:     db.Collection(productsCollection),
		breaker:      newBreaker(breakerCfg),
	}
}

// Close disconnects the underlying client.
func (s *Store) Close(ctx context.Context) error {
	if err := s.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("mongostore: disconnect: %w", err)
	}
	return nil
}

// newBreaker builds the circuit breaker guarding all store queries.
func newBreaker(cfg config.BreakerConfig) *gobreaker.CircuitBreaker[any] {
	threshold := cfg.FailureThreshold
	if threshold == 0 {
		threshold = 5
	}

	settings := gobreaker.Settings{
		Name:        "mongostore",
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			if to == gobreaker.StateOpen {
				metrics.StoreBreakerOpen.Set(1)
			} else {
				metrics.StoreBreakerOpen.Set(0)
			}
			logging.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("store circuit breaker state change")
		},
	}

	return gobreaker.NewCircuitBreaker[any](settings)
}

// execute runs one store operation through the circuit breaker and records
// failures per operation.
func execute[T any](s *Store, op string, fn func() (T, error)) (T, error) {
	res, err := s.breaker.Execute(func() (any, error) {
		return fn()
	})
	if err != nil {
		metrics.StoreQueryErrors.WithLabelValues(op).Inc()
		var zero T
		return zero, err
	}
	return res.(T), nil
}
