// Vitrina - Catalog Recommendations for E-Commerce
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrina

// Package config loads and validates Vitrina configuration.
//
// Configuration is layered with koanf v2: built-in defaults, then an optional
// YAML config file, then environment variables. Precedence: ENV > file >
// defaults.
package config

import (
	"fmt"
	"time"
)

// Config is the root configuration for the Vitrina binary.
type Config struct {
	Logging   LoggingConfig   `koanf:"logging"`
	Mongo     MongoConfig     `koanf:"mongo"`
	Recommend RecommendConfig `koanf:"recommend"`
	Ingest    IngestConfig    `koanf:"ingest"`
	Metrics   MetricsConfig   `koanf:"metrics"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	Level string `koanf:"level"`
	// Format is json or console.
	Format string `koanf:"format"`
	// Caller includes caller file:line in log output.
	Caller bool `koanf:"caller"`
}

// MongoConfig describes the MongoDB connection shared by the interaction
// store and the product catalog.
type MongoConfig struct {
	// URI is the MongoDB connection string.
	URI string `koanf:"uri"`
	// Database is the database holding the products and interactions
	// collections.
	Database string `koanf:"database"`
	// ConnectTimeout bounds the initial connect + ping.
	ConnectTimeout time.Duration `koanf:"connect_timeout"`

	// Breaker configures the circuit breaker wrapped around store queries.
	Breaker BreakerConfig `koanf:"breaker"`
}

// BreakerConfig contains circuit breaker settings for store access.
type BreakerConfig struct {
	// FailureThreshold is the number of consecutive failures that trips
	// the breaker.
	FailureThreshold uint32 `koanf:"failure_threshold"`
	// MaxRequests is the number of probe requests allowed while half-open.
	MaxRequests uint32 `koanf:"max_requests"`
	// Interval is the cyclic period for clearing counts while closed.
	Interval time.Duration `koanf:"interval"`
	// Timeout is how long the breaker stays open before probing.
	Timeout time.Duration `koanf:"timeout"`
}

// RecommendConfig contains recommendation engine parameters.
type RecommendConfig struct {
	// DefaultLimit is the result count used when the caller passes zero.
	DefaultLimit int `koanf:"default_limit"`
	// MaxLimit caps the result count regardless of what the caller asks for.
	MaxLimit int `koanf:"max_limit"`
	// TopNeighbors is how many similar users feed candidate scoring.
	TopNeighbors int `koanf:"top_neighbors"`
}

// IngestConfig contains the interaction event consumer settings.
type IngestConfig struct {
	// Enabled turns the NATS ingest consumer on.
	Enabled bool `koanf:"enabled"`
	// NATSURL is the NATS server URL.
	NATSURL string `koanf:"nats_url"`
	// Topic is the subject interaction events are published on.
	Topic string `koanf:"topic"`
	// QueueGroup is the NATS queue group for competing consumers.
	QueueGroup string `koanf:"queue_group"`
	// SubscribersCount is the number of concurrent subscription handlers.
	SubscribersCount int `koanf:"subscribers_count"`
}

// MetricsConfig controls the Prometheus metrics listener.
type MetricsConfig struct {
	// Enabled turns the /metrics listener on (ingest mode only).
	Enabled bool `koanf:"enabled"`
	// Addr is the listen address for the metrics endpoint.
	Addr string `koanf:"addr"`
}

// defaultConfig returns a Config with all default values. Defaults are
// applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Mongo: MongoConfig{
			URI:            "mongodb://127.0.0.1:27017",
			Database:       "vitrina",
			ConnectTimeout: 10 * time.Second,
			Breaker: BreakerConfig{
				FailureThreshold: 5,
				MaxRequests:      1,
				Interval:         60 * time.Second,
				Timeout:          30 * time.Second,
			},
		},
		Recommend: RecommendConfig{
			DefaultLimit: 9,
			MaxLimit:     50,
			TopNeighbors: 20,
		},
		Ingest: IngestConfig{
			Enabled:          false,
			NATSURL:          "nats://127.0.0.1:4222",
			Topic:            "interactions.events",
			QueueGroup:       "vitrina",
			SubscribersCount: 4,
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Addr:    ":9464",
		},
	}
}

// Validate checks the configuration for values that cannot work.
func (c *Config) Validate() error {
	if c.Mongo.Database == "" {
		return fmt.Errorf("mongo.database must not be empty")
	}
	if c.Recommend.DefaultLimit <= 0 {
		return fmt.Errorf("recommend.default_limit must be positive, got %d", c.Recommend.DefaultLimit)
	}
	if c.Recommend.MaxLimit < c.Recommend.DefaultLimit {
		return fmt.Errorf("recommend.max_limit (%d) must be >= recommend.default_limit (%d)",
			c.Recommend.MaxLimit, c.Recommend.DefaultLimit)
	}
	if c.Recommend.TopNeighbors <= 0 {
		return fmt.Errorf("recommend.top_neighbors must be positive, got %d", c.Recommend.TopNeighbors)
	}
	if c.Ingest.Enabled {
		if c.Ingest.NATSURL == "" {
			return fmt.Errorf("ingest.nats_url must not be empty when ingest is enabled")
		}
		if c.Ingest.Topic == "" {
			return fmt.Errorf("ingest.topic must not be empty when ingest is enabled")
		}
		if c.Ingest.SubscribersCount <= 0 {
			return fmt.Errorf("ingest.subscribers_count must be positive, got %d", c.Ingest.SubscribersCount)
		}
	}
	if c.Metrics.Enabled && c.Metrics.Addr == "" {
		return fmt.Errorf("metrics.addr must not be empty when metrics are enabled")
	}
	return nil
}
