// Vitrina - Catalog Recommendations for E-Commerce
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrina

// Package ingest consumes interaction events from NATS JetStream and
// records them in the interaction store.
//
// Events arrive as JSON on a single subject and are validated before
// anything touches storage. Malformed or invalid events are acked and
// dropped so a bad producer cannot wedge the queue; only storage failures
// nack, leaving the event for redelivery.
package ingest
