// Vitrina - Catalog Recommendations for E-Commerce
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrina

package ingest

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/rs/zerolog"

	"github.com/tomtom215/vitrina/internal/models"
)

const (
	testTopic     = "interactions.events"
	testUserID    = "aaaaaaaaaaaaaaaaaaaaaaaa"
	testProductID = "bbbbbbbbbbbbbbbbbbbbbbbb"
)

// fakeRecorder collects appended interactions and can fail a configured
// number of times before succeeding.
type fakeRecorder struct {
	mu        sync.Mutex
	failures  int
	recorded  []models.Interaction
	appended  chan models.Interaction
	attempted int
}

func newFakeRecorder(failures int) *fakeRecorder {
	return &fakeRecorder{
		failures: failures,
		appended: make(chan models.Interaction, 16),
	}
}

func (r *fakeRecorder) Append(_ context.Context, in models.Interaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.attempted++
	if r.failures > 0 {
		r.failures--
		return errors.New("store unavailable")
	}
	r.recorded = append(r.recorded, in)
	r.appended <- in
	return nil
}

func (r *fakeRecorder) attempts() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.attempted
}

func startConsumer(t *testing.T, recorder Recorder) (message.Publisher, context.CancelFunc) {
	t.Helper()

	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	consumer, err := NewConsumer(pubSub, recorder, testTopic, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewConsumer() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = consumer.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Error("consumer did not stop after cancel")
		}
		_ = pubSub.Close()
	})

	// Give the consumer time to subscribe before the test publishes.
	time.Sleep(50 * time.Millisecond)
	return pubSub, cancel
}

func publishJSON(t *testing.T, pub message.Publisher, payload []byte) {
	t.Helper()
	msg := message.NewMessage(watermill.NewUUID(), payload)
	if err := pub.Publish(testTopic, msg); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
}

func waitForInteraction(t *testing.T, recorder *fakeRecorder) models.Interaction {
	t.Helper()
	select {
	case in := <-recorder.appended:
		return in
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for interaction to be recorded")
		return models.Interaction{}
	}
}

func TestConsumerRecordsValidEvent(t *testing.T) {
	recorder := newFakeRecorder(0)
	pub, _ := startConsumer(t, recorder)

	event := NewInteractionEvent(testUserID, testProductID, models.InteractionPurchase)
	payload, err := event.Marshal()
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	publishJSON(t, pub, payload)

	got := waitForInteraction(t, recorder)
	if got.UserID != testUserID {
		t.Errorf("recorded user = %q, want %q", got.UserID, testUserID)
	}
	if got.ProductID != testProductID {
		t.Errorf("recorded product = %q, want %q", got.ProductID, testProductID)
	}
	if got.Type != models.InteractionPurchase {
		t.Errorf("recorded type = %v, want %v", got.Type, models.InteractionPurchase)
	}
}

func TestConsumerDropsMalformedAndInvalidEvents(t *testing.T) {
	recorder := newFakeRecorder(0)
	pub, _ := startConsumer(t, recorder)

	// Not JSON at all.
	publishJSON(t, pub, []byte("not json"))
	// Well-formed JSON with an unsupported interaction type.
	publishJSON(t, pub, []byte(`{"user_id":"`+testUserID+`","product_id":"`+testProductID+`","type":"wishlist"}`))
	// User ID that is not a 24-character hex string.
	publishJSON(t, pub, []byte(`{"user_id":"alice","product_id":"`+testProductID+`","type":"view"}`))

	// A valid event after the bad ones proves the consumer kept going.
	event := NewInteractionEvent(testUserID, testProductID, models.InteractionView)
	payload, err := event.Marshal()
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	publishJSON(t, pub, payload)

	got := waitForInteraction(t, recorder)
	if got.Type != models.InteractionView {
		t.Errorf("recorded type = %v, want %v", got.Type, models.InteractionView)
	}
	if attempts := recorder.attempts(); attempts != 1 {
		t.Errorf("recorder attempts = %d, want 1 (invalid events must not reach storage)", attempts)
	}
}

func TestConsumerRetriesOnRecorderFailure(t *testing.T) {
	recorder := newFakeRecorder(1)
	pub, _ := startConsumer(t, recorder)

	event := NewInteractionEvent(testUserID, testProductID, models.InteractionLike)
	payload, err := event.Marshal()
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	publishJSON(t, pub, payload)

	got := waitForInteraction(t, recorder)
	if got.Type != models.InteractionLike {
		t.Errorf("recorded type = %v, want %v", got.Type, models.InteractionLike)
	}
	if attempts := recorder.attempts(); attempts < 2 {
		t.Errorf("recorder attempts = %d, want at least 2 (nacked event must be redelivered)", attempts)
	}
}

func TestNewConsumerValidation(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer pubSub.Close()
	recorder := newFakeRecorder(0)

	tests := []struct {
		name       string
		subscriber message.Subscriber
		recorder   Recorder
		topic      string
	}{
		{"nil subscriber", nil, recorder, testTopic},
		{"nil recorder", pubSub, nil, testTopic},
		{"empty topic", pubSub, recorder, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewConsumer(tt.subscriber, tt.recorder, tt.topic, zerolog.Nop()); err == nil {
				t.Error("NewConsumer() error = nil, want error")
			}
		})
	}
}
