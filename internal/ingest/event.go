// Vitrina - Catalog Recommendations for E-Commerce
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrina

package ingest

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/tomtom215/vitrina/internal/models"
)

var validate = validator.New()

// InteractionEvent is the wire format for a single user/product interaction.
// IDs use the 24-character hex form shared with the catalog service.
type InteractionEvent struct {
	EventID    string    `json:"event_id"`
	UserID     string    `json:"user_id" validate:"required,len=24,hexadecimal"`
	ProductID  string    `json:"product_id" validate:"required,len=24,hexadecimal"`
	Type       string    `json:"type" validate:"required,oneof=view like purchase"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewInteractionEvent creates an event with a unique ID and timestamp.
// Producers embedded in other services use this; the consumer only decodes.
func NewInteractionEvent(userID, productID string, typ models.InteractionType) *InteractionEvent {
	return &InteractionEvent{
		EventID:    uuid.New().String(),
		UserID:     userID,
		ProductID:  productID,
		Type:       typ.String(),
		OccurredAt: time.Now().UTC(),
	}
}

// Validate checks field constraints. It does not guarantee the user or
// product exists, only that the event is well-formed.
func (e *InteractionEvent) Validate() error {
	if err := validate.Struct(e); err != nil {
		return fmt.Errorf("validate event: %w", err)
	}
	return nil
}

// Interaction converts a validated event to the storage model.
func (e *InteractionEvent) Interaction() (models.Interaction, error) {
	typ, err := models.ParseInteractionType(e.Type)
	if err != nil {
		return models.Interaction{}, err
	}
	createdAt := e.OccurredAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	return models.Interaction{
		UserID:    e.UserID,
		ProductID: e.ProductID,
		Type:      typ,
		CreatedAt: createdAt,
	}, nil
}

// Marshal encodes the event to JSON, validating first.
func (e *InteractionEvent) Marshal() ([]byte, error) {
	if err := e.Validate(); err != nil {
		return nil, err
	}
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}
	return data, nil
}

// UnmarshalEvent decodes JSON bytes into an event without validating it;
// the consumer validates separately so it can distinguish malformed JSON
// from well-formed events with bad fields.
func UnmarshalEvent(data []byte) (*InteractionEvent, error) {
	var event InteractionEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return nil, fmt.Errorf("unmarshal event: %w", err)
	}
	return &event, nil
}
