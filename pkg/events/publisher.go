package events

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// Publisher broadcasts policy changes via pg_notify.
type Publisher struct {
	db      *sql.DB
	channel string
	origin  string
}

// NewPublisher creates a publisher on channel. The db parameter should be the
// *sql.DB from database.Client.DB(); origin identifies this replica.
func NewPublisher(db *sql.DB, channel, origin string) *Publisher {
	return &Publisher{db: db, channel: channel, origin: origin}
}

// PublishPolicyChanged broadcasts a policy change to every listening replica.
func (p *Publisher) PublishPolicyChanged(ctx context.Context, payload PolicyChangedPayload) error {
	if payload.Origin == "" {
		payload.Origin = p.origin
	}
	if payload.Timestamp.IsZero() {
		payload.Timestamp = time.Now().UTC()
	}

	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal PolicyChangedPayload: %w", err)
	}

	if _, err := p.db.ExecContext(ctx, "SELECT pg_notify($1, $2)", p.channel, string(payloadJSON)); err != nil {
		return fmt.Errorf("pg_notify failed: %w", err)
	}
	return nil
}
