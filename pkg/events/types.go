// Package events propagates masking policy changes between server replicas
// through PostgreSQL NOTIFY/LISTEN.
package events

import "time"

// PolicyChannel is the NOTIFY channel carrying policy change events.
const PolicyChannel = "respmask_policy"

// Policy change actions.
const (
	ActionPut    = "put"
	ActionDelete = "delete"
)

// PolicyChangedPayload is published after a policy property was stored or deleted.
type PolicyChangedPayload struct {
	Action    string    `json:"action"`
	Key       string    `json:"key"`
	Author    string    `json:"author,omitempty"`
	Origin    string    `json:"origin,omitempty"` // replica that made the change
	Timestamp time.Time `json:"timestamp"`
}
