package database

import (
	"context"
	"fmt"
	"time"
)

// HealthStatus describes the policy store: reachability, schema state and pool usage.
type HealthStatus struct {
	Status           string `json:"status"`
	ResponseTime     int64  `json:"response_time_ms"`
	SchemaVersion    uint   `json:"schema_version"`
	SchemaDirty      bool   `json:"schema_dirty"`
	StoredProperties int    `json:"stored_properties"`
	OpenConnections  int    `json:"open_connections"`
	InUse            int    `json:"in_use"`
	MaxOpenConns     int    `json:"max_open_conns"`
}

// Health pings the database and checks that the policy table is readable.
// A dirty migration state is reported as unhealthy.
func (c *Client) Health(ctx context.Context) (*HealthStatus, error) {
	start := time.Now()
	unhealthy := func(err error) (*HealthStatus, error) {
		return &HealthStatus{
			Status:       "unhealthy",
			ResponseTime: time.Since(start).Milliseconds(),
		}, err
	}

	if err := c.db.PingContext(ctx); err != nil {
		return unhealthy(err)
	}

	status := &HealthStatus{Status: "healthy"}
	err := c.db.QueryRowContext(ctx,
		`SELECT version, dirty FROM schema_migrations LIMIT 1`).Scan(&status.SchemaVersion, &status.SchemaDirty)
	if err != nil {
		return unhealthy(fmt.Errorf("failed to read schema version: %w", err))
	}
	if status.SchemaDirty {
		return unhealthy(fmt.Errorf("schema migration %d is dirty", status.SchemaVersion))
	}

	err = c.db.QueryRowContext(ctx, `SELECT count(*) FROM mask_properties`).Scan(&status.StoredProperties)
	if err != nil {
		return unhealthy(fmt.Errorf("failed to count stored properties: %w", err))
	}

	stats := c.db.Stats()
	status.ResponseTime = time.Since(start).Milliseconds()
	status.OpenConnections = stats.OpenConnections
	status.InUse = stats.InUse
	status.MaxOpenConns = stats.MaxOpenConnections
	return status, nil
}
