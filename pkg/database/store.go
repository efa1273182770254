package database

import (
	"context"
	"errors"
	"fmt"
)

// ErrPropertyNotFound is returned when deleting a property that is not stored.
var ErrPropertyNotFound = errors.New("policy property not found")

// PolicyStore persists masking policy properties in the mask_properties table.
// It implements config.PropertySource, so stored properties overlay respmask.yaml.
type PolicyStore struct {
	client *Client
}

// NewPolicyStore creates a policy store on top of client
func NewPolicyStore(client *Client) *PolicyStore {
	return &PolicyStore{client: client}
}

// LoadProperties returns every stored property.
func (s *PolicyStore) LoadProperties(ctx context.Context) (map[string]string, error) {
	rows, err := s.client.db.QueryContext(ctx, `SELECT key, value FROM mask_properties`)
	if err != nil {
		return nil, fmt.Errorf("failed to query policy properties: %w", err)
	}
	defer func() { _ = rows.Close() }()

	properties := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan policy property: %w", err)
		}
		properties[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read policy properties: %w", err)
	}
	return properties, nil
}

// PutProperty inserts or updates a property.
func (s *PolicyStore) PutProperty(ctx context.Context, key, value string) error {
	_, err := s.client.db.ExecContext(ctx,
		`INSERT INTO mask_properties (key, value, updated_at) VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`,
		key, value)
	if err != nil {
		return fmt.Errorf("failed to store policy property %q: %w", key, err)
	}
	return nil
}

// DeleteProperty removes a property. Returns ErrPropertyNotFound when the key is not stored.
func (s *PolicyStore) DeleteProperty(ctx context.Context, key string) error {
	res, err := s.client.db.ExecContext(ctx, `DELETE FROM mask_properties WHERE key = $1`, key)
	if err != nil {
		return fmt.Errorf("failed to delete policy property %q: %w", key, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete policy property %q: %w", key, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrPropertyNotFound, key)
	}
	return nil
}
