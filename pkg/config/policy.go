package config

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"
)

// MaskSuffix is appended to a handler identity or a type name to form the
// policy property key that configures it.
const MaskSuffix = ".mask"

// PropertyKey returns the policy property key of a handler identity or type name.
func PropertyKey(id string) string {
	return id + MaskSuffix
}

// PolicyRegistry stores masking policy properties in memory with thread-safe access.
//
// Keys follow the "<id>.mask" convention: a handler identity maps to "true"
// or "false", a type name maps to its comma-joined field specifications.
type PolicyRegistry struct {
	properties map[string]string
	mu         sync.RWMutex
}

// NewPolicyRegistry creates a new policy registry
func NewPolicyRegistry(properties map[string]string) *PolicyRegistry {
	copied := make(map[string]string, len(properties))
	maps.Copy(copied, properties)
	return &PolicyRegistry{
		properties: copied,
	}
}

// Get retrieves a policy property by key (thread-safe)
func (r *PolicyRegistry) Get(key string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	value, exists := r.properties[key]
	if !exists {
		return "", fmt.Errorf("%w: %s", ErrPropertyNotFound, key)
	}
	return value, nil
}

// GetAll returns all policy properties (thread-safe, returns copy)
func (r *PolicyRegistry) GetAll() map[string]string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make(map[string]string, len(r.properties))
	maps.Copy(result, r.properties)
	return result
}

// Keys returns the sorted property keys
func (r *PolicyRegistry) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.Sorted(maps.Keys(r.properties))
}

// Has checks if a policy property exists in the registry (thread-safe)
func (r *PolicyRegistry) Has(key string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.properties[key]
	return exists
}

// Len returns the number of policy properties in the registry (thread-safe)
func (r *PolicyRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.properties)
}

// Replace swaps the whole property set (used by hot reload).
func (r *PolicyRegistry) Replace(properties map[string]string) {
	copied := make(map[string]string, len(properties))
	maps.Copy(copied, properties)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.properties = copied
}

// ShouldMask reports whether responses of the handler are masked. Only
// "true" in any case enables masking; every other value means "no".
func (r *PolicyRegistry) ShouldMask(handler string) bool {
	value, err := r.Get(PropertyKey(handler))
	if err != nil {
		return false
	}
	enabled, _ := parseSwitch(value)
	return enabled
}

// parseSwitch reads a handler switch. Only "true" and "false", in any case
// and ignoring surrounding whitespace, are switches.
func parseSwitch(value string) (enabled, ok bool) {
	v := strings.TrimSpace(value)
	switch {
	case strings.EqualFold(v, "true"):
		return true, true
	case strings.EqualFold(v, "false"):
		return false, true
	}
	return false, false
}

// FieldSpec returns the field specifications configured for a type name.
func (r *PolicyRegistry) FieldSpec(typeName string) string {
	value, err := r.Get(PropertyKey(typeName))
	if err != nil {
		return ""
	}
	return value
}

// Stats counts properties by kind. A property holding "true" or "false" is
// counted as a handler switch, anything else as a type.
func (r *PolicyRegistry) Stats() Stats {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s := Stats{Properties: len(r.properties)}
	for _, value := range r.properties {
		enabled, ok := parseSwitch(value)
		if !ok {
			s.Types++
			continue
		}
		s.Handlers++
		if enabled {
			s.EnabledHandlers++
		}
	}
	return s
}
