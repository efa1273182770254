package masking

import (
	"fmt"
	"log/slog"
	"regexp"
	"sync"
)

// CompiledPattern holds a compiled capture pattern from a field specification.
type CompiledPattern struct {
	Source string
	Regex  *regexp.Regexp
}

// patternCache compiles each distinct pattern once. Failed compilations are
// remembered too, so a malformed pattern is reported a single time.
type patternCache struct {
	mu       sync.RWMutex
	compiled map[string]*CompiledPattern // nil value: pattern is unusable
}

func newPatternCache() *patternCache {
	return &patternCache{compiled: make(map[string]*CompiledPattern)}
}

// get returns the compiled pattern, or nil when the source cannot be used.
func (c *patternCache) get(source string) *CompiledPattern {
	c.mu.RLock()
	cp, ok := c.compiled[source]
	c.mu.RUnlock()
	if ok {
		return cp
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if cp, ok := c.compiled[source]; ok {
		return cp
	}

	compiled, err := CompilePattern(source)
	if err != nil {
		slog.Warn("Failed to compile masking pattern, skipping",
			"pattern", source, "error", err)
		c.compiled[source] = nil
		return nil
	}
	cp = &CompiledPattern{Source: source, Regex: compiled}
	c.compiled[source] = cp
	return cp
}

// len returns the number of cached pattern sources, usable or not.
func (c *patternCache) len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.compiled)
}

// CompilePattern compiles a capture pattern and checks that it has the
// capture group the masking relies on.
func CompilePattern(source string) (*regexp.Regexp, error) {
	re, err := regexp.Compile(source)
	if err != nil {
		return nil, err
	}
	if re.NumSubexp() < 1 {
		return nil, fmt.Errorf("pattern %q has no capture group", source)
	}
	return re, nil
}
