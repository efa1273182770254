package config

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPolicyWatcherReloadsOnWrite(t *testing.T) {
	dir := setupTestConfigDir(t)
	file := filepath.Join(dir, PolicyFileName)

	var reloads atomic.Int32
	w, err := NewPolicyWatcher(file, 100*time.Millisecond, func(context.Context) error {
		reloads.Add(1)
		return nil
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// unrelated files in the same directory are ignored
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("x: 1"), 0o644))

	// a burst of writes collapses into one reload
	for i := 0; i < 3; i++ {
		writePolicyFile(t, dir, testPolicyYAML)
	}

	require.Eventually(t, func() bool { return reloads.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)
	time.Sleep(300 * time.Millisecond)
	assert.Equal(t, int32(1), reloads.Load())

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop after context cancellation")
	}
}

func TestPolicyWatcherWithConfigReload(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dir := setupTestConfigDir(t)
	cfg, err := Initialize(ctx, dir)
	require.NoError(t, err)
	require.False(t, cfg.PolicyRegistry.ShouldMask("GET /health"))

	w, err := NewPolicyWatcher(cfg.PolicyFile(), 20*time.Millisecond, func(ctx context.Context) error {
		return cfg.Reload(ctx)
	})
	require.NoError(t, err)
	go func() { _ = w.Run(ctx) }()

	writePolicyFile(t, dir, "handlers:\n  \"GET /health\": true\n")

	require.Eventually(t, func() bool {
		return cfg.PolicyRegistry.ShouldMask("GET /health")
	}, 2*time.Second, 10*time.Millisecond)
}

func TestNewPolicyWatcherMissingDirectory(t *testing.T) {
	_, err := NewPolicyWatcher("/nonexistent/dir/respmask.yaml", time.Millisecond, func(context.Context) error { return nil })
	require.Error(t, err)
}
