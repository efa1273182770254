// respmask server: HTTP and gRPC endpoints whose responses are masked
// according to the configured masking policy.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/codeready-toolchain/respmask/pkg/api"
	"github.com/codeready-toolchain/respmask/pkg/config"
	"github.com/codeready-toolchain/respmask/pkg/database"
	"github.com/codeready-toolchain/respmask/pkg/events"
	"github.com/codeready-toolchain/respmask/pkg/masking"
	"github.com/codeready-toolchain/respmask/pkg/refresh"
	"github.com/codeready-toolchain/respmask/pkg/rpc"
	"github.com/codeready-toolchain/respmask/pkg/version"
)

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	// Parse command-line flags
	configDir := flag.String("config-dir",
		getEnv("CONFIG_DIR", "./deploy/config"),
		"Path to configuration directory")
	flag.Parse()

	// Load .env file from config directory
	envPath := filepath.Join(*configDir, ".env")
	if err := godotenv.Load(envPath); err != nil {
		slog.Warn("Could not load .env file, continuing with existing environment",
			"path", envPath, "error", err)
	} else {
		slog.Info("Loaded environment", "path", envPath)
	}

	httpPort := getEnv("HTTP_PORT", "8080")
	grpcPort := getEnv("GRPC_PORT", "9090")

	slog.Info("Starting respmask",
		"version", version.Full(),
		"http_port", httpPort,
		"grpc_port", grpcPort,
		"config_dir", *configDir)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// 1. Initialize configuration
	cfg, err := config.Initialize(ctx, *configDir)
	if err != nil {
		slog.Error("Failed to initialize configuration", "error", err)
		os.Exit(1)
	}

	// 2. Masking engine and HTTP server
	engine := masking.NewService()
	httpServer := api.NewServer(cfg, engine)

	// 3. Optional database policy store
	if cfg.Policy.Source == config.PolicySourceDatabase || database.Configured() {
		dbConfig, dbClient, err := connectDatabase(ctx)
		if err != nil {
			slog.Error("Failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer func() {
			if err := dbClient.Close(); err != nil {
				slog.Error("Error closing database client", "error", err)
			}
		}()
		httpServer.SetDatabase(dbClient)

		if err := httpServer.ReloadPolicy(ctx); err != nil {
			slog.Error("Failed to load policy from database", "error", err)
			os.Exit(1)
		}

		// Policy edits made through any replica reload every replica.
		replicaID := resolveReplicaID()
		httpServer.SetPolicyNotifier(events.NewPublisher(dbClient.DB(), events.PolicyChannel, replicaID))
		listener := events.NewNotifyListener(dbConfig.DSN(), events.PolicyChannel,
			func(ctx context.Context, change events.PolicyChangedPayload) {
				if change.Origin == replicaID {
					return
				}
				slog.Info("Policy changed on another replica, reloading",
					"key", change.Key, "action", change.Action, "origin", change.Origin)
				if err := httpServer.ReloadPolicy(ctx); err != nil {
					slog.Error("Policy reload after notification failed", "error", err)
				}
			})
		if err := listener.Start(ctx); err != nil {
			slog.Error("Failed to start NotifyListener", "error", err)
			os.Exit(1)
		}
		defer listener.Stop(context.Background())

		if cfg.Policy.RefreshInterval > 0 {
			refresher := refresh.NewService(cfg.Policy.RefreshInterval, httpServer.ReloadPolicy)
			refresher.Start(ctx)
			defer refresher.Stop()
		}
	}

	// 4. Hot reload of respmask.yaml
	if cfg.Policy.Watch {
		watcher, err := config.NewPolicyWatcher(cfg.PolicyFile(), cfg.Policy.ReloadDebounce, httpServer.ReloadPolicy)
		if err != nil {
			slog.Error("Failed to start policy watcher", "error", err)
			os.Exit(1)
		}
		go func() {
			if err := watcher.Run(ctx); err != nil {
				slog.Error("Policy watcher stopped", "error", err)
			}
		}()
		slog.Info("Watching policy file", "file", cfg.PolicyFile(), "debounce", cfg.Policy.ReloadDebounce)
	}

	// 5. gRPC server
	grpcServer := rpc.NewServer(engine, cfg.PolicyRegistry)

	// 6. Start servers (non-blocking)
	errCh := make(chan error, 2)
	go func() {
		addr := ":" + httpPort
		slog.Info("HTTP server listening", "addr", addr)
		if err := httpServer.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server error", "error", err)
			errCh <- err
		}
	}()
	go func() {
		addr := ":" + grpcPort
		slog.Info("gRPC server listening", "addr", addr)
		if err := grpcServer.Serve(addr); err != nil {
			slog.Error("gRPC server error", "error", err)
			errCh <- err
		}
	}()

	slog.Info("respmask started successfully",
		"policy_source", cfg.Policy.Source,
		"properties", cfg.Stats().Properties)

	// 7. Wait for shutdown signal or server error
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)

	select {
	case sig := <-sigCh:
		slog.Info("Shutdown signal received", "signal", sig)
	case err := <-errCh:
		slog.Error("Server error triggered shutdown", "error", err)
	}

	// 8. Graceful shutdown
	stop()

	grpcDone := make(chan struct{})
	go func() {
		grpcServer.GracefulStop()
		close(grpcDone)
	}()

	httpShutdownCtx, httpCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer httpCancel()
	if err := httpServer.Shutdown(httpShutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	select {
	case <-grpcDone:
		slog.Info("gRPC server stopped gracefully")
	case <-httpShutdownCtx.Done():
		slog.Warn("gRPC shutdown timeout exceeded")
	}

	slog.Info("Shutdown complete")
}

func connectDatabase(ctx context.Context) (database.Config, *database.Client, error) {
	dbConfig, err := database.LoadConfigFromEnv()
	if err != nil {
		return database.Config{}, nil, err
	}
	client, err := database.NewClient(ctx, dbConfig)
	if err != nil {
		return database.Config{}, nil, err
	}
	slog.Info("Connected to PostgreSQL database", "host", dbConfig.Host, "database", dbConfig.Database)
	return dbConfig, client, nil
}

// resolveReplicaID identifies this process in policy change notifications.
// Priority: POD_ID env > HOSTNAME env > "local"
func resolveReplicaID() string {
	if id := os.Getenv("POD_ID"); id != "" {
		return id
	}
	if hostname := os.Getenv("HOSTNAME"); hostname != "" {
		return hostname
	}
	return "local"
}
