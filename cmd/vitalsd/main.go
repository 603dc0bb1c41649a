package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/thisdougb/vitals"
	"github.com/thisdougb/vitals/internal/config"
)

func main() {
	ctx := config.SetContextCorrelationId(context.Background(), "vitalsd")

	if err := godotenv.Load(); err != nil {
		config.LogInfo(ctx, "no .env file loaded, using environment only")
	}

	var opts []vitals.Option
	if addr := config.StringValue("VITALS_REDIS_ADDR"); addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr: addr,
			DB:   config.IntValue("VITALS_REDIS_DB"),
		})
		defer client.Close()

		// rate limiting fails open, so an unreachable redis is not fatal
		if err := client.Ping(ctx).Err(); err != nil {
			config.LogError(ctx, fmt.Sprintf("redis ping %s: %v", addr, err))
		}
		opts = append(opts, vitals.WithRedis(client))
	}

	server, err := vitals.New(opts...)
	if err != nil {
		config.LogError(ctx, fmt.Sprintf("failed to start: %v", err))
		os.Exit(1)
	}
	defer server.Close()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if server.BackupEnabled() {
		go runBackups(ctx, server)
	}

	httpServer := &http.Server{
		Addr:              config.StringValue("VITALS_ADDR"),
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		config.LogInfo(ctx, fmt.Sprintf("listening on %s", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			config.LogError(ctx, fmt.Sprintf("http server: %v", err))
			stop()
		}
	}()

	<-ctx.Done()
	config.LogInfo(ctx, "shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		config.LogError(ctx, fmt.Sprintf("shutdown: %v", err))
	}
}

// runBackups takes a backup every interval until ctx is done
func runBackups(ctx context.Context, server *vitals.Server) {
	interval := server.BackupInterval()
	if interval <= 0 {
		interval = 24 * time.Hour
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := server.Backup(); err != nil {
				config.LogError(ctx, fmt.Sprintf("scheduled backup failed: %v", err))
				continue
			}
			config.LogInfo(ctx, "scheduled backup complete")
		}
	}
}
