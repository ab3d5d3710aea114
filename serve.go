package main

import (
	"context"
	"fmt"
	"time"

	"github.com/mcncl/jsonmodel/internal/fetcher"
	"github.com/mcncl/jsonmodel/internal/server"
)

// ServeCmd runs the HTTP API until interrupted.
type ServeCmd struct {
	Addr string `help:"Address to listen on. Defaults to the config value or :8080." short:"a"`
}

// shutdownTimeout bounds how long in-flight requests may take after a signal.
const shutdownTimeout = 5 * time.Second

// Run starts the server and shuts it down when ctx is done.
func (s *ServeCmd) Run(ctx context.Context, rc *RunContext) error {
	cfg := rc.Config
	if err := cfg.Validate(); err != nil {
		return err
	}
	addr := cfg.Server.Addr
	if rc.Flags["addr"] {
		addr = s.Addr
	}

	srv := server.New(server.Options{
		Addr:      addr,
		RootName:  cfg.RootName,
		Defaults:  cfg.GenerationOptions(),
		Headers:   cfg.Fetch.Headers,
		AuthToken: cfg.Fetch.AuthToken,
		Engine:    rc.Engine,
		Fetcher: fetcher.New(fetcher.Options{
			Timeout:   cfg.Fetch.Timeout,
			CacheSize: cfg.Fetch.CacheSize,
			CacheTTL:  cfg.Fetch.CacheTTL,
			Logger:    rc.Log,
		}),
		Logger: rc.Log,
	})

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	rc.Log.Info().Msg("server exiting")
	return nil
}
