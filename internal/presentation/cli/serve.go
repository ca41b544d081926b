package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/attarhouse/attarhouse-api/internal/domain/repository"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

const (
	shutdownTimeout = 10 * time.Second
	purgeInterval   = time.Hour
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the order API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.config()
			if err != nil {
				return err
			}
			if port != "" {
				cfg.App.Port = port
			}
			if cfg.App.Port == "" {
				cfg.App.Port = "8080"
			}

			if cfg.App.Env == "production" {
				gin.SetMode(gin.ReleaseMode)
			}

			b, err := openBackend(cfg)
			if err != nil {
				return err
			}
			defer func() {
				if err := b.close(); err != nil {
					log.Printf("Warning: failed to close database: %v", err)
				}
			}()

			deps := b.routeDeps(cfg)
			defer deps.RateLimiter.Stop()

			srv := &http.Server{
				Addr:              ":" + cfg.App.Port,
				Handler:           b.router(cfg, deps),
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			go purgeIdempotencyKeys(ctx, b.idempotency)

			errCh := make(chan error, 1)
			go func() {
				log.Printf("Starting %s server on port %s...", cfg.App.Name, cfg.App.Port)
				log.Printf("Environment: %s, storage: %s", cfg.App.Env, cfg.Database.Driver)
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("server stopped: %w", err)
				}
				return nil
			case <-ctx.Done():
			}

			log.Println("Shutting down server...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("shutdown: %w", err)
			}
			log.Println("Server stopped")
			return nil
		},
	}
	cmd.Flags().StringVar(&port, "port", "", "listen port (overrides APP_PORT)")
	return cmd
}

// purgeIdempotencyKeys drops expired keys until ctx is done
func purgeIdempotencyKeys(ctx context.Context, repo repository.IdempotencyRepository) {
	ticker := time.NewTicker(purgeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			n, err := repo.DeleteExpired(ctx)
			if err != nil {
				log.Printf("Warning: failed to purge idempotency keys: %v", err)
				continue
			}
			if n > 0 {
				log.Printf("Purged %d expired idempotency keys", n)
			}
		case <-ctx.Done():
			return
		}
	}
}
