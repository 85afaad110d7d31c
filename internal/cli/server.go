package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hyperjump/sentaku/internal/server"
	"github.com/hyperjump/sentaku/internal/watcher"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Run the HTTP recommendation API",
	Args:  cobra.NoArgs,
	RunE:  runServer,
}

func init() {
	rootCmd.AddCommand(serverCmd)
}

func runServer(cmd *cobra.Command, _ []string) error {
	logger := rootLogger
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := NewApp(ctx, cfg, logger, WithKeywordLookup())
	if err != nil {
		return err
	}
	defer app.Close()

	// Only a missing catalog file starts the service with an empty corpus.
	if err := app.Reload(ctx); err != nil {
		return fmt.Errorf("initial catalog load: %w", err)
	}

	if cfg.Catalog.Watch {
		w := watcher.NewWatcher(cfg.Catalog.Path, func(path string) {
			if err := app.Reload(ctx); err != nil {
				logger.Warn("catalog reload failed", zap.String("path", path), zap.Error(err))
			}
		}, watcher.WithLogger(logger), watcher.WithDebounce(cfg.Catalog.Debounce))
		if err := w.Start(ctx); err != nil {
			logger.Warn("catalog watch disabled", zap.Error(err))
		} else {
			defer w.Stop()
		}
	}

	srv := server.NewServer(app.Engine, cfg, logger,
		server.WithKeywordIndex(app.Keyword),
		server.WithSnapshotStore(app.Store),
	)
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Stop(shutdownCtx)
}
