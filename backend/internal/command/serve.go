package command

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ideaboard/ideaboard/backend/internal/router"
	"github.com/ideaboard/ideaboard/backend/internal/setup"
	"github.com/ideaboard/ideaboard/shared/logger"
)

const (
	limiterSweepInterval = 10 * time.Minute
	shutdownTimeout      = 10 * time.Second
)

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		Long:  "Run the HTTP server. The port is taken from --port, then $PORT, then 8080.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			logger.Initialize(cfg.Public.Log.Level, cfg.Public.Log.JSON)

			inMemory, _ := cmd.Flags().GetBool("in-memory")
			deps, err := setup.SetupDependencies(cfg, setup.Options{InMemory: inMemory})
			if err != nil {
				return err
			}
			defer deps.Storage.Cleanup()

			stop := make(chan struct{})
			defer close(stop)
			if deps.AjaxLimiter != nil {
				go deps.AjaxLimiter.Run(limiterSweepInterval, stop)
			}

			port, _ := cmd.Flags().GetString("port")
			srv := &http.Server{
				Addr:              ":" + port,
				Handler:           router.New(deps),
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()
			return serve(ctx, srv)
		},
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	cmd.Flags().String("port", port, "port to listen on")
	cmd.Flags().Bool("in-memory", false, "keep memberships in process memory instead of Postgres")

	return cmd
}

// serve runs srv until ctx is done, then drains in-flight requests.
func serve(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Log.Info("server started", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
