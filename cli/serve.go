package cli

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/VictoriaMetrics/metrics"
	"github.com/spf13/cobra"

	"github.com/satheeshds/phonebook/config"
	"github.com/satheeshds/phonebook/handlers"
	"github.com/satheeshds/phonebook/logger"
)

func newServeCommand(static fs.FS) *cobra.Command {
	var envFile string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the phonebook API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			v, err := config.New(envFile)
			if err != nil {
				return err
			}
			if err := v.BindPFlag("port", cmd.Flags().Lookup("port")); err != nil {
				return err
			}
			if err := v.BindPFlag("database_url", cmd.Flags().Lookup("database-url")); err != nil {
				return err
			}
			cfg, err := config.Load(v)
			if err != nil {
				return err
			}

			// Configure structured logging
			log, err := logger.New(os.Stdout, cfg.Log)
			if err != nil {
				return err
			}
			slog.SetDefault(log)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			store, closeStore, err := openStore(ctx, cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer closeStore()

			srv := &http.Server{
				Addr: cfg.Addr(),
				Handler: handlers.NewRouter(handlers.Options{
					Store:          store,
					Static:         static,
					Logger:         log,
					Metrics:        metrics.NewSet(),
					AllowedOrigins: cfg.AllowedOrigins,
				}),
				ReadHeaderTimeout: 15 * time.Second,
				ErrorLog:          slog.NewLogLogger(log.Handler(), slog.LevelError),
			}
			return run(ctx, srv, cfg.ShutdownTimeout)
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", ".env", "dotenv file to read settings from")
	cmd.Flags().IntP("port", "p", 3001, "port to listen on (PORT)")
	cmd.Flags().String("database-url", "./data/phonebook.db", `SQLite path, postgres:// URL or "memory" (DATABASE_URL)`)
	return cmd
}

// run serves until ctx is done, then shuts srv down within timeout.
func run(ctx context.Context, srv *http.Server, timeout time.Duration) error {
	errc := make(chan error, 1)
	go func() {
		slog.Info("server starting", "address", srv.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	slog.Info("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Warn("could not shutdown the server", "error", err)
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	slog.Info("server closed")
	return nil
}
