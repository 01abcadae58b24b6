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

	"github.com/aretw0/docu/internal/presentation/tui"
	httpAdapter "github.com/aretw0/docu/pkg/adapters/http"
	"github.com/aretw0/docu/pkg/widget"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Serves the collections as a JSON API, the counter widgets as HTML and the
Prometheus metrics. With --watch (default) the collections are rebuilt when a
document changes.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runServe(cmd, args); err != nil {
			fmt.Printf("Server error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "", "Port to listen on (default: config or 8080)")
	serveCmd.Flags().String("redis", "", "Redis URL of the shared counter store")
	serveCmd.Flags().Bool("watch", true, "Rebuild collections when documents change")
}

func runServe(cmd *cobra.Command, args []string) error {
	p, err := loadProject(cmd, args)
	if err != nil {
		return err
	}
	port := p.cfg.Server.Port
	if cmd.Flags().Changed("port") {
		port, _ = cmd.Flags().GetString("port")
	}
	watch, _ := cmd.Flags().GetBool("watch")

	store, closeStore, err := p.counterStore(cmd)
	if err != nil {
		return err
	}
	defer closeStore()

	counters := widget.NewManager(store,
		widget.WithLogger(p.logger),
		widget.WithIncrementHook(p.metrics.ObserveIncrement),
	)

	server, err := httpAdapter.New(p.site, counters,
		httpAdapter.WithLogger(p.logger),
		httpAdapter.WithMetricsHandler(p.metrics.Handler()),
	)
	if err != nil {
		return err
	}
	handler, err := server.Handler()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if watch {
		if err := watchSite(ctx, p, server); err != nil {
			p.logger.Warn("Hot reload disabled", "err", err)
		}
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: handler,
	}

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)

	go func() {
		tui.PrintBanner(os.Stdout)
		fmt.Printf("Starting docu server on %s\n", srv.Addr)
		fmt.Printf("Serving content from: %s\n", p.site.Dir())
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err

	case <-ctx.Done():
		fmt.Println("\nStart shutdown...")

		// Give outstanding requests a deadline for completion.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			fmt.Printf("Graceful shutdown did not complete in %v: %v\n", 5*time.Second, err)
			if err := srv.Close(); err != nil {
				fmt.Printf("Error killing server: %v\n", err)
			}
		}
		fmt.Println("docu server stopped gracefully")
		return nil
	}
}

// watchSite rebuilds the site on every change and tells SSE subscribers.
// A failed rebuild keeps the previous collections.
func watchSite(ctx context.Context, p *project, server *httpAdapter.Server) error {
	changes, err := p.site.Watch(ctx)
	if err != nil {
		return err
	}

	go func() {
		for id := range changes {
			if err := p.site.Reload(ctx); err != nil {
				p.logger.Error("Reload failed", "changed", id, "err", err)
				continue
			}
			p.logger.Info("Site reloaded", "changed", id)
			server.NotifyReload(id)
		}
	}()
	return nil
}
