package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	httpAdapter "github.com/aretw0/espalier/internal/adapters/http"
	"github.com/aretw0/espalier/internal/cli"
	"github.com/aretw0/espalier/internal/inspect"
	"github.com/aretw0/espalier/pkg/observability"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the pairing HTTP API",
	Long: `Starts a read-only HTTP server exposing the workspace node set and their
pairings as a JSON API, with Prometheus metrics on /metrics.`,
	Run: func(cmd *cobra.Command, args []string) {
		debug, _ := cmd.Flags().GetBool("debug")
		port, _ := cmd.Flags().GetString("port")

		logger := cli.NewLogger(debug, cli.NewRunToken())

		ws, store, closer, err := openEnvironment(cmd, logger)
		if err != nil {
			fmt.Printf("Error opening workspace: %v\n", err)
			os.Exit(1)
		}
		defer closer()

		registry := prometheus.NewRegistry()
		metrics := observability.NewMetrics(registry)
		env := metrics.InstrumentEnvironment(store)

		svc := inspect.New(env,
			inspect.WithLogger(logger),
			inspect.WithMetrics(metrics),
		)

		handler, err := httpAdapter.NewHandler(svc, ws.Nodes,
			httpAdapter.WithLogger(logger),
			httpAdapter.WithMetricsHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})),
		)
		if err != nil {
			fmt.Printf("Error building handler: %v\n", err)
			os.Exit(1)
		}

		srv := &http.Server{
			Addr:    ":" + port,
			Handler: handler,
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)

		go func() {
			fmt.Printf("Starting Espalier Server on %s\n", srv.Addr)
			fmt.Printf("Serving %d workspace nodes\n", len(ws.Nodes))
			serverErrors <- srv.ListenAndServe()
		}()

		// Channel to listen for interrupt or terminate signals.
		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		// Blocking main and waiting for shutdown.
		select {
		case err := <-serverErrors:
			// Error when starting HTTP server.
			fmt.Printf("Server error: %v\n", err)
			os.Exit(1)

		case sig := <-shutdown:
			fmt.Printf("\nStart shutdown... Signal: %v\n", sig)

			// Give outstanding requests a deadline for completion.
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			// Asking listener to shut down and shed load.
			if err := srv.Shutdown(ctx); err != nil {
				fmt.Printf("Graceful shutdown did not complete in %v: %v\n", 5*time.Second, err)
				if err := srv.Close(); err != nil {
					fmt.Printf("Error killing server: %v\n", err)
				}
			}
			fmt.Println("Espalier Server stopped gracefully")
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
}
