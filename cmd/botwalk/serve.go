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
	"github.com/spf13/cobra"

	"github.com/botwalk/botwalk"
	httpAdapter "github.com/botwalk/botwalk/internal/adapters/http"
	"github.com/botwalk/botwalk/internal/logging"
	fileAdapter "github.com/botwalk/botwalk/pkg/adapters/file"
	redisAdapter "github.com/botwalk/botwalk/pkg/adapters/redis"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the simulation HTTP server",
	Long: `Starts the REST API. Clients create simulations by POSTing a flow
document to /simulations/{id}/start and drive them with /input calls.
With --redis, state is shared across processes; without it, sessions
live in process memory.`,
	Run: func(cmd *cobra.Command, args []string) {
		port, _ := cmd.Flags().GetString("port")
		redisAddr, _ := cmd.Flags().GetString("redis")
		redisPassword, _ := cmd.Flags().GetString("redis-password")
		redisDB, _ := cmd.Flags().GetInt("redis-db")
		ttl, _ := cmd.Flags().GetDuration("session-ttl")
		level, _ := cmd.Flags().GetString("log-level")

		logger := logging.New(logging.ParseLevel(level))
		registry := prometheus.NewRegistry()

		opts := []botwalk.Option{
			botwalk.WithLogger(logger),
			botwalk.WithMetrics(registry),
		}
		stateDir, _ := cmd.Flags().GetString("state-dir")
		switch {
		case redisAddr != "":
			store := redisAdapter.New(redisAddr, redisPassword, redisDB,
				redisAdapter.WithTTL(ttl))
			opts = append(opts,
				botwalk.WithStore(store),
				botwalk.WithLocker(redisAdapter.NewLocker(store.Client(), "botwalk:sim:")),
			)
		case stateDir != "":
			opts = append(opts, botwalk.WithStore(fileAdapter.New(stateDir)))
		}
		sim := botwalk.New(opts...)

		server := httpAdapter.NewServer(sim.Registry(),
			httpAdapter.WithLogger(logger),
			httpAdapter.WithGatherer(registry),
		)

		srv := &http.Server{
			Addr:    ":" + port,
			Handler: server.Handler(),
		}

		serverErrors := make(chan error, 1)
		go func() {
			fmt.Printf("Starting botwalk server on %s\n", srv.Addr)
			serverErrors <- srv.ListenAndServe()
		}()

		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-serverErrors:
			fmt.Printf("Server error: %v\n", err)
			os.Exit(1)

		case sig := <-shutdown:
			fmt.Printf("\nStart shutdown... Signal: %v\n", sig)

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				fmt.Printf("Graceful shutdown did not complete in %v: %v\n", 5*time.Second, err)
				if err := srv.Close(); err != nil {
					fmt.Printf("Error killing server: %v\n", err)
				}
			}
			fmt.Println("Botwalk server stopped gracefully")
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	serveCmd.Flags().String("redis", "", "Redis address for shared session state (e.g. localhost:6379)")
	serveCmd.Flags().String("redis-password", "", "Redis password")
	serveCmd.Flags().Int("redis-db", 0, "Redis database number")
	serveCmd.Flags().Duration("session-ttl", 24*time.Hour, "Expiration for stored sessions (Redis only)")
	serveCmd.Flags().String("state-dir", "", "Directory for file-backed session state (ignored with --redis)")
}
