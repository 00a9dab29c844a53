package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/entity-resolver/internal/model"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the resolution HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		e, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer e.Close()

		r := chi.NewRouter()
		r.Use(middleware.RequestID)
		r.Use(middleware.Recoverer)
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type"},
		}))

		r.Get("/health", healthHandler(e))
		r.Post("/run", runHandler(e))

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: r,
		}

		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

// runHandler executes a resolution run. Bad JSON is the only 4xx; any decoded
// request gets 200 with a full Response, degraded or not. An empty name runs
// the pipeline like anything else and surfaces in the resolution, not a 4xx.
func runHandler(e *env) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req model.ResolutionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
			return
		}

		resp := e.Pipeline.Run(r.Context(), req)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			zap.L().Error("encode response failed", zap.Error(err))
		}
	}
}

// healthHandler reports boolean reachability of the three external
// dependencies. An unconfigured dependency is unreachable but does not
// degrade the overall status; a configured one failing its probe does.
func healthHandler(e *env) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		deps := map[string]bool{
			"registry": false,
			"search":   false,
			"places":   false,
		}
		status := "ok"

		if e.Searcher != nil {
			if err := e.Searcher.Ping(ctx); err != nil {
				status = "degraded"
			} else {
				deps["registry"] = true
			}
		}
		if e.Search != nil {
			if err := e.Search.Ping(ctx); err != nil {
				status = "degraded"
			} else {
				deps["search"] = true
			}
		}
		if e.Places != nil {
			if err := e.Places.Ping(ctx); err != nil {
				status = "degraded"
			} else {
				deps["places"] = true
			}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":       status,
			"dependencies": deps,
		})
	}
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
