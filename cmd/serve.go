package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/sells-group/claimcheck/internal/clarify"
	"github.com/sells-group/claimcheck/internal/config"
	"github.com/sells-group/claimcheck/internal/model"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the clarification HTTP server and expiry sweeper",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initSystem(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: buildRouter(env.System, cfg.Server),
		}

		sweeper := clarify.NewSweeper(env.Tracker, cfg.Sweep)

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			sweeper.Run(gctx)
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			zap.L().Info("shutting down server")
			return srv.Shutdown(cmd.Context())
		})
		g.Go(func() error {
			zap.L().Info("starting server", zap.Int("port", port))
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				return eris.Wrap(err, "server listen")
			}
			return nil
		})

		return g.Wait()
	},
}

// buildRouter assembles the HTTP surface over the clarification system.
func buildRouter(sys *clarify.System, serverCfg config.ServerConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: serverCfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	}))

	respondLimiter := rate.NewLimiter(rate.Limit(serverCfg.RespondRPS), serverCfg.RespondBurst)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Post("/evaluate", func(w http.ResponseWriter, req *http.Request) {
		var body struct {
			Claim    model.Claim                           `json:"claim"`
			Results  map[model.AgentType]model.AgentResult `json:"agent_results"`
			Evidence []model.EvidenceRecord                `json:"evidence"`
			Metrics  *model.ConfidenceMetrics              `json:"confidence_metrics"`
		}
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if body.Claim.ID == "" {
			writeError(w, http.StatusBadRequest, "claim.claim_id is required")
			return
		}

		metrics := sys.Metrics(body.Evidence, body.Results)
		if body.Metrics != nil {
			metrics = *body.Metrics
		}

		created, err := sys.EvaluateAndRequest(req.Context(), body.Claim, body.Results, body.Evidence, metrics)
		if err != nil {
			zap.L().Error("evaluate failed", zap.String("claim_id", body.Claim.ID), zap.Error(err))
			writeError(w, http.StatusInternalServerError, "evaluation failed")
			return
		}

		if created == nil {
			writeJSON(w, http.StatusOK, map[string]any{
				"status":             "no_clarification_needed",
				"confidence_metrics": metrics,
			})
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{
			"status":             "clarification_requested",
			"confidence_metrics": metrics,
			"request":            created,
			"prompt":             clarify.FormatPrompt(*created),
		})
	})

	r.Get("/requests/pending", func(w http.ResponseWriter, _ *http.Request) {
		pending := sys.Pending()
		writeJSON(w, http.StatusOK, map[string]any{
			"count":    len(pending),
			"requests": pending,
		})
	})

	r.Get("/requests/{id}", func(w http.ResponseWriter, req *http.Request) {
		id := chi.URLParam(req, "id")
		found, ok := sys.Get(id)
		if !ok {
			writeError(w, http.StatusNotFound, "request not found")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"request": found,
			"prompt":  clarify.FormatPrompt(found),
		})
	})

	r.Post("/requests/{id}/respond", func(w http.ResponseWriter, req *http.Request) {
		if !respondLimiter.Allow() {
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}

		var body struct {
			Data   map[string]any `json:"response_data"`
			UserID string         `json:"user_id"`
		}
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if body.UserID == "" {
			writeError(w, http.StatusBadRequest, "user_id is required")
			return
		}

		resp, err := sys.ProcessResponse(req.Context(), chi.URLParam(req, "id"), body.Data, body.UserID)
		if err != nil {
			writeClarifyError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"response": resp})
	})

	r.Post("/requests/{id}/cancel", func(w http.ResponseWriter, req *http.Request) {
		var body struct {
			UserID string `json:"user_id"`
		}
		if req.ContentLength > 0 {
			if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
				writeError(w, http.StatusBadRequest, "invalid request body")
				return
			}
		}

		id := chi.URLParam(req, "id")
		if err := sys.Cancel(req.Context(), id, body.UserID); err != nil {
			writeClarifyError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "cancelled", "request_id": id})
	})

	r.Get("/claims/{claimID}/requests", func(w http.ResponseWriter, req *http.Request) {
		claimID := chi.URLParam(req, "claimID")
		requests := sys.ForClaim(claimID)
		writeJSON(w, http.StatusOK, map[string]any{
			"claim_id": claimID,
			"count":    len(requests),
			"requests": requests,
		})
	})

	r.Get("/audit", func(w http.ResponseWriter, req *http.Request) {
		export := sys.ExportAudit(req.URL.Query().Get("claim_id"))
		writeJSON(w, http.StatusOK, export)
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeClarifyError maps tracker errors onto HTTP status codes.
func writeClarifyError(w http.ResponseWriter, err error) {
	switch {
	case eris.Is(err, clarify.ErrRequestNotFound):
		writeError(w, http.StatusNotFound, "request not found")
	case eris.Is(err, clarify.ErrRequestNotPending):
		writeError(w, http.StatusConflict, "request is not pending")
	default:
		zap.L().Error("request handling failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
