package main

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"

	"github.com/sells-group/llmcost-cli/internal/config"
	"github.com/sells-group/llmcost-cli/internal/model"
)

// selectRequest is the /v1/select payload. Message is used for token
// estimation when EstimatedTokens is zero.
type selectRequest struct {
	model.SelectionCriteria
	EstimatedTokens int    `json:"estimated_tokens,omitempty"`
	Message         string `json:"message,omitempty"`
}

// newRouter builds the HTTP API over an initialized environment.
func newRouter(env *appEnv, serverCfg config.ServerConfig, dailyBudget float64) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))
	r.Use(rateLimit(serverCfg))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/v1", func(r chi.Router) {
		r.Post("/select", func(w http.ResponseWriter, req *http.Request) {
			var body selectRequest
			if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
				writeError(w, http.StatusBadRequest, "invalid request body")
				return
			}

			tokens := body.EstimatedTokens
			if tokens == 0 && body.Message != "" {
				tokens = env.Estimator.Tokens(body.Message)
			}
			if body.ContextLengthTokens == 0 {
				body.ContextLengthTokens = tokens
			}

			result := env.Selector.Select(body.SelectionCriteria, tokens)
			writeJSON(w, http.StatusOK, result)
		})

		r.Post("/events", func(w http.ResponseWriter, req *http.Request) {
			var in model.UsageEventInput
			if err := json.NewDecoder(req.Body).Decode(&in); err != nil {
				writeError(w, http.StatusBadRequest, "invalid request body")
				return
			}
			if in.ModelName == "" {
				writeError(w, http.StatusBadRequest, "model_name is required")
				return
			}

			id := env.Tracker.Record(req.Context(), in)
			writeJSON(w, http.StatusAccepted, map[string]string{"id": id})
		})

		r.Put("/events/{id}/actual-cost", func(w http.ResponseWriter, req *http.Request) {
			var body struct {
				ActualCost float64 `json:"actual_cost"`
			}
			if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
				writeError(w, http.StatusBadRequest, "invalid request body")
				return
			}
			if body.ActualCost < 0 {
				writeError(w, http.StatusBadRequest, "actual_cost must not be negative")
				return
			}

			id := chi.URLParam(req, "id")
			if err := env.Tracker.UpdateActualCost(req.Context(), id, body.ActualCost); err != nil {
				writeError(w, http.StatusNotFound, "event not found")
				return
			}
			writeJSON(w, http.StatusOK, map[string]string{"id": id, "status": "updated"})
		})

		r.Get("/summary", func(w http.ResponseWriter, req *http.Request) {
			days := queryInt(req, "days", 7)
			end := time.Now().UTC()
			start := end.AddDate(0, 0, -days)
			writeJSON(w, http.StatusOK, env.Tracker.CostSummary(req.Context(), start, end))
		})

		r.Get("/metrics/today", func(w http.ResponseWriter, req *http.Request) {
			writeJSON(w, http.StatusOK, env.Tracker.CurrentDayMetrics(req.Context()))
		})

		r.Get("/trends", func(w http.ResponseWriter, req *http.Request) {
			days := queryInt(req, "days", 7)
			points := env.Tracker.CostTrends(req.Context(), days)
			writeJSON(w, http.StatusOK, map[string]any{"trends": points})
		})

		r.Get("/budget", func(w http.ResponseWriter, req *http.Request) {
			daily := dailyBudget
			if v := req.URL.Query().Get("daily"); v != "" {
				if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
					daily = f
				}
			}
			writeJSON(w, http.StatusOK, env.Tracker.CheckBudgetAlert(req.Context(), daily))
		})

		r.Get("/recommendations", func(w http.ResponseWriter, req *http.Request) {
			recs := env.Tracker.Recommendations(req.Context())
			writeJSON(w, http.StatusOK, map[string]any{"recommendations": recs})
		})
	})

	return r
}

// rateLimit applies a global token-bucket limit across all requests.
func rateLimit(serverCfg config.ServerConfig) func(http.Handler) http.Handler {
	rps := serverCfg.RatePerSecond
	if rps <= 0 {
		rps = 50
	}
	burst := serverCfg.RateBurst
	if burst <= 0 {
		burst = int(rps) * 2
	}
	limiter := rate.NewLimiter(rate.Limit(rps), burst)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func queryInt(r *http.Request, key string, def int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
