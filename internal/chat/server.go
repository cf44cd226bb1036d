// Package chat exposes customer credit analysis through an
// OpenAI-compatible chat completions endpoint. Each request fetches the
// customer's raw records, runs the temporal aggregation engine, and
// injects the rendered analysis as the system prompt before dispatching
// to the configured LLM provider.
package chat

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/sells-group/credit-insights/internal/prompt"
	"github.com/sells-group/credit-insights/internal/report"
	"github.com/sells-group/credit-insights/internal/temporal"
	"github.com/sells-group/credit-insights/pkg/creditapi"
)

// Options wires a Server's collaborators.
type Options struct {
	Credit          creditapi.Client
	Prompts         *prompt.Builder
	Completers      map[string]Completer
	DefaultProvider string
	DefaultModel    string
	Rules           []temporal.CategoryRule
	AllowedOrigins  []string
}

// Server handles the OpenAI-compatible chat surface.
type Server struct {
	opts Options
}

// NewServer creates a chat server.
func NewServer(opts Options) *Server {
	if opts.DefaultProvider == "" {
		opts.DefaultProvider = "openai"
	}
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}
	return &Server{opts: opts}
}

// Router builds the HTTP routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.opts.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type", "X-Customer-ID"},
	}))

	r.Get("/health", s.handleHealth)
	r.Get("/v1/models", s.handleModels)
	r.Post("/v1/chat/completions", s.handleChatCompletions)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleModels(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"object": "list",
		"data": []map[string]any{
			{
				"id":       s.opts.DefaultModel,
				"object":   "model",
				"owned_by": s.opts.DefaultProvider,
			},
		},
	})
}

func (s *Server) handleChatCompletions(w http.ResponseWriter, r *http.Request) {
	var req openai.ChatCompletionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request_error", "request body is not a valid chat completion request")
		return
	}
	if len(req.Messages) == 0 {
		writeError(w, http.StatusBadRequest, "invalid_request_error", "messages is required")
		return
	}
	if req.Stream {
		writeError(w, http.StatusBadRequest, "invalid_request_error", "streaming is not supported")
		return
	}

	customerID := r.Header.Get("X-Customer-ID")
	if customerID == "" {
		customerID = req.User
	}
	if customerID == "" {
		writeError(w, http.StatusBadRequest, "invalid_request_error", "customer id is required via the user field or the X-Customer-ID header")
		return
	}

	ctx := r.Context()

	records, err := s.opts.Credit.CustomerRecords(ctx, customerID)
	if err != nil {
		zap.L().Error("chat: credit data fetch failed",
			zap.String("customer_id", customerID),
			zap.Error(err),
		)
		writeError(w, http.StatusBadGateway, "upstream_error", "credit data is temporarily unavailable")
		return
	}

	analysis, stats := temporal.Aggregate(records, temporal.WithRules(s.opts.Rules))
	reportText := report.Format(customerID, analysis, stats)
	systemPrompt := s.opts.Prompts.SystemPrompt(ctx, customerID, reportText)

	if req.Model == "" {
		req.Model = s.opts.DefaultModel
	}
	outbound := req
	outbound.User = ""
	outbound.Messages = append(
		[]openai.ChatCompletionMessage{{Role: openai.ChatMessageRoleSystem, Content: systemPrompt}},
		stripSystemMessages(req.Messages)...,
	)

	provider := routeModel(req.Model, s.opts.DefaultProvider)
	completer, ok := s.opts.Completers[provider]
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_request_error", "no provider configured for model "+req.Model)
		return
	}

	start := time.Now()
	resp, err := completer.CreateChatCompletion(ctx, outbound)
	if err != nil {
		zap.L().Error("chat: completion failed",
			zap.String("provider", provider),
			zap.String("model", req.Model),
			zap.Error(err),
		)
		writeError(w, http.StatusBadGateway, "upstream_error", "completion provider request failed")
		return
	}

	zap.L().Info("chat: completion served",
		zap.String("customer_id", customerID),
		zap.String("provider", provider),
		zap.String("model", req.Model),
		zap.Int("bureaus", stats.Bureaus),
		zap.Int("records_skipped", stats.RecordsSkipped),
		zap.Duration("duration", time.Since(start)),
	)

	writeJSON(w, http.StatusOK, resp)
}

// stripSystemMessages drops caller-supplied system messages; the
// analysis prompt is the single source of system context.
func stripSystemMessages(msgs []openai.ChatCompletionMessage) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(msgs))
	for _, m := range msgs {
		if m.Role == openai.ChatMessageRoleSystem {
			continue
		}
		out = append(out, m)
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError emits an OpenAI-shaped error body.
func writeError(w http.ResponseWriter, status int, errType, message string) {
	writeJSON(w, status, map[string]any{
		"error": map[string]string{
			"type":    errType,
			"message": message,
		},
	})
}
