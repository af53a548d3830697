// Package webhook receives Telegram updates over HTTPS and serves a health endpoint.
package webhook

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"

	"github.com/smartspb/mediabot/internal/bot"
	"github.com/smartspb/mediabot/internal/http/response"
	"github.com/smartspb/mediabot/internal/ratelimit"
	"github.com/smartspb/mediabot/internal/telegram"
)

const (
	// maxBodyBytes bounds one update payload.
	maxBodyBytes = 1 << 20
	// enqueueTimeout is how long a request waits for the bot loop before the
	// update is dropped. Telegram redelivers on non-2xx, so a full queue answers 503.
	enqueueTimeout = 5 * time.Second
)

// HealthFunc reports component health; a non-nil error marks it unhealthy.
type HealthFunc func(ctx context.Context) (string, error)

// Options configures a Server.
type Options struct {
	// Secret is the last path segment Telegram posts to. Empty generates a random UUID.
	Secret  string
	Updates chan<- bot.Update
	// Limiter drops floods from one user. Nil accepts everything.
	Limiter *ratelimit.KeyedRateLimiter[int64]
	Health  map[string]HealthFunc
	Logger  *slog.Logger
}

// Server routes webhook deliveries to the bot loop.
type Server struct {
	router  *chi.Mux
	secret  string
	updates chan<- bot.Update
	limiter *ratelimit.KeyedRateLimiter[int64]
	health  map[string]HealthFunc
	logger  *slog.Logger
}

// NewServer creates a webhook server with its routes configured.
func NewServer(opts Options) *Server {
	if opts.Secret == "" {
		opts.Secret = uuid.NewString()
	}
	s := &Server{
		router:  chi.NewRouter(),
		secret:  opts.Secret,
		updates: opts.Updates,
		limiter: opts.Limiter,
		health:  opts.Health,
		logger:  opts.Logger,
	}

	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Recoverer)
	s.router.Use(s.logRequests)

	s.router.Get("/healthz", s.handleHealth)
	s.router.Post("/telegram/{secret}", s.handleUpdate)

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Path is the URL path Telegram must post to.
func (s *Server) Path() string {
	return "/telegram/" + s.secret
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	if chi.URLParam(r, "secret") != s.secret {
		response.NotFound(w, "not found", s.logger)
		return
	}

	var raw tgbotapi.Update
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&raw); err != nil {
		response.BadRequest(w, "invalid update", s.logger)
		return
	}

	u, ok := telegram.ConvertUpdate(raw)
	if !ok {
		w.WriteHeader(http.StatusOK)
		return
	}

	if user := senderID(u); s.limiter != nil && !s.limiter.Allow(user) {
		s.logger.Warn("update dropped by rate limit", "user_id", user, "update_id", u.ID)
		w.WriteHeader(http.StatusOK)
		return
	}

	timer := time.NewTimer(enqueueTimeout)
	defer timer.Stop()

	select {
	case s.updates <- u:
		w.WriteHeader(http.StatusOK)
	case <-timer.C:
		response.ServiceUnavailable(w, "bot is busy", s.logger)
	case <-r.Context().Done():
	}
}

func senderID(u bot.Update) int64 {
	if u.Message != nil {
		return u.Message.UserID
	}
	return u.Callback.UserID
}

// componentHealth describes one checked dependency.
type componentHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	components := make(map[string]componentHealth, len(s.health))
	overall := "healthy"

	for name, check := range s.health {
		msg, err := check(r.Context())
		if err != nil {
			overall = "unhealthy"
			components[name] = componentHealth{Status: "unhealthy", Message: err.Error()}
			continue
		}
		components[name] = componentHealth{Status: "healthy", Message: msg}
	}

	body := map[string]any{"status": overall, "components": components}
	if overall != "healthy" {
		response.JSON(w, http.StatusServiceUnavailable, body, s.logger)
		return
	}
	response.Success(w, body, s.logger)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		// The secret never reaches the log.
		path := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			path = rctx.RoutePattern()
		}
		s.logger.Debug("http request",
			"method", r.Method,
			"path", path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
