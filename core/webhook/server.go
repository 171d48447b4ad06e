package webhook

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/faqbot/core/logger"
	"github.com/m3rciful/faqbot/core/metrics"
)

const (
	// SecretHeader carries the secret token Telegram echoes from setWebhook.
	SecretHeader = "X-Telegram-Bot-Api-Secret-Token"
	// DefaultPath is always served in addition to the configured path.
	DefaultPath = "/telegram"

	maxBodyBytes    = 1 << 20
	readyTimeout    = 2 * time.Second
	shutdownTimeout = 10 * time.Second
)

// Rejection reasons reported in faqbot_webhook_rejected_total.
const (
	ReasonSecret = "secret"
	ReasonBody   = "body"
)

// Processor handles one decoded update.
type Processor interface {
	Process(ctx context.Context, upd tele.Update) error
}

// Journal deduplicates redelivered updates.
type Journal interface {
	Claim(ctx context.Context, updateID int, kind string) (bool, error)
	Release(ctx context.Context, updateID int) error
	Ping(ctx context.Context) error
}

// Options configures the HTTP handler.
type Options struct {
	Path      string
	Secret    string
	Processor Processor
	// Journal is optional; nil disables deduplication.
	Journal Journal
	Metrics *metrics.Metrics
	// MetricsPath mounts the Prometheus handler when non-empty.
	MetricsPath string
}

type handler struct {
	secret  []byte
	proc    Processor
	journal Journal
	metrics *metrics.Metrics
}

// NewHandler builds the chi router serving the webhook, health and metrics routes.
func NewHandler(opts Options) http.Handler {
	h := &handler{
		proc:    opts.Processor,
		journal: opts.Journal,
		metrics: opts.Metrics,
	}
	if opts.Secret != "" {
		h.secret = []byte(opts.Secret)
	}

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(accessLog)
	r.Use(middleware.Recoverer)

	r.Get("/", h.health)
	r.Get("/healthz", h.health)
	r.Get("/ready", h.ready)

	r.Post(DefaultPath, h.update)
	if opts.Path != "" && opts.Path != DefaultPath {
		r.Post(opts.Path, h.update)
	}
	if opts.MetricsPath != "" && opts.Metrics != nil {
		r.Method(http.MethodGet, opts.MetricsPath, opts.Metrics.Handler())
	}
	return r
}

func (h *handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handler) ready(w http.ResponseWriter, r *http.Request) {
	if h.journal != nil {
		ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
		defer cancel()
		if err := h.journal.Ping(ctx); err != nil {
			logger.Warn(r.Context(), "http", "http.ready",
				slog.String("status", "fail"),
				slog.String("err", err.Error()),
			)
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handler) update(w http.ResponseWriter, r *http.Request) {
	if !h.authorized(r) {
		h.metrics.RecordWebhookRejected(ReasonSecret)
		logger.Warn(r.Context(), "http", "webhook.rejected",
			slog.String("status", "rejected"),
			slog.String("cause", ReasonSecret),
		)
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Unauthorized"})
		return
	}

	var upd tele.Update
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&upd); err != nil {
		h.metrics.RecordWebhookRejected(ReasonBody)
		logger.Warn(r.Context(), "http", "webhook.rejected",
			slog.String("status", "rejected"),
			slog.String("cause", ReasonBody),
			slog.String("err", err.Error()),
		)
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "Bad Request"})
		return
	}

	ctx := logger.WithRID(r.Context(), logger.BuildRID(upd.ID, 0, 0))
	kind := updateKind(upd)

	claimed := false
	if h.journal != nil {
		ok, err := h.journal.Claim(ctx, upd.ID, kind)
		switch {
		case err != nil:
			// journal outage must not stop the bot; process without dedup
			logger.Warn(ctx, "http", "journal.claim",
				slog.String("status", "fail"),
				slog.String("kind", kind),
				slog.String("err", err.Error()),
			)
		case !ok:
			h.metrics.RecordUpdate(kind, "duplicate")
			logger.Info(ctx, "http", "webhook.update",
				slog.String("status", "duplicate"),
				slog.String("kind", kind),
			)
			writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
			return
		default:
			claimed = true
		}
	}

	if err := h.proc.Process(ctx, upd); err != nil {
		if claimed {
			if relErr := h.journal.Release(context.WithoutCancel(ctx), upd.ID); relErr != nil {
				logger.Error(ctx, "http", "journal.release",
					slog.String("status", "fail"),
					slog.String("err", relErr.Error()),
				)
			}
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": "Internal Server Error"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *handler) authorized(r *http.Request) bool {
	if len(h.secret) == 0 {
		return true
	}
	got := []byte(r.Header.Get(SecretHeader))
	return subtle.ConstantTimeCompare(got, h.secret) == 1
}

func updateKind(upd tele.Update) string {
	switch {
	case upd.Callback != nil:
		return "callback"
	case upd.Message != nil:
		return "message"
	default:
		return "other"
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// accessLog writes one http.request line per request.
func accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		level := slog.LevelDebug
		status := "ok"
		if ww.Status() >= http.StatusBadRequest {
			level = slog.LevelInfo
			status = "fail"
		}
		logger.LogEvent(r.Context(), logger.HTTP, level, "http.request",
			slog.String("status", status),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("http_code", ww.Status()),
			slog.Duration("duration", logger.Took(start)),
		)
	})
}

// Server runs the webhook handler until its context is cancelled.
type Server struct {
	srv *http.Server
}

// NewServer builds an HTTP server listening on addr.
func NewServer(addr string, h http.Handler) *Server {
	return &Server{srv: &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}}
}

// Run listens until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		logger.HTTP.Info("listening",
			slog.String("event", "http.listen"),
			slog.String("listen", s.srv.Addr),
		)
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logger.HTTP.Info("stopped", slog.String("event", "http.shutdown"))
	return <-errCh
}
