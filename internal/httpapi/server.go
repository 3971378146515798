// Package httpapi serves the companion engine over HTTP JSON endpoints and
// a server-sent event stream.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/rcliao/wight/internal/emotion"
	"github.com/rcliao/wight/internal/model"
)

const maxBodyBytes = 64 << 10

// Options configures a Server.
type Options struct {
	RateLimit float64 // sustained messages per second
	RateBurst int
	Logger    *slog.Logger
}

// Server exposes an Engine over HTTP.
type Server struct {
	engine      *emotion.Engine
	limiter     *rate.Limiter
	log         *slog.Logger
	b           *broker
	unsubscribe func()
}

type sendRequest struct {
	Message string `json:"message"`
}

type sendResponse struct {
	Response string             `json:"response"`
	Emotions model.EmotionState `json:"emotions"`
}

// New builds a Server and subscribes it to engine notifications for the
// event stream.
func New(engine *emotion.Engine, opts Options) *Server {
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5
	}
	if opts.RateBurst <= 0 {
		opts.RateBurst = 10
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	s := &Server{
		engine:  engine,
		limiter: rate.NewLimiter(rate.Limit(opts.RateLimit), opts.RateBurst),
		log:     opts.Logger,
		b:       newBroker(),
	}
	s.unsubscribe = engine.Subscribe(emotion.ObserverFuncs{
		OnEmotionChange: func(st model.EmotionState) { s.b.publish("emotions", st) },
		OnMemoryAdded:   func(m model.MemoryRecord) { s.b.publish("memory", m) },
		OnResponse:      func(r string) { s.b.publish("response", map[string]string{"response": r}) },
	})
	return s
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "ok")
	})
	mux.HandleFunc("GET /api/status", s.handleStatus)
	mux.HandleFunc("GET /api/messages", s.handleMessages)
	mux.HandleFunc("POST /api/message", s.handleSend)
	mux.HandleFunc("GET /api/events", s.handleEvents)
	return s.logRequests(mux)
}

// Run listens on addr until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.log.Info("http server listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listen: %w", err)
	}
	return nil
}

// Close detaches the server from the engine and ends open event streams.
func (s *Server) Close() {
	if s.unsubscribe != nil {
		s.unsubscribe()
		s.unsubscribe = nil
	}
	s.b.close()
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.engine.Status())
}

func (s *Server) handleMessages(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if q := r.URL.Query().Get("limit"); q != "" {
		v, err := strconv.Atoi(q)
		if err != nil || v < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = v
	}
	msgs := s.engine.ChatLog(limit)
	if msgs == nil {
		msgs = []model.ChatMessage{}
	}
	writeJSON(w, http.StatusOK, msgs)
}

func (s *Server) handleSend(w http.ResponseWriter, r *http.Request) {
	if !s.limiter.Allow() {
		writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
		return
	}

	var body sendRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}
	msg := strings.TrimSpace(body.Message)
	if msg == "" {
		writeError(w, http.StatusBadRequest, "empty message")
		return
	}

	// State is already updated in memory; a client hanging up must not
	// abort the write that persists it.
	reply, state := s.engine.Respond(context.WithoutCancel(r.Context()), msg)
	writeJSON(w, http.StatusOK, sendResponse{
		Response: reply,
		Emotions: state,
	})
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "stream unsupported")
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch, cancel := s.b.subscribe()
	defer cancel()

	fmt.Fprint(w, "event: ping\ndata: {}\n\n")
	flusher.Flush()

	keep := time.NewTicker(15 * time.Second)
	defer keep.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			_, _ = w.Write(msg)
			flusher.Flush()
		case <-keep.C:
			fmt.Fprint(w, "event: ping\ndata: {}\n\n")
			flusher.Flush()
		}
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Debug("http request", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
