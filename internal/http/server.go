// Package http serves the JSON API the dashboard consumes: analytics,
// reports, client CRUD, invoice upload and CSV export.
package http

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"invoicesense/internal/cache"
	"invoicesense/internal/datastore"
	"invoicesense/internal/extract"
)

type Server struct {
	http.Server
	invSource datastore.InvoiceSource
	invWriter datastore.InvoiceWriter
	cliSource datastore.ClientSource
	cliWriter datastore.ClientWriter
	extractor *extract.Extractor

	rateLimiter *rateLimiter

	// Encoded analytics and report payloads keyed by endpoint and range.
	payloadCache *cache.TTLCache[[]byte]

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run server.
// extractor may be nil, which puts the upload endpoint in demo mode.
func NewServer(addr string, be interface {
	datastore.InvoiceSource
	datastore.InvoiceWriter
	datastore.ClientSource
	datastore.ClientWriter
}, extractor *extract.Extractor, cacheTTL time.Duration) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		invSource:    be,
		invWriter:    be,
		cliSource:    be,
		cliWriter:    be,
		extractor:    extractor,
		rateLimiter:  newRateLimiter(),
		payloadCache: cache.New[[]byte](100, cacheTTL),
	}
	s.payloadCache.StartCleanup(10 * time.Minute)

	mux.HandleFunc("/api/health", s.withMiddleware(s.handleHealth))
	mux.HandleFunc("/api/analytics", s.withMiddleware(s.handleAnalytics))
	mux.HandleFunc("/api/reports", s.withMiddleware(s.handleReports))
	mux.HandleFunc("/api/clients", s.withMiddleware(s.handleClients))
	mux.HandleFunc("/api/clients/", s.withMiddleware(s.handleClientByID))
	mux.HandleFunc("/api/upload", s.withMiddleware(s.handleUpload))
	mux.HandleFunc("/api/export", s.withMiddleware(s.handleExport))

	return s
}

// withMiddleware adds security headers, CORS, rate limiting and request
// logging to a handler.
func (s *Server) withMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		clientIP := extractClientIP(r)
		requestID := generateRequestID()

		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		r = r.WithContext(ctx)

		slog.InfoContext(ctx, "Request started",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"client_ip", clientIP,
			"user_agent", r.Header.Get("User-Agent"))

		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		// Rate limit mutating requests only
		if r.Method != http.MethodGet && !s.rateLimiter.allow(clientIP) {
			slog.WarnContext(ctx, "Rate limit exceeded", "client_ip", clientIP, "method", r.Method, "url", r.URL.Path)
			w.Header().Set("Retry-After", "60")
			writeError(w, http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.")
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		slog.InfoContext(ctx, "Request completed",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", time.Since(start).Milliseconds(),
			"client_ip", clientIP)
	}
}

type requestIDKey struct{}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// generateRequestID creates a unique request ID for tracing.
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

// extractClientIP prefers forwarded headers over the socket address.
func extractClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if ip := strings.TrimSpace(strings.Split(xff, ",")[0]); ip != "" {
			return ip
		}
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	}, "")
}

// invalidatePayloads drops cached analytics after any datastore write.
func (s *Server) invalidatePayloads() {
	s.payloadCache.Flush()
}

// Shutdown gracefully shuts down the server and cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.payloadCache.StopCleanup()
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}
