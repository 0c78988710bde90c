package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/middleware"
)

const (
	filtered     = "[FILTERED]"
	maxLogBody   = 4 << 10
	cardNumberID = "card_number"
)

// secretKeys are dropped from logged headers and JSON bodies wherever they appear.
var secretKeys = []string{
	"password",
	"token",
	"authorization",
	"secret",
	"api_key",
	"session",
	"credential",
	"cookie",
}

// quietPaths are probes logged at debug level only.
var quietPaths = map[string]bool{
	"/api/ping":   true,
	"/api/health": true,
}

func isSecret(key string) bool {
	key = strings.ToLower(key)
	for _, s := range secretKeys {
		if strings.Contains(key, s) {
			return true
		}
	}
	return false
}

// LoggingMiddleware writes one line per request and one per response.
// Bodies are captured only when debug logging is enabled, truncated and redacted.
func LoggingMiddleware(logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ctx := r.Context()

			log := logger
			if reqID := middleware.GetReqID(ctx); reqID != "" {
				log = log.With("request_id", reqID)
			}

			level := slog.LevelInfo
			if quietPaths[r.URL.Path] {
				level = slog.LevelDebug
			}
			withBodies := log.Enabled(ctx, slog.LevelDebug)

			attrs := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"query", r.URL.RawQuery,
				"remote_addr", r.RemoteAddr,
				"user_agent", r.UserAgent(),
				"headers", redactHeaders(r.Header),
			}
			if withBodies && r.Body != nil {
				body, _ := io.ReadAll(r.Body)
				r.Body = io.NopCloser(bytes.NewReader(body))
				attrs = append(attrs, "body", redactBody(body))
			}
			log.Log(ctx, level, "incoming request", attrs...)

			rw := &responseWriter{ResponseWriter: w, captureBody: withBodies}
			next.ServeHTTP(rw, r)

			logResponse(ctx, log, level, r, rw, time.Since(start))
		})
	}
}

type responseWriter struct {
	http.ResponseWriter
	statusCode  int
	size        int
	captureBody bool
	body        bytes.Buffer
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if rw.captureBody && rw.body.Len() < maxLogBody {
		rw.body.Write(b)
	}
	n, err := rw.ResponseWriter.Write(b)
	rw.size += n
	return n, err
}

func logResponse(ctx context.Context, log *slog.Logger, level slog.Level, r *http.Request, rw *responseWriter, duration time.Duration) {
	statusCode := rw.statusCode
	if statusCode == 0 {
		statusCode = http.StatusOK
	}

	switch {
	case statusCode >= 500:
		level = slog.LevelError
	case statusCode >= 400:
		level = slog.LevelWarn
	}

	attrs := []any{
		"method", r.Method,
		"path", r.URL.Path,
		"status_code", statusCode,
		"duration_ms", duration.Milliseconds(),
		"response_size", rw.size,
	}
	if rw.captureBody {
		attrs = append(attrs, "body", redactBody(rw.body.Bytes()))
	}
	log.Log(ctx, level, "response", attrs...)
}

func redactHeaders(headers http.Header) map[string]string {
	out := make(map[string]string, len(headers))
	for name, values := range headers {
		if isSecret(name) {
			out[name] = filtered
			continue
		}
		out[name] = strings.Join(values, ", ")
	}
	return out
}

// redactBody returns a JSON body with secrets removed and card numbers cut to the last four digits.
func redactBody(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	if len(body) > maxLogBody {
		return "[TRUNCATED]"
	}

	var data interface{}
	if err := json.Unmarshal(body, &data); err != nil {
		for _, s := range secretKeys {
			if strings.Contains(strings.ToLower(string(body)), s) {
				return filtered
			}
		}
		return string(body)
	}

	out, err := json.Marshal(redactValue(data))
	if err != nil {
		return filtered
	}
	return string(out)
}

func redactValue(data interface{}) interface{} {
	switch v := data.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(v))
		for key, value := range v {
			switch {
			case isSecret(key):
				out[key] = filtered
			case strings.EqualFold(key, cardNumberID):
				out[key] = lastFour(value)
			default:
				out[key] = redactValue(value)
			}
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(v))
		for i, item := range v {
			out[i] = redactValue(item)
		}
		return out
	default:
		return v
	}
}

func lastFour(value interface{}) string {
	s, ok := value.(string)
	if !ok || len(s) <= 4 {
		return filtered
	}
	return strings.Repeat("*", len(s)-4) + s[len(s)-4:]
}
