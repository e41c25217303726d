package middleware

import (
	"log/slog"
	"mime"
	"net/http"
	"strings"
)

// ValidateJSONContentType answers 415 when a POST, PUT or PATCH carries a
// body that is not JSON. Bodyless mutations such as logout and clock-in pass.
func ValidateJSONContentType(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !hasBody(r) {
				next.ServeHTTP(w, r)
				return
			}
			mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
			if err != nil || mediaType != "application/json" {
				log.Warn("rejected request body",
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
					slog.String("content_type", r.Header.Get("Content-Type")),
				)
				writeJSON(w, http.StatusUnsupportedMediaType, map[string]any{
					"success": false, "message": "Content-Type must be application/json",
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func hasBody(r *http.Request) bool {
	switch r.Method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return r.ContentLength != 0
	}
	return false
}

// LimitBody caps request bodies at maxBytes.
func LimitBody(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// SanitizePath rejects traversal segments and empty segments, including their
// percent-encoded forms, before routing.
func SanitizePath(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if suspiciousPath(r.URL.Path) || suspiciousPath(strings.ToLower(r.URL.RawPath)) {
				log.Warn("rejected request path", slog.String("path", r.URL.Path), slog.String("remote", ClientIP(r)))
				writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "message": "Invalid path"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func suspiciousPath(p string) bool {
	return strings.Contains(p, "..") || strings.Contains(p, "//") || strings.Contains(p, "%2e%2e") || strings.Contains(p, "%2f")
}
