package util

import (
	"net/http"
	"strings"
)

// WithSecurityHeaders adds API-safe security response headers. The strict
// subset (CSP, HSTS) is emitted only outside development so local tooling
// keeps working.
func WithSecurityHeaders(environment string, next http.Handler) http.Handler {
	strict := !strings.EqualFold(strings.TrimSpace(environment), "development")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "no-referrer")
		w.Header().Set("Permissions-Policy", "geolocation=(), camera=(), microphone=()")
		if strict {
			w.Header().Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'; base-uri 'none'")
			if r.TLS != nil || strings.EqualFold(strings.TrimSpace(r.Header.Get("X-Forwarded-Proto")), "https") {
				w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
			}
		}
		next.ServeHTTP(w, r)
	})
}
