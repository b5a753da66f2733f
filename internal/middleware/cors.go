package middleware

import "net/http"

// CORSMiddleware adds Cross-Origin Resource Sharing headers so the UI
// collaborator can call the API from another origin.
type CORSMiddleware struct {
	origins map[string]struct{}
}

// NewCORSMiddleware restricts CORS to the given origins. With no arguments
// every origin is allowed.
func NewCORSMiddleware(allowedOrigins ...string) *CORSMiddleware {
	m := &CORSMiddleware{}
	if len(allowedOrigins) > 0 {
		m.origins = make(map[string]struct{}, len(allowedOrigins))
		for _, o := range allowedOrigins {
			m.origins[o] = struct{}{}
		}
	}
	return m
}

// Wrap applies CORS headers and answers preflight requests.
func (c *CORSMiddleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && c.allowed(origin) {
			h := w.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")
			h.Set("Access-Control-Allow-Credentials", "true")
			h.Set("Access-Control-Max-Age", "86400")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (c *CORSMiddleware) allowed(origin string) bool {
	if c.origins == nil {
		return true
	}
	if _, ok := c.origins[origin]; ok {
		return true
	}
	_, ok := c.origins["*"]
	return ok
}
