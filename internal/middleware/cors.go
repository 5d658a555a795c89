package middleware

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// CORSConfig lists the browser origins allowed to call the car API.
type CORSConfig struct {
	// AllowedOrigins holds exact origins such as "https://app.example.com"
	// or subdomain patterns such as "*.example.com". Empty denies all.
	AllowedOrigins []string
	// MaxAge is how long a browser may cache a preflight answer.
	MaxAge time.Duration
}

// DefaultCORSConfig allows no origins and caches preflights for a day.
func DefaultCORSConfig() CORSConfig {
	return CORSConfig{MaxAge: 24 * time.Hour}
}

// The car and trip routes only ever use these.
const (
	corsAllowMethods  = "GET, POST, PUT, DELETE"
	corsAllowHeaders  = "Accept, Content-Type, X-Request-ID"
	corsExposeHeaders = "X-Request-ID, Retry-After, X-RateLimit-Limit, X-RateLimit-Remaining, X-RateLimit-Reset"
)

// CORS answers preflight requests itself and adds the allow headers to
// actual requests from permitted origins. Requests from other origins are
// served without CORS headers, so the browser withholds the response.
func CORS(cfg CORSConfig) func(http.Handler) http.Handler {
	origins := newOriginSet(cfg.AllowedOrigins)
	maxAge := ""
	if cfg.MaxAge > 0 {
		maxAge = strconv.Itoa(int(cfg.MaxAge / time.Second))
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin == "" {
				next.ServeHTTP(w, r)
				return
			}

			h := w.Header()
			h.Add("Vary", "Origin")
			preflight := r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != ""

			if !origins.allows(origin) {
				if preflight {
					writeJSONError(w, http.StatusForbidden, "ORIGIN_NOT_ALLOWED", "Origin not allowed")
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Access-Control-Expose-Headers", corsExposeHeaders)

			if preflight {
				h.Set("Access-Control-Allow-Methods", corsAllowMethods)
				h.Set("Access-Control-Allow-Headers", corsAllowHeaders)
				if maxAge != "" {
					h.Set("Access-Control-Max-Age", maxAge)
				}
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// originSet matches origins case-insensitively. Pattern entries match on
// host only, whatever the scheme.
type originSet struct {
	exact       map[string]struct{}
	hostSuffixes []string
}

func newOriginSet(allowed []string) originSet {
	s := originSet{exact: make(map[string]struct{}, len(allowed))}
	for _, o := range allowed {
		o = strings.ToLower(strings.TrimSpace(o))
		if suffix, ok := strings.CutPrefix(o, "*"); ok && strings.HasPrefix(suffix, ".") {
			s.hostSuffixes = append(s.hostSuffixes, suffix)
			continue
		}
		s.exact[o] = struct{}{}
	}
	return s
}

func (s originSet) allows(origin string) bool {
	origin = strings.ToLower(origin)
	if _, ok := s.exact[origin]; ok {
		return true
	}
	if len(s.hostSuffixes) == 0 {
		return false
	}

	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	host := u.Hostname()
	for _, suffix := range s.hostSuffixes {
		if len(host) > len(suffix) && strings.HasSuffix(host, suffix) {
			return true
		}
	}
	return false
}
