package httpx

import (
	"net/http"
	"time"

	"github.com/rs/cors"

	"github.com/wachuleru/backPesanding/internal/app"
	"github.com/wachuleru/backPesanding/pkg/ratelimit"
)

type Middleware struct {
	cors   *cors.Cors
	rlimit *ratelimit.Limiter
}

// NewMiddleware builds the shared middleware stack from config
func NewMiddleware(cfg app.Config) *Middleware {
	return &Middleware{
		cors: cors.New(cors.Options{
			AllowedOrigins:   cfg.CORSAllow,
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"*"},
			AllowCredentials: true,
		}),
		rlimit: ratelimit.New(cfg.RateMax, time.Duration(cfg.RateWindowSec)*time.Second),
	}
}

// Wrap applies CORS + rate limiting to a handler. The websocket
// endpoint is exempt from the limiter: a session is one long request.
func (m *Middleware) Wrap(h http.Handler) http.Handler {
	limited := m.rlimit.Middleware(h)
	return m.cors.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/ws" {
			h.ServeHTTP(w, r)
			return
		}
		limited.ServeHTTP(w, r)
	}))
}
