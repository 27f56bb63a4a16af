package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/instaprompt/backend/api/responses"
	"github.com/instaprompt/backend/pkg/config"
	pkgerrors "github.com/instaprompt/backend/pkg/errors"
	"github.com/instaprompt/backend/pkg/logger"
)

// RateLimiterStore is the counter surface backing the throttle,
// satisfied by the redis client.
type RateLimiterStore interface {
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

// WebhookRateLimit caps how often a single IP can hit the form webhook.
// The endpoint is unauthenticated, so this is the only throttle in front
// of the OpenAI spend. A limit of zero disables it.
func WebhookRateLimit(cfg config.RateLimitConfig, store RateLimiterStore, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if cfg.WebhookIPLimit <= 0 || cfg.WebhookWindow <= 0 || store == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			ip := clientIP(r)
			scope := "webhook:ip:" + ip
			allowed, count, err := store.FixedWindowAllow(ctx, scope, int64(cfg.WebhookIPLimit), cfg.WebhookWindow)
			if err != nil {
				// A Redis outage should not block caption delivery.
				if logg != nil {
					logg.Warn(ctx, "rate limit store unavailable, admitting request")
				}
				next.ServeHTTP(w, r)
				return
			}
			if !allowed {
				if logg != nil {
					logCtx := logg.WithFields(ctx, map[string]any{
						"ip":       ip,
						"attempts": count,
						"limit":    cfg.WebhookIPLimit,
					})
					logg.Warn(logCtx, "webhook.rate_limit.blocked")
				}
				responses.WriteTextError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeRateLimit, "too many requests, slow down"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	if header := r.Header.Get("X-Forwarded-For"); header != "" {
		for _, part := range strings.Split(header, ",") {
			if ip := strings.TrimSpace(part); ip != "" {
				return ip
			}
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return host
	}
	return r.RemoteAddr
}
