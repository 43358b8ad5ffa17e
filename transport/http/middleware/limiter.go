package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"hotel/infras/metrics"
	"hotel/shared"
	"hotel/shared/constant"
	"hotel/transport/http/response"
)

const (
	cacheKeyRateLimit = "limiter"
)

// RateLimit counts requests per client in Redis over a fixed window that
// opens with the client's first request and expires on its own. When
// Redis is unreachable each instance falls back to an in-process token
// bucket with the same average rate.
func (a *appMiddleware) RateLimit() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !a.config.App.RateLimiter.Enable {
				next.ServeHTTP(w, r)

				return
			}

			maxReqs := a.config.App.RateLimiter.MaxRequests
			windowSecs := a.config.App.RateLimiter.WindowSeconds

			userAgent := a.getUA(r)
			clientIP := a.getClientIP(r)
			cacheKey := shared.BuildCacheKey(cacheKeyRateLimit, clientIP, userAgent)

			hits, err := a.cache.Increment(r.Context(), cacheKey, windowSecs)
			if err != nil {
				a.fallback(w, r, next, cacheKey)

				return
			}

			count := int(hits)
			if count > maxReqs {
				metrics.IncRateLimited()
				response.WithRequestLimitExceeded(w)

				return
			}

			w.Header().Set(constant.RequestHeaderRateLimit, strconv.Itoa(maxReqs))
			w.Header().Set(constant.RequestHeaderRateLimitRemaining, strconv.Itoa(max(0, maxReqs-count)))
			w.Header().Set(constant.RequestHeaderRateLimitWindow, strconv.Itoa(windowSecs))

			next.ServeHTTP(w, r)
		})
	}
}

func (a *appMiddleware) fallback(w http.ResponseWriter, r *http.Request, next http.Handler, key string) {
	if !a.limiter(key).Allow() {
		metrics.IncRateLimited()
		response.WithRequestLimitExceeded(w)

		return
	}

	next.ServeHTTP(w, r)
}

func (a *appMiddleware) limiter(key string) *rate.Limiter {
	if v, ok := a.limiters.Load(key); ok {
		if lim, ok := v.(*rate.Limiter); ok {
			return lim
		}
	}

	maxReqs := max(a.config.App.RateLimiter.MaxRequests, 1)
	window := time.Duration(max(a.config.App.RateLimiter.WindowSeconds, 1)) * time.Second

	lim := rate.NewLimiter(rate.Every(window/time.Duration(maxReqs)), maxReqs)

	actual, _ := a.limiters.LoadOrStore(key, lim)
	if stored, ok := actual.(*rate.Limiter); ok {
		return stored
	}

	return lim
}

func (a *appMiddleware) getUA(r *http.Request) string {
	ua := r.Header.Get(constant.RequestHeaderUserAgent)
	if ua == constant.Empty {
		ua = "unknown"
	}

	return ua
}

func (a *appMiddleware) getClientIP(r *http.Request) string {
	// X-Forwarded-For may list a chain of proxies; the first entry is the client.
	if xff := r.Header.Get(constant.RequestHeaderForwardedFor); xff != constant.Empty {
		if commaIdx := strings.Index(xff, ","); commaIdx > 0 {
			return strings.TrimSpace(xff[:commaIdx])
		}

		return strings.TrimSpace(xff)
	}

	if xri := r.Header.Get(constant.RequestHeaderRealIP); xri != constant.Empty {
		return strings.TrimSpace(xri)
	}

	return r.RemoteAddr
}
