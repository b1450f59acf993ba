package middleware

import (
	"log/slog"
	"net"
	"net/http"
	"strconv"

	"github.com/storehub/catalog-service/internal/errors"
	repository "github.com/storehub/catalog-service/internal/repositories"
	"github.com/storehub/catalog-service/internal/utils/response"
)

type RateLimitMiddleware struct {
	repo repository.RateLimitRepository
}

func NewRateLimitMiddleware(repo repository.RateLimitRepository) *RateLimitMiddleware {
	return &RateLimitMiddleware{repo: repo}
}

// Limit throttles catalog mutations per client address. The limiter failing
// open is deliberate: a Redis outage must not take writes down with it.
func (m *RateLimitMiddleware) Limit(next http.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := LoggerFromContext(r.Context())

		clientKey, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			clientKey = r.RemoteAddr
		}

		allowed, remaining, retryAfter, err := m.repo.CheckMutationRateLimit(r.Context(), clientKey)
		if err != nil {
			logger.Warn("Rate limit check failed, allowing request", slog.String("error", err.Error()))
			next.ServeHTTP(w, r)

			return
		}

		if !allowed {
			logger.Warn("Rate limit exceeded", slog.String("client", clientKey))
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			response.Error(w, errors.TooManyRequestsError("Too many requests, slow down"))

			return
		}

		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
		next.ServeHTTP(w, r)
	}
}
