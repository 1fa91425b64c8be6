package http

import (
	"net"
	"net/http"

	"github.com/HarshanaAbeyrathne/SipsayuriBackend/internal/helper"
	"github.com/HarshanaAbeyrathne/SipsayuriBackend/internal/limiter"
	"github.com/HarshanaAbeyrathne/SipsayuriBackend/internal/models"
	"github.com/HarshanaAbeyrathne/SipsayuriBackend/internal/service"
)

// CreateRateLimitMiddleware creates a rate-limiting middleware bound to a named policy.
func CreateRateLimitMiddleware(limiterManager *limiter.Manager, policyName string) func(http.Handler) http.Handler {
	// Resolve the policy's limiter once, outside the request path.
	policyLimiter := limiterManager.Get(policyName)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identifier := requestIdentifier(r)

			allowed, err := policyLimiter.Allow(r.Context(), identifier)
			if err != nil {
				service.WriteHttpError(w, http.StatusInternalServerError, "Failed to check rate limit.")
				return
			}

			if !allowed {
				service.WriteHttpError(w, http.StatusTooManyRequests, "Too Many Requests")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// requestIdentifier picks the bucket key for a request: the operator id when
// the request carries one, otherwise the client address.
func requestIdentifier(r *http.Request) string {
	operator := helper.OperatorFromContext(r.Context())
	if operator != models.SystemUser {
		return operator.UserId.Hex()
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
