package http

import (
	"context"
	"net/http"

	"github.com/HarshanaAbeyrathne/SipsayuriBackend/internal/helper"
	"github.com/HarshanaAbeyrathne/SipsayuriBackend/internal/models"
)

// OperatorMiddleware defines the function signature for the operator-resolving middleware.
type OperatorMiddleware func(http.Handler) http.Handler

// NewOperatorMiddleware creates a middleware that resolves the acting operator
// from the X-User-Id and X-User-Name headers set by the upstream gateway.
// Requests without an identity proceed as the system user; authentication
// itself is enforced upstream, the operator here only feeds the audit trail.
func NewOperatorMiddleware() OperatorMiddleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := r.Header.Get("X-User-Id")
			if userID == "" {
				next.ServeHTTP(w, r)
				return
			}

			oid, err := helper.ObjectIDFromHex(userID)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			operator := &models.User{
				UserId: oid,
				Name:   r.Header.Get("X-User-Name"),
			}
			ctx := context.WithValue(r.Context(), helper.OperatorKey, operator)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
