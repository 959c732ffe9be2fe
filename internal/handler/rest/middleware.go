package rest

import (
	"context"
	"net/http"
	"strings"

	"github.com/campuslink/channel-delivery-service/internal/domain/model"
	"github.com/campuslink/channel-delivery-service/internal/service"
)

type ctxKey int

const identityKey ctxKey = iota

// IdentityFrom returns the verified caller identity injected by BearerAuth.
func IdentityFrom(ctx context.Context) (model.Identity, bool) {
	id, ok := ctx.Value(identityKey).(model.Identity)
	return id, ok
}

// BearerAuth verifies the Authorization header and injects the resulting
// Identity into the request context. Requests without a valid credential
// never reach the handlers.
func BearerAuth(auth service.Auther) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")

			identity, err := auth.Verify(r.Context(), token)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "unauthorized")
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
