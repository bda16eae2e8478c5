package middleware

import (
	"net/http"
	"strconv"

	"github.com/frahmantamala/money-ledger/internal"
	"github.com/frahmantamala/money-ledger/pkg/logger"
)

// OwnerContext threads the owner identifier into the request context.
// Authentication itself is an external collaborator; this trusts the
// X-Owner-ID header the upstream gateway sets after verifying the
// session. Requests without a usable owner id are rejected here so no
// handler ever runs unscoped.
func OwnerContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get("X-Owner-ID")
		ownerID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || ownerID <= 0 {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"code": 401, "message": "missing or invalid owner identifier"}`))
			return
		}

		ctx := internal.ContextWithOwnerID(r.Context(), ownerID)
		ctx = logger.With(ctx, "ownerID", ownerID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
