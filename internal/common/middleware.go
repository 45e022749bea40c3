package common

import (
	"encoding/json"
	"net/http"
	"strconv"
)

// Identity is the caller identity resolved by the upstream auth layer and
// forwarded on trusted headers. This service never authenticates; it only
// consumes the already-resolved result.
type Identity struct {
	UserID uint64
	Role   string
}

type identityKey struct{}

// IdentityMiddleware extracts X-User-ID and X-User-Role into the request
// context and rejects requests arriving without a resolved identity.
func IdentityMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := strconv.ParseUint(r.Header.Get("X-User-ID"), 10, 64)
		role := r.Header.Get("X-User-Role")
		if err != nil || role == "" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"error": "caller identity not resolved"})
			return
		}

		ctx := WithIdentity(r.Context(), Identity{UserID: userID, Role: role})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
