package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/cargolink/freight-service/internal/entities"
	"github.com/cargolink/freight-service/pkg/utils"
)

type actorKey struct{}

// Actor materializes the authenticated caller from the headers the upstream
// auth layer sets. Session issuance and verification live outside this
// service; requests arriving here are already authenticated.
func Actor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := strconv.ParseInt(r.Header.Get("X-User-ID"), 10, 64)
		if err != nil || userID <= 0 {
			utils.WriteError(w, "unauthenticated", http.StatusUnauthorized)
			return
		}

		role := entities.Role(r.Header.Get("X-User-Role"))
		if !role.Valid() {
			utils.WriteError(w, "unknown role", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), actorKey{}, entities.Actor{UserID: userID, Role: role})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func ActorFromContext(ctx context.Context) (entities.Actor, bool) {
	actor, ok := ctx.Value(actorKey{}).(entities.Actor)
	return actor, ok
}
