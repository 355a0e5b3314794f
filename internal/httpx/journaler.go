package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"guidedjournal/internal/domains"
	"guidedjournal/internal/storage"

	"github.com/gorilla/mux"
)

const journalerContextKey contextKey = "journaler"

type UserProvider interface {
	GetUserByID(ctx context.Context, id int64) (domains.User, error)
}

// Journaler loads the authenticated user. It must run after Protected.
func Journaler(provider UserProvider) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sub, ok := UserIdFromContext(r.Context())
			if !ok {
				Error(w, http.StatusUnauthorized, "Unauthorized")
				return
			}
			user, err := provider.GetUserByID(r.Context(), sub)
			if err != nil {
				if !errors.Is(err, storage.ErrNotFound) {
					slog.Error("GetUserByID failed", "err", err, "user_id", sub)
					Error(w, http.StatusInternalServerError, "internal error")
					return
				}
				Error(w, http.StatusUnauthorized, "Unauthorized")
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

func WithUser(ctx context.Context, user domains.User) context.Context {
	return context.WithValue(ctx, journalerContextKey, user)
}

func UserFromContext(ctx context.Context) (domains.User, bool) {
	user, ok := ctx.Value(journalerContextKey).(domains.User)
	return user, ok
}
