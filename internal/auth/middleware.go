package auth

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gorilla/sessions"
)

const (
	SessionName = "picture_picker_session"
	userIDValue = "user_id"
)

type contextKey struct{}

// WithUserID returns a copy of ctx carrying the authenticated user's ID.
func WithUserID(ctx context.Context, userID uint) context.Context {
	return context.WithValue(ctx, contextKey{}, userID)
}

// UserIDFromContext returns the user ID stored by Middleware.
func UserIDFromContext(ctx context.Context) (uint, bool) {
	id, ok := ctx.Value(contextKey{}).(uint)
	return id, ok && id != 0
}

// Middleware rejects requests without a logged-in session and puts the
// session's user ID on the request context.
func Middleware(store sessions.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, err := store.Get(r, SessionName)
			if err != nil {
				slog.Debug("invalid session cookie", "error", err)
				http.Error(w, "Not Authorized", http.StatusUnauthorized)
				return
			}

			userID, ok := session.Values[userIDValue].(uint)
			if !ok || userID == 0 {
				http.Error(w, "Not Authorized", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}

// Login records userID in the session cookie.
func Login(w http.ResponseWriter, r *http.Request, store sessions.Store, userID uint) error {
	session, err := store.Get(r, SessionName)
	if err != nil && session == nil {
		return err
	}
	session.Values[userIDValue] = userID
	return session.Save(r, w)
}

// Logout expires the session cookie.
func Logout(w http.ResponseWriter, r *http.Request, store sessions.Store) error {
	session, err := store.Get(r, SessionName)
	if err != nil && session == nil {
		return err
	}
	delete(session.Values, userIDValue)
	session.Options.MaxAge = -1
	return session.Save(r, w)
}
