package middleware

import (
	"net/http"

	"github.com/HammerMeetNail/friendfeed/internal/handlers"
	"github.com/HammerMeetNail/friendfeed/internal/logging"
	"github.com/HammerMeetNail/friendfeed/internal/services"
)

type AuthMiddleware struct {
	authService services.AuthServiceInterface
}

func NewAuthMiddleware(authService services.AuthServiceInterface) *AuthMiddleware {
	return &AuthMiddleware{authService: authService}
}

// Authenticate validates a bearer access token and adds the user to the
// context if valid. It does not reject unauthenticated requests.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := handlers.BearerToken(r)
		if token == "" || m.authService == nil {
			next.ServeHTTP(w, r)
			return
		}

		user, err := m.authService.ValidateToken(r.Context(), token)
		if err != nil {
			logging.FromContext(r.Context()).WithError(err).Debug("Rejected access token")
			next.ServeHTTP(w, r)
			return
		}

		ctx := handlers.SetUserInContext(r.Context(), user)
		ctx = logging.NewContext(ctx, logging.FromContext(ctx).WithField("user_id", user.ID.String()))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAuth rejects unauthenticated requests with 401.
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if handlers.GetUserFromContext(r.Context()) == nil {
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("WWW-Authenticate", `Bearer realm="friendfeed"`)
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error":"Authentication required"}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAuthFunc is RequireAuth for a handler function.
func (m *AuthMiddleware) RequireAuthFunc(fn http.HandlerFunc) http.Handler {
	return m.RequireAuth(fn)
}
