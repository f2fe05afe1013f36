package middleware

import (
	"context"
	"net/http"

	"eclass/internal/api/view"
	"eclass/internal/common"
	"eclass/internal/common/security"
	"eclass/internal/domain/model"
	"eclass/internal/domain/repository"
	"eclass/internal/platform/sessions"

	"github.com/go-chi/jwtauth/v5"
)

type contextKey string

const (
	PrincipalCtxKey contextKey = "principal"
	SessionIDCtxKey contextKey = "sessionID"
)

func redirectToLogin(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// Authenticator resolves the session cookie to a domain user: the token must
// verify, its jti must still be live in the session store, and the user must
// exist and be enabled. A request failing any step is sent to the login page.
func Authenticator(userRepo repository.UserRepository, sessionStore sessions.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, claims, err := jwtauth.FromContext(r.Context())
			if err != nil || token == nil {
				redirectToLogin(w, r)
				return
			}

			jti, err := security.GetSessionIDFromClaims(claims)
			if err != nil {
				redirectToLogin(w, r)
				return
			}
			live, err := sessionStore.Exists(r.Context(), jti)
			if err != nil {
				common.RespondWithError(w, common.HTTPStatusFromError(err), "internal server error")
				return
			}
			if !live {
				redirectToLogin(w, r)
				return
			}

			userID, err := security.GetUserIDFromClaims(claims)
			if err != nil {
				redirectToLogin(w, r)
				return
			}
			user, err := userRepo.FindByID(r.Context(), userID)
			if err != nil || !user.Enabled {
				redirectToLogin(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), PrincipalCtxKey, user)
			ctx = context.WithValue(ctx, SessionIDCtxKey, jti)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole gates a dashboard subtree on the principal's role, independent
// of the role-based redirect on the root route.
func RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := GetPrincipal(r.Context())
			if !ok || principal.Role != role {
				view.SetFlash(w, "error", "You do not have access to that page")
				http.Redirect(w, r, "/", http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func GetPrincipal(ctx context.Context) (*model.User, bool) {
	principal, ok := ctx.Value(PrincipalCtxKey).(*model.User)
	return principal, ok
}

func GetSessionID(ctx context.Context) (string, bool) {
	jti, ok := ctx.Value(SessionIDCtxKey).(string)
	return jti, ok
}
