package handler

import (
	"net/http"

	"eclass/internal/api/middleware"
	"eclass/internal/api/view"
	"eclass/internal/app/service"
	"eclass/internal/common"
	"eclass/internal/common/security"
	"eclass/internal/domain/model"
	"eclass/internal/domain/repository"
	"eclass/internal/platform/config"
	"eclass/internal/platform/sessions"

	"github.com/go-chi/jwtauth/v5"
)

// dashboardPaths routes a role to its dashboard; a pure lookup, no branching
// duplicated across handlers.
var dashboardPaths = map[string]string{
	model.RoleAdmin:   "/admin",
	model.RoleTeacher: "/teacher",
	model.RoleStudent: "/student",
}

// DashboardPath returns the dashboard route for a role, falling back to the
// login page for anything unknown.
func DashboardPath(role string) string {
	if path, ok := dashboardPaths[role]; ok {
		return path
	}
	return "/login"
}

type AuthHandler struct {
	authService  *service.AuthService
	userRepo     repository.UserRepository
	sessionStore sessions.Store
}

func NewAuthHandler(authService *service.AuthService, userRepo repository.UserRepository, sessionStore sessions.Store) *AuthHandler {
	return &AuthHandler{authService: authService, userRepo: userRepo, sessionStore: sessionStore}
}

type loginForm struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
}

// resolvePrincipal mirrors the Authenticator checks for routes mounted
// outside it (the login page bounces visitors that are still logged in).
func (h *AuthHandler) resolvePrincipal(r *http.Request) (*model.User, bool) {
	token, claims, err := jwtauth.FromContext(r.Context())
	if err != nil || token == nil {
		return nil, false
	}
	jti, err := security.GetSessionIDFromClaims(claims)
	if err != nil {
		return nil, false
	}
	if live, err := h.sessionStore.Exists(r.Context(), jti); err != nil || !live {
		return nil, false
	}
	userID, err := security.GetUserIDFromClaims(claims)
	if err != nil {
		return nil, false
	}
	user, err := h.userRepo.FindByID(r.Context(), userID)
	if err != nil || !user.Enabled {
		return nil, false
	}
	return user, true
}

// Home redirects every visitor to the dashboard matching their role. There
// is no landing page shared across roles.
func (h *AuthHandler) Home(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, DashboardPath(principal.Role), http.StatusSeeOther)
}

func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	if principal, ok := h.resolvePrincipal(r); ok {
		http.Redirect(w, r, DashboardPath(principal.Role), http.StatusSeeOther)
		return
	}
	view.Render(w, r, "login.html", view.Page{Title: "Sign in"})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		view.SetFlash(w, "error", "Invalid form data")
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	form := loginForm{
		Username: r.PostFormValue("username"),
		Password: r.PostFormValue("password"),
	}
	if err := common.CheckStruct(form); err != nil {
		view.SetFlash(w, "error", "Username and password are required")
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	user, token, err := h.authService.Login(r.Context(), form.Username, form.Password)
	if err != nil {
		view.SetFlash(w, "error", "Invalid username or password")
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     security.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(config.AppConfig.SessionTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, DashboardPath(user.Role), http.StatusSeeOther)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if jti, ok := middleware.GetSessionID(r.Context()); ok {
		_ = h.authService.Logout(r.Context(), jti)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     security.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
