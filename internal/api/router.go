package api

import (
	"net/http"
	"time"

	"eclass/internal/api/handler"
	"eclass/internal/api/middleware"
	"eclass/internal/app/service"
	"eclass/internal/common"
	"eclass/internal/common/security"
	"eclass/internal/domain/model"
	"eclass/internal/domain/repository"
	"eclass/internal/platform/sessions"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(
	authService *service.AuthService,
	userService *service.UserService,
	assignmentService *service.AssignmentService,
	submissionService *service.SubmissionService,
	userRepo repository.UserRepository,
	sessionStore sessions.Store,
) http.Handler {
	r := chi.NewRouter()

	// Base Middlewares
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))

	// Verifies the session cookie and puts claims in context; the
	// Authenticator below decides what an invalid or revoked token means.
	r.Use(jwtauth.Verifier(security.TokenAuth))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		common.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	authHandler := handler.NewAuthHandler(authService, userRepo, sessionStore)

	// Public routes
	r.Get("/login", authHandler.LoginPage)
	r.Post("/login", authHandler.Login)

	// Authenticated routes
	r.Group(func(authed chi.Router) {
		authed.Use(middleware.Authenticator(userRepo, sessionStore))

		authed.Get("/", authHandler.Home)
		authed.Post("/logout", authHandler.Logout)

		adminHandler := handler.NewAdminHandler(userService)
		authed.Route("/admin", func(admin chi.Router) {
			admin.Use(middleware.RequireRole(model.RoleAdmin))
			adminHandler.RegisterRoutes(admin)
		})

		teacherHandler := handler.NewTeacherHandler(assignmentService, submissionService)
		authed.Route("/teacher", func(teacher chi.Router) {
			teacher.Use(middleware.RequireRole(model.RoleTeacher))
			teacherHandler.RegisterRoutes(teacher)
		})

		studentHandler := handler.NewStudentHandler(assignmentService, submissionService)
		authed.Route("/student", func(student chi.Router) {
			student.Use(middleware.RequireRole(model.RoleStudent))
			studentHandler.RegisterRoutes(student)
		})
	})

	return r
}
