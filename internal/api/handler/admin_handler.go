package handler

import (
	"net/http"

	"eclass/internal/api/middleware"
	"eclass/internal/api/view"
	"eclass/internal/app/service"
	"eclass/internal/common"
	"eclass/internal/domain/model"

	"github.com/go-chi/chi/v5"
)

type AdminHandler struct {
	userService *service.UserService
}

func NewAdminHandler(userService *service.UserService) *AdminHandler {
	return &AdminHandler{userService: userService}
}

func (h *AdminHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.dashboard)
	r.Post("/users", h.createUser)
	r.Post("/users/{userID}/update", h.updateUser)
	r.Post("/users/{userID}/toggle", h.toggleUser)
	r.Post("/users/{userID}/delete", h.deleteUser)
}

type adminDashboardData struct {
	AdminCount   int
	TeacherCount int
	StudentCount int
	Users        []model.User
	Search       string
}

type userForm struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password"`
	FullName string `form:"full_name" validate:"required"`
	Email    string `form:"email" validate:"omitempty,email"`
	Role     string `form:"role" validate:"required,oneof=admin teacher student"`
}

func (h *AdminHandler) dashboard(w http.ResponseWriter, r *http.Request) {
	principal, _ := middleware.GetPrincipal(r.Context())
	ctx := r.Context()

	search := r.URL.Query().Get("q")
	var (
		users []model.User
		err   error
	)
	if search != "" {
		users, err = h.userService.Search(ctx, search)
	} else {
		users, err = h.userService.FindAll(ctx)
	}
	if err != nil {
		flashAndRedirect(w, r, "/", "error", "Failed to load users")
		return
	}

	data := adminDashboardData{Users: users, Search: search}
	if data.AdminCount, err = h.userService.CountByRole(ctx, model.RoleAdmin); err == nil {
		if data.TeacherCount, err = h.userService.CountByRole(ctx, model.RoleTeacher); err == nil {
			data.StudentCount, err = h.userService.CountByRole(ctx, model.RoleStudent)
		}
	}
	if err != nil {
		flashAndRedirect(w, r, "/", "error", "Failed to load user counts")
		return
	}

	view.Render(w, r, "admin.html", view.Page{Title: "Admin", Principal: principal, Data: data})
}

func (h *AdminHandler) createUser(w http.ResponseWriter, r *http.Request) {
	form, err := parseUserForm(r)
	if err != nil {
		flashAndRedirect(w, r, "/admin", "error", errMessage(err))
		return
	}
	if form.Password == "" {
		flashAndRedirect(w, r, "/admin", "error", "password is required")
		return
	}

	user, err := h.userService.CreateUser(r.Context(), service.CreateUserRequest{
		Username: form.Username,
		Password: form.Password,
		FullName: form.FullName,
		Email:    form.Email,
		Role:     form.Role,
	})
	if err != nil {
		flashAndRedirect(w, r, "/admin", "error", errMessage(err))
		return
	}
	flashAndRedirect(w, r, "/admin", "success", "User created: "+user.Username)
}

func (h *AdminHandler) updateUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	form, err := parseUserForm(r)
	if err != nil {
		flashAndRedirect(w, r, "/admin", "error", errMessage(err))
		return
	}
	enabled := r.PostFormValue("enabled") == "true"

	user, err := h.userService.UpdateUser(r.Context(), service.UpdateUserRequest{
		ID:       userID,
		Username: form.Username,
		Password: form.Password, // blank keeps the stored hash
		FullName: form.FullName,
		Email:    form.Email,
		Role:     form.Role,
		Enabled:  enabled,
	})
	if err != nil {
		flashAndRedirect(w, r, "/admin", "error", errMessage(err))
		return
	}
	flashAndRedirect(w, r, "/admin", "success", "User updated: "+user.Username)
}

func (h *AdminHandler) toggleUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	user, err := h.userService.ToggleEnabled(r.Context(), userID)
	if err != nil {
		flashAndRedirect(w, r, "/admin", "error", errMessage(err))
		return
	}
	status := "disabled"
	if user.Enabled {
		status = "enabled"
	}
	flashAndRedirect(w, r, "/admin", "success", "User "+user.Username+" "+status)
}

func (h *AdminHandler) deleteUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if err := h.userService.DeleteUser(r.Context(), userID); err != nil {
		flashAndRedirect(w, r, "/admin", "error", errMessage(err))
		return
	}
	flashAndRedirect(w, r, "/admin", "success", "User deleted")
}

func parseUserForm(r *http.Request) (*userForm, error) {
	if err := r.ParseForm(); err != nil {
		return nil, common.Errorf("invalid form data: %w", common.ErrBadRequest)
	}
	form := &userForm{
		Username: r.PostFormValue("username"),
		Password: r.PostFormValue("password"),
		FullName: r.PostFormValue("full_name"),
		Email:    r.PostFormValue("email"),
		Role:     r.PostFormValue("role"),
	}
	if err := common.CheckStruct(form); err != nil {
		return nil, err
	}
	return form, nil
}
