package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eclass/internal/app/service"
	"eclass/internal/common/security"
	"eclass/internal/domain/model"
	"eclass/internal/domain/repository"
	"eclass/internal/domain/repository/inmem"
	"eclass/internal/platform/config"
	"eclass/internal/platform/sessions"
)

type testApp struct {
	router      http.Handler
	users       *service.UserService
	assignments *service.AssignmentService
	submissions *service.SubmissionService
	userRepo    repository.UserRepository
	sessions    sessions.Store
}

func setupApp(t *testing.T) *testApp {
	t.Helper()

	config.AppConfig = &config.Config{
		JWTKey:     []byte("test-secret"),
		SessionTTL: time.Hour,
	}
	security.InitJWT()

	db := inmem.NewDB()
	userRepo := inmem.NewUserRepository(db)
	assignmentRepo := inmem.NewAssignmentRepository(db)
	submissionRepo := inmem.NewSubmissionRepository(db)
	sessionStore := sessions.NewMemoryStore()

	authService := service.NewAuthService(userRepo, sessionStore)
	userService := service.NewUserService(userRepo)
	assignmentService := service.NewAssignmentService(assignmentRepo)
	submissionService := service.NewSubmissionService(submissionRepo, assignmentRepo)

	return &testApp{
		router:      NewRouter(authService, userService, assignmentService, submissionService, userRepo, sessionStore),
		users:       userService,
		assignments: assignmentService,
		submissions: submissionService,
		userRepo:    userRepo,
		sessions:    sessionStore,
	}
}

func (a *testApp) createUser(t *testing.T, username, password, role string) *model.User {
	t.Helper()
	user, err := a.users.CreateUser(context.Background(), service.CreateUserRequest{
		Username: username,
		Password: password,
		FullName: "Test " + username,
		Role:     role,
	})
	require.NoError(t, err)
	return user
}

// login posts the credentials and returns the session cookie.
func (a *testApp) login(t *testing.T, username, password string) *http.Cookie {
	t.Helper()
	rec := a.do(http.MethodPost, "/login", url.Values{
		"username": {username},
		"password": {password},
	}, nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	for _, c := range rec.Result().Cookies() {
		if c.Name == security.SessionCookieName && c.Value != "" {
			return c
		}
	}
	t.Fatal("login did not set a session cookie")
	return nil
}

func (a *testApp) do(method, path string, form url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
	var body *strings.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	} else {
		body = strings.NewReader("")
	}
	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	app := setupApp(t)
	rec := app.do(http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestAnonymousVisitorIsSentToLogin(t *testing.T) {
	app := setupApp(t)

	for _, path := range []string{"/", "/admin", "/teacher", "/student"} {
		rec := app.do(http.MethodGet, path, nil, nil)
		assert.Equal(t, http.StatusSeeOther, rec.Code, path)
		assert.Equal(t, "/login", rec.Header().Get("Location"), path)
	}
}

func TestLoginPageRenders(t *testing.T) {
	app := setupApp(t)
	rec := app.do(http.MethodGet, "/login", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Sign in")
}

func TestLoginRedirectsByRole(t *testing.T) {
	app := setupApp(t)
	app.createUser(t, "admin", "admin123", model.RoleAdmin)
	app.createUser(t, "teacher1", "teacher123", model.RoleTeacher)
	app.createUser(t, "student1", "student123", model.RoleStudent)

	tests := []struct {
		username string
		password string
		wantPath string
	}{
		{username: "admin", password: "admin123", wantPath: "/admin"},
		{username: "teacher1", password: "teacher123", wantPath: "/teacher"},
		{username: "student1", password: "student123", wantPath: "/student"},
	}
	for _, tt := range tests {
		t.Run(tt.username, func(t *testing.T) {
			rec := app.do(http.MethodPost, "/login", url.Values{
				"username": {tt.username},
				"password": {tt.password},
			}, nil)
			assert.Equal(t, http.StatusSeeOther, rec.Code)
			assert.Equal(t, tt.wantPath, rec.Header().Get("Location"))

			var sessionCookie *http.Cookie
			for _, c := range rec.Result().Cookies() {
				if c.Name == security.SessionCookieName {
					sessionCookie = c
				}
			}
			require.NotNil(t, sessionCookie)
			assert.True(t, sessionCookie.HttpOnly, "session cookie must be http-only")

			// The root route lands on the same dashboard.
			rec = app.do(http.MethodGet, "/", nil, sessionCookie)
			assert.Equal(t, http.StatusSeeOther, rec.Code)
			assert.Equal(t, tt.wantPath, rec.Header().Get("Location"))
		})
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	app := setupApp(t)
	app.createUser(t, "admin", "admin123", model.RoleAdmin)

	tests := []struct {
		name string
		form url.Values
	}{
		{name: "wrong password", form: url.Values{"username": {"admin"}, "password": {"nope"}}},
		{name: "unknown user", form: url.Values{"username": {"ghost"}, "password": {"admin123"}}},
		{name: "empty form", form: url.Values{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := app.do(http.MethodPost, "/login", tt.form, nil)
			assert.Equal(t, http.StatusSeeOther, rec.Code)
			assert.Equal(t, "/login", rec.Header().Get("Location"))
			for _, c := range rec.Result().Cookies() {
				assert.NotEqual(t, security.SessionCookieName, c.Name, "failed login must not set a session cookie")
			}
		})
	}
}

func TestDashboardsAreRoleGated(t *testing.T) {
	app := setupApp(t)
	app.createUser(t, "student1", "student123", model.RoleStudent)
	cookie := app.login(t, "student1", "student123")

	// Own dashboard renders.
	rec := app.do(http.MethodGet, "/student", nil, cookie)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Student dashboard")

	// Foreign dashboards bounce to the root redirect.
	for _, path := range []string{"/admin", "/teacher"} {
		rec := app.do(http.MethodGet, path, nil, cookie)
		assert.Equal(t, http.StatusSeeOther, rec.Code, path)
		assert.Equal(t, "/", rec.Header().Get("Location"), path)
	}
}

func TestLoggedInVisitorSkipsLoginPage(t *testing.T) {
	app := setupApp(t)
	app.createUser(t, "admin", "admin123", model.RoleAdmin)
	cookie := app.login(t, "admin", "admin123")

	rec := app.do(http.MethodGet, "/login", nil, cookie)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin", rec.Header().Get("Location"))
}

func TestLogoutRevokesTheSession(t *testing.T) {
	app := setupApp(t)
	app.createUser(t, "admin", "admin123", model.RoleAdmin)
	cookie := app.login(t, "admin", "admin123")

	rec := app.do(http.MethodPost, "/logout", nil, cookie)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))

	// The old token has not expired but its session is gone.
	rec = app.do(http.MethodGet, "/admin", nil, cookie)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestDisabledAccountLosesAccessMidSession(t *testing.T) {
	app := setupApp(t)
	user := app.createUser(t, "teacher1", "teacher123", model.RoleTeacher)
	cookie := app.login(t, "teacher1", "teacher123")

	rec := app.do(http.MethodGet, "/teacher", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	_, err := app.users.ToggleEnabled(context.Background(), user.ID)
	require.NoError(t, err)

	rec = app.do(http.MethodGet, "/teacher", nil, cookie)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestAdminManagesUsers(t *testing.T) {
	app := setupApp(t)
	app.createUser(t, "admin", "admin123", model.RoleAdmin)
	cookie := app.login(t, "admin", "admin123")
	ctx := context.Background()

	rec := app.do(http.MethodPost, "/admin/users", url.Values{
		"username":  {"newteacher"},
		"password":  {"secret123"},
		"full_name": {"New Teacher"},
		"email":     {"newteacher@test.local"},
		"role":      {model.RoleTeacher},
	}, cookie)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin", rec.Header().Get("Location"))

	created, err := app.users.FindByUsername(ctx, "newteacher")
	require.NoError(t, err)
	assert.True(t, created.Enabled)

	// Duplicate username bounces back without a second row.
	rec = app.do(http.MethodPost, "/admin/users", url.Values{
		"username":  {"newteacher"},
		"password":  {"secret123"},
		"full_name": {"Copycat"},
		"role":      {model.RoleTeacher},
	}, cookie)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	all, err := app.users.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	// Toggle then delete.
	rec = app.do(http.MethodPost, "/admin/users/"+created.ID+"/toggle", nil, cookie)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	toggled, err := app.users.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, toggled.Enabled)

	rec = app.do(http.MethodPost, "/admin/users/"+created.ID+"/delete", nil, cookie)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	_, err = app.users.FindByID(ctx, created.ID)
	assert.Error(t, err)
}

func TestTeacherAndStudentAssignmentFlow(t *testing.T) {
	app := setupApp(t)
	app.createUser(t, "teacher1", "teacher123", model.RoleTeacher)
	student := app.createUser(t, "student1", "student123", model.RoleStudent)
	ctx := context.Background()

	teacherCookie := app.login(t, "teacher1", "teacher123")
	due := time.Now().AddDate(0, 0, 7).Format("2006-01-02T15:04")
	rec := app.do(http.MethodPost, "/teacher/assignments", url.Values{
		"title":       {"History Essay"},
		"description": {"Two pages on the industrial revolution."},
		"due_date":    {due},
	}, teacherCookie)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/teacher", rec.Header().Get("Location"))

	assignments, err := app.assignments.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, assignments, 1)
	assignment := assignments[0]

	// Student submits, then resubmits; one row with the latest text.
	studentCookie := app.login(t, "student1", "student123")
	rec = app.do(http.MethodPost, "/student/assignments/"+assignment.Slug+"/submit", url.Values{
		"content": {"first draft"},
	}, studentCookie)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/student", rec.Header().Get("Location"))

	rec = app.do(http.MethodPost, "/student/assignments/"+assignment.Slug+"/submit", url.Values{
		"content": {"final version"},
	}, studentCookie)
	assert.Equal(t, http.StatusSeeOther, rec.Code)

	submissions, err := app.submissions.FindByStudent(ctx, student.ID)
	require.NoError(t, err)
	require.Len(t, submissions, 1)
	assert.Equal(t, "final version", submissions[0].Content)

	// Teacher grades it.
	rec = app.do(http.MethodPost, "/teacher/submissions/"+submissions[0].ID+"/grade", url.Values{
		"grade":    {"85"},
		"feedback": {"solid work"},
	}, teacherCookie)
	assert.Equal(t, http.StatusSeeOther, rec.Code)

	graded, err := app.submissions.FindByID(ctx, submissions[0].ID)
	require.NoError(t, err)
	require.NotNil(t, graded.Grade)
	assert.Equal(t, 85, *graded.Grade)

	// An out-of-range grade bounces and leaves the stored grade alone.
	rec = app.do(http.MethodPost, "/teacher/submissions/"+submissions[0].ID+"/grade", url.Values{
		"grade": {"101"},
	}, teacherCookie)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	graded, err = app.submissions.FindByID(ctx, submissions[0].ID)
	require.NoError(t, err)
	require.NotNil(t, graded.Grade)
	assert.Equal(t, 85, *graded.Grade)
}

func TestTeacherCannotGradeForeignSubmission(t *testing.T) {
	app := setupApp(t)
	owner := app.createUser(t, "owner", "owner1234", model.RoleTeacher)
	app.createUser(t, "rival", "rival1234", model.RoleTeacher)
	student := app.createUser(t, "student1", "student123", model.RoleStudent)
	ctx := context.Background()

	assignment, err := app.assignments.CreateAssignment(ctx, service.CreateAssignmentRequest{
		Title:     "Essay",
		DueDate:   time.Now().AddDate(0, 0, 7),
		TeacherID: owner.ID,
	})
	require.NoError(t, err)
	submission, err := app.submissions.Submit(ctx, assignment.ID, student.ID, "draft")
	require.NoError(t, err)

	rivalCookie := app.login(t, "rival", "rival1234")
	rec := app.do(http.MethodPost, "/teacher/submissions/"+submission.ID+"/grade", url.Values{
		"grade": {"10"},
	}, rivalCookie)
	assert.Equal(t, http.StatusSeeOther, rec.Code)

	ungraded, err := app.submissions.FindByID(ctx, submission.ID)
	require.NoError(t, err)
	assert.Nil(t, ungraded.Grade)
}
