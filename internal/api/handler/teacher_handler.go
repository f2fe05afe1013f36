package handler

import (
	"net/http"
	"strconv"

	"eclass/internal/api/middleware"
	"eclass/internal/api/view"
	"eclass/internal/app/service"
	"eclass/internal/common"
	"eclass/internal/domain/model"

	"github.com/go-chi/chi/v5"
)

type TeacherHandler struct {
	assignmentService *service.AssignmentService
	submissionService *service.SubmissionService
}

func NewTeacherHandler(as *service.AssignmentService, ss *service.SubmissionService) *TeacherHandler {
	return &TeacherHandler{assignmentService: as, submissionService: ss}
}

func (h *TeacherHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.dashboard)
	r.Post("/assignments", h.createAssignment)
	r.Post("/assignments/{slug}/update", h.updateAssignment)
	r.Post("/assignments/{slug}/delete", h.deleteAssignment)
	r.Post("/submissions/{submissionID}/grade", h.gradeSubmission)
}

type assignmentRow struct {
	model.Assignment
	SubmissionCount int
}

type teacherDashboardData struct {
	AssignmentCount int
	SubmissionCount int
	UngradedCount   int
	Assignments     []assignmentRow
	Submissions     []model.Submission
}

type assignmentForm struct {
	Title       string `form:"title" validate:"required"`
	Description string `form:"description"`
	DueDate     string `form:"due_date" validate:"required"`
}

func (h *TeacherHandler) dashboard(w http.ResponseWriter, r *http.Request) {
	principal, _ := middleware.GetPrincipal(r.Context())
	ctx := r.Context()

	assignments, err := h.assignmentService.FindByTeacher(ctx, principal.ID)
	if err != nil {
		flashAndRedirect(w, r, "/", "error", "Failed to load assignments")
		return
	}
	rows := make([]assignmentRow, 0, len(assignments))
	for _, a := range assignments {
		count, err := h.submissionService.CountByAssignment(ctx, a.ID)
		if err != nil {
			flashAndRedirect(w, r, "/", "error", "Failed to load submission counts")
			return
		}
		rows = append(rows, assignmentRow{Assignment: a, SubmissionCount: count})
	}

	submissions, err := h.submissionService.FindByTeacher(ctx, principal.ID)
	if err != nil {
		flashAndRedirect(w, r, "/", "error", "Failed to load submissions")
		return
	}
	ungraded, err := h.submissionService.CountUngradedByTeacher(ctx, principal.ID)
	if err != nil {
		flashAndRedirect(w, r, "/", "error", "Failed to load ungraded count")
		return
	}

	data := teacherDashboardData{
		AssignmentCount: len(assignments),
		SubmissionCount: len(submissions),
		UngradedCount:   ungraded,
		Assignments:     rows,
		Submissions:     submissions,
	}
	view.Render(w, r, "teacher.html", view.Page{Title: "Teacher", Principal: principal, Data: data})
}

func parseAssignmentForm(r *http.Request) (*assignmentForm, error) {
	if err := r.ParseForm(); err != nil {
		return nil, common.Errorf("invalid form data: %w", common.ErrBadRequest)
	}
	form := &assignmentForm{
		Title:       r.PostFormValue("title"),
		Description: r.PostFormValue("description"),
		DueDate:     r.PostFormValue("due_date"),
	}
	if err := common.CheckStruct(form); err != nil {
		return nil, err
	}
	return form, nil
}

func (h *TeacherHandler) createAssignment(w http.ResponseWriter, r *http.Request) {
	principal, _ := middleware.GetPrincipal(r.Context())
	form, err := parseAssignmentForm(r)
	if err != nil {
		flashAndRedirect(w, r, "/teacher", "error", errMessage(err))
		return
	}
	dueDate, err := parseDateTimeLocal(form.DueDate)
	if err != nil {
		flashAndRedirect(w, r, "/teacher", "error", errMessage(err))
		return
	}

	assignment, err := h.assignmentService.CreateAssignment(r.Context(), service.CreateAssignmentRequest{
		Title:       form.Title,
		Description: form.Description,
		DueDate:     dueDate,
		TeacherID:   principal.ID,
	})
	if err != nil {
		flashAndRedirect(w, r, "/teacher", "error", errMessage(err))
		return
	}
	flashAndRedirect(w, r, "/teacher", "success", "Assignment created: "+assignment.Title)
}

func (h *TeacherHandler) updateAssignment(w http.ResponseWriter, r *http.Request) {
	principal, _ := middleware.GetPrincipal(r.Context())
	form, err := parseAssignmentForm(r)
	if err != nil {
		flashAndRedirect(w, r, "/teacher", "error", errMessage(err))
		return
	}
	dueDate, err := parseDateTimeLocal(form.DueDate)
	if err != nil {
		flashAndRedirect(w, r, "/teacher", "error", errMessage(err))
		return
	}

	assignment, err := h.assignmentService.FindBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		flashAndRedirect(w, r, "/teacher", "error", "Assignment not found")
		return
	}
	if _, err := h.assignmentService.UpdateAssignment(r.Context(), principal.ID, service.UpdateAssignmentRequest{
		ID:          assignment.ID,
		Title:       form.Title,
		Description: form.Description,
		DueDate:     dueDate,
	}); err != nil {
		flashAndRedirect(w, r, "/teacher", "error", errMessage(err))
		return
	}
	flashAndRedirect(w, r, "/teacher", "success", "Assignment updated")
}

func (h *TeacherHandler) deleteAssignment(w http.ResponseWriter, r *http.Request) {
	principal, _ := middleware.GetPrincipal(r.Context())
	assignment, err := h.assignmentService.FindBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		flashAndRedirect(w, r, "/teacher", "error", "Assignment not found")
		return
	}
	if err := h.assignmentService.DeleteAssignment(r.Context(), principal.ID, assignment.ID); err != nil {
		flashAndRedirect(w, r, "/teacher", "error", errMessage(err))
		return
	}
	flashAndRedirect(w, r, "/teacher", "success", "Assignment deleted with its submissions")
}

func (h *TeacherHandler) gradeSubmission(w http.ResponseWriter, r *http.Request) {
	principal, _ := middleware.GetPrincipal(r.Context())
	if err := r.ParseForm(); err != nil {
		flashAndRedirect(w, r, "/teacher", "error", "Invalid form data")
		return
	}

	// An empty grade field clears the numeric grade.
	var grade *int
	if gradeStr := r.PostFormValue("grade"); gradeStr != "" {
		g, err := strconv.Atoi(gradeStr)
		if err != nil {
			flashAndRedirect(w, r, "/teacher", "error", "Grade must be a whole number")
			return
		}
		if g < 0 || g > 100 {
			flashAndRedirect(w, r, "/teacher", "error", "Grade must be between 0 and 100")
			return
		}
		grade = &g
	}

	submissionID := chi.URLParam(r, "submissionID")
	submission, err := h.submissionService.FindByID(r.Context(), submissionID)
	if err != nil {
		flashAndRedirect(w, r, "/teacher", "error", "Submission not found")
		return
	}
	// Grading is restricted to submissions on the teacher's own assignments.
	assignment, err := h.assignmentService.FindByID(r.Context(), submission.AssignmentID)
	if err != nil || assignment.TeacherID != principal.ID {
		flashAndRedirect(w, r, "/teacher", "error", "You can only grade submissions to your own assignments")
		return
	}

	if _, err := h.submissionService.Grade(r.Context(), submissionID, grade, r.PostFormValue("feedback")); err != nil {
		flashAndRedirect(w, r, "/teacher", "error", errMessage(err))
		return
	}
	flashAndRedirect(w, r, "/teacher", "success", "Submission graded")
}
