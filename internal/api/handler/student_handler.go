package handler

import (
	"net/http"

	"eclass/internal/api/middleware"
	"eclass/internal/api/view"
	"eclass/internal/app/service"
	"eclass/internal/domain/model"

	"github.com/go-chi/chi/v5"
)

type StudentHandler struct {
	assignmentService *service.AssignmentService
	submissionService *service.SubmissionService
}

func NewStudentHandler(as *service.AssignmentService, ss *service.SubmissionService) *StudentHandler {
	return &StudentHandler{assignmentService: as, submissionService: ss}
}

func (h *StudentHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.dashboard)
	r.Post("/assignments/{slug}/submit", h.submit)
}

type studentAssignmentRow struct {
	Assignment model.Assignment
	Submission *model.Submission // nil when not yet submitted
}

type studentDashboardData struct {
	Upcoming    []studentAssignmentRow
	Overdue     []studentAssignmentRow
	Submissions []model.Submission
}

func (h *StudentHandler) dashboard(w http.ResponseWriter, r *http.Request) {
	principal, _ := middleware.GetPrincipal(r.Context())
	ctx := r.Context()

	upcoming, err := h.assignmentService.FindUpcoming(ctx)
	if err != nil {
		flashAndRedirect(w, r, "/", "error", "Failed to load assignments")
		return
	}
	overdue, err := h.assignmentService.FindOverdue(ctx)
	if err != nil {
		flashAndRedirect(w, r, "/", "error", "Failed to load assignments")
		return
	}
	submissions, err := h.submissionService.FindByStudent(ctx, principal.ID)
	if err != nil {
		flashAndRedirect(w, r, "/", "error", "Failed to load submissions")
		return
	}

	byAssignment := make(map[string]*model.Submission, len(submissions))
	for i := range submissions {
		byAssignment[submissions[i].AssignmentID] = &submissions[i]
	}
	rows := func(assignments []model.Assignment) []studentAssignmentRow {
		out := make([]studentAssignmentRow, 0, len(assignments))
		for _, a := range assignments {
			out = append(out, studentAssignmentRow{Assignment: a, Submission: byAssignment[a.ID]})
		}
		return out
	}

	data := studentDashboardData{
		Upcoming:    rows(upcoming),
		Overdue:     rows(overdue),
		Submissions: submissions,
	}
	view.Render(w, r, "student.html", view.Page{Title: "Student", Principal: principal, Data: data})
}

func (h *StudentHandler) submit(w http.ResponseWriter, r *http.Request) {
	principal, _ := middleware.GetPrincipal(r.Context())
	if err := r.ParseForm(); err != nil {
		flashAndRedirect(w, r, "/student", "error", "Invalid form data")
		return
	}
	content := r.PostFormValue("content")
	if content == "" {
		flashAndRedirect(w, r, "/student", "error", "Submission content is required")
		return
	}

	assignment, err := h.assignmentService.FindBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		flashAndRedirect(w, r, "/student", "error", "Assignment not found")
		return
	}

	// Resubmission replaces content and refreshes the timestamp; there is
	// never more than one submission per assignment per student.
	if _, err := h.submissionService.SubmitOrUpdate(r.Context(), assignment.ID, principal.ID, content); err != nil {
		flashAndRedirect(w, r, "/student", "error", errMessage(err))
		return
	}
	flashAndRedirect(w, r, "/student", "success", "Submitted: "+assignment.Title)
}
