package service

import (
	"context"
	"time"

	"eclass/internal/common"
	"eclass/internal/domain/model"
	"eclass/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

type AssignmentService struct {
	assignmentRepo repository.AssignmentRepository
	now            func() time.Time
}

func NewAssignmentService(assignmentRepo repository.AssignmentRepository) *AssignmentService {
	return &AssignmentService{
		assignmentRepo: assignmentRepo,
		now:            time.Now,
	}
}

type CreateAssignmentRequest struct {
	Title       string
	Description string
	DueDate     time.Time
	TeacherID   string
}

type UpdateAssignmentRequest struct {
	ID          string
	Title       string
	Description string
	DueDate     time.Time
}

func (s *AssignmentService) CreateAssignment(ctx context.Context, req CreateAssignmentRequest) (*model.Assignment, error) {
	if req.Title == "" || req.TeacherID == "" || req.DueDate.IsZero() {
		return nil, common.ErrBadRequest
	}

	id := uuid.NewString()
	assignment := &model.Assignment{
		ID:          id,
		Title:       req.Title,
		Slug:        slug.Make(req.Title) + "-" + id[:8], // id prefix keeps slugs unique across equal titles
		Description: req.Description,
		DueDate:     req.DueDate,
		CreatedAt:   s.now(),
		TeacherID:   req.TeacherID,
	}
	if err := s.assignmentRepo.Create(ctx, assignment); err != nil {
		return nil, common.Errorf("failed to create assignment: %w", err)
	}
	return assignment, nil
}

// UpdateAssignment lets the owning teacher change title, description and due
// date. created_at and ownership never change.
func (s *AssignmentService) UpdateAssignment(ctx context.Context, teacherID string, req UpdateAssignmentRequest) (*model.Assignment, error) {
	if req.ID == "" || req.Title == "" || req.DueDate.IsZero() {
		return nil, common.ErrBadRequest
	}

	assignment, err := s.assignmentRepo.FindByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	if assignment.TeacherID != teacherID {
		return nil, common.Errorf("only the owning teacher may edit an assignment: %w", common.ErrForbidden)
	}

	assignment.Title = req.Title
	assignment.Description = req.Description
	assignment.DueDate = req.DueDate
	if err := s.assignmentRepo.Update(ctx, assignment); err != nil {
		return nil, common.Errorf("failed to update assignment: %w", err)
	}
	return assignment, nil
}

// DeleteAssignment removes the assignment; the store's cascade contract
// removes its submissions with it.
func (s *AssignmentService) DeleteAssignment(ctx context.Context, teacherID, id string) error {
	assignment, err := s.assignmentRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if assignment.TeacherID != teacherID {
		return common.Errorf("only the owning teacher may delete an assignment: %w", common.ErrForbidden)
	}
	return s.assignmentRepo.Delete(ctx, id)
}

func (s *AssignmentService) FindAll(ctx context.Context) ([]model.Assignment, error) {
	return s.assignmentRepo.FindAll(ctx)
}

func (s *AssignmentService) FindByID(ctx context.Context, id string) (*model.Assignment, error) {
	return s.assignmentRepo.FindByID(ctx, id)
}

func (s *AssignmentService) FindBySlug(ctx context.Context, slug string) (*model.Assignment, error) {
	return s.assignmentRepo.FindBySlug(ctx, slug)
}

func (s *AssignmentService) FindByTeacher(ctx context.Context, teacherID string) ([]model.Assignment, error) {
	return s.assignmentRepo.FindByTeacher(ctx, teacherID)
}

// FindUpcoming returns assignments due after the call-time now, soonest
// first. "Upcoming" is never stored; the same assignment can move to the
// overdue list between two reads.
func (s *AssignmentService) FindUpcoming(ctx context.Context) ([]model.Assignment, error) {
	return s.assignmentRepo.FindUpcoming(ctx, s.now())
}

func (s *AssignmentService) FindOverdue(ctx context.Context) ([]model.Assignment, error) {
	return s.assignmentRepo.FindOverdue(ctx, s.now())
}

func (s *AssignmentService) SearchByTitle(ctx context.Context, title string) ([]model.Assignment, error) {
	return s.assignmentRepo.SearchByTitle(ctx, title)
}

func (s *AssignmentService) CountAll(ctx context.Context) (int, error) {
	assignments, err := s.assignmentRepo.FindAll(ctx)
	if err != nil {
		return 0, err
	}
	return len(assignments), nil
}

func (s *AssignmentService) CountByTeacher(ctx context.Context, teacherID string) (int, error) {
	assignments, err := s.assignmentRepo.FindByTeacher(ctx, teacherID)
	if err != nil {
		return 0, err
	}
	return len(assignments), nil
}

func (s *AssignmentService) CountUpcoming(ctx context.Context) (int, error) {
	assignments, err := s.assignmentRepo.FindUpcoming(ctx, s.now())
	if err != nil {
		return 0, err
	}
	return len(assignments), nil
}

func (s *AssignmentService) CountOverdue(ctx context.Context) (int, error) {
	assignments, err := s.assignmentRepo.FindOverdue(ctx, s.now())
	if err != nil {
		return 0, err
	}
	return len(assignments), nil
}
