package service

import (
	"context"
	"errors"
	"time"

	"eclass/internal/common"
	"eclass/internal/domain/model"
	"eclass/internal/domain/repository"

	"github.com/google/uuid"
)

type SubmissionService struct {
	submissionRepo repository.SubmissionRepository
	assignmentRepo repository.AssignmentRepository
	now            func() time.Time
}

func NewSubmissionService(
	submissionRepo repository.SubmissionRepository,
	assignmentRepo repository.AssignmentRepository,
) *SubmissionService {
	return &SubmissionService{
		submissionRepo: submissionRepo,
		assignmentRepo: assignmentRepo,
		now:            time.Now,
	}
}

// Submit creates the first submission for an (assignment, student) pair and
// fails with a conflict when one already exists. The UI only ever calls
// SubmitOrUpdate; this path exists for direct service use.
func (s *SubmissionService) Submit(ctx context.Context, assignmentID, studentID, content string) (*model.Submission, error) {
	if assignmentID == "" || studentID == "" {
		return nil, common.ErrBadRequest
	}
	if _, err := s.assignmentRepo.FindByID(ctx, assignmentID); err != nil {
		return nil, common.Errorf("assignment not found: %w", err)
	}

	exists, err := s.submissionRepo.Exists(ctx, assignmentID, studentID)
	if err != nil {
		return nil, common.Errorf("failed to check for existing submission: %w", err)
	}
	if exists {
		return nil, common.Errorf("assignment already submitted: %w", common.ErrConflict)
	}

	submission := &model.Submission{
		ID:           uuid.NewString(),
		Content:      content,
		SubmittedAt:  s.now(),
		AssignmentID: assignmentID,
		StudentID:    studentID,
	}
	if err := s.submissionRepo.Create(ctx, submission); err != nil {
		return nil, common.Errorf("failed to create submission: %w", err)
	}
	return submission, nil
}

// SubmitOrUpdate is the upsert entry point the UI uses: an existing
// submission gets its content replaced and its timestamp refreshed, a missing
// one is created. Grade and feedback are untouched by resubmission.
func (s *SubmissionService) SubmitOrUpdate(ctx context.Context, assignmentID, studentID, content string) (*model.Submission, error) {
	existing, err := s.submissionRepo.FindByAssignmentAndStudent(ctx, assignmentID, studentID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return s.Submit(ctx, assignmentID, studentID, content)
		}
		return nil, common.Errorf("failed to look up submission: %w", err)
	}

	existing.Content = content
	existing.SubmittedAt = s.now()
	if err := s.submissionRepo.Update(ctx, existing); err != nil {
		return nil, common.Errorf("failed to update submission: %w", err)
	}
	return existing, nil
}

// Grade records a grade and feedback on an existing submission. A nil grade
// clears the numeric grade. Non-nil grades are validated against [0,100]
// here, not just at the form boundary.
func (s *SubmissionService) Grade(ctx context.Context, submissionID string, grade *int, feedback string) (*model.Submission, error) {
	if grade != nil && (*grade < 0 || *grade > 100) {
		return nil, common.Errorf("grade must be between 0 and 100: %w", common.ErrValidation)
	}

	submission, err := s.submissionRepo.FindByID(ctx, submissionID)
	if err != nil {
		return nil, common.Errorf("submission not found: %w", err)
	}

	submission.Grade = grade
	if feedback != "" {
		submission.Feedback = &feedback
	} else {
		submission.Feedback = nil
	}
	if err := s.submissionRepo.Update(ctx, submission); err != nil {
		return nil, common.Errorf("failed to grade submission: %w", err)
	}
	return submission, nil
}

func (s *SubmissionService) FindByID(ctx context.Context, id string) (*model.Submission, error) {
	return s.submissionRepo.FindByID(ctx, id)
}

func (s *SubmissionService) FindByStudent(ctx context.Context, studentID string) ([]model.Submission, error) {
	return s.submissionRepo.FindByStudent(ctx, studentID)
}

func (s *SubmissionService) FindByAssignment(ctx context.Context, assignmentID string) ([]model.Submission, error) {
	return s.submissionRepo.FindByAssignment(ctx, assignmentID)
}

func (s *SubmissionService) FindByAssignmentAndStudent(ctx context.Context, assignmentID, studentID string) (*model.Submission, error) {
	return s.submissionRepo.FindByAssignmentAndStudent(ctx, assignmentID, studentID)
}

// FindByTeacher joins through assignment ownership.
func (s *SubmissionService) FindByTeacher(ctx context.Context, teacherID string) ([]model.Submission, error) {
	return s.submissionRepo.FindByTeacher(ctx, teacherID)
}

func (s *SubmissionService) FindUngradedByTeacher(ctx context.Context, teacherID string) ([]model.Submission, error) {
	return s.submissionRepo.FindUngradedByTeacher(ctx, teacherID)
}

func (s *SubmissionService) HasSubmitted(ctx context.Context, assignmentID, studentID string) (bool, error) {
	return s.submissionRepo.Exists(ctx, assignmentID, studentID)
}

func (s *SubmissionService) CountByAssignment(ctx context.Context, assignmentID string) (int, error) {
	submissions, err := s.submissionRepo.FindByAssignment(ctx, assignmentID)
	if err != nil {
		return 0, err
	}
	return len(submissions), nil
}

func (s *SubmissionService) CountByStudent(ctx context.Context, studentID string) (int, error) {
	submissions, err := s.submissionRepo.FindByStudent(ctx, studentID)
	if err != nil {
		return 0, err
	}
	return len(submissions), nil
}

func (s *SubmissionService) CountUngradedByTeacher(ctx context.Context, teacherID string) (int, error) {
	submissions, err := s.submissionRepo.FindUngradedByTeacher(ctx, teacherID)
	if err != nil {
		return 0, err
	}
	return len(submissions), nil
}
