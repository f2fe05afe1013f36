package inmem

import (
	"context"
	"fmt"
	"sort"

	"eclass/internal/common"
	"eclass/internal/domain/model"
	"eclass/internal/domain/repository"
)

type submissionRepository struct {
	db *DB
}

func NewSubmissionRepository(db *DB) repository.SubmissionRepository {
	return &submissionRepository{db: db}
}

func (r *submissionRepository) withJoins(s *model.Submission) model.Submission {
	cp := *s
	if a, ok := r.db.assignments[s.AssignmentID]; ok {
		title := a.Title
		cp.AssignmentTitle = &title
		cp.AssignmentDueDate = a.DueDate
	}
	if u, ok := r.db.users[s.StudentID]; ok {
		name := u.FullName
		cp.StudentName = &name
	}
	return cp
}

func (r *submissionRepository) Create(_ context.Context, submission *model.Submission) error {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	for _, s := range r.db.submissions {
		if s.AssignmentID == submission.AssignmentID && s.StudentID == submission.StudentID {
			return fmt.Errorf("submission already exists for this assignment and student: %w", common.ErrConflict)
		}
	}
	cp := *submission
	r.db.submissions[submission.ID] = &cp
	return nil
}

func (r *submissionRepository) Update(_ context.Context, submission *model.Submission) error {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	existing, ok := r.db.submissions[submission.ID]
	if !ok {
		return common.ErrNotFound
	}
	existing.Content = submission.Content
	existing.SubmittedAt = submission.SubmittedAt
	existing.Grade = submission.Grade
	existing.Feedback = submission.Feedback
	return nil
}

func (r *submissionRepository) Delete(_ context.Context, id string) error {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	if _, ok := r.db.submissions[id]; !ok {
		return common.ErrNotFound
	}
	delete(r.db.submissions, id)
	return nil
}

func (r *submissionRepository) FindByID(_ context.Context, id string) (*model.Submission, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	if s, ok := r.db.submissions[id]; ok {
		cp := r.withJoins(s)
		return &cp, nil
	}
	return nil, common.ErrNotFound
}

func (r *submissionRepository) FindByAssignmentAndStudent(_ context.Context, assignmentID, studentID string) (*model.Submission, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	for _, s := range r.db.submissions {
		if s.AssignmentID == assignmentID && s.StudentID == studentID {
			cp := r.withJoins(s)
			return &cp, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *submissionRepository) query(filter func(*model.Submission) bool) []model.Submission {
	var submissions []model.Submission
	for _, s := range r.db.submissions {
		if filter == nil || filter(s) {
			submissions = append(submissions, r.withJoins(s))
		}
	}
	sort.Slice(submissions, func(i, j int) bool {
		return submissions[i].SubmittedAt.After(submissions[j].SubmittedAt)
	})
	return submissions
}

func (r *submissionRepository) FindByStudent(_ context.Context, studentID string) ([]model.Submission, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()
	return r.query(func(s *model.Submission) bool { return s.StudentID == studentID }), nil
}

func (r *submissionRepository) FindByAssignment(_ context.Context, assignmentID string) ([]model.Submission, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()
	return r.query(func(s *model.Submission) bool { return s.AssignmentID == assignmentID }), nil
}

func (r *submissionRepository) ownedBy(s *model.Submission, teacherID string) bool {
	a, ok := r.db.assignments[s.AssignmentID]
	return ok && a.TeacherID == teacherID
}

func (r *submissionRepository) FindByTeacher(_ context.Context, teacherID string) ([]model.Submission, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()
	return r.query(func(s *model.Submission) bool { return r.ownedBy(s, teacherID) }), nil
}

func (r *submissionRepository) FindUngradedByTeacher(_ context.Context, teacherID string) ([]model.Submission, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()
	return r.query(func(s *model.Submission) bool { return s.Grade == nil && r.ownedBy(s, teacherID) }), nil
}

func (r *submissionRepository) Exists(_ context.Context, assignmentID, studentID string) (bool, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	for _, s := range r.db.submissions {
		if s.AssignmentID == assignmentID && s.StudentID == studentID {
			return true, nil
		}
	}
	return false, nil
}
