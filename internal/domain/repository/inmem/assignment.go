package inmem

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"eclass/internal/common"
	"eclass/internal/domain/model"
	"eclass/internal/domain/repository"
)

type assignmentRepository struct {
	db *DB
}

func NewAssignmentRepository(db *DB) repository.AssignmentRepository {
	return &assignmentRepository{db: db}
}

func (r *assignmentRepository) withTeacher(a *model.Assignment) model.Assignment {
	cp := *a
	if t, ok := r.db.users[a.TeacherID]; ok {
		name := t.FullName
		cp.TeacherName = &name
	}
	return cp
}

func (r *assignmentRepository) Create(_ context.Context, assignment *model.Assignment) error {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	for _, a := range r.db.assignments {
		if a.Slug == assignment.Slug {
			return fmt.Errorf("assignment with given slug already exists: %w", common.ErrConflict)
		}
	}
	cp := *assignment
	r.db.assignments[assignment.ID] = &cp
	return nil
}

func (r *assignmentRepository) Update(_ context.Context, assignment *model.Assignment) error {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	existing, ok := r.db.assignments[assignment.ID]
	if !ok {
		return common.ErrNotFound
	}
	existing.Title = assignment.Title
	existing.Description = assignment.Description
	existing.DueDate = assignment.DueDate
	return nil
}

func (r *assignmentRepository) Delete(_ context.Context, id string) error {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	if _, ok := r.db.assignments[id]; !ok {
		return common.ErrNotFound
	}
	delete(r.db.assignments, id)
	// cascade contract
	for sid, s := range r.db.submissions {
		if s.AssignmentID == id {
			delete(r.db.submissions, sid)
		}
	}
	return nil
}

func (r *assignmentRepository) FindByID(_ context.Context, id string) (*model.Assignment, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	if a, ok := r.db.assignments[id]; ok {
		cp := r.withTeacher(a)
		return &cp, nil
	}
	return nil, common.ErrNotFound
}

func (r *assignmentRepository) FindBySlug(_ context.Context, slug string) (*model.Assignment, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	for _, a := range r.db.assignments {
		if a.Slug == slug {
			cp := r.withTeacher(a)
			return &cp, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *assignmentRepository) query(filter func(*model.Assignment) bool, less func(a, b model.Assignment) bool) []model.Assignment {
	var assignments []model.Assignment
	for _, a := range r.db.assignments {
		if filter == nil || filter(a) {
			assignments = append(assignments, r.withTeacher(a))
		}
	}
	sort.Slice(assignments, func(i, j int) bool { return less(assignments[i], assignments[j]) })
	return assignments
}

func byCreatedDesc(a, b model.Assignment) bool { return a.CreatedAt.After(b.CreatedAt) }

func (r *assignmentRepository) FindAll(_ context.Context) ([]model.Assignment, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()
	return r.query(nil, byCreatedDesc), nil
}

func (r *assignmentRepository) FindByTeacher(_ context.Context, teacherID string) ([]model.Assignment, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()
	return r.query(func(a *model.Assignment) bool { return a.TeacherID == teacherID }, byCreatedDesc), nil
}

func (r *assignmentRepository) FindUpcoming(_ context.Context, now time.Time) ([]model.Assignment, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()
	return r.query(
		func(a *model.Assignment) bool { return a.DueDate.After(now) },
		func(a, b model.Assignment) bool { return a.DueDate.Before(b.DueDate) },
	), nil
}

func (r *assignmentRepository) FindOverdue(_ context.Context, now time.Time) ([]model.Assignment, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()
	return r.query(
		func(a *model.Assignment) bool { return a.DueDate.Before(now) },
		func(a, b model.Assignment) bool { return a.DueDate.After(b.DueDate) },
	), nil
}

func (r *assignmentRepository) SearchByTitle(_ context.Context, title string) ([]model.Assignment, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	q := strings.ToLower(title)
	return r.query(func(a *model.Assignment) bool {
		return strings.Contains(strings.ToLower(a.Title), q)
	}, byCreatedDesc), nil
}
