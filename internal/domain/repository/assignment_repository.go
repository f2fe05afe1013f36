package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"eclass/internal/common"
	"eclass/internal/domain/model"

	"github.com/jackc/pgx/v5/pgconn"
)

type AssignmentRepository interface {
	Create(ctx context.Context, assignment *model.Assignment) error
	Update(ctx context.Context, assignment *model.Assignment) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*model.Assignment, error)
	FindBySlug(ctx context.Context, slug string) (*model.Assignment, error)
	FindAll(ctx context.Context) ([]model.Assignment, error)
	FindByTeacher(ctx context.Context, teacherID string) ([]model.Assignment, error)
	FindUpcoming(ctx context.Context, now time.Time) ([]model.Assignment, error)
	FindOverdue(ctx context.Context, now time.Time) ([]model.Assignment, error)
	SearchByTitle(ctx context.Context, title string) ([]model.Assignment, error)
}

type pgAssignmentRepository struct {
	db *sql.DB
}

func NewPgAssignmentRepository(db *sql.DB) AssignmentRepository {
	return &pgAssignmentRepository{db: db}
}

const assignmentColumns = `a.id, a.title, a.slug, a.description, a.due_date, a.created_at, a.teacher_id, u.full_name`

const assignmentSelect = `SELECT ` + assignmentColumns + `
	FROM assignments a JOIN users u ON u.id = a.teacher_id`

func scanAssignment(row interface{ Scan(...interface{}) error }) (*model.Assignment, error) {
	a := &model.Assignment{}
	err := row.Scan(
		&a.ID, &a.Title, &a.Slug, &a.Description, &a.DueDate, &a.CreatedAt, &a.TeacherID, &a.TeacherName,
	)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *pgAssignmentRepository) Create(ctx context.Context, assignment *model.Assignment) error {
	query := `INSERT INTO assignments (id, title, slug, description, due_date, created_at, teacher_id)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.db.ExecContext(ctx, query,
		assignment.ID, assignment.Title, assignment.Slug, assignment.Description,
		assignment.DueDate, assignment.CreatedAt, assignment.TeacherID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("assignment with given slug already exists: %w", common.ErrConflict)
		}
		return fmt.Errorf("pgAssignmentRepository.Create: %w", err)
	}
	return nil
}

// Update touches title, description and due date only; created_at and owner
// are immutable after construction.
func (r *pgAssignmentRepository) Update(ctx context.Context, assignment *model.Assignment) error {
	query := `UPDATE assignments SET title = $2, description = $3, due_date = $4 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query,
		assignment.ID, assignment.Title, assignment.Description, assignment.DueDate)
	if err != nil {
		return fmt.Errorf("pgAssignmentRepository.Update: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}
	return nil
}

// Delete removes the assignment and, via the cascade contract, all of its
// submissions.
func (r *pgAssignmentRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM assignments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("pgAssignmentRepository.Delete: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *pgAssignmentRepository) FindByID(ctx context.Context, id string) (*model.Assignment, error) {
	a, err := scanAssignment(r.db.QueryRowContext(ctx, assignmentSelect+` WHERE a.id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgAssignmentRepository.FindByID: %w", err)
	}
	return a, nil
}

func (r *pgAssignmentRepository) FindBySlug(ctx context.Context, slug string) (*model.Assignment, error) {
	a, err := scanAssignment(r.db.QueryRowContext(ctx, assignmentSelect+` WHERE a.slug = $1`, slug))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgAssignmentRepository.FindBySlug: %w", err)
	}
	return a, nil
}

func (r *pgAssignmentRepository) queryAssignments(ctx context.Context, query string, args ...interface{}) ([]model.Assignment, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assignments []model.Assignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, err
		}
		assignments = append(assignments, *a)
	}
	return assignments, rows.Err()
}

func (r *pgAssignmentRepository) FindAll(ctx context.Context) ([]model.Assignment, error) {
	assignments, err := r.queryAssignments(ctx, assignmentSelect+` ORDER BY a.created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("pgAssignmentRepository.FindAll: %w", err)
	}
	return assignments, nil
}

func (r *pgAssignmentRepository) FindByTeacher(ctx context.Context, teacherID string) ([]model.Assignment, error) {
	assignments, err := r.queryAssignments(ctx,
		assignmentSelect+` WHERE a.teacher_id = $1 ORDER BY a.created_at DESC`, teacherID)
	if err != nil {
		return nil, fmt.Errorf("pgAssignmentRepository.FindByTeacher: %w", err)
	}
	return assignments, nil
}

func (r *pgAssignmentRepository) FindUpcoming(ctx context.Context, now time.Time) ([]model.Assignment, error) {
	assignments, err := r.queryAssignments(ctx,
		assignmentSelect+` WHERE a.due_date > $1 ORDER BY a.due_date ASC`, now)
	if err != nil {
		return nil, fmt.Errorf("pgAssignmentRepository.FindUpcoming: %w", err)
	}
	return assignments, nil
}

func (r *pgAssignmentRepository) FindOverdue(ctx context.Context, now time.Time) ([]model.Assignment, error) {
	assignments, err := r.queryAssignments(ctx,
		assignmentSelect+` WHERE a.due_date < $1 ORDER BY a.due_date DESC`, now)
	if err != nil {
		return nil, fmt.Errorf("pgAssignmentRepository.FindOverdue: %w", err)
	}
	return assignments, nil
}

func (r *pgAssignmentRepository) SearchByTitle(ctx context.Context, title string) ([]model.Assignment, error) {
	assignments, err := r.queryAssignments(ctx,
		assignmentSelect+` WHERE a.title ILIKE '%' || $1 || '%' ORDER BY a.created_at DESC`, title)
	if err != nil {
		return nil, fmt.Errorf("pgAssignmentRepository.SearchByTitle: %w", err)
	}
	return assignments, nil
}
