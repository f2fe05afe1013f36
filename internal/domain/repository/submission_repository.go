package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"eclass/internal/common"
	"eclass/internal/domain/model"

	"github.com/jackc/pgx/v5/pgconn"
)

type SubmissionRepository interface {
	Create(ctx context.Context, submission *model.Submission) error
	Update(ctx context.Context, submission *model.Submission) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*model.Submission, error)
	FindByStudent(ctx context.Context, studentID string) ([]model.Submission, error)
	FindByAssignment(ctx context.Context, assignmentID string) ([]model.Submission, error)
	FindByAssignmentAndStudent(ctx context.Context, assignmentID, studentID string) (*model.Submission, error)
	FindByTeacher(ctx context.Context, teacherID string) ([]model.Submission, error)
	FindUngradedByTeacher(ctx context.Context, teacherID string) ([]model.Submission, error)
	Exists(ctx context.Context, assignmentID, studentID string) (bool, error)
}

type pgSubmissionRepository struct {
	db *sql.DB
}

func NewPgSubmissionRepository(db *sql.DB) SubmissionRepository {
	return &pgSubmissionRepository{db: db}
}

const submissionSelect = `SELECT s.id, s.content, s.submitted_at, s.assignment_id, s.student_id,
	s.grade, s.feedback, a.title, a.due_date, u.full_name
	FROM submissions s
	JOIN assignments a ON a.id = s.assignment_id
	JOIN users u ON u.id = s.student_id`

func scanSubmission(row interface{ Scan(...interface{}) error }) (*model.Submission, error) {
	s := &model.Submission{}
	err := row.Scan(
		&s.ID, &s.Content, &s.SubmittedAt, &s.AssignmentID, &s.StudentID,
		&s.Grade, &s.Feedback, &s.AssignmentTitle, &s.AssignmentDueDate, &s.StudentName,
	)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *pgSubmissionRepository) Create(ctx context.Context, submission *model.Submission) error {
	query := `INSERT INTO submissions (id, content, submitted_at, assignment_id, student_id, grade, feedback)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.db.ExecContext(ctx, query,
		submission.ID, submission.Content, submission.SubmittedAt,
		submission.AssignmentID, submission.StudentID, submission.Grade, submission.Feedback)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			// The (assignment_id, student_id) unique constraint is the real
			// guard against concurrent duplicate submits.
			return fmt.Errorf("submission already exists for this assignment and student: %w", common.ErrConflict)
		}
		return fmt.Errorf("pgSubmissionRepository.Create: %w", err)
	}
	return nil
}

func (r *pgSubmissionRepository) Update(ctx context.Context, submission *model.Submission) error {
	query := `UPDATE submissions
	          SET content = $2, submitted_at = $3, grade = $4, feedback = $5
	          WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query,
		submission.ID, submission.Content, submission.SubmittedAt, submission.Grade, submission.Feedback)
	if err != nil {
		return fmt.Errorf("pgSubmissionRepository.Update: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *pgSubmissionRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM submissions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("pgSubmissionRepository.Delete: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *pgSubmissionRepository) FindByID(ctx context.Context, id string) (*model.Submission, error) {
	s, err := scanSubmission(r.db.QueryRowContext(ctx, submissionSelect+` WHERE s.id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgSubmissionRepository.FindByID: %w", err)
	}
	return s, nil
}

func (r *pgSubmissionRepository) FindByAssignmentAndStudent(ctx context.Context, assignmentID, studentID string) (*model.Submission, error) {
	s, err := scanSubmission(r.db.QueryRowContext(ctx,
		submissionSelect+` WHERE s.assignment_id = $1 AND s.student_id = $2`, assignmentID, studentID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgSubmissionRepository.FindByAssignmentAndStudent: %w", err)
	}
	return s, nil
}

func (r *pgSubmissionRepository) querySubmissions(ctx context.Context, query string, args ...interface{}) ([]model.Submission, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var submissions []model.Submission
	for rows.Next() {
		s, err := scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		submissions = append(submissions, *s)
	}
	return submissions, rows.Err()
}

func (r *pgSubmissionRepository) FindByStudent(ctx context.Context, studentID string) ([]model.Submission, error) {
	submissions, err := r.querySubmissions(ctx,
		submissionSelect+` WHERE s.student_id = $1 ORDER BY s.submitted_at DESC`, studentID)
	if err != nil {
		return nil, fmt.Errorf("pgSubmissionRepository.FindByStudent: %w", err)
	}
	return submissions, nil
}

func (r *pgSubmissionRepository) FindByAssignment(ctx context.Context, assignmentID string) ([]model.Submission, error) {
	submissions, err := r.querySubmissions(ctx,
		submissionSelect+` WHERE s.assignment_id = $1 ORDER BY s.submitted_at DESC`, assignmentID)
	if err != nil {
		return nil, fmt.Errorf("pgSubmissionRepository.FindByAssignment: %w", err)
	}
	return submissions, nil
}

// FindByTeacher joins through assignment ownership.
func (r *pgSubmissionRepository) FindByTeacher(ctx context.Context, teacherID string) ([]model.Submission, error) {
	submissions, err := r.querySubmissions(ctx,
		submissionSelect+` WHERE a.teacher_id = $1 ORDER BY s.submitted_at DESC`, teacherID)
	if err != nil {
		return nil, fmt.Errorf("pgSubmissionRepository.FindByTeacher: %w", err)
	}
	return submissions, nil
}

func (r *pgSubmissionRepository) FindUngradedByTeacher(ctx context.Context, teacherID string) ([]model.Submission, error) {
	submissions, err := r.querySubmissions(ctx,
		submissionSelect+` WHERE a.teacher_id = $1 AND s.grade IS NULL ORDER BY s.submitted_at DESC`, teacherID)
	if err != nil {
		return nil, fmt.Errorf("pgSubmissionRepository.FindUngradedByTeacher: %w", err)
	}
	return submissions, nil
}

func (r *pgSubmissionRepository) Exists(ctx context.Context, assignmentID, studentID string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM submissions WHERE assignment_id = $1 AND student_id = $2)`,
		assignmentID, studentID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("pgSubmissionRepository.Exists: %w", err)
	}
	return exists, nil
}
