package model

import "time"

type Submission struct {
	ID           string    `json:"id"`
	Content      string    `json:"content"`
	SubmittedAt  time.Time `json:"submitted_at"` // reset on every resubmission
	AssignmentID string    `json:"assignment_id"`
	StudentID    string    `json:"student_id"`
	Grade        *int      `json:"grade,omitempty"`
	Feedback     *string   `json:"feedback,omitempty"`

	// Joined for display
	AssignmentTitle   *string   `json:"assignment_title,omitempty"`
	AssignmentDueDate time.Time `json:"assignment_due_date,omitempty"`
	StudentName       *string   `json:"student_name,omitempty"`
}

// IsLate compares the stored submission instant against the assignment due
// date as read alongside it. Editing the due date afterwards changes the
// verdict on the next read; the relationship is between the two stored
// instants, nothing is frozen at submission time.
func (s Submission) IsLate() bool {
	return s.SubmittedAt.After(s.AssignmentDueDate)
}

func (s Submission) IsGraded() bool {
	return s.Grade != nil
}
