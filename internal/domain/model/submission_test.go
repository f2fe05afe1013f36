package model

import (
	"testing"
	"time"
)

func TestSubmissionIsLate(t *testing.T) {
	due := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		submittedAt time.Time
		want        bool
	}{
		{name: "before due date", submittedAt: due.Add(-time.Hour), want: false},
		{name: "exactly at due date", submittedAt: due, want: false},
		{name: "after due date", submittedAt: due.Add(time.Second), want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Submission{SubmittedAt: tt.submittedAt, AssignmentDueDate: due}
			if got := s.IsLate(); got != tt.want {
				t.Errorf("IsLate() = %v, want %v", got, tt.want)
			}
		})
	}
}

// Pushing the due date back after a late submission changes the verdict on
// the next read; nothing is frozen at submission time.
func TestSubmissionIsLateFollowsDueDateEdits(t *testing.T) {
	due := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	s := Submission{SubmittedAt: due.Add(time.Hour), AssignmentDueDate: due}
	if !s.IsLate() {
		t.Fatal("expected submission to be late against the original due date")
	}
	s.AssignmentDueDate = due.AddDate(0, 0, 1)
	if s.IsLate() {
		t.Error("expected submission to stop being late after the due date moved")
	}
}

func TestSubmissionIsGraded(t *testing.T) {
	var s Submission
	if s.IsGraded() {
		t.Error("expected ungraded submission")
	}
	grade := 0
	s.Grade = &grade
	if !s.IsGraded() {
		t.Error("expected a zero grade to count as graded")
	}
}
