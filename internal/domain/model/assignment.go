package model

import "time"

type Assignment struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	DueDate     time.Time `json:"due_date"`
	CreatedAt   time.Time `json:"created_at"` // set at construction, immutable
	TeacherID   string    `json:"teacher_id"`
	TeacherName *string   `json:"teacher_name,omitempty"` // For display
}

// IsOverdueAt reports whether the assignment was past due at the given
// instant. A due date exactly equal to now is not overdue.
func (a Assignment) IsOverdueAt(now time.Time) bool {
	return now.After(a.DueDate)
}

// IsOverdue evaluates against the current clock; the verdict can flip
// between two reads without any write.
func (a Assignment) IsOverdue() bool {
	return a.IsOverdueAt(time.Now())
}
