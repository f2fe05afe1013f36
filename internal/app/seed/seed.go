// Package seed creates the demo accounts and assignments on first run.
package seed

import (
	"context"
	"log"
	"time"

	"eclass/internal/app/service"
	"eclass/internal/domain/model"
)

type demoUser struct {
	username string
	password string
	fullName string
	email    string
	role     string
}

var demoUsers = []demoUser{
	{"admin", "admin123", "System Administrator", "admin@eclass.local", model.RoleAdmin},
	{"teacher1", "teacher123", "Alice Teacher", "teacher1@eclass.local", model.RoleTeacher},
	{"student1", "student123", "Bob Student", "student1@eclass.local", model.RoleStudent},
	{"student2", "student123", "Carol Student", "student2@eclass.local", model.RoleStudent},
}

// Run is idempotent: every create is guarded by an existence check, so a
// restart leaves already-seeded data alone. It leaves no process-wide state
// behind.
func Run(ctx context.Context, users *service.UserService, assignments *service.AssignmentService) error {
	for _, du := range demoUsers {
		exists, err := users.ExistsByUsername(ctx, du.username)
		if err != nil {
			return err
		}
		if exists {
			continue
		}
		if _, err := users.CreateUser(ctx, service.CreateUserRequest{
			Username: du.username,
			Password: du.password,
			FullName: du.fullName,
			Email:    du.email,
			Role:     du.role,
		}); err != nil {
			return err
		}
		log.Printf("Demo account created: %s/%s", du.username, du.password)
	}

	teacher, err := users.FindByUsername(ctx, "teacher1")
	if err != nil {
		return err
	}
	existing, err := assignments.FindByTeacher(ctx, teacher.ID)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	demoAssignments := []service.CreateAssignmentRequest{
		{
			Title:       "Math Homework - Chapter 1",
			Description: "Complete all exercises in chapter one and show your working in full.",
			DueDate:     time.Now().AddDate(0, 0, 7),
			TeacherID:   teacher.ID,
		},
		{
			Title:       "English Essay",
			Description: "Write an essay titled \"My Dream\", at least 200 words.",
			DueDate:     time.Now().AddDate(0, 0, 5),
			TeacherID:   teacher.ID,
		},
	}
	for _, req := range demoAssignments {
		if _, err := assignments.CreateAssignment(ctx, req); err != nil {
			return err
		}
	}
	log.Println("Demo assignments created")
	return nil
}
