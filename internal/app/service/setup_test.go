package service

import (
	"context"
	"testing"
	"time"

	"eclass/internal/domain/model"
	"eclass/internal/domain/repository"
	"eclass/internal/domain/repository/inmem"
	"eclass/internal/platform/config"
)

type testRepos struct {
	users       repository.UserRepository
	assignments repository.AssignmentRepository
	submissions repository.SubmissionRepository
}

func newTestRepos() testRepos {
	db := inmem.NewDB()
	return testRepos{
		users:       inmem.NewUserRepository(db),
		assignments: inmem.NewAssignmentRepository(db),
		submissions: inmem.NewSubmissionRepository(db),
	}
}

func testConfig() {
	config.AppConfig = &config.Config{
		JWTKey:     []byte("test-secret"),
		SessionTTL: time.Hour,
	}
}

func createTestUser(t *testing.T, svc *UserService, username, role string) *model.User {
	t.Helper()
	user, err := svc.CreateUser(context.Background(), CreateUserRequest{
		Username: username,
		Password: "password123",
		FullName: "Test " + username,
		Role:     role,
	})
	if err != nil {
		t.Fatalf("createTestUser(%s) failed: %v", username, err)
	}
	return user
}

func createTestAssignment(t *testing.T, svc *AssignmentService, teacherID, title string, due time.Time) *model.Assignment {
	t.Helper()
	assignment, err := svc.CreateAssignment(context.Background(), CreateAssignmentRequest{
		Title:     title,
		DueDate:   due,
		TeacherID: teacherID,
	})
	if err != nil {
		t.Fatalf("createTestAssignment(%s) failed: %v", title, err)
	}
	return assignment
}

func timeNowPlusDays(days int) time.Time {
	return time.Now().AddDate(0, 0, days)
}
