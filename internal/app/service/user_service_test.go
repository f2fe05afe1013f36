package service

import (
	"context"
	"errors"
	"testing"

	"eclass/internal/common"
	"eclass/internal/common/security"
	"eclass/internal/domain/model"
)

func TestCreateUser(t *testing.T) {
	repos := newTestRepos()
	svc := NewUserService(repos.users)
	ctx := context.Background()

	tests := []struct {
		name    string
		req     CreateUserRequest
		wantErr error
	}{
		{
			name: "valid teacher",
			req:  CreateUserRequest{Username: "alice", Password: "pw123456", FullName: "Alice", Email: "alice@test.local", Role: model.RoleTeacher},
		},
		{
			name: "valid student without email",
			req:  CreateUserRequest{Username: "bob", Password: "pw123456", FullName: "Bob", Role: model.RoleStudent},
		},
		{
			name:    "missing username",
			req:     CreateUserRequest{Password: "pw123456", FullName: "Nameless", Role: model.RoleStudent},
			wantErr: common.ErrBadRequest,
		},
		{
			name:    "missing password",
			req:     CreateUserRequest{Username: "carol", FullName: "Carol", Role: model.RoleStudent},
			wantErr: common.ErrBadRequest,
		},
		{
			name:    "unknown role",
			req:     CreateUserRequest{Username: "dave", Password: "pw123456", FullName: "Dave", Role: "janitor"},
			wantErr: common.ErrBadRequest,
		},
		{
			name:    "duplicate username",
			req:     CreateUserRequest{Username: "alice", Password: "pw123456", FullName: "Other Alice", Role: model.RoleStudent},
			wantErr: common.ErrConflict,
		},
		{
			name:    "duplicate email",
			req:     CreateUserRequest{Username: "alice2", Password: "pw123456", FullName: "Alice Two", Email: "alice@test.local", Role: model.RoleStudent},
			wantErr: common.ErrConflict,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := svc.CreateUser(ctx, tt.req)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("CreateUser() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr != nil {
				return
			}
			if user.ID == "" {
				t.Error("expected a generated ID")
			}
			if !user.Enabled {
				t.Error("new accounts must start enabled")
			}
			if user.HashedPassword == tt.req.Password {
				t.Error("password was stored in plaintext")
			}
			if !security.CheckPasswordHash(tt.req.Password, user.HashedPassword) {
				t.Error("stored hash does not verify against the password")
			}
		})
	}

	// The duplicate attempts above must not have left extra rows behind.
	users, err := svc.FindAll(ctx)
	if err != nil {
		t.Fatalf("FindAll() failed: %v", err)
	}
	if len(users) != 2 {
		t.Errorf("FindAll() returned %d users, want 2", len(users))
	}
}

func TestUpdateUserKeepsPasswordWhenHashPassedThrough(t *testing.T) {
	repos := newTestRepos()
	svc := NewUserService(repos.users)
	ctx := context.Background()

	user := createTestUser(t, svc, "alice", model.RoleTeacher)

	// The edit form round-trips the stored hash when the admin leaves the
	// password field alone.
	updated, err := svc.UpdateUser(ctx, UpdateUserRequest{
		ID:       user.ID,
		Username: "alice",
		Password: user.HashedPassword,
		FullName: "Alice Renamed",
		Role:     model.RoleTeacher,
		Enabled:  true,
	})
	if err != nil {
		t.Fatalf("UpdateUser() failed: %v", err)
	}
	if updated.HashedPassword != user.HashedPassword {
		t.Error("passing the stored hash through must not re-hash")
	}
	if !security.CheckPasswordHash("password123", updated.HashedPassword) {
		t.Error("original password no longer verifies")
	}

	// A new plaintext value replaces the credential.
	updated, err = svc.UpdateUser(ctx, UpdateUserRequest{
		ID:       user.ID,
		Username: "alice",
		Password: "newpassword",
		FullName: "Alice Renamed",
		Role:     model.RoleTeacher,
		Enabled:  true,
	})
	if err != nil {
		t.Fatalf("UpdateUser() failed: %v", err)
	}
	if !security.CheckPasswordHash("newpassword", updated.HashedPassword) {
		t.Error("new password does not verify")
	}
	if security.CheckPasswordHash("password123", updated.HashedPassword) {
		t.Error("old password still verifies after the change")
	}
}

func TestUpdateUserConflictsOnTakenUsername(t *testing.T) {
	repos := newTestRepos()
	svc := NewUserService(repos.users)
	ctx := context.Background()

	createTestUser(t, svc, "alice", model.RoleTeacher)
	bob := createTestUser(t, svc, "bob", model.RoleStudent)

	_, err := svc.UpdateUser(ctx, UpdateUserRequest{
		ID:       bob.ID,
		Username: "alice",
		Password: bob.HashedPassword,
		FullName: bob.FullName,
		Role:     bob.Role,
		Enabled:  true,
	})
	if !errors.Is(err, common.ErrConflict) {
		t.Errorf("UpdateUser() error = %v, want conflict", err)
	}
}

func TestToggleEnabled(t *testing.T) {
	repos := newTestRepos()
	svc := NewUserService(repos.users)
	ctx := context.Background()

	user := createTestUser(t, svc, "alice", model.RoleTeacher)

	toggled, err := svc.ToggleEnabled(ctx, user.ID)
	if err != nil {
		t.Fatalf("ToggleEnabled() failed: %v", err)
	}
	if toggled.Enabled {
		t.Error("expected account to be disabled after first toggle")
	}

	toggled, err = svc.ToggleEnabled(ctx, user.ID)
	if err != nil {
		t.Fatalf("ToggleEnabled() failed: %v", err)
	}
	if !toggled.Enabled {
		t.Error("expected account to be enabled after second toggle")
	}

	if _, err := svc.ToggleEnabled(ctx, "no-such-id"); !errors.Is(err, common.ErrNotFound) {
		t.Errorf("ToggleEnabled() error = %v, want not found", err)
	}
}

func TestDeleteUserCascades(t *testing.T) {
	repos := newTestRepos()
	userSvc := NewUserService(repos.users)
	assignmentSvc := NewAssignmentService(repos.assignments)
	submissionSvc := NewSubmissionService(repos.submissions, repos.assignments)
	ctx := context.Background()

	teacher := createTestUser(t, userSvc, "teacher", model.RoleTeacher)
	student := createTestUser(t, userSvc, "student", model.RoleStudent)
	assignment := createTestAssignment(t, assignmentSvc, teacher.ID, "Homework", timeNowPlusDays(7))
	if _, err := submissionSvc.Submit(ctx, assignment.ID, student.ID, "my answer"); err != nil {
		t.Fatalf("Submit() failed: %v", err)
	}

	if err := userSvc.DeleteUser(ctx, teacher.ID); err != nil {
		t.Fatalf("DeleteUser() failed: %v", err)
	}

	if _, err := assignmentSvc.FindByID(ctx, assignment.ID); !errors.Is(err, common.ErrNotFound) {
		t.Errorf("assignment survived its teacher: err = %v", err)
	}
	submissions, err := submissionSvc.FindByStudent(ctx, student.ID)
	if err != nil {
		t.Fatalf("FindByStudent() failed: %v", err)
	}
	if len(submissions) != 0 {
		t.Errorf("submissions survived the assignment cascade: %d left", len(submissions))
	}
}

func TestFindEnabledRolesAndCounts(t *testing.T) {
	repos := newTestRepos()
	svc := NewUserService(repos.users)
	ctx := context.Background()

	createTestUser(t, svc, "admin", model.RoleAdmin)
	createTestUser(t, svc, "teacher1", model.RoleTeacher)
	createTestUser(t, svc, "student1", model.RoleStudent)
	disabled := createTestUser(t, svc, "student2", model.RoleStudent)
	if _, err := svc.ToggleEnabled(ctx, disabled.ID); err != nil {
		t.Fatalf("ToggleEnabled() failed: %v", err)
	}

	students, err := svc.FindStudents(ctx)
	if err != nil {
		t.Fatalf("FindStudents() failed: %v", err)
	}
	if len(students) != 1 || students[0].Username != "student1" {
		t.Errorf("FindStudents() = %v, want just student1", students)
	}

	// CountByRole counts disabled accounts too; the dashboard shows the full
	// roster size.
	count, err := svc.CountByRole(ctx, model.RoleStudent)
	if err != nil {
		t.Fatalf("CountByRole() failed: %v", err)
	}
	if count != 2 {
		t.Errorf("CountByRole(student) = %d, want 2", count)
	}
}

func TestSearchMatchesNameAndUsername(t *testing.T) {
	repos := newTestRepos()
	svc := NewUserService(repos.users)
	ctx := context.Background()

	if _, err := svc.CreateUser(ctx, CreateUserRequest{
		Username: "awilson", Password: "pw123456", FullName: "Alice Wilson", Role: model.RoleTeacher,
	}); err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	if _, err := svc.CreateUser(ctx, CreateUserRequest{
		Username: "bjones", Password: "pw123456", FullName: "Bob Jones", Role: model.RoleStudent,
	}); err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}

	tests := []struct {
		query string
		want  int
	}{
		{query: "wilson", want: 1}, // case-insensitive full name
		{query: "BJONES", want: 1}, // case-insensitive username
		{query: "o", want: 2},      // substring in both
		{query: "zzz", want: 0},
	}
	for _, tt := range tests {
		got, err := svc.Search(ctx, tt.query)
		if err != nil {
			t.Fatalf("Search(%q) failed: %v", tt.query, err)
		}
		if len(got) != tt.want {
			t.Errorf("Search(%q) returned %d users, want %d", tt.query, len(got), tt.want)
		}
	}
}
