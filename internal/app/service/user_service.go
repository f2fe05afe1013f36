package service

import (
	"context"

	"eclass/internal/common"
	"eclass/internal/common/security"
	"eclass/internal/domain/model"
	"eclass/internal/domain/repository"

	"github.com/google/uuid"
)

type UserService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

type CreateUserRequest struct {
	Username string
	Password string
	FullName string
	Email    string // optional
	Role     string
}

type UpdateUserRequest struct {
	ID       string
	Username string
	Password string // pass the stored hash through to keep the password unchanged
	FullName string
	Email    string
	Role     string
	Enabled  bool
}

func emailPtr(email string) *string {
	if email == "" {
		return nil
	}
	return &email
}

func (s *UserService) CreateUser(ctx context.Context, req CreateUserRequest) (*model.User, error) {
	if req.Username == "" || req.Password == "" || req.FullName == "" {
		return nil, common.ErrBadRequest
	}
	if !model.IsValidRole(req.Role) {
		return nil, common.Errorf("unknown role %q: %w", req.Role, common.ErrBadRequest)
	}

	// Friendly-message pre-checks; the store's unique constraints are the
	// authoritative guard against a concurrent duplicate.
	if exists, err := s.userRepo.ExistsByUsername(ctx, req.Username); err != nil {
		return nil, common.Errorf("failed to check username: %w", err)
	} else if exists {
		return nil, common.Errorf("username already exists: %s: %w", req.Username, common.ErrConflict)
	}
	if req.Email != "" {
		if exists, err := s.userRepo.ExistsByEmail(ctx, req.Email); err != nil {
			return nil, common.Errorf("failed to check email: %w", err)
		} else if exists {
			return nil, common.Errorf("email already exists: %s: %w", req.Email, common.ErrConflict)
		}
	}

	hashedPassword, err := security.HashPassword(req.Password)
	if err != nil {
		return nil, common.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		ID:             uuid.NewString(),
		Username:       req.Username,
		HashedPassword: hashedPassword,
		FullName:       req.FullName,
		Email:          emailPtr(req.Email),
		Role:           req.Role,
		Enabled:        true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, common.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// UpdateUser re-hashes the password only when the incoming value differs from
// the stored hash; callers that do not change the password must pass the
// stored hash through unchanged.
func (s *UserService) UpdateUser(ctx context.Context, req UpdateUserRequest) (*model.User, error) {
	if req.ID == "" || req.Username == "" || req.FullName == "" {
		return nil, common.ErrBadRequest
	}
	if !model.IsValidRole(req.Role) {
		return nil, common.Errorf("unknown role %q: %w", req.Role, common.ErrBadRequest)
	}

	existing, err := s.userRepo.FindByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	hashedPassword := existing.HashedPassword
	if req.Password != "" && req.Password != existing.HashedPassword {
		hashedPassword, err = security.HashPassword(req.Password)
		if err != nil {
			return nil, common.Errorf("failed to hash password: %w", err)
		}
	}

	user := &model.User{
		ID:             req.ID,
		Username:       req.Username,
		HashedPassword: hashedPassword,
		FullName:       req.FullName,
		Email:          emailPtr(req.Email),
		Role:           req.Role,
		Enabled:        req.Enabled,
		CreatedAt:      existing.CreatedAt,
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, common.Errorf("failed to update user: %w", err)
	}
	return user, nil
}

func (s *UserService) ToggleEnabled(ctx context.Context, id string) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	user.Enabled = !user.Enabled
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, common.Errorf("failed to toggle user status: %w", err)
	}
	return user, nil
}

// DeleteUser removes the user; their assignments and submissions go with them
// per the store's cascade contract.
func (s *UserService) DeleteUser(ctx context.Context, id string) error {
	return s.userRepo.Delete(ctx, id)
}

func (s *UserService) FindAll(ctx context.Context) ([]model.User, error) {
	return s.userRepo.FindAll(ctx)
}

func (s *UserService) FindByID(ctx context.Context, id string) (*model.User, error) {
	return s.userRepo.FindByID(ctx, id)
}

func (s *UserService) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	return s.userRepo.FindByUsername(ctx, username)
}

func (s *UserService) FindByRole(ctx context.Context, role string) ([]model.User, error) {
	return s.userRepo.FindByRole(ctx, role)
}

func (s *UserService) FindTeachers(ctx context.Context) ([]model.User, error) {
	return s.userRepo.FindEnabledByRole(ctx, model.RoleTeacher)
}

func (s *UserService) FindStudents(ctx context.Context) ([]model.User, error) {
	return s.userRepo.FindEnabledByRole(ctx, model.RoleStudent)
}

// Search matches a case-insensitive substring of full name or username.
func (s *UserService) Search(ctx context.Context, query string) ([]model.User, error) {
	return s.userRepo.Search(ctx, query)
}

func (s *UserService) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return s.userRepo.ExistsByUsername(ctx, username)
}

// CountByRole loads the filtered list and measures it, same linear-count
// pattern as the rest of the counts. Fine at this scale.
func (s *UserService) CountByRole(ctx context.Context, role string) (int, error) {
	users, err := s.userRepo.FindByRole(ctx, role)
	if err != nil {
		return 0, err
	}
	return len(users), nil
}
