package inmem

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"eclass/internal/common"
	"eclass/internal/domain/model"
	"eclass/internal/domain/repository"
)

type userRepository struct {
	db *DB
}

func NewUserRepository(db *DB) repository.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) violatesUniqueness(user *model.User) bool {
	for _, u := range r.db.users {
		if u.ID == user.ID {
			continue
		}
		if u.Username == user.Username {
			return true
		}
		if u.Email != nil && user.Email != nil && *u.Email == *user.Email {
			return true
		}
	}
	return false
}

func (r *userRepository) Create(_ context.Context, user *model.User) error {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	if r.violatesUniqueness(user) {
		return fmt.Errorf("user with given username or email already exists: %w", common.ErrConflict)
	}
	cp := *user
	r.db.users[user.ID] = &cp
	return nil
}

func (r *userRepository) Update(_ context.Context, user *model.User) error {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	if _, ok := r.db.users[user.ID]; !ok {
		return common.ErrNotFound
	}
	if r.violatesUniqueness(user) {
		return fmt.Errorf("user with given username or email already exists: %w", common.ErrConflict)
	}
	cp := *user
	r.db.users[user.ID] = &cp
	return nil
}

func (r *userRepository) Delete(_ context.Context, id string) error {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	if _, ok := r.db.users[id]; !ok {
		return common.ErrNotFound
	}
	delete(r.db.users, id)
	// cascade contract
	for aid, a := range r.db.assignments {
		if a.TeacherID == id {
			delete(r.db.assignments, aid)
			for sid, s := range r.db.submissions {
				if s.AssignmentID == aid {
					delete(r.db.submissions, sid)
				}
			}
		}
	}
	for sid, s := range r.db.submissions {
		if s.StudentID == id {
			delete(r.db.submissions, sid)
		}
	}
	return nil
}

func (r *userRepository) FindByID(_ context.Context, id string) (*model.User, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	if u, ok := r.db.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, common.ErrNotFound
}

func (r *userRepository) FindByUsername(_ context.Context, username string) (*model.User, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	for _, u := range r.db.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *userRepository) query(filter func(*model.User) bool) []model.User {
	var users []model.User
	for _, u := range r.db.users {
		if filter == nil || filter(u) {
			users = append(users, *u)
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Username < users[j].Username })
	return users
}

func (r *userRepository) FindAll(_ context.Context) ([]model.User, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()
	return r.query(nil), nil
}

func (r *userRepository) FindByRole(_ context.Context, role string) ([]model.User, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()
	return r.query(func(u *model.User) bool { return u.Role == role }), nil
}

func (r *userRepository) FindEnabledByRole(_ context.Context, role string) ([]model.User, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()
	return r.query(func(u *model.User) bool { return u.Role == role && u.Enabled }), nil
}

func (r *userRepository) Search(_ context.Context, query string) ([]model.User, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	q := strings.ToLower(query)
	return r.query(func(u *model.User) bool {
		return strings.Contains(strings.ToLower(u.FullName), q) ||
			strings.Contains(strings.ToLower(u.Username), q)
	}), nil
}

func (r *userRepository) ExistsByUsername(_ context.Context, username string) (bool, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	for _, u := range r.db.users {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (r *userRepository) ExistsByEmail(_ context.Context, email string) (bool, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	for _, u := range r.db.users {
		if u.Email != nil && *u.Email == email {
			return true, nil
		}
	}
	return false, nil
}
