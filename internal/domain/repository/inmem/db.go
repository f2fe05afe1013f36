// Package inmem provides in-memory repository implementations mirroring the
// Postgres semantics (ordering, uniqueness, not-found). Used by tests.
package inmem

import (
	"sync"

	"eclass/internal/domain/model"
)

type DB struct {
	mutex       sync.RWMutex
	users       map[string]*model.User
	assignments map[string]*model.Assignment
	submissions map[string]*model.Submission
}

func NewDB() *DB {
	return &DB{
		users:       make(map[string]*model.User),
		assignments: make(map[string]*model.Assignment),
		submissions: make(map[string]*model.Submission),
	}
}
