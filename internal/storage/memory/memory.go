// Package memory is an in-process storage.Storage backed by a map.
// Data is lost when the process exits.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/students-demo/students-api/internal/apperrors"
	"github.com/students-demo/students-api/internal/types"
)

type Memory struct {
	mu       sync.RWMutex
	students map[int64]types.Student
	nextID   int64
}

func New() *Memory {
	return &Memory{
		students: make(map[int64]types.Student),
		nextID:   1,
	}
}

func (m *Memory) FindAll(_ context.Context) ([]types.Student, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	students := make([]types.Student, 0, len(m.students))
	for _, s := range m.students {
		students = append(students, clone(s))
	}
	sort.Slice(students, func(i, j int) bool { return students[i].ID < students[j].ID })
	return students, nil
}

func (m *Memory) FindByID(_ context.Context, id int64) (types.Student, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.students[id]
	if !ok {
		return types.Student{}, apperrors.NewNotFoundError(id)
	}
	return clone(s), nil
}

func (m *Memory) ExistsByID(_ context.Context, id int64) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.students[id]
	return ok, nil
}

func (m *Memory) Save(_ context.Context, s types.Student) (types.Student, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s.IsNew() {
		s.ID = m.nextID
		m.nextID++
	} else if _, ok := m.students[s.ID]; !ok {
		return types.Student{}, apperrors.NewNotFoundError(s.ID)
	}

	m.students[s.ID] = clone(s)
	return clone(s), nil
}

func (m *Memory) DeleteByID(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.students[id]; !ok {
		return apperrors.NewNotFoundError(id)
	}
	delete(m.students, id)
	return nil
}

func (m *Memory) Close() error { return nil }

// clone copies the Level pointer so callers never share state with the map.
func clone(s types.Student) types.Student {
	if s.Level != nil {
		level := *s.Level
		s.Level = &level
	}
	return s
}
