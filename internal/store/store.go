// Package store holds the authoritative in-memory task collection.
//
// A TaskStore is not safe for concurrent use. Callers serialize access the
// way a UI event loop does: one operation runs to completion before the next.
package store

import "github.com/Makepad-fr/tada/internal/model"

// TaskStore owns an ordered collection of tasks. Insertion order is display
// order and ids are pairwise distinct.
type TaskStore struct {
	tasks []model.Task
}

// New returns an empty store.
func New() *TaskStore {
	return &TaskStore{tasks: []model.Task{}}
}

// Add appends a new pending task and returns it. Its id is one more than the
// largest id present, or 1 when the store is empty. The title must already be
// validated.
func (s *TaskStore) Add(title string) model.Task {
	t := model.Task{ID: model.MaxID(s.tasks) + 1, Name: title}
	s.tasks = append(s.tasks, t)
	return t
}

// Edit renames the task with the given id. The title must already be
// validated. It reports false and changes nothing when id is unknown.
func (s *TaskStore) Edit(id int, title string) bool {
	i := s.index(id)
	if i < 0 {
		return false
	}
	t := s.tasks[i]
	t.Name = title
	s.tasks[i] = t
	return true
}

// Toggle flips the completion flag of the task with the given id.
func (s *TaskStore) Toggle(id int) bool {
	i := s.index(id)
	if i < 0 {
		return false
	}
	t := s.tasks[i]
	t.Completed = !t.Completed
	s.tasks[i] = t
	return true
}

// Delete removes the task with the given id, keeping the order of the rest.
func (s *TaskStore) Delete(id int) bool {
	i := s.index(id)
	if i < 0 {
		return false
	}
	out := make([]model.Task, 0, len(s.tasks)-1)
	out = append(out, s.tasks[:i]...)
	out = append(out, s.tasks[i+1:]...)
	s.tasks = out
	return true
}

// ReplaceAll installs tasks as the whole collection without validation.
// It is meant for trusted input read back from storage.
func (s *TaskStore) ReplaceAll(tasks []model.Task) {
	s.tasks = model.Clone(tasks)
}

// Tasks returns a snapshot of the collection in insertion order.
func (s *TaskStore) Tasks() []model.Task {
	return model.Clone(s.tasks)
}

// Get returns the task with the given id.
func (s *TaskStore) Get(id int) (model.Task, bool) {
	i := s.index(id)
	if i < 0 {
		return model.Task{}, false
	}
	return s.tasks[i], true
}

// Len returns the number of tasks.
func (s *TaskStore) Len() int { return len(s.tasks) }

func (s *TaskStore) index(id int) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}
