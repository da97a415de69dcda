// Package tasks sequences title validation, store mutation, and persistence
// for every user action. It is the only entry point the presentation layer
// needs.
package tasks

import (
	"context"
	"errors"

	"github.com/charmbracelet/log"

	"github.com/Makepad-fr/tada/internal/logging"
	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/persist"
	"github.com/Makepad-fr/tada/internal/store"
	"github.com/Makepad-fr/tada/internal/validate"
)

// Observer receives the full task list after each successful mutation.
type Observer func(tasks []model.Task)

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger used for storage faults and diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithObserver registers fn to be notified after every mutation.
func WithObserver(fn Observer) Option {
	return func(s *Service) { s.observers = append(s.observers, fn) }
}

// Service owns the task store for a session and writes it through the
// bridge after each mutation. Like the store, it is not safe for concurrent
// use.
type Service struct {
	store     *store.TaskStore
	bridge    *persist.Bridge
	logger    *log.Logger
	observers []Observer
	saveErr   error
}

// New returns a Service over st, persisting through b.
func New(st *store.TaskStore, b *persist.Bridge, opts ...Option) *Service {
	s := &Service{store: st, bridge: b}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logging.Discard()
	}
	return s
}

// Open loads the stored collection. Unusable stored data is logged and the
// session starts empty; the returned error is informational only.
func (s *Service) Open(ctx context.Context) error {
	err := s.bridge.Load(ctx, s.store)
	if err != nil {
		var le *persist.LoadError
		if errors.As(err, &le) && errors.Is(err, persist.ErrMalformed) {
			s.logger.Warn("stored tasks ignored", "err", err)
		} else {
			s.logger.Warn("could not read stored tasks", "err", err)
		}
		return err
	}
	s.logger.Debug("tasks loaded", "count", s.store.Len())
	return nil
}

// Add validates title and appends a new task.
func (s *Service) Add(ctx context.Context, title string) ([]model.Task, error) {
	if err := validate.Title(title); err != nil {
		return nil, err
	}
	t := s.store.Add(title)
	s.logger.Debug("task added", "id", t.ID)
	return s.commit(ctx), nil
}

// Edit validates title and renames the task with the given id. An unknown
// id changes nothing and is not an error.
func (s *Service) Edit(ctx context.Context, id int, title string) ([]model.Task, error) {
	if err := validate.Title(title); err != nil {
		return nil, err
	}
	if !s.store.Edit(id, title) {
		s.logger.Debug("edit of unknown task ignored", "id", id)
		return s.store.Tasks(), nil
	}
	return s.commit(ctx), nil
}

// Toggle flips the completion flag of the task with the given id.
func (s *Service) Toggle(ctx context.Context, id int) []model.Task {
	if !s.store.Toggle(id) {
		s.logger.Debug("toggle of unknown task ignored", "id", id)
		return s.store.Tasks()
	}
	return s.commit(ctx)
}

// Delete removes the task with the given id.
func (s *Service) Delete(ctx context.Context, id int) []model.Task {
	if !s.store.Delete(id) {
		s.logger.Debug("delete of unknown task ignored", "id", id)
		return s.store.Tasks()
	}
	return s.commit(ctx)
}

// Tasks returns a snapshot of the current collection.
func (s *Service) Tasks() []model.Task { return s.store.Tasks() }

// Get returns the task with the given id.
func (s *Service) Get(id int) (model.Task, bool) { return s.store.Get(id) }

// LastSaveError returns the error from the most recent save, or nil if it
// succeeded.
func (s *Service) LastSaveError() error { return s.saveErr }

// Close releases the storage slot.
func (s *Service) Close() error { return s.bridge.Close() }

// commit writes the collection and notifies observers. A failed write leaves
// the in-memory state authoritative.
func (s *Service) commit(ctx context.Context) []model.Task {
	snap := s.store.Tasks()
	s.saveErr = s.bridge.Save(ctx, snap)
	if s.saveErr != nil {
		s.logger.Warn("changes not persisted", "err", s.saveErr)
	} else {
		s.logger.Debug("tasks saved", "count", len(snap))
	}
	for _, fn := range s.observers {
		fn(model.Clone(snap))
	}
	return snap
}
