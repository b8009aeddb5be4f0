// Package service forwards task operations to the repository and hosts the
// cross-cutting concerns around them: error logging, the read-through cache
// and lifecycle events.
package service

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
	"task-service/internal/models"
	"task-service/internal/repository"
	"task-service/pkg/logger"
)

// ErrNotFound is returned when the task does not exist.
var ErrNotFound = repository.ErrNotFound

// TaskRepository is the persistence contract the service forwards to.
type TaskRepository interface {
	Create(ctx context.Context, in models.TaskCreate) (*models.Task, error)
	List(ctx context.Context, offset, limit int) ([]models.Task, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Task, error)
	Update(ctx context.Context, id uuid.UUID, in models.TaskUpdate) (*models.Task, error)
	Delete(ctx context.Context, id uuid.UUID) (*models.Task, error)
	Ping(ctx context.Context) error
}

// TaskCache is an optional read-through cache for single tasks.
type TaskCache interface {
	Get(ctx context.Context, id uuid.UUID) (*models.Task, bool)
	Set(ctx context.Context, t *models.Task)
	Invalidate(ctx context.Context, id uuid.UUID)
}

// EventPublisher is an optional sink for lifecycle events.
type EventPublisher interface {
	Publish(ctx context.Context, ev *models.TaskEvent) error
}

// Option configures a TaskService.
type Option func(*TaskService)

// WithCache enables the read-through cache.
func WithCache(c TaskCache) Option {
	return func(s *TaskService) { s.cache = c }
}

// WithEvents enables lifecycle event publishing.
func WithEvents(p EventPublisher) Option {
	return func(s *TaskService) { s.events = p }
}

// TaskService is a thin wrapper around TaskRepository.
type TaskService struct {
	repo   TaskRepository
	log    *logger.Logger
	cache  TaskCache
	events EventPublisher
	group  singleflight.Group

	// writes counts committed updates and deletes; a cache fill that
	// overlaps one is dropped.
	writes atomic.Uint64
}

// NewTaskService returns a service forwarding to repo.
func NewTaskService(repo TaskRepository, log *logger.Logger, opts ...Option) *TaskService {
	s := &TaskService{repo: repo, log: log}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create stores a new task.
func (s *TaskService) Create(ctx context.Context, in models.TaskCreate) (*models.Task, error) {
	task, err := s.repo.Create(ctx, in)
	if err != nil {
		s.log.Error(ctx, "Error creating task", "error", err)
		return nil, err
	}
	if s.cache != nil {
		s.cache.Set(ctx, task)
	}
	s.publish(ctx, models.ActionCreated, task)
	return task, nil
}

// List returns a page of tasks.
func (s *TaskService) List(ctx context.Context, offset, limit int) ([]models.Task, error) {
	tasks, err := s.repo.List(ctx, offset, limit)
	if err != nil {
		s.log.Error(ctx, "Error fetching tasks", "error", err, "skip", offset, "limit", limit)
		return nil, err
	}
	return tasks, nil
}

// Get returns a single task or ErrNotFound.
func (s *TaskService) Get(ctx context.Context, id uuid.UUID) (*models.Task, error) {
	if s.cache == nil {
		return s.get(ctx, id)
	}
	if t, ok := s.cache.Get(ctx, id); ok {
		return t, nil
	}
	// The fetch is shared by every waiter on id, so it must not die with
	// the caller that happened to start it.
	fctx := context.WithoutCancel(ctx)
	v, err, _ := s.group.Do(id.String(), func() (any, error) {
		seen := s.writes.Load()
		t, err := s.get(fctx, id)
		if err != nil {
			return nil, err
		}
		s.cache.Set(fctx, t)
		if s.writes.Load() != seen {
			s.cache.Invalidate(fctx, id)
		}
		return t, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*models.Task), nil
}

func (s *TaskService) get(ctx context.Context, id uuid.UUID) (*models.Task, error) {
	task, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.log.Error(ctx, "Error fetching task", "error", err, "id", id)
		}
		return nil, err
	}
	return task, nil
}

// Update applies a partial update.
func (s *TaskService) Update(ctx context.Context, id uuid.UUID, in models.TaskUpdate) (*models.Task, error) {
	task, err := s.repo.Update(ctx, id, in)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.log.Error(ctx, "Error updating task", "error", err, "id", id)
		}
		return nil, err
	}
	s.writes.Add(1)
	if s.cache != nil {
		s.cache.Invalidate(ctx, id)
	}
	s.publish(ctx, models.ActionUpdated, task)
	return task, nil
}

// Delete removes a task and returns it as it was.
func (s *TaskService) Delete(ctx context.Context, id uuid.UUID) (*models.Task, error) {
	task, err := s.repo.Delete(ctx, id)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.log.Error(ctx, "Error deleting task", "error", err, "id", id)
		}
		return nil, err
	}
	s.writes.Add(1)
	if s.cache != nil {
		s.cache.Invalidate(ctx, id)
	}
	s.publish(ctx, models.ActionDeleted, task)
	return task, nil
}

// Ping checks database reachability.
func (s *TaskService) Ping(ctx context.Context) error {
	if err := s.repo.Ping(ctx); err != nil {
		s.log.Error(ctx, "Database unreachable", "error", err)
		return err
	}
	return nil
}

func (s *TaskService) publish(ctx context.Context, action string, t *models.Task) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, models.NewTaskEvent(action, t)); err != nil {
		s.log.Warn(ctx, "Publish task event failed", "error", err, "action", action, "id", t.ID)
	}
}
