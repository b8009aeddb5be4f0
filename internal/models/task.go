package models

import (
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a task.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
)

// Valid reports whether s is one of the defined statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// Task represents a stored task. It is also the output representation.
type Task struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TaskCreate is the POST /tasks payload.
type TaskCreate struct {
	Title       string  `json:"title" validate:"required,min=1"`
	Description *string `json:"description"`
	Status      Status  `json:"status" validate:"omitempty,task_status"`
}

// Normalize fills defaults after validation.
func (in *TaskCreate) Normalize() {
	if in.Status == "" {
		in.Status = StatusPending
	}
}

// TaskUpdate is the PUT /tasks/{id} payload. Nil fields are left untouched.
type TaskUpdate struct {
	Title       *string `json:"title" validate:"omitempty,min=1"`
	Description *string `json:"description"`
	Status      *Status `json:"status" validate:"omitempty,task_status"`
}

// Empty reports whether no field is set.
func (in TaskUpdate) Empty() bool {
	return in.Title == nil && in.Description == nil && in.Status == nil
}

// Apply copies the set fields of in onto t.
func (in TaskUpdate) Apply(t *Task) {
	if in.Title != nil {
		t.Title = *in.Title
	}
	if in.Description != nil {
		d := *in.Description
		t.Description = &d
	}
	if in.Status != nil {
		t.Status = *in.Status
	}
}

// Event actions published after a successful mutation.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// TaskEvent is the message payload for Kafka.
type TaskEvent struct {
	Action     string    `json:"action"`
	TaskID     string    `json:"task_id"`
	Task       *Task     `json:"task,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewTaskEvent builds an event for t stamped with the current time.
func NewTaskEvent(action string, t *Task) *TaskEvent {
	return &TaskEvent{
		Action:     action,
		TaskID:     t.ID.String(),
		Task:       t,
		OccurredAt: time.Now().UTC(),
	}
}
