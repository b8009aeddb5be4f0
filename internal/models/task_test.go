package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func statusPtr(s Status) *Status { return &s }

func TestStatus_Valid(t *testing.T) {
	assert.True(t, StatusPending.Valid())
	assert.True(t, StatusInProgress.Valid())
	assert.True(t, StatusCompleted.Valid())
	assert.False(t, Status("in_progress").Valid())
	assert.False(t, Status("").Valid())
}

func TestValidate_TaskCreate(t *testing.T) {
	tests := []struct {
		name      string
		in        TaskCreate
		wantField string
	}{
		{name: "title only", in: TaskCreate{Title: "Buy milk"}},
		{name: "all fields", in: TaskCreate{Title: "Buy milk", Description: strPtr("2L"), Status: StatusInProgress}},
		{name: "missing title", in: TaskCreate{}, wantField: "title"},
		{name: "bad status", in: TaskCreate{Title: "x", Status: "done"}, wantField: "status"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := Validate(&tc.in)
			if tc.wantField == "" {
				assert.NoError(t, err)
				return
			}
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			require.Len(t, ve.Fields, 1)
			assert.Equal(t, tc.wantField, ve.Fields[0].Field)
		})
	}
}

func TestTaskCreate_NormalizeDefaultsToPending(t *testing.T) {
	in := TaskCreate{Title: "x"}
	in.Normalize()
	assert.Equal(t, StatusPending, in.Status)

	in = TaskCreate{Title: "x", Status: StatusCompleted}
	in.Normalize()
	assert.Equal(t, StatusCompleted, in.Status)
}

func TestValidate_TaskUpdate(t *testing.T) {
	assert.NoError(t, Validate(&TaskUpdate{}))
	assert.NoError(t, Validate(&TaskUpdate{Status: statusPtr(StatusCompleted)}))
	assert.NoError(t, Validate(&TaskUpdate{Title: strPtr("new")}))

	var ve *ValidationError
	require.ErrorAs(t, Validate(&TaskUpdate{Title: strPtr("")}), &ve)
	assert.Equal(t, "title", ve.Fields[0].Field)

	require.ErrorAs(t, Validate(&TaskUpdate{Status: statusPtr("archived")}), &ve)
	assert.Equal(t, "status", ve.Fields[0].Field)
}

func TestTaskUpdate_ApplyOnlySetFields(t *testing.T) {
	task := &Task{Title: "Buy milk", Description: strPtr("2L"), Status: StatusPending}

	TaskUpdate{Status: statusPtr(StatusCompleted)}.Apply(task)
	assert.Equal(t, "Buy milk", task.Title)
	assert.Equal(t, "2L", *task.Description)
	assert.Equal(t, StatusCompleted, task.Status)

	TaskUpdate{Title: strPtr("Buy oat milk"), Description: strPtr("1L")}.Apply(task)
	assert.Equal(t, "Buy oat milk", task.Title)
	assert.Equal(t, "1L", *task.Description)
	assert.Equal(t, StatusCompleted, task.Status)

	assert.True(t, TaskUpdate{}.Empty())
	assert.False(t, TaskUpdate{Title: strPtr("x")}.Empty())
}

func TestTask_JSON(t *testing.T) {
	id := uuid.MustParse("6f1c2a8e-3b7d-4c55-9a31-0d2e6b9f4a10")
	ts := time.Date(2026, 10, 17, 9, 30, 0, 123456000, time.UTC)
	task := Task{ID: id, Title: "Buy milk", Status: StatusPending, CreatedAt: ts, UpdatedAt: ts}

	b, err := json.Marshal(task)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"id": "6f1c2a8e-3b7d-4c55-9a31-0d2e6b9f4a10",
		"title": "Buy milk",
		"description": null,
		"status": "pending",
		"created_at": "2026-10-17T09:30:00.123456Z",
		"updated_at": "2026-10-17T09:30:00.123456Z"
	}`, string(b))
}

func TestUpdateJSON_AbsentVersusPresent(t *testing.T) {
	var in TaskUpdate
	require.NoError(t, json.Unmarshal([]byte(`{"status":"completed"}`), &in))
	assert.Nil(t, in.Title)
	assert.Nil(t, in.Description)
	require.NotNil(t, in.Status)
	assert.Equal(t, StatusCompleted, *in.Status)
}

func TestNewTaskEvent(t *testing.T) {
	task := &Task{ID: uuid.New(), Title: "x"}
	ev := NewTaskEvent(ActionDeleted, task)
	assert.Equal(t, ActionDeleted, ev.Action)
	assert.Equal(t, task.ID.String(), ev.TaskID)
	assert.Same(t, task, ev.Task)
	assert.False(t, ev.OccurredAt.IsZero())
}
