package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"task-service/internal/database"
	"task-service/internal/models"
)

const tasksTable = "tasks"

var taskColumns = []string{"id", "title", "description", "status", "created_at", "updated_at"}

var returningTask = "RETURNING " + strings.Join(taskColumns, ", ")

// TaskRepository runs single-row task statements, each in its own transaction.
type TaskRepository struct {
	db      *sql.DB
	builder squirrel.StatementBuilderType
	now     func() time.Time
}

// NewTaskRepository returns a repository backed by db.
func NewTaskRepository(db *sql.DB) *TaskRepository {
	return &TaskRepository{
		db:      db,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
		now:     now,
	}
}

// now matches the microsecond precision of TIMESTAMPTZ so that values returned
// by a write compare equal to values read back later.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*models.Task, error) {
	var (
		t      models.Task
		desc   sql.NullString
		status string
	)
	if err := row.Scan(&t.ID, &t.Title, &desc, &status, &t.CreatedAt, &t.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if desc.Valid {
		t.Description = &desc.String
	}
	t.Status = models.Status(status)
	t.CreatedAt = t.CreatedAt.UTC()
	t.UpdatedAt = t.UpdatedAt.UTC()
	return &t, nil
}

// Create inserts a new task with a fresh id and returns the stored row.
func (r *TaskRepository) Create(ctx context.Context, in models.TaskCreate) (*models.Task, error) {
	in.Normalize()
	ts := r.now()
	query, args, err := r.builder.
		Insert(tasksTable).
		Columns(taskColumns...).
		Values(uuid.New(), in.Title, in.Description, in.Status, ts, ts).
		Suffix(returningTask).
		ToSql()
	if err != nil {
		return nil, persistErr("create", err)
	}

	var task *models.Task
	err = database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		var err error
		task, err = scanTask(tx.QueryRowContext(ctx, query, args...))
		return err
	})
	if err != nil {
		return nil, persistErr("create", err)
	}
	return task, nil
}

// List returns at most limit tasks after skipping offset rows.
func (r *TaskRepository) List(ctx context.Context, offset, limit int) ([]models.Task, error) {
	if offset < 0 || limit < 0 {
		return nil, persistErr("list", fmt.Errorf("negative offset %d or limit %d", offset, limit))
	}
	query, args, err := r.builder.
		Select(taskColumns...).
		From(tasksTable).
		OrderBy("created_at", "id").
		Offset(uint64(offset)).
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, persistErr("list", err)
	}

	tasks := make([]models.Task, 0, limit)
	err = database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			t, err := scanTask(rows)
			if err != nil {
				return err
			}
			tasks = append(tasks, *t)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, persistErr("list", err)
	}
	return tasks, nil
}

// GetByID returns the task with the given id, or ErrNotFound.
func (r *TaskRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Task, error) {
	query, args, err := r.selectByID(id).ToSql()
	if err != nil {
		return nil, persistErr("get", err)
	}

	var task *models.Task
	err = database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		var err error
		task, err = scanTask(tx.QueryRowContext(ctx, query, args...))
		return err
	})
	if err != nil {
		return nil, persistErr("get", err)
	}
	return task, nil
}

// Update applies the set fields of in to the task and refreshes updated_at.
// The row is locked for the duration of the read-modify-write.
func (r *TaskRepository) Update(ctx context.Context, id uuid.UUID, in models.TaskUpdate) (*models.Task, error) {
	var task *models.Task
	err := database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		current, err := r.lockByID(ctx, tx, id)
		if err != nil {
			return err
		}

		ts := r.now()
		if !ts.After(current.UpdatedAt) {
			ts = current.UpdatedAt.Add(time.Microsecond)
		}
		set := map[string]any{"updated_at": ts}
		if in.Title != nil {
			set["title"] = *in.Title
		}
		if in.Description != nil {
			set["description"] = *in.Description
		}
		if in.Status != nil {
			set["status"] = *in.Status
		}

		query, args, err := r.builder.
			Update(tasksTable).
			SetMap(set).
			Where(squirrel.Eq{"id": id.String()}).
			Suffix(returningTask).
			ToSql()
		if err != nil {
			return err
		}
		task, err = scanTask(tx.QueryRowContext(ctx, query, args...))
		return err
	})
	if err != nil {
		return nil, persistErr("update", err)
	}
	return task, nil
}

// Delete removes the task and returns it as it was before deletion.
func (r *TaskRepository) Delete(ctx context.Context, id uuid.UUID) (*models.Task, error) {
	var task *models.Task
	err := database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		var err error
		task, err = r.lockByID(ctx, tx, id)
		if err != nil {
			return err
		}
		query, args, err := r.builder.
			Delete(tasksTable).
			Where(squirrel.Eq{"id": id.String()}).
			ToSql()
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, query, args...)
		return err
	})
	if err != nil {
		return nil, persistErr("delete", err)
	}
	return task, nil
}

// Ping runs a trivial query against the database.
func (r *TaskRepository) Ping(ctx context.Context) error {
	return database.Ping(ctx, r.db)
}

func (r *TaskRepository) selectByID(id uuid.UUID) squirrel.SelectBuilder {
	return r.builder.
		Select(taskColumns...).
		From(tasksTable).
		Where(squirrel.Eq{"id": id.String()})
}

func (r *TaskRepository) lockByID(ctx context.Context, tx *sql.Tx, id uuid.UUID) (*models.Task, error) {
	query, args, err := r.selectByID(id).Suffix("FOR UPDATE").ToSql()
	if err != nil {
		return nil, err
	}
	return scanTask(tx.QueryRowContext(ctx, query, args...))
}
