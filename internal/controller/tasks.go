package controller

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"task-service/internal/models"
	"task-service/internal/service"
	"task-service/pkg/logger"
)

const (
	defaultLimit = 10
	// limitBound is exclusive: limit must be strictly less than it.
	limitBound = 50
)

// TaskService is what the handlers need from the service layer.
type TaskService interface {
	Create(ctx context.Context, in models.TaskCreate) (*models.Task, error)
	List(ctx context.Context, offset, limit int) ([]models.Task, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Task, error)
	Update(ctx context.Context, id uuid.UUID, in models.TaskUpdate) (*models.Task, error)
	Delete(ctx context.Context, id uuid.UUID) (*models.Task, error)
	Ping(ctx context.Context) error
}

// TaskController holds the task and health handlers.
type TaskController struct {
	svc                    TaskService
	log                    *logger.Logger
	allowDescriptionUpdate bool
	readyChecks            []ReadyCheck
}

// Option configures a TaskController.
type Option func(*TaskController)

// WithDescriptionUpdates lets PUT change the description.
func WithDescriptionUpdates(allow bool) Option {
	return func(tc *TaskController) { tc.allowDescriptionUpdate = allow }
}

// WithReadyChecks adds dependencies probed by Ready besides the database.
func WithReadyChecks(checks ...ReadyCheck) Option {
	return func(tc *TaskController) { tc.readyChecks = append(tc.readyChecks, checks...) }
}

// NewTaskController returns the handlers bound to svc.
func NewTaskController(svc TaskService, log *logger.Logger, opts ...Option) *TaskController {
	tc := &TaskController{svc: svc, log: log}
	for _, opt := range opts {
		opt(tc)
	}
	return tc
}

// CreateTask handles POST /tasks.
func (tc *TaskController) CreateTask(c *gin.Context) {
	ctx := c.Request.Context()
	var in models.TaskCreate
	if !bindJSON(c, &in) {
		return
	}
	in.Normalize()

	task, err := tc.svc.Create(ctx, in)
	if err != nil {
		fail(c, http.StatusInternalServerError, "Error creating task")
		return
	}
	c.JSON(http.StatusCreated, success("Task created successfully", task))
}

// ListTasks handles GET /tasks?skip=&limit=.
func (tc *TaskController) ListTasks(c *gin.Context) {
	ctx := c.Request.Context()
	skip, limit, ve := parsePage(c)
	if ve != nil {
		validationFailed(c, ve)
		return
	}

	tasks, err := tc.svc.List(ctx, skip, limit)
	if err != nil {
		fail(c, http.StatusInternalServerError, "Error fetching tasks")
		return
	}
	c.JSON(http.StatusOK, success("Tasks fetched successfully", tasks))
}

// GetTask handles GET /tasks/:id.
func (tc *TaskController) GetTask(c *gin.Context) {
	ctx := c.Request.Context()
	id, ok := parseID(c)
	if !ok {
		return
	}

	task, err := tc.svc.Get(ctx, id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			fail(c, http.StatusNotFound, "Task not found")
			return
		}
		fail(c, http.StatusInternalServerError, "Error fetching task")
		return
	}
	c.JSON(http.StatusOK, success("Task fetched successfully", task))
}

// UpdateTask handles PUT /tasks/:id.
func (tc *TaskController) UpdateTask(c *gin.Context) {
	ctx := c.Request.Context()
	id, ok := parseID(c)
	if !ok {
		return
	}
	var in models.TaskUpdate
	if !bindJSON(c, &in) {
		return
	}
	if in.Description != nil && !tc.allowDescriptionUpdate {
		tc.log.Debug(ctx, "Description update disabled; field ignored", "id", id)
		in.Description = nil
	}

	task, err := tc.svc.Update(ctx, id, in)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			fail(c, http.StatusNotFound, "Task not found")
			return
		}
		fail(c, http.StatusInternalServerError, "Error updating task")
		return
	}
	c.JSON(http.StatusOK, success("Task updated successfully", task))
}

// DeleteTask handles DELETE /tasks/:id. A 204 carries no body.
func (tc *TaskController) DeleteTask(c *gin.Context) {
	ctx := c.Request.Context()
	id, ok := parseID(c)
	if !ok {
		return
	}

	if _, err := tc.svc.Delete(ctx, id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			fail(c, http.StatusNotFound, "Task not found")
			return
		}
		fail(c, http.StatusInternalServerError, "Error deleting task")
		return
	}
	c.JSON(http.StatusNoContent, success("Task deleted successfully", []any{}))
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		validationFailed(c, models.NewValidationError("body", "invalid JSON body: "+err.Error()))
		return false
	}
	if err := models.Validate(dst); err != nil {
		var ve *models.ValidationError
		if !errors.As(err, &ve) {
			ve = models.NewValidationError("body", err.Error())
		}
		validationFailed(c, ve)
		return false
	}
	return true
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		validationFailed(c, models.NewValidationError("id", "must be a valid UUID"))
		return uuid.Nil, false
	}
	return id, true
}

func parsePage(c *gin.Context) (skip, limit int, ve *models.ValidationError) {
	var fields []models.FieldError
	skip, err := strconv.Atoi(c.DefaultQuery("skip", "0"))
	if err != nil || skip < 0 {
		fields = append(fields, models.FieldError{Field: "skip", Message: "must be a non-negative integer"})
	}
	limit, err = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLimit)))
	if err != nil || limit < 0 || limit >= limitBound {
		fields = append(fields, models.FieldError{Field: "limit", Message: "must be an integer less than " + strconv.Itoa(limitBound)})
	}
	if len(fields) > 0 {
		return 0, 0, &models.ValidationError{Fields: fields}
	}
	return skip, limit, nil
}
