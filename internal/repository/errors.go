package repository

import (
	"errors"

	"github.com/lib/pq"
)

// ErrNotFound is returned when no task matches the given id.
var ErrNotFound = errors.New("task not found")

// PersistenceError wraps a database failure with the operation that hit it.
type PersistenceError struct {
	Op   string
	Code string // postgres SQLSTATE, if the driver reported one
	Err  error
}

func (e *PersistenceError) Error() string {
	if e.Code != "" {
		return "repository " + e.Op + " (" + e.Code + "): " + e.Err.Error()
	}
	return "repository " + e.Op + ": " + e.Err.Error()
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func persistErr(op string, err error) error {
	if err == nil || errors.Is(err, ErrNotFound) {
		return err
	}
	var pe *PersistenceError
	if errors.As(err, &pe) {
		return err
	}
	out := &PersistenceError{Op: op, Err: err}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		out.Code = string(pqErr.Code)
	}
	return out
}
